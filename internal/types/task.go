package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Task struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Text          string         `gorm:"column:text;not null" json:"text"`
	Answer        string         `gorm:"column:answer" json:"answer"`
	ShortSolution string         `gorm:"column:short_solution" json:"short_solution"`
	FullSolution  string         `gorm:"column:full_solution" json:"full_solution"`
	Hint          string         `gorm:"column:hint" json:"hint"`
	Instruction   string         `gorm:"column:instruction" json:"instruction"`
	Section       string         `gorm:"column:section" json:"section"`
	Topic         string         `gorm:"column:topic" json:"topic"`
	Subtopic      string         `gorm:"column:subtopic" json:"subtopic"`
	TaskType      string         `gorm:"column:task_type" json:"task_type"`
	Difficulty    int            `gorm:"column:difficulty;not null;default:1" json:"difficulty"`
	Images        []TaskImage    `gorm:"foreignKey:TaskID" json:"images,omitempty"`
	Groups        []*AnalogGroup `gorm:"many2many:task_group" json:"groups,omitempty"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Task) TableName() string { return "task" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TextField is one named renderable field of a task.
type TextField struct {
	Name  string
	Value string
}

// TextFields returns the renderable free-text fields in a fixed order.
// Each may embed $...$ / $$...$$ math spans.
func (t *Task) TextFields() []TextField {
	return []TextField{
		{"text", t.Text},
		{"answer", t.Answer},
		{"short_solution", t.ShortSolution},
		{"full_solution", t.FullSolution},
		{"hint", t.Hint},
		{"instruction", t.Instruction},
	}
}
