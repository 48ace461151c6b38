package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnalogGroup is a named pool of interchangeable tasks. Membership is
// set-valued: the join table's composite key forbids duplicates and no
// ordering is defined.
type AnalogGroup struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Description string         `gorm:"column:description" json:"description"`
	Tasks       []*Task        `gorm:"many2many:task_group" json:"tasks,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AnalogGroup) TableName() string { return "analog_group" }

func (g *AnalogGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}
