package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image position tags. The tag controls layout geometry at document
// generation time; unknown values fall back to PositionBottom70.
const (
	PositionRight40   = "right_40"
	PositionRight20   = "right_20"
	PositionBottom100 = "bottom_100"
	PositionBottom70  = "bottom_70"
)

type TaskImage struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TaskID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"task_id"`
	Task      *Task          `gorm:"constraint:OnDelete:CASCADE;foreignKey:TaskID;references:ID" json:"task,omitempty"`
	FilePath  string         `gorm:"column:file_path;not null" json:"file_path"`
	Position  string         `gorm:"column:position;not null;default:bottom_70" json:"position"`
	Caption   string         `gorm:"column:caption" json:"caption"`
	Order     int            `gorm:"column:display_order;not null;default:1" json:"order"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TaskImage) TableName() string { return "task_image" }

func (i *TaskImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
