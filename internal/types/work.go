package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Work is an assessment template: an ordered list of (group, quota) pairs
// plus a monotonic variant counter. The counter only ever grows, even when
// variants are deleted, so variant numbers are never reused.
type Work struct {
	ID             uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string            `gorm:"column:name;not null" json:"name"`
	Duration       int               `gorm:"column:duration;not null;default:45" json:"duration"`
	VariantCounter int               `gorm:"column:variant_counter;not null;default:0" json:"variant_counter"`
	Metadata       datatypes.JSON    `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Groups         []WorkAnalogGroup `gorm:"foreignKey:WorkID" json:"groups,omitempty"`
	Variants       []Variant         `gorm:"foreignKey:WorkID" json:"variants,omitempty"`
	CreatedAt      time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt    `gorm:"index" json:"deleted_at,omitempty"`
}

func (Work) TableName() string { return "work" }

func (w *Work) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WorkAnalogGroup configures "draw Count tasks from this group per variant".
type WorkAnalogGroup struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WorkID        uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_work_group" json:"work_id"`
	Work          *Work          `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkID;references:ID" json:"work,omitempty"`
	AnalogGroupID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_work_group" json:"analog_group_id"`
	AnalogGroup   *AnalogGroup   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AnalogGroupID;references:ID" json:"analog_group,omitempty"`
	Count         int            `gorm:"column:count;not null" json:"count"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (WorkAnalogGroup) TableName() string { return "work_analog_group" }

func (c *WorkAnalogGroup) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
