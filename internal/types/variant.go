package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Variant is one numbered instantiation of a Work with a materialized task
// selection. Created only by the variant generator; regeneration appends
// new variants with fresh numbers rather than mutating existing ones.
type Variant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	WorkID    uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_variant_work_number" json:"work_id"`
	Work      *Work          `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkID;references:ID" json:"work,omitempty"`
	Number    int            `gorm:"column:number;not null;uniqueIndex:idx_variant_work_number" json:"number"`
	Tasks     []*Task        `gorm:"many2many:variant_task" json:"tasks,omitempty"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Variant) TableName() string { return "variant" }

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
