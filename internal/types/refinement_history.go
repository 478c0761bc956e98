package types

import (
	"time"

	"github.com/google/uuid"
)

// RefinementHistory keeps every rewrite of a section so a bad refinement is
// never destructive.
type RefinementHistory struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID       uuid.UUID `gorm:"type:uuid;not null;index" json:"section_id"`
	Section         *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	Prompt          string    `gorm:"column:prompt;type:text" json:"prompt"`
	PreviousContent string    `gorm:"column:previous_content;type:text" json:"previous_content"`
	NewContent      string    `gorm:"column:new_content;type:text" json:"new_content"`
	CreatedAt       time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RefinementHistory) TableName() string { return "refinement_history" }
