package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project types. A project is either a word-processor document or a slide
// deck; the type decides which prompts, renderer and export format apply.
const (
	ProjectTypeDocx = "docx"
	ProjectTypePptx = "pptx"
)

type Project struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Title     string         `gorm:"column:title;not null" json:"title"`
	Type      string         `gorm:"column:type;not null" json:"type"`
	Prompt    string         `gorm:"column:prompt" json:"prompt"`
	Metadata  datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata"`
	Sections  []*Section     `gorm:"foreignKey:ProjectID;references:ID" json:"sections,omitempty"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (Project) TableName() string { return "project" }
