package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	FeedbackTypeLike    = "like"
	FeedbackTypeDislike = "dislike"
)

// SectionFeedback is one user's like/dislike on one section; at most one row
// per (section, user) pair.
type SectionFeedback struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	SectionID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_feedback_section_user" json:"section_id"`
	Section   *Section  `gorm:"constraint:OnDelete:CASCADE;foreignKey:SectionID;references:ID" json:"section,omitempty"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_section_feedback_section_user" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Type      string    `gorm:"column:type;not null" json:"type"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (SectionFeedback) TableName() string { return "section_feedback" }
