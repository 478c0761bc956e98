package types

import (
	"time"

	"github.com/google/uuid"
)

type Section struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ProjectID   uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project     *Project  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ProjectID;references:ID" json:"project,omitempty"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Content     string    `gorm:"column:content;type:text" json:"content"`
	HTMLContent string    `gorm:"column:html_content;type:text" json:"html_content"`
	OrderIndex  int       `gorm:"column:order_index;not null;index" json:"order_index"`
	CreatedAt   time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Section) TableName() string { return "section" }
