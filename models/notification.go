package models

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null;index" json:"profile_id"` // người nhận
	Title     string    `gorm:"size:255;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Type      string    `gorm:"size:50" json:"type"` // review_result, assignment, stage_change, posting
	IsRead    bool      `gorm:"default:false" json:"is_read"`

	AnalysisID *uuid.UUID `gorm:"type:uuid" json:"analysis_id,omitempty"` // phân tích liên quan (nếu có)
	RelatedURL *string    `gorm:"size:500" json:"related_url,omitempty"`

	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`

	Profile Profile `gorm:"constraint:OnDelete:CASCADE;" json:"profile,omitempty"`
}
