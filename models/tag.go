package models

import (
	"time"

	"github.com/google/uuid"
)

// HookTag phân loại kiểu hook của phân tích (question hook, shock hook...)
type HookTag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;unique" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Analyses []ViralAnalysis `gorm:"many2many:analysis_hook_tags" json:"analyses,omitempty"`
}

// CharacterTag phân loại nhân vật xuất hiện trong video
type CharacterTag struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:50;not null;unique" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Analyses []ViralAnalysis `gorm:"many2many:analysis_character_tags" json:"analyses,omitempty"`
}

// Industry là ngành hàng/lĩnh vực của nội dung
type Industry struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
