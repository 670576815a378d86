package models

import (
	"time"

	"github.com/google/uuid"
)

// SocialProfile là kênh/profile mạng xã hội mà nội dung được sản xuất cho.
// LastContentNumber là bộ đếm cấp content ID: tăng trong transaction
// mỗi khi một phân tích được duyệt kèm profile (CODE-0001, CODE-0002...).
type SocialProfile struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string    `gorm:"size:100;not null" json:"name"`
	Code              string    `gorm:"size:10;uniqueIndex;not null" json:"code"`
	LastContentNumber int       `gorm:"default:0" json:"last_content_number"`
	IsActive          bool      `gorm:"default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
