package models

import (
	"time"

	"github.com/google/uuid"
)

type ProfileRole string

const (
	RoleScriptWriter   ProfileRole = "SCRIPT_WRITER"   // Biên kịch (người nộp phân tích viral)
	RoleVideographer   ProfileRole = "VIDEOGRAPHER"    // Quay phim
	RoleEditor         ProfileRole = "EDITOR"          // Dựng phim
	RolePostingManager ProfileRole = "POSTING_MANAGER" // Quản lý đăng bài
	RoleSuperAdmin     ProfileRole = "SUPER_ADMIN"     // Quản trị hệ thống
)

// Profile là tài khoản nội bộ, ánh xạ 1-1 với user bên Authentik qua email.
// Token phát hành cho client luôn mang sub = Profile.ID (không phải ID của Authentik).
type Profile struct {
	ID       uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FullName string      `gorm:"size:150;not null" json:"full_name"`
	Email    string      `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Password string      `gorm:"type:text" json:"-"` // chỉ dùng cho chế độ local fallback, rỗng khi dùng Authentik
	Role     ProfileRole `gorm:"type:varchar(30);not null;default:'SCRIPT_WRITER'" json:"role"`
	Status   *bool       `gorm:"default:true" json:"status"` // false = tài khoản bị khóa

	// Cờ dành cho biên kịch tin cậy. Hiện chỉ lưu và hiển thị,
	// chưa có đường đi nào bỏ qua bước review (chờ xác nhận nghiệp vụ).
	IsTrustedWriter bool `gorm:"default:false" json:"is_trusted_writer"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	Assignments []ProjectAssignment `gorm:"foreignKey:ProfileID" json:"assignments,omitempty"`
}

// PasswordReset lưu token đặt lại mật khẩu dùng một lần
type PasswordReset struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ProfileID uuid.UUID `gorm:"type:uuid;not null" json:"profile_id"`
	Token     string    `gorm:"size:128;uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
	Used      bool      `gorm:"default:false" json:"used"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Profile Profile `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
}
