package models

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentRole string

const (
	AssignVideographer   AssignmentRole = "VIDEOGRAPHER"
	AssignEditor         AssignmentRole = "EDITOR"
	AssignPostingManager AssignmentRole = "POSTING_MANAGER"
)

// ProjectAssignment gán một người vào một vai trò trên một phân tích.
// Unique index (analysis_id, role) đảm bảo mỗi vai trò chỉ có một người,
// kể cả khi hai request pick cùng lúc (ràng buộc ở DB thay vì check-then-insert).
type ProjectAssignment struct {
	ID         uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AnalysisID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_assignment_analysis_role" json:"analysis_id"`
	ProfileID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"profile_id"`
	Role       AssignmentRole `gorm:"type:varchar(20);not null;uniqueIndex:idx_assignment_analysis_role" json:"role"`
	AssignedBy *uuid.UUID     `gorm:"type:uuid" json:"assigned_by,omitempty"` // null = tự nhận (editor pick)
	CreatedAt  time.Time      `gorm:"autoCreateTime" json:"created_at"`

	Analysis ViralAnalysis `gorm:"foreignKey:AnalysisID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Profile  Profile       `gorm:"foreignKey:ProfileID;references:ID;constraint:OnDelete:CASCADE;" json:"profile,omitempty"`
}

// EditorRejection: editor ẩn một project khỏi danh sách khả dụng của mình.
// Lưu ở server theo tài khoản (trước đây nằm ở localStorage nên chỉ theo thiết bị).
type EditorRejection struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_editor_rejection" json:"analysis_id"`
	EditorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_editor_rejection" json:"editor_id"`
	RejectedAt time.Time `gorm:"autoCreateTime" json:"rejected_at"`

	Analysis ViralAnalysis `gorm:"foreignKey:AnalysisID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Editor   Profile       `gorm:"foreignKey:EditorID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
}
