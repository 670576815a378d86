package models

import (
	"time"

	"github.com/google/uuid"
)

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "APPROVE"
	DecisionReject  ReviewDecision = "REJECT"
)

// AnalysisReview là một lần chấm điểm của admin trên một phân tích.
// ViralAnalysis chỉ giữ điểm của lần gần nhất, bảng này giữ toàn bộ lịch sử.
type AnalysisReview struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null" json:"reviewer_id"`

	Decision ReviewDecision `gorm:"type:varchar(10);not null" json:"decision"`

	HookStrength       int     `gorm:"not null" json:"hook_strength"`
	ContentQuality     int     `gorm:"not null" json:"content_quality"`
	ViralPotential     int     `gorm:"not null" json:"viral_potential"`
	ReplicationClarity int     `gorm:"not null" json:"replication_clarity"`
	OverallScore       float64 `gorm:"type:numeric(3,1);not null" json:"overall_score"`

	Feedback             string  `gorm:"type:text" json:"feedback"`
	VoiceFeedbackURL     string  `gorm:"size:500" json:"voice_feedback_url,omitempty"`
	VoiceFeedbackSeconds float64 `gorm:"default:0" json:"voice_feedback_seconds,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	Analysis ViralAnalysis `gorm:"foreignKey:AnalysisID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Reviewer Profile       `gorm:"foreignKey:ReviewerID;references:ID" json:"reviewer,omitempty"`
}
