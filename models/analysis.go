package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusPending  AnalysisStatus = "PENDING"
	StatusApproved AnalysisStatus = "APPROVED"
	StatusRejected AnalysisStatus = "REJECTED"
)

type ProductionStage string

const (
	StagePlanning     ProductionStage = "PLANNING" // giai đoạn vào pipeline sau khi duyệt
	StagePlanned      ProductionStage = "PLANNED"
	StageShooting     ProductionStage = "SHOOTING"
	StageShootReview  ProductionStage = "SHOOT_REVIEW"
	StageReadyForEdit ProductionStage = "READY_FOR_EDIT"
	StageEditing      ProductionStage = "EDITING"
	StageEditReview   ProductionStage = "EDIT_REVIEW"
	StageFinalReview  ProductionStage = "FINAL_REVIEW"
	StageReadyToPost  ProductionStage = "READY_TO_POST"
	StagePosted       ProductionStage = "POSTED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityNormal Priority = "NORMAL"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

type PostingPlatform string

const (
	PlatformYoutubeShorts PostingPlatform = "YOUTUBE_SHORTS"
	PlatformYoutubeVideo  PostingPlatform = "YOUTUBE_VIDEO"
	PlatformTiktok        PostingPlatform = "TIKTOK"
	PlatformInstagram     PostingPlatform = "INSTAGRAM_REELS"
	PlatformFacebook      PostingPlatform = "FACEBOOK_REELS"
)

// PostedURLEntry là một lần đăng đã hoàn tất (log append-only trong posted_urls)
type PostedURLEntry struct {
	URL      string    `json:"url"`
	PostedAt time.Time `json:"posted_at"`
}

// ViralAnalysis là đơn vị công việc của toàn hệ thống: biên kịch nộp phân tích,
// admin chấm điểm, sau khi duyệt thì đi qua pipeline sản xuất đến khi đăng bài.
type ViralAnalysis struct {
	ID    uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title string    `gorm:"size:255;not null" json:"title"`

	// Nội dung phân tích
	SourceURL  string `gorm:"size:500" json:"source_url"` // video viral gốc
	Hook       string `gorm:"type:text" json:"hook"`
	ScriptText string `gorm:"type:text" json:"script_text"` // trích xuất từ file kịch bản

	Status          AnalysisStatus   `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ProductionStage *ProductionStage `gorm:"type:varchar(30)" json:"production_stage,omitempty"` // null khi chưa duyệt
	Priority        Priority         `gorm:"type:varchar(10);not null;default:'NORMAL'" json:"priority"`

	// Điểm review gần nhất (lịch sử đầy đủ nằm ở AnalysisReview)
	HookStrength       *int     `json:"hook_strength,omitempty"`
	ContentQuality     *int     `json:"content_quality,omitempty"`
	ViralPotential     *int     `json:"viral_potential,omitempty"`
	ReplicationClarity *int     `json:"replication_clarity,omitempty"`
	OverallScore       *float64 `gorm:"type:numeric(3,1)" json:"overall_score,omitempty"`

	RejectionCount    int    `gorm:"default:0" json:"rejection_count"`
	DisapprovalCount  int    `gorm:"default:0" json:"disapproval_count"` // số lần bị trả về PENDING sau khi đã duyệt
	IsDissolved       bool   `gorm:"default:false" json:"is_dissolved"`
	DissolutionReason string `gorm:"size:255" json:"dissolution_reason,omitempty"`

	ContentID *string `gorm:"size:50;uniqueIndex" json:"content_id,omitempty"` // sinh khi duyệt kèm social profile

	// Thông tin sản xuất
	ProductionNotes     string     `gorm:"type:text" json:"production_notes"`
	AdminRemarks        string     `gorm:"type:text" json:"admin_remarks"`
	AdminFeedback       string     `gorm:"type:text" json:"admin_feedback"`
	VoiceFeedbackURL    string     `gorm:"size:500" json:"voice_feedback_url,omitempty"`
	PlannedDate         *time.Time `json:"planned_date,omitempty"`
	ShootPossibility    int        `gorm:"default:0" json:"shoot_possibility"` // 25/50/75/100
	TotalPeopleInvolved int        `gorm:"default:0" json:"total_people_involved"`

	// Thông tin đăng bài (platform hiện tại trong hàng đợi)
	PostingPlatform   *PostingPlatform `gorm:"type:varchar(30)" json:"posting_platform,omitempty"`
	PostingCaption    string           `gorm:"type:text" json:"posting_caption,omitempty"`
	PostingHeading    string           `gorm:"size:255" json:"posting_heading,omitempty"`
	PostingHashtags   []string         `gorm:"serializer:json;type:jsonb" json:"posting_hashtags,omitempty"`
	ScheduledPostTime *time.Time       `json:"scheduled_post_time,omitempty"`
	PostedURL         string           `gorm:"size:500" json:"posted_url,omitempty"`
	PostedAt          *time.Time       `json:"posted_at,omitempty"`
	PostedURLs        []PostedURLEntry `gorm:"serializer:json;type:jsonb" json:"posted_urls,omitempty"`

	// Khóa ngoại
	CreatedBy       uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	Writer          Profile    `gorm:"foreignKey:CreatedBy;references:ID;constraint:OnDelete:CASCADE;" json:"writer,omitempty"`
	SocialProfileID *uuid.UUID `gorm:"type:uuid" json:"social_profile_id,omitempty"`
	IndustryID      *uuid.UUID `gorm:"type:uuid" json:"industry_id,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Quan hệ
	SocialProfile *SocialProfile      `gorm:"foreignKey:SocialProfileID;references:ID" json:"social_profile,omitempty"`
	Industry      *Industry           `gorm:"foreignKey:IndustryID;references:ID" json:"industry,omitempty"`
	HookTags      []HookTag           `gorm:"many2many:analysis_hook_tags;" json:"hook_tags,omitempty"`
	CharacterTags []CharacterTag      `gorm:"many2many:analysis_character_tags;" json:"character_tags,omitempty"`
	Assignments   []ProjectAssignment `gorm:"foreignKey:AnalysisID" json:"assignments,omitempty"`
	Files         []ProductionFile    `gorm:"foreignKey:AnalysisID" json:"files,omitempty"`
	Reviews       []AnalysisReview    `gorm:"foreignKey:AnalysisID" json:"reviews,omitempty"`
}
