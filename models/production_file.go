package models

import (
	"time"

	"github.com/google/uuid"
)

type FileType string

const (
	FileRawFootage  FileType = "RAW_FOOTAGE"
	FileEditedVideo FileType = "EDITED_VIDEO"
	FileFinalVideo  FileType = "FINAL_VIDEO"
	FileThumbnail   FileType = "THUMBNAIL"
	FileScript      FileType = "SCRIPT"
)

// IsRawFootage: loại file tính là footage thô (điều kiện để editor pick project)
func (t FileType) IsRawFootage() bool {
	return t == FileRawFootage
}

// IsEditedOutput: loại file tính là sản phẩm dựng (điều kiện để hoàn tất editing)
func (t FileType) IsEditedOutput() bool {
	return t == FileEditedVideo || t == FileFinalVideo
}

// ProductionFile là file sản xuất gắn với một phân tích, lưu trên Supabase Storage.
// Xóa là soft delete: chỉ bật is_deleted, object trên storage giữ nguyên.
type ProductionFile struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AnalysisID uuid.UUID `gorm:"type:uuid;not null;index" json:"analysis_id"`
	FileType   FileType  `gorm:"type:varchar(20);not null" json:"file_type"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	FileURL    string    `gorm:"size:500;not null" json:"file_url"`
	SizeBytes  int64     `gorm:"default:0" json:"size_bytes"`
	IsDeleted  bool      `gorm:"default:false" json:"is_deleted"`
	UploadedBy uuid.UUID `gorm:"type:uuid;not null" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`

	Analysis ViralAnalysis `gorm:"foreignKey:AnalysisID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	Uploader Profile       `gorm:"foreignKey:UploadedBy;references:ID" json:"uploader,omitempty"`
}
