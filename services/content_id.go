package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipcraft/viral-production-backend/models"
)

// GenerateContentID cấp content ID kế tiếp cho một social profile, dạng CODE-0001.
// Thay thế stored procedure của hệ thống cũ: khóa dòng profile trong transaction
// rồi tăng bộ đếm, nên hai lần duyệt song song không trùng số.
func GenerateContentID(tx *gorm.DB, profileID uuid.UUID) (string, error) {
	var profile models.SocialProfile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&profile, "id = ?", profileID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", NewWorkflowError(ErrKindNotFound, "Social profile not found")
		}
		return "", WrapUpstream(err, "Failed to load social profile")
	}

	profile.LastContentNumber++
	if err := tx.Model(&models.SocialProfile{}).
		Where("id = ?", profile.ID).
		Update("last_content_number", profile.LastContentNumber).Error; err != nil {
		return "", WrapUpstream(err, "Failed to advance content counter")
	}

	return fmt.Sprintf("%s-%04d", profile.Code, profile.LastContentNumber), nil
}
