package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/utils"
	"github.com/clipcraft/viral-production-backend/ws"
)

// ====== INPUT STRUCTS ======
type ReviewInput struct {
	Decision           models.ReviewDecision `json:"decision" binding:"required,oneof=APPROVE REJECT"`
	HookStrength       int                   `json:"hook_strength" binding:"required,min=1,max=10"`
	ContentQuality     int                   `json:"content_quality" binding:"required,min=1,max=10"`
	ViralPotential     int                   `json:"viral_potential" binding:"required,min=1,max=10"`
	ReplicationClarity int                   `json:"replication_clarity" binding:"required,min=1,max=10"`
	Feedback           string                `json:"feedback"`
	SocialProfileID    string                `json:"social_profile_id"` // gán kênh ngay lúc duyệt (tùy chọn)
	GenerateVoice      bool                  `json:"generate_voice"`    // đọc feedback thành audio bằng TTS
}

// ReviewAnalysis: admin chấm điểm một phân tích PENDING.
// Voice feedback (nếu yêu cầu) được sinh và upload TRƯỚC khi ghi DB, để một lần
// upload hỏng không để lại review thiếu audio. Content ID sinh trong cùng
// transaction với việc duyệt.
func ReviewAnalysis(c *gin.Context) {
	reviewerID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	if analysis.IsDissolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This analysis has been dissolved"})
		return
	}
	if analysis.Status != models.StatusPending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending analyses can be reviewed"})
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Có thể gán kênh ngay lúc chấm: content ID sẽ sinh theo kênh này
	if input.SocialProfileID != "" {
		spID, err := uuid.Parse(input.SocialProfileID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid social profile id"})
			return
		}
		var sp models.SocialProfile
		if err := config.DB.First(&sp, "id = ?", spID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Social profile not found"})
			return
		}
		analysis.SocialProfileID = &spID
	}

	outcome, err := services.EvaluateReview(services.ReviewInput{
		Decision:           input.Decision,
		HookStrength:       input.HookStrength,
		ContentQuality:     input.ContentQuality,
		ViralPotential:     input.ViralPotential,
		ReplicationClarity: input.ReplicationClarity,
		Feedback:           input.Feedback,
		HasSocialProfile:   analysis.SocialProfileID != nil,
	}, analysis.RejectionCount)
	if err != nil {
		respondError(c, err)
		return
	}

	// Voice feedback: sinh và upload trước, ghi DB sau
	voiceURL := ""
	voiceSeconds := 0.0
	if input.GenerateVoice && input.Feedback != "" {
		audio, err := services.SynthesizeFeedback(c.Request.Context(), input.Feedback, "", 1.0)
		if err != nil {
			respondError(c, err)
			return
		}
		filename := fmt.Sprintf("%s-%s.mp3", analysis.ID, uuid.NewString())
		voiceURL, err = utils.UploadVoiceFeedback(audio, filename, "audio/mpeg")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload voice feedback"})
			return
		}
		if dur, err := services.GetMP3DurationFromURL(voiceURL); err == nil {
			voiceSeconds = dur
		}
	}

	review := models.AnalysisReview{
		AnalysisID:           analysis.ID,
		ReviewerID:           reviewerID,
		Decision:             input.Decision,
		HookStrength:         input.HookStrength,
		ContentQuality:       input.ContentQuality,
		ViralPotential:       input.ViralPotential,
		ReplicationClarity:   input.ReplicationClarity,
		OverallScore:         outcome.OverallScore,
		Feedback:             input.Feedback,
		VoiceFeedbackURL:     voiceURL,
		VoiceFeedbackSeconds: voiceSeconds,
	}

	err = config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":              outcome.NewStatus,
			"hook_strength":       input.HookStrength,
			"content_quality":     input.ContentQuality,
			"viral_potential":     input.ViralPotential,
			"replication_clarity": input.ReplicationClarity,
			"overall_score":       outcome.OverallScore,
			"rejection_count":     outcome.NewRejectionCount,
			"admin_feedback":      input.Feedback,
			"voice_feedback_url":  voiceURL,
		}
		if input.SocialProfileID != "" {
			updates["social_profile_id"] = analysis.SocialProfileID
		}
		if outcome.EntryStage != nil {
			updates["production_stage"] = *outcome.EntryStage
		}
		if outcome.Dissolve {
			updates["is_dissolved"] = true
			updates["dissolution_reason"] = outcome.DissolutionReason
		}
		if outcome.GenerateContentID && analysis.ContentID == nil {
			contentID, err := services.GenerateContentID(tx, *analysis.SocialProfileID)
			if err != nil {
				return err
			}
			updates["content_id"] = contentID
		}

		return tx.Model(&analysis).Updates(updates).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// Thông báo cho biên kịch
	title := "Analysis approved"
	message := fmt.Sprintf("\"%s\" was approved with score %.1f", analysis.Title, outcome.OverallScore)
	if outcome.NewStatus == models.StatusRejected {
		title = "Analysis rejected"
		message = fmt.Sprintf("\"%s\" was rejected (rejection %d)", analysis.Title, outcome.NewRejectionCount)
		if outcome.Dissolve {
			title = "Analysis dissolved"
			message = fmt.Sprintf("\"%s\": %s", analysis.Title, outcome.DissolutionReason)
		}
	}
	notify(analysis.CreatedBy, title, message, "review_result", &analysis.ID)

	ws.SendStageUpdate(analysis.ID.String(), string(outcome.NewStatus), stageString(outcome.EntryStage), reviewerID.String())

	c.JSON(http.StatusOK, gin.H{
		"message":          "Review recorded",
		"review":           review,
		"status":           outcome.NewStatus,
		"overall_score":    outcome.OverallScore,
		"rejection_count":  outcome.NewRejectionCount,
		"warn_dissolution": outcome.WarnDissolution,
		"is_dissolved":     outcome.Dissolve,
	})
}

type SendBackInput struct {
	Feedback string `json:"feedback" binding:"required"`
}

// SendBackAnalysis: admin trả một phân tích đã duyệt (chưa vào quay) về PENDING
func SendBackAnalysis(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	var input SendBackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := services.DisapproveTransition(services.StageSnapshot{
		Status:          analysis.Status,
		Stage:           analysis.ProductionStage,
		ProductionNotes: analysis.ProductionNotes,
	}, input.Feedback)
	if err != nil {
		respondError(c, err)
		return
	}

	updates := map[string]interface{}{
		"status":            result.Status,
		"production_stage":  nil,
		"admin_feedback":    input.Feedback,
		"disapproval_count": gorm.Expr("disapproval_count + 1"),
	}
	if err := config.DB.Model(&analysis).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send back analysis"})
		return
	}

	notify(analysis.CreatedBy, "Analysis sent back",
		fmt.Sprintf("\"%s\" was sent back for revision", analysis.Title), "review_result", &analysis.ID)
	ws.SendStageUpdate(analysis.ID.String(), string(result.Status), "", adminID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Analysis sent back to pending"})
}

// GetReviewHistory trả về toàn bộ lịch sử chấm của một phân tích
func GetReviewHistory(c *gin.Context) {
	id := c.Param("id")

	var reviews []models.AnalysisReview
	if err := config.DB.Where("analysis_id = ?", id).
		Preload("Reviewer").
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load review history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

func stageString(s *models.ProductionStage) string {
	if s == nil {
		return ""
	}
	return string(*s)
}
