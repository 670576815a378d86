package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/ws"
)

// ====== INPUT STRUCTS ======
type PostingDetailsInput struct {
	Platform      models.PostingPlatform `json:"platform" binding:"required"`
	Caption       string                 `json:"caption"`
	Heading       string                 `json:"heading"`
	Hashtags      []string               `json:"hashtags"`
	ScheduledTime *time.Time             `json:"scheduled_time"`
}

// SetPostingDetails: posting manager xếp platform kế tiếp cho phân tích READY_TO_POST.
// Hashtag được chuẩn hóa (bỏ #, trim), heading bắt buộc tùy platform.
func SetPostingDetails(c *gin.Context) {
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	if analysis.Status != models.StatusApproved ||
		analysis.ProductionStage == nil || *analysis.ProductionStage != models.StageReadyToPost {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Analysis is not ready to post"})
		return
	}

	var input PostingDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	details, err := services.ValidatePostingDetails(services.PostingDetails{
		Platform:      input.Platform,
		Caption:       input.Caption,
		Heading:       input.Heading,
		Hashtags:      input.Hashtags,
		ScheduledTime: input.ScheduledTime,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	// Save cả struct để serializer json ghi đúng mảng hashtag
	analysis.PostingPlatform = &details.Platform
	analysis.PostingCaption = details.Caption
	analysis.PostingHeading = details.Heading
	analysis.PostingHashtags = details.Hashtags
	analysis.ScheduledPostTime = details.ScheduledTime
	if err := config.DB.Save(&analysis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save posting details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Posting details saved", "platform": details.Platform})
}

type MarkPostedInput struct {
	PostedURL   string `json:"posted_url" binding:"required,url"`
	KeepInQueue bool   `json:"keep_in_queue"` // true = còn platform khác chờ đăng
}

// MarkPosted ghi nhận một lần đăng. Entry luôn được nối vào posted_urls;
// keepInQueue giữ phân tích ở READY_TO_POST và dọn các trường platform,
// ngược lại chuyển POSTED (terminal). Toàn bộ trong một transaction.
func MarkPosted(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var input MarkPostedInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var analysis models.ViralAnalysis
	var outcome *services.PostedOutcome

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// khóa row: posted_urls là log đọc-sửa-ghi, hai lần đăng song song
		// không được ghi đè entry của nhau
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&analysis, "id = ?", id).Error; err != nil {
			return services.NewWorkflowError(services.ErrKindNotFound, "Analysis not found")
		}

		var err error
		outcome, err = services.MarkAsPosted(services.StageSnapshot{
			Status: analysis.Status,
			Stage:  analysis.ProductionStage,
		}, input.PostedURL, input.KeepInQueue, time.Now())
		if err != nil {
			return err
		}

		analysis.PostedURLs = services.AppendPostedEntry(analysis.PostedURLs, outcome.Entry.URL, outcome.Entry.PostedAt)
		analysis.ProductionStage = &outcome.NewStage

		if outcome.ClearQueue {
			analysis.PostingPlatform = nil
			analysis.PostingCaption = ""
			analysis.PostingHeading = ""
			analysis.PostingHashtags = nil
			analysis.ScheduledPostTime = nil
		}
		if outcome.SetPostedAt {
			analysis.PostedURL = input.PostedURL
			now := outcome.Entry.PostedAt
			analysis.PostedAt = &now
		}

		// Save để serializer json ghi lại posted_urls/hashtags
		return tx.Save(&analysis).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ws.SendStageUpdate(analysis.ID.String(), string(analysis.Status), string(outcome.NewStage), userID.String())
	notify(analysis.CreatedBy, "Content posted",
		"\""+analysis.Title+"\" was posted: "+input.PostedURL, "posting", &analysis.ID)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Posting recorded",
		"stage":       outcome.NewStage,
		"posted_urls": analysis.PostedURLs,
	})
}

type SuggestCaptionsInput struct {
	Platform models.PostingPlatform `json:"platform" binding:"required"`
}

// SuggestCaptions gọi Gemini gợi ý caption/heading/hashtag theo platform,
// dựa trên hook và kịch bản của phân tích.
func SuggestCaptions(c *gin.Context) {
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	var input SuggestCaptionsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion, err := services.SuggestCaptions(c.Request.Context(), input.Platform, analysis.Hook, analysis.ScriptText)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"suggestion": suggestion})
}

// GetPostingQueue: danh sách phân tích đang chờ đăng, sắp theo lịch đăng
func GetPostingQueue(c *gin.Context) {
	var analyses []models.ViralAnalysis
	err := config.DB.
		Preload("Writer").
		Preload("SocialProfile").
		Where("status = ? AND production_stage = ? AND is_dissolved = false",
			models.StatusApproved, models.StageReadyToPost).
		Order("scheduled_post_time ASC NULLS LAST, updated_at ASC").
		Find(&analyses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load posting queue"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"queue": analyses})
}
