package controllers

import (
	"fmt"
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
type UpdateStageInput struct {
	Stage           models.ProductionStage `json:"stage" binding:"required"`
	ProductionNotes string                 `json:"production_notes"` // ghi chú kèm theo lần chuyển stage
	PlannedDate     *time.Time             `json:"planned_date"`
	PostedURL       string                 `json:"posted_url"`
}

// gatherStageFacts tra cứu các dữ kiện máy trạng thái cần: số file theo loại
// và việc đã có editor hay chưa.
func gatherStageFacts(tx *gorm.DB, analysisID interface{}) (services.StageFacts, error) {
	var facts services.StageFacts

	var raw int64
	if err := tx.Model(&models.ProductionFile{}).
		Where("analysis_id = ? AND file_type = ? AND is_deleted = false", analysisID, models.FileRawFootage).
		Count(&raw).Error; err != nil {
		return facts, err
	}
	facts.RawFootageFiles = int(raw)

	var edited int64
	if err := tx.Model(&models.ProductionFile{}).
		Where("analysis_id = ? AND file_type IN ? AND is_deleted = false",
			analysisID, []models.FileType{models.FileEditedVideo, models.FileFinalVideo}).
		Count(&edited).Error; err != nil {
		return facts, err
	}
	facts.EditedFiles = int(edited)

	var editors int64
	if err := tx.Model(&models.ProjectAssignment{}).
		Where("analysis_id = ? AND role = ?", analysisID, models.AssignEditor).
		Count(&editors).Error; err != nil {
		return facts, err
	}
	facts.HasEditor = editors > 0

	return facts, nil
}

// applyStageResult ghi trạng thái mới và các side effect vào DB
func applyStageResult(tx *gorm.DB, analysis *models.ViralAnalysis, result *services.StageResult, input UpdateStageInput) error {
	notes := result.ProductionNotes
	if input.ProductionNotes != "" {
		if notes == "" {
			notes = input.ProductionNotes
		} else {
			notes = notes + "\n\n" + input.ProductionNotes
		}
	}

	analysis.Status = result.Status
	analysis.ProductionNotes = notes
	analysis.ProductionStage = result.Stage

	for _, effect := range result.SideEffects {
		switch effect {
		case services.EffectSetPlannedDate:
			analysis.PlannedDate = input.PlannedDate
		case services.EffectSetPostedAt:
			// lần đăng qua update stage cũng vào log posted_urls như mark-as-posted
			now := time.Now()
			analysis.PostedURL = input.PostedURL
			analysis.PostedAt = &now
			analysis.PostedURLs = services.AppendPostedEntry(analysis.PostedURLs, input.PostedURL, now)
		}
	}

	// Save cả struct để serializer json ghi lại posted_urls
	return tx.Save(analysis).Error
}

// notifyTeam báo cho toàn bộ người được gán trên phân tích
func notifyTeam(analysis *models.ViralAnalysis, title, message string) {
	var assignments []models.ProjectAssignment
	if err := config.DB.Where("analysis_id = ?", analysis.ID).Find(&assignments).Error; err != nil {
		return
	}
	seen := map[string]bool{}
	for _, a := range assignments {
		if seen[a.ProfileID.String()] {
			continue
		}
		seen[a.ProfileID.String()] = true
		notify(a.ProfileID, title, message, "stage_change", &analysis.ID)
	}
}

// UpdateStage: chuyển stage sản xuất qua máy trạng thái. Mọi guard nằm trong
// services.Transition, controller chỉ tra dữ kiện, ghi kết quả và phát thông báo.
func UpdateStage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var input UpdateStageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var analysis models.ViralAnalysis
	var result *services.StageResult

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// khóa row: nhánh POSTED đọc-sửa-ghi posted_urls
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&analysis, "id = ?", id).Error; err != nil {
			return services.NewWorkflowError(services.ErrKindNotFound, "Analysis not found")
		}
		if analysis.IsDissolved {
			return services.NewWorkflowError(services.ErrKindStageMismatch, "This analysis has been dissolved")
		}

		facts, err := gatherStageFacts(tx, analysis.ID)
		if err != nil {
			return err
		}
		facts.PlannedDate = input.PlannedDate
		facts.PostedURL = input.PostedURL

		result, err = services.Transition(services.StageSnapshot{
			Status:          analysis.Status,
			Stage:           analysis.ProductionStage,
			ProductionNotes: analysis.ProductionNotes,
		}, input.Stage, facts)
		if err != nil {
			return err
		}

		return applyStageResult(tx, &analysis, result, input)
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ws.SendStageUpdate(analysis.ID.String(), string(result.Status), stageString(result.Stage), userID.String())
	notifyTeam(&analysis, "Production stage updated",
		fmt.Sprintf("\"%s\" moved to %s", analysis.Title, stageString(result.Stage)))

	c.JSON(http.StatusOK, gin.H{
		"message": "Stage updated",
		"stage":   result.Stage,
		"status":  result.Status,
	})
}
