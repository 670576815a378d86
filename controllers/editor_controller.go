package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/ws"
)

// GetAvailableProjects: danh sách project editor có thể nhận.
// Điều kiện: READY_FOR_EDIT, chưa có editor, có ít nhất một footage thô,
// và editor hiện tại chưa ẩn project đó.
func GetAvailableProjects(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var analyses []models.ViralAnalysis
	err := config.DB.
		Preload("Writer").
		Preload("SocialProfile").
		Where("status = ? AND production_stage = ? AND is_dissolved = false",
			models.StatusApproved, models.StageReadyForEdit).
		Where("id NOT IN (?)", config.DB.Model(&models.ProjectAssignment{}).
			Select("analysis_id").Where("role = ?", models.AssignEditor)).
		Where("id IN (?)", config.DB.Model(&models.ProductionFile{}).
			Select("analysis_id").Where("file_type = ? AND is_deleted = false", models.FileRawFootage)).
		Where("id NOT IN (?)", config.DB.Model(&models.EditorRejection{}).
			Select("analysis_id").Where("editor_id = ?", editorID)).
		Order("priority DESC, created_at ASC").
		Find(&analyses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list available projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": analyses})
}

// PickProject: editor tự nhận project. Guard nằm trong PickProjectTransition,
// transaction + unique index (analysis_id, role) chặn hai editor nhận cùng lúc.
func PickProject(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&analysis, "id = ?", id).Error; err != nil {
			return services.NewWorkflowError(services.ErrKindNotFound, "Analysis not found")
		}

		facts, err := gatherStageFacts(tx, analysis.ID)
		if err != nil {
			return err
		}

		result, err := services.PickProjectTransition(services.StageSnapshot{
			Status:          analysis.Status,
			Stage:           analysis.ProductionStage,
			ProductionNotes: analysis.ProductionNotes,
		}, facts)
		if err != nil {
			return err
		}

		assignment := models.ProjectAssignment{
			AnalysisID: analysis.ID,
			ProfileID:  editorID,
			Role:       models.AssignEditor,
			// AssignedBy để null: tự nhận
		}
		if err := tx.Create(&assignment).Error; err != nil {
			if strings.Contains(err.Error(), "idx_assignment_analysis_role") {
				return services.NewWorkflowError(services.ErrKindDuplicateAssignment, "This project already has an editor")
			}
			return err
		}

		return tx.Model(&analysis).Updates(map[string]interface{}{
			"production_stage": *result.Stage,
		}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ws.SendStageUpdate(analysis.ID.String(), string(models.StatusApproved), string(models.StageEditing), editorID.String())
	ws.BroadcastAnalysisListChanged()

	c.JSON(http.StatusOK, gin.H{"message": "Project picked", "stage": models.StageEditing})
}

type MarkCompleteInput struct {
	EditorNotes string `json:"editor_notes"`
}

// MarkEditingComplete: editor hoàn tất dựng, project sang READY_TO_POST.
// Ghi chú của editor được nối vào production_notes dưới heading riêng.
func MarkEditingComplete(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var input MarkCompleteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var analysis models.ViralAnalysis

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&analysis, "id = ?", id).Error; err != nil {
			return services.NewWorkflowError(services.ErrKindNotFound, "Analysis not found")
		}

		// Chỉ editor được gán (hoặc admin) mới đánh dấu hoàn tất
		var assigned int64
		tx.Model(&models.ProjectAssignment{}).
			Where("analysis_id = ? AND role = ? AND profile_id = ?", analysis.ID, models.AssignEditor, editorID).
			Count(&assigned)
		if assigned == 0 && c.GetString("role") != string(models.RoleSuperAdmin) {
			return services.NewWorkflowError(services.ErrKindValidation, "You are not the editor on this project")
		}

		facts, err := gatherStageFacts(tx, analysis.ID)
		if err != nil {
			return err
		}

		result, err := services.MarkEditingCompleteTransition(services.StageSnapshot{
			Status:          analysis.Status,
			Stage:           analysis.ProductionStage,
			ProductionNotes: analysis.ProductionNotes,
		}, facts, input.EditorNotes)
		if err != nil {
			return err
		}

		return tx.Model(&analysis).Updates(map[string]interface{}{
			"production_stage": *result.Stage,
			"production_notes": result.ProductionNotes,
		}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ws.SendStageUpdate(analysis.ID.String(), string(models.StatusApproved), string(models.StageReadyToPost), editorID.String())
	notifyTeam(&analysis, "Editing complete", "\""+analysis.Title+"\" is ready to post")

	c.JSON(http.StatusOK, gin.H{"message": "Editing marked complete", "stage": models.StageReadyToPost})
}

// RejectProject: editor ẩn một project khỏi danh sách khả dụng của mình.
// Chỉ ảnh hưởng tài khoản đó, project vẫn hiện với các editor khác.
func RejectProject(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	analysisID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis id"})
		return
	}

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", analysisID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	rejection := models.EditorRejection{
		AnalysisID: analysisID,
		EditorID:   editorID,
	}
	if err := config.DB.Create(&rejection).Error; err != nil {
		if strings.Contains(err.Error(), "idx_editor_rejection") {
			c.JSON(http.StatusOK, gin.H{"message": "Project already hidden"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hide project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project hidden from your list"})
}

// UnrejectProject bỏ ẩn một project
func UnrejectProject(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	result := config.DB.Where("analysis_id = ? AND editor_id = ?", id, editorID).
		Delete(&models.EditorRejection{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unhide project"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project was not hidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Project visible again"})
}

// GetMyProjects: các project editor hiện tại đang dựng
func GetMyProjects(c *gin.Context) {
	editorID, ok := currentUserID(c)
	if !ok {
		return
	}

	var analyses []models.ViralAnalysis
	err := config.DB.
		Preload("Writer").
		Preload("Files", "is_deleted = false").
		Where("id IN (?)", config.DB.Model(&models.ProjectAssignment{}).
			Select("analysis_id").Where("profile_id = ? AND role = ?", editorID, models.AssignEditor)).
		Where("is_dissolved = false").
		Order("updated_at DESC").
		Find(&analyses).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": analyses})
}
