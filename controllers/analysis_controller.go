package controllers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/ws"
)

// ====== INPUT STRUCTS ======
type AnalysisInput struct {
	Title           string   `form:"title" binding:"required"`
	SourceURL       string   `form:"source_url" binding:"required,url"`
	Hook            string   `form:"hook" binding:"required"`
	ScriptText      string   `form:"script_text"`
	SocialProfileID string   `form:"social_profile_id"`
	IndustryID      string   `form:"industry_id"`
	HookTagIDs      []string `form:"hook_tag_ids"`
	CharacterTagIDs []string `form:"character_tag_ids"`
}

// resolveTags nạp các tag theo danh sách ID, bỏ qua ID không hợp lệ
func resolveTags(hookIDs, charIDs []string) ([]models.HookTag, []models.CharacterTag) {
	var hooks []models.HookTag
	if len(hookIDs) > 0 {
		config.DB.Where("id IN ?", hookIDs).Find(&hooks)
	}
	var chars []models.CharacterTag
	if len(charIDs) > 0 {
		config.DB.Where("id IN ?", charIDs).Find(&chars)
	}
	return hooks, chars
}

// CreateAnalysis: biên kịch nộp phân tích viral mới, kèm file kịch bản (tùy chọn).
// File PDF/DOCX/TXT được trích xuất text ngay lúc nộp.
func CreateAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input AnalysisInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis := models.ViralAnalysis{
		Title:      input.Title,
		SourceURL:  input.SourceURL,
		Hook:       input.Hook,
		ScriptText: input.ScriptText,
		Status:     models.StatusPending,
		Priority:   models.PriorityNormal,
		CreatedBy:  userID,
	}

	if input.SocialProfileID != "" {
		id, err := uuid.Parse(input.SocialProfileID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid social profile id"})
			return
		}
		var sp models.SocialProfile
		if err := config.DB.First(&sp, "id = ?", id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Social profile not found"})
			return
		}
		analysis.SocialProfileID = &id
	}
	if input.IndustryID != "" {
		id, err := uuid.Parse(input.IndustryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid industry id"})
			return
		}
		analysis.IndustryID = &id
	}

	// File kịch bản: trích xuất text, ưu tiên hơn script_text nhập tay
	if fileHeader, err := c.FormFile("script_file"); err == nil {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		text, err := services.ExtractScriptText(fileHeader, ext)
		if err != nil {
			respondError(c, err)
			return
		}
		analysis.ScriptText = text
	}

	hooks, chars := resolveTags(input.HookTagIDs, input.CharacterTagIDs)
	analysis.HookTags = hooks
	analysis.CharacterTags = chars

	if err := config.DB.Create(&analysis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create analysis"})
		return
	}

	ws.BroadcastAnalysisListChanged()
	c.JSON(http.StatusCreated, gin.H{"message": "Analysis submitted", "analysis": analysis})
}

// UpdateAnalysis: biên kịch sửa phân tích của mình khi còn PENDING hoặc đã bị
// REJECTED (nộp lại). Nộp lại đưa status về PENDING, không reset rejection_count.
func UpdateAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	if analysis.CreatedBy != userID && c.GetString("role") != string(models.RoleSuperAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own analyses"})
		return
	}
	if analysis.IsDissolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This analysis has been dissolved and can no longer be edited"})
		return
	}
	if analysis.Status == models.StatusApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Approved analyses are managed through the production pipeline"})
		return
	}

	var input AnalysisInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	analysis.Title = input.Title
	analysis.SourceURL = input.SourceURL
	analysis.Hook = input.Hook
	if input.ScriptText != "" {
		analysis.ScriptText = input.ScriptText
	}

	if fileHeader, err := c.FormFile("script_file"); err == nil {
		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		text, err := services.ExtractScriptText(fileHeader, ext)
		if err != nil {
			respondError(c, err)
			return
		}
		analysis.ScriptText = text
	}

	// Nộp lại sau khi bị từ chối
	if analysis.Status == models.StatusRejected {
		analysis.Status = models.StatusPending
	}

	if input.SocialProfileID != "" {
		if spID, err := uuid.Parse(input.SocialProfileID); err == nil {
			analysis.SocialProfileID = &spID
		}
	}
	if input.IndustryID != "" {
		if indID, err := uuid.Parse(input.IndustryID); err == nil {
			analysis.IndustryID = &indID
		}
	}

	if err := config.DB.Save(&analysis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update analysis"})
		return
	}

	if len(input.HookTagIDs) > 0 || len(input.CharacterTagIDs) > 0 {
		hooks, chars := resolveTags(input.HookTagIDs, input.CharacterTagIDs)
		config.DB.Model(&analysis).Association("HookTags").Replace(hooks)
		config.DB.Model(&analysis).Association("CharacterTags").Replace(chars)
	}

	ws.BroadcastAnalysisListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Analysis updated", "analysis": analysis})
}

// GetAnalysis trả về một phân tích với đầy đủ quan hệ
func GetAnalysis(c *gin.Context) {
	id := c.Param("id")

	var analysis models.ViralAnalysis
	err := config.DB.
		Preload("Writer").
		Preload("SocialProfile").
		Preload("Industry").
		Preload("HookTags").
		Preload("CharacterTags").
		Preload("Assignments.Profile").
		Preload("Files", "is_deleted = false").
		Preload("Reviews.Reviewer").
		First(&analysis, "id = ?", id).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": analysis})
}

// ListAnalyses: danh sách có lọc + phân trang. Biên kịch chỉ thấy của mình,
// các vai trò khác thấy toàn bộ.
func ListAnalyses(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	role := c.GetString("role")

	query := config.DB.Model(&models.ViralAnalysis{}).
		Preload("Writer").
		Preload("SocialProfile")

	if role == string(models.RoleScriptWriter) {
		query = query.Where("created_by = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if stage := c.Query("stage"); stage != "" {
		query = query.Where("production_stage = ?", stage)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if dissolved := c.Query("dissolved"); dissolved != "" {
		query = query.Where("is_dissolved = ?", dissolved == "true")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	query.Count(&total)

	var analyses []models.ViralAnalysis
	if err := query.Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&analyses).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list analyses"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analyses": analyses,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

// DeleteAnalysis: biên kịch rút lại phân tích chưa được chấm
func DeleteAnalysis(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	isAdmin := c.GetString("role") == string(models.RoleSuperAdmin)
	if analysis.CreatedBy != userID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete your own analyses"})
		return
	}
	if analysis.Status != models.StatusPending && !isAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending analyses can be withdrawn"})
		return
	}

	if err := config.DB.Delete(&analysis).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}

	ws.BroadcastAnalysisListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Analysis deleted"})
}
