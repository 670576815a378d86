package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/ws"
)

// respondError map WorkflowError sang đúng status code, lỗi khác trả 500
func respondError(c *gin.Context, err error) {
	if we, ok := services.AsWorkflowError(err); ok {
		c.JSON(we.HTTPStatus(), gin.H{"error": we.Message, "kind": string(we.Kind)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// currentUserID lấy user_id do AuthMiddleware set
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return uuid.Nil, false
	}
	return id, true
}

// notify tạo thông báo và đẩy badge qua WebSocket (best-effort)
func notify(profileID uuid.UUID, title, message, ntype string, analysisID *uuid.UUID) {
	n := models.Notification{
		ProfileID:  profileID,
		Title:      title,
		Message:    message,
		Type:       ntype,
		AnalysisID: analysisID,
	}
	if err := config.DB.Create(&n).Error; err != nil {
		return
	}
	var unread int64
	config.DB.Model(&models.Notification{}).
		Where("profile_id = ? AND is_read = false", profileID).
		Count(&unread)
	ws.SendBadgeUpdate(profileID.String(), unread)
}
