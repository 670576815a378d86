package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipcraft/viral-production-backend/controllers"
	"github.com/clipcraft/viral-production-backend/middleware"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/ws"
)

func SetupRouter(r *gin.Engine, db *gorm.DB) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", controllers.HealthCheck)

	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", controllers.Register)
		auth.POST("/login", controllers.Login)
		auth.POST("/refresh", controllers.Refresh)
		auth.POST("/forgot-password", controllers.ForgotPassword)
		auth.POST("/reset-password", controllers.ResetPassword)

		authed := auth.Group("")
		authed.Use(middleware.AuthMiddleware())
		authed.GET("/me", controllers.Me)
		authed.POST("/change-password", controllers.ChangePassword)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.DBMiddleware(db), middleware.RequireRoles(string(models.RoleSuperAdmin)))

		// Quản lý tài khoản
		admin.GET("/users", controllers.AdminListUsers)
		admin.POST("/users", controllers.AdminCreateUser)
		admin.PUT("/users/:id", controllers.AdminUpdateUser)
		admin.DELETE("/users/:id", controllers.AdminDeleteUser)
		admin.POST("/users/:id/reset-password", controllers.AdminResetPassword)

		// Chấm điểm và trả về
		admin.POST("/analyses/:id/review", controllers.ReviewAnalysis)
		admin.POST("/analyses/:id/send-back", controllers.SendBackAnalysis)

		// Lập team sản xuất
		admin.POST("/analyses/:id/team", controllers.AssignTeam)
		admin.DELETE("/analyses/:id/assignments", controllers.RemoveAssignment)
		admin.GET("/workloads", controllers.GetWorkloads)

		// Dữ liệu tham chiếu
		admin.POST("/hook-tags", controllers.CreateHookTag)
		admin.POST("/character-tags", controllers.CreateCharacterTag)
		admin.POST("/industries", controllers.CreateIndustry)
		admin.POST("/social-profiles", controllers.CreateSocialProfile)
		admin.PATCH("/social-profiles/:id/deactivate", controllers.DeactivateSocialProfile)
	}

	analyses := api.Group("/analyses")
	{
		analyses.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		analyses.POST("", controllers.CreateAnalysis)
		analyses.GET("", controllers.ListAnalyses)
		analyses.GET("/:id", controllers.GetAnalysis)
		analyses.PUT("/:id", controllers.UpdateAnalysis)
		analyses.DELETE("/:id", controllers.DeleteAnalysis)
		analyses.GET("/:id/reviews", controllers.GetReviewHistory)

		// Pipeline sản xuất
		analyses.PATCH("/:id/stage", controllers.UpdateStage)

		// File sản xuất
		analyses.POST("/:id/files", controllers.UploadProductionFile)
		analyses.GET("/:id/files", controllers.ListProductionFiles)
		analyses.GET("/:id/files/download", controllers.DownloadFilesZip)
		analyses.DELETE("/:id/files/:fileId", controllers.DeleteProductionFile)

		// Đăng bài
		analyses.PUT("/:id/posting", controllers.SetPostingDetails)
		analyses.POST("/:id/posted", controllers.MarkPosted)
		analyses.POST("/:id/suggest-captions", controllers.SuggestCaptions)
	}

	editor := api.Group("/editor")
	{
		editor.Use(middleware.DBMiddleware(db),
			middleware.RequireRoles(string(models.RoleEditor), string(models.RoleSuperAdmin)))

		editor.GET("/available", controllers.GetAvailableProjects)
		editor.GET("/my-projects", controllers.GetMyProjects)
		editor.POST("/projects/:id/pick", controllers.PickProject)
		editor.POST("/projects/:id/complete", controllers.MarkEditingComplete)
		editor.POST("/projects/:id/reject", controllers.RejectProject)
		editor.DELETE("/projects/:id/reject", controllers.UnrejectProject)
	}

	posting := api.Group("/posting")
	{
		posting.Use(middleware.DBMiddleware(db),
			middleware.RequireRoles(string(models.RolePostingManager), string(models.RoleSuperAdmin)))

		posting.GET("/queue", controllers.GetPostingQueue)
	}

	reference := api.Group("/reference")
	{
		reference.Use(middleware.AuthMiddleware())

		reference.GET("/hook-tags", controllers.GetHookTags)
		reference.GET("/character-tags", controllers.GetCharacterTags)
		reference.GET("/industries", controllers.GetIndustries)
		reference.GET("/social-profiles", controllers.GetSocialProfiles)
	}

	notifications := api.Group("/notifications")
	{
		notifications.Use(middleware.AuthMiddleware(), middleware.DBMiddleware(db))

		notifications.GET("", controllers.GetNotifications)
		notifications.GET("/unread-count", controllers.GetUnreadCount)
		notifications.PATCH("/:id/read", controllers.MarkNotificationAsRead)
		notifications.PATCH("/read-all", controllers.MarkAllAsRead)
		notifications.DELETE("/:id", controllers.DeleteNotification)
		notifications.DELETE("", controllers.DeleteAllNotifications)
		notifications.DELETE("/read", controllers.DeleteReadNotifications)
	}

	r.GET("/ws/analysis/:id", ws.HandleAnalysisWebSocket)
	r.GET("/ws/status", ws.HandleGlobalWebSocket)
	r.GET("/ws/user", ws.HandleUserWebSocket)

	return r
}
