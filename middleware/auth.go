package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/utils"
)

// AuthMiddleware xác thực compatibility token và nạp trạng thái profile.
// Lưu user_id / role / email vào context cho controller dùng.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing Authorization header"})
			c.Abort()
			return
		}

		// Tách token khỏi chuỗi "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header"})
			c.Abort()
			return
		}

		claims, err := utils.VerifyToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token is invalid or expired"})
			c.Abort()
			return
		}

		// Kiểm tra trạng thái profile trong DB
		var profile models.Profile
		if err := config.DB.Select("status").First(&profile, "id = ?", claims.ProfileID()).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
			c.Abort()
			return
		}

		if profile.Status != nil && !*profile.Status {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account has been suspended"})
			c.Abort()
			return
		}

		// Lưu thông tin vào context để controller dùng
		c.Set("user_id", claims.ProfileID())
		c.Set("role", string(claims.AppRole))
		c.Set("email", claims.Email)
		c.Next()
	}
}

// DBMiddleware gắn *gorm.DB vào context
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("db", db)
		c.Next()
	}
}
