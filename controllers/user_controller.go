package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/utils"
)

// ==== ADMIN QUẢN LÝ TÀI KHOẢN ====

type CreateUserInput struct {
	FullName string             `json:"full_name" binding:"required"`
	Email    string             `json:"email" binding:"required,email"`
	Password string             `json:"password" binding:"required,min=8"`
	Role     models.ProfileRole `json:"role" binding:"required,oneof=SCRIPT_WRITER VIDEOGRAPHER EDITOR POSTING_MANAGER SUPER_ADMIN"`
}

// AdminCreateUser tạo tài khoản trên Authentik (nếu bật) + profile nội bộ,
// rồi gửi email thông tin đăng nhập không chặn luồng.
func AdminCreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Kiểm tra email trùng
	var existing models.Profile
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email already in use"})
		return
	}

	ctx := c.Request.Context()
	ak := services.NewAuthentikClient()

	newProfile := models.Profile{
		FullName: input.FullName,
		Email:    input.Email,
		Role:     input.Role,
	}

	if ak.Enabled() {
		if _, err := ak.CreateUser(ctx, input.Email, input.FullName); err != nil {
			respondError(c, err)
			return
		}
		if err := ak.SetPassword(ctx, input.Email, input.Password); err != nil {
			// Tài khoản provider đã tạo nhưng chưa đặt được mật khẩu: dọn lại
			_ = ak.DeleteUser(ctx, input.Email)
			respondError(c, err)
			return
		}
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		newProfile.Password = string(hashed)
	}

	if err := config.DB.Create(&newProfile).Error; err != nil {
		if ak.Enabled() {
			_ = ak.DeleteUser(ctx, input.Email)
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
		return
	}

	// Gửi email thông tin đăng nhập (không chặn luồng)
	go func() {
		subject := "Your content production account has been created"
		body := `
		<h3>Hello ` + input.FullName + `,</h3>
		<p>An account has been created for you on the content production platform.</p>
		<p><b>Login email:</b> ` + input.Email + `<br>
		<b>Password:</b> ` + input.Password + `</p>
		<p>Please log in and change your password after first use.</p>
		`
		if err := utils.SendEmail(input.Email, subject, body); err != nil {
			println("Lỗi gửi email:", err.Error())
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"message": "User created",
		"user": gin.H{
			"id":        newProfile.ID,
			"full_name": newProfile.FullName,
			"email":     newProfile.Email,
			"role":      newProfile.Role,
		},
	})
}

// AdminListUsers liệt kê tài khoản, lọc theo role nếu có
func AdminListUsers(c *gin.Context) {
	query := config.DB.Model(&models.Profile{}).Order("created_at DESC")
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}

	var profiles []models.Profile
	if err := query.Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": profiles})
}

type UpdateUserInput struct {
	FullName        *string             `json:"full_name"`
	Role            *models.ProfileRole `json:"role"`
	Status          *bool               `json:"status"`
	IsTrustedWriter *bool               `json:"is_trusted_writer"`
}

// AdminUpdateUser cập nhật role / trạng thái khóa / cờ trusted writer
func AdminUpdateUser(c *gin.Context) {
	id := c.Param("id")

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input UpdateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if input.FullName != nil {
		updates["full_name"] = *input.FullName
	}
	if input.Role != nil {
		switch *input.Role {
		case models.RoleScriptWriter, models.RoleVideographer, models.RoleEditor,
			models.RolePostingManager, models.RoleSuperAdmin:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role"})
			return
		}
		updates["role"] = *input.Role
	}
	if input.Status != nil {
		updates["status"] = *input.Status
	}
	if input.IsTrustedWriter != nil {
		updates["is_trusted_writer"] = *input.IsTrustedWriter
	}

	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to update"})
		return
	}

	if err := config.DB.Model(&profile).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated", "user": profile})
}

// AdminDeleteUser xóa profile nội bộ và tài khoản provider (best-effort)
func AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if profile.ID.String() == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
		return
	}

	if err := config.DB.Delete(&profile).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	ak := services.NewAuthentikClient()
	if ak.Enabled() {
		// Provider dọn sau, lỗi không chặn việc xóa nội bộ
		_ = ak.DeleteUser(c.Request.Context(), profile.Email)
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

type AdminResetPasswordInput struct {
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// AdminResetPassword đặt lại mật khẩu cho một tài khoản
func AdminResetPassword(c *gin.Context) {
	id := c.Param("id")

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var input AdminResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ak := services.NewAuthentikClient()
	if ak.Enabled() {
		if err := ak.SetPassword(c.Request.Context(), profile.Email, input.NewPassword); err != nil {
			respondError(c, err)
			return
		}
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		if err := config.DB.Model(&profile).Update("password", string(hashed)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
