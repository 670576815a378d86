package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
	"github.com/clipcraft/viral-production-backend/utils"
)

// ====== INPUT STRUCTS ======
type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ====== HANDLERS ======

// Register tạo tài khoản biên kịch mới: user bên Authentik (nếu bật) và
// profile nội bộ. Vai trò khác do admin cấp qua user management.
func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check email tồn tại
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
		Role:     models.RoleScriptWriter,
	}

	if ak.Enabled() {
		if _, err := ak.CreateUser(ctx, input.Email, input.FullName); err != nil {
			respondError(c, err)
			return
		}
		if err := ak.SetPassword(ctx, input.Email, input.Password); err != nil {
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

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registered",
		"user": gin.H{
			"id":        newProfile.ID,
			"email":     newProfile.Email,
			"full_name": newProfile.FullName,
			"role":      newProfile.Role,
		},
	})
}

// Login xác thực qua Authentik (nếu cấu hình) hoặc bcrypt local, rồi phát hành
// compatibility token với sub = Profile.ID. Mọi thất bại xác thực trả về cùng
// một thông điệp, không tiết lộ bước nào sai.
func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := services.CheckLoginRateLimit(ctx, input.Email); err != nil {
		respondError(c, err)
		return
	}

	var profile models.Profile
	profileErr := config.DB.Where("email = ?", input.Email).First(&profile).Error

	ak := services.NewAuthentikClient()
	var refreshToken string

	if ak.Enabled() {
		session, err := ak.Login(ctx, input.Email, input.Password)
		if err != nil {
			services.RecordFailedLogin(ctx, input.Email)
			respondError(c, services.ErrInvalidCredentials())
			return
		}
		refreshToken = session.RefreshToken

		// Provider xác thực xong nhưng chưa có profile nội bộ -> tạo từ userinfo
		if profileErr != nil {
			profile = models.Profile{
				FullName: session.Name,
				Email:    session.Email,
				Role:     models.RoleScriptWriter,
			}
			if err := config.DB.Create(&profile).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
				return
			}
		}
	} else {
		// Local fallback: so bcrypt trên bảng profiles
		if profileErr != nil || profile.Password == "" {
			services.RecordFailedLogin(ctx, input.Email)
			respondError(c, services.ErrInvalidCredentials())
			return
		}
		if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(input.Password)); err != nil {
			services.RecordFailedLogin(ctx, input.Email)
			respondError(c, services.ErrInvalidCredentials())
			return
		}
	}

	if profile.Status != nil && !*profile.Status {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account has been suspended"})
		return
	}

	token, err := utils.GenerateToken(profile.ID.String(), profile.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	services.ClearLoginAttempts(ctx, input.Email)

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": refreshToken,
		"user": gin.H{
			"id":                profile.ID,
			"email":             profile.Email,
			"full_name":         profile.FullName,
			"role":              profile.Role,
			"is_trusted_writer": profile.IsTrustedWriter,
		},
	})
}

// Refresh làm mới phiên bằng refresh token của Authentik
func Refresh(c *gin.Context) {
	var input RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ak := services.NewAuthentikClient()
	if !ak.Enabled() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh is not available in local mode"})
		return
	}

	session, err := ak.Refresh(c.Request.Context(), input.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
		return
	}

	var profile models.Profile
	if err := config.DB.Where("email = ?", session.Email).First(&profile).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
		return
	}
	if profile.Status != nil && !*profile.Status {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account has been suspended"})
		return
	}

	token, err := utils.GenerateToken(profile.ID.String(), profile.Email, profile.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":         token,
		"refresh_token": session.RefreshToken,
	})
}

// Me trả về profile hiện tại theo token
func Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": profile})
}

// Đổi mật khẩu
type ChangePasswordInput struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	ctx := c.Request.Context()
	ak := services.NewAuthentikClient()

	// Xác minh mật khẩu cũ trước khi cho đổi
	if ak.Enabled() {
		if err := ak.ValidateCredentials(ctx, profile.Email, input.OldPassword); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
		if err := ak.SetPassword(ctx, profile.Email, input.NewPassword); err != nil {
			respondError(c, err)
			return
		}
	} else {
		if err := bcrypt.CompareHashAndPassword([]byte(profile.Password), []byte(input.OldPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
			return
		}
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

	c.JSON(http.StatusOK, gin.H{"message": "Password changed"})
}

// ==== QUÊN MẬT KHẨU ====
type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword luôn trả về cùng một câu trả lời, không tiết lộ email có tồn
// tại hay không. Token đặt lại có hạn 30 phút, dùng một lần.
func ForgotPassword(c *gin.Context) {
	var input ForgotPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	genericReply := gin.H{"message": "If an account exists for that email, a reset link has been sent"}

	var profile models.Profile
	if err := config.DB.Where("email = ?", input.Email).First(&profile).Error; err != nil {
		c.JSON(http.StatusOK, genericReply)
		return
	}

	reset := models.PasswordReset{
		ProfileID: profile.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(30 * time.Minute),
	}
	if err := config.DB.Create(&reset).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create reset token"})
		return
	}

	// Gửi email không chặn luồng
	go func() {
		subject := "Password reset request"
		body := `
		<h3>Hello ` + profile.FullName + `,</h3>
		<p>A password reset was requested for your account.</p>
		<p><b>Reset token:</b> ` + reset.Token + `</p>
		<p>The token expires in 30 minutes. If you did not request this, ignore this email.</p>
		`
		if err := utils.SendEmail(profile.Email, subject, body); err != nil {
			println("Lỗi gửi email:", err.Error())
		}
	}()

	c.JSON(http.StatusOK, genericReply)
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

func ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reset models.PasswordReset
	if err := config.DB.Where("token = ? AND used = false", input.Token).First(&reset).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token is invalid or already used"})
		return
	}
	if time.Now().After(reset.ExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Reset token has expired"})
		return
	}

	var profile models.Profile
	if err := config.DB.First(&profile, "id = ?", reset.ProfileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
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

	config.DB.Model(&reset).Update("used", true)
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset"})
}
