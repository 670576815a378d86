package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
)

// ==== DỮ LIỆU THAM CHIẾU: TAG / INDUSTRY / SOCIAL PROFILE ====

type TagInput struct {
	Name string `json:"name" binding:"required"`
}

func GetHookTags(c *gin.Context) {
	var tags []models.HookTag
	query := config.DB.Model(&models.HookTag{}).Where("is_active = true")

	// Nếu có query name thì lọc theo LIKE
	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}

	if err := query.Order("name asc").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list hook tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func CreateHookTag(c *gin.Context) {
	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.HookTag{Name: input.Name, IsActive: true}
	if err := config.DB.Create(&tag).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Hook tag already exists"})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func GetCharacterTags(c *gin.Context) {
	var tags []models.CharacterTag
	query := config.DB.Model(&models.CharacterTag{}).Where("is_active = true")

	if name := c.Query("name"); name != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+name+"%")
	}

	if err := query.Order("name asc").Find(&tags).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list character tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

func CreateCharacterTag(c *gin.Context) {
	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tag := models.CharacterTag{Name: input.Name, IsActive: true}
	if err := config.DB.Create(&tag).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Character tag already exists"})
		return
	}
	c.JSON(http.StatusCreated, tag)
}

func GetIndustries(c *gin.Context) {
	var industries []models.Industry
	if err := config.DB.Where("is_active = true").Order("name asc").Find(&industries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list industries"})
		return
	}
	c.JSON(http.StatusOK, industries)
}

func CreateIndustry(c *gin.Context) {
	var input TagInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	industry := models.Industry{Name: input.Name, IsActive: true}
	if err := config.DB.Create(&industry).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Industry already exists"})
		return
	}
	c.JSON(http.StatusCreated, industry)
}

type SocialProfileInput struct {
	Name string `json:"name" binding:"required"`
	Code string `json:"code" binding:"required,alphanum,max=10"`
}

func GetSocialProfiles(c *gin.Context) {
	var profiles []models.SocialProfile
	if err := config.DB.Where("is_active = true").Order("name asc").Find(&profiles).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list social profiles"})
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// CreateSocialProfile tạo kênh mới. Code là prefix của content ID (CODE-0001...)
// nên không đổi được sau khi tạo.
func CreateSocialProfile(c *gin.Context) {
	var input SocialProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile := models.SocialProfile{Name: input.Name, Code: input.Code, IsActive: true}
	if err := config.DB.Create(&profile).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Social profile code already exists"})
		return
	}
	c.JSON(http.StatusCreated, profile)
}

func DeactivateSocialProfile(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Model(&models.SocialProfile{}).
		Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate social profile"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Social profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Social profile deactivated"})
}
