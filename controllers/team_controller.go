package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/services"
)

// ====== INPUT STRUCTS ======
type AssignTeamInput struct {
	VideographerID   string   `json:"videographer_id"` // rỗng = auto-assign
	EditorID         string   `json:"editor_id"`       // rỗng = để editor tự nhận
	PostingManagerID string   `json:"posting_manager_id"`
	AutoVideographer bool     `json:"auto_videographer"`
	AutoEditor       bool     `json:"auto_editor"`
	AutoPoster       bool     `json:"auto_poster"`
	ShootPossibility int      `json:"shoot_possibility"` // 25/50/75/100
	TotalPeople      int      `json:"total_people_involved"`
	AdminRemarks     string   `json:"admin_remarks"`
	Priority         string   `json:"priority"`
	IndustryID       string   `json:"industry_id"`
	SocialProfileID  string   `json:"social_profile_id"`
	HookTagIDs       []string `json:"hook_tag_ids"`
	CharacterTagIDs  []string `json:"character_tag_ids"`
}

// activeWorkloads đếm số assignment đang chạy (project chưa POSTED, chưa giải thể)
// cho toàn bộ profile active giữ một vai trò.
func activeWorkloads(tx *gorm.DB, role models.ProfileRole) ([]services.Workload, error) {
	var profiles []models.Profile
	if err := tx.Where("role = ? AND (status IS NULL OR status = true)", role).Find(&profiles).Error; err != nil {
		return nil, err
	}

	loads := make([]services.Workload, 0, len(profiles))
	for _, p := range profiles {
		var count int64
		err := tx.Model(&models.ProjectAssignment{}).
			Joins("JOIN viral_analyses ON viral_analyses.id = project_assignments.analysis_id").
			Where("project_assignments.profile_id = ?", p.ID).
			Where("viral_analyses.production_stage IS DISTINCT FROM ?", models.StagePosted).
			Where("viral_analyses.is_dissolved = false").
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		loads = append(loads, services.Workload{ProfileID: p.ID, Active: int(count)})
	}
	return loads, nil
}

// assignRole ghi một assignment trong transaction, unique index (analysis_id, role)
// chặn double-assign kể cả khi hai request chạy song song.
func assignRole(tx *gorm.DB, analysis *models.ViralAnalysis, role models.AssignmentRole, profileID uuid.UUID, assignedBy uuid.UUID) error {
	var candidate models.Profile
	if err := tx.First(&candidate, "id = ?", profileID).Error; err != nil {
		return services.NewWorkflowError(services.ErrKindNotFound, "Selected user not found")
	}

	var existing int64
	tx.Model(&models.ProjectAssignment{}).
		Where("analysis_id = ? AND role = ?", analysis.ID, role).
		Count(&existing)

	if err := services.ValidateManualAssignment(role, candidate.Role, existing > 0); err != nil {
		return err
	}

	assignment := models.ProjectAssignment{
		AnalysisID: analysis.ID,
		ProfileID:  profileID,
		Role:       role,
		AssignedBy: &assignedBy,
	}
	if err := tx.Create(&assignment).Error; err != nil {
		if strings.Contains(err.Error(), "idx_assignment_analysis_role") {
			return services.NewWorkflowError(services.ErrKindDuplicateAssignment, "This role is already filled for the analysis")
		}
		return err
	}
	return nil
}

// autoAssignRole chọn người ít việc nhất rồi ghi assignment
func autoAssignRole(tx *gorm.DB, analysis *models.ViralAnalysis, role models.AssignmentRole, assignedBy uuid.UUID) (uuid.UUID, error) {
	loads, err := activeWorkloads(tx, services.RoleForAssignment(role))
	if err != nil {
		return uuid.Nil, err
	}
	picked, err := services.SelectLeastLoaded(loads)
	if err != nil {
		return uuid.Nil, err
	}
	return picked, assignRole(tx, analysis, role, picked, assignedBy)
}

// AssignTeam: admin lập team sản xuất cho phân tích đã duyệt. Mỗi vai trò có thể
// chỉ định đích danh hoặc auto-assign theo người ít việc nhất. Editor có thể bỏ
// trống để project vào pool cho editor tự nhận.
func AssignTeam(c *gin.Context) {
	adminID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if analysis.Status != models.StatusApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only approved analyses can receive a team"})
		return
	}
	if analysis.IsDissolved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This analysis has been dissolved"})
		return
	}

	var input AssignTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assigned := map[string]uuid.UUID{}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		type roleSpec struct {
			role models.AssignmentRole
			id   string
			auto bool
		}
		specs := []roleSpec{
			{models.AssignVideographer, input.VideographerID, input.AutoVideographer},
			{models.AssignEditor, input.EditorID, input.AutoEditor},
			{models.AssignPostingManager, input.PostingManagerID, input.AutoPoster},
		}

		for _, s := range specs {
			switch {
			case s.id != "":
				pid, err := uuid.Parse(s.id)
				if err != nil {
					return services.NewWorkflowError(services.ErrKindValidation, "Invalid profile id for "+string(s.role))
				}
				if err := assignRole(tx, &analysis, s.role, pid, adminID); err != nil {
					return err
				}
				assigned[string(s.role)] = pid
			case s.auto:
				pid, err := autoAssignRole(tx, &analysis, s.role, adminID)
				if err != nil {
					return err
				}
				assigned[string(s.role)] = pid
			}
		}

		updates := map[string]interface{}{}
		if input.ShootPossibility != 0 {
			switch input.ShootPossibility {
			case 25, 50, 75, 100:
				updates["shoot_possibility"] = input.ShootPossibility
			default:
				return services.NewWorkflowError(services.ErrKindValidation, "Shoot possibility must be 25, 50, 75 or 100")
			}
		}
		if input.TotalPeople > 0 {
			updates["total_people_involved"] = input.TotalPeople
		}
		if input.AdminRemarks != "" {
			updates["admin_remarks"] = input.AdminRemarks
		}
		if input.Priority != "" {
			switch models.Priority(input.Priority) {
			case models.PriorityLow, models.PriorityNormal, models.PriorityHigh, models.PriorityUrgent:
				updates["priority"] = input.Priority
			default:
				return services.NewWorkflowError(services.ErrKindValidation, "Unknown priority")
			}
		}
		if input.IndustryID != "" {
			indID, err := uuid.Parse(input.IndustryID)
			if err != nil {
				return services.NewWorkflowError(services.ErrKindValidation, "Invalid industry id")
			}
			updates["industry_id"] = indID
		}
		if input.SocialProfileID != "" {
			spID, err := uuid.Parse(input.SocialProfileID)
			if err != nil {
				return services.NewWorkflowError(services.ErrKindValidation, "Invalid social profile id")
			}
			updates["social_profile_id"] = spID
		}
		if len(updates) > 0 {
			if err := tx.Model(&analysis).Updates(updates).Error; err != nil {
				return err
			}
		}

		// Cập nhật tag phân loại nếu có
		if len(input.HookTagIDs) > 0 {
			var hooks []models.HookTag
			if err := tx.Where("id IN ?", input.HookTagIDs).Find(&hooks).Error; err != nil {
				return err
			}
			if err := tx.Model(&analysis).Association("HookTags").Replace(hooks); err != nil {
				return err
			}
		}
		if len(input.CharacterTagIDs) > 0 {
			var chars []models.CharacterTag
			if err := tx.Where("id IN ?", input.CharacterTagIDs).Find(&chars).Error; err != nil {
				return err
			}
			if err := tx.Model(&analysis).Association("CharacterTags").Replace(chars); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	for role, pid := range assigned {
		notify(pid, "New assignment",
			fmt.Sprintf("You were assigned as %s on \"%s\"", role, analysis.Title),
			"assignment", &analysis.ID)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Team assigned", "assigned": assigned})
}

// GetWorkloads trả về số việc đang chạy của từng người trong một vai trò,
// để UI admin hiển thị khi chọn người.
func GetWorkloads(c *gin.Context) {
	role := models.ProfileRole(c.Query("role"))
	switch role {
	case models.RoleVideographer, models.RoleEditor, models.RolePostingManager:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be VIDEOGRAPHER, EDITOR or POSTING_MANAGER"})
		return
	}

	loads, err := activeWorkloads(config.DB, role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute workloads"})
		return
	}

	out := make([]gin.H, 0, len(loads))
	for _, l := range loads {
		out = append(out, gin.H{"profile_id": l.ProfileID, "active_assignments": l.Active})
	}
	c.JSON(http.StatusOK, gin.H{"workloads": out})
}

// RemoveAssignment gỡ một người khỏi vai trò trên phân tích
func RemoveAssignment(c *gin.Context) {
	id := c.Param("id")
	role := c.Query("role")

	result := config.DB.Where("analysis_id = ? AND role = ?", id, role).
		Delete(&models.ProjectAssignment{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove assignment"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Assignment removed"})
}
