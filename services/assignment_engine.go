package services

import (
	"sort"

	"github.com/google/uuid"

	"github.com/clipcraft/viral-production-backend/models"
)

// RoleForAssignment map vai trò assignment sang vai trò profile phải có
func RoleForAssignment(role models.AssignmentRole) models.ProfileRole {
	switch role {
	case models.AssignVideographer:
		return models.RoleVideographer
	case models.AssignEditor:
		return models.RoleEditor
	case models.AssignPostingManager:
		return models.RolePostingManager
	}
	return ""
}

// Workload là số assignment đang hoạt động của một ứng viên cho một vai trò
type Workload struct {
	ProfileID uuid.UUID
	Active    int
}

// SelectLeastLoaded chọn ứng viên có ít assignment nhất.
// Khi bằng nhau, lấy ID nhỏ hơn để kết quả ổn định giữa các lần gọi
// (cách phá hòa không phải là cam kết nghiệp vụ).
func SelectLeastLoaded(candidates []Workload) (uuid.UUID, error) {
	if len(candidates) == 0 {
		return uuid.Nil, NewWorkflowError(ErrKindNotFound, "No users available for this role")
	}
	sorted := make([]Workload, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Active != sorted[j].Active {
			return sorted[i].Active < sorted[j].Active
		}
		return sorted[i].ProfileID.String() < sorted[j].ProfileID.String()
	})
	return sorted[0].ProfileID, nil
}

// ValidateManualAssignment kiểm tra điều kiện trước khi ghi một assignment thủ công.
// Mỗi điều kiện thiếu trả về một loại lỗi riêng.
func ValidateManualAssignment(role models.AssignmentRole, candidateRole models.ProfileRole, alreadyAssigned bool) error {
	if alreadyAssigned {
		return NewWorkflowError(ErrKindDuplicateAssignment, "This role is already filled for the analysis")
	}
	if expected := RoleForAssignment(role); candidateRole != expected && candidateRole != models.RoleSuperAdmin {
		return NewWorkflowError(ErrKindValidation, "Selected user does not hold the required role")
	}
	return nil
}
