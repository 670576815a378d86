package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcraft/viral-production-backend/models"
)

func TestRoleForAssignment(t *testing.T) {
	assert.Equal(t, models.RoleVideographer, RoleForAssignment(models.AssignVideographer))
	assert.Equal(t, models.RoleEditor, RoleForAssignment(models.AssignEditor))
	assert.Equal(t, models.RolePostingManager, RoleForAssignment(models.AssignPostingManager))
}

func TestSelectLeastLoaded(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")
	c := uuid.MustParse("33333333-3333-3333-3333-333333333333")

	picked, err := SelectLeastLoaded([]Workload{
		{ProfileID: a, Active: 3},
		{ProfileID: b, Active: 1},
		{ProfileID: c, Active: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, b, picked)
}

func TestSelectLeastLoadedTieBreakIsStable(t *testing.T) {
	a := uuid.MustParse("11111111-1111-1111-1111-111111111111")
	b := uuid.MustParse("22222222-2222-2222-2222-222222222222")

	// hòa nhau thì mọi lần gọi đều cho cùng kết quả
	first, err := SelectLeastLoaded([]Workload{{ProfileID: b, Active: 2}, {ProfileID: a, Active: 2}})
	require.NoError(t, err)
	second, err := SelectLeastLoaded([]Workload{{ProfileID: a, Active: 2}, {ProfileID: b, Active: 2}})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, a, first)
}

func TestSelectLeastLoadedEmpty(t *testing.T) {
	_, err := SelectLeastLoaded(nil)
	require.Error(t, err)

	we, ok := AsWorkflowError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindNotFound, we.Kind)
	assert.Equal(t, "No users available for this role", we.Message)
}

func TestValidateManualAssignment(t *testing.T) {
	// vai trò đã có người
	err := ValidateManualAssignment(models.AssignEditor, models.RoleEditor, true)
	require.Error(t, err)
	we, _ := AsWorkflowError(err)
	assert.Equal(t, ErrKindDuplicateAssignment, we.Kind)

	// sai role profile
	err = ValidateManualAssignment(models.AssignEditor, models.RoleVideographer, false)
	require.Error(t, err)

	// super admin nhận được mọi vai trò
	assert.NoError(t, ValidateManualAssignment(models.AssignEditor, models.RoleSuperAdmin, false))

	// đúng role
	assert.NoError(t, ValidateManualAssignment(models.AssignVideographer, models.RoleVideographer, false))
}
