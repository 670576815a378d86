package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcraft/viral-production-backend/models"
)

func TestOverallScore(t *testing.T) {
	tests := []struct {
		scores [4]int
		want   float64
	}{
		{[4]int{8, 7, 9, 6}, 7.5},
		{[4]int{3, 2, 1, 2}, 2.0},
		{[4]int{10, 10, 10, 10}, 10.0},
		{[4]int{1, 1, 1, 2}, 1.3}, // 1.25 làm tròn lên 1.3
	}

	for _, tt := range tests {
		got := OverallScore(tt.scores[0], tt.scores[1], tt.scores[2], tt.scores[3])
		assert.Equal(t, tt.want, got)
	}
}

func TestEvaluateReviewApprove(t *testing.T) {
	out, err := EvaluateReview(ReviewInput{
		Decision:           models.DecisionApprove,
		HookStrength:       8,
		ContentQuality:     7,
		ViralPotential:     9,
		ReplicationClarity: 6,
		HasSocialProfile:   true,
	}, 2)
	require.NoError(t, err)

	assert.Equal(t, models.StatusApproved, out.NewStatus)
	assert.Equal(t, 7.5, out.OverallScore)
	require.NotNil(t, out.EntryStage)
	assert.Equal(t, models.StagePlanning, *out.EntryStage)
	assert.True(t, out.GenerateContentID)
	// duyệt không đổi rejection count
	assert.Equal(t, 2, out.NewRejectionCount)
}

func TestEvaluateReviewApproveWithoutSocialProfile(t *testing.T) {
	out, err := EvaluateReview(ReviewInput{
		Decision:           models.DecisionApprove,
		HookStrength:       5,
		ContentQuality:     5,
		ViralPotential:     5,
		ReplicationClarity: 5,
	}, 0)
	require.NoError(t, err)
	assert.False(t, out.GenerateContentID)
}

func TestEvaluateReviewRejectRequiresFeedback(t *testing.T) {
	for _, feedback := range []string{"", "   ", "\n\t"} {
		_, err := EvaluateReview(ReviewInput{
			Decision:           models.DecisionReject,
			HookStrength:       3,
			ContentQuality:     2,
			ViralPotential:     1,
			ReplicationClarity: 2,
			Feedback:           feedback,
		}, 0)
		require.Error(t, err)
		we, ok := AsWorkflowError(err)
		require.True(t, ok)
		assert.Equal(t, ErrKindValidation, we.Kind)
	}
}

func TestEvaluateReviewRejectCountsAndDissolves(t *testing.T) {
	reject := func(current int) *ReviewOutcome {
		out, err := EvaluateReview(ReviewInput{
			Decision:           models.DecisionReject,
			HookStrength:       3,
			ContentQuality:     2,
			ViralPotential:     1,
			ReplicationClarity: 2,
			Feedback:           "hook is weak",
		}, current)
		require.NoError(t, err)
		return out
	}

	// reject thứ 3: chưa cảnh báo
	out := reject(2)
	assert.Equal(t, 3, out.NewRejectionCount)
	assert.False(t, out.WarnDissolution)
	assert.False(t, out.Dissolve)

	// reject thứ 4: cảnh báo
	out = reject(3)
	assert.Equal(t, 4, out.NewRejectionCount)
	assert.True(t, out.WarnDissolution)
	assert.False(t, out.Dissolve)

	// reject thứ 5: giải thể
	out = reject(4)
	assert.Equal(t, 5, out.NewRejectionCount)
	assert.True(t, out.Dissolve)
	assert.Equal(t, "Dissolved after 5 rejections", out.DissolutionReason)
	assert.Equal(t, models.StatusRejected, out.NewStatus)
}

func TestEvaluateReviewScoreBounds(t *testing.T) {
	for _, scores := range [][4]int{
		{0, 5, 5, 5},
		{5, 11, 5, 5},
		{5, 5, -1, 5},
	} {
		_, err := EvaluateReview(ReviewInput{
			Decision:           models.DecisionApprove,
			HookStrength:       scores[0],
			ContentQuality:     scores[1],
			ViralPotential:     scores[2],
			ReplicationClarity: scores[3],
		}, 0)
		require.Error(t, err)
	}
}
