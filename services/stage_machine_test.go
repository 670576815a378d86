package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcraft/viral-production-backend/models"
)

func approvedAt(stage models.ProductionStage) StageSnapshot {
	return StageSnapshot{Status: models.StatusApproved, Stage: stagePtr(stage)}
}

func TestTransitionRequiresApprovedStatus(t *testing.T) {
	snap := StageSnapshot{Status: models.StatusPending}
	_, err := Transition(snap, models.StageShooting, StageFacts{})
	require.Error(t, err)

	we, ok := AsWorkflowError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindStageMismatch, we.Kind)
}

func TestTransitionPlannedFromAnyStage(t *testing.T) {
	date := time.Now().AddDate(0, 0, 3)

	for _, from := range []models.ProductionStage{
		models.StagePlanning, models.StageShooting, models.StageEditReview,
	} {
		res, err := Transition(approvedAt(from), models.StagePlanned, StageFacts{PlannedDate: &date})
		require.NoError(t, err, "from %s", from)
		assert.Equal(t, models.StagePlanned, *res.Stage)
		assert.Contains(t, res.SideEffects, EffectSetPlannedDate)
	}

	// thiếu planned date thì từ chối
	_, err := Transition(approvedAt(models.StagePlanning), models.StagePlanned, StageFacts{})
	require.Error(t, err)
}

func TestTransitionNoShortcutShootingToEditing(t *testing.T) {
	_, err := Transition(approvedAt(models.StageShooting), models.StageEditing, StageFacts{HasEditor: true})
	require.Error(t, err)

	we, ok := AsWorkflowError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindStageMismatch, we.Kind)
}

func TestTransitionReshootAppendsNote(t *testing.T) {
	snap := approvedAt(models.StageShootReview)
	snap.ProductionNotes = "first take done"

	res, err := Transition(snap, models.StageShooting, StageFacts{})
	require.NoError(t, err)
	assert.Equal(t, "first take done\n\nReshoot required", res.ProductionNotes)
	assert.Contains(t, res.SideEffects, EffectAppendNote)
}

func TestTransitionRevisionAppendsNote(t *testing.T) {
	snap := approvedAt(models.StageEditReview)

	res, err := Transition(snap, models.StageEditing, StageFacts{})
	require.NoError(t, err)
	assert.Equal(t, models.StageEditing, *res.Stage)
	assert.Equal(t, "Revision needed", res.ProductionNotes)
}

func TestTransitionReadyForEditRequiresPick(t *testing.T) {
	// update stage chung không đưa project từ pool vào EDITING được,
	// kể cả khi có đủ footage: chỉ pick mới gắn editor kèm theo
	_, err := Transition(approvedAt(models.StageReadyForEdit), models.StageEditing, StageFacts{RawFootageFiles: 1})
	require.Error(t, err)
	we, ok := AsWorkflowError(err)
	require.True(t, ok)
	assert.Equal(t, ErrKindStageMismatch, we.Kind)

	// đường pick vẫn mở
	res, err := PickProjectTransition(approvedAt(models.StageReadyForEdit), StageFacts{RawFootageFiles: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StageEditing, *res.Stage)
}

func TestTransitionShootReviewBranches(t *testing.T) {
	// có editor -> EDITING
	res, err := Transition(approvedAt(models.StageShootReview), models.StageEditing, StageFacts{HasEditor: true})
	require.NoError(t, err)
	assert.Equal(t, models.StageEditing, *res.Stage)

	// chưa có editor -> không vào thẳng EDITING
	_, err = Transition(approvedAt(models.StageShootReview), models.StageEditing, StageFacts{})
	require.Error(t, err)

	// chưa có editor -> READY_FOR_EDIT
	res, err = Transition(approvedAt(models.StageShootReview), models.StageReadyForEdit, StageFacts{})
	require.NoError(t, err)
	assert.Equal(t, models.StageReadyForEdit, *res.Stage)

	// đã có editor thì không đưa vào pool
	_, err = Transition(approvedAt(models.StageShootReview), models.StageReadyForEdit, StageFacts{HasEditor: true})
	require.Error(t, err)
}

func TestTransitionReadyToPostRequiresEditedFiles(t *testing.T) {
	_, err := Transition(approvedAt(models.StageEditing), models.StageReadyToPost, StageFacts{})
	require.Error(t, err)
	we, _ := AsWorkflowError(err)
	assert.Equal(t, ErrKindMissingFiles, we.Kind)
	assert.Contains(t, we.Message, "no edited files uploaded")

	res, err := Transition(approvedAt(models.StageEditing), models.StageReadyToPost, StageFacts{EditedFiles: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StageReadyToPost, *res.Stage)
}

func TestTransitionPostedRequiresURL(t *testing.T) {
	_, err := Transition(approvedAt(models.StageReadyToPost), models.StagePosted, StageFacts{})
	require.Error(t, err)

	res, err := Transition(approvedAt(models.StageReadyToPost), models.StagePosted, StageFacts{PostedURL: "https://youtu.be/x"})
	require.NoError(t, err)
	assert.Contains(t, res.SideEffects, EffectSetPostedAt)
}

func TestPickProjectGuards(t *testing.T) {
	tests := []struct {
		name     string
		snap     StageSnapshot
		facts    StageFacts
		wantKind ErrorKind
		wantMsg  string
	}{
		{
			name:     "wrong stage",
			snap:     approvedAt(models.StageShootReview),
			facts:    StageFacts{RawFootageFiles: 2},
			wantKind: ErrKindStageMismatch,
			wantMsg:  "Project is not ready for edit",
		},
		{
			name:     "already has editor",
			snap:     approvedAt(models.StageReadyForEdit),
			facts:    StageFacts{RawFootageFiles: 2, HasEditor: true},
			wantKind: ErrKindDuplicateAssignment,
			wantMsg:  "This project already has an editor",
		},
		{
			name:     "no raw footage",
			snap:     approvedAt(models.StageReadyForEdit),
			facts:    StageFacts{},
			wantKind: ErrKindMissingFiles,
			wantMsg:  "no raw footage files",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PickProjectTransition(tt.snap, tt.facts)
			require.Error(t, err)
			we, ok := AsWorkflowError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, we.Kind)
			assert.Contains(t, we.Message, tt.wantMsg)
		})
	}

	res, err := PickProjectTransition(approvedAt(models.StageReadyForEdit), StageFacts{RawFootageFiles: 1})
	require.NoError(t, err)
	assert.Equal(t, models.StageEditing, *res.Stage)
}

func TestMarkEditingComplete(t *testing.T) {
	snap := approvedAt(models.StageEditing)
	snap.ProductionNotes = "shot list"

	res, err := MarkEditingCompleteTransition(snap, StageFacts{EditedFiles: 1}, "color grading pending")
	require.NoError(t, err)
	assert.Equal(t, models.StageReadyToPost, *res.Stage)
	assert.Equal(t, "shot list\n\n[Editor Notes]\ncolor grading pending", res.ProductionNotes)

	// không có sản phẩm dựng thì từ chối
	_, err = MarkEditingCompleteTransition(snap, StageFacts{}, "")
	require.Error(t, err)
}

func TestAppendEditorNotesFormat(t *testing.T) {
	first := AppendEditorNotes("", "trim intro")
	assert.Equal(t, "[Editor Notes]\ntrim intro", first)

	second := AppendEditorNotes(first, "add subtitles")
	assert.Equal(t, "[Editor Notes]\ntrim intro\n\n[Editor Notes]\nadd subtitles", second)
}

func TestDisapproveTransition(t *testing.T) {
	// chưa vào quay thì trả về PENDING được
	for _, stage := range []*models.ProductionStage{nil, stagePtr(models.StagePlanning), stagePtr(models.StagePlanned)} {
		snap := StageSnapshot{Status: models.StatusApproved, Stage: stage}
		res, err := DisapproveTransition(snap, "not aligned with brand")
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, res.Status)
		assert.Nil(t, res.Stage)
		assert.Contains(t, res.SideEffects, EffectClearStage)
		assert.Contains(t, res.SideEffects, EffectCountDisapproval)
	}

	// đã quay rồi thì không trả về được
	_, err := DisapproveTransition(approvedAt(models.StageShooting), "late objection")
	require.Error(t, err)

	// feedback bắt buộc
	_, err = DisapproveTransition(approvedAt(models.StagePlanning), "")
	require.Error(t, err)
}
