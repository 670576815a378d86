package services

import (
	"fmt"
	"time"

	"github.com/clipcraft/viral-production-backend/models"
)

// StageSnapshot là trạng thái hiện tại của một phân tích, đủ để máy trạng thái
// quyết định mà không cần chạm DB.
type StageSnapshot struct {
	Status          models.AnalysisStatus
	Stage           *models.ProductionStage
	ProductionNotes string
}

// StageFacts là các dữ kiện hỗ trợ do caller tra cứu trước (đếm file, assignment...)
type StageFacts struct {
	RawFootageFiles int
	EditedFiles     int
	HasEditor       bool
	PostedURL       string
	PlannedDate     *time.Time
}

type SideEffect string

const (
	EffectSetPlannedDate   SideEffect = "SET_PLANNED_DATE"
	EffectAppendNote       SideEffect = "APPEND_NOTE"
	EffectClearStage       SideEffect = "CLEAR_STAGE"
	EffectCountDisapproval SideEffect = "INCREMENT_DISAPPROVAL"
	EffectSetPostedAt      SideEffect = "SET_POSTED_AT"
)

// StageResult là trạng thái mới cùng danh sách side effect caller phải ghi nhận.
type StageResult struct {
	Status          models.AnalysisStatus
	Stage           *models.ProductionStage
	ProductionNotes string
	SideEffects     []SideEffect
}

const editorNotesHeading = "[Editor Notes]"

// AppendEditorNotes nối ghi chú của editor vào production_notes.
// Lần đầu không có separator, các lần sau cách nhau bằng dòng trống.
func AppendEditorNotes(existing, note string) string {
	entry := editorNotesHeading + "\n" + note
	if existing == "" {
		return entry
	}
	return existing + "\n\n" + entry
}

func stagePtr(s models.ProductionStage) *models.ProductionStage {
	return &s
}

func stageName(s *models.ProductionStage) string {
	if s == nil {
		return "none"
	}
	return string(*s)
}

func stageIn(s *models.ProductionStage, set ...models.ProductionStage) bool {
	if s == nil {
		return false
	}
	for _, v := range set {
		if *s == v {
			return true
		}
	}
	return false
}

// Transition kiểm tra và áp dụng một chuyển stage. Trả về trạng thái mới hoặc
// WorkflowError có loại cụ thể. Không cho phép đi tắt SHOOTING -> EDITING:
// đường duy nhất là qua SHOOT_REVIEW.
func Transition(snap StageSnapshot, target models.ProductionStage, facts StageFacts) (*StageResult, error) {
	if snap.Status != models.StatusApproved {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Analysis is not approved for production")
	}

	res := &StageResult{
		Status:          snap.Status,
		Stage:           stagePtr(target),
		ProductionNotes: snap.ProductionNotes,
	}

	switch target {
	case models.StagePlanning:
		return nil, NewWorkflowError(ErrKindStageMismatch, "Analyses enter planning through review approval, not a stage update")

	case models.StagePlanned:
		// bất kỳ stage nào cũng lùi/tiến về PLANNED được, kèm planned_date
		if facts.PlannedDate == nil {
			return nil, NewWorkflowError(ErrKindValidation, "A planned date is required to mark as planned")
		}
		res.SideEffects = append(res.SideEffects, EffectSetPlannedDate)
		return res, nil

	case models.StageShooting:
		// bắt đầu quay, hoặc reshoot từ vòng review
		if snap.Stage == nil || stageIn(snap.Stage, models.StagePlanning, models.StagePlanned) {
			return res, nil
		}
		if stageIn(snap.Stage, models.StageShootReview) {
			res.ProductionNotes = appendProductionNote(snap.ProductionNotes, "Reshoot required")
			res.SideEffects = append(res.SideEffects, EffectAppendNote)
			return res, nil
		}
		return nil, stageMismatch(snap.Stage, target)

	case models.StageShootReview:
		if !stageIn(snap.Stage, models.StageShooting) {
			return nil, stageMismatch(snap.Stage, target)
		}
		return res, nil

	case models.StageReadyForEdit:
		// duyệt shoot khi chưa có editor: đưa vào pool cho editor tự nhận
		if !stageIn(snap.Stage, models.StageShootReview) {
			return nil, stageMismatch(snap.Stage, target)
		}
		if facts.HasEditor {
			return nil, NewWorkflowError(ErrKindStageMismatch, "Analysis already has an editor, approve the shoot into editing instead")
		}
		return res, nil

	case models.StageEditing:
		switch {
		case stageIn(snap.Stage, models.StageShootReview):
			// duyệt shoot khi editor đã được gán sẵn
			if !facts.HasEditor {
				return nil, NewWorkflowError(ErrKindStageMismatch, "No editor assigned, move to ready for edit instead")
			}
			return res, nil
		case stageIn(snap.Stage, models.StageReadyForEdit):
			// từ pool phải đi qua thao tác pick: pick còn ghi assignment
			// cho editor trong cùng transaction với việc đổi stage
			return nil, NewWorkflowError(ErrKindStageMismatch, "Projects in the edit pool must be picked by an editor")
		case stageIn(snap.Stage, models.StageEditReview):
			res.ProductionNotes = appendProductionNote(snap.ProductionNotes, "Revision needed")
			res.SideEffects = append(res.SideEffects, EffectAppendNote)
			return res, nil
		default:
			return nil, stageMismatch(snap.Stage, target)
		}

	case models.StageEditReview:
		if !stageIn(snap.Stage, models.StageEditing) {
			return nil, stageMismatch(snap.Stage, target)
		}
		return res, nil

	case models.StageFinalReview:
		if !stageIn(snap.Stage, models.StageEditReview) {
			return nil, stageMismatch(snap.Stage, target)
		}
		return res, nil

	case models.StageReadyToPost:
		switch {
		case stageIn(snap.Stage, models.StageEditing):
			if facts.EditedFiles < 1 {
				return nil, NewWorkflowError(ErrKindMissingFiles, "no edited files uploaded")
			}
			return res, nil
		case stageIn(snap.Stage, models.StageFinalReview):
			return res, nil
		default:
			return nil, stageMismatch(snap.Stage, target)
		}

	case models.StagePosted:
		if !stageIn(snap.Stage, models.StageReadyToPost) {
			return nil, stageMismatch(snap.Stage, target)
		}
		if facts.PostedURL == "" {
			return nil, NewWorkflowError(ErrKindValidation, "A posted URL is required to mark as posted")
		}
		res.SideEffects = append(res.SideEffects, EffectSetPostedAt)
		return res, nil
	}

	return nil, NewWorkflowError(ErrKindValidation, fmt.Sprintf("Unknown production stage: %s", target))
}

// PickProjectTransition là guard riêng cho editor tự nhận project:
// đúng stage, chưa có editor, có ít nhất một file footage thô.
// Mỗi điều kiện thiếu trả về một loại lỗi riêng để UI hiển thị đúng thông điệp.
func PickProjectTransition(snap StageSnapshot, facts StageFacts) (*StageResult, error) {
	if snap.Status != models.StatusApproved || !stageIn(snap.Stage, models.StageReadyForEdit) {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Project is not ready for edit")
	}
	if facts.HasEditor {
		return nil, NewWorkflowError(ErrKindDuplicateAssignment, "This project already has an editor")
	}
	if facts.RawFootageFiles < 1 {
		return nil, NewWorkflowError(ErrKindMissingFiles, "no raw footage files")
	}
	return &StageResult{
		Status:          snap.Status,
		Stage:           stagePtr(models.StageEditing),
		ProductionNotes: snap.ProductionNotes,
	}, nil
}

// MarkEditingCompleteTransition: EDITING -> READY_TO_POST, yêu cầu có sản phẩm dựng.
// Ghi chú của editor (nếu có) được nối dưới heading [Editor Notes].
func MarkEditingCompleteTransition(snap StageSnapshot, facts StageFacts, editorNotes string) (*StageResult, error) {
	if snap.Status != models.StatusApproved || !stageIn(snap.Stage, models.StageEditing) {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Project is not in editing")
	}
	if facts.EditedFiles < 1 {
		return nil, NewWorkflowError(ErrKindMissingFiles, "no edited files uploaded")
	}
	res := &StageResult{
		Status:          snap.Status,
		Stage:           stagePtr(models.StageReadyToPost),
		ProductionNotes: snap.ProductionNotes,
	}
	if editorNotes != "" {
		res.ProductionNotes = AppendEditorNotes(snap.ProductionNotes, editorNotes)
		res.SideEffects = append(res.SideEffects, EffectAppendNote)
	}
	return res, nil
}

// DisapproveTransition trả một phân tích đã duyệt (chưa vào quay) về PENDING.
func DisapproveTransition(snap StageSnapshot, feedback string) (*StageResult, error) {
	if snap.Status != models.StatusApproved {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Only approved analyses can be sent back")
	}
	if snap.Stage != nil && !stageIn(snap.Stage, models.StagePlanning, models.StagePlanned) {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Production has already started, the analysis can no longer be sent back")
	}
	if feedback == "" {
		return nil, NewWorkflowError(ErrKindValidation, "Feedback is required when sending back an analysis")
	}
	return &StageResult{
		Status:      models.StatusPending,
		Stage:       nil,
		SideEffects: []SideEffect{EffectClearStage, EffectCountDisapproval},
	}, nil
}

func appendProductionNote(existing, note string) string {
	if existing == "" {
		return note
	}
	return existing + "\n\n" + note
}

func stageMismatch(from *models.ProductionStage, to models.ProductionStage) *WorkflowError {
	return NewWorkflowError(ErrKindStageMismatch,
		fmt.Sprintf("Cannot move from %s to %s", stageName(from), to))
}
