package services

import (
	"math"
	"strings"

	"github.com/clipcraft/viral-production-backend/models"
)

const (
	// Cảnh báo ở lần reject thứ 4, giải thể ở lần thứ 5
	DissolutionWarningCount = 4
	DissolutionThreshold    = 5

	DissolutionReason = "Dissolved after 5 rejections"
)

// ReviewInput là dữ liệu chấm điểm đã qua binding validation của controller
type ReviewInput struct {
	Decision           models.ReviewDecision
	HookStrength       int
	ContentQuality     int
	ViralPotential     int
	ReplicationClarity int
	Feedback           string
	HasSocialProfile   bool
}

// ReviewOutcome là kết quả tính toán thuần túy, controller chịu trách nhiệm ghi DB
type ReviewOutcome struct {
	OverallScore      float64
	NewStatus         models.AnalysisStatus
	EntryStage        *models.ProductionStage // PLANNING khi duyệt
	NewRejectionCount int
	WarnDissolution   bool // đúng ở lần reject thứ 4
	Dissolve          bool // đúng từ lần reject thứ 5
	DissolutionReason string
	GenerateContentID bool // duyệt kèm social profile thì sinh content ID
}

// OverallScore = trung bình 4 điểm, làm tròn 1 chữ số thập phân.
// Ví dụ (8,7,9,6) -> 7.5, (3,2,1,2) -> 2.0.
func OverallScore(hook, quality, viral, clarity int) float64 {
	mean := float64(hook+quality+viral+clarity) / 4.0
	return math.Round(mean*10) / 10
}

// EvaluateReview áp quy tắc chấm điểm của spec nghiệp vụ:
// reject bắt buộc có feedback, đếm reject và giải thể khi chạm ngưỡng,
// approve đưa phân tích vào stage PLANNING.
func EvaluateReview(in ReviewInput, currentRejectionCount int) (*ReviewOutcome, error) {
	for _, s := range []int{in.HookStrength, in.ContentQuality, in.ViralPotential, in.ReplicationClarity} {
		if s < 1 || s > 10 {
			return nil, NewWorkflowError(ErrKindValidation, "Scores must be between 1 and 10")
		}
	}

	out := &ReviewOutcome{
		OverallScore:      OverallScore(in.HookStrength, in.ContentQuality, in.ViralPotential, in.ReplicationClarity),
		NewRejectionCount: currentRejectionCount,
	}

	switch in.Decision {
	case models.DecisionReject:
		if strings.TrimSpace(in.Feedback) == "" {
			return nil, NewWorkflowError(ErrKindValidation, "Feedback is required when rejecting an analysis")
		}
		out.NewStatus = models.StatusRejected
		out.NewRejectionCount = currentRejectionCount + 1
		if out.NewRejectionCount >= DissolutionThreshold {
			out.Dissolve = true
			out.DissolutionReason = DissolutionReason
		} else if out.NewRejectionCount >= DissolutionWarningCount {
			out.WarnDissolution = true
		}
		return out, nil

	case models.DecisionApprove:
		out.NewStatus = models.StatusApproved
		out.EntryStage = stagePtr(models.StagePlanning)
		out.GenerateContentID = in.HasSocialProfile
		return out, nil
	}

	return nil, NewWorkflowError(ErrKindValidation, "Decision must be APPROVE or REJECT")
}
