package services

import (
	"strings"
	"time"

	"github.com/clipcraft/viral-production-backend/models"
)

// PostingDetails là thông tin đăng bài cho platform đang xếp hàng
type PostingDetails struct {
	Platform      models.PostingPlatform
	Caption       string
	Heading       string
	Hashtags      []string
	ScheduledTime *time.Time
}

// headingRequired: các platform bắt buộc có heading
func headingRequired(p models.PostingPlatform) bool {
	switch p {
	case models.PlatformYoutubeShorts, models.PlatformYoutubeVideo, models.PlatformTiktok:
		return true
	}
	return false
}

// NormalizeHashtags bỏ dấu # đầu, trim khoảng trắng, loại entry rỗng
func NormalizeHashtags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		t = strings.TrimPrefix(t, "#")
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// ValidatePostingDetails chuẩn hóa và kiểm tra thông tin đăng bài
func ValidatePostingDetails(d PostingDetails) (*PostingDetails, error) {
	switch d.Platform {
	case models.PlatformYoutubeShorts, models.PlatformYoutubeVideo, models.PlatformTiktok,
		models.PlatformInstagram, models.PlatformFacebook:
	default:
		return nil, NewWorkflowError(ErrKindValidation, "Unknown posting platform")
	}
	if headingRequired(d.Platform) && strings.TrimSpace(d.Heading) == "" {
		return nil, NewWorkflowError(ErrKindValidation, "A heading is required for this platform")
	}
	norm := d
	norm.Hashtags = NormalizeHashtags(d.Hashtags)
	return &norm, nil
}

// PostedOutcome mô tả các thay đổi khi mark-as-posted
type PostedOutcome struct {
	Entry       models.PostedURLEntry
	NewStage    models.ProductionStage
	ClearQueue  bool // keepInQueue=true: xóa platform/caption/heading/hashtags/lịch để xếp platform kế
	SetPostedAt bool // keepInQueue=false: chốt posted_url/posted_at, chuyển POSTED
}

// AppendPostedEntry nối một lần đăng vào log posted_urls. Log chỉ nối thêm:
// không entry nào bị sửa hay xóa, kể cả sau khi phân tích đã POSTED.
func AppendPostedEntry(log []models.PostedURLEntry, url string, at time.Time) []models.PostedURLEntry {
	return append(log, models.PostedURLEntry{URL: url, PostedAt: at})
}

// MarkAsPosted: luôn append một entry vào posted_urls. keepInQueue=true giữ
// phân tích ở READY_TO_POST và dọn các trường platform để xếp hàng cho platform
// tiếp theo; keepInQueue=false chuyển POSTED (terminal).
func MarkAsPosted(snap StageSnapshot, postedURL string, keepInQueue bool, now time.Time) (*PostedOutcome, error) {
	if strings.TrimSpace(postedURL) == "" {
		return nil, NewWorkflowError(ErrKindValidation, "A posted URL is required")
	}
	if snap.Status != models.StatusApproved || !stageIn(snap.Stage, models.StageReadyToPost) {
		return nil, NewWorkflowError(ErrKindStageMismatch, "Analysis is not ready to post")
	}

	out := &PostedOutcome{
		Entry: models.PostedURLEntry{URL: postedURL, PostedAt: now},
	}
	if keepInQueue {
		out.NewStage = models.StageReadyToPost
		out.ClearQueue = true
	} else {
		out.NewStage = models.StagePosted
		out.SetPostedAt = true
	}
	return out, nil
}
