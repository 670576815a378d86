package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/clipcraft/viral-production-backend/models"
)

// Hàm gọn để xử lý prompt và trả kết quả từ Gemini
func GeminiGenerateText(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(os.Getenv("GEMINI_API_KEY")))
	if err != nil {
		return "", fmt.Errorf("không thể tạo Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash")
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("lỗi Gemini xử lý: %v", err)
	}
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini không trả kết quả hợp lệ")
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// CaptionSuggestion là gợi ý đăng bài do AI sinh cho posting manager
type CaptionSuggestion struct {
	Caption  string   `json:"caption"`
	Heading  string   `json:"heading"`
	Hashtags []string `json:"hashtags"`
}

// SuggestCaptions sinh gợi ý caption/heading/hashtag cho một platform
// từ hook và kịch bản của phân tích.
func SuggestCaptions(ctx context.Context, platform models.PostingPlatform, hook, script string) (*CaptionSuggestion, error) {
	if len(script) > 2000 {
		script = script[:2000]
	}

	prompt := fmt.Sprintf(`
You write social media copy for short-form video.
Platform: %s
Hook of the video: %s
Script excerpt:
%s

Write one caption, one short heading and 5-8 hashtags for this platform.
Hashtags without the leading #.

Return JSON only:
{
    "caption": "...",
    "heading": "...",
    "hashtags": ["tag1", "tag2"]
}
`, platform, hook, script)

	rawResp, err := GeminiGenerateText(ctx, prompt)
	if err != nil {
		return nil, WrapUpstream(err, "Caption suggestion failed")
	}

	clean := strings.TrimSpace(rawResp)
	clean = strings.Trim(clean, "`")
	clean = strings.TrimPrefix(clean, "json")
	clean = strings.TrimSpace(clean)

	var suggestion CaptionSuggestion
	if err := json.Unmarshal([]byte(clean), &suggestion); err != nil {
		return nil, WrapUpstream(err, "Caption suggestion returned malformed JSON")
	}
	suggestion.Hashtags = NormalizeHashtags(suggestion.Hashtags)
	return &suggestion, nil
}
