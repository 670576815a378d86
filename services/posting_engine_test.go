package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipcraft/viral-production-backend/models"
)

func TestNormalizeHashtags(t *testing.T) {
	got := NormalizeHashtags([]string{"#viral", "  fyp ", "", "#  ", "# trending"})
	assert.Equal(t, []string{"viral", "fyp", "trending"}, got)
}

func TestValidatePostingDetailsHeading(t *testing.T) {
	// heading bắt buộc cho shorts/video/tiktok
	for _, p := range []models.PostingPlatform{
		models.PlatformYoutubeShorts, models.PlatformYoutubeVideo, models.PlatformTiktok,
	} {
		_, err := ValidatePostingDetails(PostingDetails{Platform: p, Caption: "caption"})
		require.Error(t, err, "platform %s", p)
	}

	// reels không cần heading
	for _, p := range []models.PostingPlatform{models.PlatformInstagram, models.PlatformFacebook} {
		_, err := ValidatePostingDetails(PostingDetails{Platform: p, Caption: "caption"})
		require.NoError(t, err, "platform %s", p)
	}

	// có heading thì qua
	d, err := ValidatePostingDetails(PostingDetails{
		Platform: models.PlatformTiktok,
		Heading:  "3 hooks that work",
		Hashtags: []string{"#viral", "fyp"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"viral", "fyp"}, d.Hashtags)
}

func TestValidatePostingDetailsUnknownPlatform(t *testing.T) {
	_, err := ValidatePostingDetails(PostingDetails{Platform: "MYSPACE"})
	require.Error(t, err)
}

func TestMarkAsPostedGuards(t *testing.T) {
	now := time.Now()

	// thiếu URL
	_, err := MarkAsPosted(approvedAt(models.StageReadyToPost), "  ", false, now)
	require.Error(t, err)

	// sai stage
	_, err = MarkAsPosted(approvedAt(models.StageEditing), "https://youtu.be/x", false, now)
	require.Error(t, err)
	we, _ := AsWorkflowError(err)
	assert.Equal(t, ErrKindStageMismatch, we.Kind)
}

func TestAppendPostedEntryKeepsOrder(t *testing.T) {
	now := time.Now()

	// cả mark-as-posted lẫn update stage đều nối vào cùng một log
	log := AppendPostedEntry(nil, "https://youtu.be/a", now)
	log = AppendPostedEntry(log, "https://tiktok.com/@x/video/b", now.Add(time.Minute))

	require.Len(t, log, 2)
	assert.Equal(t, "https://youtu.be/a", log[0].URL)
	assert.Equal(t, "https://tiktok.com/@x/video/b", log[1].URL)
	assert.Equal(t, now, log[0].PostedAt)
}

func TestMarkAsPostedQueueSequence(t *testing.T) {
	now := time.Now()
	snap := approvedAt(models.StageReadyToPost)

	// ba lần đăng: hai lần giữ hàng đợi, lần cuối chốt POSTED
	var posted []models.PostedURLEntry

	out, err := MarkAsPosted(snap, "https://youtube.com/shorts/a", true, now)
	require.NoError(t, err)
	posted = append(posted, out.Entry)
	assert.Equal(t, models.StageReadyToPost, out.NewStage)
	assert.True(t, out.ClearQueue)
	assert.False(t, out.SetPostedAt)

	out, err = MarkAsPosted(snap, "https://tiktok.com/@x/video/b", true, now)
	require.NoError(t, err)
	posted = append(posted, out.Entry)
	assert.Equal(t, models.StageReadyToPost, out.NewStage)

	out, err = MarkAsPosted(snap, "https://instagram.com/reel/c", false, now)
	require.NoError(t, err)
	posted = append(posted, out.Entry)
	assert.Equal(t, models.StagePosted, out.NewStage)
	assert.True(t, out.SetPostedAt)
	assert.False(t, out.ClearQueue)

	// log append-only: đủ ba entry, đúng thứ tự
	require.Len(t, posted, 3)
	assert.Equal(t, "https://youtube.com/shorts/a", posted[0].URL)
	assert.Equal(t, "https://tiktok.com/@x/video/b", posted[1].URL)
	assert.Equal(t, "https://instagram.com/reel/c", posted[2].URL)
}
