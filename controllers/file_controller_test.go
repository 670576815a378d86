package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/clipcraft/viral-production-backend/models"
)

func TestZipEntryName(t *testing.T) {
	assert.Equal(t, "RAW_FOOTAGE/clip.mp4", zipEntryName(models.FileRawFootage, "clip.mp4", 1))

	// tên trùng: số thứ tự đứng trước phần mở rộng
	assert.Equal(t, "RAW_FOOTAGE/clip (2).mp4", zipEntryName(models.FileRawFootage, "clip.mp4", 2))
	assert.Equal(t, "EDITED_VIDEO/final.cut.mp4", zipEntryName(models.FileEditedVideo, "final.cut.mp4", 1))
	assert.Equal(t, "EDITED_VIDEO/final.cut (3).mp4", zipEntryName(models.FileEditedVideo, "final.cut.mp4", 3))

	// file không có phần mở rộng
	assert.Equal(t, "SCRIPT/notes (2)", zipEntryName(models.FileScript, "notes", 2))
}
