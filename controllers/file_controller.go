package controllers

import (
	"archive/zip"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clipcraft/viral-production-backend/config"
	"github.com/clipcraft/viral-production-backend/models"
	"github.com/clipcraft/viral-production-backend/utils"
)

// UploadProductionFile: upload file sản xuất (footage thô, bản dựng, thumbnail...)
// lên Supabase Storage rồi ghi metadata. Upload trước, ghi DB sau.
func UploadProductionFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id := c.Param("id")

	analysisID, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid analysis id"})
		return
	}

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", analysisID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	if analysis.Status != models.StatusApproved {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Files can only be uploaded to approved analyses"})
		return
	}

	fileType := models.FileType(c.PostForm("file_type"))
	switch fileType {
	case models.FileRawFootage, models.FileEditedVideo, models.FileFinalVideo,
		models.FileThumbnail, models.FileScript:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown file type"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}

	fileID := uuid.New()
	fileURL, err := utils.UploadProductionFile(fileHeader, analysisID.String(), fileID.String())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload file"})
		return
	}

	record := models.ProductionFile{
		ID:         fileID,
		AnalysisID: analysisID,
		FileType:   fileType,
		FileName:   fileHeader.Filename,
		FileURL:    fileURL,
		SizeBytes:  fileHeader.Size,
		UploadedBy: userID,
	}
	if err := config.DB.Create(&record).Error; err != nil {
		// DB hỏng thì dọn object vừa upload
		_ = utils.DeleteFileFromSupabase(fileURL)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file record"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "File uploaded", "file": record})
}

// ListProductionFiles: các file chưa xóa của một phân tích, lọc theo loại nếu có
func ListProductionFiles(c *gin.Context) {
	id := c.Param("id")

	query := config.DB.Where("analysis_id = ? AND is_deleted = false", id).
		Preload("Uploader")
	if ft := c.Query("file_type"); ft != "" {
		query = query.Where("file_type = ?", ft)
	}

	var files []models.ProductionFile
	if err := query.Order("created_at DESC").Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// DeleteProductionFile: soft delete, object trên storage giữ nguyên
func DeleteProductionFile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	fileID := c.Param("fileId")

	var file models.ProductionFile
	if err := config.DB.First(&file, "id = ? AND is_deleted = false", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	isAdmin := c.GetString("role") == string(models.RoleSuperAdmin)
	if file.UploadedBy != userID && !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only delete files you uploaded"})
		return
	}

	if err := config.DB.Model(&file).Update("is_deleted", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

// zipEntryName đặt tên entry trong zip theo thư mục loại file; tên trùng được
// đánh số trước phần mở rộng (clip (2).mp4, không phải clip.mp4 (2))
func zipEntryName(fileType models.FileType, fileName string, seq int) string {
	name := string(fileType) + "/" + fileName
	if seq <= 1 {
		return name
	}
	ext := filepath.Ext(fileName)
	return fmt.Sprintf("%s (%d)%s", strings.TrimSuffix(name, ext), seq, ext)
}

// DownloadFilesZip stream toàn bộ file chưa xóa của một phân tích thành một
// file zip. Từng object được tải từ storage và ghi thẳng vào zip writer,
// không giữ cả archive trong bộ nhớ.
func DownloadFilesZip(c *gin.Context) {
	id := c.Param("id")

	var analysis models.ViralAnalysis
	if err := config.DB.First(&analysis, "id = ?", id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}

	query := config.DB.Where("analysis_id = ? AND is_deleted = false", id)
	if ft := c.Query("file_type"); ft != "" {
		query = query.Where("file_type = ?", ft)
	}
	var files []models.ProductionFile
	if err := query.Find(&files).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list files"})
		return
	}
	if len(files) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "No files to download"})
		return
	}

	zipName := fmt.Sprintf("%s-files-%s.zip", analysis.ID, time.Now().Format("20060102"))
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", `attachment; filename="`+zipName+`"`)

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	client := &http.Client{Timeout: 5 * time.Minute}
	used := map[string]int{}

	for _, f := range files {
		resp, err := client.Get(f.FileURL)
		if err != nil || resp.StatusCode != http.StatusOK {
			if resp != nil {
				resp.Body.Close()
			}
			continue // bỏ qua file tải hỏng, không chặn cả archive
		}

		key := string(f.FileType) + "/" + f.FileName
		used[key]++
		name := zipEntryName(f.FileType, f.FileName, used[key])

		w, err := zw.Create(name)
		if err != nil {
			resp.Body.Close()
			break
		}
		_, _ = io.Copy(w, resp.Body)
		resp.Body.Close()
	}
}
