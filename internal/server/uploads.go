package server

import (
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxUploadFiles    = 5
	maxUploadFileSize = 5 << 20
)

var allowedUploadExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".pdf":  true,
}

type uploadedFile struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

// UploadFiles stores attachments referenced later by reports and news
// articles. Stored names are uuid-prefixed so uploads never collide or
// leak the caller's file name into the filesystem.
func (s *Server) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		AbortWithError(c, newValidationError("files", "invalid_files", "at least one file is required"))
		return
	}
	if len(files) > maxUploadFiles {
		AbortWithError(c, newValidationError("files", "invalid_files", "too many files"))
		return
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		AbortWithError(c, err)
		return
	}

	uploaded := make([]uploadedFile, 0, len(files))
	for _, file := range files {
		meta, err := s.saveUpload(c, file)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		uploaded = append(uploaded, meta)
	}

	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"files": uploaded}})
}

func (s *Server) saveUpload(c *gin.Context, file *multipart.FileHeader) (uploadedFile, error) {
	if file.Size > maxUploadFileSize {
		return uploadedFile{}, newValidationError("files", "invalid_file_size", "file too large")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedUploadExtensions[ext] {
		return uploadedFile{}, newValidationError("files", "invalid_file_type", "unsupported file type")
	}

	name := uuid.NewString() + ext
	dst := filepath.Join(s.cfg.UploadDir, name)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		return uploadedFile{}, err
	}

	return uploadedFile{
		Filename:     name,
		OriginalName: filepath.Base(file.Filename),
		Path:         dst,
		URL:          "/uploads/" + name,
		Size:         file.Size,
		MimeType:     file.Header.Get("Content-Type"),
	}, nil
}
