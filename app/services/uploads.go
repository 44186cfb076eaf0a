package services

import (
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Emmanuel-rotich2/Kingsway-sub007/app/workflow"
)

// maxPaperSize caps question paper uploads at 10MB.
const maxPaperSize = 10 << 20

var allowedPaperExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
}

// UploadStore saves uploaded files under a base directory on disk.
type UploadStore struct {
	BasePath string
}

// NewUploadStore ensures the base directory exists.
func NewUploadStore(basePath string) (*UploadStore, error) {
	if err := os.MkdirAll(filepath.Join(basePath, "papers"), 0o755); err != nil {
		return nil, err
	}
	return &UploadStore{BasePath: basePath}, nil
}

// SavePaper validates and stores a question paper, returning its relative
// path. The stored name is a fresh UUID so uploads cannot collide or
// traverse directories.
func (s *UploadStore) SavePaper(c *fiber.Ctx, file *multipart.FileHeader) (string, error) {
	if file.Size > maxPaperSize {
		return "", workflow.Validationf([]string{"paper"}, "question paper exceeds the 10MB limit")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPaperExtensions[ext] {
		return "", workflow.Validationf([]string{"paper"}, "question papers must be pdf, doc or docx")
	}

	name := uuid.New().String() + ext
	relative := filepath.Join("papers", name)
	if err := c.SaveFile(file, filepath.Join(s.BasePath, relative)); err != nil {
		return "", workflow.Storef(err, "failed to store question paper")
	}
	return relative, nil
}
