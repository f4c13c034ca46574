package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Freeeeeet/nurse_mentorship/internal/model"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	BucketImages    = "images"
	BucketVideos    = "videos"
	BucketDocuments = "documents"
)

// documentTypes MIME типы, которые принимаются как документы
var documentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         true,
	"application/vnd.ms-powerpoint":                                             true,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": true,
	"text/plain": true,
	"text/csv":   true,
}

// ClassifyMIME определяет папку по MIME типу, "" если тип не принимается
func ClassifyMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(strings.SplitN(mime, ";", 2)[0]))
	switch {
	case strings.HasPrefix(mime, "image/"):
		return BucketImages
	case strings.HasPrefix(mime, "video/"):
		return BucketVideos
	case documentTypes[mime]:
		return BucketDocuments
	default:
		return ""
	}
}

// Upload POST /uploads, multipart поле file
func (h *Handlers) Upload(c *gin.Context) {
	actor, ok := h.requireActor(c)
	if !ok {
		return
	}

	// Запас на заголовки multipart
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		h.respondError(c, model.ValidationError("file is required (max %d MB)", h.uploads.MaxBytes>>20))
		return
	}
	if header.Size > h.uploads.MaxBytes {
		h.respondError(c, model.ValidationError("file is too large (max %d MB)", h.uploads.MaxBytes>>20))
		return
	}

	bucket, name, err := h.saveUpload(header)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.Info("File uploaded",
		zap.Int64("user_id", actor.UserID),
		zap.String("bucket", bucket),
		zap.String("name", name),
		zap.Int64("size", header.Size),
	)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"url":     "/uploads/" + bucket + "/" + name,
		"bucket":  bucket,
	})
}

// saveUpload определяет тип по содержимому и сохраняет файл в UPLOAD_DIR/<bucket>/<uuid><ext>
func (h *Handlers) saveUpload(header *multipart.FileHeader) (string, string, error) {
	src, err := header.Open()
	if err != nil {
		return "", "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", "", fmt.Errorf("detect mime type: %w", err)
	}

	bucket := ClassifyMIME(detected.String())
	if bucket == "" {
		// Office форматы определяются по содержимому как zip, доверяем заявленному типу
		if declared := ClassifyMIME(header.Header.Get("Content-Type")); declared == BucketDocuments && detected.Is("application/zip") {
			bucket = declared
		}
	}
	if bucket == "" {
		return "", "", model.ValidationError("unsupported file type %s", detected.String())
	}

	// Расширение берём из определённого типа, имя от клиента не используется
	name := uuid.NewString() + detected.Extension()

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("rewind upload: %w", err)
	}

	dir := filepath.Join(h.uploads.Dir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("create upload dir: %w", err)
	}

	if err := writeFile(filepath.Join(dir, name), src); err != nil {
		return "", "", err
	}

	return bucket, name, nil
}

// writeFile пишет файл целиком, при ошибке недописанный файл удаляется
func writeFile(path string, src io.Reader) (err error) {
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close upload file: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}
