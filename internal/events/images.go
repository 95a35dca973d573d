package events

import (
	"context"
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontend-leeds/backend/pkg/response"
	"github.com/frontend-leeds/backend/pkg/storage"
)

// ImageStore persists uploaded event images.
type ImageStore interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)
	PresignUpload(ctx context.Context, key, contentType string) (string, error)
	PublicURL(key string) string
}

// ImageHandler serves event image uploads. A nil store answers 503.
type ImageHandler struct {
	store  ImageStore
	logger *zap.Logger
	now    func() time.Time
}

// NewImageHandler creates an image upload handler.
func NewImageHandler(store ImageStore, logger *zap.Logger) *ImageHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageHandler{store: store, logger: logger, now: time.Now}
}

// UploadURLRequest is the body for POST /events/images/upload-url.
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize" binding:"required,gt=0"`
}

// Upload handles POST /events/images (multipart field "file", admin only).
func (h *ImageHandler) Upload(c *gin.Context) {
	if h.store == nil {
		response.ServiceUnavailable(c, "image storage is not configured")
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "missing file (form field: file)")
		return
	}
	if file.Size > storage.MaxImageSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	declared := file.Header.Get("Content-Type")
	if !storage.ValidateImageType(declared, file.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp and gif images are allowed")
		return
	}
	contentType := storage.ContentTypeFor(declared, file.Filename)
	key := storage.EventImageKey(file.Filename, contentType, h.now())

	rc, err := file.Open()
	if err != nil {
		h.logger.Error("open uploaded file failed", zap.Error(err))
		response.Internal(c, "failed to read file")
		return
	}
	defer rc.Close()

	url, err := h.store.Upload(c.Request.Context(), key, contentType, rc, file.Size)
	if err != nil {
		h.logger.Error("image upload failed", zap.Error(err), zap.String("key", key))
		response.Internal(c, "failed to upload file to storage")
		return
	}
	response.Created(c, gin.H{"key": key, "imageUrl": url, "contentType": contentType, "size": file.Size})
}

// UploadURL handles POST /events/images/upload-url, returning a presigned PUT URL.
func (h *ImageHandler) UploadURL(c *gin.Context) {
	if h.store == nil {
		response.ServiceUnavailable(c, "image storage is not configured")
		return
	}
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}
	if req.FileSize > storage.MaxImageSize {
		response.BadRequest(c, "file size exceeds 5MB limit")
		return
	}
	if !storage.ValidateImageType(req.ContentType, req.Filename) {
		response.BadRequest(c, "invalid file type: only jpg, png, webp and gif images are allowed")
		return
	}
	contentType := storage.ContentTypeFor(req.ContentType, req.Filename)
	key := storage.EventImageKey(req.Filename, contentType, h.now())
	uploadURL, err := h.store.PresignUpload(c.Request.Context(), key, contentType)
	if err != nil {
		h.logger.Error("presign upload failed", zap.Error(err))
		response.Internal(c, "failed to generate upload URL")
		return
	}
	response.OK(c, gin.H{"uploadUrl": uploadURL, "key": key, "imageUrl": h.store.PublicURL(key), "contentType": contentType})
}
