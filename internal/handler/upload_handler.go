package handler

import (
	"mime/multipart"
	"net/http"

	"grapebd/g2g/internal/service"
	"grapebd/g2g/pkg/imaging"

	"github.com/gin-gonic/gin"
)

// UploadHandler stores a recompressed image for clients that attach media before
// creating the record that uses it.
type UploadHandler struct {
	media     *service.MediaService
	maxUpload int64
}

func NewUploadHandler(media *service.MediaService, maxUpload int64) *UploadHandler {
	return &UploadHandler{media: media, maxUpload: maxUpload}
}

// UploadImage accepts multipart "file" and ?kind=avatar|post|thumbnail. Returns URL.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	opts, folder := imaging.PostOptions, "posts"
	switch c.DefaultQuery("kind", "post") {
	case "avatar":
		opts, folder = imaging.AvatarOptions, "avatars"
	case "thumbnail":
		opts, folder = imaging.ThumbnailOptions, "varieties"
	case "post":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be avatar, post or thumbnail"})
		return
	}
	f, ok := formImage(c, "file", h.maxUpload)
	if !ok {
		return
	}
	defer f.Close()
	url, err := h.media.Upload(c.Request.Context(), f, opts, folder)
	if err != nil {
		writeError(c, err, "upload")
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

// formImage opens a multipart file field, answering 400 when it is missing or too big.
func formImage(c *gin.Context, field string, maxBytes int64) (multipart.File, bool) {
	file, err := c.FormFile(field)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return nil, false
	}
	if maxBytes > 0 && file.Size > maxBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return nil, false
	}
	return f, true
}
