package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/ctx"
	"github.com/shashiranjanraj/storefront/pkg/storage"
)

type UploadController struct{}

func NewUploadController() *UploadController { return &UploadController{} }

// Image stores the multipart "image" field under products/ on the default
// disk and answers with its public URL.
func (h *UploadController) Image(c *ctx.Context) {
	c.R.Body = http.MaxBytesReader(c.W, c.R.Body, config.MaxBodyBytes())
	file, header, err := c.R.FormFile("image")
	if err != nil {
		c.Error(http.StatusBadRequest, "Image file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.Error(http.StatusBadRequest, "Only image uploads are allowed")
		return
	}

	path := "products/" + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	url, err := storage.Store(c.Context(), path, file, contentType)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success("Upload done", map[string]string{"url": url})
}
