package controller

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"kv-rentals/service"
)

// ImageController serves resized product images for cart lines
type ImageController struct {
	images service.ImageServiceInterface
}

// NewImageController creates a new ImageController
func NewImageController(images service.ImageServiceInterface) *ImageController {
	return &ImageController{images: images}
}

// GetThumbnail handles GET /api/cart/items/{key}/thumbnail?size=thumb|medium
func (c *ImageController) GetThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GetThumbnail")
		return
	}

	key, ok := itemKeyFromPath(r.URL.EscapedPath(), "/thumbnail")
	if !ok {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}
	size := service.NormalizeSize(r.URL.Query().Get("size"))
	logrus.WithFields(logrus.Fields{"key": key, "size": size}).Debug("📥 GetThumbnail")

	data, err := c.images.Thumbnail(r.Context(), key, size)
	if err != nil {
		writeServiceError(w, "GetThumbnail", err, "Failed to load image")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
