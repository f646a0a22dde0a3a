package handlers

import (
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"

	"camgallery/internal/clients"
	"camgallery/internal/service"

	"github.com/gin-gonic/gin"
)

type ImageHandler struct {
	service service.ImageService
}

func NewImageHandler(service service.ImageService) *ImageHandler {
	return &ImageHandler{service: service}
}

// Upload stores the raw request body as a JPEG. The camera only checks
// for a 200.
func (h *ImageHandler) Upload(c *gin.Context) {
	data, err := c.GetRawData()
	if err != nil {
		c.String(http.StatusBadRequest, "failed to read image")
		return
	}

	if _, err := h.service.Upload(c.Request.Context(), data); err != nil {
		log.Printf("Error saving image: %v", err)
		c.String(http.StatusInternalServerError, "failed to save image")
		return
	}

	c.String(http.StatusOK, "Image saved")
}

func (h *ImageHandler) Capture(c *gin.Context) {
	err := h.service.Capture(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "successfully captured"})
	case errors.Is(err, clients.ErrDeviceStatus):
		log.Printf("Capture failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "espcam error"})
	default:
		log.Printf("Capture failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error: " + err.Error()})
	}
}

func (h *ImageHandler) Serve(c *gin.Context) {
	path, err := h.service.Path(c.Param("filename"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		c.JSON(http.StatusNotFound, gin.H{"error": "image not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
		return
	}

	c.File(path)
}

// Latest reports the newest image; fields are null and mtime 0 when the
// store is empty.
func (h *ImageHandler) Latest(c *gin.Context) {
	latest, err := h.service.Latest()
	if err != nil {
		log.Printf("Error listing images: %v", err)
	}

	if latest == nil {
		c.JSON(http.StatusOK, gin.H{
			"filename":  nil,
			"timestamp": nil,
			"mtime":     0,
		})
		return
	}

	c.JSON(http.StatusOK, latest)
}
