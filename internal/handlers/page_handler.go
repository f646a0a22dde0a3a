package handlers

import (
	"log"
	"net/http"

	"camgallery/internal/models"
	"camgallery/internal/service"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	images  service.ImageService
	weather service.WeatherService
}

func NewPageHandler(images service.ImageService, weather service.WeatherService) *PageHandler {
	return &PageHandler{images: images, weather: weather}
}

func (h *PageHandler) Index(c *gin.Context) {
	images := h.listImages()

	var shown []models.ImageRecord
	if len(images) > 0 {
		shown = images[:1]
	}

	c.HTML(http.StatusOK, "index.html", h.viewData(images, shown))
}

func (h *PageHandler) Gallery(c *gin.Context) {
	images := h.listImages()
	c.HTML(http.StatusOK, "gallery.html", h.viewData(images, images))
}

func (h *PageHandler) WeatherHistory(c *gin.Context) {
	c.HTML(http.StatusOK, "weather_history.html", gin.H{})
}

func (h *PageHandler) listImages() []models.ImageRecord {
	images, err := h.images.List()
	if err != nil {
		log.Printf("Error listing images: %v", err)
		return nil
	}
	return images
}

func (h *PageHandler) viewData(all, shown []models.ImageRecord) gin.H {
	data := gin.H{
		"images":         shown,
		"total_images":   len(all),
		"latest_weather": h.weather.Latest(),
	}
	if len(all) > 0 {
		data["latest_image"] = all[0].Filename
		data["latest_timestamp"] = all[0].Time
	}
	return data
}
