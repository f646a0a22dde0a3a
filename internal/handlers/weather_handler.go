package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"camgallery/internal/clients"
	"camgallery/internal/service"

	"github.com/gin-gonic/gin"
)

var weatherFields = []string{"temperature", "humidity", "pressure"}

type WeatherHandler struct {
	service service.WeatherService
}

func NewWeatherHandler(service service.WeatherService) *WeatherHandler {
	return &WeatherHandler{service: service}
}

// Receive accepts a measurement posted by the camera.
func (h *WeatherHandler) Receive(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no data received"})
		return
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no data received"})
		return
	}

	values := make(map[string]float64, len(weatherFields))
	for _, field := range weatherFields {
		raw, ok := payload[field]
		if !ok || string(raw) == "null" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing data placeholders"})
			return
		}
		var v float64
		if err := json.Unmarshal(raw, &v); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be a number", field)})
			return
		}
		values[field] = v
	}

	h.service.Record(c.Request.Context(), values["temperature"], values["humidity"], values["pressure"])

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Data stored",
	})
}

// Latest returns the newest record or an empty object.
func (h *WeatherHandler) Latest(c *gin.Context) {
	latest := h.service.Latest()
	if latest == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, latest)
}

func (h *WeatherHandler) History(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.History())
}

func (h *WeatherHandler) Refresh(c *gin.Context) {
	latest, err := h.service.Refresh(c.Request.Context())
	if err != nil {
		log.Printf("Weather refresh failed: %v", err)

		message := err.Error()
		if errors.Is(err, clients.ErrDeviceStatus) {
			message = "ESP32 did not respond"
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Weather refreshed",
		"weather": latest,
	})
}

var exportContentTypes = map[string]string{
	".csv":  "text/csv",
	".json": "application/json",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (h *WeatherHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")

	path, err := h.service.Export(c.Request.Context(), format)
	switch {
	case errors.Is(err, service.ErrUnsupportedFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported format, use 'csv', 'json' or 'xlsx'"})
		return
	case errors.Is(err, service.ErrNoData):
		c.JSON(http.StatusNotFound, gin.H{"error": "no weather data to export"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to export weather data",
			"message": err.Error(),
		})
		return
	}

	contentType, ok := exportContentTypes[filepath.Ext(path)]
	if !ok {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.FileAttachment(path, filepath.Base(path))
}

// Stats aggregates the archive between from and to (RFC 3339 or
// YYYY-MM-DD). The window defaults to the last 24 hours.
func (h *WeatherHandler) Stats(c *gin.Context) {
	from, err := parseTimeParam(c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date, use YYYY-MM-DD or RFC 3339"})
		return
	}
	to, err := parseTimeParam(c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date, use YYYY-MM-DD or RFC 3339"})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), from, to)
	if errors.Is(err, service.ErrArchiveDisabled) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "weather archive is not enabled"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "failed to get weather stats",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

func parseTimeParam(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", value)
}
