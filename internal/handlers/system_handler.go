package handlers

import (
	"log"
	"net/http"
	"time"

	"camgallery/internal/repository"
	"camgallery/internal/service"
	redisstats "camgallery/pkg/redis"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

// Features lists which optional backends are wired in.
type Features struct {
	Archive   bool `json:"archive"`
	Redis     bool `json:"redis"`
	Influx    bool `json:"influx"`
	Retention bool `json:"retention"`
}

type SystemHandler struct {
	images      service.ImageService
	weather     service.WeatherService
	cache       repository.CacheRepository
	redisClient *redis.Client
	features    Features
}

// NewSystemHandler builds the health and stats endpoints. cache and
// redisClient may be nil.
func NewSystemHandler(
	images service.ImageService,
	weather service.WeatherService,
	cache repository.CacheRepository,
	redisClient *redis.Client,
	features Features,
) *SystemHandler {
	return &SystemHandler{
		images:      images,
		weather:     weather,
		cache:       cache,
		redisClient: redisClient,
		features:    features,
	}
}

func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *SystemHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	imageCount, err := h.images.Count()
	if err != nil {
		log.Printf("Error counting images: %v", err)
	}

	stats := gin.H{
		"images":          imageCount,
		"weather_records": h.weather.Count(),
		"features":        h.features,
	}

	if h.cache != nil {
		counters, err := h.cache.Counters(ctx,
			repository.CounterImagesReceived,
			repository.CounterWeatherReceived,
			repository.CounterCaptures,
		)
		if err != nil {
			log.Printf("Error reading counters: %v", err)
		} else {
			stats["counters"] = counters
		}
	}

	if h.redisClient != nil {
		if info, err := redisstats.GetStats(ctx, h.redisClient); err == nil {
			stats["redis"] = info
		}
	}

	c.JSON(http.StatusOK, stats)
}
