package handlers

import (
	"html/template"
	"log"
	"time"

	"camgallery/internal/metrics"
	"camgallery/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Debug       bool
	FrontendURL string
	// RequestsPerSecond <= 0 disables rate limiting.
	RequestsPerSecond int
	Burst             int
	Templates         *template.Template
}

type Handlers struct {
	Weather *WeatherHandler
	Images  *ImageHandler
	Pages   *PageHandler
	System  *SystemHandler
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(metrics.GinMiddleware())

	origins := []string{"http://localhost:3000"}
	if cfg.FrontendURL != "" && cfg.FrontendURL != origins[0] {
		origins = append(origins, cfg.FrontendURL)
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Ingestion and device triggers are throttled per client, outside debug
	// mode only. Pages, image files and read APIs are not.
	limited := r.Group("")
	if !cfg.Debug && cfg.RequestsPerSecond > 0 {
		limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
		limited.Use(middleware.IPRateLimitMiddleware(limiter))
		log.Printf("Rate limiting enabled for ingestion: %d req/sec, burst: %d", cfg.RequestsPerSecond, cfg.Burst)
	}

	if cfg.Templates != nil {
		r.SetHTMLTemplate(cfg.Templates)
	}

	// Pages
	r.GET("/", h.Pages.Index)
	r.GET("/gallery", h.Pages.Gallery)
	r.GET("/weather-history", h.Pages.WeatherHistory)

	// Images
	r.GET("/images/:filename", h.Images.Serve)
	limited.POST("/upload", h.Images.Upload)
	limited.POST("/capture", h.Images.Capture)
	r.GET("/api/latest", h.Images.Latest)

	// Weather
	limited.POST("/weather", h.Weather.Receive)
	r.GET("/api/weather", h.Weather.Latest)
	r.GET("/api/weather/stats", h.Weather.Stats)
	r.GET("/weather-data", h.Weather.History)
	r.GET("/weather-data/export", h.Weather.Export)
	limited.POST("/refresh-weather", h.Weather.Refresh)

	// System
	r.GET("/health", h.System.Health)
	r.GET("/api/system/stats", h.System.Stats)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return r
}
