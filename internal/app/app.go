package app

import (
	"fmt"
	"log"
	"os"

	"camgallery/internal/clients"
	"camgallery/internal/config"
	"camgallery/internal/handlers"
	"camgallery/internal/repository"
	"camgallery/internal/service"
	"camgallery/internal/worker"
	"camgallery/pkg/database"
	redisclient "camgallery/pkg/redis"
	"camgallery/web"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// App owns every long-lived dependency of the gallery server.
type App struct {
	Config    *config.Config
	DB        *gorm.DB
	Redis     *redis.Client
	Cache     repository.CacheRepository
	Influx    clients.InfluxClient
	Images    service.ImageService
	Weather   service.WeatherService
	Scheduler *worker.Scheduler
}

// New connects the optional backends, creates the data directories and
// loads the telemetry log. Call Close when done.
func New(cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	for _, dir := range []string{cfg.Images.Dir, cfg.Weather.ExportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	a := &App{Config: cfg}

	var archive repository.ArchiveRepository
	if cfg.DB.Enabled {
		db, err := database.Connect(database.Config(cfg.DB))
		if err != nil {
			return nil, err
		}
		a.DB = db
		if err := database.Migrate(db); err != nil {
			a.Close()
			return nil, err
		}
		archive = repository.NewArchiveRepository(db)
	}

	if cfg.Redis.Enabled {
		client, err := redisclient.Connect(redisclient.Config(cfg.Redis))
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		a.Cache = repository.NewCacheRepository(client)
	}

	var influx clients.InfluxClient
	if cfg.Influx.Enabled {
		influx = clients.NewInfluxClient(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		a.Influx = influx
	}

	camera := clients.NewCameraClient(cfg.Camera.URL, cfg.Camera.Timeout)

	weatherStore := repository.NewWeatherRepository(cfg.Weather.DataFile, cfg.Weather.MaxRecords)
	if err := weatherStore.Load(); err != nil {
		log.Printf("Error loading weather data, starting empty: %v", err)
	}
	log.Printf("Loaded %d weather records from %s", weatherStore.Len(), cfg.Weather.DataFile)

	imageStore := repository.NewImageRepository(cfg.Images.Dir, cfg.Images.MaxImages, cfg.Images.AutoCleanup)

	a.Weather = service.NewWeatherService(weatherStore, camera, archive, a.Cache, influx, cfg.Weather.ExportDir)
	a.Images = service.NewImageService(imageStore, camera, a.Cache)

	a.Scheduler = worker.NewScheduler()
	if cfg.Retention.Enabled {
		a.Scheduler.AddWorker(worker.NewRetentionWorker(a.Images, a.Weather, cfg.Retention.Interval, cfg.Retention.ArchiveMaxAge))
		log.Printf("Retention Worker enabled (interval: %v)", cfg.Retention.Interval)
	}

	return a, nil
}

// Router builds the HTTP handler tree.
func (a *App) Router() (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	features := handlers.Features{
		Archive:   a.DB != nil,
		Redis:     a.Redis != nil,
		Influx:    a.Influx != nil,
		Retention: a.Config.Retention.Enabled,
	}

	return handlers.NewRouter(
		handlers.RouterConfig{
			Debug:             a.Config.App.Debug,
			FrontendURL:       a.Config.App.FrontendURL,
			RequestsPerSecond: a.Config.RateLimit.RequestsPerSecond,
			Burst:             a.Config.RateLimit.Burst,
			Templates:         tmpl,
		},
		handlers.Handlers{
			Weather: handlers.NewWeatherHandler(a.Weather),
			Images:  handlers.NewImageHandler(a.Images),
			Pages:   handlers.NewPageHandler(a.Images, a.Weather),
			System:  handlers.NewSystemHandler(a.Images, a.Weather, a.Cache, a.Redis, features),
		},
	), nil
}

func (a *App) Close() {
	if a.Influx != nil {
		a.Influx.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}
