package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	App struct {
		Port        string
		Debug       bool
		FrontendURL string
	}
	Images struct {
		Dir         string
		MaxImages   int
		AutoCleanup bool
	}
	Weather struct {
		DataFile   string
		MaxRecords int
		ExportDir  string
	}
	Camera struct {
		URL     string
		Timeout time.Duration
	}
	DB struct {
		Enabled  bool
		Driver   string
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
		Path     string
	}
	Redis struct {
		Enabled  bool
		Host     string
		Port     string
		Password string
		DB       int
	}
	Influx struct {
		Enabled bool
		URL     string
		Token   string
		Org     string
		Bucket  string
	}
	Retention struct {
		Enabled       bool
		Interval      time.Duration
		ArchiveMaxAge time.Duration
	}
	RateLimit struct {
		RequestsPerSecond int
		Burst             int
	}
	Log struct {
		File       string
		MaxSizeMB  int
		MaxBackups int
	}
}

func Load() *Config {
	cfg := &Config{}

	// App
	cfg.App.Port = getEnv("PORT", "5000")
	cfg.App.Debug = getEnvAsBool("DEBUG", false)
	cfg.App.FrontendURL = getEnv("FRONTEND_URL", "http://localhost:3000")

	// Images
	cfg.Images.Dir = getEnv("IMAGES_DIR", "captured_images")
	cfg.Images.MaxImages = getEnvAsInt("MAX_IMAGES", 10000)
	cfg.Images.AutoCleanup = getEnvAsBool("AUTO_CLEANUP", true)

	// Weather
	cfg.Weather.DataFile = getEnv("WEATHER_DATA_FILE", "weather_data.json")
	cfg.Weather.MaxRecords = getEnvAsInt("MAX_WEATHER_RECORDS", 100000000)
	cfg.Weather.ExportDir = getEnv("EXPORT_DIR", "./data/exports")

	// Camera
	cfg.Camera.URL = getEnv("CAMERA_URL", "http://192.168.244.101")
	cfg.Camera.Timeout = getEnvAsDuration("CAMERA_TIMEOUT", 10*time.Second)

	// DB
	cfg.DB.Enabled = getEnvAsBool("DB_ENABLED", false)
	cfg.DB.Driver = getEnv("DB_DRIVER", "postgres")
	cfg.DB.Host = getEnv("DB_HOST", "localhost")
	cfg.DB.Port = getEnv("DB_PORT", "5432")
	cfg.DB.User = getEnv("DB_USER", "postgres")
	cfg.DB.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.DB.DBName = getEnv("DB_NAME", "camgallery")
	cfg.DB.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.DB.Path = getEnv("DB_PATH", "camgallery.db")

	// Redis
	cfg.Redis.Enabled = getEnvAsBool("REDIS_ENABLED", false)
	cfg.Redis.Host = getEnv("REDIS_HOST", "localhost")
	cfg.Redis.Port = getEnv("REDIS_PORT", "6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)

	// Influx
	cfg.Influx.Enabled = getEnvAsBool("INFLUX_ENABLED", false)
	cfg.Influx.URL = getEnv("INFLUX_URL", "http://localhost:8086")
	cfg.Influx.Token = getEnv("INFLUX_TOKEN", "")
	cfg.Influx.Org = getEnv("INFLUX_ORG", "camgallery")
	cfg.Influx.Bucket = getEnv("INFLUX_BUCKET", "weather")

	// Retention
	cfg.Retention.Enabled = getEnvAsBool("RETENTION_ENABLED", false)
	cfg.Retention.Interval = getEnvAsDuration("RETENTION_INTERVAL", time.Hour)
	cfg.Retention.ArchiveMaxAge = getEnvAsDuration("ARCHIVE_MAX_AGE", 30*24*time.Hour)

	// Rate Limit
	cfg.RateLimit.RequestsPerSecond = getEnvAsInt("RATE_LIMIT_RPS", 10)
	cfg.RateLimit.Burst = getEnvAsInt("RATE_LIMIT_BURST", 20)

	// Log
	cfg.Log.File = getEnv("LOG_FILE", "")
	cfg.Log.MaxSizeMB = getEnvAsInt("LOG_MAX_SIZE_MB", 10)
	cfg.Log.MaxBackups = getEnvAsInt("LOG_MAX_BACKUPS", 3)

	return cfg
}

// Validate reports settings the stores cannot work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Images.Dir == "" {
		errs = append(errs, errors.New("IMAGES_DIR must not be empty"))
	}
	if c.Images.MaxImages <= 0 {
		errs = append(errs, fmt.Errorf("MAX_IMAGES must be positive, got %d", c.Images.MaxImages))
	}
	if c.Weather.DataFile == "" {
		errs = append(errs, errors.New("WEATHER_DATA_FILE must not be empty"))
	}
	if c.Weather.MaxRecords <= 0 {
		errs = append(errs, fmt.Errorf("MAX_WEATHER_RECORDS must be positive, got %d", c.Weather.MaxRecords))
	}
	if c.Camera.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("CAMERA_TIMEOUT must be positive, got %v", c.Camera.Timeout))
	}
	if c.DB.Enabled {
		switch c.DB.Driver {
		case "postgres", "mysql", "sqlite":
		default:
			errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if dur, err := time.ParseDuration(value); err == nil {
			return dur
		}
	}
	return defaultValue
}
