package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"camgallery/internal/clients"
	"camgallery/internal/metrics"
	"camgallery/internal/models"
	"camgallery/internal/repository"
	"camgallery/internal/utils"
)

var (
	ErrNoData            = errors.New("no weather data")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrArchiveDisabled   = errors.New("weather archive is not configured")
)

type WeatherService interface {
	// Record appends a measurement. Local persistence failures are logged
	// and do not fail the call; the record stays in memory.
	Record(ctx context.Context, temperature, humidity, pressure float64) models.WeatherRecord
	Latest() *models.WeatherRecord
	History() []models.WeatherRecord
	Count() int
	// Refresh asks the camera for a new measurement and reloads the log
	// from disk.
	Refresh(ctx context.Context) (*models.WeatherRecord, error)
	Export(ctx context.Context, format string) (string, error)
	Stats(ctx context.Context, from, to time.Time) (*repository.WeatherStats, error)
	PruneArchive(ctx context.Context, olderThan time.Time) (int64, error)
}

type weatherService struct {
	store     repository.WeatherRepository
	camera    clients.CameraClient
	archive   repository.ArchiveRepository
	cache     repository.CacheRepository
	influx    clients.InfluxClient
	exportDir string
}

// NewWeatherService wires the telemetry log to its optional mirrors. archive,
// cache and influx may be nil.
func NewWeatherService(
	store repository.WeatherRepository,
	camera clients.CameraClient,
	archive repository.ArchiveRepository,
	cache repository.CacheRepository,
	influx clients.InfluxClient,
	exportDir string,
) WeatherService {
	if exportDir == "" {
		exportDir = "./data/exports"
	}

	return &weatherService{
		store:     store,
		camera:    camera,
		archive:   archive,
		cache:     cache,
		influx:    influx,
		exportDir: exportDir,
	}
}

func (s *weatherService) Record(ctx context.Context, temperature, humidity, pressure float64) models.WeatherRecord {
	record, err := s.store.Append(temperature, humidity, pressure)
	if err != nil {
		metrics.PersistFailures.WithLabelValues("weather_log").Inc()
		log.Printf("Error saving weather data: %v", err)
	}
	metrics.WeatherRecords.Inc()

	s.mirror(ctx, record)
	return record
}

func (s *weatherService) mirror(ctx context.Context, record models.WeatherRecord) {
	if s.archive != nil {
		if err := s.archive.Create(ctx, toArchive(record)); err != nil {
			metrics.PersistFailures.WithLabelValues("archive").Inc()
			log.Printf("Failed to archive weather record: %v", err)
		}
	}

	if s.influx != nil {
		if err := s.influx.WriteWeather(ctx, record); err != nil {
			metrics.PersistFailures.WithLabelValues("influx").Inc()
			log.Printf("Failed to write weather point: %v", err)
		}
	}

	if s.cache != nil {
		if _, err := s.cache.Increment(ctx, repository.CounterWeatherReceived); err != nil {
			log.Printf("Failed to update weather counter: %v", err)
		}
	}
}

func toArchive(record models.WeatherRecord) *models.WeatherArchive {
	at, err := record.Time()
	if err != nil {
		at = time.Now()
	}
	payload, _ := json.Marshal(record)

	return &models.WeatherArchive{
		RecordedAt:  at.UTC(),
		Temperature: record.Temperature,
		Humidity:    record.Humidity,
		Pressure:    record.Pressure,
		Payload:     payload,
	}
}

func (s *weatherService) Latest() *models.WeatherRecord {
	record, ok := s.store.Latest()
	if !ok {
		return nil
	}
	return &record
}

func (s *weatherService) History() []models.WeatherRecord {
	return s.store.All()
}

func (s *weatherService) Count() int {
	return s.store.Len()
}

func (s *weatherService) Refresh(ctx context.Context) (*models.WeatherRecord, error) {
	err := s.camera.TriggerMeasurement(ctx)
	metrics.RecordDeviceRequest("measure", err)
	if err != nil {
		return nil, err
	}

	if err := s.store.Load(); err != nil {
		log.Printf("Error loading weather data: %v", err)
	}
	return s.Latest(), nil
}

func (s *weatherService) Export(ctx context.Context, format string) (string, error) {
	records := s.store.All()
	if len(records) == 0 {
		return "", ErrNoData
	}

	if err := os.MkdirAll(s.exportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	timestamp := time.Now().UTC().Format("20060102_150405")

	var (
		path string
		err  error
	)
	switch format {
	case "csv":
		path = filepath.Join(s.exportDir, fmt.Sprintf("weather_export_%s.csv", timestamp))
		err = utils.SaveAsCSV(path, records)
	case "excel", "xlsx":
		path = filepath.Join(s.exportDir, fmt.Sprintf("weather_export_%s.xlsx", timestamp))
		err = utils.CreateExcelFile(path, records)
	case "json":
		path = filepath.Join(s.exportDir, fmt.Sprintf("weather_export_%s.json", timestamp))
		err = utils.SaveAsJSON(path, records)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", fmt.Errorf("failed to export weather data: %w", err)
	}

	log.Printf("Weather export generated: %s (%d records)", path, len(records))
	return path, nil
}

func (s *weatherService) Stats(ctx context.Context, from, to time.Time) (*repository.WeatherStats, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.Add(-24 * time.Hour)
	}

	return s.archive.GetStats(ctx, from, to)
}

func (s *weatherService) PruneArchive(ctx context.Context, olderThan time.Time) (int64, error) {
	if s.archive == nil {
		return 0, ErrArchiveDisabled
	}
	return s.archive.DeleteOld(ctx, olderThan)
}
