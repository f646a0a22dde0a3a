package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"camgallery/internal/models"
)

// WeatherRepository is the bounded, append-only telemetry log backed by a
// single JSON document. Every append rewrites the whole document.
type WeatherRepository interface {
	// Load replaces the in-memory log with the persisted document. A missing
	// document yields an empty log and no error. An unreadable or malformed
	// document also yields an empty log; the cause is returned for logging.
	// The latest-record cache only moves when the loaded log is non-empty.
	Load() error
	Append(temperature, humidity, pressure float64) (models.WeatherRecord, error)
	Persist() error
	Latest() (models.WeatherRecord, bool)
	All() []models.WeatherRecord
	Len() int
}

type weatherRepository struct {
	mu         sync.Mutex
	path       string
	maxRecords int
	records    []models.WeatherRecord
	latest     *models.WeatherRecord
	now        func() time.Time
}

func NewWeatherRepository(path string, maxRecords int) WeatherRepository {
	return &weatherRepository{
		path:       path,
		maxRecords: maxRecords,
		records:    []models.WeatherRecord{},
		now:        time.Now,
	}
}

func (r *weatherRepository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = []models.WeatherRecord{}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read weather data: %w", err)
	}

	var records []models.WeatherRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to parse weather data: %w", err)
	}

	if records != nil {
		r.records = records
	}
	if len(r.records) > 0 {
		last := r.records[len(r.records)-1]
		r.latest = &last
	}
	return nil
}

func (r *weatherRepository) Append(temperature, humidity, pressure float64) (models.WeatherRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record := models.NewWeatherRecord(r.now(), temperature, humidity, pressure)
	r.records = append(r.records, record)
	r.latest = &record

	// The record stays in memory even when the write fails; the next
	// successful persist carries it to disk.
	return record, r.persistLocked()
}

func (r *weatherRepository) Persist() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked()
}

func (r *weatherRepository) persistLocked() error {
	if len(r.records) > r.maxRecords {
		trimmed := make([]models.WeatherRecord, r.maxRecords)
		copy(trimmed, r.records[len(r.records)-r.maxRecords:])
		r.records = trimmed
	}

	data, err := json.Marshal(r.records)
	if err != nil {
		return fmt.Errorf("failed to marshal weather data: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create weather data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write weather data: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close weather data: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace weather data: %w", err)
	}

	log.Printf("Saved %d weather records", len(r.records))
	return nil
}

func (r *weatherRepository) Latest() (models.WeatherRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.latest == nil {
		return models.WeatherRecord{}, false
	}
	return *r.latest, true
}

func (r *weatherRepository) All() []models.WeatherRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.WeatherRecord, len(r.records))
	copy(out, r.records)
	return out
}

func (r *weatherRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}
