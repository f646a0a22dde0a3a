package repository

import (
	"context"
	"time"

	"camgallery/internal/models"

	"gorm.io/gorm"
)

// ArchiveRepository keeps a SQL copy of every accepted weather record so
// ranges and aggregates can be queried without scanning the JSON log.
type ArchiveRepository interface {
	Create(ctx context.Context, record *models.WeatherArchive) error
	BatchCreate(ctx context.Context, records []models.WeatherArchive) error
	GetByDateRange(ctx context.Context, from, to time.Time) ([]models.WeatherArchive, error)
	GetLatest(ctx context.Context, limit int) ([]models.WeatherArchive, error)
	GetStats(ctx context.Context, from, to time.Time) (*WeatherStats, error)
	DeleteOld(ctx context.Context, olderThan time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type WeatherStats struct {
	Count          int64   `json:"count"`
	AvgTemperature float64 `json:"avg_temperature"`
	MinTemperature float64 `json:"min_temperature"`
	MaxTemperature float64 `json:"max_temperature"`
	AvgHumidity    float64 `json:"avg_humidity"`
	MinHumidity    float64 `json:"min_humidity"`
	MaxHumidity    float64 `json:"max_humidity"`
	AvgPressure    float64 `json:"avg_pressure"`
	MinPressure    float64 `json:"min_pressure"`
	MaxPressure    float64 `json:"max_pressure"`
}

type archiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) ArchiveRepository {
	return &archiveRepository{db: db}
}

func (r *archiveRepository) Create(ctx context.Context, record *models.WeatherArchive) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *archiveRepository) BatchCreate(ctx context.Context, records []models.WeatherArchive) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, 100).Error
}

func (r *archiveRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]models.WeatherArchive, error) {
	var records []models.WeatherArchive
	err := r.db.WithContext(ctx).
		Where("recorded_at BETWEEN ? AND ?", from, to).
		Order("recorded_at ASC").
		Find(&records).
		Error
	return records, err
}

func (r *archiveRepository) GetLatest(ctx context.Context, limit int) ([]models.WeatherArchive, error) {
	if limit < 1 || limit > 1000 {
		limit = 100
	}

	var records []models.WeatherArchive
	err := r.db.WithContext(ctx).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&records).
		Error
	return records, err
}

func (r *archiveRepository) GetStats(ctx context.Context, from, to time.Time) (*WeatherStats, error) {
	var stats WeatherStats

	err := r.db.WithContext(ctx).
		Model(&models.WeatherArchive{}).
		Where("recorded_at BETWEEN ? AND ?", from, to).
		Count(&stats.Count).
		Error
	if err != nil {
		return nil, err
	}

	if stats.Count == 0 {
		return &stats, nil
	}

	row := r.db.WithContext(ctx).
		Model(&models.WeatherArchive{}).
		Select("AVG(temperature), MIN(temperature), MAX(temperature), "+
			"AVG(humidity), MIN(humidity), MAX(humidity), "+
			"AVG(pressure), MIN(pressure), MAX(pressure)").
		Where("recorded_at BETWEEN ? AND ?", from, to).
		Row()

	err = row.Scan(
		&stats.AvgTemperature, &stats.MinTemperature, &stats.MaxTemperature,
		&stats.AvgHumidity, &stats.MinHumidity, &stats.MaxHumidity,
		&stats.AvgPressure, &stats.MinPressure, &stats.MaxPressure,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *archiveRepository) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recorded_at < ?", olderThan).
		Delete(&models.WeatherArchive{})
	return result.RowsAffected, result.Error
}

func (r *archiveRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.WeatherArchive{}).
		Count(&count).
		Error
	return count, err
}
