package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"camgallery/internal/models"
	"camgallery/pkg/database"
)

func newTestArchive(t *testing.T) ArchiveRepository {
	t.Helper()
	db, err := database.Connect(database.Config{
		Enabled: true,
		Driver:  "sqlite",
		Path:    filepath.Join(t.TempDir(), "archive.db"),
	})
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	if err := database.Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewArchiveRepository(db)
}

func archiveRow(at time.Time, temp, hum, pres float64) models.WeatherArchive {
	return models.WeatherArchive{
		RecordedAt:  at,
		Temperature: temp,
		Humidity:    hum,
		Pressure:    pres,
		Payload:     []byte(`{}`),
	}
}

func TestArchiveCreateAndCount(t *testing.T) {
	ctx := context.Background()
	repo := newTestArchive(t)
	now := time.Now().UTC()

	rec := archiveRow(now, 20, 50, 1000)
	if err := repo.Create(ctx, &rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rec.ID == 0 {
		t.Error("Create() did not assign an ID")
	}

	batch := []models.WeatherArchive{
		archiveRow(now.Add(time.Minute), 21, 51, 1001),
		archiveRow(now.Add(2*time.Minute), 22, 52, 1002),
	}
	if err := repo.BatchCreate(ctx, batch); err != nil {
		t.Fatalf("BatchCreate() error = %v", err)
	}
	if err := repo.BatchCreate(ctx, nil); err != nil {
		t.Errorf("BatchCreate(nil) error = %v", err)
	}

	count, err := repo.Count(ctx)
	if err != nil || count != 3 {
		t.Errorf("Count() = %d, %v; want 3", count, err)
	}

	latest, err := repo.GetLatest(ctx, 2)
	if err != nil {
		t.Fatalf("GetLatest() error = %v", err)
	}
	if len(latest) != 2 || latest[0].Temperature != 22 {
		t.Errorf("GetLatest() = %+v, want newest first", latest)
	}
}

func TestArchiveRangeAndStats(t *testing.T) {
	ctx := context.Background()
	repo := newTestArchive(t)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.WeatherArchive{
		archiveRow(base.Add(-time.Hour), 100, 100, 100),
		archiveRow(base, 10, 40, 1000),
		archiveRow(base.Add(time.Hour), 20, 60, 1010),
		archiveRow(base.Add(48*time.Hour), -100, 0, 0),
	}
	if err := repo.BatchCreate(ctx, rows); err != nil {
		t.Fatal(err)
	}

	from, to := base, base.Add(24*time.Hour)
	ranged, err := repo.GetByDateRange(ctx, from, to)
	if err != nil {
		t.Fatalf("GetByDateRange() error = %v", err)
	}
	if len(ranged) != 2 || ranged[0].Temperature != 10 {
		t.Errorf("GetByDateRange() = %+v, want two rows oldest first", ranged)
	}

	stats, err := repo.GetStats(ctx, from, to)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	want := WeatherStats{
		Count:          2,
		AvgTemperature: 15, MinTemperature: 10, MaxTemperature: 20,
		AvgHumidity: 50, MinHumidity: 40, MaxHumidity: 60,
		AvgPressure: 1005, MinPressure: 1000, MaxPressure: 1010,
	}
	if *stats != want {
		t.Errorf("GetStats() = %+v, want %+v", *stats, want)
	}

	empty, err := repo.GetStats(ctx, base.Add(100*time.Hour), base.Add(200*time.Hour))
	if err != nil || empty.Count != 0 {
		t.Errorf("GetStats() on empty range = %+v, %v", empty, err)
	}
}

func TestArchiveDeleteOld(t *testing.T) {
	ctx := context.Background()
	repo := newTestArchive(t)
	now := time.Now().UTC()

	rows := []models.WeatherArchive{
		archiveRow(now.Add(-72*time.Hour), 1, 1, 1),
		archiveRow(now.Add(-48*time.Hour), 2, 2, 2),
		archiveRow(now, 3, 3, 3),
	}
	if err := repo.BatchCreate(ctx, rows); err != nil {
		t.Fatal(err)
	}

	deleted, err := repo.DeleteOld(ctx, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteOld() error = %v", err)
	}
	if deleted != 2 {
		t.Errorf("DeleteOld() removed %d rows, want 2", deleted)
	}
	if count, _ := repo.Count(ctx); count != 1 {
		t.Errorf("Count() = %d, want 1", count)
	}
}
