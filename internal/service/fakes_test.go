package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"camgallery/internal/models"
	"camgallery/internal/repository"
)

type fakeCamera struct {
	captureErr error
	measureErr error
	onMeasure  func()
	captures   int
	measures   int
}

func (f *fakeCamera) TriggerCapture(ctx context.Context) error {
	f.captures++
	return f.captureErr
}

func (f *fakeCamera) TriggerMeasurement(ctx context.Context) error {
	f.measures++
	if f.measureErr == nil && f.onMeasure != nil {
		f.onMeasure()
	}
	return f.measureErr
}

type fakeArchive struct {
	repository.ArchiveRepository
	created   []models.WeatherArchive
	createErr error
	stats     *repository.WeatherStats
	statsFrom time.Time
	statsTo   time.Time
	deleted   int64
	cutoff    time.Time
}

func (f *fakeArchive) Create(ctx context.Context, record *models.WeatherArchive) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *record)
	return nil
}

func (f *fakeArchive) GetStats(ctx context.Context, from, to time.Time) (*repository.WeatherStats, error) {
	f.statsFrom, f.statsTo = from, to
	return f.stats, nil
}

func (f *fakeArchive) DeleteOld(ctx context.Context, olderThan time.Time) (int64, error) {
	f.cutoff = olderThan
	return f.deleted, nil
}

type fakeCache struct {
	mu       sync.Mutex
	counters map[string]int64
	err      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{counters: make(map[string]int64)}
}

func (f *fakeCache) Increment(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeCache) Counter(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.counters[key], f.err
}

func (f *fakeCache) Counters(ctx context.Context, keys ...string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		out[k] = f.counters[k]
	}
	return out, f.err
}

type fakeInflux struct {
	written []models.WeatherRecord
	err     error
}

func (f *fakeInflux) WriteWeather(ctx context.Context, record models.WeatherRecord) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, record)
	return nil
}

func (f *fakeInflux) Close() {}

var errBoom = errors.New("boom")
