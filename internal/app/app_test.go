package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"camgallery/internal/config"
	"camgallery/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := &config.Config{}
	cfg.App.Port = "0"
	cfg.App.Debug = true
	cfg.Images.Dir = filepath.Join(root, "captured_images")
	cfg.Images.MaxImages = 5
	cfg.Images.AutoCleanup = true
	cfg.Weather.DataFile = filepath.Join(root, "weather_data.json")
	cfg.Weather.MaxRecords = 10
	cfg.Weather.ExportDir = filepath.Join(root, "exports")
	cfg.Camera.URL = "http://127.0.0.1:1"
	cfg.Camera.Timeout = time.Second
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Images.MaxImages = 0

	if _, err := New(cfg); err == nil {
		t.Fatal("New() accepted MAX_IMAGES=0")
	}
}

func TestNewWithAllBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.DB.Enabled = true
	cfg.DB.Driver = "sqlite"
	cfg.DB.Path = filepath.Join(t.TempDir(), "archive.db")
	cfg.Redis.Enabled = true
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer a.Close()

	router, err := a.Router()
	if err != nil {
		t.Fatalf("Router() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/weather", bytes.NewBufferString(`{"temperature":20,"humidity":40,"pressure":1000}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /weather = %d: %s", w.Code, w.Body.String())
	}

	if a.Cache == nil {
		t.Fatal("Cache is nil with Redis enabled")
	}
	if n, err := a.Cache.Counter(context.Background(), repository.CounterWeatherReceived); err != nil || n != 1 {
		t.Errorf("Cache.Counter() = %d, %v; want 1", n, err)
	}

	got, err := mr.Get(repository.CounterWeatherReceived)
	if err != nil || got != "1" {
		t.Errorf("redis counter = %q, %v; want 1", got, err)
	}

	stats, err := a.Weather.Stats(context.Background(), time.Time{}, time.Time{})
	if err != nil || stats.Count != 1 {
		t.Errorf("archive stats = %+v, %v; want one row", stats, err)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/system/stats", nil))
	var body struct {
		WeatherRecords int              `json:"weather_records"`
		Counters       map[string]int64 `json:"counters"`
		Features       map[string]bool  `json:"features"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.WeatherRecords != 1 || body.Counters[repository.CounterWeatherReceived] != 1 ||
		!body.Features["archive"] || !body.Features["redis"] {
		t.Errorf("system stats = %+v", body)
	}
}

func TestNewReloadsTelemetry(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 12; i++ {
		first.Weather.Record(context.Background(), float64(i), 50, 1000)
	}
	before := first.Weather.Latest()
	first.Close()

	second, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if second.Cache != nil || second.DB != nil {
		t.Error("optional backends wired without being enabled")
	}

	if second.Weather.Count() != cfg.Weather.MaxRecords {
		t.Errorf("Count() after restart = %d, want %d", second.Weather.Count(), cfg.Weather.MaxRecords)
	}
	if after := second.Weather.Latest(); after == nil || *after != *before {
		t.Errorf("Latest() after restart = %+v, want %+v", after, before)
	}
}
