package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestCameraClientTriggers(t *testing.T) {
	var (
		mu    sync.Mutex
		paths []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		mu.Lock()
		paths = append(paths, r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewCameraClient(srv.URL+"/", time.Second)

	if err := client.TriggerCapture(context.Background()); err != nil {
		t.Fatalf("TriggerCapture() error = %v", err)
	}
	if err := client.TriggerMeasurement(context.Background()); err != nil {
		t.Fatalf("TriggerMeasurement() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 2 || paths[0] != "/capture" || paths[1] != "/weather" {
		t.Errorf("requested paths = %v, want [/capture /weather]", paths)
	}
}

func TestCameraClientErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		timeout    time.Duration
		wantStatus bool
	}{
		{
			name: "device error status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "sensor busy", http.StatusServiceUnavailable)
			},
			timeout:    time.Second,
			wantStatus: true,
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				select {
				case <-r.Context().Done():
				case <-time.After(2 * time.Second):
				}
			},
			timeout:    50 * time.Millisecond,
			wantStatus: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			err := NewCameraClient(srv.URL, tt.timeout).TriggerCapture(context.Background())
			if err == nil {
				t.Fatal("TriggerCapture() should fail")
			}
			if got := errors.Is(err, ErrDeviceStatus); got != tt.wantStatus {
				t.Errorf("errors.Is(err, ErrDeviceStatus) = %v, want %v (err: %v)", got, tt.wantStatus, err)
			}
		})
	}
}

func TestCameraClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewCameraClient(url, time.Second).TriggerMeasurement(context.Background())
	if err == nil {
		t.Fatal("TriggerMeasurement() should fail for a closed server")
	}
	if errors.Is(err, ErrDeviceStatus) {
		t.Errorf("network failure reported as device status: %v", err)
	}
}
