package clients

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDeviceStatus is returned when the camera answers with a non-200 status.
var ErrDeviceStatus = errors.New("camera returned non-success status")

// CameraClient triggers actions on the ESP32 camera. Every call is attempted
// once and bounded by the client timeout.
type CameraClient interface {
	TriggerCapture(ctx context.Context) error
	TriggerMeasurement(ctx context.Context) error
}

type cameraClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCameraClient(baseURL string, timeout time.Duration) CameraClient {
	return &cameraClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *cameraClient) TriggerCapture(ctx context.Context) error {
	return c.get(ctx, "/capture")
}

func (c *cameraClient) TriggerMeasurement(ctx context.Context) error {
	return c.get(ctx, "/weather")
}

func (c *cameraClient) get(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "camgallery/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %d %s", ErrDeviceStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	// drain so the connection can be reused
	io.Copy(io.Discard, resp.Body)
	return nil
}
