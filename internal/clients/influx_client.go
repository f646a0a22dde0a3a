package clients

import (
	"context"
	"fmt"
	"time"

	"camgallery/internal/models"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
)

const weatherMeasurement = "weather"

// InfluxClient writes weather records as points for dashboards.
type InfluxClient interface {
	WriteWeather(ctx context.Context, record models.WeatherRecord) error
	Close()
}

type influxClient struct {
	client influxdb2.Client
	org    string
	bucket string
}

func NewInfluxClient(url, token, org, bucket string) InfluxClient {
	client := influxdb2.NewClientWithOptions(url, token,
		influxdb2.DefaultOptions().SetHTTPRequestTimeout(10))
	return &influxClient{client: client, org: org, bucket: bucket}
}

func (c *influxClient) WriteWeather(ctx context.Context, record models.WeatherRecord) error {
	at, err := record.Time()
	if err != nil {
		at = time.Now()
	}

	p := influxdb2.NewPoint(
		weatherMeasurement,
		map[string]string{"source": "esp32cam"},
		map[string]interface{}{
			"temperature": record.Temperature,
			"humidity":    record.Humidity,
			"pressure":    record.Pressure,
		},
		at,
	)

	writeAPI := c.client.WriteAPIBlocking(c.org, c.bucket)
	if err := writeAPI.WritePoint(ctx, p); err != nil {
		return fmt.Errorf("failed to write weather point: %w", err)
	}
	return nil
}

func (c *influxClient) Close() {
	c.client.Close()
}
