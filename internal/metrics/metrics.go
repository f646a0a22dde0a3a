package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camgallery_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "camgallery_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	ImagesStored = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "camgallery_images_stored_total",
			Help: "Images received from the camera and written to disk",
		},
	)

	ImagesEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "camgallery_images_evicted_total",
			Help: "Images deleted to keep the store under its limit",
		},
	)

	WeatherRecords = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "camgallery_weather_records_total",
			Help: "Weather records appended to the telemetry log",
		},
	)

	PersistFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camgallery_persist_failures_total",
			Help: "Failed writes to local or mirrored storage",
		},
		[]string{"target"},
	)

	DeviceRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "camgallery_device_requests_total",
			Help: "Outbound requests to the camera device",
		},
		[]string{"action", "result"},
	)
)

// Registry holds every camgallery collector plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		ImagesStored,
		ImagesEvicted,
		WeatherRecords,
		PersistFailures,
		DeviceRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// GinMiddleware records request counts and latencies per route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordDeviceRequest(action string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	DeviceRequests.WithLabelValues(action, result).Inc()
}
