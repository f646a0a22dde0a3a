package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGinMiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware())
	r.GET("/images/:filename", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/images/:filename", "404"))

	for _, name := range []string{"a.jpg", "b.jpg"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/"+name, nil))
	}

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/images/:filename", "404"))
	if after-before != 2 {
		t.Errorf("request counter grew by %v, want 2", after-before)
	}
}

func TestRecordDeviceRequest(t *testing.T) {
	okBefore := testutil.ToFloat64(DeviceRequests.WithLabelValues("capture", "ok"))
	errBefore := testutil.ToFloat64(DeviceRequests.WithLabelValues("capture", "error"))

	RecordDeviceRequest("capture", nil)
	RecordDeviceRequest("capture", errors.New("timeout"))
	RecordDeviceRequest("capture", errors.New("timeout"))

	if got := testutil.ToFloat64(DeviceRequests.WithLabelValues("capture", "ok")) - okBefore; got != 1 {
		t.Errorf("ok delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(DeviceRequests.WithLabelValues("capture", "error")) - errBefore; got != 2 {
		t.Errorf("error delta = %v, want 2", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	WeatherRecords.Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "camgallery_weather_records_total") {
		t.Error("exposition is missing camgallery_weather_records_total")
	}
}
