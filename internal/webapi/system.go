package webapi

import (
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aitopia-kr/aitopia/internal/exchange"
	"github.com/aitopia-kr/aitopia/internal/webserver"
	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

const defaultMetricsWindow = 6 * time.Hour

type gaugeSeries struct {
	Name    string               `json:"name"`
	Latest  *metrics.Point       `json:"latest,omitempty"`
	Points  []metrics.Point      `json:"points"`
	Summary exchange.RateSummary `json:"summary"`
}

// GetSystemMetrics returns the host and process gauges sampled by the monitor jobs.
// name narrows the result to one gauge.
func GetSystemMetrics(c echo.Context) error {
	names := metrics.Gauges
	if name := c.QueryParam("name"); name != "" {
		if !slices.Contains(metrics.Gauges, name) {
			return fail(c, http.StatusBadRequest, "UNKNOWN_METRIC", "Unknown metric", name)
		}
		names = []string{name}
	}
	since, err := exchange.ParseSince(c.QueryParam("since"))
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_SINCE", err.Error(), nil)
	}
	now := time.Now()
	if since.IsZero() {
		since = now.Add(-defaultMetricsWindow)
	}

	store := GetAppContext(c).Metrics()
	result := make([]gaugeSeries, 0, len(names))
	for _, name := range names {
		pts, err := store.Query(name, since, now)
		if err != nil {
			zap.L().Error("metrics query failed", zap.String("metric", name), zap.Error(err))
			return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to load metrics", nil)
		}
		summary, err := exchange.Summarize(pts)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "METRICS_ERROR", err.Error(), nil)
		}
		series := gaugeSeries{Name: name, Points: []metrics.Point{}, Summary: summary}
		if len(pts) > 0 {
			series.Points = pts
			series.Latest = &pts[len(pts)-1]
		}
		result = append(result, series)
	}
	return ok(c, map[string]interface{}{"metrics": result})
}

// registerSystemRoutes registers monitoring endpoints
func registerSystemRoutes() {
	webserver.AuthGET("/system/metrics", GetSystemMetrics)
}
