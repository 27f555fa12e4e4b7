package webapi

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aitopia-kr/aitopia/pkg/metrics"
)

func TestSystemMetrics(t *testing.T) {
	env := newTestEnv(t, fakeCreator{}, nil, false)
	me := env.sessionCookie(t, "demo@aitopia.kr")

	now := time.Now()
	env.app.metrics.SetGaugeAt(metrics.SystemCPU, 10, now.Add(-2*time.Minute))
	env.app.metrics.SetGaugeAt(metrics.SystemCPU, 30, now.Add(-time.Minute))

	rec := env.do(t, http.MethodGet, "/api/system/metrics?name="+metrics.SystemCPU, "", me)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	series := decode(t, rec)["metrics"].([]interface{})
	require.Len(t, series, 1)
	cpu := series[0].(map[string]interface{})
	assert.Equal(t, metrics.SystemCPU, cpu["name"])
	assert.Len(t, cpu["points"], 2)
	assert.Equal(t, 30.0, cpu["latest"].(map[string]interface{})["value"])
	assert.Equal(t, 20.0, cpu["summary"].(map[string]interface{})["mean"])

	rec = env.do(t, http.MethodGet, "/api/system/metrics", "", me)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["metrics"], len(metrics.Gauges))

	rec = env.do(t, http.MethodGet, "/api/system/metrics?name=disk", "", me)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/system/metrics", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
