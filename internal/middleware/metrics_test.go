package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admissions-crm-api/internal/service"
)

func TestRouteSurface(t *testing.T) {
	cases := []struct {
		route string
		want  APISurface
	}{
		{"", SurfaceUnmatched},
		{"/health", SurfaceSystem},
		{"/metrics", SurfaceSystem},
		{"/docs/*any", SurfaceSystem},
		{"/api/v1/analytics/bot2/course-year-coverage", SurfaceAnalytics},
		{"/api/v1/analytics/polito-academy/by-subject", SurfaceAnalytics},
		{"/api/v1/bot2/surveys/submit", SurfaceBot},
		{"/api/v1/bot1/admissions-2026/submit", SurfaceBot},
		{"/api/v1/bot2/roster", SurfaceDashboard},
		{"/api/v1/bot2/enrollments", SurfaceDashboard},
		{"/api/v1/auth/login", SurfaceDashboard},
		{"/api/v1/admin/roster/import", SurfaceDashboard},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RouteSurface("/api/v1/", tc.route), tc.route)
	}

	assert.Equal(t, SurfaceAnalytics, RouteSurface("", "/analytics/bot2/academic-years"))
	assert.Equal(t, SurfaceSystem, RouteSurface("", "/health"))
}

func TestRequestMetricsLabelsSurface(t *testing.T) {
	metrics := service.NewMetricsService()
	r := gin.New()
	r.Use(RequestMetrics(metrics, "/api/v1"))
	r.GET("/api/v1/analytics/bot2/program-coverage", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/api/v1/bot2/surveys/submit", func(c *gin.Context) { c.Status(http.StatusBadRequest) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/analytics/bot2/program-coverage?campaign=x", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/bot2/surveys/submit", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/wp-login.php", nil))

	assert.Equal(t, uint64(3), metrics.Snapshot().RequestsTotal)

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `crm_http_requests_total{method="GET",route="/api/v1/analytics/bot2/program-coverage",status="200",surface="analytics"} 1`)
	assert.Contains(t, body, `crm_http_requests_total{method="POST",route="/api/v1/bot2/surveys/submit",status="400",surface="bot"} 1`)
	assert.Contains(t, body, `crm_http_requests_total{method="GET",route="unmatched",status="404",surface="unmatched"} 1`)
	assert.NotContains(t, body, "wp-login")
}

func TestRequestMetricsWithoutService(t *testing.T) {
	r := newRouter(RequestMetrics(nil, "/api/v1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
