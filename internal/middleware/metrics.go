package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admissions-crm-api/internal/service"
)

// APISurface groups routes by the kind of client calling them.
type APISurface string

const (
	// SurfaceAnalytics covers the dashboard coverage reports and breakdowns.
	SurfaceAnalytics APISurface = "analytics"
	// SurfaceBot covers the service-token submit endpoints used by the bots.
	SurfaceBot APISurface = "bot"
	// SurfaceDashboard covers operator auth, catalog, roster and enrollment routes.
	SurfaceDashboard APISurface = "dashboard"
	// SurfaceSystem covers health, metrics and docs outside the API prefix.
	SurfaceSystem APISurface = "system"
	// SurfaceUnmatched is used for requests no route matched, so scanners
	// cannot create one series per URL.
	SurfaceUnmatched APISurface = "unmatched"
)

// RouteSurface classifies a gin route template mounted under apiPrefix.
func RouteSurface(apiPrefix, route string) APISurface {
	if route == "" {
		return SurfaceUnmatched
	}
	prefix := strings.TrimRight(apiPrefix, "/")
	if prefix != "" {
		if route != prefix && !strings.HasPrefix(route, prefix+"/") {
			return SurfaceSystem
		}
		route = strings.TrimPrefix(route, prefix)
	}
	switch {
	case strings.HasPrefix(route, "/analytics/"):
		return SurfaceAnalytics
	case (strings.HasPrefix(route, "/bot1/") || strings.HasPrefix(route, "/bot2/")) && strings.HasSuffix(route, "/submit"):
		return SurfaceBot
	case route == "/health" || route == "/metrics" || strings.HasPrefix(route, "/docs/"):
		return SurfaceSystem
	}
	return SurfaceDashboard
}

// RequestMetrics records latency and status per route, labelled with its API surface.
func RequestMetrics(metricsSvc *service.MetricsService, apiPrefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		surface := RouteSurface(apiPrefix, route)
		if surface == SurfaceUnmatched {
			route = string(SurfaceUnmatched)
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, string(surface), route, c.Writer.Status(), time.Since(start))
	}
}
