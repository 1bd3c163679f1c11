package middleware

import (
	"context"
	"strings"

	"github.com/erp/ledgerreport/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// Profiling attaches pprof labels to the rest of the handler chain so
// Pyroscope profiles can be sliced by route, report and company. When
// disabled it only calls the next handler.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return func(c *gin.Context) {
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// profilingLabels uses the route pattern, never the raw path, so label
// values stay bounded
func profilingLabels(c *gin.Context) map[string]string {
	route := c.FullPath()
	controller, report := routeSegments(route)
	return map[string]string{
		telemetry.ProfilingLabelMethod:     c.Request.Method,
		telemetry.ProfilingLabelRoute:      route,
		telemetry.ProfilingLabelController: controller,
		telemetry.ProfilingLabelReport:     report,
		telemetry.ProfilingLabelCompany:    c.Query("company"),
	}
}

// routeSegments splits "/api/v1/reports/project-balance" into its resource
// ("reports") and the last static segment ("project-balance")
func routeSegments(route string) (controller, last string) {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) || strings.HasPrefix(part, ":") {
			continue
		}
		if controller == "" {
			controller = part
		}
		last = part
	}
	return controller, last
}

// isVersionSegment matches v1, v2, ...
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
