package middleware

import (
	"context"
	"strings"

	"github.com/boutique/backend/internal/infrastructure/telemetry"
	"github.com/gin-gonic/gin"
)

// ProfilingConfig controls which requests get pprof labels attached.
type ProfilingConfig struct {
	Enabled bool
	// SkipPaths lists exact paths that never need labels, such as probes.
	SkipPaths []string
	// SkipPathPrefixes lists path prefixes that never need labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig labels everything except probes and doc endpoints.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled: true,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/api-docs",
		},
	}
}

// Profiling attaches Pyroscope labels to each request using the default
// configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig attaches controller, route, and method labels to the
// request's profiling context. All three stay low-cardinality: the route label
// uses gin's matched pattern, never the raw path, so profiles can be sliced by
// endpoint in the Pyroscope UI without exploding the label space.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if shouldSkipProfiling(cfg, c.Request.URL.Path) {
			c.Next()
			return
		}

		labels := extractProfilingLabels(c)

		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func shouldSkipProfiling(cfg ProfilingConfig, path string) bool {
	for _, skipPath := range cfg.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func extractProfilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 3)

	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}

	route := c.FullPath()
	if route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}

	if controller := extractControllerFromRoute(route); controller != "" {
		labels[telemetry.ProfilingLabelController] = controller
	}

	return labels
}

// extractControllerFromRoute derives a controller name from the route pattern,
// skipping the /api/v1 prefix and the storefront/admin grouping segments.
// "/api/v1/storefront/products/:id" yields "products";
// "/api/v1/orders/:id/payment/proof" yields "orders".
func extractControllerFromRoute(route string) string {
	if route == "" {
		return ""
	}

	parts := strings.Split(route, "/")

	for i, part := range parts {
		if part == "" || part == "api" || part == "storefront" || part == "admin" || isVersionSegment(part) {
			continue
		}

		// Path parameters are never resource names.
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "{") {
			continue
		}

		// A trailing path parameter marks this segment as the resource,
		// but the first plain segment wins either way.
		if i+1 < len(parts) && (strings.HasPrefix(parts[i+1], ":") || strings.HasPrefix(parts[i+1], "{")) {
			return part
		}

		return part
	}

	return ""
}

// isVersionSegment reports whether a path segment looks like an API version
// such as v1 or v2.
func isVersionSegment(segment string) bool {
	if len(segment) < 2 {
		return false
	}
	if segment[0] != 'v' && segment[0] != 'V' {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}

// ProfilingAttributeInjector is the label middleware intended for placement
// after the JWT middleware in the chain.
func ProfilingAttributeInjector() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}
