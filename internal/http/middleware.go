package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookreviews/internal/metrics"
)

// MetricsMiddleware records request counts and latency per matched route.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		metrics.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// readOnlyAllowedPaths accept writes even in read-only mode so visitors can
// still sign in.
var readOnlyAllowedPaths = []string{
	"/api/auth/",
}

// ReadOnlyMiddleware blocks write operations when enabled.
// GET, HEAD and OPTIONS are always allowed.
func ReadOnlyMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		for _, allowed := range readOnlyAllowedPaths {
			if strings.HasPrefix(c.Request.URL.Path, allowed) {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: "This action is disabled in read-only mode",
			Code:  CodeReadOnly,
		})
	}
}
