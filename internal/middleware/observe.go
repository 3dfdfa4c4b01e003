package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/monitor"
)

// unmatchedRoute labels requests no route matched
const unmatchedRoute = "unmatched"

func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedRoute
}

// Metrics records count and latency of console requests by route template
func Metrics(mc *monitor.MetricsCollector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		mc.RecordHTTPRequest(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}

// Tracing opens a server span per request, continuing the caller's trace.
// The span context travels on the request context into backend calls.
func Tracing(t *monitor.Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := t.StartServerSpan(c.Request.Context(), c.Request, routeLabel(c))
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		var err error
		if last := c.Errors.Last(); last != nil {
			err = last.Err
		}
		t.EndHTTPSpan(span, c.Writer.Status(), err)
	}
}
