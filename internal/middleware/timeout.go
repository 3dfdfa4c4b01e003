package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"shopadmin/pkg/utils"
)

// Timeout bounds the request context. Handlers pass it on to backend
// calls, so a slow backend surfaces as a network error the handler
// renders; if nothing was written by the deadline a 504 is sent.
func Timeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			utils.ErrorResponse(c, http.StatusGatewayTimeout, "Request timeout")
		}
	}
}
