package middleware

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
	"github.com/jwalitptl/clinical-dashboard/pkg/httputil"
)

// Timeout bounds the request context. Handlers that give up on the deadline
// without writing get a 503.
func Timeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if d <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		if !c.Writer.Written() && stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
			httputil.RespondWithError(c, errors.Unavailable("request timeout", ctx.Err()))
		}
	}
}
