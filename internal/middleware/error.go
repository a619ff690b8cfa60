package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinical-dashboard/pkg/httputil"
	"github.com/jwalitptl/clinical-dashboard/pkg/logger"
)

// ErrorHandler logs errors attached with c.Error and renders the last one
// unless the handler already wrote a response.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	zl := log.Zerolog()

	return func(c *gin.Context) {
		c.Next()

		// Only handle errors if they exist
		if len(c.Errors) == 0 {
			return
		}

		requestID := c.GetString(ContextRequestID)
		for _, e := range c.Errors {
			zl.Error().
				Err(e.Err).
				Str("request_id", requestID).
				Str("path", c.Request.URL.Path).
				Str("method", c.Request.Method).
				Str("client_ip", c.ClientIP()).
				Interface("meta", e.Meta).
				Msg("Request error")
		}

		if c.Writer.Written() {
			return
		}
		httputil.RespondWithError(c, c.Errors.Last().Err)
	}
}
