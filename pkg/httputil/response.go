package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/clinical-dashboard/pkg/errors"
)

// ContextRequestID is the gin context key holding the request id.
const ContextRequestID = "request_id"

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response. Only *errors.AppError messages
// reach the client; anything else is reported as an internal error.
func RespondWithError(c *gin.Context, err error) {
	status, message := StatusAndMessage(err)
	c.AbortWithStatusJSON(status, Response{
		Success: false,
		Error: &Error{
			Code:      status,
			Message:   message,
			RequestID: c.GetString(ContextRequestID),
		},
	})
}

// StatusAndMessage maps err to the HTTP status and client-facing message.
func StatusAndMessage(err error) (int, string) {
	if appErr, ok := errors.As(err); ok {
		return appErr.StatusCode(), appErr.Message
	}
	return http.StatusInternalServerError, "Internal server error"
}
