package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessFunc reports whether the service can answer dashboard queries.
type ReadinessFunc func() bool

type Handler struct {
	ready ReadinessFunc
}

func NewHandler(ready ReadinessFunc) *Handler {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Handler{
		ready: ready,
	}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/health/live", h.LivenessCheck)
	r.GET("/health/ready", h.ReadinessCheck)
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	if !h.ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"reason": "Dataset not generated yet",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
