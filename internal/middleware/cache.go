package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               int
	Private              bool
	NoStore              bool
	MustRevalidate       bool
	NoCache              bool
	StaleWhileRevalidate int
	Vary                 []string
}

// DefaultCacheConfig returns a public cache policy of maxAge seconds.
func DefaultCacheConfig(maxAge int) CacheConfig {
	return CacheConfig{
		MaxAge: maxAge,
		Vary:   []string{"Accept", "Accept-Encoding"},
	}
}

// CacheControl builds the Cache-Control header value for config.
func (config CacheConfig) CacheControl() string {
	directives := make([]string, 0, 5)

	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.NoStore {
		directives = append(directives, "no-store")
	}
	if config.NoCache {
		directives = append(directives, "no-cache")
	}
	if config.MustRevalidate {
		directives = append(directives, "must-revalidate")
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, "stale-while-revalidate="+strconv.Itoa(config.StaleWhileRevalidate))
	}

	return strings.Join(directives, ", ")
}

// Cache adds cache control headers to responses
func Cache(config CacheConfig) gin.HandlerFunc {
	value := config.CacheControl()
	vary := strings.Join(config.Vary, ", ")

	return func(c *gin.Context) {
		// Skip cache headers for non-GET requests
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Header("Cache-Control", value)
		if vary != "" {
			c.Header("Vary", vary)
		}

		c.Next()
	}
}
