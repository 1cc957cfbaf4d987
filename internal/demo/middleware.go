// Package demo implements the read-only mode used by publicly hosted
// catalog instances: anyone can browse authors and books, nobody can
// change them.
package demo

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Middleware blocks catalog mutations in demo mode.
// Read-only operations (GET) are always allowed.
type Middleware struct {
	enabled bool
}

// NewMiddleware creates a demo mode middleware.
func NewMiddleware(enabled bool) *Middleware {
	return &Middleware{enabled: enabled}
}

// IsEnabled returns whether demo mode is active.
func (m *Middleware) IsEnabled() bool {
	return m.enabled
}

// Handler returns a Gin middleware that blocks write operations.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.JSON(http.StatusForbidden, gin.H{
			"error":     "this action is disabled in demo mode",
			"demo_mode": true,
		})
		c.Abort()
	}
}
