package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/backoffice/internal/common"
	"github.com/dmitrijs2005/backoffice/internal/server/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDKey = "request_id"

// requestID propagates a well-formed inbound X-Request-ID or mints a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(common.RequestIDHeaderName)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(common.RequestIDHeaderName, id)
		c.Next()
	}
}

func (s *HTTPServer) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Info(c.Request.Context(), "http.request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		)
	}
}

// authRequired resolves the session exactly once and stops the chain on
// anything but a valid identity.
func (s *HTTPServer) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		res := s.resolver.Resolve(c.Request)
		id, ok := res.Identity()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(common.ErrorUnauthorized.Error()))
			return
		}
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func requireRole(role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorBody(common.ErrorUnauthorized.Error()))
			return
		}
		if id.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, errorBody(common.ErrorForbidden.Error()))
			return
		}
		c.Next()
	}
}

func errorBody(msg string) gin.H {
	return gin.H{"error": msg}
}
