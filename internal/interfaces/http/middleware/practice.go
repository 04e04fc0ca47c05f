package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/praxis/backend/internal/infrastructure/logger"
)

// Keys used to store practice information in gin.Context
const (
	PracticeIDKey     = "practice_id"
	PracticeHeaderKey = "X-Practice-ID"
)

// PracticeMiddlewareConfig holds configuration for practice middleware
type PracticeMiddlewareConfig struct {
	// SkipPaths are paths that don't require practice context (e.g., health check)
	SkipPaths []string
	// Required determines if practice context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultPracticeConfig returns default practice middleware configuration
func DefaultPracticeConfig() PracticeMiddlewareConfig {
	return PracticeMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
		Required:  true,
		Logger:    nil,
	}
}

// PracticeMiddleware extracts the practice ID from the X-Practice-ID header
func PracticeMiddleware() gin.HandlerFunc {
	return PracticeMiddlewareWithConfig(DefaultPracticeConfig())
}

// PracticeMiddlewareWithConfig returns practice middleware with custom configuration
func PracticeMiddlewareWithConfig(cfg PracticeMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		practiceID := c.GetHeader(PracticeHeaderKey)

		if practiceID != "" {
			if _, err := uuid.Parse(practiceID); err != nil {
				respondUnauthorized(c, "Invalid practice ID format")
				return
			}
		}

		if practiceID == "" && cfg.Required {
			respondUnauthorized(c, "Practice identification required")
			return
		}

		if practiceID != "" {
			c.Set(PracticeIDKey, practiceID)

			// Propagate to the request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithPracticeID(ctx, log, practiceID)
			c.Request = c.Request.WithContext(ctx)

			if cfg.Logger != nil {
				cfg.Logger.Debug("Practice identified",
					zap.String("practice_id", practiceID),
				)
			}
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_UNAUTHORIZED",
			"message": message,
		},
	})
}

// GetPracticeID retrieves the practice ID from gin.Context
func GetPracticeID(c *gin.Context) string {
	if practiceID, exists := c.Get(PracticeIDKey); exists {
		if pid, ok := practiceID.(string); ok {
			return pid
		}
	}
	return ""
}

// GetPracticeUUID retrieves the practice ID as UUID from gin.Context
func GetPracticeUUID(c *gin.Context) (uuid.UUID, error) {
	practiceID := GetPracticeID(c)
	if practiceID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(practiceID)
}

// OptionalPracticeMiddleware creates middleware that doesn't require a practice
func OptionalPracticeMiddleware() gin.HandlerFunc {
	cfg := DefaultPracticeConfig()
	cfg.Required = false
	return PracticeMiddlewareWithConfig(cfg)
}
