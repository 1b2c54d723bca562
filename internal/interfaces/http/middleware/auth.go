package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wareline/backend/internal/infrastructure/auth"
	"github.com/wareline/backend/internal/infrastructure/logger"
	"github.com/wareline/backend/internal/interfaces/http/dto"
)

// Auth context keys
const (
	ClaimsContextKey  = "auth_claims"
	OrgIDContextKey   = "auth_org_id"
	ActorIDContextKey = "auth_actor_id"
)

// Authorization header parsing
const (
	authHeader   = "Authorization"
	bearerPrefix = "Bearer "
)

// AuthConfig holds configuration for the claims middleware
type AuthConfig struct {
	Verifier  *auth.Verifier
	SkipPaths []string
	Logger    *zap.Logger
}

// Auth verifies the bearer token and stores the organization and actor ids
// in the request context. Paths in SkipPaths pass through unauthenticated.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		header := c.GetHeader(authHeader)
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, "Missing bearer token")
			return
		}
		tokenString := strings.TrimPrefix(header, bearerPrefix)
		if tokenString == "" {
			abortUnauthorized(c, "Missing bearer token")
			return
		}

		claims, err := cfg.Verifier.Parse(tokenString)
		if err != nil {
			if cfg.Logger != nil {
				cfg.Logger.Warn("token rejected",
					zap.Error(err),
					zap.String("path", c.Request.URL.Path))
			}
			switch err {
			case auth.ErrExpiredToken:
				abortUnauthorized(c, "Token has expired")
			default:
				abortUnauthorized(c, "Invalid token")
			}
			return
		}

		c.Set(ClaimsContextKey, claims)
		c.Set(OrgIDContextKey, claims.OrgID)
		c.Set(ActorIDContextKey, claims.UserID)

		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, log = logger.WithOrgID(ctx, log, claims.OrgID)
		ctx, _ = logger.WithActorID(ctx, log, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, GetRequestID(c)))
}

// GetClaims returns the verified claims stored by the Auth middleware
func GetClaims(c *gin.Context) *auth.Claims {
	if value, exists := c.Get(ClaimsContextKey); exists {
		if claims, ok := value.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetOrgID returns the organization id stored by the Auth middleware
func GetOrgID(c *gin.Context) string {
	return c.GetString(OrgIDContextKey)
}

// GetActorID returns the acting user id stored by the Auth middleware
func GetActorID(c *gin.Context) string {
	return c.GetString(ActorIDContextKey)
}
