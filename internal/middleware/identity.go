package middleware

import (
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/nikolayk812/cart-service/internal/auth"
	"github.com/nikolayk812/cart-service/internal/config"
	"github.com/nikolayk812/cart-service/internal/dto"
	"github.com/nikolayk812/cart-service/internal/logger"
	"go.uber.org/zap"
	"strings"
)

const (
	OwnerIDKey        = "owner_id"
	UserIDHeader      = "X-User-ID"
	AuthHeaderKey     = "Authorization"
	BearerPrefix      = "Bearer "
	defaultCookieName = "token"
)

type IdentityConfig struct {
	// Mode is config.AuthModeHeader or config.AuthModeToken.
	Mode string
	// Tokens verifies signed identities in token mode.
	Tokens *auth.TokenService
	// CookieName is checked before the Authorization header in token mode.
	CookieName string
	// DefaultIdentity is used in header mode when X-User-ID is absent.
	DefaultIdentity string
}

// Identity resolves the cart owner once per request and stores it under
// OwnerIDKey. Requests without a resolvable identity get 401.
func Identity(cfg IdentityConfig) gin.HandlerFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}

	return func(c *gin.Context) {
		var ownerID string

		switch cfg.Mode {
		case config.AuthModeToken:
			tokenString := extractToken(c, cfg.CookieName)
			if tokenString == "" {
				abortWithError(c, dto.ErrCodeUnauthorized, "missing identity token")
				return
			}

			claims, err := cfg.Tokens.Verify(tokenString)
			if err != nil {
				logger.FromGin(c).Debug("identity token rejected", zap.Error(err))
				if errors.Is(err, auth.ErrExpiredToken) {
					abortWithError(c, dto.ErrCodeTokenExpired, "identity token has expired")
					return
				}
				abortWithError(c, dto.ErrCodeUnauthorized, "invalid identity token")
				return
			}
			ownerID = claims.UserID

		default:
			ownerID = strings.TrimSpace(c.GetHeader(UserIDHeader))
			if ownerID == "" {
				ownerID = cfg.DefaultIdentity
			}
		}

		if ownerID == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "identity is required")
			return
		}

		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the identity resolved by Identity, or "" outside it.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}

func extractToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(authHeader, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, BearerPrefix))
}
