package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"autoshop/internal/domain/identity"
	"autoshop/internal/handler/httperr"
	"autoshop/internal/pkg/config"
	"autoshop/internal/pkg/cookie"
	"autoshop/internal/pkg/errs"
	"autoshop/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const ctxUserKey = "user_key"

var errInvalidToken = errs.New("invalid access token")

// TokenValidator is satisfied by *jwt.Service.
type TokenValidator interface {
	ValidateToken(token string) (*jwt.Claims, error)
}

type IdentityMiddleware struct {
	tokens TokenValidator
	cookie config.CookieConfig
}

func NewIdentityMiddleware(tokens *jwt.Service, cfg config.Config) *IdentityMiddleware {
	return newIdentityMiddleware(tokens, cfg.Cookie)
}

func newIdentityMiddleware(tokens TokenValidator, cfg config.CookieConfig) *IdentityMiddleware {
	return &IdentityMiddleware{tokens: tokens, cookie: cfg}
}

// ResolveIdentity keys the request by the signed-in user when a valid token
// is present and by the anonymous session cookie otherwise. Visitors without
// a cookie get a fresh one. A token that fails validation is rejected rather
// than downgraded to anonymous.
func (m *IdentityMiddleware) ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerOrCookieToken(c); token != "" {
			claims, err := m.tokens.ValidateToken(token)
			if err != nil {
				slog.Warn("Token validation failed in identity middleware", "error", err.Error())
				httperr.AbortWithError(c, http.StatusUnauthorized, errs.Mark(err, errInvalidToken), "Invalid or expired token", nil)
				return
			}
			c.Set(ctxUserKey, identity.Authenticated(claims.UserID))
			c.Next()
			return
		}

		sid := cookie.GetSessionID(c)
		key, err := identity.Anonymous(sid)
		if err != nil {
			sid = uuid.NewString()
			key, _ = identity.Anonymous(sid)
			cookie.SetSessionID(c, m.cookie, sid)
		}
		c.Set(ctxUserKey, key)
		c.Next()
	}
}

func bearerOrCookieToken(c *gin.Context) string {
	if token := cookie.GetAccessToken(c); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetUserKey(c *gin.Context) (identity.UserKey, bool) {
	v, exists := c.Get(ctxUserKey)
	if !exists {
		return identity.UserKey{}, false
	}
	key, ok := v.(identity.UserKey)
	return key, ok
}

// SetUserKey is used by handler tests that bypass ResolveIdentity.
func SetUserKey(c *gin.Context, key identity.UserKey) {
	c.Set(ctxUserKey, key)
}
