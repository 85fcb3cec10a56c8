package cookie

import (
	"net/http"

	"autoshop/internal/pkg/config"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookieName = "access_token"
	SessionCookieName     = "autoshop_sid"
)

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}

func GetSessionID(c *gin.Context) string {
	sid, _ := c.Cookie(SessionCookieName)
	return sid
}

// SetSessionID issues the anonymous visitor cookie.
func SetSessionID(c *gin.Context, cfg config.CookieConfig, sid string) {
	c.SetSameSite(getSameSite(cfg.SameSite))

	c.SetCookie(
		SessionCookieName,
		sid,
		int(cfg.SessionMaxAge.Seconds()),
		"/",
		cfg.Domain,
		cfg.Secure,
		true, // HttpOnly
	)
}

func getSameSite(sameSite string) http.SameSite {
	switch sameSite {
	case "Strict":
		return http.SameSiteStrictMode
	case "Lax":
		return http.SameSiteLaxMode
	case "None":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
