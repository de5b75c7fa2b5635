package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// SetAuthCookies stores both tokens as HttpOnly cookies. secure should be
// true everywhere except local development.
func SetAuthCookies(c *gin.Context, accessToken, refreshToken string, accessMaxAge, refreshMaxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, accessMaxAge, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, refreshToken, refreshMaxAge, "/", "", secure, true)
}

// ClearAuthCookies expires both auth cookies.
func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}

// GetTokenFromCookie returns the named cookie value or empty string.
func GetTokenFromCookie(c *gin.Context, name string) string {
	value, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return value
}
