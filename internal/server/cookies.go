package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// Cookie names holding the per-browser session state. Tokens live only in
// these cookies; the server keeps no session store.
const (
	cookieAccessToken  = "ga_at"
	cookieRefreshToken = "ga_rt"
	cookieExpiry       = "ga_exp"
	cookieState        = "ga_state"
)

// setCookie writes an HTTP-only, secure, SameSite=Lax cookie on path /.
// maxAge 0 makes a session cookie; negative deletes.
func setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", true, true)
}

func clearCookie(c *gin.Context, name string) {
	setCookie(c, name, "", -1)
}

// readTokens assembles a TokenSet from the request cookies
func readTokens(c *gin.Context) core.TokenSet {
	var tokens core.TokenSet
	if v, err := c.Cookie(cookieAccessToken); err == nil {
		tokens.AccessToken = v
	}
	if v, err := c.Cookie(cookieRefreshToken); err == nil {
		tokens.RefreshToken = v
	}
	if v, err := c.Cookie(cookieExpiry); err == nil {
		if exp, err := strconv.ParseInt(v, 10, 64); err == nil {
			tokens.ExpiresAt = exp
		}
	}
	return tokens
}

// writeTokens persists a TokenSet back to the browser. The access token and
// expiry cookies live as long as the token; the refresh token is a session
// cookie with no explicit age.
func writeTokens(c *gin.Context, tokens core.TokenSet) {
	maxAge := int(tokens.ExpiresAt - time.Now().Unix())
	if maxAge < 0 {
		maxAge = 0
	}
	setCookie(c, cookieAccessToken, tokens.AccessToken, maxAge)
	setCookie(c, cookieExpiry, strconv.FormatInt(tokens.ExpiresAt, 10), maxAge)
	if tokens.RefreshToken != "" {
		setCookie(c, cookieRefreshToken, tokens.RefreshToken, 0)
	}
}

func clearTokens(c *gin.Context) {
	clearCookie(c, cookieAccessToken)
	clearCookie(c, cookieRefreshToken)
	clearCookie(c, cookieExpiry)
}
