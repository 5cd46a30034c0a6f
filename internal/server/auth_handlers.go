package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/google"
)

// handleAuthStart begins the OAuth redirect dance: it binds a fresh CSRF
// state to the browser and sends it to Google's consent screen.
func (s *Server) handleAuthStart(c *gin.Context) {
	state := google.NewState()
	setCookie(c, cookieState, state, int(s.stateTTL.Seconds()))
	c.Redirect(http.StatusFound, s.oauth.AuthURL(state))
}

// handleAuthCallback completes the dance. The state cookie is cleared on
// every exit, success or not, so a stale state can never be replayed.
func (s *Server) handleAuthCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	stored, _ := c.Cookie(cookieState)
	clearCookie(c, cookieState)

	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	if state == "" || stored == "" || state != stored {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid state"})
		return
	}

	tokens, err := s.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		s.logger.Error("Authorization code exchange failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token exchange failed"})
		return
	}

	writeTokens(c, *tokens)
	c.Redirect(http.StatusFound, "/")
}

// handleLogout discards the session's tokens
func (s *Server) handleLogout(c *gin.Context) {
	clearTokens(c)
	c.Status(http.StatusNoContent)
}

// handleSession reports whether the browser currently holds an access token
func (s *Server) handleSession(c *gin.Context) {
	at, _ := c.Cookie(cookieAccessToken)
	c.JSON(http.StatusOK, gin.H{"authenticated": at != ""})
}
