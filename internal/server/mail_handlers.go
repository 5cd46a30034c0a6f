package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// handleFetch returns the caller's most recent messages, refreshing the
// access token first when it is about to expire. Refreshed tokens are
// written back to the browser before the body is sent.
func (s *Server) handleFetch(c *gin.Context) {
	max := core.DefaultFetch
	if raw := c.Query("max"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			max = n
		}
	}

	tokens := readTokens(c)
	if tokens.AccessToken == "" && tokens.RefreshToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	keeper := core.NewTokenKeeper(tokens, s.oauth, 0)
	accessToken, err := keeper.UsableToken(c.Request.Context())
	if err != nil {
		// Both a missing refresh token and a rejected refresh mean the
		// user has to log in again.
		s.logger.Warn("Could not obtain usable token", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication expired"})
		return
	}
	if keeper.Refreshed() {
		writeTokens(c, keeper.Tokens())
	}

	emails, err := s.svc.FetchEmails(c.Request.Context(), accessToken, max)
	if err != nil {
		s.logger.Error("Mailbox fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"emails": emails})
}

// handleClassify runs the classification pipeline over the posted emails
func (s *Server) handleClassify(c *gin.Context) {
	var req struct {
		Emails []core.EmailItem `json:"emails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	classifications, err := s.svc.Classify(c.Request.Context(), req.Emails)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNoInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no emails provided"})
		case errors.Is(err, core.ErrMissingCredential):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "llm credential not configured"})
		default:
			s.logger.Error("Classification failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "classification failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"classifications": classifications})
}
