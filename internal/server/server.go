package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/google"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
)

// Server hosts the HTTP surface of the triage app: the OAuth redirect
// dance, session introspection, and the fetch/classify pipeline endpoints.
type Server struct {
	engine   *gin.Engine
	srv      *http.Server
	svc      *core.TriageService
	oauth    *google.OAuth
	logger   *zap.Logger
	addr     string
	stateTTL time.Duration
}

// New creates a new Server with all routes registered
func New(svc *core.TriageService, oauth *google.OAuth, cfg *config.Config, logger *zap.Logger) *Server {
	serverCfg := cfg.GetServer()

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	stateTTL := serverCfg.StateTTL
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}

	s := &Server{
		engine:   engine,
		svc:      svc,
		oauth:    oauth,
		logger:   logger,
		addr:     serverCfg.ListenAddress,
		stateTTL: stateTTL,
	}
	s.registerRoutes()

	return s
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")

	auth := api.Group("/auth")
	{
		auth.GET("/google/start", s.handleAuthStart)
		auth.GET("/google/callback", s.handleAuthCallback)
		auth.POST("/logout", s.handleLogout)
		auth.GET("/session", s.handleSession)
	}

	api.GET("/gmail/fetch", s.handleFetch)
	api.POST("/classify", s.handleClassify)
}

// Start begins serving in the background
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:    s.addr,
		Handler: s.engine,
	}

	go func() {
		s.logger.Info("HTTP server listening", zap.String("address", s.addr))
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop drains in-flight requests and shuts the server down
func (s *Server) Stop() error {
	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}

// Handler exposes the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}
