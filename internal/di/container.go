package di

import (
	"strings"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/adapters/gmail"
	"github.com/mikey/llm-mail-triage/internal/adapters/google"
	"github.com/mikey/llm-mail-triage/internal/config"
	"github.com/mikey/llm-mail-triage/internal/core"
	"github.com/mikey/llm-mail-triage/internal/factory"
	"github.com/mikey/llm-mail-triage/internal/logging"
	"github.com/mikey/llm-mail-triage/internal/server"
	"github.com/mikey/llm-mail-triage/internal/utils"
	"github.com/mikey/llm-mail-triage/internal/whitelist"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewCacheFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register LLM client
	if err := container.Provide(func(f *factory.LLMFactory) (core.LLMClient, error) {
		return f.CreateLLMClient()
	}); err != nil {
		return nil, err
	}

	// Register classification cache
	if err := container.Provide(func(f *factory.CacheFactory) (core.CacheRepository, error) {
		return f.CreateCacheRepository()
	}); err != nil {
		return nil, err
	}

	// Register important-sender whitelist
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *whitelist.Checker {
		return whitelist.NewChecker(cfg.GetClassifier().ImportantDomains, logger)
	}); err != nil {
		return nil, err
	}

	// Register pipeline options
	if err := container.Provide(func(cfg *config.Config) core.Options {
		classifierCfg := cfg.GetClassifier()
		cacheCfg := cfg.GetCache()
		return core.Options{
			BatchSize:    classifierCfg.BatchSize,
			BatchDelay:   classifierCfg.BatchDelay,
			LLMTimeout:   classifierCfg.LLMTimeout,
			CacheEnabled: cacheCfg.Enabled,
			CacheTTL:     cacheCfg.TTL,
		}
	}); err != nil {
		return nil, err
	}

	// Register mailbox client
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) core.MailboxClient {
		mailboxCfg := cfg.GetMailbox()
		return gmail.NewClient(logger, mailboxCfg.Timeout, mailboxCfg.FetchConcurrency)
	}); err != nil {
		return nil, err
	}

	// Register OAuth helper
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *google.OAuth {
		googleCfg := cfg.GetGoogle()
		serverCfg := cfg.GetServer()
		redirectURL := strings.TrimRight(serverCfg.PublicURL, "/") + "/api/auth/google/callback"
		return google.NewOAuth(googleCfg.ClientID, googleCfg.ClientSecret, redirectURL, logger)
	}); err != nil {
		return nil, err
	}

	// Register triage service
	if err := container.Provide(core.NewTriageService); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(server.New); err != nil {
		return nil, err
	}

	return container, nil
}
