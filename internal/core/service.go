package core

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/whitelist"
)

const (
	// MaxFetch bounds how many messages one fetch may request
	MaxFetch = 50
	// DefaultFetch is used when the caller does not specify a count
	DefaultFetch = 15
)

// Options configures the triage pipeline
type Options struct {
	BatchSize    int
	BatchDelay   time.Duration
	LLMTimeout   time.Duration
	CacheEnabled bool
	CacheTTL     time.Duration
}

// TriageService is the core pipeline: it binds the mailbox client and the
// LLM classifier and exposes fetch and classify to the HTTP surface.
type TriageService struct {
	mailbox   MailboxClient
	llm       LLMClient
	cache     CacheRepository
	important *whitelist.Checker
	logger    *zap.Logger
	opts      Options
}

// NewTriageService creates a new triage service
func NewTriageService(
	mailbox MailboxClient,
	llm LLMClient,
	cache CacheRepository,
	important *whitelist.Checker,
	logger *zap.Logger,
	opts Options,
) *TriageService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 3
	}
	if opts.BatchDelay <= 0 {
		opts.BatchDelay = time.Second
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = 30 * time.Second
	}
	return &TriageService{
		mailbox:   mailbox,
		llm:       llm,
		cache:     cache,
		important: important,
		logger:    logger,
		opts:      opts,
	}
}

// FetchEmails lists and decodes the caller's most recent messages.
// max is clamped to [1, MaxFetch].
func (s *TriageService) FetchEmails(ctx context.Context, accessToken string, max int) ([]EmailItem, error) {
	if max < 1 {
		max = 1
	}
	if max > MaxFetch {
		max = MaxFetch
	}

	emails, err := s.mailbox.FetchEmails(ctx, accessToken, max)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Fetched mailbox messages",
		zap.Int("requested", max),
		zap.Int("count", len(emails)))

	return emails, nil
}

// Classify assigns a category to every email. Work proceeds in fixed-size
// batches with a pause between batches to stay under provider rate limits;
// a failure on one email classifies it as General and never fails the call.
func (s *TriageService) Classify(ctx context.Context, emails []EmailItem) (Classification, error) {
	if len(emails) == 0 {
		return nil, ErrNoInput
	}
	if s.llm == nil {
		return nil, ErrMissingCredential
	}

	result := make(Classification, len(emails))
	var mu sync.Mutex

	for start := 0; start < len(emails); start += s.opts.BatchSize {
		if start > 0 {
			select {
			case <-time.After(s.opts.BatchDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		end := start + s.opts.BatchSize
		if end > len(emails) {
			end = len(emails)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			email := emails[i]
			wg.Add(1)
			go func() {
				defer wg.Done()
				category := s.classifyOne(ctx, &email)
				mu.Lock()
				result[email.ID] = category
				mu.Unlock()
			}()
		}
		wg.Wait()
	}

	s.logger.Info("Classified emails", zap.Int("count", len(result)))
	return result, nil
}

// classifyOne produces a category for a single email. Whitelisted senders
// bypass the model entirely; model and network errors map to General.
func (s *TriageService) classifyOne(ctx context.Context, email *EmailItem) Category {
	if s.important != nil && s.important.IsImportant(email.From) {
		s.logger.Debug("Sender domain whitelisted, skipping model",
			zap.String("message_id", email.ID))
		return CategoryImportant
	}

	if s.opts.CacheEnabled && s.cache != nil {
		if category, ok := s.cache.Get(ctx, email.ID); ok {
			s.logger.Debug("Cache hit for message", zap.String("message_id", email.ID))
			return category
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.opts.LLMTimeout)
	defer cancel()

	reply, err := s.llm.CategorizeEmail(callCtx, email)
	if err != nil {
		s.logger.Warn("Classification failed, defaulting to General",
			zap.String("message_id", email.ID),
			zap.Error(err))
		return CategoryGeneral
	}

	category := NormalizeCategory(reply)

	if s.opts.CacheEnabled && s.cache != nil {
		entry := &CacheEntry{
			MessageID: email.ID,
			Category:  category,
			LastSeen:  time.Now(),
			ExpiresAt: time.Now().Add(s.opts.CacheTTL),
		}
		if err := s.cache.Set(ctx, entry); err != nil {
			s.logger.Error("Failed to update cache", zap.Error(err))
		}
	}

	return category
}
