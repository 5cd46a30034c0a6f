package core

import (
	"context"
)

// LLMClient defines the interface for interacting with LLM services
type LLMClient interface {
	// CategorizeEmail asks the model for a single category label and returns
	// the raw reply text. Normalization to the fixed taxonomy happens in core.
	CategorizeEmail(ctx context.Context, email *EmailItem) (string, error)
}

// MailboxClient defines the interface for listing and fetching messages
// from the mailbox provider
type MailboxClient interface {
	// ListMessageIDs returns the ids of the most recent messages, newest first
	ListMessageIDs(ctx context.Context, accessToken string, max int) ([]string, error)

	// FetchEmails lists and fetches up to max messages, preserving list order
	FetchEmails(ctx context.Context, accessToken string, max int) ([]EmailItem, error)
}

// TokenExchanger defines the interface for OAuth token-endpoint grants
type TokenExchanger interface {
	// Exchange trades an authorization code for a token set
	Exchange(ctx context.Context, code string) (*TokenSet, error)

	// Refresh trades a refresh token for a fresh access token
	Refresh(ctx context.Context, refreshToken string) (*TokenSet, error)
}

// CacheRepository defines the interface for caching classification results
type CacheRepository interface {
	// Get retrieves the cached category for a message id
	Get(ctx context.Context, messageID string) (Category, bool)

	// Set stores a cache entry
	Set(ctx context.Context, entry *CacheEntry) error

	// Delete removes a cache entry
	Delete(ctx context.Context, messageID string) error

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error
}
