package core

import (
	"context"
	"time"
)

// DefaultRefreshMargin is how long before expiry a token stops being usable.
const DefaultRefreshMargin = 60 * time.Second

// TokenKeeper holds one session's TokenSet and refreshes the access token
// through the identity provider before it expires. It is built per request
// from caller-supplied tokens; the caller persists the updated set when
// Refreshed reports true.
type TokenKeeper struct {
	tokens    TokenSet
	exchanger TokenExchanger
	margin    time.Duration
	now       func() time.Time
	refreshed bool
}

// NewTokenKeeper creates a keeper for the given tokens. A non-positive
// margin falls back to DefaultRefreshMargin.
func NewTokenKeeper(tokens TokenSet, exchanger TokenExchanger, margin time.Duration) *TokenKeeper {
	if margin <= 0 {
		margin = DefaultRefreshMargin
	}
	return &TokenKeeper{
		tokens:    tokens,
		exchanger: exchanger,
		margin:    margin,
		now:       time.Now,
	}
}

// UsableToken returns an access token valid for at least the refresh margin.
// An unusable token is refreshed when a refresh token is present; otherwise
// ErrNotAuthenticated is returned.
func (k *TokenKeeper) UsableToken(ctx context.Context) (string, error) {
	if k.usable() {
		return k.tokens.AccessToken, nil
	}
	if k.tokens.RefreshToken == "" {
		return "", ErrNotAuthenticated
	}

	refreshed, err := k.exchanger.Refresh(ctx, k.tokens.RefreshToken)
	if err != nil {
		return "", err
	}

	k.tokens.AccessToken = refreshed.AccessToken
	k.tokens.ExpiresAt = refreshed.ExpiresAt
	if refreshed.RefreshToken != "" {
		k.tokens.RefreshToken = refreshed.RefreshToken
	}
	if refreshed.Scope != "" {
		k.tokens.Scope = refreshed.Scope
	}
	k.refreshed = true

	return k.tokens.AccessToken, nil
}

// Refreshed reports whether UsableToken replaced the cached tokens
func (k *TokenKeeper) Refreshed() bool {
	return k.refreshed
}

// Tokens returns the current token set
func (k *TokenKeeper) Tokens() TokenSet {
	return k.tokens
}

func (k *TokenKeeper) usable() bool {
	if k.tokens.AccessToken == "" {
		return false
	}
	return k.tokens.ExpiresAt-k.now().Unix() >= int64(k.margin/time.Second)
}
