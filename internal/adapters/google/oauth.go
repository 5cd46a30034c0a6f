package google

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// Scopes requested during authorization: read-only mailbox access plus the
// basic identity scopes.
var scopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"openid",
	"email",
	"profile",
}

// OAuth performs the authorization-code and refresh-token exchanges against
// Google's token endpoint. It implements the TokenExchanger interface.
type OAuth struct {
	conf   *oauth2.Config
	logger *zap.Logger
}

// NewOAuth creates a new OAuth helper. redirectURL must be the absolute
// callback URL registered with the OAuth client.
func NewOAuth(clientID, clientSecret, redirectURL string, logger *zap.Logger) *OAuth {
	return &OAuth{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  redirectURL,
			Scopes:       scopes,
		},
		logger: logger,
	}
}

// NewState generates a single-use CSRF state value for the redirect dance
func NewState() string {
	return uuid.NewString()
}

// AuthURL builds the consent-screen redirect for the given state.
// access_type=offline plus prompt=consent makes Google return a refresh
// token on every exchange.
func (o *OAuth) AuthURL(state string) string {
	return o.conf.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"))
}

// Exchange trades an authorization code for a token set
func (o *OAuth) Exchange(ctx context.Context, code string) (*core.TokenSet, error) {
	tok, err := o.conf.Exchange(ctx, code)
	if err != nil {
		return nil, &core.AuthError{Op: core.AuthOpExchange, Body: retrieveBody(err), Err: err}
	}
	o.logger.Debug("Exchanged authorization code for tokens")
	return toTokenSet(tok), nil
}

// Refresh trades a refresh token for a fresh access token. Google does not
// rotate refresh tokens, so the original one is carried forward when the
// response omits it.
func (o *OAuth) Refresh(ctx context.Context, refreshToken string) (*core.TokenSet, error) {
	src := o.conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	tok, err := src.Token()
	if err != nil {
		return nil, &core.AuthError{Op: core.AuthOpRefresh, Body: retrieveBody(err), Err: err}
	}
	o.logger.Debug("Refreshed access token")

	ts := toTokenSet(tok)
	if ts.RefreshToken == "" {
		ts.RefreshToken = refreshToken
	}
	return ts, nil
}

func toTokenSet(tok *oauth2.Token) *core.TokenSet {
	ts := &core.TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.Expiry.Unix(),
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		ts.Scope = scope
	}
	return ts
}

// retrieveBody extracts the provider response body from a token endpoint error
func retrieveBody(err error) string {
	var rerr *oauth2.RetrieveError
	if errors.As(err, &rerr) {
		return string(rerr.Body)
	}
	return ""
}
