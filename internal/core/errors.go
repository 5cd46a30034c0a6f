package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when no usable token or refresh token exists
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidState is returned when the OAuth callback state does not match
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrNoInput is returned when classification is requested for zero emails
	ErrNoInput = errors.New("no emails provided")
	// ErrMissingCredential is returned when no LLM credential is configured
	ErrMissingCredential = errors.New("llm credential not configured")
)

// Auth operation names used in AuthError.
const (
	AuthOpExchange = "exchange"
	AuthOpRefresh  = "refresh"
)

// AuthError reports a failed grant against the identity provider's token
// endpoint. Body carries the provider response for diagnosis; it never
// contains token material.
type AuthError struct {
	Op   string // AuthOpExchange or AuthOpRefresh
	Body string
	Err  error
}

func (e *AuthError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("token %s failed: %s", e.Op, e.Body)
	}
	return fmt.Sprintf("token %s failed: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Mailbox operation names used in MailboxError.
const (
	MailboxOpList = "list"
	MailboxOpGet  = "get"
)

// MailboxError reports a failed mailbox provider call. Body carries the
// provider response for diagnosis.
type MailboxError struct {
	Op        string // MailboxOpList or MailboxOpGet
	MessageID string
	Body      string
	Err       error
}

func (e *MailboxError) Error() string {
	switch {
	case e.MessageID != "" && e.Body != "":
		return fmt.Sprintf("mailbox %s failed for message %s: %s", e.Op, e.MessageID, e.Body)
	case e.MessageID != "":
		return fmt.Sprintf("mailbox %s failed for message %s: %v", e.Op, e.MessageID, e.Err)
	case e.Body != "":
		return fmt.Sprintf("mailbox %s failed: %s", e.Op, e.Body)
	default:
		return fmt.Sprintf("mailbox %s failed: %v", e.Op, e.Err)
	}
}

func (e *MailboxError) Unwrap() error {
	return e.Err
}
