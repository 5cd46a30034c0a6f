package gmail

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// Client is an implementation of the MailboxClient interface backed by the
// Gmail REST API. A fresh service is built per call from the caller's
// bearer token; the client itself holds no credentials.
type Client struct {
	logger      *zap.Logger
	timeout     time.Duration
	concurrency int
	endpoint    string // overridden in tests
}

// NewClient creates a new Gmail client
func NewClient(logger *zap.Logger, timeout time.Duration, concurrency int) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return &Client{
		logger:      logger,
		timeout:     timeout,
		concurrency: concurrency,
	}
}

// service builds a Gmail service bound to the caller's access token
func (c *Client) service(ctx context.Context, accessToken string) (*gmail.Service, error) {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = c.timeout

	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if c.endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.endpoint))
	}

	svc, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}
	return svc, nil
}

// ListMessageIDs returns the ids of the user's most recent messages,
// newest first, up to max.
func (c *Client) ListMessageIDs(ctx context.Context, accessToken string, max int) ([]string, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	return c.listIDs(ctx, svc, max)
}

func (c *Client) listIDs(ctx context.Context, svc *gmail.Service, max int) ([]string, error) {
	resp, err := svc.Users.Messages.List("me").
		MaxResults(int64(max)).
		Q("").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &core.MailboxError{Op: core.MailboxOpList, Body: apiBody(err), Err: err}
	}

	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

func (c *Client) getMessage(ctx context.Context, svc *gmail.Service, id string) (*gmail.Message, error) {
	msg, err := svc.Users.Messages.Get("me", id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return nil, &core.MailboxError{Op: core.MailboxOpGet, MessageID: id, Body: apiBody(err), Err: err}
	}
	return msg, nil
}

// FetchEmails lists up to max message ids and fetches each full message,
// decoding it to an EmailItem. Individual fetches run concurrently under a
// fixed cap; the returned slice preserves list order.
func (c *Client) FetchEmails(ctx context.Context, accessToken string, max int) ([]core.EmailItem, error) {
	svc, err := c.service(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	ids, err := c.listIDs(ctx, svc, max)
	if err != nil {
		return nil, err
	}

	items := make([]core.EmailItem, len(ids))
	errs := make([]error, len(ids))
	sem := make(chan struct{}, c.concurrency)
	var wg sync.WaitGroup

	for i, id := range ids {
		i, id := i, id
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			msg, err := c.getMessage(ctx, svc, id)
			if err != nil {
				errs[i] = err
				return
			}
			items[i] = decodeMessage(msg)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	c.logger.Debug("Fetched mailbox messages", zap.Int("count", len(items)))
	return items, nil
}

// apiBody extracts the provider response body from a googleapi error
func apiBody(err error) string {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Body
	}
	return ""
}
