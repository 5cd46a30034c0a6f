package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-mail-triage/internal/whitelist"
)

type stubLLM struct {
	mu      sync.Mutex
	calls   []string
	started []time.Time
	replyFn func(email *EmailItem) (string, error)
}

func (s *stubLLM) CategorizeEmail(ctx context.Context, email *EmailItem) (string, error) {
	s.mu.Lock()
	s.calls = append(s.calls, email.ID)
	s.started = append(s.started, time.Now())
	s.mu.Unlock()
	if s.replyFn != nil {
		return s.replyFn(email)
	}
	return "General", nil
}

type stubMailbox struct {
	emails  []EmailItem
	lastMax int
	err     error
}

func (s *stubMailbox) ListMessageIDs(ctx context.Context, accessToken string, max int) ([]string, error) {
	s.lastMax = max
	ids := make([]string, 0, len(s.emails))
	for _, e := range s.emails {
		ids = append(ids, e.ID)
	}
	return ids, s.err
}

func (s *stubMailbox) FetchEmails(ctx context.Context, accessToken string, max int) ([]EmailItem, error) {
	s.lastMax = max
	if s.err != nil {
		return nil, s.err
	}
	if max > len(s.emails) {
		max = len(s.emails)
	}
	return s.emails[:max], nil
}

func newTestService(mailbox MailboxClient, llm LLMClient, opts Options) *TriageService {
	logger := zap.NewNop()
	return NewTriageService(mailbox, llm, nil, whitelist.NewChecker(nil, logger), logger, opts)
}

func makeEmails(n int) []EmailItem {
	emails := make([]EmailItem, n)
	for i := range emails {
		emails[i] = EmailItem{ID: fmt.Sprintf("msg-%d", i), From: "a@b.com", Subject: "s"}
	}
	return emails
}

func TestFetchEmailsClampsMax(t *testing.T) {
	mailbox := &stubMailbox{emails: makeEmails(60)}
	svc := newTestService(mailbox, &stubLLM{}, Options{})

	_, err := svc.FetchEmails(context.Background(), "tok", 100)
	require.NoError(t, err)
	assert.Equal(t, MaxFetch, mailbox.lastMax)

	_, err = svc.FetchEmails(context.Background(), "tok", -3)
	require.NoError(t, err)
	assert.Equal(t, 1, mailbox.lastMax)
}

func TestFetchEmailsPropagatesMailboxError(t *testing.T) {
	mailbox := &stubMailbox{err: &MailboxError{Op: MailboxOpList, Body: "quota exceeded"}}
	svc := newTestService(mailbox, &stubLLM{}, Options{})

	_, err := svc.FetchEmails(context.Background(), "tok", 10)
	var mbErr *MailboxError
	require.ErrorAs(t, err, &mbErr)
	assert.Equal(t, MailboxOpList, mbErr.Op)
}

func TestClassifyNoInput(t *testing.T) {
	svc := newTestService(&stubMailbox{}, &stubLLM{}, Options{})
	_, err := svc.Classify(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoInput)
}

func TestClassifyMissingCredential(t *testing.T) {
	svc := newTestService(&stubMailbox{}, nil, Options{})
	_, err := svc.Classify(context.Background(), makeEmails(1))
	assert.ErrorIs(t, err, ErrMissingCredential)
}

func TestClassifyAllEmails(t *testing.T) {
	llm := &stubLLM{replyFn: func(email *EmailItem) (string, error) {
		return "Promotions", nil
	}}
	svc := newTestService(&stubMailbox{}, llm, Options{BatchSize: 3, BatchDelay: time.Millisecond})

	emails := makeEmails(5)
	result, err := svc.Classify(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, result, 5)
	for _, e := range emails {
		assert.Equal(t, CategoryPromotions, result[e.ID])
	}
}

func TestClassifyDeterministicWithStubModel(t *testing.T) {
	replyFn := func(email *EmailItem) (string, error) {
		if email.ID == "msg-1" {
			return "spam", nil
		}
		return "important", nil
	}
	emails := makeEmails(3)
	opts := Options{BatchSize: 3, BatchDelay: time.Millisecond}

	first, err := newTestService(&stubMailbox{}, &stubLLM{replyFn: replyFn}, opts).
		Classify(context.Background(), emails)
	require.NoError(t, err)
	second, err := newTestService(&stubMailbox{}, &stubLLM{replyFn: replyFn}, opts).
		Classify(context.Background(), emails)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, CategorySpam, first["msg-1"])
}

func TestClassifyBatchingAndPacing(t *testing.T) {
	const delay = 50 * time.Millisecond
	llm := &stubLLM{}
	svc := newTestService(&stubMailbox{}, llm, Options{BatchSize: 3, BatchDelay: delay})

	start := time.Now()
	result, err := svc.Classify(context.Background(), makeEmails(7))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, result, 7)
	assert.Len(t, llm.calls, 7, "every email hits the model exactly once")

	// 7 emails at batch size 3 means batches of 3, 3 and 1, with a pause
	// before the second and third batches.
	assert.GreaterOrEqual(t, elapsed, 2*delay)

	var lastBatchStart time.Time
	for i, ts := range llm.started {
		if i%3 == 0 && i > 0 {
			assert.GreaterOrEqual(t, ts.Sub(lastBatchStart), delay)
		}
		if i%3 == 0 {
			lastBatchStart = ts
		}
	}
}

func TestClassifyPerItemFailureIsolation(t *testing.T) {
	llm := &stubLLM{replyFn: func(email *EmailItem) (string, error) {
		if email.ID == "msg-1" {
			return "", errors.New("model blew up")
		}
		return "Social", nil
	}}
	svc := newTestService(&stubMailbox{}, llm, Options{BatchSize: 3, BatchDelay: time.Millisecond})

	result, err := svc.Classify(context.Background(), makeEmails(3))
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, CategorySocial, result["msg-0"])
	assert.Equal(t, CategoryGeneral, result["msg-1"])
	assert.Equal(t, CategorySocial, result["msg-2"])
}

func TestClassifyKeysSubsetOfInput(t *testing.T) {
	llm := &stubLLM{}
	svc := newTestService(&stubMailbox{}, llm, Options{BatchSize: 2, BatchDelay: time.Millisecond})

	emails := makeEmails(4)
	result, err := svc.Classify(context.Background(), emails)
	require.NoError(t, err)

	ids := make(map[string]bool, len(emails))
	for _, e := range emails {
		ids[e.ID] = true
	}
	for id := range result {
		assert.True(t, ids[id], "unexpected id %q in result", id)
	}
}

func TestClassifyWhitelistedSenderSkipsModel(t *testing.T) {
	llm := &stubLLM{}
	logger := zap.NewNop()
	svc := NewTriageService(&stubMailbox{}, llm, nil,
		whitelist.NewChecker([]string{"corp.com"}, logger), logger,
		Options{BatchSize: 3, BatchDelay: time.Millisecond})

	emails := []EmailItem{
		{ID: "a", From: "boss@corp.com"},
		{ID: "b", From: "stranger@elsewhere.com"},
	}
	result, err := svc.Classify(context.Background(), emails)
	require.NoError(t, err)

	assert.Equal(t, CategoryImportant, result["a"])
	assert.Equal(t, []string{"b"}, llm.calls)
}

func TestClassifyCancelledBetweenBatches(t *testing.T) {
	llm := &stubLLM{}
	svc := newTestService(&stubMailbox{}, llm, Options{BatchSize: 1, BatchDelay: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Classify(ctx, makeEmails(3))
	assert.ErrorIs(t, err, context.Canceled)
}
