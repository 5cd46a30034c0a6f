package gmail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gmail "google.golang.org/api/gmail/v1"

	"github.com/mikey/llm-mail-triage/internal/core"
)

// newFakeGmail serves a minimal slice of the Gmail REST surface
func newFakeGmail(t *testing.T, ids []string, getStatus int) (*httptest.Server, *int32) {
	t.Helper()
	var inFlight, maxInFlight int32

	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		refs := make([]map[string]string, 0, len(ids))
		for _, id := range ids {
			refs = append(refs, map[string]string{"id": id, "threadId": id})
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"messages": refs})
	})
	mux.HandleFunc("/gmail/v1/users/me/messages/", func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			prev := atomic.LoadInt32(&maxInFlight)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxInFlight, prev, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)

		if getStatus != http.StatusOK {
			w.WriteHeader(getStatus)
			fmt.Fprint(w, `{"error":{"message":"boom"}}`)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/gmail/v1/users/me/messages/")
		msg := &gmail.Message{
			Id:      id,
			Snippet: "snippet-" + id,
			Payload: &gmail.MessagePart{
				MimeType: "text/plain",
				Body:     &gmail.MessagePartBody{Data: b64url("body of " + id)},
				Headers: []*gmail.MessagePartHeader{
					{Name: "Subject", Value: "subject-" + id},
					{Name: "From", Value: id + "@example.com"},
				},
			},
		}
		json.NewEncoder(w).Encode(msg)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &maxInFlight
}

func newTestClient(srv *httptest.Server, concurrency int) *Client {
	c := NewClient(zap.NewNop(), 5*time.Second, concurrency)
	c.endpoint = srv.URL
	return c
}

func TestListMessageIDs(t *testing.T) {
	srv, _ := newFakeGmail(t, []string{"m3", "m1", "m2"}, http.StatusOK)
	client := newTestClient(srv, 5)

	ids, err := client.ListMessageIDs(context.Background(), "tok", 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"m3", "m1", "m2"}, ids)
}

func TestFetchEmailsPreservesListOrder(t *testing.T) {
	ids := []string{"z", "a", "q", "m"}
	srv, _ := newFakeGmail(t, ids, http.StatusOK)
	client := newTestClient(srv, 5)

	items, err := client.FetchEmails(context.Background(), "tok", 4)
	require.NoError(t, err)
	require.Len(t, items, 4)

	for i, id := range ids {
		assert.Equal(t, id, items[i].ID)
		assert.Equal(t, "subject-"+id, items[i].Subject)
		assert.Equal(t, id+"@example.com", items[i].From)
		assert.Equal(t, "snippet-"+id, items[i].Snippet)
		assert.Equal(t, "body of "+id, items[i].BodyText)
	}
}

func TestFetchEmailsIDsAreDistinct(t *testing.T) {
	srv, _ := newFakeGmail(t, []string{"a", "b", "c"}, http.StatusOK)
	client := newTestClient(srv, 5)

	items, err := client.FetchEmails(context.Background(), "tok", 3)
	require.NoError(t, err)

	seen := make(map[string]bool)
	for _, item := range items {
		assert.False(t, seen[item.ID], "duplicate id %q", item.ID)
		seen[item.ID] = true
	}
}

func TestFetchEmailsCapsConcurrency(t *testing.T) {
	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("m%d", i)
	}
	srv, maxInFlight := newFakeGmail(t, ids, http.StatusOK)
	client := newTestClient(srv, 2)

	_, err := client.FetchEmails(context.Background(), "tok", 12)
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(maxInFlight), int32(2))
}

func TestFetchEmailsGetFailure(t *testing.T) {
	srv, _ := newFakeGmail(t, []string{"m1"}, http.StatusForbidden)
	client := newTestClient(srv, 5)

	_, err := client.FetchEmails(context.Background(), "tok", 1)
	var mbErr *core.MailboxError
	require.ErrorAs(t, err, &mbErr)
	assert.Equal(t, core.MailboxOpGet, mbErr.Op)
	assert.Equal(t, "m1", mbErr.MessageID)
	assert.Contains(t, mbErr.Body, "boom")
}

func TestListFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/gmail/v1/users/me/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited"}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(srv, 5)
	_, err := client.ListMessageIDs(context.Background(), "tok", 10)
	var mbErr *core.MailboxError
	require.ErrorAs(t, err, &mbErr)
	assert.Equal(t, core.MailboxOpList, mbErr.Op)
	assert.Contains(t, mbErr.Body, "rate limited")
}
