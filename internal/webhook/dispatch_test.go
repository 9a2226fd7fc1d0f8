package webhook

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

func newTestOutbox(t *testing.T) *Outbox {
	t.Helper()

	db, err := bolt.Open(filepath.Join(t.TempDir(), "outbox.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	o, err := OpenOutbox(db)
	require.NoError(t, err)

	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatch_PostsToEveryTarget(t *testing.T) {
	var mu sync.Mutex
	received := make(map[string]http.Header)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var payload Payload
		require.NoError(t, json.Unmarshal(body, &payload))

		mu.Lock()
		received[payload.WebhookID] = r.Header.Clone()
		mu.Unlock()

		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	outbox := newTestOutbox(t)
	d := NewDispatcher(srv.Client(), outbox, discardLogger())

	targets := []*Webhook{
		{ID: "webhook_1", Event: FileUpdated, AltIndex: "folder_1", URL: srv.URL, Signature: "sig-1"},
		{ID: "webhook_2", Event: FileUpdated, AltIndex: "folder_1", URL: srv.URL},
	}

	d.Dispatch(context.Background(), targets, nil, map[string]string{"name": "a.txt"}, "")

	mu.Lock()
	defer mu.Unlock()

	require.Contains(t, received, "webhook_1")
	require.Contains(t, received, "webhook_2")
	assert.Equal(t, "application/json", received["webhook_1"].Get("Content-Type"))
	assert.Equal(t, "sig-1", received["webhook_1"].Get("signature"))
	assert.Empty(t, received["webhook_2"].Get("signature"))

	pending, err := outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending, "every attempted job must be drained from the outbox")
}

func TestDispatch_NoTargetsIsNoop(t *testing.T) {
	d := NewDispatcher(nil, newTestOutbox(t), discardLogger())
	d.Dispatch(context.Background(), nil, nil, nil, "")
}

func TestDispatch_FailedDeliveryStillDrainsOutbox(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	outbox := newTestOutbox(t)
	d := NewDispatcher(srv.Client(), outbox, discardLogger())

	d.Dispatch(context.Background(), []*Webhook{{ID: "w1", URL: srv.URL}}, nil, nil, "")

	pending, err := outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestReplayPending_AttemptsEachJobOnce(t *testing.T) {
	var count int
	var mu sync.Mutex

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		count++
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	outbox := newTestOutbox(t)
	w := &Webhook{ID: "w1", URL: srv.URL, Event: FileUpdated}
	require.NoError(t, outbox.Enqueue("job_1", w, Payload{TimestampMs: time.Now().UnixMilli()}))

	d := NewDispatcher(srv.Client(), outbox, discardLogger())
	d.ReplayPending(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, count)

	pending, err := outbox.Pending()
	require.NoError(t, err)
	assert.Empty(t, pending)
}
