// Package live gives the teacher's github.com/coder/websocket dependency
// a home: a minimal real-time fan-out for Inbox notifications
// (webhook.OrganizationInboxNewNotif) delivered over a single upgraded
// connection per caller, hung off GET /organization/whoami the way
// SPEC_FULL.md's Domain Stack describes it. This is intentionally not a
// general HTTP routing layer — that stays out of scope per spec.md's
// Non-goals — just enough to exercise the dependency against a real
// caller-facing endpoint.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/OfficeXApp/drive-engine/internal/engine"
)

// writeTimeout bounds how long a single notification write may block a
// subscriber's connection before it is dropped.
const writeTimeout = 5 * time.Second

// Hub fans Inbox notifications out to every caller currently upgraded on
// /organization/whoami. One Hub per Engine.
type Hub struct {
	logger *slog.Logger

	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	userID string
	conn   *websocket.Conn
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}

	return &Hub{logger: logger, subs: make(map[*subscriber]struct{})}
}

// Broadcast delivers payload to every currently connected subscriber.
// Subscribers whose connection is no longer writable are dropped.
func (h *Hub) Broadcast(topic string, payload any) {
	msg, err := json.Marshal(struct {
		Topic   string `json:"topic"`
		Payload any    `json:"payload"`
	}{Topic: topic, Payload: payload})
	if err != nil {
		h.logger.Error("live: marshal broadcast", "topic", topic, "err", err)
		return
	}

	h.mu.Lock()
	targets := make([]*subscriber, 0, len(h.subs))
	for s := range h.subs {
		targets = append(targets, s)
	}
	h.mu.Unlock()

	for _, s := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := s.conn.Write(ctx, websocket.MessageText, msg)
		cancel()

		if err != nil {
			h.logger.Debug("live: dropping unwritable subscriber", "user_id", s.userID, "err", err)
			h.remove(s)
		}
	}
}

func (h *Hub) add(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subs[s] = struct{}{}
}

func (h *Hub) remove(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}

// isUpgradeRequest reports whether r is asking for a websocket upgrade,
// the same header check net/http's own reverse proxy uses before
// hijacking a connection.
func isUpgradeRequest(r *http.Request) bool {
	return strings.Contains(strings.ToLower(r.Header.Get("Connection")), "upgrade") &&
		strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}

// WhoamiHandler upgrades GET /organization/whoami to a websocket when the
// request asks for one (the Connection/Upgrade headers websocket.Accept
// checks), otherwise falls back to a plain JSON response carrying
// engine.WhoamiResult. userIDFromRequest resolves the caller's identity
// the same way the surrounding HTTP layer's auth middleware would
// (left as a parameter so this package never depends on internal/auth
// directly).
func WhoamiHandler(e *engine.Engine, hub *Hub, userIDFromRequest func(*http.Request) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}

		result := e.Whoami(userID)

		if !isUpgradeRequest(r) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(result)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			hub.logger.Warn("live: websocket accept failed", "user_id", userID, "err", err)
			return
		}

		sub := &subscriber{userID: userID, conn: conn}
		hub.add(sub)
		defer hub.remove(sub)

		writeCtx, cancel := context.WithTimeout(r.Context(), writeTimeout)
		initial, _ := json.Marshal(result)
		err = conn.Write(writeCtx, websocket.MessageText, initial)
		cancel()
		if err != nil {
			conn.Close(websocket.StatusInternalError, "initial write failed")
			return
		}

		// Block until the caller disconnects; reads are discarded since
		// this channel is fan-out only, not bidirectional.
		for {
			if _, _, err := conn.Read(r.Context()); err != nil {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
		}
	}
}
