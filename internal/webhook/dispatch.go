package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Dispatcher posts event payloads to subscribed webhooks. Spec §4.8:
// deliveries fan out concurrently, a caller never sees a delivery's
// outcome, and a failed delivery is never retried. Dispatch itself
// returns only after every attempt has finished.
type Dispatcher struct {
	client *http.Client
	outbox *Outbox
	logger *slog.Logger
}

// NewDispatcher builds a Dispatcher. client may be nil to use a default
// 10-second-timeout client.
func NewDispatcher(client *http.Client, outbox *Outbox, logger *slog.Logger) *Dispatcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	return &Dispatcher{client: client, outbox: outbox, logger: logger}
}

// Dispatch fires payload at every webhook in targets concurrently. It
// returns once every attempt has completed (success or failure) — this
// is a convenience for tests and for the caller to know the outbox has
// drained, not a surfaced success/failure signal: spec §4.8 gives the
// caller no way to observe delivery outcome.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []*Webhook, before, after any, notes string) {
	if len(targets) == 0 {
		return
	}

	g, ctx := errgroup.WithContext(context.WithoutCancel(ctx))

	for _, w := range targets {
		w := w

		payload := Payload{
			Event:           w.Event,
			TimestampMs:     time.Now().UnixMilli(),
			Nonce:           uuid.NewString(),
			Notes:           notes,
			WebhookID:       w.ID,
			WebhookAltIndex: w.AltIndex,
			Payload:         Snapshots{Before: before, After: after},
		}

		jobID := uuid.NewString()

		if d.outbox != nil {
			if err := d.outbox.Enqueue(jobID, w, payload); err != nil {
				d.logger.Error("webhook outbox enqueue failed", "webhook_id", w.ID, "err", err)
			}
		}

		g.Go(func() error {
			d.attempt(ctx, w, payload)

			if d.outbox != nil {
				if err := d.outbox.Done(jobID); err != nil {
					d.logger.Error("webhook outbox cleanup failed", "webhook_id", w.ID, "err", err)
				}
			}

			return nil
		})
	}

	_ = g.Wait()
}

// attempt makes the single, non-retried delivery attempt for one
// webhook.
func (d *Dispatcher) attempt(ctx context.Context, w *Webhook, payload Payload) {
	body, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error("webhook payload marshal failed", "webhook_id", w.ID, "err", err)

		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		d.logger.Warn("webhook request build failed", "webhook_id", w.ID, "err", err)

		return
	}

	req.Header.Set("Content-Type", "application/json")

	if w.Signature != "" {
		req.Header.Set("signature", w.Signature)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Warn("webhook delivery failed", "webhook_id", w.ID, "url", w.URL, "err", err)

		return
	}

	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.logger.Warn("webhook delivery rejected", "webhook_id", w.ID, "url", w.URL, "status", resp.StatusCode)
	}
}

// ReplayPending re-attempts every job left in the outbox from before a
// crash. Call once at startup; each job still gets exactly one attempt.
func (d *Dispatcher) ReplayPending(ctx context.Context) {
	if d.outbox == nil {
		return
	}

	jobs, err := d.outbox.Pending()
	if err != nil {
		d.logger.Error("webhook outbox replay read failed", "err", err)

		return
	}

	for _, j := range jobs {
		w := j.Webhook
		d.attempt(ctx, &w, j.Payload)

		if err := d.outbox.Done(j.ID); err != nil {
			d.logger.Error("webhook outbox cleanup failed", "webhook_id", w.ID, "err", err)
		}
	}
}
