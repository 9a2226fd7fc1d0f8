package webhook

import (
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// outboxBucket is the bbolt bucket a Outbox persists pending jobs under,
// so a crash between enqueue and dispatch is recoverable on restart.
var outboxBucket = []byte("webhook_outbox")

// job is what Outbox persists: everything dispatch needs to replay a
// delivery without going back to the stores that produced it.
type job struct {
	ID      string  `json:"id"`
	Webhook Webhook `json:"webhook"`
	Payload Payload `json:"payload"`
}

// Outbox durably records a webhook delivery the instant it is decided,
// so a crash between "decided to dispatch" and "HTTP request sent" does
// not silently drop it. Spec §4.8 never retries a failed delivery, so
// Outbox gives crash recovery only for jobs that crashed before the
// first (and only) attempt — a job is removed as soon as an attempt is
// made, success or failure alike.
type Outbox struct {
	db *bolt.DB
}

// OpenOutbox opens (creating if absent) the outbox bucket in db.
func OpenOutbox(db *bolt.DB) (*Outbox, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(outboxBucket)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("open webhook outbox: %w", err)
	}

	return &Outbox{db: db}, nil
}

// Enqueue persists a pending delivery before it is attempted.
func (o *Outbox) Enqueue(id string, w *Webhook, p Payload) error {
	j := job{ID: id, Webhook: *w, Payload: p}

	contents, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("marshal webhook job: %w", err)
	}

	return o.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(outboxBucket).Put([]byte(id), contents)
	})
}

// Done removes a job once an attempt — successful or not — has been
// made. Spec §4.8 has no retry path, so there is no distinction between
// a succeeded and a failed attempt here.
func (o *Outbox) Done(id string) error {
	return o.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(outboxBucket).Delete([]byte(id))
	})
}

// Pending returns every job left over from a prior crash: enqueued but
// never attempted. Call once at startup, before serving new requests.
func (o *Outbox) Pending() ([]job, error) {
	var jobs []job

	err := o.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(outboxBucket)
		if b == nil {
			return nil
		}

		return b.ForEach(func(key, val []byte) error {
			var j job

			if err := json.Unmarshal(val, &j); err != nil {
				return err
			}

			jobs = append(jobs, j)

			return nil
		})
	})

	return jobs, err
}
