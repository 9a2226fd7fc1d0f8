// Package testutil builds fully wired, disposable engine.Engine fixtures
// for tests across the module, the same role the teacher's testutil
// package played for its E2E harness — narrowed from "load OneDrive
// credentials from .env" down to "construct one drive's worth of state
// in memory" (SPEC_FULL.md Ambient Stack, "Test tooling").
package testutil

import (
	"net/http"
	"os"
	"testing"

	bolt "go.etcd.io/bbolt"

	"github.com/OfficeXApp/drive-engine/internal/engine"
	"github.com/OfficeXApp/drive-engine/internal/ids"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// DriveID and OwnerID are the fixed identifiers NewEngine fixtures use,
// so tests can assert against them without threading them through every
// call. StartTimeMs is an arbitrary fixed instant with no relationship
// to any real date.
const (
	DriveID     = "drivetest"
	OwnerID     = "owner_test"
	StartTimeMs = 1_700_000_000_000
)

// Fixture bundles a constructed Engine with the clock driving it, so a
// test can advance time deterministically between operations.
type Fixture struct {
	Engine *engine.Engine
	Clock  *ids.FixedClock
}

// NewEngine constructs a fully wired Engine backed by a bbolt outbox in
// a per-test temp file and no durable persist.Store — every commit lands in
// memory only, which is what an isolated unit test wants. t.Cleanup
// handles teardown so callers never have to.
func NewEngine(t *testing.T) *Fixture {
	t.Helper()

	clock := ids.NewFixedClock(StartTimeMs)
	registry := ids.NewRegistry()

	db, err := bolt.Open(tempBoltPath(t), 0o600, nil)
	if err != nil {
		t.Fatalf("testutil: open outbox db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	outbox, err := webhook.OpenOutbox(db)
	if err != nil {
		t.Fatalf("testutil: open outbox: %v", err)
	}

	e := engine.NewEngine(engine.Config{
		DriveID:    DriveID,
		OwnerID:    OwnerID,
		Registry:   registry,
		Clock:      clock,
		Outbox:     outbox,
		HTTPClient: http.DefaultClient,
	})

	return &Fixture{Engine: e, Clock: clock}
}

func tempBoltPath(t *testing.T) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "drive-engine-outbox-*.db")
	if err != nil {
		t.Fatalf("testutil: create temp outbox file: %v", err)
	}
	path := f.Name()
	f.Close()

	return path
}
