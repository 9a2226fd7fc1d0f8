package statediff

import (
	"crypto/sha256"
	"encoding/hex"
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// genesisChecksum is the chain's checksum before any diff has ever been
// recorded.
const genesisChecksum = "genesis"

// Provider is the full mutable state a Chain snapshots and restores. The
// engine's aggregate store implements this by marshaling/unmarshaling
// every store it owns (directory, permission, group, label, webhook);
// statediff itself has no dependency on any of them, the same decoupling
// idiom as permission.ParentLookup and auth.LastOnlineRecorder.
type Provider interface {
	// Snapshot returns an opaque, self-contained serialization of the
	// current state.
	Snapshot() ([]byte, error)
	// Restore replaces the current state wholesale with a snapshot
	// previously returned by Snapshot.
	Restore(snapshot []byte) error
}

// Notifier is told about every committed Record so a caller can fire the
// DriveStateDiffs webhook (spec §4.9, "A DriveStateDiffs webhook fires
// after every snapshot_poststate"). Kept narrow so this package never
// depends on internal/webhook.
type Notifier interface {
	OnStateDiffCommitted(r *Record)
}

// Chain is the checksum-chained, append-only log of state-diff records
// for one drive (spec §4.9, §5 "Checksum chain").
type Chain struct {
	mu       gosync.Mutex
	checksum string
	records  []*Record
	byID     map[string]*Record
	registry *ids.Registry
	clock    ids.Clock
	notifier Notifier
}

// NewChain creates an empty chain at the genesis checksum.
func NewChain(registry *ids.Registry, clock ids.Clock, notifier Notifier) *Chain {
	return &Chain{
		checksum: genesisChecksum,
		byID:     make(map[string]*Record),
		registry: registry,
		clock:    clock,
		notifier: notifier,
	}
}

// Checksum returns the chain's current checksum.
func (c *Chain) Checksum() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.checksum
}

func checksumOf(parent string, diff []byte) string {
	h := sha256.New()
	h.Write([]byte(parent))
	h.Write(diff)

	return hex.EncodeToString(h.Sum(nil))
}

// Prestate snapshots provider before a mutation begins. Call this first,
// hold the result, run the mutation, then call Commit.
func (c *Chain) Prestate(provider Provider) ([]byte, error) {
	return provider.Snapshot()
}

// Commit snapshots provider's poststate, computes the forward/backward
// diff and the new chain checksum, appends a Record, and notifies the
// registered Notifier (spec §4.9, snapshot_poststate). pre must be the
// byte slice Prestate returned immediately before the mutation ran.
func (c *Chain) Commit(provider Provider, pre []byte, notes string) (*Record, error) {
	post, err := provider.Snapshot()
	if err != nil {
		return nil, engineerr.Internal("snapshot poststate", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	parent := c.checksum
	forward := checksumOf(parent, post)

	r := &Record{
		ID:               c.registry.Mint(ids.PrefixDriveStateDiff),
		TimestampMs:      c.clock.NowMs(),
		Implementation:   GoDriveEngine,
		Notes:            notes,
		DiffForward:      post,
		DiffBackward:     pre,
		ParentChecksum:   parent,
		ForwardChecksum:  forward,
		BackwardChecksum: parent,
	}

	c.records = append(c.records, r)
	c.byID[r.ID] = r
	c.checksum = forward

	if c.notifier != nil {
		c.notifier.OnStateDiffCommitted(r)
	}

	return r, nil
}

// Seed repopulates the in-memory chain from a durably persisted record
// list (oldest first) without touching provider — the caller is expected
// to have already restored provider to records[len-1].DiffForward (or
// left it at genesis if records is empty) before calling this. Used once
// at startup to make a freshly constructed Chain resume exactly where a
// prior process left off (spec §4.9, "the checksum chain is durable
// across restarts").
func (c *Chain) Seed(records []*Record) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = append([]*Record(nil), records...)
	c.byID = make(map[string]*Record, len(records))

	c.checksum = genesisChecksum
	for _, r := range records {
		c.byID[r.ID] = r
		c.checksum = r.ForwardChecksum
	}
}

// Records returns every diff recorded so far, oldest first. Exposed for
// replay tooling and tests; callers must not mutate the returned slice.
func (c *Chain) Records() []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Record, len(c.records))
	copy(out, c.records)

	return out
}

// direction implements spec §4.9's "determines direction from the first
// diff's timestamp versus the current timestamp": a list whose first
// diff is at or after where the chain currently stands is being
// replayed forward (advancing state); a list whose first diff precedes
// the chain's current position is being undone.
func direction(list []*Record, currentTimestampMs int64) Direction {
	if list[0].TimestampMs >= currentTimestampMs {
		return Forward
	}

	return Backward
}

// ApplyDiffs implements safely_apply_diffs: verifies the checksum chain
// across list in replay order, applies all-or-nothing (restoring the
// pre-attempt snapshot on any failure), and returns how many diffs were
// applied and the ID of the last one (spec §4.9).
func (c *Chain) ApplyDiffs(provider Provider, list []*Record, currentTimestampMs int64) (int, string, error) {
	if len(list) == 0 {
		return 0, "", nil
	}

	dir := direction(list, currentTimestampMs)

	ordered := make([]*Record, len(list))
	copy(ordered, list)

	if dir == Backward {
		for i, j := 0, len(ordered)-1; i < j; i, j = i+1, j-1 {
			ordered[i], ordered[j] = ordered[j], ordered[i]
		}
	}

	backup, err := provider.Snapshot()
	if err != nil {
		return 0, "", engineerr.Internal("snapshot before apply", err)
	}

	c.mu.Lock()
	startChecksum := c.checksum
	c.mu.Unlock()

	current := startChecksum
	applied := 0
	lastID := ""

	for _, r := range ordered {
		var expectedParent string
		var diffBytes []byte
		var nextChecksum string

		if dir == Forward {
			expectedParent = r.ParentChecksum
			diffBytes = r.DiffForward
			nextChecksum = r.ForwardChecksum
		} else {
			expectedParent = r.ForwardChecksum
			diffBytes = r.DiffBackward
			nextChecksum = r.BackwardChecksum
		}

		if current != expectedParent {
			_ = provider.Restore(backup)

			return 0, "", engineerr.Conflict("state diff parent checksum mismatch")
		}

		if err := provider.Restore(diffBytes); err != nil {
			_ = provider.Restore(backup)

			return 0, "", engineerr.Internal("apply state diff", err)
		}

		current = nextChecksum
		applied++
		lastID = r.ID
	}

	c.mu.Lock()
	c.checksum = current
	c.mu.Unlock()

	return applied, lastID, nil
}
