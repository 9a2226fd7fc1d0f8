package statediff

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// fakeStore is a minimal Provider: a single counter, so tests can verify
// forward/backward replay without any real engine store.
type fakeStore struct {
	Counter int
}

func (f *fakeStore) Snapshot() ([]byte, error) {
	return json.Marshal(f)
}

func (f *fakeStore) Restore(snapshot []byte) error {
	var decoded fakeStore
	if err := json.Unmarshal(snapshot, &decoded); err != nil {
		return err
	}

	*f = decoded

	return nil
}

type captureNotifier struct {
	records []*Record
}

func (c *captureNotifier) OnStateDiffCommitted(r *Record) {
	c.records = append(c.records, r)
}

func newTestChain(notifier Notifier) (*Chain, *ids.FixedClock) {
	clock := ids.NewFixedClock(1000)

	return NewChain(ids.NewRegistry(), clock, notifier), clock
}

func TestCommit_ChainsChecksumForward(t *testing.T) {
	notifier := &captureNotifier{}
	chain, _ := newTestChain(notifier)
	store := &fakeStore{Counter: 0}

	pre, err := chain.Prestate(store)
	require.NoError(t, err)

	store.Counter = 1

	r1, err := chain.Commit(store, pre, "increment")
	require.NoError(t, err)
	assert.Equal(t, genesisChecksum, r1.ParentChecksum)
	assert.Equal(t, r1.ForwardChecksum, chain.Checksum())

	pre2, err := chain.Prestate(store)
	require.NoError(t, err)
	store.Counter = 2

	r2, err := chain.Commit(store, pre2, "increment again")
	require.NoError(t, err)
	assert.Equal(t, r1.ForwardChecksum, r2.ParentChecksum)

	require.Len(t, notifier.records, 2)
}

func TestApplyDiffs_ForwardReplaysOntoFreshState(t *testing.T) {
	notifier := &captureNotifier{}
	chain, _ := newTestChain(notifier)
	origin := &fakeStore{}

	pre, _ := chain.Prestate(origin)
	origin.Counter = 1
	r1, err := chain.Commit(origin, pre, "")
	require.NoError(t, err)

	pre, _ = chain.Prestate(origin)
	origin.Counter = 2
	r2, err := chain.Commit(origin, pre, "")
	require.NoError(t, err)

	// A fresh replica starts at genesis under its own chain; a list whose
	// first diff is at or after the replica's position is replayed forward.
	replica := &fakeStore{}
	replicaChain, _ := newTestChain(nil)
	applied, lastID, err := replicaChain.ApplyDiffs(replica, []*Record{r1, r2}, r1.TimestampMs-1)
	require.NoError(t, err)
	assert.Equal(t, 2, applied)
	assert.Equal(t, r2.ID, lastID)
	assert.Equal(t, 2, replica.Counter)
}

func TestApplyDiffs_BackwardUndoesToOriginalState(t *testing.T) {
	notifier := &captureNotifier{}
	chain, _ := newTestChain(notifier)
	store := &fakeStore{}

	pre, _ := chain.Prestate(store)
	store.Counter = 1
	r1, err := chain.Commit(store, pre, "")
	require.NoError(t, err)

	// A list whose first diff precedes the chain's current timestamp is
	// undone.
	applied, lastID, err := chain.ApplyDiffs(store, []*Record{r1}, r1.TimestampMs+1)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, r1.ID, lastID)
	assert.Equal(t, 0, store.Counter)
}

func TestApplyDiffs_ChecksumMismatchRestoresAndFails(t *testing.T) {
	notifier := &captureNotifier{}
	chain, _ := newTestChain(notifier)
	store := &fakeStore{}

	pre, _ := chain.Prestate(store)
	store.Counter = 1
	r1, err := chain.Commit(store, pre, "")
	require.NoError(t, err)

	// Corrupt the parent checksum so the chain verification fails.
	tampered := *r1
	tampered.ParentChecksum = "not-the-real-parent"

	replica := &fakeStore{Counter: 99}
	applied, _, err := chain.ApplyDiffs(replica, []*Record{&tampered}, tampered.TimestampMs-1)
	require.Error(t, err)
	assert.Equal(t, 0, applied)
	assert.Equal(t, 99, replica.Counter, "state must be restored to its pre-attempt value")
}

func TestApplyDiffs_EmptyListIsNoop(t *testing.T) {
	chain, _ := newTestChain(nil)
	store := &fakeStore{Counter: 5}

	applied, lastID, err := chain.ApplyDiffs(store, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, applied)
	assert.Empty(t, lastID)
	assert.Equal(t, 5, store.Counter)
}
