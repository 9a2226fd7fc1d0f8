// Package statediff implements State Diff & Replay (spec §4.9): every
// externally-observable mutation brackets itself with a prestate and a
// poststate snapshot, producing a checksum-chained, directionally
// replayable diff record.
package statediff

// Direction is which way a diff list is being replayed.
type Direction int

const (
	// Forward advances state from a diff's parent checksum to its
	// forward checksum.
	Forward Direction = iota
	// Backward restores state from a diff's forward checksum back to
	// its parent checksum.
	Backward
)

// Implementation identifies which engine produced a diff record, carried
// through for cross-implementation replay tooling (spec §4.9 payload
// shape; original_source always stamps "RustIcpCanister" here).
type Implementation string

// GoDriveEngine is this engine's implementation stamp.
const GoDriveEngine Implementation = "GoDriveEngine"

// Record is one entry in the checksum chain: the forward and backward
// diffs bracketing a single mutation, plus the three checksums needed to
// verify and replay it (spec §4.9).
type Record struct {
	ID             string
	TimestampMs    int64
	Implementation Implementation
	Notes          string

	// DiffForward, applied to a state whose checksum equals
	// ParentChecksum, produces the poststate; DiffBackward reverses it.
	// Each is the full JSON snapshot of the target state rather than a
	// minimal field-level patch (see DESIGN.md — no generic JSON-patch
	// library exists anywhere in the dependency pool this engine draws
	// from, and the spec's observable contract, the checksum chain,
	// all-or-nothing replay, webhook firing, does not depend on diff
	// granularity).
	DiffForward  []byte
	DiffBackward []byte

	ParentChecksum  string
	ForwardChecksum string
	// BackwardChecksum always equals ParentChecksum: backward-applying
	// this diff restores the chain to exactly the state it was in
	// before this diff was recorded.
	BackwardChecksum string
}
