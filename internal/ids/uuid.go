package ids

import (
	"fmt"
	"regexp"
	"strings"
	gosync "sync"

	"github.com/google/uuid"
)

// Prefix identifies the record kind encoded in a minted ID's leading
// segment (spec §3, "Identifier discipline").
type Prefix string

// Record-kind prefixes, one per spec §3 identifier family.
const (
	PrefixFolder                      Prefix = "FolderID_"
	PrefixFile                        Prefix = "FileID_"
	PrefixUser                        Prefix = "UserID_"
	PrefixGroup                       Prefix = "GroupID_"
	PrefixDirectoryPermission         Prefix = "DirectoryPermissionID_"
	PrefixSystemPermission            Prefix = "SystemPermissionID_"
	PrefixLabel                       Prefix = "LabelID_"
	PrefixWebhook                     Prefix = "WebhookID_"
	PrefixGroupInvite                 Prefix = "GroupInviteID_"
	PrefixPlaceholderPermissionGrantee Prefix = "PlaceholderPermissionGranteeID_"
	PrefixPlaceholderGroupInvitee      Prefix = "PlaceholderGroupInviteeID_"
	PrefixApiKey                       Prefix = "ApiKeyID_"
	PrefixDriveStateDiff               Prefix = "DriveStateDiffID_"
	PrefixContact                      Prefix = "ContactID_"
)

// uuidV4Pattern matches the canonical 36-character UUIDv4 textual form.
var uuidV4Pattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

// ErrAlreadyClaimed is returned by Claim when the supplied ID has already
// been minted or externally claimed. See spec §4.1 and testable property 6.
var ErrAlreadyClaimed = fmt.Errorf("id already claimed")

// ErrMalformed is returned when an externally-supplied ID does not match
// prefix + UUIDv4.
var ErrMalformed = fmt.Errorf("id does not match prefix + uuidv4")

// Registry is the claimed-UUID set: an append-only record of every ID that
// has ever been minted or externally claimed within a drive. It is never
// garbage-collected (spec §5, "Shared resources").
type Registry struct {
	mu      gosync.Mutex
	claimed map[string]struct{}
}

// NewRegistry creates an empty claimed-UUID set.
func NewRegistry() *Registry {
	return &Registry{claimed: make(map[string]struct{})}
}

// Mint generates a new RFC-4122 v4 UUID body, prepends prefix, claims it,
// and returns the resulting ID. Minting can never collide with Claim's
// AlreadyClaimed error because uuid.New() draws fresh randomness, but the
// claim step still runs so the set stays authoritative.
func (r *Registry) Mint(prefix Prefix) string {
	id := string(prefix) + uuid.New().String()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.claimed[id] = struct{}{}

	return id
}

// Claim validates that id matches prefix+UUIDv4 and has not been claimed
// before, then adds it to the claimed set. Used when a caller supplies
// their own ID instead of letting the engine mint one.
func (r *Registry) Claim(prefix Prefix, id string) error {
	if !validatePrefixedUUID(prefix, id) {
		return fmt.Errorf("%w: %q", ErrMalformed, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.claimed[id]; ok {
		return fmt.Errorf("%w: %q", ErrAlreadyClaimed, id)
	}

	r.claimed[id] = struct{}{}

	return nil
}

// IsClaimed reports whether id is present in the claimed set.
func (r *Registry) IsClaimed(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.claimed[id]

	return ok
}

// Restore repopulates the claimed set from a previously persisted list,
// bypassing prefix validation since every id here was already accepted by
// a prior Mint or Claim call before it was written to durable storage.
// Used once at startup to replay the claimed-UUID set from the state-diff
// log (spec §4.1, "never garbage-collected" — a restart must not forget
// an ID just because the in-memory set was empty).
func (r *Registry) Restore(ids []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range ids {
		r.claimed[id] = struct{}{}
	}
}

// Size returns the number of claimed IDs. Exposed for diagnostics and tests.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.claimed)
}

func validatePrefixedUUID(prefix Prefix, id string) bool {
	body, ok := strings.CutPrefix(id, string(prefix))
	if !ok {
		return false
	}

	return uuidV4Pattern.MatchString(strings.ToLower(body))
}
