package label

import (
	"sort"
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// Store holds every label record for a drive, keyed by ID, plus a
// value→id index so duplicate label values can be rejected at create time.
type Store struct {
	mu       gosync.Mutex
	byID     map[string]*Label
	byValue  map[string]string
	order    []string // creation order, for List's unpinned tail
	registry *ids.Registry
	clock    ids.Clock
}

// NewStore creates an empty label store.
func NewStore(registry *ids.Registry, clock ids.Clock) *Store {
	return &Store{
		byID:     make(map[string]*Label),
		byValue:  make(map[string]string),
		registry: registry,
		clock:    clock,
	}
}

// Create validates value and colour, then inserts a new label record.
func (s *Store) Create(value, color, publicNote, privateNote, createdBy string) (*Label, error) {
	if !ValidateValue(value) {
		return nil, engineerr.Validation("value", "must be lowercase alphanumeric plus '-'/'_' and at most 64 characters")
	}

	if !ValidateColor(color) {
		return nil, engineerr.Validation("color", "must be #RGB or #RRGGBB")
	}

	now := s.clock.NowMs()

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byValue[value]; exists {
		return nil, engineerr.Conflict("a label with that value already exists")
	}

	l := &Label{
		ID:            s.registry.Mint(ids.PrefixLabel),
		Value:         value,
		Color:         color,
		PublicNote:    publicNote,
		PrivateNote:   privateNote,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	s.byID[l.ID] = l
	s.byValue[value] = l.ID
	s.order = append(s.order, l.ID)

	return l, nil
}

// Get looks up a label by ID.
func (s *Store) Get(id string) (*Label, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("label")
	}

	return l, nil
}

// GetByValue looks up a label by its string value.
func (s *Store) GetByValue(value string) (*Label, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byValue[value]
	if !ok {
		return nil, false
	}

	return s.byID[id], true
}

// List returns every label with pinned labels first (most recently pinned
// ahead of earlier pins), followed by unpinned labels in creation order
// (spec §4.7, "Label pinning": a pinned label moves to the front of
// listing order).
func (s *Store) List() []*Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	pinned := make([]*Label, 0)
	unpinned := make([]*Label, 0, len(s.order))

	for _, id := range s.order {
		l, ok := s.byID[id]
		if !ok {
			continue
		}

		if l.PinnedAt > 0 {
			pinned = append(pinned, l)
		} else {
			unpinned = append(unpinned, l)
		}
	}

	sort.SliceStable(pinned, func(i, j int) bool {
		return pinned[i].PinnedAt > pinned[j].PinnedAt
	})

	return append(pinned, unpinned...)
}

// Pin sets or clears a label's pinned state (spec §4.7, "Label pinning").
// Pinning an already-pinned label re-dates it to the front; unpinning a
// label that was never pinned is a no-op.
func (s *Store) Pin(labelID string, pinned bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[labelID]
	if !ok {
		return engineerr.NotFound("label")
	}

	if pinned {
		l.PinnedAt = s.clock.NowMs()
	} else {
		l.PinnedAt = 0
	}

	return nil
}

// Attach records that resourceID now carries this label's value (spec
// §4.7, "updates both the label's resources list and the resource's
// labels list" — the resource-side half is the caller's responsibility).
func (s *Store) Attach(labelID, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[labelID]
	if !ok {
		return engineerr.NotFound("label")
	}

	for _, id := range l.ResourceIDs {
		if id == resourceID {
			return nil
		}
	}

	l.ResourceIDs = append(l.ResourceIDs, resourceID)
	l.LastUpdatedAt = s.clock.NowMs()

	return nil
}

// Detach removes resourceID from the label's attached-resource list.
func (s *Store) Detach(labelID, resourceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[labelID]
	if !ok {
		return engineerr.NotFound("label")
	}

	filtered := l.ResourceIDs[:0]

	for _, id := range l.ResourceIDs {
		if id != resourceID {
			filtered = append(filtered, id)
		}
	}

	l.ResourceIDs = filtered
	l.LastUpdatedAt = s.clock.NowMs()

	return nil
}

// RenameValue validates and applies a new string value to the label,
// returning the old value so the caller can cascade the rewrite across
// every attached resource (spec §4.7, `update_label_string_value`) and
// the set of resource IDs that must be rewritten.
func (s *Store) RenameValue(labelID, newValue string) (oldValue string, resourceIDs []string, err error) {
	if !ValidateValue(newValue) {
		return "", nil, engineerr.Validation("value", "must be lowercase alphanumeric plus '-'/'_' and at most 64 characters")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[labelID]
	if !ok {
		return "", nil, engineerr.NotFound("label")
	}

	if existingID, exists := s.byValue[newValue]; exists && existingID != labelID {
		return "", nil, engineerr.Conflict("a label with that value already exists")
	}

	oldValue = l.Value
	delete(s.byValue, oldValue)
	l.Value = newValue
	l.LastUpdatedAt = s.clock.NowMs()
	s.byValue[newValue] = labelID

	return oldValue, append([]string{}, l.ResourceIDs...), nil
}

// Delete removes the label record and returns the resource IDs it was
// attached to, so the caller can cascade removal (spec §4.7, "Deleting a
// label removes it from every attached resource").
func (s *Store) Delete(labelID string) (resourceIDs []string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.byID[labelID]
	if !ok {
		return nil, engineerr.NotFound("label")
	}

	delete(s.byValue, l.Value)
	delete(s.byID, labelID)

	for i, id := range s.order {
		if id == labelID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}

	return l.ResourceIDs, nil
}
