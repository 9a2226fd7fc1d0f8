package webhook

import (
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// Store holds every webhook subscription for a drive, indexed by ID and
// by (event, alt_index) for resolution (spec §4.8, "Alt-index
// resolution").
type Store struct {
	mu       gosync.Mutex
	byID     map[string]*Webhook
	byKey    map[string][]string // event|alt_index -> webhook IDs
	registry *ids.Registry
	clock    ids.Clock
}

// NewStore creates an empty webhook store.
func NewStore(registry *ids.Registry, clock ids.Clock) *Store {
	return &Store{
		byID:     make(map[string]*Webhook),
		byKey:    make(map[string][]string),
		registry: registry,
		clock:    clock,
	}
}

func key(event Event, altIndex string) string {
	return string(event) + "|" + altIndex
}

// Create validates and inserts a new webhook subscription.
func (s *Store) Create(event Event, altIndex, url, signature, name string, createdBy string) (*Webhook, error) {
	if url == "" {
		return nil, engineerr.Validation("url", "must not be empty")
	}

	if altIndex == "" {
		return nil, engineerr.Validation("alt_index", "must not be empty")
	}

	now := s.clock.NowMs()

	w := &Webhook{
		ID:        s.registry.Mint(ids.PrefixWebhook),
		AltIndex:  altIndex,
		Event:     event,
		URL:       url,
		Signature: signature,
		Name:      name,
		Active:    true,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[w.ID] = w
	k := key(event, altIndex)
	s.byKey[k] = append(s.byKey[k], w.ID)

	return w, nil
}

// Get looks up a webhook by ID.
func (s *Store) Get(id string) (*Webhook, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("webhook")
	}

	return w, nil
}

// SetActive toggles a webhook's active flag without removing it.
func (s *Store) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("webhook")
	}

	w.Active = active
	w.UpdatedAt = s.clock.NowMs()

	return nil
}

// Delete removes a webhook subscription entirely.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("webhook")
	}

	delete(s.byID, id)

	k := key(w.Event, w.AltIndex)
	registered := s.byKey[k]

	for i, candidate := range registered {
		if candidate == id {
			s.byKey[k] = append(registered[:i], registered[i+1:]...)

			break
		}
	}

	return nil
}

// lookup returns every active webhook registered for (event, altIndex).
func (s *Store) lookup(event Event, altIndex string) []*Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*Webhook

	for _, id := range s.byKey[key(event, altIndex)] {
		if w, ok := s.byID[id]; ok && w.Active {
			out = append(out, w)
		}
	}

	return out
}
