package contact

import (
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// Store holds every contact record for a drive, indexed by ID and by the
// user_id every permission grantee and API key ultimately names.
type Store struct {
	mu       gosync.Mutex
	byID     map[string]*Contact
	byUserID map[string]string
	registry *ids.Registry
	clock    ids.Clock
}

// NewStore creates an empty contact store.
func NewStore(registry *ids.Registry, clock ids.Clock) *Store {
	return &Store{
		byID:     make(map[string]*Contact),
		byUserID: make(map[string]string),
		registry: registry,
		clock:    clock,
	}
}

// Upsert creates or replaces a contact record, keyed by c.UserID when
// c.ID is empty.
func (s *Store) Upsert(c *Contact) *Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		if existingID, ok := s.byUserID[c.UserID]; ok {
			c.ID = existingID
		} else {
			c.ID = s.registry.Mint(ids.PrefixContact)
		}
	}

	if c.CreatedAt == 0 {
		c.CreatedAt = s.clock.NowMs()
	}

	s.byID[c.ID] = c
	s.byUserID[c.UserID] = c.ID

	return c
}

// Get looks up a contact by ID.
func (s *Store) Get(id string) (*Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("contact")
	}

	return c, nil
}

// GetByUserID looks up a contact by its user ID.
func (s *Store) GetByUserID(userID string) (*Contact, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUserID[userID]
	if !ok {
		return nil, false
	}

	return s.byID[id], true
}

// List returns every contact.
func (s *Store) List() []*Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Contact, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}

	return out
}

// Delete removes a contact record.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("contact")
	}

	delete(s.byID, id)
	delete(s.byUserID, c.UserID)

	return nil
}

// TouchLastOnline satisfies auth.LastOnlineRecorder: every successful
// authentication updates the contact's last_online_at (spec §4.2).
func (s *Store) TouchLastOnline(userID string, nowMs int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byUserID[userID]
	if !ok {
		return
	}

	s.byID[id].LastOnlineAt = nowMs
}
