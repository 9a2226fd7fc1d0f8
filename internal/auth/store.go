package auth

import (
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
)

// Store is the API-key table: a by-id map plus the value→id index spec
// §4.2's API-key lookup walks before validity is checked.
type Store struct {
	mu      gosync.Mutex
	byID    map[string]*ApiKey
	byValue map[string]string
}

// NewStore creates an empty API-key store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*ApiKey),
		byValue: make(map[string]string),
	}
}

// Insert adds or replaces an API key record and reindexes its value.
func (s *Store) Insert(k *ApiKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existingID, ok := s.byValue[k.Value]; ok && existingID != k.ID {
		return engineerr.Conflict("api key value already in use")
	}

	if old, ok := s.byID[k.ID]; ok {
		delete(s.byValue, old.Value)
	}

	s.byID[k.ID] = k
	s.byValue[k.Value] = k.ID

	return nil
}

// GetByID looks up an API key by its record ID.
func (s *Store) GetByID(id string) (*ApiKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("api key")
	}

	return k, nil
}

// GetByValue looks up an API key by its bearer value (spec §4.2's
// value→id index).
func (s *Store) GetByValue(value string) (*ApiKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byValue[value]
	if !ok {
		return nil, false
	}

	return s.byID[id], true
}

// Revoke flips is_revoked on an existing key.
func (s *Store) Revoke(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("api key")
	}

	k.IsRevoked = true

	return nil
}
