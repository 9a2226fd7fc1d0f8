package contact

// Export captures every contact for the state-diff chain.
func (s *Store) Export() []*Contact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Contact, 0, len(s.byID))
	for _, c := range s.byID {
		cp := *c
		out = append(out, &cp)
	}

	return out
}

// Import replaces the store's entire content with contacts, rebuilding
// the user_id index.
func (s *Store) Import(contacts []*Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*Contact, len(contacts))
	s.byUserID = make(map[string]string, len(contacts))

	for _, c := range contacts {
		s.byID[c.ID] = c
		s.byUserID[c.UserID] = c.ID
	}
}
