package auth

// Export captures every API key for the state-diff chain.
func (s *Store) Export() []*ApiKey {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*ApiKey, 0, len(s.byID))
	for _, k := range s.byID {
		cp := *k
		out = append(out, &cp)
	}

	return out
}

// Import replaces the store's entire content with keys, rebuilding the
// value→id index.
func (s *Store) Import(keys []*ApiKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*ApiKey, len(keys))
	s.byValue = make(map[string]string, len(keys))

	for _, k := range keys {
		s.byID[k.ID] = k
		s.byValue[k.Value] = k.ID
	}
}
