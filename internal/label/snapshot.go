package label

// Export captures every label, in creation order, for the state-diff chain.
func (s *Store) Export() []*Label {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Label, 0, len(s.order))
	for _, id := range s.order {
		cp := *s.byID[id]
		out = append(out, &cp)
	}

	return out
}

// Import replaces the store's entire content with labels (in the given
// order), rebuilding the value→id index.
func (s *Store) Import(labels []*Label) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*Label, len(labels))
	s.byValue = make(map[string]string, len(labels))
	s.order = make([]string, 0, len(labels))

	for _, l := range labels {
		s.byID[l.ID] = l
		s.byValue[l.Value] = l.ID
		s.order = append(s.order, l.ID)
	}
}
