package webhook

// Export captures every webhook subscription for the state-diff chain.
func (s *Store) Export() []*Webhook {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Webhook, 0, len(s.byID))
	for _, w := range s.byID {
		cp := *w
		out = append(out, &cp)
	}

	return out
}

// Import replaces the store's entire content with webhooks, rebuilding
// the (event, alt_index) index.
func (s *Store) Import(webhooks []*Webhook) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]*Webhook, len(webhooks))
	s.byKey = make(map[string][]string)

	for _, w := range webhooks {
		s.byID[w.ID] = w
		k := key(w.Event, w.AltIndex)
		s.byKey[k] = append(s.byKey[k], w.ID)
	}
}
