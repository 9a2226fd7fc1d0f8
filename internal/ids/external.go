package ids

import gosync "sync"

// ExternalIDMap is the bidirectional multi-map between caller-supplied
// ExternalIDs and internal record IDs (spec §3, "External-ID mapping").
// One external ID may map to several internal IDs (e.g. import batches
// reusing the same external key across multiple resource kinds); one
// internal ID maps to at most one external ID.
type ExternalIDMap struct {
	mu            gosync.Mutex
	externalToIDs map[string]map[string]struct{}
	idToExternal  map[string]string
}

// NewExternalIDMap creates an empty mapping.
func NewExternalIDMap() *ExternalIDMap {
	return &ExternalIDMap{
		externalToIDs: make(map[string]map[string]struct{}),
		idToExternal:  make(map[string]string),
	}
}

// Update idempotently maintains the bidirectional index (spec §4.1).
//
//   - oldExternal != "" removes the (oldExternal, internalID) association.
//   - newExternal != "" adds the (newExternal, internalID) association.
//
// Passing both lets callers move an internal ID's external key in one call.
func (m *ExternalIDMap) Update(oldExternal, newExternal, internalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if oldExternal != "" {
		m.removeLocked(oldExternal, internalID)
	}

	if newExternal != "" {
		if m.externalToIDs[newExternal] == nil {
			m.externalToIDs[newExternal] = make(map[string]struct{})
		}

		m.externalToIDs[newExternal][internalID] = struct{}{}
		m.idToExternal[internalID] = newExternal
	}
}

// DeleteInternal removes internalID and its external-ID row entirely, in
// both directions. Called when the owning record is destroyed.
func (m *ExternalIDMap) DeleteInternal(internalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ext, ok := m.idToExternal[internalID]
	if !ok {
		return
	}

	m.removeLocked(ext, internalID)
}

func (m *ExternalIDMap) removeLocked(external, internalID string) {
	delete(m.idToExternal, internalID)

	set, ok := m.externalToIDs[external]
	if !ok {
		return
	}

	delete(set, internalID)

	if len(set) == 0 {
		delete(m.externalToIDs, external)
	}
}

// LookupByExternal returns the internal IDs registered under external,
// in no particular order.
func (m *ExternalIDMap) LookupByExternal(external string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.externalToIDs[external]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}

	return out
}

// LookupByInternal returns the external ID registered for internalID, if any.
func (m *ExternalIDMap) LookupByInternal(internalID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ext, ok := m.idToExternal[internalID]

	return ext, ok
}
