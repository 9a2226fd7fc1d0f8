package search

import (
	gosync "sync"

	"golang.org/x/sync/singleflight"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// reindexWindowMs is spec §4.11's "one per 5 minutes unless force".
const reindexWindowMs = 5 * 60 * 1000

// Source produces the full set of Documents a reindex should replace the
// index with. Kept as a function type rather than an interface so the
// engine can pass a closure over whatever stores it owns without this
// package depending on any of them.
type Source func() []Document

// Index holds the current searchable document set and the
// rate-limiting state around rebuilding it.
type Index struct {
	mu            gosync.RWMutex
	docs          map[string]Document
	clock         ids.Clock
	lastReindexAt int64
	hasReindexed  bool
	group         singleflight.Group
}

// NewIndex creates an empty index.
func NewIndex(clock ids.Clock) *Index {
	return &Index{docs: make(map[string]Document), clock: clock}
}

// Upsert incrementally adds or replaces a single document — the normal
// path on every create/update, avoiding a full reindex per mutation.
func (idx *Index) Upsert(d Document) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.docs[d.ID] = d
}

// Remove drops a document from the index.
func (idx *Index) Remove(id string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	delete(idx.docs, id)
}

// Reindex rebuilds the entire index from source. Rate-limited to once
// per 5 minutes unless force is true; concurrent non-forced calls within
// the window collapse onto a single rebuild via singleflight rather than
// each independently hitting the rate limit.
func (idx *Index) Reindex(source Source, force bool) error {
	now := idx.clock.NowMs()

	idx.mu.RLock()
	sinceLast := now - idx.lastReindexAt
	hasRun := idx.hasReindexed
	idx.mu.RUnlock()

	if !force && hasRun && sinceLast < reindexWindowMs {
		return engineerr.Rate(int((reindexWindowMs - sinceLast) / 1000))
	}

	_, err, _ := idx.group.Do("reindex", func() (any, error) {
		docs := source()

		idx.mu.Lock()
		defer idx.mu.Unlock()

		rebuilt := make(map[string]Document, len(docs))
		for _, d := range docs {
			rebuilt[d.ID] = d
		}

		idx.docs = rebuilt
		idx.lastReindexAt = idx.clock.NowMs()
		idx.hasReindexed = true

		return nil, nil
	})

	return err
}

// snapshot returns a stable copy of the current document set for Search
// to scan without holding the lock across scoring.
func (idx *Index) snapshot() []Document {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]Document, 0, len(idx.docs))
	for _, d := range idx.docs {
		out = append(out, d)
	}

	return out
}
