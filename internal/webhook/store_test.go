package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/ids"
)

func newTestStore() *Store {
	return NewStore(ids.NewRegistry(), ids.NewFixedClock(1000))
}

func TestCreate_RejectsEmptyURLOrAltIndex(t *testing.T) {
	s := newTestStore()

	_, err := s.Create(FileUpdated, "folder_1", "", "sig", "n", "alice")
	require.Error(t, err)

	_, err = s.Create(FileUpdated, "", "https://example.com/hook", "sig", "n", "alice")
	require.Error(t, err)
}

func TestLookup_OnlyReturnsActive(t *testing.T) {
	s := newTestStore()

	w, err := s.Create(FileUpdated, "folder_1", "https://example.com/a", "", "a", "alice")
	require.NoError(t, err)

	got := s.lookup(FileUpdated, "folder_1")
	assert.Len(t, got, 1)

	require.NoError(t, s.SetActive(w.ID, false))
	assert.Empty(t, s.lookup(FileUpdated, "folder_1"))
}

func TestDelete_RemovesFromBothIndexes(t *testing.T) {
	s := newTestStore()

	w, err := s.Create(FolderDeleted, "folder_1", "https://example.com/a", "", "a", "alice")
	require.NoError(t, err)

	require.NoError(t, s.Delete(w.ID))

	_, err = s.Get(w.ID)
	require.Error(t, err)
	assert.Empty(t, s.lookup(FolderDeleted, "folder_1"))
}

func TestDelete_UnknownID(t *testing.T) {
	s := newTestStore()

	err := s.Delete("nonexistent")
	require.Error(t, err)
}

func TestMatchesInboxFilter(t *testing.T) {
	noFilter := &Webhook{}
	assert.True(t, noFilter.MatchesInboxFilter("", false))
	assert.False(t, noFilter.MatchesInboxFilter("billing", true))

	filtered := &Webhook{FilterTopic: "billing", HasFilterTopic: true}
	assert.False(t, filtered.MatchesInboxFilter("", false))
	assert.True(t, filtered.MatchesInboxFilter("billing", true))
	assert.False(t, filtered.MatchesInboxFilter("support", true))
}
