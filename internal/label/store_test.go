package label

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/ids"
)

func newTestStore() *Store {
	return NewStore(ids.NewRegistry(), ids.NewFixedClock(1000))
}

func TestCreate_RejectsInvalidValue(t *testing.T) {
	s := newTestStore()

	_, err := s.Create("Not Valid!", "#fff", "", "", "alice")
	require.Error(t, err)
}

func TestCreate_RejectsInvalidColor(t *testing.T) {
	s := newTestStore()

	_, err := s.Create("urgent", "blue", "", "", "alice")
	require.Error(t, err)
}

func TestCreate_RejectsDuplicateValue(t *testing.T) {
	s := newTestStore()

	_, err := s.Create("urgent", "#fff", "", "", "alice")
	require.NoError(t, err)

	_, err = s.Create("urgent", "#000", "", "", "alice")
	require.Error(t, err)
}

func TestAttachDetach_UpdatesResourceList(t *testing.T) {
	s := newTestStore()
	l, err := s.Create("urgent", "#fff", "", "", "alice")
	require.NoError(t, err)

	require.NoError(t, s.Attach(l.ID, "FileID_1"))
	require.NoError(t, s.Attach(l.ID, "FileID_1")) // idempotent

	got, err := s.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FileID_1"}, got.ResourceIDs)

	require.NoError(t, s.Detach(l.ID, "FileID_1"))
	got, err = s.Get(l.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ResourceIDs)
}

func TestRenameValue_ReturnsOldValueAndAttachedResources(t *testing.T) {
	s := newTestStore()
	l, err := s.Create("urgent", "#fff", "", "", "alice")
	require.NoError(t, err)
	require.NoError(t, s.Attach(l.ID, "FileID_1"))
	require.NoError(t, s.Attach(l.ID, "FileID_2"))

	oldValue, resourceIDs, err := s.RenameValue(l.ID, "critical")
	require.NoError(t, err)
	assert.Equal(t, "urgent", oldValue)
	assert.ElementsMatch(t, []string{"FileID_1", "FileID_2"}, resourceIDs)

	got, err := s.Get(l.ID)
	require.NoError(t, err)
	assert.Equal(t, "critical", got.Value)

	_, ok := s.GetByValue("urgent")
	assert.False(t, ok)
}

func TestRenameValue_RejectsCollidingValue(t *testing.T) {
	s := newTestStore()
	_, err := s.Create("urgent", "#fff", "", "", "alice")
	require.NoError(t, err)
	other, err := s.Create("later", "#000", "", "", "alice")
	require.NoError(t, err)

	_, _, err = s.RenameValue(other.ID, "urgent")
	require.Error(t, err)
}

func TestDelete_ReturnsAttachedResourcesForCascade(t *testing.T) {
	s := newTestStore()
	l, err := s.Create("urgent", "#fff", "", "", "alice")
	require.NoError(t, err)
	require.NoError(t, s.Attach(l.ID, "FileID_1"))

	resourceIDs, err := s.Delete(l.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FileID_1"}, resourceIDs)

	_, err = s.Get(l.ID)
	require.Error(t, err)
}

func TestRedacted_HidesPrivateNoteUnlessAuthorized(t *testing.T) {
	l := &Label{Value: "urgent", PrivateNote: "secret"}

	redacted := l.Redacted(false)
	assert.Empty(t, redacted.PrivateNote)
	assert.Equal(t, "secret", l.PrivateNote, "original must be unmodified")

	visible := l.Redacted(true)
	assert.Equal(t, "secret", visible.PrivateNote)
}
