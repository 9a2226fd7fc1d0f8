package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// chainTree is a fixed, hand-built ancestry used to test the ancestor
// walk without depending on the directory package.
type chainTree struct {
	parent    map[string]string
	sovereign map[string]bool
}

func (c *chainTree) ParentOf(r permission.DirectoryResourceID) (permission.DirectoryResourceID, bool) {
	p, ok := c.parent[r.ID]
	if !ok {
		return permission.DirectoryResourceID{}, false
	}

	return permission.Folder(p), true
}

func (c *chainTree) IsSovereign(r permission.DirectoryResourceID) bool {
	return c.sovereign[r.ID]
}

// root(f1) -> f2 -> f3 (sovereign) -> f4 -> f5 (leaf)
func buildChain() *chainTree {
	return &chainTree{
		parent: map[string]string{
			"f2": "f1",
			"f3": "f2",
			"f4": "f3",
			"f5": "f4",
		},
		sovereign: map[string]bool{"f3": true},
	}
}

func TestResolveDirectory_StopsAtSovereignAncestorInclusive(t *testing.T) {
	s := newTestStore()
	tree := buildChain()

	for _, id := range []string{"f1", "f2", "f3", "f4", "f5"} {
		_, err := s.Create(FolderUpdated, id, "https://example.com/"+id, "", id, "alice")
		require.NoError(t, err)
	}

	got := s.ResolveDirectory(FolderUpdated, permission.Folder("f5"), tree)

	var altIndexes []string
	for _, w := range got {
		altIndexes = append(altIndexes, w.AltIndex)
	}

	assert.ElementsMatch(t, []string{"f5", "f4", "f3"}, altIndexes)
}

func TestResolveDirectory_CreatedEventBypassesWalk(t *testing.T) {
	s := newTestStore()
	tree := buildChain()

	_, err := s.Create(FolderCreated, ReservedSlugAll, "https://example.com/all", "", "all", "alice")
	require.NoError(t, err)

	_, err = s.Create(FolderCreated, "f5", "https://example.com/f5-only", "", "f5", "alice")
	require.NoError(t, err)

	got := s.ResolveDirectory(FolderCreated, permission.Folder("f5"), tree)
	require.Len(t, got, 1)
	assert.Equal(t, ReservedSlugAll, got[0].AltIndex)
}

func TestResolveDirectory_NoAncestorsBeyondRoot(t *testing.T) {
	s := newTestStore()
	tree := buildChain()

	_, err := s.Create(FolderUpdated, "f1", "https://example.com/f1", "", "f1", "alice")
	require.NoError(t, err)

	got := s.ResolveDirectory(FolderUpdated, permission.Folder("f1"), tree)
	require.Len(t, got, 1)
	assert.Equal(t, "f1", got[0].AltIndex)
}

func TestResolveInbox_FiltersByTopic(t *testing.T) {
	s := newTestStore()

	_, err := s.Create(OrganizationInboxNewNotif, "org_1", "https://example.com/any", "", "any", "alice")
	require.NoError(t, err)

	w2, err := s.Create(OrganizationInboxNewNotif, "org_1", "https://example.com/billing", "", "billing", "alice")
	require.NoError(t, err)
	w2.FilterTopic = "billing"
	w2.HasFilterTopic = true

	got := s.ResolveInbox("org_1", "billing", true)
	assert.Len(t, got, 1)

	got = s.ResolveInbox("org_1", "support", true)
	assert.Len(t, got, 0)
}
