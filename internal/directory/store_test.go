package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

func newTestStore() *Store {
	return NewStore(ids.NewRegistry(), ids.NewFixedClock(1000))
}

func TestEnsureRootFolder_CreatesRootAndTrash(t *testing.T) {
	s := newTestStore()

	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)
	assert.Equal(t, "disk1::/", root.Path)
	assert.False(t, root.HasParent)

	trashID, ok := s.FolderIDByPath(TrashRootPath("disk1"))
	require.True(t, ok)

	trash, err := s.GetFolder(trashID)
	require.NoError(t, err)
	assert.True(t, trash.HasSovereignPermissions)
}

func TestEnsureRootFolder_Idempotent(t *testing.T) {
	s := newTestStore()

	first, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	second, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "bob")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureFolderStructure_CreatesEveryMissingAncestor(t *testing.T) {
	s := newTestStore()

	leaf, err := s.EnsureFolderStructure("disk1::/a/b/c/", "BrowserCache", "", "alice", FinalFolderOpts{Notes: "leaf"})
	require.NoError(t, err)
	assert.Equal(t, "disk1::/a/b/c/", leaf.Path)
	assert.Equal(t, "leaf", leaf.Notes)

	aID, ok := s.FolderIDByPath("disk1::/a/")
	require.True(t, ok)
	a, err := s.GetFolder(aID)
	require.NoError(t, err)
	assert.Empty(t, a.Notes, "opts only apply to the final path component")

	bID, ok := s.FolderIDByPath("disk1::/a/b/")
	require.True(t, ok)
	_, err = s.GetFolder(bID)
	require.NoError(t, err)
}

func TestEnsureFolderStructure_ReturnsExistingWithoutDuplicating(t *testing.T) {
	s := newTestStore()

	first, err := s.EnsureFolderStructure("disk1::/a/b/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	second, err := s.EnsureFolderStructure("disk1::/a/b/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
}

func TestCreateFile_KeepBothSuffixesName(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	f1, created, err := s.CreateFile(root.ID, "report.pdf", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "report.pdf", f1.Name)

	f2, created, err := s.CreateFile(root.ID, "report.pdf", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, "report (2).pdf", f2.Name)
}

func TestCreateFile_KeepOriginalReturnsExistingUnchanged(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	original, created, err := s.CreateFile(root.ID, "report.pdf", FileMeta{Size: 10}, KeepBoth, "alice")
	require.NoError(t, err)
	require.True(t, created)

	again, created, err := s.CreateFile(root.ID, "report.pdf", FileMeta{Size: 99}, KeepOriginal, "alice")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, original.ID, again.ID)
	assert.Equal(t, int64(10), again.Size)
}

func TestRenameFolder_RewritesDescendantPaths(t *testing.T) {
	s := newTestStore()
	leaf, err := s.EnsureFolderStructure("disk1::/a/b/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	file, _, err := s.CreateFile(leaf.ID, "notes.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	aID, ok := s.FolderIDByPath("disk1::/a/")
	require.True(t, ok)

	require.NoError(t, s.RenameFolder(aID, "renamed", "alice"))

	movedLeaf, err := s.GetFolder(leaf.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/renamed/b/", movedLeaf.Path)

	movedFile, err := s.GetFile(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/renamed/b/notes.txt", movedFile.Path)

	_, ok = s.FolderIDByPath("disk1::/a/b/")
	assert.False(t, ok, "stale path must be removed from the index")
}

func TestRenameFolder_RootCannotBeRenamed(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	err = s.RenameFolder(root.ID, "new-name", "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, engineerr.Forbidden(""))
}

func TestRenameFile_RejectsCollidingName(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	_, _, err = s.CreateFile(root.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)
	b, _, err := s.CreateFile(root.ID, "b.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	err = s.RenameFile(b.ID, "a.txt", "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, engineerr.Conflict(""))
}
