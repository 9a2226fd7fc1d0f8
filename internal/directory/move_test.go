package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoveFolder_RejectsMoveIntoSelfOrDescendant(t *testing.T) {
	s := newTestStore()
	child, err := s.EnsureFolderStructure("disk1::/a/b/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	aID, ok := s.FolderIDByPath("disk1::/a/")
	require.True(t, ok)

	_, _, err = s.MoveFolder(aID, child.ID, KeepBoth, "alice")
	require.Error(t, err)

	_, _, err = s.MoveFolder(aID, aID, KeepBoth, "alice")
	require.Error(t, err)
}

func TestMoveFolder_PropagatesDiskToDescendants(t *testing.T) {
	s := newTestStore()
	src, err := s.EnsureFolderStructure("disk1::/src/", "BrowserCache", "drive1", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	child, err := s.EnsureFolderStructure("disk1::/src/child/", "BrowserCache", "drive1", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	dest, err := s.EnsureFolderStructure("disk2::/dest/", "CanisterCache", "drive2", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	moved, ok, err := s.MoveFolder(src.ID, dest.ID, KeepBoth, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "disk2", moved.DiskID)
	assert.Equal(t, "disk2::/dest/src/", moved.Path)

	movedChild, err := s.GetFolder(child.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk2", movedChild.DiskID)
	assert.Equal(t, "disk2::/dest/src/child/", movedChild.Path)
}

func TestMoveFolder_KeepBothSuffixesOnCollision(t *testing.T) {
	s := newTestStore()
	dest, err := s.EnsureFolderStructure("disk1::/dest/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	_, err = s.EnsureFolderStructure("disk1::/dest/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	src, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	moved, ok, err := s.MoveFolder(src.ID, dest.ID, KeepBoth, "alice")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "docs (2)", moved.Name)
}

func TestMoveFile_KeepOriginalNoOp(t *testing.T) {
	s := newTestStore()
	src, err := s.EnsureFolderStructure("disk1::/src/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	dest, err := s.EnsureFolderStructure("disk1::/dest/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	_, _, err = s.CreateFile(dest.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	file, _, err := s.CreateFile(src.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	result, moved, err := s.MoveFile(file.ID, dest.ID, KeepOriginal, "alice")
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "disk1::/src/a.txt", result.Path, "original file must stay put")
}

func TestCopyFolder_MintsFreshIDsForEntireSubtree(t *testing.T) {
	s := newTestStore()
	src, err := s.EnsureFolderStructure("disk1::/src/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	child, err := s.EnsureFolderStructure("disk1::/src/child/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	file, _, err := s.CreateFile(child.ID, "note.txt", FileMeta{Size: 42}, KeepBoth, "alice")
	require.NoError(t, err)

	dest, err := s.EnsureFolderStructure("disk1::/dest/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	copied, err := s.CopyFolder(src.ID, dest.ID, KeepBoth, 2000, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, copied.ID)
	assert.Equal(t, "disk1::/dest/src/", copied.Path)

	copiedChildID, ok := s.FolderIDByPath("disk1::/dest/src/child/")
	require.True(t, ok)
	assert.NotEqual(t, child.ID, copiedChildID)

	copiedFileID, ok := s.FileIDByPath("disk1::/dest/src/child/note.txt")
	require.True(t, ok)
	assert.NotEqual(t, file.ID, copiedFileID)

	copiedFile, err := s.GetFile(copiedFileID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), copiedFile.Size)

	original, err := s.GetFolder(src.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/src/", original.Path, "source subtree must be untouched by copy")
}

func TestCopyFolder_RejectsCopyIntoDescendant(t *testing.T) {
	s := newTestStore()
	src, err := s.EnsureFolderStructure("disk1::/src/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	child, err := s.EnsureFolderStructure("disk1::/src/child/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	_, err = s.CopyFolder(src.ID, child.ID, KeepBoth, 2000, "alice")
	require.Error(t, err)
}

func TestCopyFile_DuplicatesWithFreshID(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	src, _, err := s.CreateFile(root.ID, "a.txt", FileMeta{Size: 7}, KeepBoth, "alice")
	require.NoError(t, err)

	dest, err := s.EnsureFolderStructure("disk1::/dest/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	copied, err := s.CopyFile(src.ID, dest.ID, KeepBoth, 2000, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, copied.ID)
	assert.Equal(t, int64(7), copied.Size)
	assert.Equal(t, "disk1::/dest/a.txt", copied.Path)
}
