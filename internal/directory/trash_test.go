package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeleteFolder_MovesIntoTrashAndRecordsPriorParent(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)
	parentID := folder.ParentID

	trashPath, err := s.DeleteFolder(folder.ID, false, "alice")
	require.NoError(t, err)
	assert.Equal(t, "disk1::/.trash/docs/", trashPath)

	moved, err := s.GetFolder(folder.ID)
	require.NoError(t, err)
	assert.True(t, moved.HasRestoreTrashPrior)
	assert.Equal(t, parentID, moved.RestoreTrashPriorFolderUUID)
}

func TestDeleteFolder_RootCannotBeDeleted(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	_, err = s.DeleteFolder(root.ID, false, "alice")
	require.Error(t, err)
}

func TestDeleteFolder_PermanentRemovesSubtree(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	file, _, err := s.CreateFile(folder.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	_, err = s.DeleteFolder(folder.ID, true, "alice")
	require.NoError(t, err)

	_, err = s.GetFolder(folder.ID)
	require.Error(t, err)

	_, err = s.GetFile(file.ID)
	require.Error(t, err)

	_, ok := s.FolderIDByPath("disk1::/docs/")
	assert.False(t, ok)
}

func TestRestoreFolderFromTrash_RoundTrip(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)
	parentID := folder.ParentID

	_, err = s.DeleteFolder(folder.ID, false, "alice")
	require.NoError(t, err)

	require.NoError(t, s.RestoreFolderFromTrash(folder.ID, RestorePayload{}, "alice"))

	restored, err := s.GetFolder(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/docs/", restored.Path)
	assert.Equal(t, parentID, restored.ParentID)
	assert.False(t, restored.HasRestoreTrashPrior)
}

func TestRestoreFolderFromTrash_WithoutPriorFailsCleanly(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	err = s.RestoreFolderFromTrash(folder.ID, RestorePayload{}, "alice")
	require.Error(t, err)
}

func TestRestoreFolderFromTrash_OverridePath(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	_, err = s.DeleteFolder(folder.ID, false, "alice")
	require.NoError(t, err)

	require.NoError(t, s.RestoreFolderFromTrash(folder.ID, RestorePayload{OverridePath: "disk1::/elsewhere/", HasOverride: true}, "alice"))

	restored, err := s.GetFolder(folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/elsewhere/docs/", restored.Path)
}

func TestDeleteFile_RecordsPriorParentPath(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	file, _, err := s.CreateFile(folder.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	trashPath, err := s.DeleteFile(file.ID, false, "alice")
	require.NoError(t, err)
	assert.Equal(t, "disk1::/.trash/a.txt", trashPath)

	moved, err := s.GetFile(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/docs/", moved.RestoreTrashPriorFolderPath)
}

func TestRestoreFileFromTrash_RoundTrip(t *testing.T) {
	s := newTestStore()
	folder, err := s.EnsureFolderStructure("disk1::/docs/", "BrowserCache", "", "alice", FinalFolderOpts{})
	require.NoError(t, err)

	file, _, err := s.CreateFile(folder.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	_, err = s.DeleteFile(file.ID, false, "alice")
	require.NoError(t, err)

	require.NoError(t, s.RestoreFileFromTrash(file.ID, RestorePayload{}, "alice"))

	restored, err := s.GetFile(file.ID)
	require.NoError(t, err)
	assert.Equal(t, "disk1::/docs/a.txt", restored.Path)
	assert.False(t, restored.HasRestoreTrashPrior)
}

func TestDeleteFile_PermanentRemovesRecord(t *testing.T) {
	s := newTestStore()
	root, err := s.EnsureRootFolder("disk1", "BrowserCache", "", "alice")
	require.NoError(t, err)

	file, _, err := s.CreateFile(root.ID, "a.txt", FileMeta{}, KeepBoth, "alice")
	require.NoError(t, err)

	_, err = s.DeleteFile(file.ID, true, "alice")
	require.NoError(t, err)

	_, err = s.GetFile(file.ID)
	require.Error(t, err)

	_, ok := s.FileIDByPath("disk1::/a.txt")
	assert.False(t, ok)
}
