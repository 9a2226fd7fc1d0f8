package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

type noMembership struct{}

func (noMembership) IsMember(userID, groupID string) bool { return false }

type harness struct {
	registry *ids.Registry
	dirs     *directory.Store
	perms    *permission.DirectoryStore
	disp     *Dispatcher
	clock    *ids.FixedClock
}

func newHarness() *harness {
	registry := ids.NewRegistry()
	clock := ids.NewFixedClock(1000)
	dirs := directory.NewStore(registry, clock)
	perms := permission.NewDirectoryStore(registry, clock)

	return &harness{
		registry: registry,
		dirs:     dirs,
		perms:    perms,
		clock:    clock,
		disp: &Dispatcher{
			Dirs:       dirs,
			Perms:      perms,
			Membership: noMembership{},
			Clock:      clock,
		},
	}
}

func (h *harness) grant(resource permission.DirectoryResourceID, userID string, types ...permission.DirectoryPermissionType) {
	set := make(map[permission.DirectoryPermissionType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}

	h.perms.Insert(&permission.DirectoryPermission{
		ID:              h.registry.Mint(ids.PrefixDirectoryPermission),
		ResourceID:      resource,
		GrantedTo:       permission.User(userID),
		GrantedBy:       "UserID_owner",
		PermissionTypes: set,
		BeginDateMs:     0,
		ExpiryDateMs:    -1,
		Inheritable:     true,
	})
}

func TestGetFile_RequiresView(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	f, _, err := h.dirs.CreateFile(root.ID, "report.pdf", directory.FileMeta{}, directory.Replace, "UserID_owner")
	require.NoError(t, err)

	_, err = h.disp.GetFile(ByID(permission.File(f.ID)), "UserID_other")
	require.Error(t, err)
	assert.ErrorIs(t, err, engineerr.Forbidden(""))

	h.grant(permission.File(f.ID), "UserID_other", permission.View)

	res, err := h.disp.GetFile(ByID(permission.File(f.ID)), "UserID_other")
	require.NoError(t, err)
	assert.Equal(t, f.ID, res.File.ID)
}

func TestCreateFile_RequiresUploadOnParent(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	_, err = h.disp.CreateFile(ByID(permission.Folder(root.ID)), "a.txt", directory.FileMeta{}, directory.Replace, "UserID_other")
	require.Error(t, err)

	h.grant(permission.Folder(root.ID), "UserID_other", permission.Upload)

	res, err := h.disp.CreateFile(ByID(permission.Folder(root.ID)), "a.txt", directory.FileMeta{}, directory.Replace, "UserID_other")
	require.NoError(t, err)
	assert.Equal(t, "a.txt", res.File.Name)
}

func TestUpdateFolder_ForbidsRoot(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	_, err = h.disp.UpdateFolder(ByID(permission.Folder(root.ID)), FolderUpdate{}, "UserID_owner")
	require.Error(t, err)
}

func TestUpdateFile_CreatorShortCircuit(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	f, _, err := h.dirs.CreateFile(root.ID, "report.pdf", directory.FileMeta{}, directory.Replace, "UserID_creator")
	require.NoError(t, err)

	h.grant(permission.Folder(root.ID), "UserID_creator", permission.Upload)

	newName := "renamed.pdf"
	res, err := h.disp.UpdateFile(ByID(permission.File(f.ID)), FileUpdate{Name: &newName}, "UserID_creator")
	require.NoError(t, err)
	assert.Equal(t, newName, res.File.Name)
}

func TestMoveFolder_ForbidsMovingRoot(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	other, err := h.dirs.EnsureFolderStructure("disk1::/other/", "default", "drive1", "UserID_owner", directory.FinalFolderOpts{})
	require.NoError(t, err)

	_, err = h.disp.MoveFolder(ByID(permission.Folder(root.ID)), ByID(permission.Folder(other.ID)), directory.Replace, "UserID_owner")
	require.Error(t, err)
}

func TestRestoreTrash_RejectsWhenNotInTrash(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	f, _, err := h.dirs.CreateFile(root.ID, "report.pdf", directory.FileMeta{}, directory.Replace, "UserID_owner")
	require.NoError(t, err)

	_, err = h.disp.RestoreTrash(permission.File(f.ID), directory.RestorePayload{}, "UserID_owner")
	require.Error(t, err)
}

func TestRestoreTrash_CreatorWithUploadOnly(t *testing.T) {
	h := newHarness()
	root, err := h.dirs.EnsureRootFolder("disk1", "default", "drive1", "UserID_owner")
	require.NoError(t, err)

	f, _, err := h.dirs.CreateFile(root.ID, "report.pdf", directory.FileMeta{}, directory.Replace, "UserID_creator")
	require.NoError(t, err)

	_, err = h.dirs.DeleteFile(f.ID, false, "UserID_creator")
	require.NoError(t, err)

	h.grant(permission.File(f.ID), "UserID_creator", permission.Upload)

	res, err := h.disp.RestoreTrash(permission.File(f.ID), directory.RestorePayload{}, "UserID_creator")
	require.NoError(t, err)
	assert.Equal(t, root.ID, res.File.FolderID)
}
