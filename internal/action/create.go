package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// CreateFile inserts a file under parent, requiring Upload, Edit, or
// Manage on the parent folder (spec §4.6).
func (d *Dispatcher) CreateFile(parent Target, name string, meta directory.FileMeta, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	pf, err := d.resolveFolder(parent)
	if err != nil {
		return nil, err
	}

	parentPerms := d.effective(permission.Folder(pf.ID), actorID)
	if !canUpload(parentPerms) {
		return nil, forbidden("create files in this folder")
	}

	f, _, err := d.Dirs.CreateFile(pf.ID, name, meta, conflict, actorID)
	if err != nil {
		return nil, err
	}

	return fileResult(f, d.effective(permission.File(f.ID), actorID)), nil
}

// CreateFolder inserts a subfolder under parent, requiring Upload, Edit,
// or Manage on the parent folder.
func (d *Dispatcher) CreateFolder(parent Target, name string, opts directory.FinalFolderOpts, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	pf, err := d.resolveFolder(parent)
	if err != nil {
		return nil, err
	}

	parentPerms := d.effective(permission.Folder(pf.ID), actorID)
	if !canUpload(parentPerms) {
		return nil, forbidden("create folders in this folder")
	}

	f, _, err := d.Dirs.CreateFolder(pf.ID, name, opts, conflict, actorID)
	if err != nil {
		return nil, err
	}

	return folderResult(f, d.effective(permission.Folder(f.ID), actorID)), nil
}

func canUpload(perms map[permission.DirectoryPermissionType]struct{}) bool {
	return permission.Has(perms, permission.Upload) ||
		permission.Has(perms, permission.Edit) ||
		permission.Has(perms, permission.Manage)
}

func canEdit(perms map[permission.DirectoryPermissionType]struct{}) bool {
	return permission.Has(perms, permission.Edit) || permission.Has(perms, permission.Manage)
}

func canDelete(perms map[permission.DirectoryPermissionType]struct{}) bool {
	return permission.Has(perms, permission.Delete) || permission.Has(perms, permission.Manage)
}
