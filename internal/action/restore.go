package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// RestoreTrash reverses a prior DeleteFile/DeleteFolder, identified only
// by resource ID — no path resolution exists for a trashed item (spec
// §4.6). Unlike every other mutating action, the creator short-circuit
// here requires Upload alone, not Upload|Edit|Manage.
func (d *Dispatcher) RestoreTrash(resource permission.DirectoryResourceID, payload directory.RestorePayload, actorID string) (*Result, error) {
	if resource.Kind == permission.ResourceFolder {
		return d.restoreFolder(resource.ID, payload, actorID)
	}

	return d.restoreFile(resource.ID, payload, actorID)
}

func (d *Dispatcher) restoreFolder(id string, payload directory.RestorePayload, actorID string) (*Result, error) {
	f, err := d.Dirs.GetFolder(id)
	if err != nil {
		return nil, err
	}

	if !f.HasRestoreTrashPrior && !payload.HasOverride {
		return nil, engineerr.Validation("resource_id", "folder is not in trash")
	}

	perms := d.effective(permission.Folder(id), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && permission.Has(perms, permission.Upload)
	if !isCreatorWithUpload && !canEdit(perms) {
		return nil, forbidden("restore this folder")
	}

	if err := d.Dirs.RestoreFolderFromTrash(id, payload, actorID); err != nil {
		return nil, err
	}

	restored, err := d.Dirs.GetFolder(id)
	if err != nil {
		return nil, err
	}

	return folderResult(restored, d.effective(permission.Folder(id), actorID)), nil
}

func (d *Dispatcher) restoreFile(id string, payload directory.RestorePayload, actorID string) (*Result, error) {
	f, err := d.Dirs.GetFile(id)
	if err != nil {
		return nil, err
	}

	if !f.HasRestoreTrashPrior && !payload.HasOverride {
		return nil, engineerr.Validation("resource_id", "file is not in trash")
	}

	perms := d.effective(permission.File(id), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && permission.Has(perms, permission.Upload)
	if !isCreatorWithUpload && !canEdit(perms) {
		return nil, forbidden("restore this file")
	}

	if err := d.Dirs.RestoreFileFromTrash(id, payload, actorID); err != nil {
		return nil, err
	}

	restored, err := d.Dirs.GetFile(id)
	if err != nil {
		return nil, err
	}

	return fileResult(restored, d.effective(permission.File(id), actorID)), nil
}
