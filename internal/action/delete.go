package action

import "github.com/OfficeXApp/drive-engine/internal/permission"

// DeleteFile trashes or permanently deletes a file, respecting the
// creator short-circuit against the parent folder (spec §4.6).
func (d *Dispatcher) DeleteFile(t Target, permanent bool, actorID string) (*Result, error) {
	f, err := d.resolveFile(t)
	if err != nil {
		return nil, err
	}

	parentPerms := d.effective(permission.Folder(f.FolderID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(parentPerms)
	if !isCreatorWithUpload && !canDelete(parentPerms) {
		return nil, forbidden("delete this file")
	}

	if _, err := d.Dirs.DeleteFile(f.ID, permanent, actorID); err != nil {
		return nil, err
	}

	if permanent {
		return fileResult(f, nil), nil
	}

	f, err = d.Dirs.GetFile(f.ID)
	if err != nil {
		return nil, err
	}

	return fileResult(f, d.effective(permission.File(f.ID), actorID)), nil
}

// DeleteFolder trashes or permanently deletes a folder. The root folder
// of a disk can never be deleted.
func (d *Dispatcher) DeleteFolder(t Target, permanent bool, actorID string) (*Result, error) {
	f, err := d.resolveFolder(t)
	if err != nil {
		return nil, err
	}

	if !f.HasParent {
		return nil, forbidden("delete the root folder")
	}

	parentPerms := d.effective(permission.Folder(f.ParentID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(parentPerms)
	if !isCreatorWithUpload && !canDelete(parentPerms) {
		return nil, forbidden("delete this folder")
	}

	if _, err := d.Dirs.DeleteFolder(f.ID, permanent, actorID); err != nil {
		return nil, err
	}

	if permanent {
		return folderResult(f, nil), nil
	}

	f, err = d.Dirs.GetFolder(f.ID)
	if err != nil {
		return nil, err
	}

	return folderResult(f, d.effective(permission.Folder(f.ID), actorID)), nil
}
