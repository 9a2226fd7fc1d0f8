package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// MoveFile relocates a file into a destination folder. The source is
// checked against the file itself (not its parent folder): the creator
// with Upload/Edit/Manage, or anyone with Edit/Manage; the destination
// requires Upload/Edit/Manage (spec §4.6).
func (d *Dispatcher) MoveFile(src, dest Target, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	f, err := d.resolveFile(src)
	if err != nil {
		return nil, err
	}

	sourcePerms := d.effective(permission.File(f.ID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(sourcePerms)
	if !isCreatorWithUpload && !canEdit(sourcePerms) {
		return nil, forbidden("move this file from its current location")
	}

	df, err := d.resolveFolder(dest)
	if err != nil {
		return nil, err
	}

	if !canUpload(d.effective(permission.Folder(df.ID), actorID)) {
		return nil, forbidden("move files to the destination folder")
	}

	moved, _, err := d.Dirs.MoveFile(f.ID, df.ID, conflict, actorID)
	if err != nil {
		return nil, err
	}

	return fileResult(moved, d.effective(permission.File(moved.ID), actorID)), nil
}

// MoveFolder relocates a folder into a destination folder. The root
// folder of a disk can never be moved.
func (d *Dispatcher) MoveFolder(src, dest Target, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	f, err := d.resolveFolder(src)
	if err != nil {
		return nil, err
	}

	if !f.HasParent {
		return nil, forbidden("move the root folder")
	}

	sourcePerms := d.effective(permission.Folder(f.ID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(sourcePerms)
	if !isCreatorWithUpload && !canEdit(sourcePerms) {
		return nil, forbidden("move this folder from its current location")
	}

	df, err := d.resolveFolder(dest)
	if err != nil {
		return nil, err
	}

	if !canUpload(d.effective(permission.Folder(df.ID), actorID)) {
		return nil, forbidden("move folders to the destination folder")
	}

	moved, _, err := d.Dirs.MoveFolder(f.ID, df.ID, conflict, actorID)
	if err != nil {
		return nil, err
	}

	return folderResult(moved, d.effective(permission.Folder(moved.ID), actorID)), nil
}
