package action

import "github.com/OfficeXApp/drive-engine/internal/permission"

// UpdateFile edits a file's metadata. Permission is checked against the
// parent folder, not the file itself: either the caller created the file
// and still holds Upload/Edit/Manage on the parent, or they hold
// Edit/Manage on the parent outright (spec §4.6).
func (d *Dispatcher) UpdateFile(t Target, patch FileUpdate, actorID string) (*Result, error) {
	f, err := d.resolveFile(t)
	if err != nil {
		return nil, err
	}

	parentPerms := d.effective(permission.Folder(f.FolderID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(parentPerms)
	if !isCreatorWithUpload && !canEdit(parentPerms) {
		return nil, forbidden("edit this file")
	}

	if patch.Name != nil && *patch.Name != f.Name {
		if err := d.Dirs.RenameFile(f.ID, *patch.Name, actorID); err != nil {
			return nil, err
		}
	}

	if patch.RawURL != nil {
		f.RawURL = *patch.RawURL
	}

	if patch.ExpiryMs != nil {
		f.ExpiryMs = *patch.ExpiryMs
	}

	if patch.HasLabels {
		f.Labels = patch.Labels
	}

	f.UpdatedBy = actorID
	f.UpdatedAt = d.Clock.NowMs()

	return fileResult(f, d.effective(permission.File(f.ID), actorID)), nil
}

// UpdateFolder edits a folder's metadata. The root folder of a disk can
// never be updated (spec §4.6). Permission is checked against the parent
// folder using the same creator-short-circuit pattern as UpdateFile.
func (d *Dispatcher) UpdateFolder(t Target, patch FolderUpdate, actorID string) (*Result, error) {
	f, err := d.resolveFolder(t)
	if err != nil {
		return nil, err
	}

	if !f.HasParent {
		return nil, forbidden("edit the root folder")
	}

	parentPerms := d.effective(permission.Folder(f.ParentID), actorID)

	isCreatorWithUpload := f.CreatedBy == actorID && canUpload(parentPerms)
	if !isCreatorWithUpload && !canEdit(parentPerms) {
		return nil, forbidden("edit this folder")
	}

	if patch.Name != nil && *patch.Name != f.Name {
		if err := d.Dirs.RenameFolder(f.ID, *patch.Name, actorID); err != nil {
			return nil, err
		}
	}

	if patch.Notes != nil {
		f.Notes = *patch.Notes
	}

	if patch.ExpiryMs != nil {
		f.ExpiryMs = *patch.ExpiryMs
	}

	f.LastUpdatedBy = actorID
	f.LastUpdatedAt = d.Clock.NowMs()

	return folderResult(f, d.effective(permission.Folder(f.ID), actorID)), nil
}
