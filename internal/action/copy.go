package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// CopyFile copies a file into a destination folder. The source only
// requires View; the destination requires Upload/Edit/Manage (spec §4.6).
func (d *Dispatcher) CopyFile(src, dest Target, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	f, err := d.resolveFile(src)
	if err != nil {
		return nil, err
	}

	if !permission.Has(d.effective(permission.File(f.ID), actorID), permission.View) {
		return nil, forbidden("view this file")
	}

	df, err := d.resolveFolder(dest)
	if err != nil {
		return nil, err
	}

	if !canUpload(d.effective(permission.Folder(df.ID), actorID)) {
		return nil, forbidden("copy files into the destination folder")
	}

	copied, err := d.Dirs.CopyFile(f.ID, df.ID, conflict, d.Clock.NowMs(), actorID)
	if err != nil {
		return nil, err
	}

	return fileResult(copied, d.effective(permission.File(copied.ID), actorID)), nil
}

// CopyFolder copies a folder (recursively) into a destination folder.
// The source only requires View; the destination requires
// Upload/Edit/Manage.
func (d *Dispatcher) CopyFolder(src, dest Target, conflict directory.ConflictResolution, actorID string) (*Result, error) {
	f, err := d.resolveFolder(src)
	if err != nil {
		return nil, err
	}

	if !permission.Has(d.effective(permission.Folder(f.ID), actorID), permission.View) {
		return nil, forbidden("view this folder")
	}

	df, err := d.resolveFolder(dest)
	if err != nil {
		return nil, err
	}

	if !canUpload(d.effective(permission.Folder(df.ID), actorID)) {
		return nil, forbidden("copy folders into the destination folder")
	}

	copied, err := d.Dirs.CopyFolder(f.ID, df.ID, conflict, d.Clock.NowMs(), actorID)
	if err != nil {
		return nil, err
	}

	return folderResult(copied, d.effective(permission.Folder(copied.ID), actorID)), nil
}
