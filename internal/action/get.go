package action

import "github.com/OfficeXApp/drive-engine/internal/permission"

// GetFile resolves and returns a file, requiring View on it directly
// (spec §4.6).
func (d *Dispatcher) GetFile(t Target, actorID string) (*Result, error) {
	f, err := d.resolveFile(t)
	if err != nil {
		return nil, err
	}

	preview := d.effective(permission.File(f.ID), actorID)
	if !permission.Has(preview, permission.View) {
		return nil, forbidden("view this file")
	}

	return fileResult(f, preview), nil
}

// GetFolder resolves and returns a folder, requiring View on it directly.
func (d *Dispatcher) GetFolder(t Target, actorID string) (*Result, error) {
	f, err := d.resolveFolder(t)
	if err != nil {
		return nil, err
	}

	preview := d.effective(permission.Folder(f.ID), actorID)
	if !permission.Has(preview, permission.View) {
		return nil, forbidden("view this folder")
	}

	return folderResult(f, preview), nil
}
