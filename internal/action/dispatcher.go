package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// Dispatcher runs the resolve → fetch → authorize → mutate → preview
// sequence (spec §4.6) over a single drive's directory tree and
// permission engine. It does not fire webhooks or append state-diff
// records itself — those wrap a Dispatcher call from the engine layer,
// which alone knows how to snapshot and restore every store.
type Dispatcher struct {
	Dirs       *directory.Store
	Perms      *permission.DirectoryStore
	Membership permission.MembershipChecker
	Clock      ids.Clock
}

func (d *Dispatcher) tree() Tree { return Tree{Dirs: d.Dirs} }

func (d *Dispatcher) effective(resource permission.DirectoryResourceID, actorID string) map[permission.DirectoryPermissionType]struct{} {
	return d.Perms.Effective(resource, permission.User(actorID), d.Clock.NowMs(), d.tree(), d.Membership)
}

// resolveFile translates a Target into a concrete File, enforcing step 1
// (exactly one of ResourceID/Path, path must not end in "/") and step 2
// (404 if absent) of spec §4.6.
func (d *Dispatcher) resolveFile(t Target) (*directory.File, error) {
	id, err := d.resolveFileID(t)
	if err != nil {
		return nil, err
	}

	f, err := d.Dirs.GetFile(id)
	if err != nil {
		return nil, engineerr.NotFound("file")
	}

	return f, nil
}

func (d *Dispatcher) resolveFileID(t Target) (string, error) {
	if t.ResourceID != nil {
		if t.ResourceID.Kind != permission.ResourceFile {
			return "", engineerr.Validation("resource_id", "expected a file ID but got a folder ID")
		}

		return t.ResourceID.ID, nil
	}

	if t.Path == "" {
		return "", engineerr.Validation("target", "neither resource_id nor resource_path provided")
	}

	if directory.IsFolderPath(t.Path) {
		return "", engineerr.Validation("resource_path", "path ends with / but a file was expected")
	}

	id, ok := d.Dirs.FileIDByPath(directory.SanitizeFullPath(t.Path))
	if !ok {
		return "", engineerr.NotFound("file")
	}

	return id, nil
}

func (d *Dispatcher) resolveFolder(t Target) (*directory.Folder, error) {
	id, err := d.resolveFolderID(t)
	if err != nil {
		return nil, err
	}

	f, err := d.Dirs.GetFolder(id)
	if err != nil {
		return nil, engineerr.NotFound("folder")
	}

	return f, nil
}

func (d *Dispatcher) resolveFolderID(t Target) (string, error) {
	if t.ResourceID != nil {
		if t.ResourceID.Kind != permission.ResourceFolder {
			return "", engineerr.Validation("resource_id", "expected a folder ID but got a file ID")
		}

		return t.ResourceID.ID, nil
	}

	if t.Path == "" {
		return "", engineerr.Validation("target", "neither resource_id nor resource_path provided")
	}

	if !directory.IsFolderPath(t.Path) {
		return "", engineerr.Validation("resource_path", "path does not end with / but a folder was expected")
	}

	id, ok := d.Dirs.FolderIDByPath(directory.SanitizeFullPath(t.Path) + "/")
	if !ok {
		return "", engineerr.NotFound("folder")
	}

	return id, nil
}

func fileResult(f *directory.File, preview map[permission.DirectoryPermissionType]struct{}) *Result {
	return &Result{File: f, Preview: preview}
}

func folderResult(f *directory.Folder, preview map[permission.DirectoryPermissionType]struct{}) *Result {
	return &Result{Folder: f, Preview: preview}
}

func forbidden(reason string) error {
	return engineerr.Forbidden("you don't have permission to " + reason)
}
