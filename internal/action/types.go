// Package action implements the Action Pipeline (spec §4.6): the
// resolve → fetch → authorize → mutate → preview sequence every directory
// mutation runs through, whatever HTTP verb or grpc-free RPC surface
// drives it.
package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// Target names a file or folder either by its minted ID or by a path the
// pipeline must translate — exactly one of the two is set (spec §4.6,
// step 1). A path ending in "/" resolves as a folder, otherwise a file;
// resolving against the wrong kind fails.
type Target struct {
	ResourceID *permission.DirectoryResourceID
	Path       string
}

// ByID builds a Target from an already-known resource ID.
func ByID(id permission.DirectoryResourceID) Target {
	return Target{ResourceID: &id}
}

// ByPath builds a Target from a raw path string.
func ByPath(path string) Target {
	return Target{Path: path}
}

// Result is what every pipeline operation returns on success (spec §4.6,
// step 5): the updated entity plus the caller's effective permissions on
// it, so a response body never needs a second round trip to explain what
// the caller is now allowed to do with what it just changed.
type Result struct {
	Folder  *directory.Folder
	File    *directory.File
	Preview map[permission.DirectoryPermissionType]struct{}
}

// FileUpdate carries UpdateFile's editable fields; a nil pointer or a nil
// Labels slice leaves the field untouched. Renames go through the
// dedicated Rename path inside UpdateFile, not a raw field assignment, so
// path indexes stay consistent.
type FileUpdate struct {
	Name      *string
	RawURL    *string
	ExpiryMs  *int64
	Labels    []string
	HasLabels bool
}

// FolderUpdate carries UpdateFolder's editable fields.
type FolderUpdate struct {
	Name     *string
	Notes    *string
	ExpiryMs *int64
}
