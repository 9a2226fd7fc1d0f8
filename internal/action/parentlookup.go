package action

import (
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
)

// Tree adapts a directory.Store to permission.ParentLookup, the same
// structural-typing trick group.MembershipAt uses to hand the permission
// engine a narrow view of a store it must not import directly.
type Tree struct {
	Dirs *directory.Store
}

// ParentOf satisfies permission.ParentLookup.
func (t Tree) ParentOf(resource permission.DirectoryResourceID) (permission.DirectoryResourceID, bool) {
	switch resource.Kind {
	case permission.ResourceFile:
		f, err := t.Dirs.GetFile(resource.ID)
		if err != nil {
			return permission.DirectoryResourceID{}, false
		}

		return permission.Folder(f.FolderID), true
	default:
		f, err := t.Dirs.GetFolder(resource.ID)
		if err != nil || !f.HasParent {
			return permission.DirectoryResourceID{}, false
		}

		return permission.Folder(f.ParentID), true
	}
}

// IsSovereign satisfies permission.ParentLookup. Only folders carry
// has_sovereign_permissions; a file is never itself a sovereign boundary.
func (t Tree) IsSovereign(resource permission.DirectoryResourceID) bool {
	if resource.Kind != permission.ResourceFolder {
		return false
	}

	f, err := t.Dirs.GetFolder(resource.ID)
	if err != nil {
		return false
	}

	return f.HasSovereignPermissions
}
