// Package directory implements the Directory Store (spec §4.3): the
// folder/file tree with path↔UUID bidirectional indexing, trash semantics,
// move/copy/rename with path propagation, and conflict resolution.
package directory

// Folder is the record described in spec §3, "Folder record".
type Folder struct {
	ID                          string
	Name                        string
	ParentID                    string // empty for a disk root
	HasParent                   bool
	SubfolderIDs                []string
	FileIDs                     []string
	Path                        string // "<disk>::/segments.../"
	DiskID                      string
	DiskType                    string
	CreatedBy                   string
	CreatedAt                   int64
	LastUpdatedBy               string
	LastUpdatedAt               int64
	Deleted                     bool
	DriveID                     string
	ExpiryMs                    int64 // -1 never
	HasSovereignPermissions     bool
	ShortcutTo                  string
	HasShortcut                 bool
	ExternalID                  string
	ExternalPayload             string
	Notes                       string
	RestoreTrashPriorFolderUUID string
	HasRestoreTrashPrior        bool
}

// File is the record described in spec §3, "File record".
type File struct {
	ID                          string
	Name                        string
	FolderID                    string
	Path                        string // ends without a trailing slash
	DiskID                      string
	DiskType                    string
	Size                        int64
	RawURL                      string
	Extension                   string
	ExpiryMs                    int64
	CreatedBy                   string
	CreatedAt                   int64
	UpdatedBy                   string
	UpdatedAt                   int64
	Labels                      []string
	ExternalID                  string
	ExternalPayload             string
	CanisterID                  string
	RestoreTrashPriorFolderPath string
	HasRestoreTrashPrior        bool
}

// TrashSubfolderName is the reserved name of the per-disk trash folder
// (spec §3, "Path index invariants").
const TrashSubfolderName = ".trash"
