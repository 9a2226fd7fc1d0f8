package directory

import (
	"strings"
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// Store holds every folder and file record for a drive plus the path↔ID
// bijections spec §3 requires to hold after every mutation.
type Store struct {
	mu gosync.Mutex

	folders map[string]*Folder
	files   map[string]*File

	folderPathToID map[string]string
	filePathToID   map[string]string

	registry *ids.Registry
	clock    ids.Clock
}

// NewStore creates an empty directory store.
func NewStore(registry *ids.Registry, clock ids.Clock) *Store {
	return &Store{
		folders:        make(map[string]*Folder),
		files:          make(map[string]*File),
		folderPathToID: make(map[string]string),
		filePathToID:   make(map[string]string),
		registry:       registry,
		clock:          clock,
	}
}

// GetFolder looks up a folder by ID.
func (s *Store) GetFolder(id string) (*Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, engineerr.NotFound("folder")
	}

	return f, nil
}

// GetFile looks up a file by ID.
func (s *Store) GetFile(id string) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return nil, engineerr.NotFound("file")
	}

	return f, nil
}

// FolderIDByPath looks up the folder ID bound to a sanitized path.
func (s *Store) FolderIDByPath(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.folderPathToID[path]

	return id, ok
}

// FileIDByPath looks up the file ID bound to a sanitized path.
func (s *Store) FileIDByPath(path string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.filePathToID[path]

	return id, ok
}

// EnsureRootFolder idempotently creates "<disk>::/" and its ".trash"
// sovereign subfolder (spec §4.3). Returns the root folder.
func (s *Store) EnsureRootFolder(diskID, diskType, driveID, createdBy string) (*Folder, error) {
	now := s.clock.NowMs()

	s.mu.Lock()
	if id, ok := s.folderPathToID[RootPath(diskID)]; ok {
		root := s.folders[id]
		s.mu.Unlock()

		return root, nil
	}

	root := &Folder{
		ID:            s.registry.Mint(ids.PrefixFolder),
		Name:          "",
		HasParent:     false,
		Path:          RootPath(diskID),
		DiskID:        diskID,
		DiskType:      diskType,
		DriveID:       driveID,
		CreatedBy:     createdBy,
		CreatedAt:     now,
		LastUpdatedBy: createdBy,
		LastUpdatedAt: now,
		ExpiryMs:      -1,
	}

	s.folders[root.ID] = root
	s.folderPathToID[root.Path] = root.ID
	s.mu.Unlock()

	// .trash is sovereign: parent permissions/webhooks never inherit into it.
	if _, err := s.createFolderRaw(root, TrashSubfolderName, FinalFolderOpts{HasSovereignPermissions: true}, now, createdBy); err != nil {
		return nil, err
	}

	return root, nil
}

// FinalFolderOpts carries the options spec §4.3 says only the final path
// component of ensure_folder_structure receives.
type FinalFolderOpts struct {
	HasSovereignPermissions bool
	ExternalID              string
	Notes                   string
	ShortcutTo              string
	HasShortcut             bool
}

// EnsureFolderStructure creates every missing ancestor of fullPath,
// applying opts only to the final component (spec §4.3).
func (s *Store) EnsureFolderStructure(fullPath, diskType, driveID, createdBy string, opts FinalFolderOpts) (*Folder, error) {
	disk, segments := Segments(fullPath)

	cur, err := s.EnsureRootFolder(disk, diskType, driveID, createdBy)
	if err != nil {
		return nil, err
	}

	now := s.clock.NowMs()

	for i, seg := range segments {
		childPath := JoinFolderChild(cur.Path, seg)

		s.mu.Lock()
		id, exists := s.folderPathToID[childPath]
		s.mu.Unlock()

		if exists {
			cur, err = s.GetFolder(id)
			if err != nil {
				return nil, err
			}

			continue
		}

		isFinal := i == len(segments)-1
		childOpts := FinalFolderOpts{}

		if isFinal {
			childOpts = opts
		}

		cur, err = s.createFolderRaw(cur, seg, childOpts, now, createdBy)
		if err != nil {
			return nil, err
		}
	}

	return cur, nil
}

// CreateFolder creates a single child folder under parentID, applying
// conflict resolution the same way CreateFile does (spec §4.3/§4.6's
// CreateFolder action). created is false only for KEEP_ORIGINAL hitting
// an existing folder, in which case the existing folder is returned
// unchanged.
func (s *Store) CreateFolder(parentID, name string, opts FinalFolderOpts, conflict ConflictResolution, createdBy string) (folder *Folder, created bool, err error) {
	now := s.clock.NowMs()

	s.mu.Lock()
	parent, ok := s.folders[parentID]
	s.mu.Unlock()

	if !ok {
		return nil, false, engineerr.NotFound("folder")
	}

	resolvedName, ok := Resolve(conflict, name, false, func(candidate string) bool {
		s.mu.Lock()
		_, exists := s.folderPathToID[JoinFolderChild(parent.Path, candidate)]
		s.mu.Unlock()

		return exists
	})

	if !ok {
		s.mu.Lock()
		existingID := s.folderPathToID[JoinFolderChild(parent.Path, name)]
		s.mu.Unlock()

		existing, getErr := s.GetFolder(existingID)
		if getErr != nil {
			return nil, false, getErr
		}

		return existing, false, nil
	}

	f, err := s.createFolderRaw(parent, resolvedName, opts, now, createdBy)
	if err != nil {
		return nil, false, err
	}

	return f, true, nil
}

func (s *Store) createFolderRaw(parent *Folder, name string, opts FinalFolderOpts, now int64, createdBy string) (*Folder, error) {
	f := &Folder{
		ID:                      s.registry.Mint(ids.PrefixFolder),
		Name:                    name,
		ParentID:                parent.ID,
		HasParent:               true,
		Path:                    JoinFolderChild(parent.Path, name),
		DiskID:                  parent.DiskID,
		DiskType:                parent.DiskType,
		DriveID:                 parent.DriveID,
		CreatedBy:               createdBy,
		CreatedAt:               now,
		LastUpdatedBy:           createdBy,
		LastUpdatedAt:           now,
		ExpiryMs:                -1,
		HasSovereignPermissions: opts.HasSovereignPermissions,
		ExternalID:              opts.ExternalID,
		Notes:                   opts.Notes,
		ShortcutTo:              opts.ShortcutTo,
		HasShortcut:             opts.HasShortcut,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.folderPathToID[f.Path]; exists {
		return nil, engineerr.Internal("folder path collision in createFolderRaw", nil)
	}

	s.folders[f.ID] = f
	s.folderPathToID[f.Path] = f.ID
	parent.SubfolderIDs = append(parent.SubfolderIDs, f.ID)

	return f, nil
}

// FileMeta carries the caller-supplied fields for CreateFile.
type FileMeta struct {
	RawURL          string
	Extension       string
	Size            int64
	ExpiryMs        int64
	ExternalID      string
	ExternalPayload string
	CanisterID      string
}

// CreateFile resolves the naming conflict under an existing parent folder
// and inserts a new File record (spec §4.3). Missing parent folders are not
// created: an unknown parentID fails with NotFound. created is false
// only for KEEP_ORIGINAL hitting an existing file, in which case the
// existing file is returned unchanged.
func (s *Store) CreateFile(parentID, name string, meta FileMeta, conflict ConflictResolution, createdBy string) (file *File, created bool, err error) {
	now := s.clock.NowMs()

	s.mu.Lock()
	parent, ok := s.folders[parentID]
	s.mu.Unlock()

	if !ok {
		return nil, false, engineerr.NotFound("folder")
	}

	resolvedName, ok := Resolve(conflict, name, true, func(candidate string) bool {
		_, exists := s.filePathToID[JoinFileChild(parent.Path, candidate)]

		return exists
	})

	if !ok {
		existingID := s.filePathToID[JoinFileChild(parent.Path, name)]
		existing, _ := s.GetFile(existingID)

		return existing, false, nil
	}

	f := &File{
		ID:              s.registry.Mint(ids.PrefixFile),
		Name:            resolvedName,
		FolderID:        parent.ID,
		Path:            JoinFileChild(parent.Path, resolvedName),
		DiskID:          parent.DiskID,
		DiskType:        parent.DiskType,
		Size:            meta.Size,
		RawURL:          meta.RawURL,
		Extension:       meta.Extension,
		ExpiryMs:        meta.ExpiryMs,
		CreatedBy:       createdBy,
		CreatedAt:       now,
		UpdatedBy:       createdBy,
		UpdatedAt:       now,
		ExternalID:      meta.ExternalID,
		ExternalPayload: meta.ExternalPayload,
		CanisterID:      meta.CanisterID,
	}

	if f.ExpiryMs == 0 {
		f.ExpiryMs = -1
	}

	s.mu.Lock()
	s.files[f.ID] = f
	s.filePathToID[f.Path] = f.ID
	parent.FileIDs = append(parent.FileIDs, f.ID)
	s.mu.Unlock()

	return f, true, nil
}

// pathUpdate is one row of a rename/move transaction: the pending new
// Path for a folder or file, applied all-at-once (spec §4.3, "implement
// the walk as a transaction").
type pathUpdate struct {
	folderID string
	fileID   string
	newPath  string
}

// collectDescendantUpdates walks every descendant of folder (DFS) and
// computes each one's new path by replacing the oldPrefix with newPrefix.
func (s *Store) collectDescendantUpdates(folderID, oldPrefix, newPrefix string) []pathUpdate {
	var updates []pathUpdate

	f := s.folders[folderID]
	for _, subID := range f.SubfolderIDs {
		sub := s.folders[subID]
		newPath := newPrefix + strings.TrimPrefix(sub.Path, oldPrefix)
		updates = append(updates, pathUpdate{folderID: subID, newPath: newPath})
		updates = append(updates, s.collectDescendantUpdates(subID, oldPrefix, newPrefix)...)
	}

	for _, fileID := range f.FileIDs {
		file := s.files[fileID]
		newPath := newPrefix + strings.TrimPrefix(file.Path, oldPrefix)
		updates = append(updates, pathUpdate{fileID: fileID, newPath: newPath})
	}

	return updates
}

func (s *Store) applyPathUpdates(updates []pathUpdate, now int64, updatedBy string) {
	for _, u := range updates {
		if u.folderID != "" {
			f := s.folders[u.folderID]
			delete(s.folderPathToID, f.Path)
			f.Path = u.newPath
			s.folderPathToID[f.Path] = f.ID
			f.LastUpdatedBy = updatedBy
			f.LastUpdatedAt = now
		} else {
			file := s.files[u.fileID]
			delete(s.filePathToID, file.Path)
			file.Path = u.newPath
			s.filePathToID[file.Path] = file.ID
			file.UpdatedBy = updatedBy
			file.UpdatedAt = now
		}
	}
}

// RenameFolder updates the folder's own path, then rewrites every
// descendant's path in one transaction (spec §4.3). Renaming to the
// current name is a no-op.
func (s *Store) RenameFolder(id, newName string, updatedBy string) error {
	now := s.clock.NowMs()

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return engineerr.NotFound("folder")
	}

	parentPath, hasParent := ParentPathOf(f.Path)
	if !hasParent {
		return engineerr.Forbidden("cannot rename a disk root folder")
	}

	newPath := JoinFolderChild(parentPath, newName)
	if newPath == f.Path {
		return nil
	}

	if existingID, exists := s.folderPathToID[newPath]; exists && existingID != id {
		return engineerr.Conflict("a folder with that name already exists")
	}

	oldPath := f.Path
	updates := append([]pathUpdate{{folderID: id, newPath: newPath}}, s.collectDescendantUpdates(id, oldPath, newPath)...)
	s.applyPathUpdates(updates, now, updatedBy)
	f.Name = newName

	return nil
}

// RenameFile updates a single file's path in place.
func (s *Store) RenameFile(id, newName string, updatedBy string) error {
	now := s.clock.NowMs()

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return engineerr.NotFound("file")
	}

	parent, ok := s.folders[f.FolderID]
	if !ok {
		return engineerr.Internal("file references missing parent folder", nil)
	}

	newPath := JoinFileChild(parent.Path, newName)
	if newPath == f.Path {
		return nil
	}

	if existingID, exists := s.filePathToID[newPath]; exists && existingID != id {
		return engineerr.Conflict("a file with that name already exists")
	}

	delete(s.filePathToID, f.Path)
	f.Path = newPath
	f.Name = newName
	s.filePathToID[f.Path] = f.ID
	f.UpdatedBy = updatedBy
	f.UpdatedAt = now

	return nil
}
