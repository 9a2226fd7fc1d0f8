package directory

import (
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// isSelfOrAncestor reports whether folderID is candidateID itself or an
// ancestor of candidateID, used to reject moving a folder into itself or
// one of its own descendants (spec testable property: "Move-into-self-ancestor
// fails Forbidden").
func (s *Store) isSelfOrAncestor(folderID, candidateID string) bool {
	cur := candidateID

	for {
		if cur == folderID {
			return true
		}

		f, ok := s.folders[cur]
		if !ok || !f.HasParent {
			return false
		}

		cur = f.ParentID
	}
}

func (s *Store) propagateDiskLocked(folderID, diskID, diskType, driveID string) {
	f := s.folders[folderID]
	f.DiskID = diskID
	f.DiskType = diskType
	f.DriveID = driveID

	for _, subID := range f.SubfolderIDs {
		s.propagateDiskLocked(subID, diskID, diskType, driveID)
	}

	for _, fileID := range f.FileIDs {
		file := s.files[fileID]
		file.DiskID = diskID
		file.DiskType = diskType
	}
}

// MoveFolder detaches folder id from its current parent and attaches it
// to newParentID, rewriting its own and every descendant's path in one
// transaction (spec §4.3). moved is false only for a no-op KEEP_ORIGINAL
// collision.
func (s *Store) MoveFolder(id, newParentID string, conflict ConflictResolution, updatedBy string) (folder *Folder, moved bool, err error) {
	now := s.clock.NowMs()

	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, false, engineerr.NotFound("folder")
	}

	if !f.HasParent {
		return nil, false, engineerr.Forbidden("cannot move a disk root folder")
	}

	if newParentID == "" {
		return nil, false, engineerr.Forbidden("destination parent is required")
	}

	newParent, ok := s.folders[newParentID]
	if !ok {
		return nil, false, engineerr.NotFound("destination folder")
	}

	if s.isSelfOrAncestor(id, newParentID) {
		return nil, false, engineerr.Forbidden("cannot move a folder into itself or a descendant")
	}

	resolvedName, ok := Resolve(conflict, f.Name, false, func(candidate string) bool {
		for _, subID := range newParent.SubfolderIDs {
			if sub, exists := s.folders[subID]; exists && sub.Name == candidate {
				return true
			}
		}

		return false
	})

	if !ok {
		return f, false, nil
	}

	oldParentID := f.ParentID
	oldPath := f.Path
	newPath := JoinFolderChild(newParent.Path, resolvedName)

	updates := append([]pathUpdate{{folderID: id, newPath: newPath}}, s.collectDescendantUpdates(id, oldPath, newPath)...)
	s.applyPathUpdates(updates, now, updatedBy)

	f.Name = resolvedName
	f.ParentID = newParent.ID

	if oldParent, ok := s.folders[oldParentID]; ok {
		oldParent.SubfolderIDs = removeStr(oldParent.SubfolderIDs, id)
	}

	newParent.SubfolderIDs = append(newParent.SubfolderIDs, id)

	s.propagateDiskLocked(id, newParent.DiskID, newParent.DiskType, newParent.DriveID)

	return f, true, nil
}

// MoveFile detaches a file from its current parent and attaches it to
// newParentID.
func (s *Store) MoveFile(id, newParentID string, conflict ConflictResolution, updatedBy string) (file *File, moved bool, err error) {
	now := s.clock.NowMs()

	s.mu.Lock()
	defer s.mu.Unlock()

	file0, ok := s.files[id]
	if !ok {
		return nil, false, engineerr.NotFound("file")
	}

	newParent, ok := s.folders[newParentID]
	if !ok {
		return nil, false, engineerr.NotFound("destination folder")
	}

	resolvedName, ok := Resolve(conflict, file0.Name, true, func(candidate string) bool {
		_, exists := s.filePathToID[JoinFileChild(newParent.Path, candidate)]

		return exists
	})

	if !ok {
		return file0, false, nil
	}

	oldParentID := file0.FolderID
	newPath := JoinFileChild(newParent.Path, resolvedName)

	delete(s.filePathToID, file0.Path)
	file0.Path = newPath
	file0.Name = resolvedName
	file0.FolderID = newParent.ID
	file0.DiskID = newParent.DiskID
	file0.DiskType = newParent.DiskType
	file0.UpdatedBy = updatedBy
	file0.UpdatedAt = now
	s.filePathToID[newPath] = id

	if oldParent, ok := s.folders[oldParentID]; ok {
		oldParent.FileIDs = removeStr(oldParent.FileIDs, id)
	}

	newParent.FileIDs = append(newParent.FileIDs, id)

	return file0, true, nil
}

// CopyFolder deep-duplicates a folder subtree under newParentID, minting
// fresh IDs throughout (spec §4.3, "deep-duplicate subtree").
func (s *Store) CopyFolder(id, newParentID string, conflict ConflictResolution, now int64, actorID string) (*Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.folders[id]
	if !ok {
		return nil, engineerr.NotFound("folder")
	}

	newParent, ok := s.folders[newParentID]
	if !ok {
		return nil, engineerr.NotFound("destination folder")
	}

	if s.isSelfOrAncestor(id, newParentID) {
		return nil, engineerr.Forbidden("cannot copy a folder into itself or a descendant")
	}

	return s.copyFolderRecursive(src, newParent, conflict, now, actorID)
}

func (s *Store) copyFolderRecursive(src, destParent *Folder, conflict ConflictResolution, now int64, actorID string) (*Folder, error) {
	resolvedName, ok := Resolve(conflict, src.Name, false, func(candidate string) bool {
		for _, subID := range destParent.SubfolderIDs {
			if sub, exists := s.folders[subID]; exists && sub.Name == candidate {
				return true
			}
		}

		return false
	})

	if !ok {
		return s.folders[s.folderPathToID[JoinFolderChild(destParent.Path, src.Name)]], nil
	}

	dst := &Folder{
		ID:                      s.registry.Mint(ids.PrefixFolder),
		Name:                    resolvedName,
		ParentID:                destParent.ID,
		HasParent:               true,
		Path:                    JoinFolderChild(destParent.Path, resolvedName),
		DiskID:                  destParent.DiskID,
		DiskType:                destParent.DiskType,
		DriveID:                 destParent.DriveID,
		CreatedBy:               actorID,
		CreatedAt:               now,
		LastUpdatedBy:           actorID,
		LastUpdatedAt:           now,
		ExpiryMs:                src.ExpiryMs,
		HasSovereignPermissions: src.HasSovereignPermissions,
		Notes:                   src.Notes,
	}

	s.folders[dst.ID] = dst
	s.folderPathToID[dst.Path] = dst.ID
	destParent.SubfolderIDs = append(destParent.SubfolderIDs, dst.ID)

	for _, subID := range src.SubfolderIDs {
		if _, err := s.copyFolderRecursive(s.folders[subID], dst, Replace, now, actorID); err != nil {
			return nil, err
		}
	}

	for _, fileID := range src.FileIDs {
		srcFile := s.files[fileID]
		dstFile := &File{
			ID:              s.registry.Mint(ids.PrefixFile),
			Name:            srcFile.Name,
			FolderID:        dst.ID,
			Path:            JoinFileChild(dst.Path, srcFile.Name),
			DiskID:          dst.DiskID,
			DiskType:        dst.DiskType,
			Size:            srcFile.Size,
			RawURL:          srcFile.RawURL,
			Extension:       srcFile.Extension,
			ExpiryMs:        srcFile.ExpiryMs,
			CreatedBy:       actorID,
			CreatedAt:       now,
			UpdatedBy:       actorID,
			UpdatedAt:       now,
			Labels:          append([]string{}, srcFile.Labels...),
			CanisterID:      srcFile.CanisterID,
		}
		s.files[dstFile.ID] = dstFile
		s.filePathToID[dstFile.Path] = dstFile.ID
		dst.FileIDs = append(dst.FileIDs, dstFile.ID)
	}

	return dst, nil
}

// CopyFile duplicates a single file under newParentID with a fresh ID.
func (s *Store) CopyFile(id, newParentID string, conflict ConflictResolution, now int64, actorID string) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	src, ok := s.files[id]
	if !ok {
		return nil, engineerr.NotFound("file")
	}

	destParent, ok := s.folders[newParentID]
	if !ok {
		return nil, engineerr.NotFound("destination folder")
	}

	resolvedName, ok := Resolve(conflict, src.Name, true, func(candidate string) bool {
		_, exists := s.filePathToID[JoinFileChild(destParent.Path, candidate)]

		return exists
	})

	if !ok {
		return s.files[s.filePathToID[JoinFileChild(destParent.Path, src.Name)]], nil
	}

	dst := &File{
		ID:         s.registry.Mint(ids.PrefixFile),
		Name:       resolvedName,
		FolderID:   destParent.ID,
		Path:       JoinFileChild(destParent.Path, resolvedName),
		DiskID:     destParent.DiskID,
		DiskType:   destParent.DiskType,
		Size:       src.Size,
		RawURL:     src.RawURL,
		Extension:  src.Extension,
		ExpiryMs:   src.ExpiryMs,
		CreatedBy:  actorID,
		CreatedAt:  now,
		UpdatedBy:  actorID,
		UpdatedAt:  now,
		Labels:     append([]string{}, src.Labels...),
		CanisterID: src.CanisterID,
	}

	s.files[dst.ID] = dst
	s.filePathToID[dst.Path] = dst.ID
	destParent.FileIDs = append(destParent.FileIDs, dst.ID)

	return dst, nil
}

func removeStr(list []string, target string) []string {
	out := list[:0]

	for _, v := range list {
		if v != target {
			out = append(out, v)
		}
	}

	return out
}
