package directory

import "github.com/OfficeXApp/drive-engine/internal/engineerr"

func (s *Store) deleteFolderPermanent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return engineerr.NotFound("folder")
	}

	for _, subID := range append([]string{}, f.SubfolderIDs...) {
		s.mu.Unlock()

		if err := s.deleteFolderPermanent(subID); err != nil {
			s.mu.Lock()

			return err
		}

		s.mu.Lock()
	}

	for _, fileID := range f.FileIDs {
		file, ok := s.files[fileID]
		if ok {
			delete(s.filePathToID, file.Path)
			delete(s.files, fileID)
		}
	}

	delete(s.folderPathToID, f.Path)
	delete(s.folders, id)

	if parent, ok := s.folders[f.ParentID]; ok {
		parent.SubfolderIDs = removeStr(parent.SubfolderIDs, id)
	}

	return nil
}

// DeleteFolder either permanently destroys a folder subtree (removing
// every record and index row) or reparents it into the disk's .trash,
// recording restore_trash_prior_folder_uuid (spec §4.3).
func (s *Store) DeleteFolder(id string, permanent bool, updatedBy string) (trashPath string, err error) {
	s.mu.Lock()
	f, ok := s.folders[id]
	if !ok {
		s.mu.Unlock()

		return "", engineerr.NotFound("folder")
	}

	if !f.HasParent {
		s.mu.Unlock()

		return "", engineerr.Forbidden("cannot delete a disk root folder")
	}

	diskID := f.DiskID
	oldParentID := f.ParentID
	s.mu.Unlock()

	if permanent {
		return "", s.deleteFolderPermanent(id)
	}

	s.mu.Lock()
	trashRootID, ok := s.folderPathToID[TrashRootPath(diskID)]
	s.mu.Unlock()

	if !ok {
		return "", engineerr.Internal("disk .trash root is missing", nil)
	}

	moved, _, err := s.MoveFolder(id, trashRootID, KeepBoth, updatedBy)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	moved.RestoreTrashPriorFolderUUID = oldParentID
	moved.HasRestoreTrashPrior = true
	s.mu.Unlock()

	return moved.Path, nil
}

func (s *Store) deleteFilePermanent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return engineerr.NotFound("file")
	}

	delete(s.filePathToID, f.Path)
	delete(s.files, id)

	if parent, ok := s.folders[f.FolderID]; ok {
		parent.FileIDs = removeStr(parent.FileIDs, id)
	}

	return nil
}

// DeleteFile either permanently destroys a file record or reparents it
// into the disk's .trash, recording restore_trash_prior_folder_path.
func (s *Store) DeleteFile(id string, permanent bool, updatedBy string) (trashPath string, err error) {
	s.mu.Lock()
	f, ok := s.files[id]
	if !ok {
		s.mu.Unlock()

		return "", engineerr.NotFound("file")
	}

	diskID := f.DiskID

	parent, ok := s.folders[f.FolderID]
	if !ok {
		s.mu.Unlock()

		return "", engineerr.Internal("file references missing parent folder", nil)
	}

	priorParentPath := parent.Path
	s.mu.Unlock()

	if permanent {
		return "", s.deleteFilePermanent(id)
	}

	s.mu.Lock()
	trashRootID, ok := s.folderPathToID[TrashRootPath(diskID)]
	s.mu.Unlock()

	if !ok {
		return "", engineerr.Internal("disk .trash root is missing", nil)
	}

	moved, _, err := s.MoveFile(id, trashRootID, KeepBoth, updatedBy)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	moved.RestoreTrashPriorFolderPath = priorParentPath
	moved.HasRestoreTrashPrior = true
	s.mu.Unlock()

	return moved.Path, nil
}

// RestorePayload lets a caller override the restoration target instead of
// using the recorded restore_trash_prior_* field (spec §4.3,
// "restore_from_trash").
type RestorePayload struct {
	OverridePath string
	HasOverride  bool
}

// RestoreFolderFromTrash reverses a DeleteFolder, reparenting the folder
// back to its recorded prior parent (or payload.OverridePath if given).
func (s *Store) RestoreFolderFromTrash(id string, payload RestorePayload, actorID string) error {
	s.mu.Lock()
	f, ok := s.folders[id]
	if !ok {
		s.mu.Unlock()

		return engineerr.NotFound("folder")
	}

	diskType, driveID := f.DiskType, f.DriveID
	priorParentID := f.RestoreTrashPriorFolderUUID
	hasPrior := f.HasRestoreTrashPrior
	s.mu.Unlock()

	targetParentID := priorParentID

	if payload.HasOverride {
		target, err := s.EnsureFolderStructure(payload.OverridePath, diskType, driveID, actorID, FinalFolderOpts{})
		if err != nil {
			return err
		}

		targetParentID = target.ID
	} else if !hasPrior {
		return engineerr.Conflict("folder has no recorded trash origin")
	}

	if _, ok := s.folders[targetParentID]; !ok {
		return engineerr.NotFound("restore target folder")
	}

	moved, _, err := s.MoveFolder(id, targetParentID, KeepBoth, actorID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	moved.HasRestoreTrashPrior = false
	moved.RestoreTrashPriorFolderUUID = ""
	s.mu.Unlock()

	return nil
}

// RestoreFileFromTrash reverses a DeleteFile, reparenting the file back to
// its recorded prior parent path (or payload.OverridePath if given).
func (s *Store) RestoreFileFromTrash(id string, payload RestorePayload, actorID string) error {
	s.mu.Lock()
	f, ok := s.files[id]
	if !ok {
		s.mu.Unlock()

		return engineerr.NotFound("file")
	}

	diskType := f.DiskType
	priorPath := f.RestoreTrashPriorFolderPath
	hasPrior := f.HasRestoreTrashPrior
	s.mu.Unlock()

	targetPath := priorPath
	if payload.HasOverride {
		targetPath = payload.OverridePath
	} else if !hasPrior {
		return engineerr.Conflict("file has no recorded trash origin")
	}

	target, err := s.EnsureFolderStructure(targetPath, diskType, "", actorID, FinalFolderOpts{})
	if err != nil {
		return err
	}

	moved, _, err := s.MoveFile(id, target.ID, KeepBoth, actorID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	moved.HasRestoreTrashPrior = false
	moved.RestoreTrashPriorFolderPath = ""
	s.mu.Unlock()

	return nil
}
