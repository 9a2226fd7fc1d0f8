package engine

import (
	"context"

	"github.com/OfficeXApp/drive-engine/internal/action"
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/permission"
	"github.com/OfficeXApp/drive-engine/internal/search"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// peekFile best-effort resolves t to its current File, for the "before"
// half of a webhook payload (spec §4.8 step 1). Returns nil if t doesn't
// resolve yet — normal for a target about to be created.
func (e *Engine) peekFile(t action.Target) *directory.File {
	if t.ResourceID != nil {
		if f, err := e.Dirs.GetFile(t.ResourceID.ID); err == nil {
			cp := *f
			return &cp
		}
		return nil
	}

	if t.Path == "" || directory.IsFolderPath(t.Path) {
		return nil
	}

	id, ok := e.Dirs.FileIDByPath(directory.SanitizeFullPath(t.Path))
	if !ok {
		return nil
	}

	f, err := e.Dirs.GetFile(id)
	if err != nil {
		return nil
	}

	cp := *f

	return &cp
}

func (e *Engine) peekFolder(t action.Target) *directory.Folder {
	if t.ResourceID != nil {
		if f, err := e.Dirs.GetFolder(t.ResourceID.ID); err == nil {
			cp := *f
			return &cp
		}
		return nil
	}

	if t.Path == "" || !directory.IsFolderPath(t.Path) {
		return nil
	}

	id, ok := e.Dirs.FolderIDByPath(directory.SanitizeFullPath(t.Path) + "/")
	if !ok {
		return nil
	}

	f, err := e.Dirs.GetFolder(id)
	if err != nil {
		return nil
	}

	cp := *f

	return &cp
}

// notifyDirectory fires event at resource's alt-index chain (for
// non-created events, its own subscribers plus every ancestor up to a
// sovereign boundary; created events go only to the reserved "*" slug's
// subscribers), then the DriveStateDiffs notification rides along
// on e.Chain.Commit separately (spec §4.8, §4.9).
func (e *Engine) notifyDirectory(event webhook.Event, resource permission.DirectoryResourceID, before, after any) {
	targets := e.Webhooks.ResolveDirectory(event, resource, e.tree())
	e.Dispatch.Dispatch(context.Background(), targets, before, after, "")
}

func folderDoc(f *directory.Folder) search.Document {
	return search.Document{ID: f.ID, Category: search.CategoryFolders, Text: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.LastUpdatedAt}
}

func fileDoc(f *directory.File) search.Document {
	return search.Document{ID: f.ID, Category: search.CategoryFiles, Text: f.Name, CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt}
}

// GetFile runs the read-only Action Pipeline GetFile step (spec §4.6); no
// mutation, so no state-diff commit or webhook.
func (e *Engine) GetFile(t action.Target, actorID string) (*action.Result, error) {
	return e.Action.GetFile(t, actorID)
}

// GetFolder is GetFile's folder counterpart.
func (e *Engine) GetFolder(t action.Target, actorID string) (*action.Result, error) {
	return e.Action.GetFolder(t, actorID)
}

// CreateFile runs the Action Pipeline's CreateFile mutation, then commits
// a state-diff record and fires FileCreated/SubfileCreated.
func (e *Engine) CreateFile(parent action.Target, name string, meta directory.FileMeta, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.CreateFile(parent, name, meta, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "create file "+res.File.ID)
	e.Index.Upsert(fileDoc(res.File))
	e.notifyDirectory(webhook.FileCreated, permission.File(res.File.ID), nil, res.File)
	e.notifyDirectory(webhook.SubfileCreated, permission.Folder(res.File.FolderID), nil, res.File)

	return res, nil
}

// CreateFolder mirrors CreateFile for folders.
func (e *Engine) CreateFolder(parent action.Target, name string, opts directory.FinalFolderOpts, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.CreateFolder(parent, name, opts, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "create folder "+res.Folder.ID)
	e.Index.Upsert(folderDoc(res.Folder))
	e.notifyDirectory(webhook.FolderCreated, permission.Folder(res.Folder.ID), nil, res.Folder)
	e.notifyDirectory(webhook.SubfolderCreated, permission.Folder(res.Folder.ParentID), nil, res.Folder)

	return res, nil
}

// UpdateFile runs UpdateFile, commits, fires FileUpdated.
func (e *Engine) UpdateFile(t action.Target, patch action.FileUpdate, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFile(t)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.UpdateFile(t, patch, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "update file "+res.File.ID)
	e.Index.Upsert(fileDoc(res.File))
	e.notifyDirectory(webhook.FileUpdated, permission.File(res.File.ID), before, res.File)

	return res, nil
}

// UpdateFolder mirrors UpdateFile for folders.
func (e *Engine) UpdateFolder(t action.Target, patch action.FolderUpdate, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFolder(t)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.UpdateFolder(t, patch, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "update folder "+res.Folder.ID)
	e.Index.Upsert(folderDoc(res.Folder))
	e.notifyDirectory(webhook.FolderUpdated, permission.Folder(res.Folder.ID), before, res.Folder)

	return res, nil
}

// DeleteFile trashes or permanently deletes a file.
func (e *Engine) DeleteFile(t action.Target, permanent bool, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFile(t)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.DeleteFile(t, permanent, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "delete file "+res.File.ID)

	if permanent {
		e.Index.Remove(res.File.ID)
	} else {
		e.Index.Upsert(fileDoc(res.File))
	}

	e.notifyDirectory(webhook.FileDeleted, permission.File(res.File.ID), before, res.File)

	return res, nil
}

// DeleteFolder mirrors DeleteFile for folders.
func (e *Engine) DeleteFolder(t action.Target, permanent bool, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFolder(t)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.DeleteFolder(t, permanent, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "delete folder "+res.Folder.ID)

	if permanent {
		e.Index.Remove(res.Folder.ID)
	} else {
		e.Index.Upsert(folderDoc(res.Folder))
	}

	e.notifyDirectory(webhook.FolderDeleted, permission.Folder(res.Folder.ID), before, res.Folder)

	return res, nil
}

// CopyFile copies a file into a destination folder.
func (e *Engine) CopyFile(src, dest action.Target, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.CopyFile(src, dest, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "copy file to "+res.File.ID)
	e.Index.Upsert(fileDoc(res.File))
	e.notifyDirectory(webhook.FileCreated, permission.File(res.File.ID), nil, res.File)

	return res, nil
}

// CopyFolder mirrors CopyFile for folders.
func (e *Engine) CopyFolder(src, dest action.Target, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.CopyFolder(src, dest, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "copy folder to "+res.Folder.ID)
	e.Index.Upsert(folderDoc(res.Folder))
	e.notifyDirectory(webhook.FolderCreated, permission.Folder(res.Folder.ID), nil, res.Folder)

	return res, nil
}

// MoveFile relocates a file, firing FileUpdated against its new identity
// (a move does not change the file's ID, only its folder and path).
func (e *Engine) MoveFile(src, dest action.Target, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFile(src)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.MoveFile(src, dest, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "move file "+res.File.ID)
	e.Index.Upsert(fileDoc(res.File))
	e.notifyDirectory(webhook.FileUpdated, permission.File(res.File.ID), before, res.File)

	return res, nil
}

// MoveFolder mirrors MoveFile for folders.
func (e *Engine) MoveFolder(src, dest action.Target, conflict directory.ConflictResolution, actorID string) (*action.Result, error) {
	e.refreshMembership()
	before := e.peekFolder(src)

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.MoveFolder(src, dest, conflict, actorID)
	if err != nil {
		return nil, err
	}

	e.commit(pre, "move folder "+res.Folder.ID)
	e.Index.Upsert(folderDoc(res.Folder))
	e.notifyDirectory(webhook.FolderUpdated, permission.Folder(res.Folder.ID), before, res.Folder)

	return res, nil
}

// RestoreTrash reverses a prior DeleteFile/DeleteFolder.
func (e *Engine) RestoreTrash(resource permission.DirectoryResourceID, payload directory.RestorePayload, actorID string) (*action.Result, error) {
	e.refreshMembership()

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return nil, err
	}

	res, err := e.Action.RestoreTrash(resource, payload, actorID)
	if err != nil {
		return nil, err
	}

	if res.File != nil {
		e.commit(pre, "restore file "+res.File.ID)
		e.Index.Upsert(fileDoc(res.File))
		e.notifyDirectory(webhook.FileUpdated, permission.File(res.File.ID), nil, res.File)
	} else {
		e.commit(pre, "restore folder "+res.Folder.ID)
		e.Index.Upsert(folderDoc(res.Folder))
		e.notifyDirectory(webhook.FolderUpdated, permission.Folder(res.Folder.ID), nil, res.Folder)
	}

	return res, nil
}
