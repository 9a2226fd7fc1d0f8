package engine

import (
	"github.com/OfficeXApp/drive-engine/internal/permission"
	"github.com/OfficeXApp/drive-engine/internal/search"
)

// documentsFromStores gathers a search.Document for every searchable
// record the engine currently holds. Disks and Drives are spec §4.11
// categories this single-drive engine has no dedicated store for (a disk
// is "a storage-backend configuration scoped inside a drive", owned by a
// higher-level drive registry than this package builds); a query scoped
// to either category simply returns no matches.
func (e *Engine) documentsFromStores() []search.Document {
	var docs []search.Document

	tree := e.Dirs.Export()

	for _, f := range tree.Files {
		docs = append(docs, search.Document{
			ID: f.ID, Category: search.CategoryFiles, Text: f.Name,
			CreatedAt: f.CreatedAt, UpdatedAt: f.UpdatedAt,
		})
	}

	for _, f := range tree.Folders {
		docs = append(docs, search.Document{
			ID: f.ID, Category: search.CategoryFolders, Text: f.Name,
			CreatedAt: f.CreatedAt, UpdatedAt: f.LastUpdatedAt,
		})
	}

	for _, c := range e.Contacts.List() {
		docs = append(docs, search.Document{
			ID: c.ID, Category: search.CategoryContacts, Text: c.Name,
			CreatedAt: c.CreatedAt, UpdatedAt: c.CreatedAt,
		})
	}

	for _, g := range e.Groups.ListGroups() {
		docs = append(docs, search.Document{
			ID: g.ID, Category: search.CategoryGroups, Text: g.Name,
		})
	}

	for _, l := range e.Labels.Export() {
		docs = append(docs, search.Document{
			ID: l.ID, Category: search.CategoryLabels, Text: l.Value,
			CreatedAt: l.CreatedAt, UpdatedAt: l.LastUpdatedAt,
		})
	}

	for _, w := range e.Webhooks.Export() {
		docs = append(docs, search.Document{
			ID: w.ID, Category: search.CategoryWebhooks, Text: w.Name,
			CreatedAt: w.CreatedAt, UpdatedAt: w.UpdatedAt,
		})
	}

	return docs
}

// reindexAll forces a full rebuild, used after Restore() since an
// incremental index would otherwise keep stale entries from the state
// the restore just discarded.
func (e *Engine) reindexAll() {
	_ = e.Index.Reindex(e.documentsFromStores, true)
}

// Reindex rebuilds the search index from every current store, honoring
// spec §4.11's "one per 5 minutes unless force" rate limit.
func (e *Engine) Reindex(force bool) error {
	return e.Index.Reindex(e.documentsFromStores, force)
}

// granteeFilter adapts the permission engine into a search.PermissionFilter
// scoped to one grantee: a document is viewable iff the grantee holds View
// (directly or inherited) on the underlying resource, or View/Edit on
// its containing system table (spec §4.11, "the caller filters by grantee
// permissions: View on the resource or containing table").
type granteeFilter struct {
	e       *Engine
	grantee permission.PermissionGranteeID
	now     int64
}

func (f granteeFilter) CanView(doc search.Document) bool {
	switch doc.Category {
	case search.CategoryFiles:
		perms := f.e.Perms.Effective(permission.File(doc.ID), f.grantee, f.now, f.e.tree(), f.e.membershipNow())
		return permission.Has(perms, permission.View)
	case search.CategoryFolders:
		perms := f.e.Perms.Effective(permission.Folder(doc.ID), f.grantee, f.now, f.e.tree(), f.e.membershipNow())
		return permission.Has(perms, permission.View)
	case search.CategoryContacts:
		return f.hasSystemView(permission.TableContacts)
	case search.CategoryGroups:
		return f.hasSystemView(permission.TableGroups)
	case search.CategoryLabels:
		return f.hasSystemView(permission.TableLabels)
	case search.CategoryWebhooks:
		return f.hasSystemView(permission.TableWebhooks)
	default:
		return false
	}
}

func (f granteeFilter) hasSystemView(table permission.SystemTable) bool {
	perms := f.e.SysPerms.Effective(permission.Table(table), f.grantee, f.now, f.e.membershipNow())

	return hasSystemType(perms, permission.SysView) || hasSystemType(perms, permission.SysEdit)
}

func hasSystemType(set map[permission.SystemPermissionType]struct{}, t permission.SystemPermissionType) bool {
	_, ok := set[t]

	return ok
}

// Search runs a query scoped to grantee's effective view (spec §4.11).
// The same filter applies to every grantee, the owner included; no
// owner-wide bypass is applied here.
func (e *Engine) Search(q search.Query, grantee permission.PermissionGranteeID) []search.Result {
	return e.Index.Search(q, granteeFilter{e: e, grantee: grantee, now: e.Clock.NowMs()})
}
