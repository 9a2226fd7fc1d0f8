// Package search implements the Search Index (spec §4.11): a
// fuzzy-matched, rate-limited-reindex lookup over every searchable
// record category, with permission filtering left to the caller.
package search

// Category is one of the record kinds a query can be scoped to.
type Category string

// The category set spec §4.11 names.
const (
	CategoryAll      Category = "All"
	CategoryFiles    Category = "Files"
	CategoryFolders  Category = "Folders"
	CategoryContacts Category = "Contacts"
	CategoryGroups   Category = "Groups"
	CategoryDisks    Category = "Disks"
	CategoryDrives   Category = "Drives"
	CategoryLabels   Category = "Labels"
	CategoryWebhooks Category = "Webhooks"
)

// SortBy is the field a result page orders by.
type SortBy string

// The two sort fields spec §4.11 allows.
const (
	SortByCreatedAt SortBy = "CreatedAt"
	SortByUpdatedAt SortBy = "UpdatedAt"
)

// SortDirection is the order a result page is read in.
type SortDirection string

// Ascending and Descending result orders.
const (
	Ascending  SortDirection = "ASC"
	Descending SortDirection = "DESC"
)

// Document is one indexed, searchable record. Engine-side stores feed
// these in on every create/update/delete; the index itself never reaches
// back into them.
type Document struct {
	ID        string
	Category  Category
	Text      string // the searchable title/name/value
	CreatedAt int64
	UpdatedAt int64
}

// Query is one search request (spec §4.11's accepted parameter set).
type Query struct {
	Text          string
	Categories    []Category
	PageSize      int
	CursorUp      int
	CursorDown    int
	SortBy        SortBy
	Direction     SortDirection
}

// Result pairs a matched Document with its fuzzy-match distance (lower
// is a closer match; 0 is an exact match).
type Result struct {
	Document Document
	Distance int
}

// PermissionFilter lets a caller narrow a result set to what the
// requesting grantee may view, without this package depending on
// internal/permission (the same decoupling idiom as
// permission.ParentLookup and auth.LastOnlineRecorder).
type PermissionFilter interface {
	CanView(doc Document) bool
}

// allowAll is the default PermissionFilter used when a caller supplies
// none — useful for tests and for system-level (owner) queries.
type allowAll struct{}

func (allowAll) CanView(Document) bool { return true }

// AllowAll is a PermissionFilter that admits every document.
var AllowAll PermissionFilter = allowAll{}
