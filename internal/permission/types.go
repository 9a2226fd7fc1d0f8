// Package permission implements the Permission Engine (spec §4.4): directory
// and system permissions with four consistent indexes, time-bounded
// validity, inheritance resolution, and placeholder redemption.
package permission

// DirectoryPermissionType is one of the grantable rights on a directory
// resource (spec §4.4).
type DirectoryPermissionType string

// The six directory permission types, in the order spec §4.4 lists them.
const (
	View   DirectoryPermissionType = "VIEW"
	Upload DirectoryPermissionType = "UPLOAD"
	Edit   DirectoryPermissionType = "EDIT"
	Delete DirectoryPermissionType = "DELETE"
	Invite DirectoryPermissionType = "INVITE"
	Manage DirectoryPermissionType = "MANAGE"
)

// SystemPermissionType is one of the grantable rights on a system table or
// record (spec §4.4, "System permissions").
type SystemPermissionType string

// The five system permission types.
const (
	SysCreate SystemPermissionType = "CREATE"
	SysEdit   SystemPermissionType = "EDIT"
	SysDelete SystemPermissionType = "DELETE"
	SysView   SystemPermissionType = "VIEW"
	SysInvite SystemPermissionType = "INVITE"
)

// SystemTable enumerates the fixed set of system resource tables (spec §3,
// "SystemPermission"; supplemented from original_source's
// SystemResourceID::Table enumeration, see SPEC_FULL.md §C.5).
type SystemTable string

// The nine system tables.
const (
	TableDrives      SystemTable = "DRIVES"
	TableDisks       SystemTable = "DISKS"
	TableContacts    SystemTable = "CONTACTS"
	TableGroups      SystemTable = "GROUPS"
	TableApiKeys     SystemTable = "API_KEYS"
	TablePermissions SystemTable = "PERMISSIONS"
	TableWebhooks    SystemTable = "WEBHOOKS"
	TableLabels      SystemTable = "LABELS"
	TableInbox       SystemTable = "INBOX"
)

// DirectoryResourceKind tags a DirectoryResourceID as a file or a folder.
type DirectoryResourceKind int

// The two directory resource kinds.
const (
	ResourceFile DirectoryResourceKind = iota
	ResourceFolder
)

// DirectoryResourceID is the tagged union `File(id) | Folder(id)` from
// spec Design Notes, "Polymorphism over resource-kind".
type DirectoryResourceID struct {
	Kind DirectoryResourceKind
	ID   string
}

// File builds a DirectoryResourceID tagged as a file.
func File(id string) DirectoryResourceID { return DirectoryResourceID{Kind: ResourceFile, ID: id} }

// Folder builds a DirectoryResourceID tagged as a folder.
func Folder(id string) DirectoryResourceID {
	return DirectoryResourceID{Kind: ResourceFolder, ID: id}
}

func (r DirectoryResourceID) String() string {
	return r.ID
}

// SystemResourceKind tags a SystemResourceID as a table or a record.
type SystemResourceKind int

// The two system resource kinds.
const (
	ResourceTable SystemResourceKind = iota
	ResourceRecord
)

// SystemResourceID is the tagged union `Table(t) | Record(id)`.
type SystemResourceID struct {
	Kind   SystemResourceKind
	Table  SystemTable
	Record string
}

// Table builds a SystemResourceID tagged as a table.
func Table(t SystemTable) SystemResourceID { return SystemResourceID{Kind: ResourceTable, Table: t} }

// Record builds a SystemResourceID tagged as a specific record.
func Record(id string) SystemResourceID { return SystemResourceID{Kind: ResourceRecord, Record: id} }

// GranteeKind tags a PermissionGranteeID's variant.
type GranteeKind int

// The four grantee kinds (spec Design Notes, "Polymorphism over
// resource-kind").
const (
	GranteePublic GranteeKind = iota
	GranteeUser
	GranteeGroup
	GranteePlaceholder
)

// PermissionGranteeID is the tagged union
// `Public | User(id) | Group(id) | Placeholder(id)`.
type PermissionGranteeID struct {
	Kind GranteeKind
	ID   string // empty for Public
}

// Public is the singleton public grantee.
var Public = PermissionGranteeID{Kind: GranteePublic}

// User builds a grantee tagged as a user.
func User(id string) PermissionGranteeID { return PermissionGranteeID{Kind: GranteeUser, ID: id} }

// Group builds a grantee tagged as a group.
func Group(id string) PermissionGranteeID { return PermissionGranteeID{Kind: GranteeGroup, ID: id} }

// Placeholder builds a grantee tagged as a not-yet-redeemed placeholder.
func Placeholder(id string) PermissionGranteeID {
	return PermissionGranteeID{Kind: GranteePlaceholder, ID: id}
}

func (g PermissionGranteeID) String() string {
	switch g.Kind {
	case GranteePublic:
		return "PUBLIC"
	default:
		return g.ID
	}
}

// Metadata carries the optional directory-permission metadata variants:
// a labels-value prefix restriction, or a directory password.
type Metadata struct {
	LabelStringValuePrefix string
	DirectoryPassword      string
	HasLabelPrefix         bool
	HasDirectoryPassword   bool
}

// DirectoryPermission is the full record described in spec §3.
type DirectoryPermission struct {
	ID                   string
	ResourceID           DirectoryResourceID
	ResourcePath         string
	GrantedTo            PermissionGranteeID
	GrantedBy            string
	PermissionTypes      map[DirectoryPermissionType]struct{}
	BeginDateMs          int64
	ExpiryDateMs         int64
	Inheritable          bool
	Note                 string
	CreatedAt            int64
	LastModifiedAt       int64
	RedeemCode           string
	FromPlaceholder      string
	HasFromPlaceholder   bool
	Metadata             *Metadata
	Labels               []string
	ExternalID           string
	ExternalPayload      string
}

// SystemPermission mirrors DirectoryPermission but resolves against a
// SystemResourceID instead (spec §3, "SystemPermission").
type SystemPermission struct {
	ID                 string
	ResourceID         SystemResourceID
	GrantedTo          PermissionGranteeID
	GrantedBy          string
	PermissionTypes    map[SystemPermissionType]struct{}
	BeginDateMs        int64
	ExpiryDateMs       int64
	Note               string
	CreatedAt          int64
	LastModifiedAt     int64
	RedeemCode         string
	FromPlaceholder    string
	HasFromPlaceholder bool
	Metadata           *Metadata
	Labels             []string
	ExternalID         string
	ExternalPayload    string
}

// IsActive reports whether the permission is time-valid at now, per spec
// §4.4's begin/expiry semantics: begin -1 means "not yet active" (so it is
// NOT active until explicitly flipped), 0 means immediate, and >0 is a
// unix-ms threshold; expiry <0 means never, 0 means already-expired, >0 is
// a unix-ms threshold.
func IsActive(beginMs, expiryMs, now int64) bool {
	beginOK := beginMs != -1 && beginMs <= now
	expiryOK := expiryMs < 0 || now < expiryMs

	return beginOK && expiryOK
}
