// Package group implements the Group & Invite State component (spec §4.5):
// groups, invite lifecycle, and transitive "is member" resolution.
package group

// InviteeKind tags a GroupInvite's invitee variant.
type InviteeKind int

// The three invitee kinds.
const (
	InviteeUser InviteeKind = iota
	InviteePlaceholder
	InviteePublic
)

// Invitee is the tagged union User(id) | Placeholder(id) | Public.
type Invitee struct {
	Kind InviteeKind
	ID   string
}

// Role is a group invite's role.
type Role string

// The two invite roles.
const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Group is the record described in spec §3, "Group".
type Group struct {
	ID            string
	Name          string
	Owner         string
	Avatar        string
	AdminInviteIDs  []string
	MemberInviteIDs []string
}

// Invite is the record described in spec §3, "GroupInvite".
type Invite struct {
	ID                 string
	GroupID            string
	Inviter            string
	Invitee            Invitee
	Role               Role
	Note               string
	ActiveFromMs       int64
	ExpiresAtMs        int64 // -1 never
	CreatedAt          int64
	LastModifiedAt     int64
	RedeemCode         string
	FromPlaceholder    string
	HasFromPlaceholder bool
	Labels             []string
	ExternalID         string
	ExternalPayload    string
}

// isActive mirrors the time-validity test used for permissions, but with
// group invites' own field names (spec §4.5's is_member definition: "now
// >= active_from && (expires_at < 0 || now < expires_at)").
func isActive(i *Invite, now int64) bool {
	if now < i.ActiveFromMs {
		return false
	}

	return i.ExpiresAtMs < 0 || now < i.ExpiresAtMs
}
