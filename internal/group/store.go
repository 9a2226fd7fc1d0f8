package group

import (
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// Store holds all groups and invites for a drive and answers is_member
// queries (spec §4.5).
type Store struct {
	mu       gosync.Mutex
	groups   map[string]*Group
	invites  map[string]*Invite
	registry *ids.Registry
}

// NewStore creates an empty group store.
func NewStore(registry *ids.Registry) *Store {
	return &Store{
		groups:   make(map[string]*Group),
		invites:  make(map[string]*Invite),
		registry: registry,
	}
}

// CreateGroup mints a new group owned by owner.
func (s *Store) CreateGroup(name, owner, avatar string) *Group {
	g := &Group{
		ID:     s.registry.Mint(ids.PrefixGroup),
		Name:   name,
		Owner:  owner,
		Avatar: avatar,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g

	return g
}

// GetGroup looks up a group by ID.
func (s *Store) GetGroup(id string) (*Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return nil, engineerr.NotFound("group")
	}

	return g, nil
}

// UpdateGroup replaces the stored group record for g.ID.
func (s *Store) UpdateGroup(g *Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[g.ID]; !ok {
		return engineerr.NotFound("group")
	}

	s.groups[g.ID] = g

	return nil
}

// DeleteGroup removes a group and every invite attached to it.
func (s *Store) DeleteGroup(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.groups[id]; !ok {
		return engineerr.NotFound("group")
	}

	for invID, inv := range s.invites {
		if inv.GroupID == id {
			delete(s.invites, invID)
		}
	}

	delete(s.groups, id)

	return nil
}

// ListGroups returns every group, in no particular order.
func (s *Store) ListGroups() []*Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}

	return out
}

// CreateInvite mints a new invite for group and lists it under the group's
// admin or member invites by role. No redeem code is generated; RedeemCode
// keeps whatever value the caller set.
func (s *Store) CreateInvite(inv *Invite, now int64) (*Invite, error) {
	s.mu.Lock()
	g, ok := s.groups[inv.GroupID]
	s.mu.Unlock()

	if !ok {
		return nil, engineerr.NotFound("group")
	}

	inv.ID = s.registry.Mint(ids.PrefixGroupInvite)
	inv.CreatedAt = now
	inv.LastModifiedAt = now

	s.mu.Lock()
	s.invites[inv.ID] = inv

	switch inv.Role {
	case RoleAdmin:
		g.AdminInviteIDs = append(g.AdminInviteIDs, inv.ID)
	default:
		g.MemberInviteIDs = append(g.MemberInviteIDs, inv.ID)
	}
	s.mu.Unlock()

	return inv, nil
}

// GetInvite looks up an invite by ID.
func (s *Store) GetInvite(id string) (*Invite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[id]
	if !ok {
		return nil, engineerr.NotFound("group invite")
	}

	return inv, nil
}

// UpdateInvite replaces the stored invite in place.
func (s *Store) UpdateInvite(inv *Invite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.invites[inv.ID]; !ok {
		return engineerr.NotFound("group invite")
	}

	s.invites[inv.ID] = inv

	return nil
}

// DeleteInvite removes the invite and detaches it from its group's invite
// lists. Used both for explicit deletion and for removing a user from a
// group (spec §4.5, "removing a user ... means deleting all their accepted
// invites").
func (s *Store) DeleteInvite(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invites[id]
	if !ok {
		return engineerr.NotFound("group invite")
	}

	if g, ok := s.groups[inv.GroupID]; ok {
		g.AdminInviteIDs = removeID(g.AdminInviteIDs, id)
		g.MemberInviteIDs = removeID(g.MemberInviteIDs, id)
	}

	delete(s.invites, id)

	return nil
}

func removeID(list []string, id string) []string {
	out := list[:0]

	for _, existing := range list {
		if existing != id {
			out = append(out, existing)
		}
	}

	return out
}

// RemoveUserFromGroup deletes every invite in groupID that is currently
// accepted by userID (spec §4.5).
func (s *Store) RemoveUserFromGroup(groupID, userID string) error {
	s.mu.Lock()
	var toDelete []string

	for id, inv := range s.invites {
		if inv.GroupID == groupID && inv.Invitee.Kind == InviteeUser && inv.Invitee.ID == userID {
			toDelete = append(toDelete, id)
		}
	}
	s.mu.Unlock()

	for _, id := range toDelete {
		if err := s.DeleteInvite(id); err != nil {
			return err
		}
	}

	return nil
}

// RedeemPublicInvite mints a brand-new invite specific to the redeemer,
// leaving the public invite intact (spec §4.5, "Public invite redemption").
func (s *Store) RedeemPublicInvite(publicInviteID, userID string, now int64) (*Invite, error) {
	pub, err := s.GetInvite(publicInviteID)
	if err != nil {
		return nil, err
	}

	if pub.Invitee.Kind != InviteePublic {
		return nil, engineerr.Conflict("invite is not a public grant")
	}

	minted := &Invite{
		GroupID:      pub.GroupID,
		Inviter:      pub.Inviter,
		Invitee:      Invitee{Kind: InviteeUser, ID: userID},
		Role:         pub.Role,
		Note:         pub.Note,
		ActiveFromMs: now,
		ExpiresAtMs:  pub.ExpiresAtMs,
	}

	return s.CreateInvite(minted, now)
}

// RedeemPlaceholderInvite mutates the placeholder invite in place, setting
// FromPlaceholder (spec §4.5, "Placeholder invite redemption").
func (s *Store) RedeemPlaceholderInvite(inviteID, userID string, now int64) (*Invite, error) {
	inv, err := s.GetInvite(inviteID)
	if err != nil {
		return nil, err
	}

	if inv.Invitee.Kind != InviteePlaceholder {
		return nil, engineerr.Conflict("invite is not a placeholder grant")
	}

	if inv.HasFromPlaceholder {
		return nil, engineerr.Conflict("invite already redeemed")
	}

	updated := *inv
	updated.FromPlaceholder = inv.Invitee.ID
	updated.HasFromPlaceholder = true
	updated.Invitee = Invitee{Kind: InviteeUser, ID: userID}
	updated.LastModifiedAt = now

	if err := s.UpdateInvite(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// IsMemberAt implements spec §4.5's is_member predicate against an
// explicit timestamp, letting callers pass the engine clock.
func (s *Store) IsMemberAt(userID, groupID string, now int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[groupID]
	if !ok {
		return false
	}

	if g.Owner == userID {
		return true
	}

	for _, invID := range append(append([]string{}, g.AdminInviteIDs...), g.MemberInviteIDs...) {
		inv, ok := s.invites[invID]
		if !ok {
			continue
		}

		if inv.Invitee.Kind == InviteeUser && inv.Invitee.ID == userID && isActive(inv, now) {
			return true
		}
	}

	return false
}

// MembershipAt adapts a Store to the permission package's MembershipChecker
// interface for a fixed instant in time, without group importing permission
// (structural typing — see spec Design Notes, "Polymorphism over
// resource-kind").
type MembershipAt struct {
	Store *Store
	Now   int64
}

// IsMember satisfies permission.MembershipChecker.
func (m MembershipAt) IsMember(userID, groupID string) bool {
	return m.Store.IsMemberAt(userID, groupID, m.Now)
}
