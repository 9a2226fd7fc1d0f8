package permission

// ParentLookup lets the permission engine walk a resource's ancestry
// without importing the directory package (spec Design Notes: cyclic
// references are modeled by ID lookup through an arena, never by direct
// pointers).
type ParentLookup interface {
	// ParentOf returns the parent of resource. ok is false for a root
	// folder (no parent).
	ParentOf(resource DirectoryResourceID) (parent DirectoryResourceID, ok bool)
	// IsSovereign reports whether resource has has_sovereign_permissions
	// set, which blocks further inheritance past it (spec §3, §4.4).
	IsSovereign(resource DirectoryResourceID) bool
}

// MembershipChecker resolves group membership for the Group-grantee case
// of "G resolves to" (spec §4.4).
type MembershipChecker interface {
	IsMember(userID, groupID string) bool
}

// resolves implements spec §4.4's "G resolves to" predicate. Placeholder
// grantees never resolve — they are dormant until redeemed.
func resolves(grantedTo, grantee PermissionGranteeID, membership MembershipChecker) bool {
	if grantedTo.Kind == GranteePlaceholder {
		return false
	}

	if grantedTo.Kind == GranteePublic {
		return true
	}

	if grantedTo.Kind == grantee.Kind && grantedTo.ID == grantee.ID {
		return true
	}

	if grantedTo.Kind == GranteeGroup && grantee.Kind == GranteeUser {
		return membership.IsMember(grantee.ID, grantedTo.ID)
	}

	return false
}

// Effective computes effective(R, G) from spec §4.4: the grantee's own
// permissions directly on the resource, unioned with whatever inheritable
// permissions propagate down from ancestors (stopping at a sovereign
// boundary).
func (s *DirectoryStore) Effective(
	resource DirectoryResourceID, grantee PermissionGranteeID, now int64,
	parents ParentLookup, membership MembershipChecker,
) map[DirectoryPermissionType]struct{} {
	types := s.typesOn(resource, grantee, now, membership, false)

	if parent, ok := parents.ParentOf(resource); ok {
		for t := range s.inherited(parent, grantee, now, parents, membership) {
			types[t] = struct{}{}
		}
	}

	return types
}

// inherited implements inherited(R, G) from spec §4.4: only inheritable
// grants on R contribute, and the recursion stops once R itself is
// sovereign.
func (s *DirectoryStore) inherited(
	resource DirectoryResourceID, grantee PermissionGranteeID, now int64,
	parents ParentLookup, membership MembershipChecker,
) map[DirectoryPermissionType]struct{} {
	types := s.typesOn(resource, grantee, now, membership, true)

	if parents.IsSovereign(resource) {
		return types
	}

	if parent, ok := parents.ParentOf(resource); ok {
		for t := range s.inherited(parent, grantee, now, parents, membership) {
			types[t] = struct{}{}
		}
	}

	return types
}

func (s *DirectoryStore) typesOn(
	resource DirectoryResourceID, grantee PermissionGranteeID, now int64,
	membership MembershipChecker, requireInheritable bool,
) map[DirectoryPermissionType]struct{} {
	types := make(map[DirectoryPermissionType]struct{})

	for _, p := range s.ListByResource(resource) {
		if requireInheritable && !p.Inheritable {
			continue
		}

		if !IsActive(p.BeginDateMs, p.ExpiryDateMs, now) {
			continue
		}

		if !resolves(p.GrantedTo, grantee, membership) {
			continue
		}

		for t := range p.PermissionTypes {
			types[t] = struct{}{}
		}
	}

	return types
}

// Has reports whether a resolved type set contains t.
func Has(set map[DirectoryPermissionType]struct{}, t DirectoryPermissionType) bool {
	if _, ok := set[Manage]; ok {
		return true
	}

	_, ok := set[t]

	return ok
}

// CreatorShortCircuit implements spec §4.4's "Creator short-circuit": a
// resource's creator may edit or delete it so long as they hold Upload,
// Edit, or Manage on the parent folder — independent of direct Edit/Delete
// rights on the resource itself.
func CreatorShortCircuit(
	parentFolderID, createdBy, userID string,
	parentPerms map[DirectoryPermissionType]struct{},
) bool {
	if createdBy != userID || parentFolderID == "" {
		return false
	}

	return Has(parentPerms, Upload) || Has(parentPerms, Edit) || Has(parentPerms, Manage)
}

// Effective computes the grantee's active system-permission types on
// resource. System permissions do not inherit through a resource tree
// (spec §4.4 only specifies inheritance for directory permissions); a
// Table(t) grant and a Record(id) grant are independent rows.
func (s *SystemStore) Effective(
	resource SystemResourceID, grantee PermissionGranteeID, now int64, membership MembershipChecker,
) map[SystemPermissionType]struct{} {
	types := make(map[SystemPermissionType]struct{})

	for _, p := range s.ListByResource(resource) {
		if !IsActive(p.BeginDateMs, p.ExpiryDateMs, now) {
			continue
		}

		if !resolves(p.GrantedTo, grantee, membership) {
			continue
		}

		for t := range p.PermissionTypes {
			types[t] = struct{}{}
		}
	}

	return types
}

// LabelPrefixRestriction returns the label-value prefix restriction a
// Table(Labels) permission's metadata carries, if any (spec §4.4, "System
// permissions").
func LabelPrefixRestriction(p *SystemPermission) (string, bool) {
	if p.Metadata == nil || !p.Metadata.HasLabelPrefix {
		return "", false
	}

	return p.Metadata.LabelStringValuePrefix, true
}
