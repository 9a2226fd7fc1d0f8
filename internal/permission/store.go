package permission

import (
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// DirectoryStore holds every DirectoryPermission and keeps the four
// indexes from spec §4.4 consistent: by_id, by_resource, by_grantee, and
// by_time (insertion-ordered, for cursor pagination).
type DirectoryStore struct {
	mu         gosync.Mutex
	byID       map[string]*DirectoryPermission
	byResource map[string]map[string]struct{} // resource key -> set of permission ids
	byGrantee  map[string]map[string]struct{} // grantee key -> set of permission ids
	byTime     []string                        // insertion order of permission ids
	registry   *ids.Registry
	clock      ids.Clock
}

// NewDirectoryStore creates an empty DirectoryStore.
func NewDirectoryStore(registry *ids.Registry, clock ids.Clock) *DirectoryStore {
	return &DirectoryStore{
		byID:       make(map[string]*DirectoryPermission),
		byResource: make(map[string]map[string]struct{}),
		byGrantee:  make(map[string]map[string]struct{}),
		registry:   registry,
		clock:      clock,
	}
}

func resourceKey(r DirectoryResourceID) string {
	if r.Kind == ResourceFile {
		return "file:" + r.ID
	}

	return "folder:" + r.ID
}

func granteeKey(g PermissionGranteeID) string {
	switch g.Kind {
	case GranteePublic:
		return "public"
	case GranteeUser:
		return "user:" + g.ID
	case GranteeGroup:
		return "group:" + g.ID
	default:
		return "placeholder:" + g.ID
	}
}

// Get returns the permission by ID, or NotFound.
func (s *DirectoryStore) Get(id string) (*DirectoryPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("directory permission")
	}

	return p, nil
}

// ListByResource returns every permission attached to resource, in
// insertion order.
func (s *DirectoryStore) ListByResource(resource DirectoryResourceID) []*DirectoryPermission {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.byResource[resourceKey(resource)]

	return s.collectOrdered(set)
}

// ListByGrantee returns every permission granted to grantee, in insertion
// order.
func (s *DirectoryStore) ListByGrantee(grantee PermissionGranteeID) []*DirectoryPermission {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.byGrantee[granteeKey(grantee)]

	return s.collectOrdered(set)
}

// ListByTime returns every permission in insertion order, for cursor
// pagination.
func (s *DirectoryStore) ListByTime() []*DirectoryPermission {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*DirectoryPermission, 0, len(s.byTime))
	for _, id := range s.byTime {
		if p, ok := s.byID[id]; ok {
			out = append(out, p)
		}
	}

	return out
}

func (s *DirectoryStore) collectOrdered(set map[string]struct{}) []*DirectoryPermission {
	if len(set) == 0 {
		return nil
	}

	out := make([]*DirectoryPermission, 0, len(set))
	for _, id := range s.byTime {
		if _, ok := set[id]; ok {
			if p, ok2 := s.byID[id]; ok2 {
				out = append(out, p)
			}
		}
	}

	return out
}

// Insert adds a new permission record, minting its ID if empty, and
// indexes it across all four indexes.
func (s *DirectoryStore) Insert(p *DirectoryPermission) {
	if p.ID == "" {
		p.ID = s.registry.Mint(ids.PrefixDirectoryPermission)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[p.ID] = p
	s.indexLocked(p)
	s.byTime = append(s.byTime, p.ID)
}

func (s *DirectoryStore) indexLocked(p *DirectoryPermission) {
	rk := resourceKey(p.ResourceID)
	if s.byResource[rk] == nil {
		s.byResource[rk] = make(map[string]struct{})
	}

	s.byResource[rk][p.ID] = struct{}{}

	gk := granteeKey(p.GrantedTo)
	if s.byGrantee[gk] == nil {
		s.byGrantee[gk] = make(map[string]struct{})
	}

	s.byGrantee[gk][p.ID] = struct{}{}
}

func (s *DirectoryStore) deindexLocked(p *DirectoryPermission) {
	rk := resourceKey(p.ResourceID)
	delete(s.byResource[rk], p.ID)

	if len(s.byResource[rk]) == 0 {
		delete(s.byResource, rk)
	}

	gk := granteeKey(p.GrantedTo)
	delete(s.byGrantee[gk], p.ID)

	if len(s.byGrantee[gk]) == 0 {
		delete(s.byGrantee, gk)
	}
}

// Update replaces an existing permission's indexed fields (grantee or
// resource may change, e.g. on redemption) while preserving its position
// in by_time.
func (s *DirectoryStore) Update(p *DirectoryPermission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[p.ID]
	if !ok {
		return engineerr.NotFound("directory permission")
	}

	s.deindexLocked(old)
	s.byID[p.ID] = p
	s.indexLocked(p)

	return nil
}

// Delete removes a permission and every index entry that points to it
// (invariant: spec testable property 3).
func (s *DirectoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("directory permission")
	}

	s.deindexLocked(p)
	delete(s.byID, id)

	for i, candidate := range s.byTime {
		if candidate == id {
			s.byTime = append(s.byTime[:i], s.byTime[i+1:]...)
			break
		}
	}

	return nil
}

// Redeem binds a placeholder permission to a real user (spec §4.4,
// "Permission redemption"). Fails Conflict if already redeemed or if the
// permission is not currently a placeholder grant.
func (s *DirectoryStore) Redeem(permissionID, userID string, now int64) (*DirectoryPermission, error) {
	s.mu.Lock()
	p, ok := s.byID[permissionID]
	s.mu.Unlock()

	if !ok {
		return nil, engineerr.NotFound("directory permission")
	}

	if p.GrantedTo.Kind != GranteePlaceholder {
		return nil, engineerr.Conflict("permission is not a placeholder grant")
	}

	if p.HasFromPlaceholder {
		return nil, engineerr.Conflict("permission already redeemed")
	}

	oldPlaceholder := p.GrantedTo.ID

	updated := *p
	updated.FromPlaceholder = oldPlaceholder
	updated.HasFromPlaceholder = true
	updated.GrantedTo = User(userID)
	updated.LastModifiedAt = now

	if err := s.Update(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

// SystemStore mirrors DirectoryStore for SystemPermission records.
type SystemStore struct {
	mu         gosync.Mutex
	byID       map[string]*SystemPermission
	byResource map[string]map[string]struct{}
	byGrantee  map[string]map[string]struct{}
	byTime     []string
	registry   *ids.Registry
}

// NewSystemStore creates an empty SystemStore.
func NewSystemStore(registry *ids.Registry) *SystemStore {
	return &SystemStore{
		byID:       make(map[string]*SystemPermission),
		byResource: make(map[string]map[string]struct{}),
		byGrantee:  make(map[string]map[string]struct{}),
		registry:   registry,
	}
}

func systemResourceKey(r SystemResourceID) string {
	if r.Kind == ResourceTable {
		return "table:" + string(r.Table)
	}

	return "record:" + r.Record
}

// Get returns the system permission by ID.
func (s *SystemStore) Get(id string) (*SystemPermission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return nil, engineerr.NotFound("system permission")
	}

	return p, nil
}

// ListByResource returns permissions attached to the given table/record.
func (s *SystemStore) ListByResource(resource SystemResourceID) []*SystemPermission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collectOrdered(s.byResource[systemResourceKey(resource)])
}

// ListByGrantee returns permissions granted to grantee.
func (s *SystemStore) ListByGrantee(grantee PermissionGranteeID) []*SystemPermission {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.collectOrdered(s.byGrantee[granteeKey(grantee)])
}

func (s *SystemStore) collectOrdered(set map[string]struct{}) []*SystemPermission {
	if len(set) == 0 {
		return nil
	}

	out := make([]*SystemPermission, 0, len(set))
	for _, id := range s.byTime {
		if _, ok := set[id]; ok {
			if p, ok2 := s.byID[id]; ok2 {
				out = append(out, p)
			}
		}
	}

	return out
}

// Insert adds a new system permission, minting its ID if empty.
func (s *SystemStore) Insert(p *SystemPermission) {
	if p.ID == "" {
		p.ID = s.registry.Mint(ids.PrefixSystemPermission)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID[p.ID] = p
	s.indexLocked(p)
	s.byTime = append(s.byTime, p.ID)
}

func (s *SystemStore) indexLocked(p *SystemPermission) {
	rk := systemResourceKey(p.ResourceID)
	if s.byResource[rk] == nil {
		s.byResource[rk] = make(map[string]struct{})
	}

	s.byResource[rk][p.ID] = struct{}{}

	gk := granteeKey(p.GrantedTo)
	if s.byGrantee[gk] == nil {
		s.byGrantee[gk] = make(map[string]struct{})
	}

	s.byGrantee[gk][p.ID] = struct{}{}
}

func (s *SystemStore) deindexLocked(p *SystemPermission) {
	rk := systemResourceKey(p.ResourceID)
	delete(s.byResource[rk], p.ID)

	if len(s.byResource[rk]) == 0 {
		delete(s.byResource, rk)
	}

	gk := granteeKey(p.GrantedTo)
	delete(s.byGrantee[gk], p.ID)

	if len(s.byGrantee[gk]) == 0 {
		delete(s.byGrantee, gk)
	}
}

// Update replaces an existing system permission's indexed fields.
func (s *SystemStore) Update(p *SystemPermission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old, ok := s.byID[p.ID]
	if !ok {
		return engineerr.NotFound("system permission")
	}

	s.deindexLocked(old)
	s.byID[p.ID] = p
	s.indexLocked(p)

	return nil
}

// Delete removes a system permission and all index entries.
func (s *SystemStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return engineerr.NotFound("system permission")
	}

	s.deindexLocked(p)
	delete(s.byID, id)

	for i, candidate := range s.byTime {
		if candidate == id {
			s.byTime = append(s.byTime[:i], s.byTime[i+1:]...)
			break
		}
	}

	return nil
}

// Redeem binds a placeholder system permission to a real user.
func (s *SystemStore) Redeem(permissionID, userID string, now int64) (*SystemPermission, error) {
	s.mu.Lock()
	p, ok := s.byID[permissionID]
	s.mu.Unlock()

	if !ok {
		return nil, engineerr.NotFound("system permission")
	}

	if p.GrantedTo.Kind != GranteePlaceholder {
		return nil, engineerr.Conflict("permission is not a placeholder grant")
	}

	if p.HasFromPlaceholder {
		return nil, engineerr.Conflict("permission already redeemed")
	}

	updated := *p
	updated.FromPlaceholder = p.GrantedTo.ID
	updated.HasFromPlaceholder = true
	updated.GrantedTo = User(userID)
	updated.LastModifiedAt = now

	if err := s.Update(&updated); err != nil {
		return nil, err
	}

	return &updated, nil
}
