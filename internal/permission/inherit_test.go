package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// fakeTree is a minimal ParentLookup for a 3-level folder chain:
// root -> F1 -> F2, where F2 is the leaf under test.
type fakeTree struct {
	parent    map[string]string
	sovereign map[string]bool
}

func (t *fakeTree) ParentOf(r DirectoryResourceID) (DirectoryResourceID, bool) {
	p, ok := t.parent[r.ID]
	if !ok {
		return DirectoryResourceID{}, false
	}

	return Folder(p), true
}

func (t *fakeTree) IsSovereign(r DirectoryResourceID) bool {
	return t.sovereign[r.ID]
}

type fakeMembership struct {
	members map[string]map[string]bool
}

func (m *fakeMembership) IsMember(userID, groupID string) bool {
	return m.members[groupID][userID]
}

func TestEffective_InheritsFromInheritableAncestorGrant(t *testing.T) {
	registry := ids.NewRegistry()
	store := NewDirectoryStore(registry, ids.NewFixedClock(1000))

	store.Insert(&DirectoryPermission{
		ResourceID:      Folder("F1"),
		GrantedTo:       User("bob"),
		PermissionTypes: map[DirectoryPermissionType]struct{}{View: {}},
		BeginDateMs:     0,
		ExpiryDateMs:    -1,
		Inheritable:     true,
	})

	tree := &fakeTree{parent: map[string]string{"F2": "F1"}, sovereign: map[string]bool{}}
	membership := &fakeMembership{}

	got := store.Effective(Folder("F2"), User("bob"), 2000, tree, membership)
	assert.True(t, Has(got, View))
	assert.False(t, Has(got, Edit))
}

func TestEffective_SovereignBlocksInheritance(t *testing.T) {
	registry := ids.NewRegistry()
	store := NewDirectoryStore(registry, ids.NewFixedClock(1000))

	store.Insert(&DirectoryPermission{
		ResourceID:      Folder("root"),
		GrantedTo:       User("bob"),
		PermissionTypes: map[DirectoryPermissionType]struct{}{View: {}},
		BeginDateMs:     0,
		ExpiryDateMs:    -1,
		Inheritable:     true,
	})

	tree := &fakeTree{
		parent:    map[string]string{"F2": "F1", "F1": "root"},
		sovereign: map[string]bool{"F1": true},
	}
	membership := &fakeMembership{}

	got := store.Effective(Folder("F2"), User("bob"), 2000, tree, membership)
	assert.False(t, Has(got, View), "sovereign F1 must block inheritance past it")
}

func TestEffective_GroupGranteeResolvesTransitively(t *testing.T) {
	registry := ids.NewRegistry()
	store := NewDirectoryStore(registry, ids.NewFixedClock(1000))

	store.Insert(&DirectoryPermission{
		ResourceID:      Folder("F1"),
		GrantedTo:       Group("g1"),
		PermissionTypes: map[DirectoryPermissionType]struct{}{Upload: {}},
		BeginDateMs:     0,
		ExpiryDateMs:    -1,
		Inheritable:     true,
	})

	tree := &fakeTree{parent: map[string]string{}, sovereign: map[string]bool{}}
	membership := &fakeMembership{members: map[string]map[string]bool{"g1": {"bob": true}}}

	got := store.Effective(Folder("F1"), User("bob"), 2000, tree, membership)
	assert.True(t, Has(got, Upload))

	gotAlice := store.Effective(Folder("F1"), User("alice"), 2000, tree, membership)
	assert.False(t, Has(gotAlice, Upload))
}

func TestEffective_PlaceholderNeverResolves(t *testing.T) {
	registry := ids.NewRegistry()
	store := NewDirectoryStore(registry, ids.NewFixedClock(1000))

	store.Insert(&DirectoryPermission{
		ResourceID:      Folder("F1"),
		GrantedTo:       Placeholder("ph1"),
		PermissionTypes: map[DirectoryPermissionType]struct{}{View: {}},
		BeginDateMs:     0,
		ExpiryDateMs:    -1,
		Inheritable:     true,
	})

	tree := &fakeTree{}
	membership := &fakeMembership{}

	got := store.Effective(Folder("F1"), User("bob"), 2000, tree, membership)
	assert.False(t, Has(got, View))
}

func TestIsActive_BeginMinusOneNeverActive(t *testing.T) {
	assert.False(t, IsActive(-1, -1, 5000))
	assert.True(t, IsActive(0, -1, 5000))
	assert.True(t, IsActive(100, -1, 5000))
	assert.False(t, IsActive(100, 50, 5000), "expiry 50 already passed")
}

func TestRedeem_FailsWhenAlreadyRedeemed(t *testing.T) {
	registry := ids.NewRegistry()
	store := NewDirectoryStore(registry, ids.NewFixedClock(1000))

	store.Insert(&DirectoryPermission{
		ResourceID:      Folder("F1"),
		GrantedTo:       Placeholder("ph1"),
		PermissionTypes: map[DirectoryPermissionType]struct{}{View: {}},
	})
	id := store.ListByResource(Folder("F1"))[0].ID

	_, err := store.Redeem(id, "alice", 1000)
	require.NoError(t, err)

	_, err = store.Redeem(id, "carol", 2000)
	require.Error(t, err)

	p, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, GranteeUser, p.GrantedTo.Kind)
	assert.Equal(t, "alice", p.GrantedTo.ID)

	byAlice := store.ListByGrantee(User("alice"))
	assert.Len(t, byAlice, 1)

	byPlaceholder := store.ListByGrantee(Placeholder("ph1"))
	assert.Empty(t, byPlaceholder)
}
