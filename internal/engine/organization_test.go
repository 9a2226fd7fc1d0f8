package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/internal/engine"
	"github.com/OfficeXApp/drive-engine/testutil"
)

func TestWhoami_ReportsOwnerStatus(t *testing.T) {
	f := testutil.NewEngine(t)

	owner := f.Engine.Whoami(testutil.OwnerID)
	assert.True(t, owner.IsOwner)
	assert.Equal(t, testutil.OwnerID, owner.UserID)

	other := f.Engine.Whoami("UserID_someone_else")
	assert.False(t, other.IsOwner)
}

func TestTransferOwnership_RequiresOwnerActor(t *testing.T) {
	f := testutil.NewEngine(t)

	_, err := f.Engine.TransferOwnership("UserID_next", "UserID_not_owner")
	require.Error(t, err)
}

func TestTransferOwnership_TwoCallProtocol(t *testing.T) {
	f := testutil.NewEngine(t)

	first, err := f.Engine.TransferOwnership("UserID_next", testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, engine.TransferRequested, first.Status)

	// Too soon: still pending, same ready time.
	second, err := f.Engine.TransferOwnership("UserID_next", testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, engine.TransferRequested, second.Status)
	assert.Equal(t, first.ReadyAtMs, second.ReadyAtMs)

	f.Clock.Advance(24*60*60*1000 + 1)

	third, err := f.Engine.TransferOwnership("UserID_next", testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, engine.TransferCompleted, third.Status)
	assert.Equal(t, "UserID_next", f.Engine.OwnerID())
}

func TestSuperswapUser_NoopForIdenticalID(t *testing.T) {
	f := testutil.NewEngine(t)

	touched, err := f.Engine.SuperswapUser(testutil.OwnerID, testutil.OwnerID, testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, 0, touched)
}

func TestSuperswapUser_RequiresOwnerActor(t *testing.T) {
	f := testutil.NewEngine(t)

	_, err := f.Engine.SuperswapUser(testutil.OwnerID, "UserID_new", "UserID_not_owner")
	require.Error(t, err)
}

func TestSuperswapUser_RewritesOwnerID(t *testing.T) {
	f := testutil.NewEngine(t)

	_, err := f.Engine.SuperswapUser(testutil.OwnerID, "UserID_new_owner", testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, "UserID_new_owner", f.Engine.OwnerID())
}

func TestBootstrap_NoopWithoutPersist(t *testing.T) {
	f := testutil.NewEngine(t)

	require.NoError(t, f.Engine.Bootstrap(t.Context()))
}
