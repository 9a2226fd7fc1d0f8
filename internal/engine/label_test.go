package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OfficeXApp/drive-engine/testutil"
)

func TestCreateLabel_RejectsDuplicateValue(t *testing.T) {
	f := testutil.NewEngine(t)

	_, err := f.Engine.CreateLabel("urgent", "#fff", "", "", testutil.OwnerID)
	require.NoError(t, err)

	_, err = f.Engine.CreateLabel("urgent", "#000", "", "", testutil.OwnerID)
	require.Error(t, err)
}

func TestAttachDetachLabel_UpdatesResourceList(t *testing.T) {
	f := testutil.NewEngine(t)

	l, err := f.Engine.CreateLabel("urgent", "#fff", "", "", testutil.OwnerID)
	require.NoError(t, err)

	require.NoError(t, f.Engine.AttachLabel(l.ID, "FileID_1", testutil.OwnerID))
	require.NoError(t, f.Engine.DetachLabel(l.ID, "FileID_1", testutil.OwnerID))
}

func TestPinLabel_MovesToFrontOfListing(t *testing.T) {
	f := testutil.NewEngine(t)

	first, err := f.Engine.CreateLabel("alpha", "", "", "", testutil.OwnerID)
	require.NoError(t, err)
	second, err := f.Engine.CreateLabel("beta", "", "", "", testutil.OwnerID)
	require.NoError(t, err)

	before := f.Engine.ListLabels()
	require.Len(t, before, 2)
	assert.Equal(t, first.ID, before[0].ID, "unpinned labels list in creation order")

	f.Clock.Advance(1)
	_, err = f.Engine.PinLabel(second.ID, true)
	require.NoError(t, err)

	after := f.Engine.ListLabels()
	require.Len(t, after, 2)
	assert.Equal(t, second.ID, after[0].ID, "pinning moves a label to the front")
}

func TestDeleteLabel_ReturnsAttachedResourcesForCascade(t *testing.T) {
	f := testutil.NewEngine(t)

	l, err := f.Engine.CreateLabel("urgent", "", "", "", testutil.OwnerID)
	require.NoError(t, err)
	require.NoError(t, f.Engine.AttachLabel(l.ID, "FileID_1", testutil.OwnerID))

	resourceIDs, err := f.Engine.DeleteLabel(l.ID, testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, []string{"FileID_1"}, resourceIDs)
}
