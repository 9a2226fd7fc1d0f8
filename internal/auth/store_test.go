package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_InsertRejectsDuplicateValue(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(&ApiKey{ID: "ApiKeyID_1", Value: "tok"}))

	err := s.Insert(&ApiKey{ID: "ApiKeyID_2", Value: "tok"})
	require.Error(t, err)
}

func TestStore_RevokeFlipsIsRevoked(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(&ApiKey{ID: "ApiKeyID_1", Value: "tok"}))

	require.NoError(t, s.Revoke("ApiKeyID_1"))

	k, err := s.GetByID("ApiKeyID_1")
	require.NoError(t, err)
	assert.True(t, k.IsRevoked)
}

func TestStore_ReinsertReindexesValue(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Insert(&ApiKey{ID: "ApiKeyID_1", Value: "old"}))
	require.NoError(t, s.Insert(&ApiKey{ID: "ApiKeyID_1", Value: "new"}))

	_, ok := s.GetByValue("old")
	assert.False(t, ok)

	k, ok := s.GetByValue("new")
	require.True(t, ok)
	assert.Equal(t, "ApiKeyID_1", k.ID)
}
