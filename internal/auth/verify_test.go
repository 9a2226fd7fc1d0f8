package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecorder struct {
	touched map[string]int64
}

func (f *fakeRecorder) TouchLastOnline(userID string, nowMs int64) {
	if f.touched == nil {
		f.touched = make(map[string]int64)
	}

	f.touched[userID] = nowMs
}

func encodeProof(t *testing.T, proof Proof) string {
	t.Helper()

	raw, err := json.Marshal(proof)
	require.NoError(t, err)

	return base64.RawStdEncoding.EncodeToString(raw)
}

func signedChallengeProof(t *testing.T, now int64) (string, ed25519.PublicKey) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	principal := SelfAuthenticatingPrincipal(DEREncode(pub))

	challenge := &Challenge{
		TimestampMs:        now,
		SelfAuthPrincipal:  []byte(pub),
		CanonicalPrincipal: principal,
	}

	challengeBytes, err := json.Marshal(challenge)
	require.NoError(t, err)

	sig := ed25519.Sign(priv, challengeBytes)

	token := encodeProof(t, Proof{AuthType: TypeSignature, Challenge: challenge, Signature: sig})

	return token, pub
}

func TestAuthenticate_SignatureMode_Success(t *testing.T) {
	token, pub := signedChallengeProof(t, 1000)
	principal := SelfAuthenticatingPrincipal(DEREncode(pub))

	recorder := &fakeRecorder{}

	key, err := Authenticate(token, 1005, NewStore(), recorder)
	require.NoError(t, err)
	assert.Equal(t, FormatUserID(principal), key.UserID)
	assert.Equal(t, int64(1005), recorder.touched[key.UserID])
}

func TestAuthenticate_SignatureMode_ExpiredChallengeRejected(t *testing.T) {
	token, _ := signedChallengeProof(t, 1000)

	_, err := Authenticate(token, 1000+signatureChallengeWindowMs+1, NewStore(), nil)
	require.Error(t, err)
}

func TestAuthenticate_SignatureMode_TamperedSignatureRejected(t *testing.T) {
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	otherPub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	challenge := &Challenge{
		TimestampMs:        1000,
		SelfAuthPrincipal:  []byte(otherPub),
		CanonicalPrincipal: SelfAuthenticatingPrincipal(DEREncode(otherPub)),
	}

	challengeBytes, err := json.Marshal(challenge)
	require.NoError(t, err)

	sig := ed25519.Sign(priv, challengeBytes) // signed with the WRONG private key

	token := encodeProof(t, Proof{AuthType: TypeSignature, Challenge: challenge, Signature: sig})

	_, err = Authenticate(token, 1000, NewStore(), nil)
	require.Error(t, err)
}

// The API-key lookup value is the whole base64 proof token as presented by
// the client, not its decoded JSON contents (spec §4.2, "the raw bearer
// string is looked up in the value→id index").

func TestAuthenticate_APIKeyMode_Success(t *testing.T) {
	token := encodeProof(t, Proof{AuthType: TypeAPIKey})

	store := NewStore()
	require.NoError(t, store.Insert(&ApiKey{
		ID:        "ApiKeyID_1",
		Value:     token,
		UserID:    "UserID_alice",
		BeginsAt:  0,
		ExpiresAt: -1,
	}))

	key, err := Authenticate(token, 1000, store, nil)
	require.NoError(t, err)
	assert.Equal(t, "UserID_alice", key.UserID)
}

func TestAuthenticate_APIKeyMode_RevokedRejected(t *testing.T) {
	token := encodeProof(t, Proof{AuthType: TypeAPIKey})

	store := NewStore()
	require.NoError(t, store.Insert(&ApiKey{
		ID:        "ApiKeyID_1",
		Value:     token,
		UserID:    "UserID_alice",
		IsRevoked: true,
		ExpiresAt: -1,
	}))

	_, err := Authenticate(token, 1000, store, nil)
	require.Error(t, err)
}

func TestAuthenticate_APIKeyMode_NotYetBegunRejected(t *testing.T) {
	token := encodeProof(t, Proof{AuthType: TypeAPIKey})

	store := NewStore()
	require.NoError(t, store.Insert(&ApiKey{
		ID:        "ApiKeyID_1",
		Value:     token,
		UserID:    "UserID_alice",
		BeginsAt:  5000,
		ExpiresAt: -1,
	}))

	_, err := Authenticate(token, 1000, store, nil)
	require.Error(t, err)
}

func TestExtractToken_HeaderTakesPrecedenceOverQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?auth=from-query", nil)
	req.Header.Set("Authorization", "Bearer from-header")

	token, ok := ExtractToken(req)
	require.True(t, ok)
	assert.Equal(t, "from-header", token)
}

func TestExtractToken_FallsBackToQueryParam(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?auth=from-query", nil)

	token, ok := ExtractToken(req)
	require.True(t, ok)
	assert.Equal(t, "from-query", token)
}
