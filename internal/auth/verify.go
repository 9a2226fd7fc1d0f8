package auth

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/ids"
)

// LastOnlineRecorder is touched on every successful authentication (spec
// §4.2: "Every successful auth updates last_online_at on the contact
// record"). Defined here, not imported from a contact package, so auth
// never needs to know how contacts are stored.
type LastOnlineRecorder interface {
	TouchLastOnline(userID string, nowMs int64)
}

// FormatUserID prefixes a principal the way every other record ID in the
// engine is prefixed (spec §3, "Identifier discipline").
func FormatUserID(principal string) string {
	return string(ids.PrefixUser) + principal
}

func decodeProof(token string) (*Proof, error) {
	decoded, err := base64.RawStdEncoding.DecodeString(token)
	if err != nil {
		// Some clients pad first; fall back to standard encoding.
		decoded, err = base64.StdEncoding.DecodeString(token)
		if err != nil {
			return nil, engineerr.Unauthenticated("token is not valid base64")
		}
	}

	var proof Proof
	if err := json.Unmarshal(decoded, &proof); err != nil {
		return nil, engineerr.Unauthenticated("token does not decode to a JSON proof")
	}

	return &proof, nil
}

// Authenticate decodes a bearer/query token and resolves it to an ApiKey
// per spec §4.2's two authentication modes. rawToken is the token before
// base64-decoding, needed as-is for API-key mode (the value stored in the
// by-value index is the raw token, not its decoded JSON).
func Authenticate(rawToken string, nowMs int64, keys *Store, recorder LastOnlineRecorder) (*ApiKey, error) {
	proof, err := decodeProof(rawToken)
	if err != nil {
		return nil, err
	}

	switch proof.AuthType {
	case TypeSignature:
		return authenticateSignature(proof, nowMs, recorder)
	case TypeAPIKey:
		return authenticateAPIKey(rawToken, nowMs, keys, recorder)
	default:
		return nil, engineerr.Unauthenticated(fmt.Sprintf("unknown auth_type %q", proof.AuthType))
	}
}

func authenticateSignature(proof *Proof, nowMs int64, recorder LastOnlineRecorder) (*ApiKey, error) {
	if proof.Challenge == nil {
		return nil, engineerr.Unauthenticated("signature proof missing challenge")
	}

	if nowMs > proof.Challenge.TimestampMs+signatureChallengeWindowMs {
		return nil, engineerr.Unauthenticated("signature challenge expired")
	}

	if len(proof.Challenge.SelfAuthPrincipal) != ed25519.PublicKeySize {
		return nil, engineerr.Unauthenticated("expected a 32-byte raw public key")
	}

	challengeBytes, err := json.Marshal(proof.Challenge)
	if err != nil {
		return nil, engineerr.Internal("failed to re-serialize challenge", err)
	}

	pub := ed25519.PublicKey(proof.Challenge.SelfAuthPrincipal)
	if !ed25519.Verify(pub, challengeBytes, proof.Signature) {
		return nil, engineerr.Unauthenticated("signature verification failed")
	}

	computed := SelfAuthenticatingPrincipal(DEREncode(proof.Challenge.SelfAuthPrincipal))
	if computed != proof.Challenge.CanonicalPrincipal {
		return nil, engineerr.Unauthenticated("canonical principal mismatch")
	}

	userID := FormatUserID(computed)

	key := &ApiKey{
		ID:        fmt.Sprintf("sig_auth_%d", nowMs),
		Value:     fmt.Sprintf("signature_auth_%s", computed),
		UserID:    userID,
		Name:      fmt.Sprintf("Signature Authenticated User %s", computed),
		CreatedAt: nowMs,
		BeginsAt:  0,
		ExpiresAt: -1,
	}

	if recorder != nil {
		recorder.TouchLastOnline(userID, nowMs)
	}

	return key, nil
}

func authenticateAPIKey(rawToken string, nowMs int64, keys *Store, recorder LastOnlineRecorder) (*ApiKey, error) {
	key, ok := keys.GetByValue(rawToken)
	if !ok {
		return nil, engineerr.Unauthenticated("api key not recognized")
	}

	if !key.Valid(nowMs) {
		return nil, engineerr.Unauthenticated("api key expired, revoked, or not yet active")
	}

	if recorder != nil {
		recorder.TouchLastOnline(key.UserID, nowMs)
	}

	return key, nil
}
