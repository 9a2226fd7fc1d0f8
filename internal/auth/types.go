// Package auth implements the Authentication Layer (spec §4.2): API-key
// bearer tokens and self-authenticating Ed25519 signature challenges, both
// resolving to the same ApiKey-shaped principal.
package auth

// Type distinguishes the two authentication modes carried in the decoded
// JSON proof (spec §4.2).
type Type string

// The two supported authentication types.
const (
	TypeAPIKey    Type = "ApiKey"
	TypeSignature Type = "Signature"
)

// ApiKey is the record every successful authentication resolves to (spec
// §4.2, "Two authentication modes share the same output").
type ApiKey struct {
	ID              string
	Value           string
	UserID          string
	Name            string
	PrivateNote     string
	CreatedAt       int64
	BeginsAt        int64
	ExpiresAt       int64 // <=0 means never
	IsRevoked       bool
	Labels          []string
	ExternalID      string
	ExternalPayload string
}

// Valid reports whether the key is usable at now: not revoked, past its
// begin time, and not yet expired (spec §4.2's API-key validity rule).
func (k *ApiKey) Valid(now int64) bool {
	if k.IsRevoked {
		return false
	}

	if now < k.BeginsAt {
		return false
	}

	return k.ExpiresAt <= 0 || now < k.ExpiresAt
}

// Challenge is the canonical payload a signature-mode client signs (spec
// §4.2: "timestamp_ms", a 32-byte raw public key, and the claimed
// canonical principal). Field order is part of the canonical encoding:
// the signer and verifier must serialise the same byte sequence.
type Challenge struct {
	TimestampMs        int64  `json:"timestamp_ms"`
	SelfAuthPrincipal  []byte `json:"self_auth_principal"`
	CanonicalPrincipal string `json:"canonical_principal"`
}

// Proof is the decoded JSON carried by a bearer/query auth token (spec
// §4.2's `AuthJsonDecoded`). Challenge and Signature are populated only
// for TypeSignature; for TypeAPIKey the raw token string itself is the
// bearer value to look up.
type Proof struct {
	AuthType  Type       `json:"auth_type"`
	Challenge *Challenge `json:"challenge,omitempty"`
	Signature []byte     `json:"signature,omitempty"`
}

// derHeader is prepended to a raw 32-byte Ed25519 public key before
// deriving its self-authenticating principal (spec §4.2 step 3).
var derHeader = [12]byte{0x30, 0x2a, 0x30, 0x05, 0x06, 0x03, 0x2b, 0x65, 0x70, 0x03, 0x21, 0x00}

// signatureChallengeWindowMs is how long a signature challenge remains
// acceptable after it was timestamped (spec §4.2: "within 30 s").
const signatureChallengeWindowMs = 30_000
