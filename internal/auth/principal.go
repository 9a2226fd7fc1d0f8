package auth

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
)

// SelfAuthenticatingPrincipal derives the canonical principal text for a
// DER-encoded public key, mirroring original_source's
// `Principal::self_authenticating`: SHA-224 the DER bytes, append a 0x02
// tag byte, base32-encode without padding, lowercase, and group into
// 5-character dash-separated chunks.
func SelfAuthenticatingPrincipal(derKey []byte) string {
	sum := sha256.Sum224(derKey)

	raw := make([]byte, 0, len(sum)+1)
	raw = append(raw, sum[:]...)
	raw = append(raw, 0x02)

	encoded := strings.ToLower(base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(raw))

	var sb strings.Builder

	for i := 0; i < len(encoded); i += 5 {
		if i > 0 {
			sb.WriteByte('-')
		}

		end := i + 5
		if end > len(encoded) {
			end = len(encoded)
		}

		sb.WriteString(encoded[i:end])
	}

	return sb.String()
}

// DEREncode prepends derHeader to a raw 32-byte Ed25519 public key.
func DEREncode(rawPublicKey []byte) []byte {
	out := make([]byte, 0, len(derHeader)+len(rawPublicKey))
	out = append(out, derHeader[:]...)
	out = append(out, rawPublicKey...)

	return out
}
