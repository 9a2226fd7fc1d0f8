package engine

import "github.com/OfficeXApp/drive-engine/internal/auth"

// Authenticate resolves rawToken against this drive's API keys and
// signature verification, touching the caller's contact record on
// success (spec §4.2).
func (e *Engine) Authenticate(rawToken string) (*auth.ApiKey, error) {
	return auth.Authenticate(rawToken, e.Clock.NowMs(), e.Keys, e.Contacts)
}
