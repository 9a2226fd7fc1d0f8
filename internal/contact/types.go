// Package contact implements the Contact record (spec §4.2, §6): the
// per-user profile every API key and permission grantee ultimately
// resolves to, and the last-online tracking authentication touches on
// every successful request.
package contact

// Contact is the record described in spec §4.2 ("Every successful auth
// updates last_online_at on the contact record").
type Contact struct {
	ID              string
	UserID          string
	Name            string
	Email           string
	Avatar          string
	Notes           string
	CreatedAt       int64
	LastOnlineAt    int64
	Labels          []string
	ExternalID      string
	ExternalPayload string
}
