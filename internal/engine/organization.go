package engine

import (
	"context"
	"fmt"

	"github.com/OfficeXApp/drive-engine/internal/contact"
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/group"
	"github.com/OfficeXApp/drive-engine/internal/permission"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// transferWaitMs is spec §4.10's "second call with the same next_owner
// after >= 24h".
const transferWaitMs = 24 * 60 * 60 * 1000

// TransferStatus is the outcome of one TransferOwnership call.
type TransferStatus string

// The two transfer outcomes spec §4.10 distinguishes.
const (
	TransferRequested TransferStatus = "REQUESTED"
	TransferCompleted TransferStatus = "COMPLETED"
)

// TransferResult reports whether a transfer call completed the swap or
// only (re)started the waiting period.
type TransferResult struct {
	Status    TransferStatus
	ReadyAtMs int64
}

// WhoamiResult is GET /organization/whoami's payload (spec §6).
type WhoamiResult struct {
	UserID  string
	IsOwner bool
	Contact *contact.Contact
}

// Whoami resolves the calling principal's own contact record and owner
// status.
func (e *Engine) Whoami(userID string) WhoamiResult {
	c, _ := e.Contacts.GetByUserID(userID)

	return WhoamiResult{UserID: userID, IsOwner: userID == e.OwnerID(), Contact: c}
}

// TransferOwnership implements spec §4.10's two-call transfer protocol.
// The first call for a given next_owner starts a 24h waiting period; a
// second call naming the same next_owner after the wait completes the
// swap. Any other call before completion (a different next_owner, or the
// same one too soon) leaves the pending request untouched and reports its
// original ready time.
func (e *Engine) TransferOwnership(nextOwner, actorID string) (TransferResult, error) {
	if actorID != e.OwnerID() {
		return TransferResult{}, engineerr.Forbidden("only the current owner can transfer ownership")
	}

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return TransferResult{}, err
	}

	now := e.Clock.NowMs()

	e.mu.Lock()
	var result TransferResult

	switch {
	case !e.hasTransferPending:
		e.transferOwnerID = nextOwner
		e.transferRequestedAt = now
		e.hasTransferPending = true
		result = TransferResult{Status: TransferRequested, ReadyAtMs: now + transferWaitMs}
	case e.transferOwnerID != nextOwner || now < e.transferRequestedAt+transferWaitMs:
		result = TransferResult{Status: TransferRequested, ReadyAtMs: e.transferRequestedAt + transferWaitMs}
	default:
		e.ownerID = nextOwner
		e.hasTransferPending = false
		e.transferOwnerID = ""
		e.transferRequestedAt = 0
		result = TransferResult{Status: TransferCompleted}
	}
	e.mu.Unlock()

	e.commit(pre, "transfer ownership to "+nextOwner)

	return result, nil
}

// SuperswapUser implements spec §4.10: owner-only, atomically rewrites
// every occurrence of currentUserID to newUserID across every store that
// names a user, and reports how many fields were touched. Built entirely
// on each store's Export/Import pair rather than adding a bespoke rewrite
// method per package — the state-diff chain already needs a full
// snapshot round trip for this mutation, so reusing it here keeps the
// rewrite confined to this one package instead of leaking user-ID-rewrite
// concerns into directory/permission/group/label/webhook/auth/contact.
// Re-running with the same arguments after a successful swap finds
// nothing left naming currentUserID and touches zero records (spec
// §4.10's "must be idempotent").
func (e *Engine) SuperswapUser(currentUserID, newUserID, actorID string) (int, error) {
	if actorID != e.OwnerID() {
		return 0, engineerr.Forbidden("only the current owner can superswap a user")
	}

	if currentUserID == newUserID {
		return 0, nil
	}

	pre, err := e.Chain.Prestate(e)
	if err != nil {
		return 0, err
	}

	touched := 0

	keys := e.Keys.Export()
	for _, k := range keys {
		if k.UserID == currentUserID {
			k.UserID = newUserID
			touched++
		}
	}
	e.Keys.Import(keys)

	contacts := e.Contacts.Export()
	for _, c := range contacts {
		if c.UserID == currentUserID {
			c.UserID = newUserID
			touched++
		}
	}
	e.Contacts.Import(contacts)

	groups := e.Groups.Export()
	for _, g := range groups.Groups {
		if g.Owner == currentUserID {
			g.Owner = newUserID
			touched++
		}
	}

	for _, inv := range groups.Invites {
		if inv.Inviter == currentUserID {
			inv.Inviter = newUserID
			touched++
		}

		if inv.Invitee.Kind == group.InviteeUser && inv.Invitee.ID == currentUserID {
			inv.Invitee.ID = newUserID
			touched++
		}
	}
	e.Groups.Import(groups)

	dirPerms := e.Perms.Export()
	for _, p := range dirPerms {
		touched += rewriteGrantee(&p.GrantedTo, &p.GrantedBy, currentUserID, newUserID)
	}
	e.Perms.Import(dirPerms)

	sysPerms := e.SysPerms.Export()
	for _, p := range sysPerms {
		touched += rewriteGrantee(&p.GrantedTo, &p.GrantedBy, currentUserID, newUserID)
	}
	e.SysPerms.Import(sysPerms)

	labels := e.Labels.Export()
	for _, l := range labels {
		if l.CreatedBy == currentUserID {
			l.CreatedBy = newUserID
			touched++
		}
	}
	e.Labels.Import(labels)

	webhooks := e.Webhooks.Export()
	for _, w := range webhooks {
		if w.CreatedBy == currentUserID {
			w.CreatedBy = newUserID
			touched++
		}
	}
	e.Webhooks.Import(webhooks)

	tree := e.Dirs.Export()
	for _, f := range tree.Folders {
		if f.CreatedBy == currentUserID {
			f.CreatedBy = newUserID
			touched++
		}

		if f.LastUpdatedBy == currentUserID {
			f.LastUpdatedBy = newUserID
			touched++
		}
	}

	for _, f := range tree.Files {
		if f.CreatedBy == currentUserID {
			f.CreatedBy = newUserID
			touched++
		}

		if f.UpdatedBy == currentUserID {
			f.UpdatedBy = newUserID
			touched++
		}
	}
	e.Dirs.Import(tree)

	if currentUserID == e.OwnerID() {
		e.mu.Lock()
		e.ownerID = newUserID
		e.mu.Unlock()
		touched++
	}

	e.commit(pre, fmt.Sprintf("superswap user %s to %s", currentUserID, newUserID))
	e.reindexAll()

	targets := e.Webhooks.ResolveSystem(webhook.OrganizationSuperswapUser, e.DriveID)
	e.Dispatch.Dispatch(context.Background(), targets, currentUserID, newUserID, "")

	return touched, nil
}

// rewriteGrantee swaps a user-kind grantee and/or a granted_by field in
// place, returning how many of the two it touched.
func rewriteGrantee(grantedTo *permission.PermissionGranteeID, grantedBy *string, oldID, newID string) int {
	touched := 0

	if *grantedBy == oldID {
		*grantedBy = newID
		touched++
	}

	if grantedTo.Kind == permission.GranteeUser && grantedTo.ID == oldID {
		grantedTo.ID = newID
		touched++
	}

	return touched
}

// NotifyInbox fires the OrganizationInboxNewNotif webhook against every
// subscriber whose topic filter matches (spec §4.8, "Inbox webhook
// filtering"). This engine holds no dedicated inbox record store — the
// notification is transient fan-out, not a durable mailbox — so this call
// never touches the state-diff chain.
func (e *Engine) NotifyInbox(topic string, hasTopic bool, payload any) {
	targets := e.Webhooks.ResolveInbox(e.DriveID, topic, hasTopic)
	e.Dispatch.Dispatch(context.Background(), targets, nil, payload, "")

	if e.Live != nil {
		e.Live.Broadcast(topic, payload)
	}
}
