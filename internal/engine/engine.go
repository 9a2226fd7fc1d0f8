// Package engine wires every store (directory, permission, group, label,
// webhook, contact, auth, search) into one aggregate that implements
// statediff.Provider/Notifier and exposes the Action Pipeline as a single
// mutation surface. No package below this one reaches sideways into a
// sibling store directly — engine is the only place that holds all of
// them at once (spec Design Notes, "no ambient singletons": every store
// is constructed explicitly and passed down, never reached via a global).
package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	gosync "sync"

	"github.com/OfficeXApp/drive-engine/internal/action"
	"github.com/OfficeXApp/drive-engine/internal/auth"
	"github.com/OfficeXApp/drive-engine/internal/contact"
	"github.com/OfficeXApp/drive-engine/internal/directory"
	"github.com/OfficeXApp/drive-engine/internal/engineerr"
	"github.com/OfficeXApp/drive-engine/internal/group"
	"github.com/OfficeXApp/drive-engine/internal/ids"
	"github.com/OfficeXApp/drive-engine/internal/label"
	"github.com/OfficeXApp/drive-engine/internal/permission"
	"github.com/OfficeXApp/drive-engine/internal/persist"
	"github.com/OfficeXApp/drive-engine/internal/search"
	"github.com/OfficeXApp/drive-engine/internal/statediff"
	"github.com/OfficeXApp/drive-engine/internal/webhook"
)

// Engine is one drive's full mutable state plus the machinery (action
// dispatch, state-diff chain, webhook fan-out, search index) that every
// route handler drives through.
type Engine struct {
	DriveID string
	Logger  *slog.Logger

	Registry *ids.Registry
	Clock    ids.Clock

	Dirs     *directory.Store
	Perms    *permission.DirectoryStore
	SysPerms *permission.SystemStore
	Groups   *group.Store
	Labels   *label.Store
	Webhooks *webhook.Store
	Contacts *contact.Store
	Keys     *auth.Store
	Index    *search.Index

	Chain    *statediff.Chain
	Dispatch *webhook.Dispatcher
	Action   *action.Dispatcher

	// Persist durably mirrors every committed state-diff record and
	// claimed ID. Nil means in-memory only (the default for tests, which
	// never need to survive a restart).
	Persist *persist.Store

	// Live fans Inbox notifications out to connected real-time
	// subscribers. Nil is valid — NotifyInbox then only dispatches the
	// webhook side.
	Live LiveNotifier

	mu                  gosync.Mutex
	ownerID             string
	transferOwnerID     string
	transferRequestedAt int64
	hasTransferPending  bool
}

// LiveNotifier fans a notification out to connected real-time subscribers.
// internal/live.Hub implements this; kept as a narrow interface here, the
// same decoupling idiom as statediff.Provider and permission.ParentLookup,
// so this package never has to import internal/live (which itself imports
// internal/engine for *Engine's Whoami).
type LiveNotifier interface {
	Broadcast(topic string, payload any)
}

// Config bundles every dependency NewEngine needs. A drive-engine process
// constructs exactly one of these per drive at startup.
type Config struct {
	DriveID    string
	OwnerID    string
	Registry   *ids.Registry
	Clock      ids.Clock
	Logger     *slog.Logger
	Outbox     *webhook.Outbox
	HTTPClient *http.Client
	Persist    *persist.Store
	Live       LiveNotifier
}

// NewEngine constructs every store from scratch and wires the adapters
// that let them cooperate without importing one another (action.Tree,
// group.MembershipAt).
func NewEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	e := &Engine{
		DriveID:  cfg.DriveID,
		Logger:   cfg.Logger,
		Registry: cfg.Registry,
		Clock:    cfg.Clock,
		Dirs:     directory.NewStore(cfg.Registry, cfg.Clock),
		Perms:    permission.NewDirectoryStore(cfg.Registry, cfg.Clock),
		SysPerms: permission.NewSystemStore(cfg.Registry),
		Groups:   group.NewStore(cfg.Registry),
		Labels:   label.NewStore(cfg.Registry, cfg.Clock),
		Webhooks: webhook.NewStore(cfg.Registry, cfg.Clock),
		Contacts: contact.NewStore(cfg.Registry, cfg.Clock),
		Keys:     auth.NewStore(),
		Index:    search.NewIndex(cfg.Clock),
		Persist:  cfg.Persist,
		Live:     cfg.Live,
		ownerID:  cfg.OwnerID,
	}

	e.Chain = statediff.NewChain(cfg.Registry, cfg.Clock, e)
	e.Dispatch = webhook.NewDispatcher(cfg.HTTPClient, cfg.Outbox, cfg.Logger)
	e.Action = &action.Dispatcher{
		Dirs:       e.Dirs,
		Perms:      e.Perms,
		Membership: e.membershipNow(),
		Clock:      cfg.Clock,
	}

	return e
}

// OwnerID returns the drive's current owner.
func (e *Engine) OwnerID() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.ownerID
}

// membershipNow returns a MembershipChecker fixed to the current instant.
// Rebuilt on every call so successive mutations each see a fresh "now"
// instead of the timestamp the engine happened to start at.
func (e *Engine) membershipNow() permission.MembershipChecker {
	return group.MembershipAt{Store: e.Groups, Now: e.Clock.NowMs()}
}

// tree adapts Dirs into a permission.ParentLookup, the same structural
// type action.Dispatcher builds internally — reconstructed here since
// that constructor is private to the action package.
func (e *Engine) tree() action.Tree {
	return action.Tree{Dirs: e.Dirs}
}

// refreshMembership re-points Action at a MembershipChecker fixed to "now"
// before every dispatch, since group.MembershipAt captures Now by value at
// construction (spec §4.5's is_member is evaluated at call time, not at
// engine-construction time).
func (e *Engine) refreshMembership() {
	e.Action.Membership = e.membershipNow()
}

// aggregateSnapshot is the JSON-serialisable union of every store's
// Export(), the opaque blob statediff.Provider's Snapshot/Restore pass
// around (spec §4.9, "opaque serialisation of mutable stores").
type aggregateSnapshot struct {
	Directory           directory.Snapshot                `json:"directory"`
	DirectoryPerms      []*permission.DirectoryPermission  `json:"directory_permissions"`
	SystemPerms         []*permission.SystemPermission     `json:"system_permissions"`
	Groups              group.Snapshot                     `json:"groups"`
	Labels              []*label.Label                     `json:"labels"`
	Webhooks            []*webhook.Webhook                 `json:"webhooks"`
	Contacts            []*contact.Contact                 `json:"contacts"`
	Keys                []*auth.ApiKey                     `json:"api_keys"`
	OwnerID             string                             `json:"owner_id"`
	TransferOwnerID     string                             `json:"transfer_owner_id"`
	TransferRequestedAt int64                              `json:"transfer_requested_at"`
	HasTransferPending  bool                               `json:"has_transfer_pending"`
}

// Snapshot implements statediff.Provider by marshaling every store's
// Export() into one JSON blob.
func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	snap := aggregateSnapshot{
		Directory:           e.Dirs.Export(),
		DirectoryPerms:      e.Perms.Export(),
		SystemPerms:         e.SysPerms.Export(),
		Groups:              e.Groups.Export(),
		Labels:              e.Labels.Export(),
		Webhooks:            e.Webhooks.Export(),
		Contacts:            e.Contacts.Export(),
		Keys:                e.Keys.Export(),
		OwnerID:             e.ownerID,
		TransferOwnerID:     e.transferOwnerID,
		TransferRequestedAt: e.transferRequestedAt,
		HasTransferPending:  e.hasTransferPending,
	}
	e.mu.Unlock()

	out, err := json.Marshal(snap)
	if err != nil {
		return nil, engineerr.Internal("marshal snapshot", err)
	}

	return out, nil
}

// Restore implements statediff.Provider by unmarshaling snapshot and
// replacing every store's content wholesale via Import().
func (e *Engine) Restore(snapshot []byte) error {
	var snap aggregateSnapshot
	if err := json.Unmarshal(snapshot, &snap); err != nil {
		return engineerr.Internal("unmarshal snapshot", err)
	}

	e.Dirs.Import(snap.Directory)
	e.Perms.Import(snap.DirectoryPerms)
	e.SysPerms.Import(snap.SystemPerms)
	e.Groups.Import(snap.Groups)
	e.Labels.Import(snap.Labels)
	e.Webhooks.Import(snap.Webhooks)
	e.Contacts.Import(snap.Contacts)
	e.Keys.Import(snap.Keys)

	e.mu.Lock()
	e.ownerID = snap.OwnerID
	e.transferOwnerID = snap.TransferOwnerID
	e.transferRequestedAt = snap.TransferRequestedAt
	e.hasTransferPending = snap.HasTransferPending
	e.mu.Unlock()

	e.reindexAll()

	return nil
}

// OnStateDiffCommitted implements statediff.Notifier: every committed
// record fires the DriveStateDiffs webhook against the drive's
// system-wide alt-index (spec §4.9, "A DriveStateDiffs webhook fires
// after every snapshot_poststate").
func (e *Engine) OnStateDiffCommitted(r *statediff.Record) {
	targets := e.Webhooks.ResolveSystem(webhook.DriveStateDiffs, e.DriveID)
	if len(targets) == 0 {
		return
	}

	before := struct {
		Checksum string `json:"checksum"`
	}{Checksum: r.ParentChecksum}

	after := struct {
		ID               string `json:"id"`
		ForwardChecksum  string `json:"forward_checksum"`
		BackwardChecksum string `json:"backward_checksum"`
	}{ID: r.ID, ForwardChecksum: r.ForwardChecksum, BackwardChecksum: r.BackwardChecksum}

	e.Dispatch.Dispatch(context.Background(), targets, before, after, r.Notes)
}

// commit snapshots poststate, appends the state-diff record, and notifies
// every DriveStateDiffs subscriber. Call with the pre-mutation snapshot
// Prestate returned immediately before the mutation ran. A commit failure
// is logged and not returned: the mutation itself already succeeded, so
// the caller's response still reflects success, and the error log entry
// is the only trace of an unrecorded diff.
func (e *Engine) commit(pre []byte, notes string) {
	r, err := e.Chain.Commit(e, pre, notes)
	if err != nil {
		e.Logger.Error("state diff commit failed", "notes", notes, "err", err)
		return
	}

	if e.Persist == nil {
		return
	}

	ctx := context.Background()

	if err := e.Persist.AppendRecord(ctx, r); err != nil {
		e.Logger.Error("state diff persist failed", "id", r.ID, "err", err)
		return
	}

	if err := e.Persist.ClaimIDs(ctx, e.collectIDs()); err != nil {
		e.Logger.Error("id claim persist failed", "err", err)
	}
}

// collectIDs walks every store's current content plus every chain record
// minted so far, for seeding or re-seeding the claimed-ID registry
// durably. Run once per commit (INSERT OR IGNORE makes repeat claims
// cheap) rather than tracking exactly which IDs a single mutation
// introduced — simpler, and correct regardless of how many records a
// mutation touches.
func (e *Engine) collectIDs() []string {
	var ids []string

	tree := e.Dirs.Export()
	for _, f := range tree.Folders {
		ids = append(ids, f.ID)
	}

	for _, f := range tree.Files {
		ids = append(ids, f.ID)
	}

	for _, p := range e.Perms.Export() {
		ids = append(ids, p.ID)
	}

	for _, p := range e.SysPerms.Export() {
		ids = append(ids, p.ID)
	}

	groups := e.Groups.Export()
	for _, g := range groups.Groups {
		ids = append(ids, g.ID)
	}

	for _, inv := range groups.Invites {
		ids = append(ids, inv.ID)
	}

	for _, l := range e.Labels.Export() {
		ids = append(ids, l.ID)
	}

	for _, w := range e.Webhooks.Export() {
		ids = append(ids, w.ID)
	}

	for _, c := range e.Contacts.Export() {
		ids = append(ids, c.ID)
	}

	for _, k := range e.Keys.Export() {
		ids = append(ids, k.ID)
	}

	for _, r := range e.Chain.Records() {
		ids = append(ids, r.ID)
	}

	return ids
}

// Bootstrap replays every durably persisted state-diff record into a
// freshly constructed Engine, restoring both the mutable state and the
// checksum chain's in-memory history, and reseeds the claimed-ID
// registry. A no-op if Persist is nil or the log is empty (a brand new
// drive). Call once, immediately after NewEngine, before serving any
// request.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if e.Persist == nil {
		return nil
	}

	records, err := e.Persist.LoadRecords(ctx)
	if err != nil {
		return err
	}

	if len(records) > 0 {
		if err := e.Restore(records[len(records)-1].DiffForward); err != nil {
			return err
		}
	}

	e.Chain.Seed(records)

	// Reseed from the just-restored state itself rather than trusting the
	// durable claimed_ids table alone: every id that matters is already
	// embedded in some record's ID field, so this stays correct even if a
	// prior process crashed between AppendRecord and ClaimIDs.
	e.Registry.Restore(e.collectIDs())

	return nil
}
