// Package webhook implements Webhook Fan-out (spec §4.8): event-scoped
// subscriptions resolved through an alt-index (direct or parent-walked),
// JSON payload construction, and best-effort concurrent HTTP dispatch
// through a crash-recoverable outbox.
package webhook

// Event is one of the event labels spec §4.8 enumerates.
type Event string

// The full set of webhook event labels.
const (
	FileCreated   Event = "FILE_CREATED"
	FileUpdated   Event = "FILE_UPDATED"
	FileViewed    Event = "FILE_VIEWED"
	FileDeleted   Event = "FILE_DELETED"
	FileShared    Event = "FILE_SHARED"
	FolderCreated Event = "FOLDER_CREATED"
	FolderUpdated Event = "FOLDER_UPDATED"
	FolderViewed  Event = "FOLDER_VIEWED"
	FolderDeleted Event = "FOLDER_DELETED"
	FolderShared  Event = "FOLDER_SHARED"

	// SubfolderCreated/SubfileCreated are the parent-scope trigger variants:
	// they fire on a folder's subscription when a child is created inside
	// it, rather than on the child's own subscription.
	SubfolderCreated Event = "SUBFOLDER_CREATED"
	SubfileCreated   Event = "SUBFILE_CREATED"

	LabelAdded   Event = "LABEL_ADDED"
	LabelRemoved Event = "LABEL_REMOVED"

	GroupInviteCreated Event = "GROUP_INVITE_CREATED"
	GroupInviteUpdated Event = "GROUP_INVITE_UPDATED"

	DriveStateDiffs           Event = "DRIVE_STATE_DIFFS"
	OrganizationSuperswapUser Event = "ORGANIZATION_SUPERSWAP_USER"
	OrganizationInboxNewNotif Event = "ORGANIZATION_INBOX_NEW_NOTIF"
)

// createdEvents never receive the ancestor parent-walk augmentation (spec
// §4.8: "*_created slug subscriptions are never augmented with parent
// walk") — a resource being created has no pre-existing ancestor chain
// of subscribers to accumulate, so these always resolve against the
// single reserved system-wide slug.
var createdEvents = map[Event]bool{
	FileCreated:      true,
	FolderCreated:    true,
	SubfolderCreated: true,
	SubfileCreated:   true,
}

// IsCreatedEvent reports whether event is one of the *_created family.
func IsCreatedEvent(event Event) bool {
	return createdEvents[event]
}

// ReservedSlugAll is the alt_index every *_created system-wide
// subscription registers under.
const ReservedSlugAll = "*"

// Webhook is the record described in spec §4.8.
type Webhook struct {
	ID              string
	AltIndex        string
	Event           Event
	URL             string
	Signature       string
	Name            string
	Note            string
	Active          bool
	FilterTopic     string
	HasFilterTopic  bool
	CreatedBy       string
	CreatedAt       int64
	UpdatedAt       int64
	ExternalID      string
	ExternalPayload string
}

// MatchesInboxFilter applies spec §4.8's inbox topic-filter rule: match
// iff both request and filter lack a topic, or both carry the topic and
// the strings are equal.
func (w *Webhook) MatchesInboxFilter(requestTopic string, hasRequestTopic bool) bool {
	if !hasRequestTopic && !w.HasFilterTopic {
		return true
	}

	if hasRequestTopic && w.HasFilterTopic {
		return requestTopic == w.FilterTopic
	}

	return false
}

// Payload is the JSON body posted to a matching subscriber (spec §4.8,
// "Dispatch" step 2).
type Payload struct {
	Event           Event  `json:"event"`
	TimestampMs     int64  `json:"timestamp_ms"`
	Nonce           string `json:"nonce"`
	Notes           string `json:"notes,omitempty"`
	WebhookID       string `json:"webhook_id"`
	WebhookAltIndex string `json:"webhook_alt_index"`
	Payload         Snapshots `json:"payload"`
}

// Snapshots carries the before/after resource state a dispatch reports.
type Snapshots struct {
	Before any `json:"before"`
	After  any `json:"after"`
}
