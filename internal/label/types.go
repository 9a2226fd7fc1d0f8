// Package label implements the Label Store (spec §4.7): validated label
// records, their attached-resource index, and cascade rename/delete.
// Attaching and detaching a label value from a File, DirectoryPermission,
// SystemPermission, or GroupInvite record is orchestrated one level up
// (internal/engine), which is the only layer that already depends on
// every resource-owning package; this package owns just the Label record
// and its own reverse index, to avoid an import cycle.
package label

import "regexp"

// Label is the record described in spec §3, "Label".
type Label struct {
	ID              string
	Value           string
	PublicNote      string
	PrivateNote     string
	Color           string
	CreatedBy       string
	CreatedAt       int64
	LastUpdatedAt   int64
	ResourceIDs     []string // every resource currently carrying this label's value
	LabelIDsOnLabel []string
	ExternalID      string
	ExternalPayload string

	// PinnedAt is nonzero once the label has been pinned (spec §4.7's
	// "Label pinning"); List sorts these ahead of unpinned labels, most
	// recently pinned first.
	PinnedAt int64
}

// Redacted returns a copy of the label with PrivateNote cleared unless
// canSeePrivate is true (spec §4.7, "non-owners without Edit never see
// private_note").
func (l *Label) Redacted(canSeePrivate bool) *Label {
	cp := *l
	if !canSeePrivate {
		cp.PrivateNote = ""
	}

	return &cp
}

var valuePattern = regexp.MustCompile(`^[a-z0-9_-]{1,64}$`)
var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// ValidateValue enforces spec §4.7's label value shape: lowercase
// alphanumeric plus '-'/'_', length-bounded.
func ValidateValue(value string) bool {
	return valuePattern.MatchString(value)
}

// ValidateColor enforces spec §4.7's colour shape: #RGB or #RRGGBB.
func ValidateColor(color string) bool {
	return color == "" || colorPattern.MatchString(color)
}
