package webhook

import "github.com/OfficeXApp/drive-engine/internal/permission"

// maxParentWalkDepth is spec §4.8's "walk up to 20 parent folders" bound.
const maxParentWalkDepth = 20

// ResolveDirectory returns every active webhook matching event on
// resource: its own alt-index subscribers, plus (for non-created events)
// every ancestor's subscribers up to 20 levels, stopping after the first
// sovereign-permissions folder (spec §4.8, "Alt-index resolution").
func (s *Store) ResolveDirectory(event Event, resource permission.DirectoryResourceID, tree permission.ParentLookup) []*Webhook {
	if IsCreatedEvent(event) {
		return s.lookup(event, ReservedSlugAll)
	}

	var out []*Webhook

	cur := resource

	for depth := 0; depth <= maxParentWalkDepth; depth++ {
		out = append(out, s.lookup(event, cur.ID)...)

		if tree.IsSovereign(cur) {
			break
		}

		parent, ok := tree.ParentOf(cur)
		if !ok {
			break
		}

		cur = parent
	}

	return out
}

// ResolveSystem returns every active webhook registered directly under a
// system-wide alt-index (DriveStateDiffs, OrganizationSuperswapUser,
// OrganizationInboxNewNotif, group-invite and label events) — these never
// walk a resource tree.
func (s *Store) ResolveSystem(event Event, altIndex string) []*Webhook {
	return s.lookup(event, altIndex)
}

// ResolveInbox narrows ResolveSystem(OrganizationInboxNewNotif, altIndex)
// to the subscribers whose topic filter matches the notification's topic
// (spec §4.8, "Inbox webhook filtering").
func (s *Store) ResolveInbox(altIndex, requestTopic string, hasRequestTopic bool) []*Webhook {
	var out []*Webhook

	for _, w := range s.ResolveSystem(OrganizationInboxNewNotif, altIndex) {
		if w.MatchesInboxFilter(requestTopic, hasRequestTopic) {
			out = append(out, w)
		}
	}

	return out
}
