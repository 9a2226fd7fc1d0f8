package search

import "sort"

// categoryMatches reports whether doc belongs to one of the requested
// categories, treating an empty list or CategoryAll as "everything".
func categoryMatches(doc Document, categories []Category) bool {
	if len(categories) == 0 {
		return true
	}

	for _, c := range categories {
		if c == CategoryAll || c == doc.Category {
			return true
		}
	}

	return false
}

// Search scores and pages the index against q, filtering results to
// what filter admits (spec §4.11: "the engine returns a score-ranked
// list, then the caller filters by grantee permissions"). Pagination
// follows a single offset convention resolved from spec.md's two
// coexisting conventions (Open Question, §9): cursor_down advances the
// window forward by that many results, cursor_up pulls it back — the
// effective starting offset is cursor_down - cursor_up, floored at zero.
func (idx *Index) Search(q Query, filter PermissionFilter) []Result {
	if filter == nil {
		filter = AllowAll
	}

	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	var matches []Result

	for _, d := range idx.snapshot() {
		if !categoryMatches(d, q.Categories) {
			continue
		}

		if !filter.CanView(d) {
			continue
		}

		distance, ok := fuzzyMatch(q.Text, d.Text)
		if !ok {
			continue
		}

		matches = append(matches, Result{Document: d, Distance: distance})
	}

	sortResults(matches, q.SortBy, q.Direction)

	offset := q.CursorDown - q.CursorUp
	if offset < 0 {
		offset = 0
	}

	if offset >= len(matches) {
		return nil
	}

	end := offset + pageSize
	if end > len(matches) {
		end = len(matches)
	}

	return matches[offset:end]
}

func sortResults(results []Result, sortBy SortBy, direction SortDirection) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}

		var a, b int64

		switch sortBy {
		case SortByUpdatedAt:
			a, b = results[i].Document.UpdatedAt, results[j].Document.UpdatedAt
		default:
			a, b = results[i].Document.CreatedAt, results[j].Document.CreatedAt
		}

		if direction == Descending {
			return a > b
		}

		return a < b
	})
}
