package analytics

import (
	"maps"
	"slices"
)

// Selection tracks the ids of selected transactions. Selected ids survive
// filter changes: an id that scrolls out of view stays selected until it is
// toggled off or the selection is cleared.
type Selection struct {
	ids map[string]bool
}

// NewSelection returns an empty selection.
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id string) {
	if s.ids[id] {
		delete(s.ids, id)
		return
	}
	s.ids[id] = true
}

// SelectAllVisible selects exactly the visible ids, or clears the selection
// when it already equals the visible set.
func (s *Selection) SelectAllVisible(visibleIDs []string) {
	if s.equals(visibleIDs) {
		s.Clear()
		return
	}

	s.ids = make(map[string]bool, len(visibleIDs))
	for _, id := range visibleIDs {
		s.ids[id] = true
	}
}

// AllVisibleSelected reports whether the selection equals the non-empty
// visible set, which is when a "select all" checkbox shows as checked.
func (s *Selection) AllVisibleSelected(visibleIDs []string) bool {
	return len(visibleIDs) > 0 && s.equals(visibleIDs)
}

// Clear empties the selection.
func (s *Selection) Clear() {
	s.ids = make(map[string]bool)
}

// IsSelected reports whether id is selected.
func (s *Selection) IsSelected(id string) bool {
	return s.ids[id]
}

// Len returns the number of selected ids.
func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	return slices.Sorted(maps.Keys(s.ids))
}

func (s *Selection) equals(ids []string) bool {
	unique := make(map[string]bool, len(ids))
	for _, id := range ids {
		unique[id] = true
	}
	if len(unique) != len(s.ids) {
		return false
	}
	for id := range unique {
		if !s.ids[id] {
			return false
		}
	}
	return true
}
