// Package selection tracks which regions are selected in the page viewer.
//
// The selection is an ordered list of region ids. Order is irrelevant for
// membership but drives Tab cycling. Cancelled regions may stay selected
// (for example after a batch CANCEL) but are ignored when computing the
// multi-select bounds.
package selection

import (
	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/model"
)

// Manager holds the current selection. The zero value is an empty
// selection ready to use.
type Manager struct {
	ids []string
}

// New returns an empty Manager.
func New() *Manager {
	return &Manager{}
}

// IDs returns a copy of the selected ids in selection order.
func (m *Manager) IDs() []string {
	return slices.Clone(m.ids)
}

// Len returns the number of selected ids.
func (m *Manager) Len() int {
	return len(m.ids)
}

// Empty reports whether nothing is selected.
func (m *Manager) Empty() bool {
	return len(m.ids) == 0
}

// Contains reports whether id is selected.
func (m *Manager) Contains(id string) bool {
	return slices.Contains(m.ids, id)
}

// Single returns the only selected id when exactly one region is selected.
func (m *Manager) Single() (string, bool) {
	if len(m.ids) != 1 {
		return "", false
	}
	return m.ids[0], true
}

// Set replaces the selection with a single id.
func (m *Manager) Set(id string) {
	m.ids = []string{id}
}

// Toggle adds id if it is not selected and removes it otherwise.
func (m *Manager) Toggle(id string) {
	if i := slices.Index(m.ids, id); i >= 0 {
		m.ids = slices.Delete(m.ids, i, i+1)
		return
	}
	m.ids = append(m.ids, id)
}

// Replace replaces the selection with ids, dropping duplicates.
func (m *Manager) Replace(ids []string) {
	m.ids = m.ids[:0]
	m.Union(ids)
}

// Union appends every id that is not already selected.
func (m *Manager) Union(ids []string) {
	for _, id := range ids {
		if !slices.Contains(m.ids, id) {
			m.ids = append(m.ids, id)
		}
	}
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.ids = nil
}

// Remove drops ids from the selection.
func (m *Manager) Remove(ids ...string) {
	out := m.ids[:0]
	for _, id := range m.ids {
		if !slices.Contains(ids, id) {
			out = append(out, id)
		}
	}
	m.ids = out
}

// Rename replaces oldID with newID, keeping its position.
func (m *Manager) Rename(oldID, newID string) {
	if i := slices.Index(m.ids, oldID); i >= 0 {
		m.ids[i] = newID
	}
}

// Retain drops ids that no longer exist in regions.
func (m *Manager) Retain(regions []model.Region) {
	out := m.ids[:0]
	for _, id := range m.ids {
		if model.IndexOf(regions, id) >= 0 {
			out = append(out, id)
		}
	}
	m.ids = out
}

// SelectAll selects every non-cancelled region on page and returns how many
// were selected.
func (m *Manager) SelectAll(regions []model.Region, page int) int {
	m.ids = nil
	for _, r := range regions {
		if r.PageNumber == page && r.Active() {
			m.ids = append(m.ids, r.ID)
		}
	}
	return len(m.ids)
}

// Cycle moves a single selection to the next (or previous) pending region on
// page, wrapping at either end. With no pending region on the current
// selection it starts from the first (or last) one. It returns the newly
// selected id.
func (m *Manager) Cycle(regions []model.Region, page int, forward bool) (string, bool) {
	var pending []string
	for _, r := range regions {
		if r.PageNumber == page && r.Action == model.ActionPending {
			pending = append(pending, r.ID)
		}
	}
	if len(pending) == 0 {
		return "", false
	}

	next := 0
	if !forward {
		next = len(pending) - 1
	}
	if cur, ok := m.Single(); ok {
		if i := slices.Index(pending, cur); i >= 0 {
			if forward {
				next = (i + 1) % len(pending)
			} else {
				next = (i - 1 + len(pending)) % len(pending)
			}
		}
	}
	m.Set(pending[next])
	return pending[next], true
}

// Hits returns the ids of non-cancelled regions on page that intersect area.
func Hits(regions []model.Region, page int, area model.BBox) []string {
	var ids []string
	for _, r := range regions {
		if r.PageNumber != page || !r.Active() {
			continue
		}
		if area.Overlaps(r.BBox) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Members returns the selected regions in selection order.
func (m *Manager) Members(regions []model.Region) []model.Region {
	var out []model.Region
	for _, id := range m.ids {
		if i := model.IndexOf(regions, id); i >= 0 {
			out = append(out, regions[i])
		}
	}
	return out
}

// Bounds returns the union of the selected, non-cancelled regions converted
// with toDisplay. It reports false unless at least two such regions exist,
// which is when the multi-select toolbar is shown.
func (m *Manager) Bounds(regions []model.Region, toDisplay func(model.BBox) model.BBox) (model.BBox, bool) {
	var (
		box   model.BBox
		count int
	)
	for _, r := range m.Members(regions) {
		if !r.Active() {
			continue
		}
		b := r.BBox
		if toDisplay != nil {
			b = toDisplay(b)
		}
		if count == 0 {
			box = b
		} else {
			box = box.Union(b)
		}
		count++
	}
	return box, count >= 2
}
