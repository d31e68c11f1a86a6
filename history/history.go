// Package history provides snapshot-based undo and redo for the region set.
//
// Each entry is a full copy of the region array taken before a mutating
// user action. Undo and redo swap the live array with the top of one stack
// and push the live array onto the other. This trades memory for simple
// correctness; documents hold a bounded number of regions.
//
// A snapshot is pushed once per discrete user action: before a batch or
// single action change, before a paste, before adding a drawn region, and
// once per move or resize gesture when the drag leaves its dead zone.
package history

import (
	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/model"
)

// Stack holds the undo and redo snapshots.
type Stack struct {
	undo  [][]model.Region
	redo  [][]model.Region
	limit int
}

// New returns a Stack. A limit of 0 keeps every snapshot; otherwise the
// oldest undo snapshot is dropped once limit is exceeded.
func New(limit int) *Stack {
	return &Stack{
		undo:  make([][]model.Region, 0, 64),
		redo:  make([][]model.Region, 0, 64),
		limit: limit,
	}
}

// Push records a snapshot of regions and clears the redo stack.
func (s *Stack) Push(regions []model.Region) {
	s.undo = append(s.undo, snapshot(regions))
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = s.redo[:0]
}

// Undo pops the newest undo snapshot, pushes current onto the redo stack and
// returns the popped snapshot. It reports false when there is nothing to
// undo.
func (s *Stack) Undo(current []model.Region) ([]model.Region, bool) {
	if len(s.undo) == 0 {
		return nil, false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, snapshot(current))
	return snapshot(last), true
}

// Redo pops the newest redo snapshot, pushes current onto the undo stack and
// returns the popped snapshot.
func (s *Stack) Redo(current []model.Region) ([]model.Region, bool) {
	if len(s.redo) == 0 {
		return nil, false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, snapshot(current))
	return snapshot(last), true
}

// CanUndo reports whether Undo would succeed.
func (s *Stack) CanUndo() bool {
	return len(s.undo) > 0
}

// CanRedo reports whether Redo would succeed.
func (s *Stack) CanRedo() bool {
	return len(s.redo) > 0
}

// Depth returns the sizes of the undo and redo stacks.
func (s *Stack) Depth() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// Clear drops every snapshot, e.g. when another document is opened.
func (s *Stack) Clear() {
	s.undo = s.undo[:0]
	s.redo = s.redo[:0]
}

// Rename rewrites a region id in every stored snapshot. It is used when the
// backend assigns the final id of a locally created region.
func (s *Stack) Rename(oldID, newID string) {
	rename := func(stack [][]model.Region) {
		for _, snap := range stack {
			for i := range snap {
				if snap[i].ID == oldID {
					snap[i].ID = newID
				}
			}
		}
	}
	rename(s.undo)
	rename(s.redo)
}

// Drop removes regions from every stored snapshot so that undo cannot
// resurrect regions that were hard-deleted on the backend.
func (s *Stack) Drop(ids ...string) {
	drop := func(stack [][]model.Region) {
		for n, snap := range stack {
			kept := snap[:0]
			for _, r := range snap {
				if !slices.Contains(ids, r.ID) {
					kept = append(kept, r)
				}
			}
			stack[n] = kept
		}
	}
	drop(s.undo)
	drop(s.redo)
}

func snapshot(regions []model.Region) []model.Region {
	out := model.CloneRegions(regions)
	if out == nil {
		out = []model.Region{}
	}
	return out
}
