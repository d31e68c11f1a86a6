package regionedit

import (
	"github.com/tsawler/regionedit/model"
)

// host adapts the Editor to gesture.Host. The machine is only driven from
// Editor methods that already hold e.mu, so every method here reads and
// writes the editor state directly.
type host struct {
	e *Editor
}

func (h host) ActivePage() int { return h.e.page }
func (h host) Regions() []model.Region { return h.e.regions }
func (h host) TextBlocks() []model.TextBlock { return h.e.pages[h.e.page].TextBlocks }
func (h host) SelectedIDs() []string { return h.e.selection.IDs() }
func (h host) SelectOnly(id string) { h.e.selection.Set(id) }
func (h host) ToggleSelected(id string) { h.e.selection.Toggle(id) }
func (h host) ClearSelection() { h.e.selection.Clear() }
func (h host) PushUndo() { h.e.pushUndoLocked() }
func (h host) ScrollOffset() model.Point { return h.e.scroll }
func (h host) ScrollTo(offset model.Point) { h.e.scroll = offset }
func (h host) CapturePointer() { h.e.captured = true }
func (h host) ReleasePointer() { h.e.captured = false }
func (h host) ProposeRegion(bbox model.BBox) { h.e.pendingDraw = &bbox }

func (h host) SelectRegions(ids []string, union bool) {
	if union {
		h.e.selection.Union(ids)
		return
	}
	h.e.selection.Replace(ids)
}

func (h host) SetRegionBBox(id string, bbox model.BBox) {
	if i := model.IndexOf(h.e.regions, id); i >= 0 {
		h.e.regions[i].BBox = bbox
	}
}

func (h host) CommitGeometry(id string, bbox model.BBox) {
	h.e.replicateBBox(id, bbox)
	h.e.scheduleReanalyze(id)
}

// actions adapts the Editor to command.Actions. Like host, it runs with
// e.mu held.
type actions struct {
	e *Editor
}

func (a actions) PrevPage() { a.e.setPageLocked(a.e.page - 1) }
func (a actions) NextPage() { a.e.setPageLocked(a.e.page + 1) }
func (a actions) ZoomIn() { a.e.view.ZoomIn() }
func (a actions) ZoomOut() { a.e.view.ZoomOut() }
func (a actions) ResetZoom() { a.e.view.ResetZoom() }
func (a actions) Undo() { a.e.undoLocked() }
func (a actions) Redo() { a.e.redoLocked() }
func (a actions) SelectAll() { a.e.selection.SelectAll(a.e.regions, a.e.page) }
func (a actions) ClearSelection() { a.e.selection.Clear() }
func (a actions) HasSelection() bool { return !a.e.selection.Empty() }
func (a actions) TypePickerOpen() bool { return a.e.pendingDraw != nil }
func (a actions) CancelTypePicker() { a.e.pendingDraw = nil }
func (a actions) DrawMode() bool { return a.e.gestures.DrawMode() }
func (a actions) SetDrawMode(on bool) { a.e.gestures.SetDrawMode(on) }

func (a actions) CycleSelection(forward bool) {
	a.e.selection.Cycle(a.e.regions, a.e.page, forward)
}

func (a actions) ApplyToSelection(action model.Action) {
	a.e.applyToSelectionLocked(action)
}

func (a actions) Copy() {
	if _, err := a.e.copyLocked(); err != nil {
		a.e.logger.WithError(err).Warn("copy failed")
	}
}

func (a actions) Paste() {
	if _, err := a.e.pasteLocked(); err != nil {
		a.e.logger.WithError(err).Warn("paste failed")
	}
}
