package regionedit

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/regionedit/clipboard"
	"github.com/tsawler/regionedit/command"
	"github.com/tsawler/regionedit/debounce"
	"github.com/tsawler/regionedit/gesture"
	"github.com/tsawler/regionedit/history"
	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/outbox"
	"github.com/tsawler/regionedit/overlap"
	"github.com/tsawler/regionedit/selection"
	"github.com/tsawler/regionedit/viewport"
)

// localPrefix marks ids assigned by the Editor to regions the backend has
// not acknowledged yet.
const localPrefix = "local-"

// Editor is the state container of one open document. It owns the region
// array and routes pointer and keyboard input through the gesture machine
// and command dispatcher. Every local change is applied immediately and
// replicated to the Persistence in the background.
//
// All methods are safe for concurrent use.
type Editor struct {
	mu     sync.Mutex
	docID  string
	store  Persistence
	opts   Options
	logger logrus.FieldLogger

	view      *viewport.State
	regions   []model.Region
	page      int
	pageCount int
	pages     map[int]model.PageData
	bitmaps   map[int]model.Size // rendered size per page
	scroll    model.Point
	captured  bool

	selection *selection.Manager
	history   *history.Stack
	gestures  *gesture.Machine
	keys      *command.Dispatcher
	board     clipboard.Board

	outbox    *outbox.Outbox
	reanalyze debounce.Timer

	pendingDraw *model.BBox
	nextLocal   int
	aliases     map[string]string
	closed      bool
}

// New returns an Editor for docID backed by store. The Editor starts on page
// 1 with no regions; call Load or SetRegions to populate it.
func New(docID string, store Persistence, opts Options) (*Editor, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, ErrNoDocument
	}
	if store == nil {
		return nil, errors.New("regionedit: nil persistence")
	}
	opts = opts.withDefaults()

	e := &Editor{
		docID:     docID,
		store:     store,
		opts:      opts,
		logger:    opts.Logger.WithField("doc_id", docID),
		view:      viewport.NewState(),
		page:      1,
		pageCount: opts.PageCount,
		pages:     make(map[int]model.PageData),
		bitmaps:   make(map[int]model.Size),
		selection: selection.New(),
		history:   history.New(opts.HistoryLimit),
		board:     opts.Clipboard,
		outbox:    outbox.New(opts.Replication),
		aliases:   make(map[string]string),
	}
	e.gestures = gesture.New(host{e}, e.view)
	e.keys = command.New(actions{e})
	return e, nil
}

// DocumentID returns the id of the open document.
func (e *Editor) DocumentID() string {
	return e.docID
}

// View returns the shared viewport state. The host updates the container
// rectangle and rendered image size on it as the page is laid out.
func (e *Editor) View() *viewport.State {
	return e.view
}

// Regions returns a copy of the region array.
func (e *Editor) Regions() []model.Region {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.CloneRegions(e.regions)
}

// Region returns the region with the given id.
func (e *Editor) Region(id string) (model.Region, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if i := model.IndexOf(e.regions, id); i >= 0 {
		return e.regions[i], true
	}
	return model.Region{}, false
}

// SetRegions replaces the region array wholesale, as after a reload from
// the backend. The undo history is cleared and selected ids that no longer
// exist are dropped.
func (e *Editor) SetRegions(regions []model.Region) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.setRegionsLocked(regions)
}

func (e *Editor) setRegionsLocked(regions []model.Region) {
	e.gestures.Cancel()
	e.regions = model.CloneRegions(regions)
	e.selection.Retain(e.regions)
	e.history.Clear()
}

// Selected returns the selected ids in selection order.
func (e *Editor) Selected() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.IDs()
}

// Select replaces the selection with the given ids.
func (e *Editor) Select(ids ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Replace(e.presentLocked(ids))
}

// ClearSelection empties the selection.
func (e *Editor) ClearSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selection.Clear()
}

// SelectionBounds returns the display-space union of the selected active
// regions, reported only when two or more are selected.
func (e *Editor) SelectionBounds() (model.BBox, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Bounds(e.regions, e.view.PageToDisplay)
}

// CanUndo reports whether Undo would change anything.
func (e *Editor) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanUndo()
}

// CanRedo reports whether Redo would change anything.
func (e *Editor) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history.CanRedo()
}

// Undo restores the region array to the previous snapshot.
func (e *Editor) Undo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undoLocked()
}

// Redo re-applies the most recently undone change.
func (e *Editor) Redo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redoLocked()
}

func (e *Editor) undoLocked() bool {
	e.gestures.Cancel()
	prev, ok := e.history.Undo(e.regions)
	if !ok {
		return false
	}
	e.restoreLocked(prev)
	e.logHistory("undo")
	return true
}

func (e *Editor) redoLocked() bool {
	e.gestures.Cancel()
	next, ok := e.history.Redo(e.regions)
	if !ok {
		return false
	}
	e.restoreLocked(next)
	e.logHistory("redo")
	return true
}

func (e *Editor) restoreLocked(next []model.Region) {
	before := e.regions
	e.regions = next
	e.selection.Retain(next)
	e.replicateDiffLocked(before, next)
}

func (e *Editor) logHistory(op string) {
	undo, redo := e.history.Depth()
	e.logger.WithFields(logrus.Fields{"op": op, "undo_depth": undo, "redo_depth": redo}).Debug("history restored")
}

func (e *Editor) pushUndoLocked() {
	e.history.Push(e.regions)
}

// DrawMode reports whether draw mode is on.
func (e *Editor) DrawMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gestures.DrawMode()
}

// SetDrawMode switches draw mode.
func (e *Editor) SetDrawMode(on bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gestures.SetDrawMode(on)
}

// Gesture returns the state of the gesture machine.
func (e *Editor) Gesture() gesture.Kind {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gestures.Active()
}

// Preview returns the display-space rectangle of an active lasso or draw.
func (e *Editor) Preview() (model.BBox, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gestures.Preview()
}

// PointerCaptured reports whether the active gesture wants every pointer
// event, even those outside the page.
func (e *Editor) PointerCaptured() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.captured
}

// Scroll returns the scroll offset of the page container.
func (e *Editor) Scroll() model.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scroll
}

// SetScroll records the scroll offset after the host scrolled the
// container itself.
func (e *Editor) SetScroll(offset model.Point) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.scroll = offset
}

// Zoom returns the current zoom factor.
func (e *Editor) Zoom() float64 {
	return e.view.Zoom()
}

// SetZoom sets the zoom factor within the viewport limits.
func (e *Editor) SetZoom(z float64) {
	e.view.SetZoom(z)
}

// ZoomIn steps the zoom up and returns the new factor.
func (e *Editor) ZoomIn() float64 {
	return e.view.ZoomIn()
}

// ZoomOut steps the zoom down and returns the new factor.
func (e *Editor) ZoomOut() float64 {
	return e.view.ZoomOut()
}

// ResetZoom restores the default zoom.
func (e *Editor) ResetZoom() float64 {
	return e.view.ResetZoom()
}

// PointerDown feeds a pointer press to the gesture machine and reports
// whether a gesture started. Presses are ignored until the active page's
// data has been shown.
func (e *Editor) PointerDown(ev viewport.Pointer) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.view.PageSize().IsZero() {
		return false
	}
	return e.gestures.Down(ev)
}

// PointerMove feeds pointer motion to the active gesture.
func (e *Editor) PointerMove(ev viewport.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gestures.Move(ev)
}

// PointerUp finishes the active gesture.
func (e *Editor) PointerUp(ev viewport.Pointer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gestures.Up(ev)
}

// CancelGesture aborts the active gesture, putting a dragged region back.
func (e *Editor) CancelGesture() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gestures.Cancel()
}

// HandleKey runs the key binding for ev and reports whether the key was
// consumed. Options.OnPageChange is called when the key changed the page.
func (e *Editor) HandleKey(ev command.KeyEvent) bool {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return false
	}
	before := e.page
	consumed := e.keys.Dispatch(ev)
	page := e.page
	e.mu.Unlock()

	if page != before && e.opts.OnPageChange != nil {
		e.opts.OnPageChange(page)
	}
	return consumed
}

// PendingDraw returns the drawn box waiting for a PII type.
func (e *Editor) PendingDraw() (model.BBox, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.pendingDraw == nil {
		return model.BBox{}, false
	}
	return *e.pendingDraw, true
}

// CancelDraw discards the pending draw.
func (e *Editor) CancelDraw() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pendingDraw = nil
}

// Flush blocks until every queued replication request has finished.
func (e *Editor) Flush() {
	e.outbox.Flush()
}

// Close cancels in-flight and queued replication requests and the pending
// reanalysis. The Editor rejects further input.
func (e *Editor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.gestures.Cancel()
	e.pendingDraw = nil
	e.mu.Unlock()

	e.reanalyze.Stop()
	e.outbox.Close()
	e.logger.Debug("editor closed")
	return nil
}

func (e *Editor) newLocalIDLocked() string {
	e.nextLocal++
	return fmt.Sprintf("%s%d", localPrefix, e.nextLocal)
}

func isLocal(id string) bool {
	return strings.HasPrefix(id, localPrefix)
}

// presentLocked filters ids down to those in the region array.
func (e *Editor) presentLocked(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if model.IndexOf(e.regions, id) >= 0 {
			out = append(out, id)
		}
	}
	return out
}

// placeLocked fits a new box on the active page: inside the page and clear
// of active siblings.
func (e *Editor) placeLocked(box model.BBox, id string) model.BBox {
	size := e.view.PageSize()
	box = box.Normalize()
	if !size.IsZero() {
		box = box.ShiftInto(size.Width, size.Height)
	}
	box = overlap.Resolve(box, id, e.page, e.regions)
	if !size.IsZero() {
		box = box.ShiftInto(size.Width, size.Height)
	}
	return box
}

func (e *Editor) notify() {
	if e.opts.OnUpdate != nil {
		e.opts.OnUpdate()
	}
}
