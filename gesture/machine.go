// Package gesture implements the pointer state machine of the page viewer.
//
// A Machine runs at most one gesture at a time:
//
//	Idle -> Panning | Lassoing | Drawing | Moving | Resizing -> Idle
//
// Down picks the gesture from what lies under the pointer and the current
// modifiers; Move and Up are routed to the active gesture only. Every
// handler reads zoom and image size from the shared viewport.State when it
// runs, so a drag that spans a zoom change keeps mapping correctly.
//
// Move and resize share a dead zone: nothing is mutated and no undo
// snapshot is taken until the pointer has travelled more than DeadZone page
// units (Manhattan distance). A plain click on a region therefore selects it
// without touching the history.
package gesture

import (
	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/overlap"
	"github.com/tsawler/regionedit/snap"
	"github.com/tsawler/regionedit/viewport"
)

// Gesture thresholds.
const (
	DeadZone = 3.0  // page units, Manhattan
	MinSize  = 5.0  // page units per axis
	MinLasso = 5.0  // display px per axis
	MinDraw  = 10.0 // display px per axis
)

// Kind is the state of a Machine.
type Kind int

const (
	Idle Kind = iota
	Panning
	Lassoing
	Drawing
	Moving
	Resizing
)

func (k Kind) String() string {
	switch k {
	case Idle:
		return "idle"
	case Panning:
		return "panning"
	case Lassoing:
		return "lassoing"
	case Drawing:
		return "drawing"
	case Moving:
		return "moving"
	case Resizing:
		return "resizing"
	default:
		return "unknown"
	}
}

// Host is the state container the machine mutates. Calls are made
// synchronously from Down, Move, Up and Cancel.
type Host interface {
	// ActivePage returns the 1-indexed page being edited.
	ActivePage() int
	// Regions returns the live region array. The machine does not retain it.
	Regions() []model.Region
	// TextBlocks returns the snapping references of the active page.
	TextBlocks() []model.TextBlock

	SelectedIDs() []string
	SelectOnly(id string)
	ToggleSelected(id string)
	ClearSelection()
	// SelectRegions replaces the selection with ids, or adds them when
	// union is set.
	SelectRegions(ids []string, union bool)

	// SetRegionBBox updates a region's geometry locally without
	// persisting it.
	SetRegionBBox(id string, bbox model.BBox)
	// PushUndo snapshots the region array before a mutation.
	PushUndo()

	ScrollOffset() model.Point
	ScrollTo(offset model.Point)

	// CapturePointer and ReleasePointer bracket every gesture so the host
	// keeps routing moves and the release to the machine while the pointer
	// is outside the page.
	CapturePointer()
	ReleasePointer()

	// CommitGeometry persists the final bbox of a moved or resized region
	// and schedules its reanalysis.
	CommitGeometry(id string, bbox model.BBox)
	// ProposeRegion hands a finished draw to the type picker.
	ProposeRegion(bbox model.BBox)
}

type state struct {
	kind Kind

	startClient  model.Point
	startDisplay model.Point
	curDisplay   model.Point
	startPage    model.Point
	startScroll  model.Point

	regionID string
	handle   Handle
	orig     model.BBox
	last     model.BBox
	crossed  bool
}

// Machine is the gesture state machine. It is not safe for concurrent use;
// the host serialises calls.
type Machine struct {
	host     Host
	view     *viewport.State
	drawMode bool
	active   *state
}

// New returns an idle Machine.
func New(host Host, view *viewport.State) *Machine {
	return &Machine{host: host, view: view}
}

// SetDrawMode switches draw mode. While on, every press starts a draw.
func (m *Machine) SetDrawMode(on bool) {
	m.drawMode = on
}

// DrawMode reports whether draw mode is on.
func (m *Machine) DrawMode() bool {
	return m.drawMode
}

// Active returns the current state.
func (m *Machine) Active() Kind {
	if m.active == nil {
		return Idle
	}
	return m.active.kind
}

// Preview returns the display-space rectangle of an active lasso or draw.
func (m *Machine) Preview() (model.BBox, bool) {
	if m.active == nil || (m.active.kind != Lassoing && m.active.kind != Drawing) {
		return model.BBox{}, false
	}
	return model.NewBBoxFromPoints(m.active.startDisplay, m.active.curDisplay), true
}

// Down handles a pointer press and reports whether a gesture started. A
// press while a gesture is active is ignored.
func (m *Machine) Down(ev viewport.Pointer) bool {
	if m.active != nil {
		return false
	}

	pt := m.view.ToDisplay(ev)
	st := &state{
		startClient:  ev.Client(),
		startDisplay: pt,
		curDisplay:   pt,
		startPage:    m.view.ToPage(ev),
	}

	if m.drawMode {
		st.kind = Drawing
		return m.begin(st)
	}

	page := m.host.ActivePage()
	regions := m.host.Regions()
	hit := HitTest(pt, regions, m.host.SelectedIDs(), page, m.view.PageToDisplay)

	switch hit.Kind {
	case HitHandle:
		st.kind = Resizing
		st.regionID = hit.RegionID
		st.handle = hit.Handle
		st.orig = regions[model.IndexOf(regions, hit.RegionID)].BBox
		st.last = st.orig
		m.host.SelectOnly(hit.RegionID)

	case HitBody:
		if ev.CommandKey() {
			m.host.ToggleSelected(hit.RegionID)
			return false
		}
		st.kind = Moving
		st.regionID = hit.RegionID
		st.orig = regions[model.IndexOf(regions, hit.RegionID)].BBox
		st.last = st.orig
		m.host.SelectOnly(hit.RegionID)

	default:
		if ev.CommandKey() {
			st.kind = Lassoing
		} else {
			st.kind = Panning
			st.startScroll = m.host.ScrollOffset()
			m.host.ClearSelection()
		}
	}
	return m.begin(st)
}

func (m *Machine) begin(st *state) bool {
	m.active = st
	m.host.CapturePointer()
	return true
}

// Move handles pointer motion for the active gesture.
func (m *Machine) Move(ev viewport.Pointer) {
	st := m.active
	if st == nil {
		return
	}

	switch st.kind {
	case Panning:
		d := ev.Client().Sub(st.startClient)
		m.host.ScrollTo(st.startScroll.Sub(d))

	case Lassoing, Drawing:
		st.curDisplay = m.view.ToDisplay(ev)

	case Moving, Resizing:
		d := m.view.ToPage(ev).Sub(st.startPage)
		if !st.crossed {
			if d.Manhattan() <= DeadZone {
				return
			}
			st.crossed = true
			m.host.PushUndo()
		}
		if st.kind == Moving {
			st.last = m.moved(st, d)
		} else {
			st.last = m.resized(st, d)
		}
		m.host.SetRegionBBox(st.regionID, st.last)
	}
}

// Up finishes the active gesture.
func (m *Machine) Up(ev viewport.Pointer) {
	st := m.active
	if st == nil {
		return
	}
	m.active = nil
	defer m.host.ReleasePointer()

	switch st.kind {
	case Lassoing:
		st.curDisplay = m.view.ToDisplay(ev)
		rect := model.NewBBoxFromPoints(st.startDisplay, st.curDisplay)
		ids, ok := LassoHits(rect, m.host.Regions(), m.host.ActivePage(), m.view.DisplayToPage)
		if ok {
			m.host.SelectRegions(ids, ev.CommandKey())
		}

	case Drawing:
		st.curDisplay = m.view.ToDisplay(ev)
		rect := model.NewBBoxFromPoints(st.startDisplay, st.curDisplay)
		if rect.Width() < MinDraw || rect.Height() < MinDraw {
			return
		}
		box := m.view.DisplayToPage(rect)
		box = snap.ToText(box, snap.All, m.host.TextBlocks(), m.view.ImageSize(), m.view.PageSize())
		box = clampTo(box, m.view.PageSize())
		m.host.ProposeRegion(box)

	case Moving, Resizing:
		if st.crossed {
			m.host.CommitGeometry(st.regionID, st.last)
		}
	}
}

// Cancel aborts the active gesture without committing it. A moved or
// resized region is put back where it started.
func (m *Machine) Cancel() {
	st := m.active
	if st == nil {
		return
	}
	m.active = nil
	if (st.kind == Moving || st.kind == Resizing) && st.crossed {
		m.host.SetRegionBBox(st.regionID, st.orig)
	}
	m.host.ReleasePointer()
}

func (m *Machine) moved(st *state, d model.Point) model.BBox {
	size := m.view.PageSize()
	box := shiftInto(st.orig.Translate(d.X, d.Y), size)
	box = overlap.Resolve(box, st.regionID, m.host.ActivePage(), m.host.Regions())
	return shiftInto(box, size)
}

func (m *Machine) resized(st *state, d model.Point) model.BBox {
	size := m.view.PageSize()
	edges := st.handle.Edges()

	box := st.orig
	if edges.Left {
		box.X0 = st.orig.X0 + d.X
	}
	if edges.Right {
		box.X1 = st.orig.X1 + d.X
	}
	if edges.Top {
		box.Y0 = st.orig.Y0 + d.Y
	}
	if edges.Bottom {
		box.Y1 = st.orig.Y1 + d.Y
	}
	box = enforceMin(box, edges)
	box = clampTo(box, size)
	box = snap.ToText(box, edges, m.host.TextBlocks(), m.view.ImageSize(), size)
	// a padded block edge may lie past the page bound
	box = clampTo(box, size)
	box = enforceMin(box, edges)
	box = overlap.Resolve(box, st.regionID, m.host.ActivePage(), m.host.Regions())
	return shiftInto(box, size)
}

// enforceMin keeps each axis at least MinSize wide by moving the edge the
// handle drags and holding the opposite one.
func enforceMin(box model.BBox, edges snap.Edges) model.BBox {
	if box.X1-box.X0 < MinSize {
		if edges.Left {
			box.X0 = box.X1 - MinSize
		} else {
			box.X1 = box.X0 + MinSize
		}
	}
	if box.Y1-box.Y0 < MinSize {
		if edges.Top {
			box.Y0 = box.Y1 - MinSize
		} else {
			box.Y1 = box.Y0 + MinSize
		}
	}
	return box
}

// clampTo and shiftInto are no-ops until the page size is known.
func clampTo(box model.BBox, size model.Size) model.BBox {
	if size.IsZero() {
		return box
	}
	return box.ClampTo(size.Width, size.Height)
}

func shiftInto(box model.BBox, size model.Size) model.BBox {
	if size.IsZero() {
		return box
	}
	return box.ShiftInto(size.Width, size.Height)
}
