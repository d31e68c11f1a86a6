// Package viewport converts pointer positions between the three coordinate
// spaces used by the page viewer:
//
//   - client space: raw pointer coordinates reported by the host window
//   - display space: pixels of the rendered page bitmap at zoom 1, relative
//     to the unscaled container origin
//   - page space: the page's native unit system, where regions are stored
//
// Client to display divides by the zoom factor after removing the container
// offset. Display to page multiplies, per axis, by pageSize/imageSize.
package viewport

import (
	"sync"

	"github.com/tsawler/regionedit/model"
)

// Zoom limits used by ZoomIn, ZoomOut and ResetZoom.
const (
	ZoomStep    = 0.25
	MinZoom     = 0.25
	MaxZoom     = 4.0
	DefaultZoom = 1.0
)

// Rect is the on-screen rectangle of the page container in client space.
type Rect struct {
	Left, Top, Width, Height float64
}

// Pointer is a pointer event in client space.
type Pointer struct {
	ClientX, ClientY float64
	Ctrl, Meta       bool
	Shift, Alt       bool
}

// Client returns the raw client position.
func (p Pointer) Client() model.Point {
	return model.Point{X: p.ClientX, Y: p.ClientY}
}

// CommandKey reports whether the platform command modifier (Ctrl or Cmd) is
// held.
func (p Pointer) CommandKey() bool {
	return p.Ctrl || p.Meta
}

// ToDisplay converts a pointer event to display space relative to the
// unscaled container.
func ToDisplay(ev Pointer, container Rect, zoom float64) model.Point {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return model.Point{
		X: (ev.ClientX - container.Left) / zoom,
		Y: (ev.ClientY - container.Top) / zoom,
	}
}

// Scale returns page units per display pixel on each axis. A missing image
// or page size yields an identity scale.
func Scale(imageSize, pageSize model.Size) (sx, sy float64) {
	if imageSize.IsZero() || pageSize.IsZero() {
		return 1, 1
	}
	return pageSize.Width / imageSize.Width, pageSize.Height / imageSize.Height
}

// DisplayToPage converts a display-space point to page space.
func DisplayToPage(p model.Point, imageSize, pageSize model.Size) model.Point {
	sx, sy := Scale(imageSize, pageSize)
	return model.Point{X: p.X * sx, Y: p.Y * sy}
}

// PageToDisplay converts a page-space point to display space.
func PageToDisplay(p model.Point, imageSize, pageSize model.Size) model.Point {
	sx, sy := Scale(imageSize, pageSize)
	return model.Point{X: p.X / sx, Y: p.Y / sy}
}

// DisplayBBoxToPage converts a display-space box to page space.
func DisplayBBoxToPage(b model.BBox, imageSize, pageSize model.Size) model.BBox {
	sx, sy := Scale(imageSize, pageSize)
	return model.BBox{X0: b.X0 * sx, Y0: b.Y0 * sy, X1: b.X1 * sx, Y1: b.Y1 * sy}
}

// PageBBoxToDisplay converts a page-space box to display space.
func PageBBoxToDisplay(b model.BBox, imageSize, pageSize model.Size) model.BBox {
	sx, sy := Scale(imageSize, pageSize)
	return model.BBox{X0: b.X0 / sx, Y0: b.Y0 / sy, X1: b.X1 / sx, Y1: b.Y1 / sy}
}

// State holds the render-time values pointer handlers depend on. The host
// updates it on every render, window resize and image load; handlers read it
// when they run, so a handler installed at the start of a drag always sees
// the latest zoom and image size.
type State struct {
	mu        sync.RWMutex
	zoom      float64
	imageSize model.Size
	pageSize  model.Size
	container Rect
}

// NewState creates a State at the default zoom.
func NewState() *State {
	return &State{zoom: DefaultZoom}
}

// Zoom returns the current zoom factor.
func (s *State) Zoom() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.zoom
}

// SetZoom sets the zoom factor, clamped to [MinZoom, MaxZoom].
func (s *State) SetZoom(z float64) {
	s.mu.Lock()
	s.zoom = clampZoom(z)
	s.mu.Unlock()
}

// ZoomIn increases the zoom by one step and returns the new value.
func (s *State) ZoomIn() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = clampZoom(s.zoom + ZoomStep)
	return s.zoom
}

// ZoomOut decreases the zoom by one step and returns the new value.
func (s *State) ZoomOut() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = clampZoom(s.zoom - ZoomStep)
	return s.zoom
}

// ResetZoom restores the default zoom.
func (s *State) ResetZoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zoom = DefaultZoom
	return s.zoom
}

// ImageSize returns the displayed bitmap size at zoom 1.
func (s *State) ImageSize() model.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imageSize
}

// SetImageSize records a freshly measured bitmap size.
func (s *State) SetImageSize(sz model.Size) {
	s.mu.Lock()
	s.imageSize = sz
	s.mu.Unlock()
}

// PageSize returns the native size of the active page.
func (s *State) PageSize() model.Size {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pageSize
}

// SetPageSize records the native size of the active page.
func (s *State) SetPageSize(sz model.Size) {
	s.mu.Lock()
	s.pageSize = sz
	s.mu.Unlock()
}

// Container returns the container rectangle in client space.
func (s *State) Container() Rect {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.container
}

// SetContainer records the container rectangle in client space.
func (s *State) SetContainer(r Rect) {
	s.mu.Lock()
	s.container = r
	s.mu.Unlock()
}

// Scale returns page units per display pixel for the current sizes.
func (s *State) Scale() (sx, sy float64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Scale(s.imageSize, s.pageSize)
}

// ToDisplay converts a pointer event using the current container and zoom.
func (s *State) ToDisplay(ev Pointer) model.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ToDisplay(ev, s.container, s.zoom)
}

// ToPage converts a pointer event all the way to page space.
func (s *State) ToPage(ev Pointer) model.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DisplayToPage(ToDisplay(ev, s.container, s.zoom), s.imageSize, s.pageSize)
}

// DisplayToPage converts a display-space box using the current sizes.
func (s *State) DisplayToPage(b model.BBox) model.BBox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DisplayBBoxToPage(b, s.imageSize, s.pageSize)
}

// PageToDisplay converts a page-space box using the current sizes.
func (s *State) PageToDisplay(b model.BBox) model.BBox {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return PageBBoxToDisplay(b, s.imageSize, s.pageSize)
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
