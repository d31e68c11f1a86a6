package gesture

import (
	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/selection"
	"github.com/tsawler/regionedit/snap"
)

// Handle names one of the eight resize handles drawn around a selected
// region.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

// Handles lists every handle, corners first so that a corner wins over the
// adjacent edge handle on tiny boxes.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleE, HandleW}

// Edges returns the box edges the handle moves.
func (h Handle) Edges() snap.Edges {
	var e snap.Edges
	for _, c := range h {
		switch c {
		case 'n':
			e.Top = true
		case 's':
			e.Bottom = true
		case 'e':
			e.Right = true
		case 'w':
			e.Left = true
		}
	}
	return e
}

// Position returns where the handle is drawn for box.
func (h Handle) Position(box model.BBox) model.Point {
	c := box.Center()
	p := c
	e := h.Edges()
	if e.Left {
		p.X = box.X0
	}
	if e.Right {
		p.X = box.X1
	}
	if e.Top {
		p.Y = box.Y0
	}
	if e.Bottom {
		p.Y = box.Y1
	}
	return p
}

// HitKind classifies what lies under the pointer.
type HitKind int

const (
	HitCanvas HitKind = iota
	HitBody
	HitHandle
)

// Hit is the result of HitTest.
type Hit struct {
	Kind     HitKind
	RegionID string
	Handle   Handle
}

// HandleRadius is the display-space pick radius of a resize handle.
const HandleRadius = 6.0

// HitTest finds what a display-space point lands on. A handle of a selected
// region beats a region body, and the topmost (last) region body beats the
// empty canvas. Cancelled regions and regions on other pages are never hit.
// toDisplay converts a page-space box to display space; nil means identity.
func HitTest(pt model.Point, regions []model.Region, selected []string, page int, toDisplay func(model.BBox) model.BBox) Hit {
	display := func(b model.BBox) model.BBox {
		if toDisplay == nil {
			return b
		}
		return toDisplay(b)
	}

	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if r.PageNumber != page || !r.Active() || !slices.Contains(selected, r.ID) {
			continue
		}
		box := display(r.BBox)
		for _, h := range Handles {
			if h.Position(box).Distance(pt) <= HandleRadius {
				return Hit{Kind: HitHandle, RegionID: r.ID, Handle: h}
			}
		}
	}

	for i := len(regions) - 1; i >= 0; i-- {
		r := regions[i]
		if r.PageNumber != page || !r.Active() {
			continue
		}
		if display(r.BBox).Contains(pt) {
			return Hit{Kind: HitBody, RegionID: r.ID}
		}
	}
	return Hit{Kind: HitCanvas}
}

// LassoHits returns the regions hit by a display-space lasso rectangle. It
// reports false when the rectangle is below MinLasso on either axis, which
// makes the lasso a no-op.
func LassoHits(rect model.BBox, regions []model.Region, page int, toPage func(model.BBox) model.BBox) ([]string, bool) {
	rect = rect.Normalize()
	if rect.Width() < MinLasso || rect.Height() < MinLasso {
		return nil, false
	}
	if toPage != nil {
		rect = toPage(rect)
	}
	return selection.Hits(regions, page, rect), true
}
