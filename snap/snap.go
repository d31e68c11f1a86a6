// Package snap aligns region edges with nearby text blocks.
//
// Snapping is edge-by-edge: only the edges the caller asks for may move, and
// each moves to the closest padded text-block boundary when that boundary is
// within the snap threshold. Both padding and threshold are expressed in
// display pixels and converted to page units, so snapping feels the same at
// every zoom and bitmap resolution.
package snap

import (
	"math"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

// Defaults, in display pixels.
const (
	DefaultPadding   = 2.0
	DefaultThreshold = 8.0
)

// Edges selects which edges of a box are allowed to snap.
type Edges struct {
	Left, Right, Top, Bottom bool
}

// All enables every edge.
var All = Edges{Left: true, Right: true, Top: true, Bottom: true}

// Any reports whether at least one edge is enabled.
func (e Edges) Any() bool {
	return e.Left || e.Right || e.Top || e.Bottom
}

// Options controls padding and threshold, both in display pixels.
type Options struct {
	Padding   float64
	Threshold float64
}

// DefaultOptions returns the standard 2px padding and 8px threshold.
func DefaultOptions() Options {
	return Options{Padding: DefaultPadding, Threshold: DefaultThreshold}
}

// ToText snaps the requested edges of proposed to the text blocks using the
// default options.
func ToText(proposed model.BBox, edges Edges, blocks []model.TextBlock, imageSize, pageSize model.Size) model.BBox {
	return ToTextWithOptions(proposed, edges, blocks, imageSize, pageSize, DefaultOptions())
}

// ToTextWithOptions is ToText with explicit padding and threshold.
func ToTextWithOptions(proposed model.BBox, edges Edges, blocks []model.TextBlock, imageSize, pageSize model.Size, opts Options) model.BBox {
	if len(blocks) == 0 || !edges.Any() {
		return proposed
	}

	sx, sy := viewport.Scale(imageSize, pageSize)
	padX, padY := opts.Padding*sx, opts.Padding*sy
	thrX, thrY := opts.Threshold*sx, opts.Threshold*sy

	left := candidate{best: math.Inf(1)}
	right := candidate{best: math.Inf(1)}
	top := candidate{best: math.Inf(1)}
	bottom := candidate{best: math.Inf(1)}

	for _, blk := range blocks {
		b := blk.BBox
		// broad phase: the block must be within reach of the whole box
		if b.X1 < proposed.X0-thrX || b.X0 > proposed.X1+thrX ||
			b.Y1 < proposed.Y0-thrY || b.Y0 > proposed.Y1+thrY {
			continue
		}
		if edges.Left {
			left.consider(proposed.X0, b.X0-padX)
		}
		if edges.Right {
			right.consider(proposed.X1, b.X1+padX)
		}
		if edges.Top {
			top.consider(proposed.Y0, b.Y0-padY)
		}
		if edges.Bottom {
			bottom.consider(proposed.Y1, b.Y1+padY)
		}
	}

	out := proposed
	if left.within(thrX) {
		out.X0 = left.value
	}
	if right.within(thrX) {
		out.X1 = right.value
	}
	if top.within(thrY) {
		out.Y0 = top.value
	}
	if bottom.within(thrY) {
		out.Y1 = bottom.value
	}

	// never invert the box; drop the snap on an axis that would
	if out.X0 >= out.X1 {
		out.X0, out.X1 = proposed.X0, proposed.X1
	}
	if out.Y0 >= out.Y1 {
		out.Y0, out.Y1 = proposed.Y0, proposed.Y1
	}
	return out
}

// candidate tracks the closest boundary seen for one edge.
type candidate struct {
	value float64
	best  float64
	found bool
}

func (c *candidate) consider(edge, boundary float64) {
	d := math.Abs(boundary - edge)
	if d < c.best {
		c.best = d
		c.value = boundary
		c.found = true
	}
}

func (c candidate) within(threshold float64) bool {
	return c.found && c.best <= threshold
}
