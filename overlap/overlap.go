// Package overlap pushes a proposed region rectangle out of collisions with
// its siblings on the same page.
//
// Resolution is sequential: siblings are visited in slice order and each
// collision shifts the box along the axis that needs the smaller shift. It
// is deterministic for a fixed ordering but it is not a global solver, so a
// dense cluster of three or more mutually overlapping boxes can still leave
// residual overlap.
package overlap

import (
	"math"

	"github.com/tsawler/regionedit/model"
)

// Resolve returns proposed shifted out of every active sibling on page.
// The region identified by movingID (empty for a region not yet in the set)
// and cancelled regions are ignored.
func Resolve(proposed model.BBox, movingID string, page int, siblings []model.Region) model.BBox {
	box := proposed
	for _, other := range siblings {
		if other.PageNumber != page || !other.Active() {
			continue
		}
		if movingID != "" && other.ID == movingID {
			continue
		}
		if !box.Overlaps(other.BBox) {
			continue
		}
		box = pushOut(box, other.BBox)
	}
	return box
}

// pushOut separates box from other along the cheaper axis. The box ends up
// sharing an edge with other, which does not count as overlap.
func pushOut(box, other model.BBox) model.BBox {
	overlapX := math.Min(box.X1, other.X1) - math.Max(box.X0, other.X0)
	overlapY := math.Min(box.Y1, other.Y1) - math.Max(box.Y0, other.Y0)

	c := box.Center()
	oc := other.Center()

	if overlapX <= overlapY {
		if c.X > oc.X {
			return box.Translate(other.X1-box.X0, 0)
		}
		return box.Translate(other.X0-box.X1, 0)
	}
	if c.Y > oc.Y {
		return box.Translate(0, other.Y1-box.Y0)
	}
	return box.Translate(0, other.Y0-box.Y1)
}
