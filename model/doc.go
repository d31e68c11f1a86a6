// Package model provides the data types shared by every part of the region
// editor.
//
// # Coordinate spaces
//
// All stored geometry lives in page coordinate space: the page's own unit
// system with the origin at the top-left corner, independent of zoom or of
// the pixel size of the rendered bitmap. Conversions to and from display
// space are handled by the viewport package.
//
// # Regions
//
// A [Region] is an axis-aligned rectangle on one page that holds, or may
// hold, personally identifiable information. Its [Action] records what the
// reviewer decided to do with it:
//
//   - [ActionPending] - not reviewed yet
//   - [ActionRemove] - redact permanently
//   - [ActionTokenize] - replace with a reversible token
//   - [ActionCancel] - ignore; the region is soft-deleted
//
// # Geometry
//
//   - [BBox] - x0/y0/x1/y1 rectangle with overlap, union, clamping and
//     shifting helpers
//   - [Point] - 2D point
//   - [Size] - width/height pair
//
// # Collaborator results
//
// [AddedRegion], [Reanalysis], [HighlightResult] and [SyncItem] mirror the
// payloads exchanged with the redaction backend.
package model
