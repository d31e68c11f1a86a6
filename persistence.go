package regionedit

import (
	"context"
	"errors"

	"github.com/tsawler/regionedit/model"
)

// Errors returned by the Editor.
var (
	// ErrNoDocument is returned by New when no document id is given.
	ErrNoDocument = errors.New("no document id")

	// ErrNotSupported is returned when the Persistence implementation does
	// not provide an optional operation.
	ErrNotSupported = errors.New("operation not supported by persistence")

	// ErrRegionNotFound is returned for an id that is not in the region set.
	ErrRegionNotFound = errors.New("region not found")

	// ErrNoPendingDraw is returned by ConfirmDraw when no drawn box is
	// waiting for a type.
	ErrNoPendingDraw = errors.New("no pending draw")

	// ErrClosed is returned by operations on a closed Editor.
	ErrClosed = errors.New("editor closed")
)

// Persistence is the remote source of truth for a document's regions.
// *client.Client implements it along with every optional interface below.
type Persistence interface {
	SetRegionAction(ctx context.Context, docID, regionID string, action model.Action) error
	BatchSetRegionAction(ctx context.Context, docID string, regionIDs []string, action model.Action) error
	UpdateRegionBBox(ctx context.Context, docID, regionID string, bbox model.BBox) error
	AddManualRegion(ctx context.Context, docID string, region model.Region) (model.AddedRegion, error)
	ReanalyzeRegion(ctx context.Context, docID, regionID string) (model.Reanalysis, error)
	HighlightAllRegions(ctx context.Context, docID, regionID string) (model.HighlightResult, error)
}

// Loader fetches a document's regions and page metadata.
type Loader interface {
	GetRegions(ctx context.Context, docID string, page int) ([]model.Region, error)
	GetPage(ctx context.Context, docID string, page int) (model.PageData, error)
}

// Syncer pushes every region's action and bbox in one call.
type Syncer interface {
	SyncRegions(ctx context.Context, docID string, items []model.SyncItem) (int, error)
}

// Deleter hard-deletes regions.
type Deleter interface {
	DeleteRegion(ctx context.Context, docID, regionID string) error
	BatchDeleteRegions(ctx context.Context, docID string, regionIDs []string) (int, error)
}

// FieldEditor changes a region's label or text. Both edits propagate to
// regions with the same text on the backend.
type FieldEditor interface {
	UpdateRegionLabel(ctx context.Context, docID, regionID string, piiType model.PIIType) ([]model.RegionUpdate, error)
	UpdateRegionText(ctx context.Context, docID, regionID, text string) ([]model.RegionUpdate, error)
}

// TextRecognizer extracts word blocks from a page bitmap. *ocr.Client
// implements it.
type TextRecognizer interface {
	TextBlocks(imageData []byte, pageSize model.Size) ([]model.TextBlock, error)
}
