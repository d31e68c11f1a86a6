package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tsawler/regionedit/model"
)

// GetRegions returns the document's regions. A page of 0 returns all pages.
func (c *Client) GetRegions(ctx context.Context, docID string, page int) ([]model.Region, error) {
	var q url.Values
	if page > 0 {
		q = url.Values{"page_number": {strconv.Itoa(page)}}
	}
	var regions []model.Region
	if err := c.do(ctx, http.MethodGet, c.endpoint(q, "documents", docID, "regions"), nil, &regions); err != nil {
		return nil, err
	}
	return regions, nil
}

// GetPage returns a page's dimensions and text blocks.
func (c *Client) GetPage(ctx context.Context, docID string, page int) (model.PageData, error) {
	var pd model.PageData
	err := c.do(ctx, http.MethodGet, c.endpoint(nil, "documents", docID, "pages", strconv.Itoa(page)), nil, &pd)
	return pd, err
}

// SetRegionAction sets one region's action. The backend applies it to
// linked siblings as well.
func (c *Client) SetRegionAction(ctx context.Context, docID, regionID string, action model.Action) error {
	body := struct {
		RegionID string       `json:"region_id"`
		Action   model.Action `json:"action"`
	}{regionID, action}
	return c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", regionID, "action"), body, nil)
}

// BatchSetRegionAction sets the action of several regions at once.
func (c *Client) BatchSetRegionAction(ctx context.Context, docID string, regionIDs []string, action model.Action) error {
	body := struct {
		RegionIDs []string     `json:"region_ids"`
		Action    model.Action `json:"action"`
	}{regionIDs, action}
	return c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", "batch-action"), body, nil)
}

// UpdateRegionBBox replaces a region's bounding box.
func (c *Client) UpdateRegionBBox(ctx context.Context, docID, regionID string, bbox model.BBox) error {
	return c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", regionID, "bbox"), bbox, nil)
}

// AddManualRegion creates a region from a drawn or pasted box. The id of
// region is ignored; the backend assigns one.
func (c *Client) AddManualRegion(ctx context.Context, docID string, region model.Region) (model.AddedRegion, error) {
	var added model.AddedRegion
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "documents", docID, "regions", "add"), region, &added)
	return added, err
}

// ReanalyzeRegion re-extracts and re-classifies the content under a
// region's current bbox.
func (c *Client) ReanalyzeRegion(ctx context.Context, docID, regionID string) (model.Reanalysis, error) {
	var ra model.Reanalysis
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "documents", docID, "regions", regionID, "reanalyze"), nil, &ra)
	return ra, err
}

// HighlightAllRegions creates regions for every other occurrence of a
// region's text.
func (c *Client) HighlightAllRegions(ctx context.Context, docID, regionID string) (model.HighlightResult, error) {
	body := struct {
		RegionID string `json:"region_id"`
	}{regionID}
	var res model.HighlightResult
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "documents", docID, "regions", "highlight-all"), body, &res)
	return res, err
}

// SyncRegions pushes every region's action and bbox in one request and
// returns how many the backend matched.
func (c *Client) SyncRegions(ctx context.Context, docID string, items []model.SyncItem) (int, error) {
	var res struct {
		Synced int `json:"synced"`
	}
	err := c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", "sync"), items, &res)
	return res.Synced, err
}

// DeleteRegion hard-deletes a region and its linked siblings.
func (c *Client) DeleteRegion(ctx context.Context, docID, regionID string) error {
	return c.do(ctx, http.MethodDelete, c.endpoint(nil, "documents", docID, "regions", regionID), nil, nil)
}

// BatchDeleteRegions hard-deletes several regions and returns how many the
// backend removed.
func (c *Client) BatchDeleteRegions(ctx context.Context, docID string, regionIDs []string) (int, error) {
	body := struct {
		RegionIDs []string     `json:"region_ids"`
		Action    model.Action `json:"action"`
	}{regionIDs, model.ActionRemove}
	var res struct {
		Deleted int `json:"deleted"`
	}
	err := c.do(ctx, http.MethodPost, c.endpoint(nil, "documents", docID, "regions", "batch-delete"), body, &res)
	return res.Deleted, err
}

// UpdateRegionLabel changes a region's PII type and returns every region
// the backend updated.
func (c *Client) UpdateRegionLabel(ctx context.Context, docID, regionID string, piiType model.PIIType) ([]model.RegionUpdate, error) {
	body := struct {
		PIIType model.PIIType `json:"pii_type"`
	}{piiType}
	var res struct {
		Updated []model.RegionUpdate `json:"updated"`
	}
	err := c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", regionID, "label"), body, &res)
	return res.Updated, err
}

// UpdateRegionText changes a region's text and returns every region the
// backend updated.
func (c *Client) UpdateRegionText(ctx context.Context, docID, regionID, text string) ([]model.RegionUpdate, error) {
	body := struct {
		Text string `json:"text"`
	}{text}
	var res struct {
		Updated []model.RegionUpdate `json:"updated"`
	}
	err := c.do(ctx, http.MethodPut, c.endpoint(nil, "documents", docID, "regions", regionID, "text"), body, &res)
	return res.Updated, err
}
