package model

// AddedRegion is the backend's answer to a manual region creation. Besides
// the assigned id it carries the text found under the box and any sibling
// regions the backend created for other occurrences of that text.
type AddedRegion struct {
	RegionID     string   `json:"region_id"`
	Text         string   `json:"text"`
	PIIType      PIIType  `json:"pii_type"`
	BBox         BBox     `json:"bbox"`
	NewRegions   []Region `json:"new_regions"`
	AllIDs       []string `json:"all_ids"`
	CancelledIDs []string `json:"cancelled_ids"`
}

// Reanalysis is the content re-extracted under a region's current geometry.
type Reanalysis struct {
	RegionID   string  `json:"region_id"`
	Text       string  `json:"text"`
	PIIType    PIIType `json:"pii_type"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Apply merges the reanalysis into r the way the backend does: the text is
// replaced when non-empty and the classification only when the detector
// was confident.
func (ra Reanalysis) Apply(r *Region) {
	if ra.Text != "" {
		r.Text = ra.Text
	}
	if ra.Confidence > 0 {
		r.PIIType = ra.PIIType
		r.Confidence = ra.Confidence
		r.Source = ra.Source
	}
}

// HighlightResult lists the regions created for every occurrence of a
// region's text and the full set of ids that match it. CancelledIDs are
// regions the backend cancelled because a new region superseded them.
type HighlightResult struct {
	Created      int      `json:"created"`
	NewRegions   []Region `json:"new_regions"`
	AllIDs       []string `json:"all_ids"`
	CancelledIDs []string `json:"cancelled_ids"`
}

// RegionUpdate is one region touched by a label or text edit. The backend
// propagates those edits to every region with the same text.
type RegionUpdate struct {
	ID      string  `json:"id"`
	PIIType PIIType `json:"pii_type,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// SyncItem is the minimal region state pushed to the backend before
// anonymization.
type SyncItem struct {
	ID     string `json:"id"`
	Action Action `json:"action"`
	BBox   BBox   `json:"bbox"`
}

// SyncItems converts regions into sync items.
func SyncItems(regions []Region) []SyncItem {
	items := make([]SyncItem, 0, len(regions))
	for _, r := range regions {
		items = append(items, SyncItem{ID: r.ID, Action: r.Action, BBox: r.BBox})
	}
	return items
}
