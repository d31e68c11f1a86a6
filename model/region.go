package model

import "strings"

// Action is the user's disposition for a region.
type Action string

const (
	// ActionPending means the region has not been reviewed yet.
	ActionPending Action = "PENDING"
	// ActionRemove permanently redacts the region's content.
	ActionRemove Action = "REMOVE"
	// ActionTokenize replaces the content with a reversible token.
	ActionTokenize Action = "TOKENIZE"
	// ActionCancel dismisses the highlight and keeps the content. Cancelled
	// regions stay in the region set but are ignored by overlap checks,
	// lasso hit-testing and multi-select aggregation.
	ActionCancel Action = "CANCEL"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	switch a {
	case ActionPending, ActionRemove, ActionTokenize, ActionCancel:
		return true
	}
	return false
}

func (a Action) String() string {
	return string(a)
}

// PIIType is the category of personally identifiable information a region
// holds.
type PIIType string

const (
	PIIPerson        PIIType = "PERSON"
	PIIOrg           PIIType = "ORG"
	PIIEmail         PIIType = "EMAIL"
	PIIPhone         PIIType = "PHONE"
	PIISSN           PIIType = "SSN"
	PIICreditCard    PIIType = "CREDIT_CARD"
	PIIDate          PIIType = "DATE"
	PIIAddress       PIIType = "ADDRESS"
	PIILocation      PIIType = "LOCATION"
	PIIIPAddress     PIIType = "IP_ADDRESS"
	PIIIBAN          PIIType = "IBAN"
	PIIPassport      PIIType = "PASSPORT"
	PIIDriverLicense PIIType = "DRIVER_LICENSE"
	PIICustom        PIIType = "CUSTOM"
	PIIUnknown       PIIType = "UNKNOWN"
)

// ParsePIIType maps a case-insensitive name to a PIIType, falling back to
// PIIUnknown.
func ParsePIIType(s string) PIIType {
	t := PIIType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case PIIPerson, PIIOrg, PIIEmail, PIIPhone, PIISSN, PIICreditCard,
		PIIDate, PIIAddress, PIILocation, PIIIPAddress, PIIIBAN,
		PIIPassport, PIIDriverLicense, PIICustom:
		return t
	}
	return PIIUnknown
}

// Source identifies the detector that produced a region.
type Source string

const (
	SourceRegex  Source = "REGEX"
	SourceNER    Source = "NER"
	SourceLLM    Source = "LLM"
	SourceManual Source = "MANUAL"
)

// Region is a rectangular PII region on one page of a document.
type Region struct {
	ID         string  `json:"id"`
	PageNumber int     `json:"page_number"` // 1-indexed
	BBox       BBox    `json:"bbox"`        // page coordinates
	Text       string  `json:"text"`
	PIIType    PIIType `json:"pii_type"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
	CharStart  int     `json:"char_start"`
	CharEnd    int     `json:"char_end"`
	Action     Action  `json:"action"`
}

// Active reports whether the region takes part in overlap checks and
// selection, i.e. it has not been cancelled.
func (r Region) Active() bool {
	return r.Action != ActionCancel
}

// CloneRegions returns a copy of the slice. Region has no reference fields
// so a shallow element copy is a deep copy.
func CloneRegions(regions []Region) []Region {
	if regions == nil {
		return nil
	}
	out := make([]Region, len(regions))
	copy(out, regions)
	return out
}

// IndexOf returns the index of the region with the given id, or -1.
func IndexOf(regions []Region, id string) int {
	for i := range regions {
		if regions[i].ID == id {
			return i
		}
	}
	return -1
}

// OnPage returns the regions on the given page, in slice order.
func OnPage(regions []Region, page int) []Region {
	var out []Region
	for _, r := range regions {
		if r.PageNumber == page {
			out = append(out, r)
		}
	}
	return out
}
