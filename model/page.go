package model

// TextBlock is a unit of extracted or OCR'd text with its position on the
// page. The region engine only uses BBox, as a snapping reference.
type TextBlock struct {
	Text       string  `json:"text"`
	BBox       BBox    `json:"bbox"`
	Confidence float64 `json:"confidence"`
	IsOCR      bool    `json:"is_ocr"`
}

// PageData describes a single rendered page.
type PageData struct {
	PageNumber int         `json:"page_number"` // 1-indexed page number
	Width      float64     `json:"width"`       // Page width in page units
	Height     float64     `json:"height"`      // Page height in page units
	TextBlocks []TextBlock `json:"text_blocks"`
}

// Size returns the page dimensions.
func (p PageData) Size() Size {
	return Size{Width: p.Width, Height: p.Height}
}

// Bounds returns the page rectangle.
func (p PageData) Bounds() BBox {
	return BBox{X1: p.Width, Y1: p.Height}
}

// BlocksInRegion returns the text blocks whose centre lies inside bbox.
func (p PageData) BlocksInRegion(bbox BBox) []TextBlock {
	var blocks []TextBlock
	for _, b := range p.TextBlocks {
		if bbox.Contains(b.BBox.Center()) {
			blocks = append(blocks, b)
		}
	}
	return blocks
}
