package ocr

import (
	"errors"
	"image"
	"strings"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
// Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultMinConfidence drops words Tesseract is less than 30% sure of.
const DefaultMinConfidence = 30.0

// Word is one recognised word in bitmap pixels. Confidence is 0-100 as
// reported by Tesseract.
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64
}

// Blocks converts recognised words into page-space text blocks. Blank
// words, empty boxes and words below minConfidence are skipped. The bitmap
// to page scale is taken per axis from imageSize and pageSize.
func Blocks(words []Word, imageSize, pageSize model.Size, minConfidence float64) []model.TextBlock {
	blocks := make([]model.TextBlock, 0, len(words))
	for _, w := range words {
		text := strings.TrimSpace(w.Text)
		if text == "" || w.Box.Empty() || w.Confidence < minConfidence {
			continue
		}
		px := model.BBox{
			X0: float64(w.Box.Min.X),
			Y0: float64(w.Box.Min.Y),
			X1: float64(w.Box.Max.X),
			Y1: float64(w.Box.Max.Y),
		}
		blocks = append(blocks, model.TextBlock{
			Text:       text,
			BBox:       viewport.DisplayBBoxToPage(px, imageSize, pageSize),
			Confidence: w.Confidence / 100,
			IsOCR:      true,
		})
	}
	return blocks
}
