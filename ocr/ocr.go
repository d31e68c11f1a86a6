//go:build ocr

package ocr

import (
	"fmt"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

// Client wraps Tesseract for word-level recognition.
type Client struct {
	client        *gosseract.Client
	minConfidence float64
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return &Client{client: client, minConfidence: DefaultMinConfidence}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage sets the language(s) for recognition, "+" separated
// (e.g. "eng+deu"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetMinConfidence changes the 0-100 confidence floor below which words
// are dropped.
func (c *Client) SetMinConfidence(conf float64) {
	c.minConfidence = conf
}

// TextBlocks recognises the words in a page bitmap (PNG, JPEG, TIFF, ...)
// and returns them as text blocks in the coordinate space of a page of
// pageSize.
func (c *Client) TextBlocks(imageData []byte, pageSize model.Size) ([]model.TextBlock, error) {
	imageSize, err := viewport.MeasureImageBytes(imageData)
	if err != nil {
		return nil, err
	}
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{Text: b.Word, Box: b.Box, Confidence: b.Confidence})
	}
	return Blocks(words, imageSize, pageSize, c.minConfidence), nil
}
