//go:build !ocr

package ocr

import "github.com/tsawler/regionedit/model"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// SetMinConfidence is a no-op for the stub client.
func (c *Client) SetMinConfidence(conf float64) {}

// TextBlocks returns ErrOCRNotEnabled.
func (c *Client) TextBlocks(imageData []byte, pageSize model.Size) ([]model.TextBlock, error) {
	return nil, ErrOCRNotEnabled
}
