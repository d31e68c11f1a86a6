package viewport

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/tiff" // register TIFF decoder
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/tsawler/regionedit/model"
)

// MeasureImage reads only the header of an encoded page bitmap and returns
// its pixel dimensions and format name.
func MeasureImage(r io.Reader) (model.Size, string, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return model.Size{}, "", fmt.Errorf("failed to read image header: %w", err)
	}
	return model.Size{Width: float64(cfg.Width), Height: float64(cfg.Height)}, format, nil
}

// MeasureImageBytes is MeasureImage for an in-memory bitmap.
func MeasureImageBytes(data []byte) (model.Size, error) {
	sz, _, err := MeasureImage(bytes.NewReader(data))
	return sz, err
}
