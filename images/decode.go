package images

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
)

// ImageFormat represents supported encoded image formats.
type ImageFormat string

const (
	// FormatJPEG is the JPEG image format.
	FormatJPEG ImageFormat = "jpeg"
	// FormatPNG is the PNG image format.
	FormatPNG ImageFormat = "png"
	// FormatWebP is the WebP image format.
	FormatWebP ImageFormat = "webp"
)

// Decode decodes an encoded image payload into an Image carrying the given
// orientation tag. The tag is supplied by the caller because it travels in
// container metadata the pixel decoder does not see.
//
// Arguments:
//   - data: The encoded image bytes.
//   - format: The container format, or "" to auto-detect from the payload.
//   - orientation: The EXIF orientation tag reported for the payload.
//
// Returns:
//   - *Image: The decoded bitmap with its orientation tag attached.
//   - error: An error if the payload cannot be decoded.
func Decode(data []byte, format ImageFormat, orientation Orientation) (*Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty image data")
	}
	if !orientation.Valid() {
		return nil, fmt.Errorf("unknown orientation tag %d", orientation)
	}

	var (
		img image.Image
		err error
	)
	switch format {
	case FormatJPEG:
		img, err = jpeg.Decode(bytes.NewReader(data))
	case FormatPNG:
		img, err = png.Decode(bytes.NewReader(data))
	case FormatWebP:
		img, err = webp.Decode(bytes.NewReader(data))
	case "":
		img, _, err = image.Decode(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Image{Pixels: img, Orientation: orientation}, nil
}
