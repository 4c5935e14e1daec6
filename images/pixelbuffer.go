package images

import (
	"image/color"

	"github.com/pkg/errors"
)

// PixelFormat identifies the channel order of a 32-bit pixel buffer.
type PixelFormat string

const (
	// FormatBGRA is the CoreVideo-style 32-bit layout: blue, green, red, alpha.
	FormatBGRA PixelFormat = "bgra"
	// FormatRGBA is the standard 32-bit layout: red, green, blue, alpha.
	FormatRGBA PixelFormat = "rgba"
)

// BytesPerPixel is the pixel width of the supported 32-bit formats.
const BytesPerPixel = 4

// defaultRowAlignment pads each row to a 64-byte boundary, matching the
// alignment typical inference runtimes hand out for hardware buffers.
const defaultRowAlignment = 64

// Valid reports whether the format is one this package can encode.
func (f PixelFormat) Valid() bool {
	return f == FormatBGRA || f == FormatRGBA
}

// PixelBuffer is a dense 32-bit pixel buffer in the exact memory layout an
// inference runtime consumes.
//
// Invariants: Stride >= Width*BytesPerPixel, len(Data) >= Stride*Height, the
// buffer is fully initialized (row padding is zeroed), and row 0 is the
// visual top of the image.
type PixelBuffer struct {
	// Data is the flat backing store, rows packed top-down at Stride bytes.
	Data []byte
	// Width is the pixel width of each row.
	Width int
	// Height is the number of rows.
	Height int
	// Stride is the byte distance between the starts of adjacent rows. It may
	// exceed Width*BytesPerPixel due to row alignment.
	Stride int
	// Format is the channel order of every pixel.
	Format PixelFormat
}

// Pixel returns the 8-bit channel values at (x, y) in RGBA order regardless
// of the buffer's storage format. Coordinates are not bounds checked.
func (b *PixelBuffer) Pixel(x, y int) (r, g, bl, a uint8) {
	p := b.Data[y*b.Stride+x*BytesPerPixel:]
	if b.Format == FormatBGRA {
		return p[2], p[1], p[0], p[3]
	}
	return p[0], p[1], p[2], p[3]
}

// EncodeOptions controls how Encode packs an image into a PixelBuffer.
type EncodeOptions struct {
	// Format is the channel order to pack. Defaults to FormatBGRA.
	Format PixelFormat `json:"format" yaml:"format"`
	// RowAlignment is the byte boundary each row is padded to. Zero selects
	// the default 64-byte alignment; 1 disables padding.
	RowAlignment int `json:"row_alignment" yaml:"row_alignment"`
	// BottomUp declares that the source graphics convention is bottom-up.
	// When set, Encode flips the vertical axis during the draw so that the
	// resulting buffer still reads top-left origin.
	BottomUp bool `json:"bottom_up" yaml:"bottom_up"`
}

// Encode packs an upright image into a freshly allocated 32-bit pixel buffer.
//
// The buffer is deterministic: encoding the same image with the same options
// twice yields byte-identical data. Every byte of the allocation, including
// row padding, is initialized before return.
//
// Arguments:
//   - img: The upright image to pack.
//   - opts: Pixel format, row alignment and axis convention.
//
// Returns:
//   - *PixelBuffer: The packed buffer, scoped to one inference call.
//   - error: An error wrapping ErrEncode on format or allocation problems.
func Encode(img *Image, opts EncodeOptions) (*PixelBuffer, error) {
	if img == nil || img.Pixels == nil {
		return nil, errors.Wrap(ErrEncode, "nil source image")
	}
	if !img.Upright() {
		return nil, errors.Wrapf(ErrEncode, "source carries orientation tag %d, normalize first", img.Orientation)
	}

	format := opts.Format
	if format == "" {
		format = FormatBGRA
	}
	if !format.Valid() {
		return nil, errors.Wrapf(ErrEncode, "unsupported pixel format %q", format)
	}

	align := opts.RowAlignment
	if align == 0 {
		align = defaultRowAlignment
	}
	if align < 1 {
		return nil, errors.Wrapf(ErrEncode, "invalid row alignment %d", align)
	}

	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrEncode, "empty source canvas %dx%d", w, h)
	}
	if w*h > maxCanvasPixels {
		return nil, errors.Wrapf(ErrEncode, "buffer for %dx%d exceeds pixel limit", w, h)
	}

	stride := ((w*BytesPerPixel + align - 1) / align) * align
	buf := &PixelBuffer{
		// make() zero-fills, so row padding needs no separate pass.
		Data:   make([]byte, stride*h),
		Width:  w,
		Height: h,
		Stride: stride,
		Format: format,
	}

	bounds := img.Pixels.Bounds()
	for y := 0; y < h; y++ {
		// A bottom-up source stores its visually-top row last; flip the row
		// index so the buffer is always top-down.
		sy := bounds.Min.Y + y
		if opts.BottomUp {
			sy = bounds.Min.Y + (h - 1 - y)
		}
		row := buf.Data[y*stride:]
		for x := 0; x < w; x++ {
			c := color.NRGBAModel.Convert(img.Pixels.At(bounds.Min.X+x, sy)).(color.NRGBA)
			p := row[x*BytesPerPixel:]
			if format == FormatBGRA {
				p[0], p[1], p[2], p[3] = c.B, c.G, c.R, c.A
			} else {
				p[0], p[1], p[2], p[3] = c.R, c.G, c.B, c.A
			}
		}
	}

	return buf, nil
}
