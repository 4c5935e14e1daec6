package images

import (
	"image"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// maxCanvasPixels bounds the output canvas allocation. Anything larger than
// this is treated as a render failure rather than an attempt to allocate
// gigabytes for a hostile header.
const maxCanvasPixels = 1 << 28

// Normalize bakes the image's orientation tag into its pixel data so that
// pixel (0,0) is visually top-left and the returned tag is upright.
//
// An already upright image is returned unchanged. Any other tag is corrected
// by rendering the source through an exact affine transform onto a fresh
// canvas; the source is never mutated. A failure to render is reported as an
// error wrapping ErrRender, never masked by returning the uncorrected source.
//
// Arguments:
//   - img: The image to normalize.
//
// Returns:
//   - *Image: An upright image with corrected pixel data.
//   - error: An error wrapping ErrRender if the correction cannot be rendered.
func Normalize(img *Image) (*Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errors.Wrap(ErrRender, "nil source image")
	}
	if !img.Orientation.Valid() {
		return nil, errors.Wrapf(ErrRender, "unknown orientation tag %d", img.Orientation)
	}
	if img.Upright() {
		return img, nil
	}

	w, h := img.Width(), img.Height()
	if w <= 0 || h <= 0 {
		return nil, errors.Wrapf(ErrRender, "empty source canvas %dx%d", w, h)
	}

	dw, dh := w, h
	if img.Orientation.Swapped() {
		dw, dh = h, w
	}
	if dw*dh > maxCanvasPixels {
		return nil, errors.Wrapf(ErrRender, "output canvas %dx%d exceeds pixel limit", dw, dh)
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))
	m, err := correctionMatrix(img.Orientation, img.Pixels.Bounds())
	if err != nil {
		return nil, err
	}

	// Nearest neighbor under a pure rotate/mirror matrix is an exact pixel
	// permutation, so the result is deterministic and lossless.
	draw.NearestNeighbor.Transform(dst, m, img.Pixels, img.Pixels.Bounds(), draw.Src, nil)

	return &Image{Pixels: dst, Orientation: OrientationUpright}, nil
}

// correctionMatrix returns the source-to-destination affine transform that
// undoes the given orientation tag for a source with the given bounds. The
// destination is anchored at the origin.
func correctionMatrix(o Orientation, sr image.Rectangle) (f64.Aff3, error) {
	var (
		mx = float64(sr.Min.X)
		my = float64(sr.Min.Y)
		w  = float64(sr.Dx())
		h  = float64(sr.Dy())
	)

	switch o {
	case OrientationFlipH:
		return f64.Aff3{-1, 0, w + mx, 0, 1, -my}, nil
	case OrientationRotate180:
		return f64.Aff3{-1, 0, w + mx, 0, -1, h + my}, nil
	case OrientationFlipV:
		return f64.Aff3{1, 0, -mx, 0, -1, h + my}, nil
	case OrientationTranspose:
		return f64.Aff3{0, 1, -my, 1, 0, -mx}, nil
	case OrientationRotate90:
		return f64.Aff3{0, -1, h + my, 1, 0, -mx}, nil
	case OrientationTransverse:
		return f64.Aff3{0, -1, h + my, -1, 0, w + mx}, nil
	case OrientationRotate270:
		return f64.Aff3{0, 1, -my, -1, 0, w + mx}, nil
	default:
		return f64.Aff3{}, errors.Wrapf(ErrRender, "orientation tag %d has no correction", o)
	}
}
