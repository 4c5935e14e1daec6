package images

import (
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// Resize rescales an upright image to exactly width x height.
//
// The draw is a direct stretch: the aspect ratio of the source is NOT
// preserved. A 100x50 source resized to 224x224 comes out stretched, matching
// the behavior the downstream model was deployed with. Resampling uses the
// Lanczos3 kernel, so the same source and target always produce byte-identical
// output.
//
// Arguments:
//   - img: The upright image to resize.
//   - width: The target width in pixels.
//   - height: The target height in pixels.
//
// Returns:
//   - *Image: A fresh image of exactly width x height.
//   - error: An error wrapping ErrResize on invalid targets or sources.
func Resize(img *Image, width, height int) (*Image, error) {
	if img == nil || img.Pixels == nil {
		return nil, errors.Wrap(ErrResize, "nil source image")
	}
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrResize, "invalid target dimensions %dx%d", width, height)
	}
	if img.Width() == 0 || img.Height() == 0 {
		return nil, errors.Wrap(ErrResize, "empty source canvas")
	}
	if !img.Upright() {
		return nil, errors.Wrapf(ErrResize, "source carries orientation tag %d, normalize first", img.Orientation)
	}

	resized := resize.Resize(uint(width), uint(height), img.Pixels, resize.Lanczos3)
	if resized == nil || resized.Bounds().Dx() != width || resized.Bounds().Dy() != height {
		return nil, errors.Wrapf(ErrResize, "resampler did not produce a %dx%d canvas", width, height)
	}

	return &Image{Pixels: resized, Orientation: OrientationUpright}, nil
}
