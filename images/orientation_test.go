package images

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// uprightTestImage returns a small image whose pixels are all distinct, so
// any mistake in an orientation transform shows up as a corner mismatch.
func uprightTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(10 + x), G: uint8(10 + y), B: uint8(x*16 + y), A: 255})
		}
	}
	return img
}

// storeWithOrientation produces the pixel data a camera would store for the
// given upright scene and orientation tag, i.e. the inverse of the correction
// Normalize applies.
func storeWithOrientation(upright *image.NRGBA, o Orientation) *image.NRGBA {
	b := upright.Bounds()
	w, h := b.Dx(), b.Dy()
	sw, sh := w, h
	if o.Swapped() {
		sw, sh = h, w
	}
	stored := image.NewNRGBA(image.Rect(0, 0, sw, sh))
	for v := 0; v < sh; v++ {
		for u := 0; u < sw; u++ {
			var ux, uy int
			switch o {
			case OrientationUpright:
				ux, uy = u, v
			case OrientationFlipH:
				ux, uy = sw-1-u, v
			case OrientationRotate180:
				ux, uy = sw-1-u, sh-1-v
			case OrientationFlipV:
				ux, uy = u, sh-1-v
			case OrientationTranspose:
				ux, uy = v, u
			case OrientationRotate90:
				ux, uy = sh-1-v, u
			case OrientationTransverse:
				ux, uy = sh-1-v, sw-1-u
			case OrientationRotate270:
				ux, uy = v, sw-1-u
			}
			stored.SetNRGBA(u, v, upright.NRGBAAt(ux, uy))
		}
	}
	return stored
}

func TestNormalizeAllOrientations(t *testing.T) {
	upright := uprightTestImage(5, 3)

	tags := []Orientation{
		OrientationUpright, OrientationFlipH, OrientationRotate180, OrientationFlipV,
		OrientationTranspose, OrientationRotate90, OrientationTransverse, OrientationRotate270,
	}
	for _, tag := range tags {
		stored := storeWithOrientation(upright, tag)

		normalized, err := Normalize(&Image{Pixels: stored, Orientation: tag})
		require.NoError(t, err, "orientation %d should normalize", tag)
		require.True(t, normalized.Upright(), "orientation %d should yield an upright tag", tag)
		require.Equal(t, upright.Bounds().Dx(), normalized.Width(), "orientation %d width", tag)
		require.Equal(t, upright.Bounds().Dy(), normalized.Height(), "orientation %d height", tag)

		bounds := normalized.Pixels.Bounds()
		for y := 0; y < upright.Bounds().Dy(); y++ {
			for x := 0; x < upright.Bounds().Dx(); x++ {
				want := upright.NRGBAAt(x, y)
				got := color.NRGBAModel.Convert(normalized.Pixels.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				require.Equal(t, want, got, "orientation %d pixel (%d,%d)", tag, x, y)
			}
		}
	}
}

func TestNormalizeUprightReturnsSourceUnchanged(t *testing.T) {
	src := &Image{Pixels: uprightTestImage(4, 4), Orientation: OrientationUpright}

	normalized, err := Normalize(src)
	assert.NoError(t, err, "upright input should not error")
	assert.Same(t, src, normalized, "upright input needs no copy")
}

func TestNormalizeDoesNotMutateSource(t *testing.T) {
	upright := uprightTestImage(4, 3)
	stored := storeWithOrientation(upright, OrientationRotate90)
	before := append([]byte(nil), stored.Pix...)

	_, err := Normalize(&Image{Pixels: stored, Orientation: OrientationRotate90})
	require.NoError(t, err)
	assert.Equal(t, before, stored.Pix, "source pixel data must not be mutated")
}

func TestNormalizeFailures(t *testing.T) {
	tests := []struct {
		name string
		img  *Image
	}{
		{name: "nil image", img: nil},
		{name: "nil pixels", img: &Image{Orientation: OrientationRotate90}},
		{name: "unknown tag", img: &Image{Pixels: uprightTestImage(2, 2), Orientation: Orientation(9)}},
		{name: "zero tag", img: &Image{Pixels: uprightTestImage(2, 2), Orientation: Orientation(0)}},
		{name: "empty canvas", img: &Image{Pixels: image.NewNRGBA(image.Rect(0, 0, 0, 0)), Orientation: OrientationFlipH}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.img)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrRender, "failure should be a render failure")
		})
	}
}

func TestNormalizeHandlesOffsetSourceBounds(t *testing.T) {
	// A subimage whose bounds do not start at the origin must still come out
	// anchored at (0,0) and correctly rotated.
	upright := uprightTestImage(6, 4)
	stored := storeWithOrientation(upright, OrientationRotate180)
	sub, ok := stored.SubImage(stored.Bounds().Inset(1)).(*image.NRGBA)
	require.True(t, ok)

	normalized, err := Normalize(&Image{Pixels: sub, Orientation: OrientationRotate180})
	require.NoError(t, err)
	assert.Equal(t, image.Pt(0, 0), normalized.Pixels.Bounds().Min, "output must be origin anchored")
	assert.Equal(t, sub.Bounds().Dx(), normalized.Width())
	assert.Equal(t, sub.Bounds().Dy(), normalized.Height())
}
