// Package images - Image model and preprocessing utilities for classification input.
package images

import "image"

// Orientation is an EXIF-style orientation tag describing the transform
// required to display the stored pixel data upright.
type Orientation int

// The eight standard EXIF orientation values.
const (
	// OrientationUpright is the identity orientation: row 0 is the visual top.
	OrientationUpright Orientation = 1
	// OrientationFlipH mirrors the image across the vertical axis.
	OrientationFlipH Orientation = 2
	// OrientationRotate180 rotates the image 180 degrees.
	OrientationRotate180 Orientation = 3
	// OrientationFlipV mirrors the image across the horizontal axis.
	OrientationFlipV Orientation = 4
	// OrientationTranspose mirrors across the top-left/bottom-right diagonal.
	OrientationTranspose Orientation = 5
	// OrientationRotate90 rotates the image 90 degrees clockwise.
	OrientationRotate90 Orientation = 6
	// OrientationTransverse mirrors across the top-right/bottom-left diagonal.
	OrientationTransverse Orientation = 7
	// OrientationRotate270 rotates the image 270 degrees clockwise.
	OrientationRotate270 Orientation = 8
)

// Valid reports whether o is one of the eight standard orientation values.
func (o Orientation) Valid() bool {
	return o >= OrientationUpright && o <= OrientationRotate270
}

// Swapped reports whether baking the orientation into pixel data swaps the
// width and height (tags 5 through 8).
func (o Orientation) Swapped() bool {
	return o >= OrientationTranspose
}

// Image represents a decoded bitmap together with its orientation tag.
//
// The pixel data is owned by the caller and is never mutated by the
// preprocessing functions in this package; every transform produces a fresh
// image.
type Image struct {
	// Pixels is the decoded bitmap.
	Pixels image.Image
	// Orientation is the EXIF orientation tag of the pixel data.
	Orientation Orientation
}

// Width returns the stored pixel width (before any orientation correction).
func (i *Image) Width() int {
	if i == nil || i.Pixels == nil {
		return 0
	}
	return i.Pixels.Bounds().Dx()
}

// Height returns the stored pixel height (before any orientation correction).
func (i *Image) Height() int {
	if i == nil || i.Pixels == nil {
		return 0
	}
	return i.Pixels.Bounds().Dy()
}

// Upright reports whether the image requires no orientation correction.
func (i *Image) Upright() bool {
	return i.Orientation == OrientationUpright
}
