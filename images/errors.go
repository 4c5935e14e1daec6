package images

import "github.com/pkg/errors"

// Sentinel errors for the preprocessing stages. Callers match them with
// errors.Is; the wrapped message carries the stage-specific detail.
var (
	// ErrRender indicates the orientation correction could not be rendered
	// into a fresh canvas.
	ErrRender = errors.New("render failure")
	// ErrResize indicates the image could not be resized to the target
	// dimensions.
	ErrResize = errors.New("resize failure")
	// ErrEncode indicates the image could not be packed into a pixel buffer.
	ErrEncode = errors.New("encode failure")
)
