// Package inference - Classification engine interface and ONNX implementation.
package inference

import (
	"context"

	"github.com/pkg/errors"

	"github.com/leaf-ai/go-classify/images"
)

// Sentinel errors for the engine. Callers match them with errors.Is.
var (
	// ErrModelLoad indicates the model artifact could not be loaded. It is
	// fatal to the session: classification cannot proceed without a model,
	// and the caller decides how to surface that.
	ErrModelLoad = errors.New("model load failure")
	// ErrInference indicates a single classification call failed. The loaded
	// model remains usable for subsequent calls.
	ErrInference = errors.New("inference failure")
)

// Prediction is one (label, confidence) pair reported by a model.
type Prediction struct {
	// Label is the class name.
	Label string `json:"label"`
	// Confidence is the model-reported probability-like score in [0,1].
	Confidence float32 `json:"confidence"`
}

// InputSpec describes the pixel buffer a classification engine consumes. The
// pipeline uses it to drive resizing and pixel format negotiation.
type InputSpec struct {
	// Width is the required buffer width in pixels.
	Width int `json:"width" yaml:"width"`
	// Height is the required buffer height in pixels.
	Height int `json:"height" yaml:"height"`
	// Format is the required channel order.
	Format images.PixelFormat `json:"format" yaml:"format"`
}

// Engine is a loaded classification model.
//
// Classify is a pure function of (buffer, model): the engine holds no
// per-call mutable state and is safe for concurrent use. Results are sorted
// descending by confidence with stable order on ties.
type Engine interface {
	// Input reports the buffer shape and format the engine consumes.
	Input() InputSpec
	// Classify runs one inference call over the encoded buffer and returns
	// the ranked predictions.
	Classify(ctx context.Context, buf *images.PixelBuffer) ([]Prediction, error)
	// Close releases the native resources held by the engine.
	Close() error
}
