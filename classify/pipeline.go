package classify

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/leaf-ai/go-classify/images"
	"github.com/leaf-ai/go-classify/inference"
)

// Config carries the pipeline knobs that are not dictated by the engine.
type Config struct {
	// RowAlignment is the pixel buffer row alignment passed to the encoder.
	// Zero selects the encoder default.
	RowAlignment int `json:"row_alignment" yaml:"row_alignment"`
	// BottomUp declares that source images arrive in a bottom-up graphics
	// convention and need their vertical axis flipped during encoding.
	BottomUp bool `json:"bottom_up" yaml:"bottom_up"`
	// Logger receives per-request diagnostics. Nil disables logging.
	Logger *zap.Logger `json:"-" yaml:"-"`
}

// Pipeline runs the full preprocessing and inference chain for one image:
// normalize -> resize -> encode -> classify, plus the low-confidence policy.
//
// The pipeline holds no per-request state; it is safe for concurrent use. All
// intermediate images and the pixel buffer are scoped to a single Classify
// call and become garbage as soon as it returns.
type Pipeline struct {
	engine inference.Engine
	config Config
	logger *zap.Logger
}

// NewPipeline creates a pipeline around a loaded engine.
//
// Arguments:
//   - engine: The loaded classification model.
//   - config: Encoder and logging knobs.
//
// Returns:
//   - *Pipeline: The pipeline.
//   - error: An error if the engine is missing or reports an unusable input spec.
func NewPipeline(engine inference.Engine, config Config) (*Pipeline, error) {
	if engine == nil {
		return nil, errors.New("engine is required")
	}
	spec := engine.Input()
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, errors.Errorf("engine reports invalid input size %dx%d", spec.Width, spec.Height)
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{engine: engine, config: config, logger: logger}, nil
}

// Classify runs one image through the pipeline and applies the confidence
// policy to the ranked results.
//
// Failures at any stage surface in Outcome.Err with the stage's sentinel as
// the cause; they never crash the process or corrupt the loaded model, and a
// failed request is simply over (no retries).
//
// Arguments:
//   - ctx: The context for the inference call.
//   - img: The raw image with its orientation tag. Never mutated.
//
// Returns:
//   - Outcome: A firm prediction, a low-confidence marker, or an error.
func (p *Pipeline) Classify(ctx context.Context, img *images.Image) Outcome {
	spec := p.engine.Input()

	normalized, err := images.Normalize(img)
	if err != nil {
		return p.fail("normalize", err)
	}

	resized, err := images.Resize(normalized, spec.Width, spec.Height)
	if err != nil {
		return p.fail("resize", err)
	}

	buf, err := images.Encode(resized, images.EncodeOptions{
		Format:       spec.Format,
		RowAlignment: p.config.RowAlignment,
		BottomUp:     p.config.BottomUp,
	})
	if err != nil {
		return p.fail("encode", err)
	}

	ranked, err := p.engine.Classify(ctx, buf)
	if err != nil {
		return p.fail("classify", err)
	}
	if len(ranked) == 0 {
		return p.fail("classify", errors.Wrap(inference.ErrInference, "engine returned no predictions"))
	}

	top := ranked[0]
	if top.Confidence < LowConfidenceThreshold {
		p.logger.Debug("low confidence result",
			zap.String("top_label", top.Label),
			zap.Float32("confidence", top.Confidence),
		)
		return Outcome{LowConfidence: true}
	}

	p.logger.Debug("classification complete",
		zap.String("label", top.Label),
		zap.Float32("confidence", top.Confidence),
	)
	return Outcome{
		Label:             top.Label,
		ConfidencePercent: confidencePercent(top.Confidence),
	}
}

// fail logs and wraps a stage failure into an error outcome.
func (p *Pipeline) fail(stage string, err error) Outcome {
	p.logger.Warn("pipeline stage failed", zap.String("stage", stage), zap.Error(err))
	return Outcome{Err: err}
}

// confidencePercent converts a [0,1] confidence to an integer percent,
// rounding half up.
func confidencePercent(confidence float32) int {
	percent := int(confidence*100 + 0.5)
	if percent > 100 {
		percent = 100
	}
	if percent < 0 {
		percent = 0
	}
	return percent
}
