package inference

import (
	"context"
	"os"
	"sync"

	"github.com/pkg/errors"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/leaf-ai/go-classify/images"
	"github.com/leaf-ai/go-classify/util"
)

const (
	// DefaultInputSize is the model input edge length used when the config
	// does not override it.
	DefaultInputSize = 224
	// DefaultInputName is the input node name expected by the model.
	DefaultInputName = "input"
	// DefaultOutputName is the output node name expected by the model.
	DefaultOutputName = "output"
)

// Config describes how to load a classification model.
type Config struct {
	// ModelPath is the path to the ONNX model artifact.
	ModelPath string `json:"model_path" yaml:"model_path"`
	// LabelsPath is the path to a label file, one class name per line.
	LabelsPath string `json:"labels_path" yaml:"labels_path"`
	// Labels overrides LabelsPath when non-empty.
	Labels []string `json:"labels,omitempty" yaml:"labels,omitempty"`
	// InputSize is the square input edge length. Defaults to DefaultInputSize.
	InputSize int `json:"input_size" yaml:"input_size"`
	// InputName is the model's input node name. Defaults to DefaultInputName.
	InputName string `json:"input_name" yaml:"input_name"`
	// OutputName is the model's output node name. Defaults to DefaultOutputName.
	OutputName string `json:"output_name" yaml:"output_name"`
	// Format is the pixel format the engine negotiates with the encoder.
	// Defaults to BGRA.
	Format images.PixelFormat `json:"format" yaml:"format"`
	// LibraryPath optionally points ONNX Runtime at a specific shared
	// library instead of the default search.
	LibraryPath string `json:"library_path" yaml:"library_path"`
	// ApplySoftmax converts raw logits into a probability distribution. Set
	// it for models whose final layer does not already normalize.
	ApplySoftmax bool `json:"apply_softmax" yaml:"apply_softmax"`
	// IntraOpThreads parallelizes execution within graph nodes. Zero uses
	// the runtime default.
	IntraOpThreads int `json:"intra_op_threads" yaml:"intra_op_threads"`
	// InterOpThreads parallelizes execution across independent graph nodes.
	// Zero uses the runtime default.
	InterOpThreads int `json:"inter_op_threads" yaml:"inter_op_threads"`
	// Warmup is the number of inference runs to perform during load so the
	// first user-visible call does not pay first-run costs.
	Warmup int `json:"warmup" yaml:"warmup"`
}

// ONNXEngine runs a classification model through ONNX Runtime.
//
// The loaded model is immutable; the mutex only serializes access to the
// preallocated native tensors, so concurrent Classify calls are safe.
type ONNXEngine struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
	labels  []string
	spec    InputSpec
	softmax bool
	closed  bool
}

// Load creates an ONNX-backed classification engine from the given config.
//
// Any failure (missing or corrupt model file, unreadable labels, runtime
// initialization) is returned as an error wrapping ErrModelLoad. Loading
// never aborts the process; the caller decides whether a session without a
// model is worth keeping alive.
//
// Arguments:
//   - config: The model configuration.
//
// Returns:
//   - *ONNXEngine: The loaded engine. Close it when the session ends.
//   - error: An error wrapping ErrModelLoad if the model cannot be loaded.
func Load(config Config) (*ONNXEngine, error) {
	if config.ModelPath == "" {
		return nil, errors.Wrap(ErrModelLoad, "model path is required")
	}
	if config.InputSize == 0 {
		config.InputSize = DefaultInputSize
	}
	if config.InputSize < 0 {
		return nil, errors.Wrapf(ErrModelLoad, "invalid input size %d", config.InputSize)
	}
	if config.InputName == "" {
		config.InputName = DefaultInputName
	}
	if config.OutputName == "" {
		config.OutputName = DefaultOutputName
	}
	if config.Format == "" {
		config.Format = images.FormatBGRA
	}
	if !config.Format.Valid() {
		return nil, errors.Wrapf(ErrModelLoad, "unsupported pixel format %q", config.Format)
	}

	if _, err := os.Stat(config.ModelPath); err != nil {
		return nil, errors.Wrapf(ErrModelLoad, "model file not found: %s", config.ModelPath)
	}

	labels := config.Labels
	if len(labels) == 0 {
		var err error
		labels, err = util.LoadLabels(config.LabelsPath)
		if err != nil {
			return nil, errors.Wrapf(ErrModelLoad, "loading labels: %v", err)
		}
	}
	if len(labels) == 0 {
		return nil, errors.Wrap(ErrModelLoad, "model has no output labels")
	}

	if config.LibraryPath != "" {
		if _, err := os.Stat(config.LibraryPath); err != nil {
			return nil, errors.Wrapf(ErrModelLoad, "ONNX Runtime library not found at %s", config.LibraryPath)
		}
		ort.SetSharedLibraryPath(config.LibraryPath)
	}

	// The native environment is process-wide; initialize it once and leave
	// it up for the remaining sessions.
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return nil, errors.Wrapf(ErrModelLoad, "initializing ORT environment: %v", err)
		}
	}

	input, err := ort.NewEmptyTensor[float32](
		ort.NewShape(1, 3, int64(config.InputSize), int64(config.InputSize)),
	)
	if err != nil {
		return nil, errors.Wrapf(ErrModelLoad, "creating input tensor: %v", err)
	}

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(len(labels))))
	if err != nil {
		input.Destroy()
		return nil, errors.Wrapf(ErrModelLoad, "creating output tensor: %v", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(ErrModelLoad, "creating ORT session options: %v", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(config.IntraOpThreads)
	options.SetInterOpNumThreads(config.InterOpThreads)
	options.SetGraphOptimizationLevel(ort.GraphOptimizationLevelEnableExtended)

	session, err := ort.NewAdvancedSession(
		config.ModelPath,
		[]string{config.InputName},
		[]string{config.OutputName},
		[]ort.ArbitraryTensor{input},
		[]ort.ArbitraryTensor{output},
		options,
	)
	if err != nil {
		input.Destroy()
		output.Destroy()
		return nil, errors.Wrapf(ErrModelLoad, "creating ORT session: %v", err)
	}

	engine := &ONNXEngine{
		session: session,
		input:   input,
		output:  output,
		labels:  labels,
		softmax: config.ApplySoftmax,
		spec: InputSpec{
			Width:  config.InputSize,
			Height: config.InputSize,
			Format: config.Format,
		},
	}

	for i := 0; i < config.Warmup; i++ {
		if err := session.Run(); err != nil {
			engine.Close()
			return nil, errors.Wrapf(ErrModelLoad, "warmup run %d: %v", i+1, err)
		}
	}

	return engine, nil
}

// Input reports the buffer shape and format the engine consumes.
func (e *ONNXEngine) Input() InputSpec {
	return e.spec
}

// Classify runs one inference call over the encoded buffer.
//
// The buffer is packed into the NCHW float32 input tensor with planar RGB
// channels scaled to [0,1], the session runs synchronously, and the output
// scores are ranked against the label set. Malformed buffers, runtime errors,
// NaN scores and empty outputs are all reported as errors wrapping
// ErrInference; none of them corrupt the loaded model.
//
// Arguments:
//   - ctx: The context for the call, checked before the native run starts.
//   - buf: The encoded pixel buffer, scoped to this call.
//
// Returns:
//   - []Prediction: Ranked predictions, highest confidence first.
//   - error: An error wrapping ErrInference if the call fails.
func (e *ONNXEngine) Classify(ctx context.Context, buf *images.PixelBuffer) ([]Prediction, error) {
	if err := e.validateBuffer(buf); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(ErrInference, "context done before run: %v", err)
	}

	scores := make([]float32, len(e.labels))

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, errors.Wrap(ErrInference, "engine is closed")
	}
	e.fillInput(buf)
	err := e.session.Run()
	if err == nil {
		copy(scores, e.output.GetData())
	}
	e.mu.Unlock()

	if err != nil {
		return nil, errors.Wrapf(ErrInference, "session run: %v", err)
	}

	if e.softmax {
		scores = Softmax(scores)
	}
	if hasNaN(scores) {
		return nil, errors.Wrap(ErrInference, "model produced NaN scores")
	}

	ranked := Rank(scores, e.labels)
	if len(ranked) == 0 {
		return nil, errors.Wrap(ErrInference, "model produced no results")
	}
	return ranked, nil
}

// validateBuffer checks that the buffer matches the negotiated input spec.
func (e *ONNXEngine) validateBuffer(buf *images.PixelBuffer) error {
	if buf == nil || len(buf.Data) == 0 {
		return errors.Wrap(ErrInference, "nil or empty pixel buffer")
	}
	if buf.Width != e.spec.Width || buf.Height != e.spec.Height {
		return errors.Wrapf(ErrInference, "buffer is %dx%d, model expects %dx%d",
			buf.Width, buf.Height, e.spec.Width, e.spec.Height)
	}
	if buf.Format != e.spec.Format {
		return errors.Wrapf(ErrInference, "buffer format %q, model expects %q", buf.Format, e.spec.Format)
	}
	if buf.Stride < buf.Width*images.BytesPerPixel || len(buf.Data) < buf.Stride*buf.Height {
		return errors.Wrapf(ErrInference, "buffer too short: %d bytes for stride %d x %d rows",
			len(buf.Data), buf.Stride, buf.Height)
	}
	return nil
}

// fillInput packs the pixel buffer into the preallocated input tensor as
// planar RGB float32 scaled to [0,1]. Caller holds the mutex.
func (e *ONNXEngine) fillInput(buf *images.PixelBuffer) {
	data := e.input.GetData()
	channelSize := e.spec.Width * e.spec.Height
	red := data[0:channelSize]
	green := data[channelSize : channelSize*2]
	blue := data[channelSize*2 : channelSize*3]

	i := 0
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			r, g, b, _ := buf.Pixel(x, y)
			red[i] = float32(r) / 255.0
			green[i] = float32(g) / 255.0
			blue[i] = float32(b) / 255.0
			i++
		}
	}
}

// Close releases the native tensors and session. It is safe to call more
// than once.
func (e *ONNXEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true

	if e.input != nil {
		e.input.Destroy()
		e.input = nil
	}
	if e.output != nil {
		e.output.Destroy()
		e.output = nil
	}
	if e.session != nil {
		if err := e.session.Destroy(); err != nil {
			e.session = nil
			return errors.Wrap(err, "destroying ORT session")
		}
		e.session = nil
	}
	return nil
}
