package inference

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaf-ai/go-classify/images"
)

// Load failures below all trip before any native runtime call, so they run
// without the ONNX Runtime shared library installed. End-to-end Classify
// against a real model needs the runtime and a model artifact and is covered
// by integration environments, not unit tests.

func TestLoadMissingModelFile(t *testing.T) {
	_, err := Load(Config{
		ModelPath: filepath.Join(t.TempDir(), "no-such-model.onnx"),
		Labels:    []string{"Healthy", "Diseased"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelLoad, "missing model is a model load failure")
}

func TestLoadEmptyModelPath(t *testing.T) {
	_, err := Load(Config{Labels: []string{"a"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelLoad)
}

func TestLoadMissingLabels(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(modelPath, []byte("stub"), 0o644))

	_, err := Load(Config{
		ModelPath:  modelPath,
		LabelsPath: filepath.Join(t.TempDir(), "no-such-labels.txt"),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelLoad, "unreadable labels are a model load failure")
}

func TestLoadRejectsBadConfig(t *testing.T) {
	modelPath := filepath.Join(t.TempDir(), "model.onnx")
	require.NoError(t, os.WriteFile(modelPath, []byte("stub"), 0o644))

	tests := []struct {
		name   string
		config Config
	}{
		{
			name:   "negative input size",
			config: Config{ModelPath: modelPath, Labels: []string{"a"}, InputSize: -224},
		},
		{
			name:   "unsupported format",
			config: Config{ModelPath: modelPath, Labels: []string{"a"}, Format: images.PixelFormat("yuv")},
		},
		{
			name:   "missing runtime library",
			config: Config{ModelPath: modelPath, Labels: []string{"a"}, LibraryPath: filepath.Join(t.TempDir(), "libonnxruntime.so")},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.config)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrModelLoad)
		})
	}
}

func TestValidateBuffer(t *testing.T) {
	engine := &ONNXEngine{
		spec: InputSpec{Width: 224, Height: 224, Format: images.FormatBGRA},
	}

	good := &images.PixelBuffer{
		Data:   make([]byte, 224*4*224),
		Width:  224,
		Height: 224,
		Stride: 224 * 4,
		Format: images.FormatBGRA,
	}
	assert.NoError(t, engine.validateBuffer(good))

	tests := []struct {
		name string
		buf  *images.PixelBuffer
	}{
		{name: "nil buffer", buf: nil},
		{
			name: "wrong dimensions",
			buf:  &images.PixelBuffer{Data: make([]byte, 64), Width: 2, Height: 2, Stride: 8, Format: images.FormatBGRA},
		},
		{
			name: "wrong format",
			buf: &images.PixelBuffer{
				Data: make([]byte, 224*4*224), Width: 224, Height: 224, Stride: 224 * 4, Format: images.FormatRGBA,
			},
		},
		{
			name: "short data",
			buf: &images.PixelBuffer{
				Data: make([]byte, 100), Width: 224, Height: 224, Stride: 224 * 4, Format: images.FormatBGRA,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := engine.validateBuffer(tt.buf)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInference)
		})
	}
}
