package inference

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSoftmaxDistribution(t *testing.T) {
	tests := []struct {
		name   string
		logits []float32
	}{
		{name: "small logits", logits: []float32{0.1, 0.2, 0.3}},
		{name: "all zero", logits: []float32{0, 0, 0, 0}},
		{name: "large magnitudes", logits: []float32{1000, 999, 998}},
		{name: "negative", logits: []float32{-5, -10, -15}},
		{name: "single class", logits: []float32{3.7}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs := Softmax(tt.logits)
			require.Len(t, probs, len(tt.logits))

			var sum float32
			for _, p := range probs {
				assert.False(t, math32.IsNaN(p), "softmax must not produce NaN")
				assert.GreaterOrEqual(t, p, float32(0), "probabilities are non-negative")
				sum += p
			}
			assert.InDelta(t, 1.0, float64(sum), 1e-4, "probabilities sum to 1")
		})
	}
}

func TestSoftmaxOrderPreserved(t *testing.T) {
	probs := Softmax([]float32{1, 3, 2})
	assert.Greater(t, probs[1], probs[2])
	assert.Greater(t, probs[2], probs[0])
}

func TestSoftmaxEmpty(t *testing.T) {
	assert.Empty(t, Softmax(nil))
}

func TestRankSortsDescending(t *testing.T) {
	ranked := Rank([]float32{0.1, 0.7, 0.2}, []string{"rust", "healthy", "blight"})

	require.Len(t, ranked, 3)
	assert.Equal(t, "healthy", ranked[0].Label)
	assert.Equal(t, float32(0.7), ranked[0].Confidence)
	assert.Equal(t, "blight", ranked[1].Label)
	assert.Equal(t, "rust", ranked[2].Label)
}

func TestRankStableOnTies(t *testing.T) {
	// Equal confidences keep input order: the first computed label wins.
	ranked := Rank([]float32{0.4, 0.4, 0.2}, []string{"first", "second", "third"})

	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].Label)
	assert.Equal(t, "second", ranked[1].Label)
}

func TestRankTruncatesToLabelCount(t *testing.T) {
	ranked := Rank([]float32{0.5, 0.3, 0.2}, []string{"only", "two"})
	assert.Len(t, ranked, 2, "scores beyond the label set are dropped")
}

func TestHasNaN(t *testing.T) {
	assert.False(t, hasNaN([]float32{0, 1, 0.5}))
	assert.True(t, hasNaN([]float32{0, math32.NaN(), 0.5}))
}
