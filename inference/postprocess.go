package inference

import (
	"sort"

	"github.com/chewxy/math32"
)

// Softmax converts raw logits into a probability distribution. The maximum
// logit is subtracted first so large magnitudes do not overflow float32.
//
// Arguments:
//   - logits: The raw model outputs.
//
// Returns:
//   - []float32: A fresh slice summing to 1.0 (empty input yields empty output).
func Softmax(logits []float32) []float32 {
	if len(logits) == 0 {
		return nil
	}

	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	out := make([]float32, len(logits))
	var sum float32
	for i, v := range logits {
		out[i] = math32.Exp(v - max)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// Rank pairs scores with their labels and sorts descending by confidence.
// The sort is stable, so with equal confidences the first computed label wins.
//
// Arguments:
//   - scores: One score per label, index-aligned with labels.
//   - labels: The class names.
//
// Returns:
//   - []Prediction: Ranked predictions, highest confidence first.
func Rank(scores []float32, labels []string) []Prediction {
	n := len(scores)
	if len(labels) < n {
		n = len(labels)
	}

	ranked := make([]Prediction, 0, n)
	for i := 0; i < n; i++ {
		ranked = append(ranked, Prediction{Label: labels[i], Confidence: scores[i]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Confidence > ranked[j].Confidence
	})
	return ranked
}

// hasNaN reports whether any score is NaN, which marks the inference output
// as malformed.
func hasNaN(scores []float32) bool {
	for _, v := range scores {
		if math32.IsNaN(v) {
			return true
		}
	}
	return false
}
