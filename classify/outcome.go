// Package classify - Classification pipeline and asynchronous dispatch.
package classify

import "fmt"

// LowConfidenceThreshold is the policy cutoff for a firm prediction. A top
// confidence strictly below it is reported as low confidence rather than a
// prediction; exactly at the threshold counts as firm.
const LowConfidenceThreshold float32 = 0.5

// Outcome is the result payload delivered to the presenter: a firm
// prediction, a low-confidence marker, or an error. Exactly one of the three
// shapes is populated.
type Outcome struct {
	// RequestID identifies the classification request that produced this
	// outcome. Assigned by the Dispatcher; zero for direct pipeline calls.
	RequestID uint64 `json:"request_id,omitempty"`
	// Label is the predicted class for a firm prediction.
	Label string `json:"label,omitempty"`
	// ConfidencePercent is the prediction confidence as an integer percent
	// in [0,100].
	ConfidencePercent int `json:"confidence_percent,omitempty"`
	// LowConfidence marks a result whose top confidence fell below the
	// threshold. Distinct from a hard error: the pipeline ran to completion.
	LowConfidence bool `json:"low_confidence,omitempty"`
	// Err is the pipeline failure, nil on success. Match stages with
	// errors.Is against the images and inference sentinels.
	Err error `json:"-"`
}

// Failed reports whether the pipeline failed before producing a result.
func (o Outcome) Failed() bool {
	return o.Err != nil
}

// Message renders the user-visible text for this outcome. Low confidence
// reads as uncertainty, a failure as a generic error with the underlying
// cause appended for diagnostics.
func (o Outcome) Message() string {
	switch {
	case o.Err != nil:
		return fmt.Sprintf("classification failed: %v", o.Err)
	case o.LowConfidence:
		return "uncertain: confidence below 50%"
	default:
		return fmt.Sprintf("%s (%d%%)", o.Label, o.ConfidencePercent)
	}
}
