package classify

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/leaf-ai/go-classify/images"
	"github.com/leaf-ai/go-classify/logging"
)

// Presenter receives classification outcomes. It is the boundary to the
// UI layer: the dispatcher guarantees Present is never invoked concurrently,
// so the implementation may touch UI-owned state without further locking.
type Presenter interface {
	Present(outcome Outcome)
}

// PresenterFunc adapts a plain function to the Presenter interface.
type PresenterFunc func(Outcome)

// Present calls f(outcome).
func (f PresenterFunc) Present(outcome Outcome) {
	f(outcome)
}

// Dispatcher runs classification requests off the caller's goroutine and
// delivers outcomes to the presenter with a last-request-wins policy.
//
// Each Submit starts one fresh background goroutine; there is no pool and no
// cancellation of in-flight work. Requests carry a monotonically increasing
// id, and a finished request whose id is no longer the latest is discarded,
// so an older result can never overwrite a newer one.
type Dispatcher struct {
	pipeline  *Pipeline
	presenter Presenter
	logger    *zap.Logger

	latest    atomic.Uint64
	deliverMu sync.Mutex
	wg        sync.WaitGroup
}

// NewDispatcher creates a dispatcher delivering to the given presenter.
//
// Arguments:
//   - pipeline: The classification pipeline to run per request.
//   - presenter: The outcome consumer. Called serially, never concurrently.
//   - logger: Diagnostics logger; nil disables logging.
//
// Returns:
//   - *Dispatcher: The dispatcher.
//   - error: An error if pipeline or presenter is missing.
func NewDispatcher(pipeline *Pipeline, presenter Presenter, logger *zap.Logger) (*Dispatcher, error) {
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if presenter == nil {
		return nil, errors.New("presenter is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{pipeline: pipeline, presenter: presenter, logger: logger}, nil
}

// Submit starts a classification request on a background goroutine and
// returns its request id immediately.
//
// The outcome reaches the presenter only if no newer request was submitted in
// the meantime; stale outcomes are dropped after the work completes (there is
// no cancellation, a superseded request simply loses its delivery).
//
// Arguments:
//   - ctx: The context passed through to the inference call.
//   - img: The raw image to classify.
//
// Returns:
//   - uint64: The monotonically increasing request id.
func (d *Dispatcher) Submit(ctx context.Context, img *images.Image) uint64 {
	id := d.latest.Add(1)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		outcome := d.pipeline.Classify(ctx, img)
		outcome.RequestID = id

		// The delivery lock both serializes Present calls and makes the
		// staleness check and the delivery one atomic step, so a stale
		// request can never slip a delivery in after a newer one.
		d.deliverMu.Lock()
		defer d.deliverMu.Unlock()

		if latest := d.latest.Load(); latest != id {
			logging.WithRequest(d.logger, id).Debug("discarding stale outcome",
				zap.Uint64("latest", latest))
			return
		}
		d.presenter.Present(outcome)
	}()

	return id
}

// Wait blocks until all in-flight requests have completed, delivered or not.
// Intended for shutdown and tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
