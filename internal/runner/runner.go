// Package runner moves blocking session calls off the interaction goroutine
// and hands their results back through a dispatch function (fyne.Do in the
// GUI). Each Runner admits one job at a time.
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc"

	"github.com/ytget/image-finder/internal/logging"
)

// ErrBusy is returned by Submit while a previous job is still running
var ErrBusy = errors.New("another operation is still running")

// ErrClosed is returned by Submit after Close
var ErrClosed = errors.New("runner is closed")

// Dispatcher runs fn on the goroutine that owns the UI
type Dispatcher func(fn func())

// Immediate calls fn on the current goroutine
func Immediate(fn func()) { fn() }

// Runner executes one job at a time in the background.
type Runner struct {
	name     string
	dispatch Dispatcher
	busy     atomic.Bool
	wg       conc.WaitGroup
	log      zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// New creates a runner whose results are delivered through dispatch.
func New(name string, dispatch Dispatcher) *Runner {
	if dispatch == nil {
		dispatch = Immediate
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		name:     name,
		dispatch: dispatch,
		log:      logging.New("runner").With().Str("runner", name).Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Busy reports whether a job is in flight
func (r *Runner) Busy() bool {
	return r.busy.Load()
}

// Submit starts work in the background and later calls done with its error
// through the dispatcher. A panic in work is reported to done as an error.
func (r *Runner) Submit(work func(ctx context.Context) error, done func(error)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if !r.busy.CompareAndSwap(false, true) {
		return ErrBusy
	}

	ctx := r.ctx
	r.wg.Go(func() {
		err := r.run(ctx, work)
		r.busy.Store(false)
		if done != nil {
			r.dispatch(func() { done(err) })
		}
	})

	return nil
}

func (r *Runner) run(ctx context.Context, work func(ctx context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error().Interface("panic", p).Msg("job panicked")
			err = fmt.Errorf("%s: job panicked: %v", r.name, p)
		}
	}()
	return work(ctx)
}

// Wait blocks until every submitted job has finished.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Close cancels the context handed to running jobs, rejects new ones and
// waits for the running job to return.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
}
