package runner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_DeliversResult(t *testing.T) {
	r := New("test", Immediate)

	results := make(chan error, 1)
	wantErr := errors.New("fetch failed")
	require.NoError(t, r.Submit(func(context.Context) error { return wantErr }, func(err error) {
		results <- err
	}))

	r.Wait()
	assert.ErrorIs(t, <-results, wantErr)
	assert.False(t, r.Busy())
}

func TestRunner_SingleFlight(t *testing.T) {
	r := New("test", nil)

	release := make(chan struct{})
	require.NoError(t, r.Submit(func(context.Context) error {
		<-release
		return nil
	}, nil))

	assert.True(t, r.Busy())
	err := r.Submit(func(context.Context) error { return nil }, nil)
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	r.Wait()

	require.NoError(t, r.Submit(func(context.Context) error { return nil }, nil))
	r.Wait()
}

func TestRunner_UsesDispatcher(t *testing.T) {
	dispatched := make(chan func(), 1)
	r := New("test", func(fn func()) { dispatched <- fn })

	called := false
	require.NoError(t, r.Submit(func(context.Context) error { return nil }, func(error) {
		called = true
	}))
	r.Wait()

	assert.False(t, called, "done must run only through the dispatcher")
	fn := <-dispatched
	fn()
	assert.True(t, called)
}

func TestRunner_RecoversPanic(t *testing.T) {
	r := New("test", Immediate)

	results := make(chan error, 1)
	require.NoError(t, r.Submit(func(context.Context) error { panic("boom") }, func(err error) {
		results <- err
	}))
	r.Wait()

	err := <-results
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
	assert.False(t, r.Busy())
}

func TestRunner_CloseCancelsContext(t *testing.T) {
	r := New("test", Immediate)

	started := make(chan struct{})
	results := make(chan error, 1)
	require.NoError(t, r.Submit(func(ctx context.Context) error {
		close(started)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			return nil
		}
	}, func(err error) { results <- err }))

	<-started
	r.Close()

	assert.ErrorIs(t, <-results, context.Canceled)
	assert.ErrorIs(t, r.Submit(func(context.Context) error { return nil }, nil), ErrClosed)
}
