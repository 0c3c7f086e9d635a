package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/cartstore/internal/event"
)

func TestResult_IsSuccess(t *testing.T) {
	tests := []struct {
		name     string
		result   Result
		expected bool
	}{
		{"success", Result{Success: true}, true},
		{"error", Result{Error: errors.New("error")}, false},
		{"panic", Result{Panicked: true}, false},
		{"skipped", Result{Skipped: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.result.IsSuccess())
		})
	}
}

func TestResult_IsErrorAndIsPanic(t *testing.T) {
	errResult := Result{Error: errors.New("error")}
	panicResult := Result{Panicked: true, Error: ErrListenerPanic}

	assert.True(t, errResult.IsError())
	assert.False(t, errResult.IsPanic())
	assert.False(t, panicResult.IsError())
	assert.True(t, panicResult.IsPanic())
}

func TestExecutor_Success(t *testing.T) {
	var got event.Event
	ev := event.LoginUser("ada")

	result := NewExecutor().Execute(context.Background(), ev, ListenerFunc(func(_ context.Context, e event.Event) error {
		got = e
		return nil
	}))

	assert.True(t, result.IsSuccess())
	assert.Equal(t, ev.ID, got.ID)
}

func TestExecutor_Error(t *testing.T) {
	boom := errors.New("boom")
	result := NewExecutor().Execute(context.Background(), event.LogoutUser(), ListenerFunc(func(context.Context, event.Event) error {
		return boom
	}))

	assert.True(t, result.IsError())
	assert.ErrorIs(t, result.Error, boom)
}

func TestExecutor_PanicRecovery(t *testing.T) {
	var handled any
	exec := NewExecutor(WithExecutorPanicHandler(func(_ event.Event, v any, stack []byte) {
		handled = v
		assert.NotEmpty(t, stack)
	}))

	result := exec.Execute(context.Background(), event.LogoutUser(), ListenerFunc(func(context.Context, event.Event) error {
		panic("kaboom")
	}))

	assert.True(t, result.IsPanic())
	assert.Equal(t, "kaboom", result.PanicValue)
	assert.ErrorIs(t, result.Error, ErrListenerPanic)
	assert.Equal(t, "kaboom", handled)
}

func TestExecutor_PanicHandlerPanics(t *testing.T) {
	exec := NewExecutor(WithExecutorPanicHandler(func(event.Event, any, []byte) {
		panic("handler also panics")
	}))

	require.NotPanics(t, func() {
		result := exec.Execute(context.Background(), event.LogoutUser(), ListenerFunc(func(context.Context, event.Event) error {
			panic("first")
		}))
		assert.True(t, result.IsPanic())
	})
}

func TestExecutor_CancelledContextSkips(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	result := NewExecutor().Execute(ctx, event.LogoutUser(), ListenerFunc(func(context.Context, event.Event) error {
		called = true
		return nil
	}))

	assert.False(t, called)
	assert.True(t, result.Skipped)
	assert.ErrorIs(t, result.Error, context.Canceled)
}

func TestExecutor_Timeout(t *testing.T) {
	result := NewExecutor().ExecuteWithTimeout(context.Background(), event.LogoutUser(), ListenerFunc(func(ctx context.Context, _ event.Event) error {
		<-ctx.Done()
		return ctx.Err()
	}), 10*time.Millisecond)

	assert.ErrorIs(t, result.Error, context.DeadlineExceeded)
}

func TestSyncDispatcher_DispatchAllInOrder(t *testing.T) {
	var order []int
	listener := func(n int) Listener {
		return ListenerFunc(func(context.Context, event.Event) error {
			order = append(order, n)
			return nil
		})
	}

	d := NewSyncDispatcher()
	results := d.DispatchAll(context.Background(), event.LogoutUser(), []Listener{listener(1), listener(2), listener(3)})

	assert.Equal(t, []int{1, 2, 3}, order)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.IsSuccess())
	}
}

func TestSyncDispatcher_FailureDoesNotStopOthers(t *testing.T) {
	called := 0
	ok := ListenerFunc(func(context.Context, event.Event) error {
		called++
		return nil
	})
	bad := ListenerFunc(func(context.Context, event.Event) error {
		panic("bad listener")
	})

	d := NewSyncDispatcher()
	results := d.DispatchAll(context.Background(), event.LogoutUser(), []Listener{ok, bad, ok})

	assert.Equal(t, 2, called)
	assert.True(t, results[1].IsPanic())

	stats := d.Stats()
	assert.Equal(t, uint64(3), stats.Dispatched)
	assert.Equal(t, uint64(2), stats.Succeeded)
	assert.Equal(t, uint64(1), stats.Panicked)
}

func TestSyncDispatcher_CancelSkipsRemaining(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	first := ListenerFunc(func(context.Context, event.Event) error {
		cancel()
		return nil
	})
	never := ListenerFunc(func(context.Context, event.Event) error {
		t.Error("listener should be skipped")
		return nil
	})

	d := NewSyncDispatcher()
	results := d.DispatchAll(ctx, event.LogoutUser(), []Listener{first, never, never})

	assert.True(t, results[0].IsSuccess())
	assert.True(t, results[1].Skipped)
	assert.True(t, results[2].Skipped)
	assert.Equal(t, uint64(2), d.Stats().Skipped)
}

func TestSyncDispatcher_ResetStats(t *testing.T) {
	d := NewSyncDispatcher(WithTimeout(time.Second))
	d.Dispatch(context.Background(), event.LogoutUser(), ListenerFunc(func(context.Context, event.Event) error {
		return errors.New("x")
	}))
	require.Equal(t, uint64(1), d.Stats().Failed)

	d.ResetStats()
	assert.Equal(t, SyncDispatcherStats{}, d.Stats())
}
