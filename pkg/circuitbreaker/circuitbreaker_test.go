package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBroker = errors.New("broker unavailable")

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestBreaker(cfg Config) (*CircuitBreaker, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	cb := New("test", cfg)
	cb.now = clock.Now
	return cb, clock
}

func fail(context.Context) error { return errBroker }
func ok(context.Context) error   { return nil }

func TestCircuitBreaker_Trip(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 3, OpenTimeout: time.Minute})
	ctx := context.Background()

	t.Run("成功请求保持CLOSED", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			require.NoError(t, cb.Execute(ctx, ok))
		}
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("成功会清零连续失败", func(t *testing.T) {
		_ = cb.Execute(ctx, fail)
		_ = cb.Execute(ctx, fail)
		require.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, uint32(0), cb.Snapshot().ConsecutiveFailures)
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("连续失败达到阈值后熔断", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			assert.ErrorIs(t, cb.Execute(ctx, fail), errBroker)
		}
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("熔断后不调用fn", func(t *testing.T) {
		called := false
		err := cb.Execute(ctx, func(context.Context) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, ErrOpenState)
		assert.False(t, called)
	})
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("冷却后进入HALF_OPEN并探测成功恢复", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{FailureThreshold: 1, OpenTimeout: 10 * time.Second})
		_ = cb.Execute(ctx, fail)
		require.Equal(t, StateOpen, cb.State())

		clock.Advance(10 * time.Second)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(ctx, ok))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败重新熔断", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{FailureThreshold: 1, OpenTimeout: 10 * time.Second})
		_ = cb.Execute(ctx, fail)
		clock.Advance(11 * time.Second)

		_ = cb.Execute(ctx, fail)
		assert.Equal(t, StateOpen, cb.State())
		assert.Equal(t, clock.Now(), cb.Snapshot().OpenedAt)
	})

	t.Run("半开状态限制探测数", func(t *testing.T) {
		cb, clock := newTestBreaker(Config{FailureThreshold: 1, OpenTimeout: time.Second, HalfOpenRequests: 1})
		_ = cb.Execute(ctx, fail)
		clock.Advance(time.Second)

		release := make(chan struct{})
		started := make(chan struct{})
		done := make(chan error, 1)
		go func() {
			done <- cb.Execute(ctx, func(context.Context) error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started

		assert.ErrorIs(t, cb.Execute(ctx, ok), ErrOpenState)
		close(release)
		require.NoError(t, <-done)
		assert.Equal(t, StateClosed, cb.State())
	})
}

func TestCircuitBreaker_IgnoresCanceled(t *testing.T) {
	cb, _ := newTestBreaker(Config{FailureThreshold: 1})
	err := cb.Execute(context.Background(), func(context.Context) error {
		return context.Canceled
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_StateCallback(t *testing.T) {
	cb, clock := newTestBreaker(Config{FailureThreshold: 2, OpenTimeout: time.Second})

	var transitions []string
	cb.OnStateChange(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	ctx := context.Background()
	_ = cb.Execute(ctx, fail)
	_ = cb.Execute(ctx, fail)
	clock.Advance(time.Second)
	_ = cb.Execute(ctx, ok)

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, transitions)
	t.Logf("✓ 状态流转: %v", transitions)
}
