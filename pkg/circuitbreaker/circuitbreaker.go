// Package circuitbreaker 熔断器
//
// 用于保护不稳定的下游（当前是审计事件的消息队列发布）。
// 状态流转：CLOSED --连续失败达到阈值--> OPEN --冷却时间到--> HALF_OPEN
// HALF_OPEN下探测成功回到CLOSED，探测失败回到OPEN。
//
// 示例：
//
//	cb := circuitbreaker.New("audit-mq", circuitbreaker.Config{FailureThreshold: 5, OpenTimeout: 30 * time.Second})
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return publisher.Publish(ctx, key, msg)
//	})
//	if errors.Is(err, circuitbreaker.ErrOpenState) {
//	    // 走降级路径
//	}
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/xiebiao/sbooks/pkg/metrics"
)

// State 熔断器状态
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// ErrOpenState 熔断器打开（或半开探测名额已满）时返回
var ErrOpenState = errors.New("circuit breaker is open")

// Config 熔断器配置，零值字段使用默认值
type Config struct {
	// FailureThreshold CLOSED状态下连续失败多少次后熔断，默认5
	FailureThreshold uint32
	// OpenTimeout OPEN状态持续时间，默认30s
	OpenTimeout time.Duration
	// HalfOpenRequests 半开状态允许同时探测的请求数，默认1
	HalfOpenRequests uint32
	// IsFailure 判断错误是否计入失败，默认所有非nil错误都算失败
	// context.Canceled这类调用方主动放弃的错误通常不应计入
	IsFailure func(err error) bool
}

func (c *Config) withDefaults() {
	if c.FailureThreshold == 0 {
		c.FailureThreshold = 5
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = 30 * time.Second
	}
	if c.HalfOpenRequests == 0 {
		c.HalfOpenRequests = 1
	}
	if c.IsFailure == nil {
		c.IsFailure = func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		}
	}
}

// Snapshot 熔断器当前统计（只读副本）
type Snapshot struct {
	State               State
	ConsecutiveFailures uint32
	InFlightProbes      uint32
	OpenedAt            time.Time
}

// CircuitBreaker 熔断器，可并发使用
type CircuitBreaker struct {
	name string
	cfg  Config
	now  func() time.Time

	mu            sync.Mutex
	state         State
	generation    uint64
	failures      uint32
	probes        uint32
	openedAt      time.Time
	onStateChange func(name string, from, to State)
}

// New 创建熔断器
func New(name string, cfg Config) *CircuitBreaker {
	cfg.withDefaults()
	cb := &CircuitBreaker{
		name:  name,
		cfg:   cfg,
		now:   time.Now,
		state: StateClosed,
	}
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(StateClosed))
	return cb
}

// Name 熔断器名称
func (cb *CircuitBreaker) Name() string {
	return cb.name
}

// OnStateChange 设置状态变化回调（在持锁状态下调用，回调内不要再调用熔断器方法）
func (cb *CircuitBreaker) OnStateChange(fn func(name string, from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.onStateChange = fn
}

// Execute 在熔断保护下执行fn
// 熔断打开时不调用fn，直接返回ErrOpenState；否则返回fn的错误
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	gen, err := cb.acquire()
	if err != nil {
		metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": "rejected"})
		return err
	}

	err = fn(ctx)
	failed := cb.cfg.IsFailure(err)
	cb.release(gen, failed)

	result := "success"
	if failed {
		result = "failure"
	}
	metrics.IncCounterVec(metrics.CircuitBreakerRequests, map[string]string{"name": cb.name, "result": result})
	return err
}

// State 当前状态（会顺带处理OPEN到HALF_OPEN的超时迁移）
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.tick(cb.now())
	return cb.state
}

// Snapshot 当前统计
func (cb *CircuitBreaker) Snapshot() Snapshot {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.tick(cb.now())
	return Snapshot{
		State:               cb.state,
		ConsecutiveFailures: cb.failures,
		InFlightProbes:      cb.probes,
		OpenedAt:            cb.openedAt,
	}
}

func (cb *CircuitBreaker) acquire() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.tick(cb.now())
	switch cb.state {
	case StateOpen:
		return cb.generation, ErrOpenState
	case StateHalfOpen:
		if cb.probes >= cb.cfg.HalfOpenRequests {
			return cb.generation, ErrOpenState
		}
		cb.probes++
	}
	return cb.generation, nil
}

func (cb *CircuitBreaker) release(gen uint64, failed bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	cb.tick(now)
	// 请求执行期间状态已切换，结果作废
	if gen != cb.generation {
		return
	}

	switch cb.state {
	case StateClosed:
		if !failed {
			cb.failures = 0
			return
		}
		cb.failures++
		if cb.failures >= cb.cfg.FailureThreshold {
			cb.transition(StateOpen, now)
		}
	case StateHalfOpen:
		if failed {
			cb.transition(StateOpen, now)
		} else {
			cb.transition(StateClosed, now)
		}
	}
}

// tick 需持锁调用
func (cb *CircuitBreaker) tick(now time.Time) {
	if cb.state == StateOpen && !now.Before(cb.openedAt.Add(cb.cfg.OpenTimeout)) {
		cb.transition(StateHalfOpen, now)
	}
}

// transition 需持锁调用
func (cb *CircuitBreaker) transition(to State, now time.Time) {
	from := cb.state
	if from == to {
		return
	}
	cb.state = to
	cb.generation++
	cb.failures = 0
	cb.probes = 0
	if to == StateOpen {
		cb.openedAt = now
	}

	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": cb.name}, float64(to))
	if cb.onStateChange != nil {
		cb.onStateChange(cb.name, from, to)
	}
}
