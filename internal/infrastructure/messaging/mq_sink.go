package messaging

import (
	"context"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/pkg/circuitbreaker"
	"github.com/xiebiao/sbooks/pkg/metrics"
)

// Publisher 消息发布（*mq.Publisher实现）
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// MQSink 经RabbitMQ异步落库，发布失败时降级到fallback
type MQSink struct {
	publisher Publisher
	breaker   *circuitbreaker.CircuitBreaker
	fallback  audit.Sink
	logger    *zap.Logger
}

var _ audit.Sink = (*MQSink)(nil)

// NewMQSink 创建MQ Sink，熔断器状态变化记录warn日志
func NewMQSink(publisher Publisher, breaker *circuitbreaker.CircuitBreaker, fallback audit.Sink, logger *zap.Logger) *MQSink {
	breaker.OnStateChange(func(name string, from, to circuitbreaker.State) {
		logger.Warn("熔断器状态变化",
			zap.String("name", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()),
		)
	})
	return &MQSink{publisher: publisher, breaker: breaker, fallback: fallback, logger: logger}
}

func (s *MQSink) RecordSearch(ctx context.Context, l audit.SearchLog) error {
	err := s.publish(ctx, "search", RoutingKeySearch, newSearchEvent(l))
	if err == nil {
		return nil
	}
	return s.degrade(ctx, "search", err, func(ctx context.Context) error {
		return s.fallback.RecordSearch(ctx, l)
	})
}

func (s *MQSink) RecordActivity(ctx context.Context, l audit.ActivityLog) error {
	err := s.publish(ctx, "activity", RoutingKeyActivity, newActivityEvent(l))
	if err == nil {
		return nil
	}
	return s.degrade(ctx, "activity", err, func(ctx context.Context) error {
		return s.fallback.RecordActivity(ctx, l)
	})
}

func (s *MQSink) publish(ctx context.Context, kind, key string, event any) error {
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.publisher.Publish(ctx, key, event)
	})
	if err == nil {
		metrics.IncCounterVec(metrics.AuditEventsTotal, map[string]string{"kind": kind, "result": "published"})
	}
	return err
}

func (s *MQSink) degrade(ctx context.Context, kind string, cause error, store func(context.Context) error) error {
	s.logger.Warn("审计事件发布失败，改为直接写库",
		zap.String("kind", kind),
		zap.String("breaker", s.breaker.State().String()),
		zap.Error(cause),
	)
	metrics.IncCounterVec(metrics.AuditEventsTotal, map[string]string{"kind": kind, "result": "fallback"})
	return store(ctx)
}
