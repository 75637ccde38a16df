// Package mq 基于RabbitMQ的消息发布/订阅
//
// 约定：
//   - Exchange统一声明为持久化的topic类型，routing key形如 audit.search、audit.activity
//   - 消息体为JSON，DeliveryMode=Persistent
//   - 消费端手动Ack；处理失败的消息首次投递时重新入队，重复投递仍失败则丢弃（Reject）
package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/pkg/metrics"
)

// Config 连接配置
type Config struct {
	URL          string
	Exchange     string
	ExchangeType string // 默认topic
}

func (c Config) exchangeType() string {
	if c.ExchangeType == "" {
		return amqp.ExchangeTopic
	}
	return c.ExchangeType
}

// dial 连接并声明Exchange，失败时释放已打开的资源
func dial(cfg Config) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("连接RabbitMQ失败: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("创建Channel失败: %w", err)
	}

	// durable=true, autoDelete=false, internal=false, noWait=false
	if err := ch.ExchangeDeclare(cfg.Exchange, cfg.exchangeType(), true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("声明Exchange失败: %w", err)
	}
	return conn, ch, nil
}

// Publisher 消息发布者
// amqp.Channel不是并发安全的，Publish内部加锁
type Publisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher 创建发布者
func NewPublisher(cfg Config, logger *zap.Logger) (*Publisher, error) {
	conn, ch, err := dial(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("消息发布者已创建", zap.String("exchange", cfg.Exchange))
	return &Publisher{conn: conn, channel: ch, exchange: cfg.Exchange, logger: logger}, nil
}

// Publish 发布JSON消息
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	msg, err := NewPublishing(message, time.Now())
	if err != nil {
		return err
	}

	p.mu.Lock()
	err = p.channel.PublishWithContext(ctx, p.exchange, routingKey, false, false, msg)
	p.mu.Unlock()
	if err != nil {
		return fmt.Errorf("发布消息失败: %w", err)
	}

	metrics.IncCounterVec(metrics.MessagesPublishedTotal, map[string]string{
		"exchange":    p.exchange,
		"routing_key": routingKey,
	})
	p.logger.Debug("消息已发布", zap.String("routing_key", routingKey), zap.Int("bytes", len(msg.Body)))
	return nil
}

// Close 关闭发布者
func (p *Publisher) Close() error {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// NewPublishing 把消息序列化为持久化的JSON投递
func NewPublishing(message any, now time.Time) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("消息序列化失败: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    now,
	}, nil
}

// Handler 消息处理函数，返回错误表示处理失败
type Handler func(ctx context.Context, routingKey string, body []byte) error

// Consumer 消息消费者
type Consumer struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	queue    string
	prefetch int
	logger   *zap.Logger
}

// NewConsumer 创建消费者：声明持久化Queue并按routingKeys绑定（支持 * 和 # 通配符）
func NewConsumer(cfg Config, queue string, routingKeys []string, prefetch int, logger *zap.Logger) (*Consumer, error) {
	conn, ch, err := dial(cfg)
	if err != nil {
		return nil, err
	}

	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("声明Queue失败: %w", err)
	}

	for _, key := range routingKeys {
		if err := ch.QueueBind(q.Name, key, cfg.Exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("绑定Queue失败: %w", err)
		}
	}

	if prefetch <= 0 {
		prefetch = 1
	}
	logger.Info("消息消费者已创建", zap.String("queue", q.Name), zap.Strings("routing_keys", routingKeys))
	return &Consumer{conn: conn, channel: ch, queue: q.Name, prefetch: prefetch, logger: logger}, nil
}

// Consume 阻塞消费直到ctx取消或连接关闭
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	if err := c.channel.Qos(c.prefetch, 0, false); err != nil {
		return fmt.Errorf("设置Qos失败: %w", err)
	}

	msgs, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("开始消费失败: %w", err)
	}

	c.logger.Info("开始消费消息", zap.String("queue", c.queue))
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("消费者退出", zap.String("queue", c.queue))
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("消息Channel已关闭")
			}
			c.Dispatch(ctx, msg, handler)
		}
	}
}

// Dispatch 处理单条投递并确认
func (c *Consumer) Dispatch(ctx context.Context, msg amqp.Delivery, handler Handler) {
	start := time.Now()
	err := handler(ctx, msg.RoutingKey, msg.Body)
	metrics.ObserveHistogram(metrics.MessageProcessingDuration, time.Since(start).Seconds())

	if err == nil {
		metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": c.queue, "result": "success"})
		if ackErr := msg.Ack(false); ackErr != nil {
			c.logger.Warn("消息确认失败", zap.Error(ackErr))
		}
		return
	}

	metrics.IncCounterVec(metrics.MessagesConsumedTotal, map[string]string{"queue": c.queue, "result": "failure"})
	if msg.Redelivered {
		// 已经重试过一次，丢弃避免毒消息无限循环
		c.logger.Error("消息重复处理失败，丢弃",
			zap.String("routing_key", msg.RoutingKey),
			zap.ByteString("body", msg.Body),
			zap.Error(err),
		)
		_ = msg.Reject(false)
		return
	}
	c.logger.Warn("消息处理失败，重新入队", zap.String("routing_key", msg.RoutingKey), zap.Error(err))
	_ = msg.Nack(false, true)
}

// Close 关闭消费者
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
