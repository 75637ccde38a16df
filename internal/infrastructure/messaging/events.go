// Package messaging 审计事件（搜索日志、活动日志）的写入通道
//
// MQ关闭时API进程用StoreSink直接写库；开启时用MQSink发布到RabbitMQ，
// 由worker进程消费后写库。发布失败或熔断打开时MQSink降级为直接写库。
package messaging

import (
	"time"

	"github.com/xiebiao/sbooks/internal/domain/audit"
)

// Routing keys
const (
	RoutingKeySearch   = "audit.search"
	RoutingKeyActivity = "audit.activity"

	// BindingPattern worker队列绑定的routing key
	BindingPattern = "audit.*"
)

// SearchEvent 搜索事件消息体
type SearchEvent struct {
	UserID     *uint     `json:"user_id,omitempty"`
	Query      string    `json:"query"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ActivityEvent 活动事件消息体
type ActivityEvent struct {
	UserID     uint      `json:"user_id"`
	Type       string    `json:"type"`
	Detail     string    `json:"detail"`
	OccurredAt time.Time `json:"occurred_at"`
}

func newSearchEvent(l audit.SearchLog) SearchEvent {
	return SearchEvent{UserID: l.UserID, Query: l.Query, OccurredAt: occurredAt(l.CreatedAt)}
}

func newActivityEvent(l audit.ActivityLog) ActivityEvent {
	return ActivityEvent{UserID: l.UserID, Type: l.Type, Detail: l.Detail, OccurredAt: occurredAt(l.CreatedAt)}
}

func (e SearchEvent) log() *audit.SearchLog {
	return &audit.SearchLog{UserID: e.UserID, Query: e.Query, CreatedAt: occurredAt(e.OccurredAt)}
}

func (e ActivityEvent) log() *audit.ActivityLog {
	return &audit.ActivityLog{UserID: e.UserID, Type: e.Type, Detail: e.Detail, CreatedAt: occurredAt(e.OccurredAt)}
}

// occurredAt 事件时间以发生时为准，缺省取当前时间
func occurredAt(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now()
	}
	return t
}
