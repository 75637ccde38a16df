package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/pkg/mq"
)

// NewAuditHandler worker消费审计事件并写库
// 未知routing key直接确认丢弃；消息体无法解析返回错误，由Consumer决定重投或丢弃
func NewAuditHandler(repo audit.Repository, logger *zap.Logger) mq.Handler {
	return func(ctx context.Context, routingKey string, body []byte) error {
		switch routingKey {
		case RoutingKeySearch:
			var ev SearchEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				return fmt.Errorf("解析搜索事件失败: %w", err)
			}
			err := repo.SaveSearch(ctx, ev.log())
			countStored("search", err)
			return err
		case RoutingKeyActivity:
			var ev ActivityEvent
			if err := json.Unmarshal(body, &ev); err != nil {
				return fmt.Errorf("解析活动事件失败: %w", err)
			}
			err := repo.SaveActivity(ctx, ev.log())
			countStored("activity", err)
			return err
		default:
			logger.Warn("忽略未知的审计事件", zap.String("routing_key", routingKey))
			return nil
		}
	}
}
