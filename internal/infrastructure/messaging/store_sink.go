package messaging

import (
	"context"

	"github.com/xiebiao/sbooks/internal/domain/audit"
	"github.com/xiebiao/sbooks/pkg/metrics"
)

// StoreSink 直接写入数据库
type StoreSink struct {
	repo audit.Repository
}

var _ audit.Sink = (*StoreSink)(nil)

// NewStoreSink 创建直接写库的Sink
func NewStoreSink(repo audit.Repository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) RecordSearch(ctx context.Context, l audit.SearchLog) error {
	l.CreatedAt = occurredAt(l.CreatedAt)
	err := s.repo.SaveSearch(ctx, &l)
	countStored("search", err)
	return err
}

func (s *StoreSink) RecordActivity(ctx context.Context, l audit.ActivityLog) error {
	l.CreatedAt = occurredAt(l.CreatedAt)
	err := s.repo.SaveActivity(ctx, &l)
	countStored("activity", err)
	return err
}

func countStored(kind string, err error) {
	result := "stored"
	if err != nil {
		result = "failed"
	}
	metrics.IncCounterVec(metrics.AuditEventsTotal, map[string]string{"kind": kind, "result": result})
}
