// Package audit 异步记录搜索日志和活动日志
package audit

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/domain/audit"
)

const (
	defaultTimeout = 3 * time.Second
	maxQueryLen    = 255
	maxDetailLen   = 500
)

// Recorder 日志写入不阻塞请求，失败只记录warn日志
// 每次写入在独立goroutine中执行，使用脱离请求取消的ctx
type Recorder struct {
	sink    audit.Sink
	logger  *zap.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRecorder 创建Recorder
func NewRecorder(sink audit.Sink, logger *zap.Logger) *Recorder {
	return &Recorder{sink: sink, logger: logger, timeout: defaultTimeout}
}

// Search 记录一次检索，空白查询不记录；userID为0表示匿名
func (r *Recorder) Search(ctx context.Context, userID uint, query string) {
	query = truncate(strings.TrimSpace(query), maxQueryLen)
	if query == "" {
		return
	}
	l := audit.SearchLog{Query: query, CreatedAt: time.Now()}
	if userID != 0 {
		l.UserID = &userID
	}
	r.goRecord(ctx, "search", func(ctx context.Context) error {
		return r.sink.RecordSearch(ctx, l)
	})
}

// Activity 记录用户活动
func (r *Recorder) Activity(ctx context.Context, userID uint, typ, detail string) {
	if userID == 0 {
		return
	}
	l := audit.ActivityLog{UserID: userID, Type: typ, Detail: truncate(detail, maxDetailLen), CreatedAt: time.Now()}
	r.goRecord(ctx, "activity", func(ctx context.Context) error {
		return r.sink.RecordActivity(ctx, l)
	})
}

// Wait 等待所有进行中的写入完成（退出前和测试中使用）
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) goRecord(ctx context.Context, kind string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		if err := fn(ctx); err != nil {
			r.logger.Warn("审计日志写入失败", zap.String("kind", kind), zap.Error(err))
		}
	}()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
