package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"

	"github.com/xiebiao/sbooks/internal/domain/audit"
	auditmocks "github.com/xiebiao/sbooks/internal/domain/audit/mocks"
)

func TestRecorder_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := auditmocks.NewMockSink(ctrl)
	r := NewRecorder(sink, zap.NewNop())

	t.Run("已取消的请求ctx不影响写入", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		sink.EXPECT().RecordSearch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, l audit.SearchLog) error {
				assert.NoError(t, ctx.Err())
				assert.Equal(t, "golang", l.Query)
				assert.Equal(t, uint(3), *l.UserID)
				return nil
			})
		r.Search(ctx, 3, "  golang ")
		r.Wait()
	})

	t.Run("匿名搜索", func(t *testing.T) {
		sink.EXPECT().RecordSearch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l audit.SearchLog) error {
				assert.Nil(t, l.UserID)
				return nil
			})
		r.Search(context.Background(), 0, "redis")
		r.Wait()
	})

	t.Run("空白查询不记录", func(t *testing.T) {
		r.Search(context.Background(), 1, "   ")
		r.Wait()
	})

	t.Run("超长查询截断", func(t *testing.T) {
		sink.EXPECT().RecordSearch(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, l audit.SearchLog) error {
				assert.Equal(t, maxQueryLen, len([]rune(l.Query)))
				return nil
			})
		r.Search(context.Background(), 1, strings.Repeat("书", 300))
		r.Wait()
	})

	t.Run("写入失败不向调用方返回", func(t *testing.T) {
		sink.EXPECT().RecordSearch(gomock.Any(), gomock.Any()).Return(errors.New("db down"))
		r.Search(context.Background(), 1, "go")
		r.Wait()
	})
}

func TestRecorder_Activity(t *testing.T) {
	ctrl := gomock.NewController(t)
	sink := auditmocks.NewMockSink(ctrl)
	r := NewRecorder(sink, zap.NewNop())

	sink.EXPECT().RecordActivity(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, l audit.ActivityLog) error {
			assert.Equal(t, uint(8), l.UserID)
			assert.Equal(t, audit.ActivityLogin, l.Type)
			return nil
		})
	r.Activity(context.Background(), 8, audit.ActivityLogin, "ip=127.0.0.1")
	// 匿名不记录
	r.Activity(context.Background(), 0, audit.ActivityLogin, "")
	r.Wait()
}
