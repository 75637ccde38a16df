package tracing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// keepExporter 内存exporter在Shutdown时会清空数据，这里保留以便断言
type keepExporter struct {
	*tracetest.InMemoryExporter
}

func (keepExporter) Shutdown(context.Context) error { return nil }

func setup(t *testing.T) (*tracetest.InMemoryExporter, func(context.Context) error) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	shutdown, err := InitWithExporter(Options{ServiceName: "sbooks-test", Version: "test"}, keepExporter{exporter})
	require.NoError(t, err)
	return exporter, shutdown
}

func TestStartSpan(t *testing.T) {
	_, shutdown := setup(t)
	defer shutdown(context.Background())

	ctx, root := StartSpan(context.Background(), "catalog.Search", attribute.String("sort", "rating"))
	defer root.End()
	_, child := StartSpan(ctx, "catalog.Query")
	defer child.End()

	t.Run("子Span继承TraceID", func(t *testing.T) {
		assert.Equal(t, root.SpanContext().TraceID(), child.SpanContext().TraceID())
		assert.NotEqual(t, root.SpanContext().SpanID(), child.SpanContext().SpanID())
	})

	t.Run("ExtractTraceID", func(t *testing.T) {
		assert.Equal(t, root.SpanContext().TraceID().String(), ExtractTraceID(ctx))
		assert.Empty(t, ExtractTraceID(context.Background()))
	})
}

func TestEnd_RecordsError(t *testing.T) {
	exporter, shutdown := setup(t)

	_, span := StartSpan(context.Background(), "review.Vote")
	End(span, errors.New("review not found"))
	_, ok := StartSpan(context.Background(), "review.List")
	End(ok, nil)

	// shutdown会刷新批处理器
	require.NoError(t, shutdown(context.Background()))

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	byName := map[string]tracetest.SpanStub{}
	for _, s := range spans {
		byName[s.Name] = s
	}
	assert.Equal(t, codes.Error, byName["review.Vote"].Status.Code)
	assert.Len(t, byName["review.Vote"].Events, 1)
	assert.Equal(t, codes.Unset, byName["review.List"].Status.Code)
	t.Logf("✓ 导出Span数量: %d", len(spans))
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(0).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased")
}
