package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMetrics(t *testing.T) {
	InitMetrics()
	// 重复调用不应panic（promauto重复注册会panic）
	InitMetrics()

	require.NotNil(t, HTTPRequestsTotal)
	require.NotNil(t, ReviewVotesTotal)
	require.NotNil(t, FavoriteTogglesTotal)
	require.NotNil(t, CatalogQueryDuration)
	require.NotNil(t, AuditEventsTotal)
	t.Log("✓ 所有指标初始化成功")
}

func TestCounterVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"transition": "none_to_like"}
	before := getCounterVecValue(t, ReviewVotesTotal, labels)

	IncCounterVec(ReviewVotesTotal, labels)
	IncCounterVec(ReviewVotesTotal, labels)

	assert.Equal(t, before+2, getCounterVecValue(t, ReviewVotesTotal, labels))

	// 其他标签不受影响
	other := map[string]string{"transition": "like_to_none"}
	assert.Equal(t, float64(0), getCounterVecValue(t, ReviewVotesTotal, other))
}

func TestNilVecIgnored(t *testing.T) {
	assert.NotPanics(t, func() {
		IncCounterVec(nil, map[string]string{"a": "b"})
		SetGaugeVec(nil, map[string]string{"a": "b"}, 1)
		ObserveHistogramVec(nil, map[string]string{"a": "b"}, 1)
	})
}

func TestGauge(t *testing.T) {
	InitMetrics()

	start := getGaugeValue(t, HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	IncGauge(HTTPRequestsInProgress)
	DecGauge(HTTPRequestsInProgress)
	assert.Equal(t, start+1, getGaugeValue(t, HTTPRequestsInProgress))

	SetGauge(HTTPRequestsInProgress, 0)
	assert.Equal(t, float64(0), getGaugeValue(t, HTTPRequestsInProgress))
}

func TestGaugeVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"name": "audit-mq"}
	SetGaugeVec(CircuitBreakerState, labels, 1)
	assert.Equal(t, float64(1), getGaugeVecValue(t, CircuitBreakerState, labels))

	SetGaugeVec(CircuitBreakerState, labels, 0)
	assert.Equal(t, float64(0), getGaugeVecValue(t, CircuitBreakerState, labels))
}

func TestHistogram(t *testing.T) {
	InitMetrics()

	before := getHistogramCount(t, MessageProcessingDuration)
	sumBefore := getHistogramSum(t, MessageProcessingDuration)

	ObserveHistogram(MessageProcessingDuration, 0.2)
	ObserveHistogram(MessageProcessingDuration, 0.3)

	assert.Equal(t, before+2, getHistogramCount(t, MessageProcessingDuration))
	assert.InDelta(t, sumBefore+0.5, getHistogramSum(t, MessageProcessingDuration), 1e-9)
}

func TestHistogramVec(t *testing.T) {
	InitMetrics()

	labels := map[string]string{"sort": "rating"}
	before := getHistogramVecCount(t, CatalogQueryDuration, labels)
	ObserveHistogramVec(CatalogQueryDuration, labels, 0.012)
	assert.Equal(t, before+1, getHistogramVecCount(t, CatalogQueryDuration, labels))
}

func getCounterVecValue(t *testing.T, counterVec *prometheus.CounterVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, counterVec.With(labels).Write(&metric))
	return metric.Counter.GetValue()
}

func getGaugeValue(t *testing.T, gauge prometheus.Gauge) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gauge.Write(&metric))
	return metric.Gauge.GetValue()
}

func getGaugeVecValue(t *testing.T, gaugeVec *prometheus.GaugeVec, labels map[string]string) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, gaugeVec.With(labels).Write(&metric))
	return metric.Gauge.GetValue()
}

func getHistogramCount(t *testing.T, histogram prometheus.Histogram) uint64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, histogram.Write(&metric))
	return metric.Histogram.GetSampleCount()
}

func getHistogramSum(t *testing.T, histogram prometheus.Histogram) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, histogram.Write(&metric))
	return metric.Histogram.GetSampleSum()
}

func getHistogramVecCount(t *testing.T, histogramVec *prometheus.HistogramVec, labels map[string]string) uint64 {
	t.Helper()
	var metric dto.Metric
	observer := histogramVec.With(labels)
	require.NoError(t, observer.(prometheus.Metric).Write(&metric))
	return metric.Histogram.GetSampleCount()
}
