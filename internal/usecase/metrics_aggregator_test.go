package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsAggregator(timeout time.Duration, providers ...domain.Provider) *MetricsAggregator {
	return NewMetricsAggregator(newTestRegistry(providers...), logger.New("error"), newTestMetrics(), timeout)
}

func TestAggregatedMetricsSumsPerDate(t *testing.T) {
	a := &fakeProvider{name: "providerA", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 10, Impressions: 100, Clicks: 5, Reach: 50},
	}}
	b := &fakeProvider{name: "providerB", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 20, Impressions: 200, Clicks: 8, Reach: 90},
		{Date: "2024-01-02", Spend: 7, Impressions: 70, Clicks: 3, Reach: 30},
	}}

	agg := newMetricsAggregator(time.Second, a, b)
	rows := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)

	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "2024-01-01", first.Date)
	assert.Equal(t, 30.0, first.Spend)
	assert.Equal(t, int64(300), first.Impressions)
	assert.Equal(t, int64(13), first.Clicks)
	assert.Equal(t, int64(140), first.Reach)
	require.Len(t, first.ByProvider, 2)
	assert.Equal(t, 10.0, first.ByProvider["providerA"].Spend)
	assert.Equal(t, 20.0, first.ByProvider["providerB"].Spend)

	// second date comes only from providerB, no invented rows
	second := rows[1]
	assert.Equal(t, "2024-01-02", second.Date)
	assert.Equal(t, 7.0, second.Spend)
	require.Len(t, second.ByProvider, 1)
}

func TestAggregatedMetricsSortedAscending(t *testing.T) {
	p := &fakeProvider{name: "meta", metrics: []domain.DailyMetrics{
		{Date: "2024-01-03", Spend: 3},
		{Date: "2024-01-01", Spend: 1},
		{Date: "2024-01-02", Spend: 2},
	}}

	agg := newMetricsAggregator(time.Second, p)
	rows := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)

	require.Len(t, rows, 3)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "2024-01-02", rows[1].Date)
	assert.Equal(t, "2024-01-03", rows[2].Date)
}

func TestAggregatedMetricsNormalizesDates(t *testing.T) {
	p := &fakeProvider{name: "meta", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01T00:00:00Z", Spend: 1},
		{Date: "2024-01-01", Spend: 2},
		{Date: "not-a-date", Spend: 100},
	}}

	agg := newMetricsAggregator(time.Second, p)
	rows := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)

	// both well-formed records land on the same canonical day, the
	// malformed one is dropped
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, 3.0, rows[0].Spend)
}

func TestMetricsByProviderFailureIsolation(t *testing.T) {
	a := &fakeProvider{name: "providerA", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 10},
	}}
	b := &fakeProvider{name: "providerB", err: errors.New("boom")}

	agg := newMetricsAggregator(time.Second, a, b)
	results := agg.MetricsByProvider(context.Background(), "proj-1", testRange, nil)

	require.Len(t, results, 2)
	assert.Equal(t, "providerA", results[0].Provider)
	assert.Len(t, results[0].Metrics, 1)
	assert.Equal(t, "providerB", results[1].Provider)
	assert.Empty(t, results[1].Metrics)
}

func TestMetricsByProviderParallelDispatch(t *testing.T) {
	providers := []domain.Provider{
		&fakeProvider{name: "s1", delay: 100 * time.Millisecond},
		&fakeProvider{name: "s2", delay: 100 * time.Millisecond},
		&fakeProvider{name: "s3", delay: 100 * time.Millisecond},
	}

	agg := newMetricsAggregator(time.Second, providers...)

	start := time.Now()
	results := agg.MetricsByProvider(context.Background(), "proj-1", testRange, nil)
	elapsed := time.Since(start)

	require.Len(t, results, 3)
	assert.Less(t, elapsed, 250*time.Millisecond,
		"expected parallel dispatch (~100ms), took %v", elapsed)
}

func TestSlowProviderDegradesAfterTimeout(t *testing.T) {
	fast := &fakeProvider{name: "fast", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 5},
	}}
	stuck := &fakeProvider{name: "stuck", delay: 5 * time.Second}

	agg := newMetricsAggregator(50*time.Millisecond, fast, stuck)

	start := time.Now()
	results := agg.MetricsByProvider(context.Background(), "proj-1", testRange, nil)
	elapsed := time.Since(start)

	require.Len(t, results, 2)
	assert.Len(t, results[0].Metrics, 1)
	assert.Empty(t, results[1].Metrics)
	assert.Less(t, elapsed, time.Second, "stuck provider must not stall the join")
}

func TestMetricsFromProviderUnknownName(t *testing.T) {
	agg := newMetricsAggregator(time.Second, &fakeProvider{name: "meta"})

	records := agg.MetricsFromProvider(context.Background(), "nonexistent", "proj-1", testRange, nil)

	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestAggregatedMetricsZeroProviders(t *testing.T) {
	agg := newMetricsAggregator(time.Second)

	rows := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)

	assert.Empty(t, rows)
}

func TestAggregatedMetricsIdempotent(t *testing.T) {
	a := &fakeProvider{name: "providerA", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 10, Impressions: 100},
		{Date: "2024-01-02", Spend: 20, Impressions: 200},
	}}
	b := &fakeProvider{name: "providerB", metrics: []domain.DailyMetrics{
		{Date: "2024-01-02", Spend: 1, Impressions: 10},
	}}

	agg := newMetricsAggregator(time.Second, a, b)

	first := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)
	second := agg.AggregatedMetrics(context.Background(), "proj-1", testRange, nil)

	assert.Equal(t, first, second)
}

func TestSummaryTotalsAdditiveFields(t *testing.T) {
	p := &fakeProvider{name: "meta", metrics: []domain.DailyMetrics{
		{Date: "2024-01-01", Spend: 10, Impressions: 100, Clicks: 5, Reach: 50},
		{Date: "2024-01-02", Spend: 20, Impressions: 200, Clicks: 8, Reach: 90},
	}}

	agg := newMetricsAggregator(time.Second, p)
	summary := agg.Summary(context.Background(), "proj-1", testRange, nil)

	assert.Equal(t, testRange.Start, summary.From)
	assert.Equal(t, testRange.End, summary.To)
	assert.Equal(t, 2, summary.Days)
	assert.Equal(t, 30.0, summary.Spend)
	assert.Equal(t, int64(300), summary.Impressions)
	assert.Equal(t, int64(13), summary.Clicks)
	assert.Equal(t, int64(140), summary.Reach)
}
