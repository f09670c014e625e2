package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"
)

// MetricsAggregator merges per-day advertising metrics from every
// registered provider into one timeline.
type MetricsAggregator struct {
	registry        domain.ProviderRegistry
	logger          *logger.Logger
	metrics         *metrics.Metrics
	providerTimeout time.Duration
}

func NewMetricsAggregator(
	registry domain.ProviderRegistry,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	providerTimeout time.Duration,
) *MetricsAggregator {
	return &MetricsAggregator{
		registry:        registry,
		logger:          logger,
		metrics:         metrics,
		providerTimeout: providerTimeout,
	}
}

// MetricsByProvider fans out one call per registered provider and joins
// all of them. A failing or timed-out provider degrades to an empty
// metrics list; one broken integration must not blank out all callers.
func (s *MetricsAggregator) MetricsByProvider(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) []domain.ProviderMetrics {
	start := time.Now()
	providers := s.registry.Providers()
	results := make([]domain.ProviderMetrics, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p domain.Provider) {
			defer wg.Done()
			results[i] = domain.ProviderMetrics{
				Provider: p.Name(),
				Metrics:  s.fetchMetrics(ctx, p, projectID, dateRange, accountIDs),
			}
		}(i, p)
	}
	wg.Wait()

	s.metrics.RecordAggregation("metrics_by_provider", len(providers), time.Since(start))
	return results
}

// AggregatedMetrics folds every provider's per-date records into a single
// ascending timeline. Additive fields are summed per date and each
// provider's raw record is kept under ByProvider for audit. A date exists
// in the output only if at least one provider reported data for it.
func (s *MetricsAggregator) AggregatedMetrics(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) []domain.AggregatedDailyMetrics {
	log := s.logger.WithContext(ctx)

	byProvider := s.MetricsByProvider(ctx, projectID, dateRange, accountIDs)

	rows := make(map[string]*domain.AggregatedDailyMetrics)
	for _, pm := range byProvider {
		for _, record := range pm.Metrics {
			day, err := domain.NormalizeDay(record.Date)
			if err != nil {
				log.WithError(err).WithFields(map[string]any{
					"provider": pm.Provider,
					"date":     record.Date,
				}).Warn("Dropping metrics record with malformed date")
				continue
			}
			record.Date = day

			row, ok := rows[day]
			if !ok {
				rows[day] = &domain.AggregatedDailyMetrics{
					Date:        day,
					Spend:       record.Spend,
					Impressions: record.Impressions,
					Clicks:      record.Clicks,
					Reach:       record.Reach,
					ByProvider:  map[string]domain.DailyMetrics{pm.Provider: record},
				}
				continue
			}

			row.Spend += record.Spend
			row.Impressions += record.Impressions
			row.Clicks += record.Clicks
			row.Reach += record.Reach
			row.ByProvider[pm.Provider] = record
		}
	}

	aggregated := make([]domain.AggregatedDailyMetrics, 0, len(rows))
	for _, row := range rows {
		aggregated = append(aggregated, *row)
	}
	sort.Slice(aggregated, func(i, j int) bool {
		return aggregated[i].Date < aggregated[j].Date
	})

	return aggregated
}

// MetricsFromProvider is a single-provider passthrough. An unknown name
// returns an empty list with a warning, never an error.
func (s *MetricsAggregator) MetricsFromProvider(ctx context.Context, providerName, projectID string, dateRange domain.DateRange, accountIDs []string) []domain.DailyMetrics {
	p, ok := s.registry.Provider(providerName)
	if !ok {
		s.logger.WithContext(ctx).WithField("provider", providerName).Warn("Unknown provider requested for metrics")
		return []domain.DailyMetrics{}
	}
	return s.fetchMetrics(ctx, p, projectID, dateRange, accountIDs)
}

// Summary totals the additive fields over the aggregated timeline. Sums
// only; derived ratios stay a caller concern.
func (s *MetricsAggregator) Summary(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) domain.MetricsSummary {
	summary := domain.MetricsSummary{
		From: dateRange.Start,
		To:   dateRange.End,
	}

	for _, row := range s.AggregatedMetrics(ctx, projectID, dateRange, accountIDs) {
		summary.Days++
		summary.Spend += row.Spend
		summary.Impressions += row.Impressions
		summary.Clicks += row.Clicks
		summary.Reach += row.Reach
	}

	return summary
}

// guarded single-provider call with a bounded timeout, so one slow
// provider cannot stall the whole join
func (s *MetricsAggregator) fetchMetrics(ctx context.Context, p domain.Provider, projectID string, dateRange domain.DateRange, accountIDs []string) []domain.DailyMetrics {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	start := time.Now()
	records, err := p.GetMetrics(callCtx, projectID, dateRange, accountIDs)
	if err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"provider":   p.Name(),
			"project_id": projectID,
			"from":       dateRange.Start,
			"to":         dateRange.End,
		}).Error("Provider metrics call failed")
		s.metrics.RecordProviderFailure(p.Name(), "metrics", providerErrorType(err))
		return []domain.DailyMetrics{}
	}

	s.metrics.RecordProviderCall(p.Name(), "metrics", "success", time.Since(start))
	return records
}

// classifies a provider failure for metrics labels
func providerErrorType(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	if errors.Is(err, context.Canceled) {
		return "canceled"
	}
	return "call_error"
}
