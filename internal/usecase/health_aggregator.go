package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"
)

// HealthAggregator reduces the completeness reports of all providers to
// one worst-case summary.
type HealthAggregator struct {
	registry        domain.ProviderRegistry
	logger          *logger.Logger
	metrics         *metrics.Metrics
	providerTimeout time.Duration
}

func NewHealthAggregator(
	registry domain.ProviderRegistry,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	providerTimeout time.Duration,
) *HealthAggregator {
	return &HealthAggregator{
		registry:        registry,
		logger:          logger,
		metrics:         metrics,
		providerTimeout: providerTimeout,
	}
}

// HealthByProvider fans out one call per registered provider. A failing
// provider degrades to the worst-case report; failure is the worst
// possible signal, never silently ignored.
func (s *HealthAggregator) HealthByProvider(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) []domain.ProviderHealth {
	start := time.Now()
	providers := s.registry.Providers()
	results := make([]domain.ProviderHealth, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p domain.Provider) {
			defer wg.Done()
			results[i] = domain.ProviderHealth{
				Provider: p.Name(),
				Health:   s.fetchHealth(ctx, p, projectID, dateRange, accountIDs),
			}
		}(i, p)
	}
	wg.Wait()

	s.metrics.RecordAggregation("health_by_provider", len(providers), time.Since(start))
	return results
}

// AggregatedHealth reduces all provider reports in one pass: completeness
// requires every provider complete and at least one provider registered,
// missing days are the sorted deduplicated union, and credentials take
// the worst status under the fixed severity ordering.
func (s *HealthAggregator) AggregatedHealth(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) *domain.AggregatedDataHealth {
	log := s.logger.WithContext(ctx)

	byProvider := s.HealthByProvider(ctx, projectID, dateRange, accountIDs)

	result := &domain.AggregatedDataHealth{
		ProvidersTotal:         len(byProvider),
		WorstCredentialsStatus: domain.CredentialsValid,
		ByProvider:             byProvider,
	}

	missing := make(map[string]struct{})
	for _, ph := range byProvider {
		if ph.Health.IsComplete {
			result.ProvidersComplete++
		}
		for _, day := range ph.Health.MissingDays {
			normalized, err := domain.NormalizeDay(day)
			if err != nil {
				log.WithError(err).WithFields(map[string]any{
					"provider": ph.Provider,
					"day":      day,
				}).Warn("Dropping malformed missing day from health report")
				continue
			}
			missing[normalized] = struct{}{}
		}
		result.WorstCredentialsStatus = domain.WorstCredentialsStatus(result.WorstCredentialsStatus, ph.Health.CredentialsStatus)
	}

	result.MissingDays = make([]string, 0, len(missing))
	for day := range missing {
		result.MissingDays = append(result.MissingDays, day)
	}
	sort.Strings(result.MissingDays)

	// zero providers means not complete
	result.IsComplete = result.ProvidersTotal > 0 && result.ProvidersComplete == result.ProvidersTotal

	return result
}

// HealthFromProvider is a single-provider passthrough. An unknown name
// returns the worst-case report with a warning, never an error.
func (s *HealthAggregator) HealthFromProvider(ctx context.Context, providerName, projectID string, dateRange domain.DateRange, accountIDs []string) *domain.DataHealth {
	p, ok := s.registry.Provider(providerName)
	if !ok {
		s.logger.WithContext(ctx).WithField("provider", providerName).Warn("Unknown provider requested for data health")
		return domain.DegradedHealth()
	}
	return s.fetchHealth(ctx, p, projectID, dateRange, accountIDs)
}

// guarded single-provider call with a bounded timeout
func (s *HealthAggregator) fetchHealth(ctx context.Context, p domain.Provider, projectID string, dateRange domain.DateRange, accountIDs []string) *domain.DataHealth {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	start := time.Now()
	health, err := p.GetDataHealth(callCtx, projectID, dateRange, accountIDs)
	if err != nil || health == nil {
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"provider":   p.Name(),
				"project_id": projectID,
				"from":       dateRange.Start,
				"to":         dateRange.End,
			}).Error("Provider data health call failed")
			s.metrics.RecordProviderFailure(p.Name(), "data_health", providerErrorType(err))
		}
		return domain.DegradedHealth()
	}

	s.metrics.RecordProviderCall(p.Name(), "data_health", "success", time.Since(start))
	return health
}
