package usecase

import (
	"context"
	"sync"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"
)

// HierarchyAggregator combines ad-hierarchy listings across providers.
// It only concatenates; entities are never merged or deduplicated across
// providers.
type HierarchyAggregator struct {
	registry        domain.ProviderRegistry
	logger          *logger.Logger
	metrics         *metrics.Metrics
	providerTimeout time.Duration
}

func NewHierarchyAggregator(
	registry domain.ProviderRegistry,
	logger *logger.Logger,
	metrics *metrics.Metrics,
	providerTimeout time.Duration,
) *HierarchyAggregator {
	return &HierarchyAggregator{
		registry:        registry,
		logger:          logger,
		metrics:         metrics,
		providerTimeout: providerTimeout,
	}
}

// HierarchyByProvider fans out one call per registered provider. A
// failing provider yields the empty hierarchy rather than aborting the
// whole call.
func (s *HierarchyAggregator) HierarchyByProvider(ctx context.Context, projectID string, accountIDs []string) []domain.ProviderHierarchy {
	start := time.Now()
	providers := s.registry.Providers()
	results := make([]domain.ProviderHierarchy, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p domain.Provider) {
			defer wg.Done()
			results[i] = domain.ProviderHierarchy{
				Provider:  p.Name(),
				Hierarchy: s.fetchHierarchy(ctx, p, projectID, accountIDs),
			}
		}(i, p)
	}
	wg.Wait()

	s.metrics.RecordAggregation("hierarchy_by_provider", len(providers), time.Since(start))
	return results
}

// AggregatedHierarchy concatenates each provider's four entity lists in
// registration order. ProviderCount reflects how many providers were
// queried, not how many returned data.
func (s *HierarchyAggregator) AggregatedHierarchy(ctx context.Context, projectID string, accountIDs []string) *domain.AggregatedHierarchy {
	byProvider := s.HierarchyByProvider(ctx, projectID, accountIDs)

	aggregated := &domain.AggregatedHierarchy{
		Hierarchy:     *domain.EmptyHierarchy(),
		ProviderCount: len(byProvider),
	}

	for _, ph := range byProvider {
		aggregated.Accounts = append(aggregated.Accounts, ph.Hierarchy.Accounts...)
		aggregated.Campaigns = append(aggregated.Campaigns, ph.Hierarchy.Campaigns...)
		aggregated.Adsets = append(aggregated.Adsets, ph.Hierarchy.Adsets...)
		aggregated.Ads = append(aggregated.Ads, ph.Hierarchy.Ads...)
	}

	return aggregated
}

// HierarchyFromProvider is a single-provider passthrough. An unknown
// name returns the empty hierarchy with a warning, never an error.
func (s *HierarchyAggregator) HierarchyFromProvider(ctx context.Context, providerName, projectID string, accountIDs []string) *domain.Hierarchy {
	p, ok := s.registry.Provider(providerName)
	if !ok {
		s.logger.WithContext(ctx).WithField("provider", providerName).Warn("Unknown provider requested for hierarchy")
		return domain.EmptyHierarchy()
	}
	return s.fetchHierarchy(ctx, p, projectID, accountIDs)
}

// guarded single-provider call; stamps every returned entity with the
// provider name so cross-provider ID collisions are structurally
// impossible
func (s *HierarchyAggregator) fetchHierarchy(ctx context.Context, p domain.Provider, projectID string, accountIDs []string) *domain.Hierarchy {
	callCtx, cancel := context.WithTimeout(ctx, s.providerTimeout)
	defer cancel()

	start := time.Now()
	hierarchy, err := p.GetHierarchy(callCtx, projectID, accountIDs)
	if err != nil || hierarchy == nil {
		if err != nil {
			s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"provider":   p.Name(),
				"project_id": projectID,
			}).Error("Provider hierarchy call failed")
			s.metrics.RecordProviderFailure(p.Name(), "hierarchy", providerErrorType(err))
		}
		return domain.EmptyHierarchy()
	}

	stampHierarchy(p.Name(), hierarchy)
	s.metrics.RecordProviderCall(p.Name(), "hierarchy", "success", time.Since(start))
	return hierarchy
}

func stampHierarchy(provider string, h *domain.Hierarchy) {
	for i := range h.Accounts {
		h.Accounts[i].Provider = provider
	}
	for i := range h.Campaigns {
		h.Campaigns[i].Provider = provider
	}
	for i := range h.Adsets {
		h.Adsets[i].Provider = provider
	}
	for i := range h.Ads {
		h.Ads[i].Provider = provider
	}
}
