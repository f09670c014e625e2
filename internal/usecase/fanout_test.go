package usecase

import (
	"context"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/internal/infrastructure"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// configurable in-memory provider used across the aggregator tests
type fakeProvider struct {
	name      string
	delay     time.Duration
	err       error
	metrics   []domain.DailyMetrics
	hierarchy *domain.Hierarchy
	health    *domain.DataHealth
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) GetMetrics(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) ([]domain.DailyMetrics, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

func (f *fakeProvider) GetHierarchy(ctx context.Context, projectID string, accountIDs []string) (*domain.Hierarchy, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.hierarchy, nil
}

func (f *fakeProvider) GetDataHealth(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) (*domain.DataHealth, error) {
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.health, nil
}

func (f *fakeProvider) wait(ctx context.Context) error {
	if f.delay == 0 {
		return nil
	}
	select {
	case <-time.After(f.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newTestRegistry(providers ...domain.Provider) domain.ProviderRegistry {
	registry := infrastructure.NewProviderRegistry(logger.New("error"))
	for _, p := range providers {
		registry.Register(p)
	}
	return registry
}

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWith(prometheus.NewRegistry())
}

var testRange = domain.DateRange{Start: "2024-01-01", End: "2024-01-31"}
