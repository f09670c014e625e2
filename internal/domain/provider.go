package domain

import "context"

// interface every advertising-data provider implements. Providers are
// stateless from the domain's perspective; credentials and persistence
// live inside the implementation. Project IDs, account IDs and date
// strings are opaque and passed through verbatim.
type Provider interface {
	// Name returns the stable identifier unique across the registry,
	// e.g. "meta".
	Name() string

	GetMetrics(ctx context.Context, projectID string, dateRange DateRange, accountIDs []string) ([]DailyMetrics, error)
	GetHierarchy(ctx context.Context, projectID string, accountIDs []string) (*Hierarchy, error)
	GetDataHealth(ctx context.Context, projectID string, dateRange DateRange, accountIDs []string) (*DataHealth, error)
}

// interface for the provider directory. Constructed once at startup and
// passed to the aggregators; there is no package-level singleton so each
// test can build its own.
type ProviderRegistry interface {
	// Register inserts or replaces the entry keyed by p.Name().
	// Replacement is an intended hot-swap path, not an error.
	Register(p Provider)
	Provider(name string) (Provider, bool)
	// Providers returns all providers in registration order.
	Providers() []Provider
	Names() []string
	Has(name string) bool
}
