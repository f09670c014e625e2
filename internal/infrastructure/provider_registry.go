package infrastructure

import (
	"sync"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"
)

// implements domain.ProviderRegistry
type ProviderRegistry struct {
	providers map[string]domain.Provider
	order     []string
	mutex     sync.RWMutex
	logger    *logger.Logger
}

func NewProviderRegistry(logger *logger.Logger) *ProviderRegistry {
	return &ProviderRegistry{
		providers: make(map[string]domain.Provider),
		logger:    logger,
	}
}

// Register inserts or replaces the entry keyed by the provider's name.
// Re-registering an existing name swaps the implementation in place and
// keeps its original position in the registration order.
func (r *ProviderRegistry) Register(p domain.Provider) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	name := p.Name()
	if _, exists := r.providers[name]; exists {
		r.logger.WithField("provider", name).Warn("Replacing already registered provider")
	} else {
		r.order = append(r.order, name)
	}
	r.providers[name] = p

	r.logger.WithField("provider", name).Info("Registered provider")
}

func (r *ProviderRegistry) Provider(name string) (domain.Provider, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	p, ok := r.providers[name]
	return p, ok
}

func (r *ProviderRegistry) Providers() []domain.Provider {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	providers := make([]domain.Provider, 0, len(r.order))
	for _, name := range r.order {
		providers = append(providers, r.providers[name])
	}
	return providers
}

func (r *ProviderRegistry) Names() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

func (r *ProviderRegistry) Has(name string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.providers[name]
	return ok
}
