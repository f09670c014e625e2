package domain

// Ad hierarchy entities are opaque records owned by their provider. The
// aggregator concatenates lists and never merges entities across
// providers. Every entity carries the provider name stamped at ingestion
// so IDs from different providers can never collide.

type Account struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	Name     string `json:"name"`
	Currency string `json:"currency,omitempty"`
	Status   string `json:"status,omitempty"`
}

type Campaign struct {
	Provider  string `json:"provider"`
	ID        string `json:"id"`
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Status    string `json:"status,omitempty"`
	Objective string `json:"objective,omitempty"`
}

type Adset struct {
	Provider   string `json:"provider"`
	ID         string `json:"id"`
	CampaignID string `json:"campaign_id"`
	Name       string `json:"name"`
	Status     string `json:"status,omitempty"`
}

type Ad struct {
	Provider string `json:"provider"`
	ID       string `json:"id"`
	AdsetID  string `json:"adset_id"`
	Name     string `json:"name"`
	Status   string `json:"status,omitempty"`
}

// accounts -> campaigns -> adsets -> ads
type Hierarchy struct {
	Accounts  []Account  `json:"accounts"`
	Campaigns []Campaign `json:"campaigns"`
	Adsets    []Adset    `json:"adsets"`
	Ads       []Ad       `json:"ads"`
}

// EmptyHierarchy returns a hierarchy with all four lists allocated, the
// degraded result for a failed or unknown provider.
func EmptyHierarchy() *Hierarchy {
	return &Hierarchy{
		Accounts:  []Account{},
		Campaigns: []Campaign{},
		Adsets:    []Adset{},
		Ads:       []Ad{},
	}
}

// one provider's hierarchy contribution, empty on provider failure
type ProviderHierarchy struct {
	Provider  string     `json:"provider"`
	Hierarchy *Hierarchy `json:"hierarchy"`
}

// concatenation of every provider's hierarchy in registration order.
// ProviderCount is how many providers were queried, not how many
// returned non-empty data.
type AggregatedHierarchy struct {
	Hierarchy
	ProviderCount int `json:"provider_count"`
}
