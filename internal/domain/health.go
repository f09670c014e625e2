package domain

import "time"

// credentials status, ordered valid < expiring_soon < expired < not_configured
type CredentialsStatus string

const (
	CredentialsValid         CredentialsStatus = "valid"
	CredentialsExpiringSoon  CredentialsStatus = "expiring_soon"
	CredentialsExpired       CredentialsStatus = "expired"
	CredentialsNotConfigured CredentialsStatus = "not_configured"
)

var credentialsSeverity = map[CredentialsStatus]int{
	CredentialsValid:         0,
	CredentialsExpiringSoon:  1,
	CredentialsExpired:       2,
	CredentialsNotConfigured: 3,
}

// Severity returns the position in the fixed ordering. Unrecognized
// statuses rank worst so a misbehaving provider can never look healthy.
func (s CredentialsStatus) Severity() int {
	if sev, ok := credentialsSeverity[s]; ok {
		return sev
	}
	return credentialsSeverity[CredentialsNotConfigured]
}

// WorstCredentialsStatus returns whichever status ranks higher in the
// severity ordering.
func WorstCredentialsStatus(a, b CredentialsStatus) CredentialsStatus {
	if b.Severity() > a.Severity() {
		return b
	}
	return a
}

// a provider's belief about its own data completeness at call time
type DataHealth struct {
	IsComplete        bool              `json:"is_complete"`
	MissingDays       []string          `json:"missing_days"`
	LastSyncAt        *time.Time        `json:"last_sync_at"`
	CredentialsStatus CredentialsStatus `json:"credentials_status"`
}

// DegradedHealth returns the worst-case report used when a provider
// call fails: incomplete, credentials not configured.
func DegradedHealth() *DataHealth {
	return &DataHealth{
		IsComplete:        false,
		MissingDays:       []string{},
		LastSyncAt:        nil,
		CredentialsStatus: CredentialsNotConfigured,
	}
}

// one provider's health report, degraded on provider failure
type ProviderHealth struct {
	Provider string      `json:"provider"`
	Health   *DataHealth `json:"health"`
}

// worst-case reduction across all providers
type AggregatedDataHealth struct {
	IsComplete             bool              `json:"is_complete"`
	ProvidersComplete      int               `json:"providers_complete"`
	ProvidersTotal         int               `json:"providers_total"`
	MissingDays            []string          `json:"missing_days"`
	WorstCredentialsStatus CredentialsStatus `json:"worst_credentials_status"`
	ByProvider             []ProviderHealth  `json:"by_provider"`
}
