package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialsSeverityOrdering(t *testing.T) {
	ordered := []CredentialsStatus{
		CredentialsValid,
		CredentialsExpiringSoon,
		CredentialsExpired,
		CredentialsNotConfigured,
	}

	for i := 1; i < len(ordered); i++ {
		assert.Greater(t, ordered[i].Severity(), ordered[i-1].Severity(),
			"%s should rank above %s", ordered[i], ordered[i-1])
	}
}

func TestUnknownCredentialsStatusRanksWorst(t *testing.T) {
	unknown := CredentialsStatus("weird")
	assert.Equal(t, CredentialsNotConfigured.Severity(), unknown.Severity())
}

func TestWorstCredentialsStatus(t *testing.T) {
	tests := []struct {
		name string
		a    CredentialsStatus
		b    CredentialsStatus
		want CredentialsStatus
	}{
		{"valid vs expired", CredentialsValid, CredentialsExpired, CredentialsExpired},
		{"expired vs valid", CredentialsExpired, CredentialsValid, CredentialsExpired},
		{"valid vs valid", CredentialsValid, CredentialsValid, CredentialsValid},
		{"expiring vs not configured", CredentialsExpiringSoon, CredentialsNotConfigured, CredentialsNotConfigured},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WorstCredentialsStatus(tt.a, tt.b))
		})
	}
}

func TestDegradedHealth(t *testing.T) {
	health := DegradedHealth()

	assert.False(t, health.IsComplete)
	assert.Empty(t, health.MissingDays)
	assert.Nil(t, health.LastSyncAt)
	assert.Equal(t, CredentialsNotConfigured, health.CredentialsStatus)
}
