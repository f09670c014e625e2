package domain

import (
	"fmt"
	"time"
)

// DayFormat is the canonical day representation used everywhere in this
// domain. Provider outputs are normalized to it before any set union or
// date-keyed merge; silent format drift would corrupt those semantics.
const DayFormat = "2006-01-02"

var dayFormats = []string{
	DayFormat,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
}

// NormalizeDay parses a provider-reported date in any accepted format
// and returns it as a canonical YYYY-MM-DD string.
func NormalizeDay(value string) (string, error) {
	for _, format := range dayFormats {
		if t, err := time.Parse(format, value); err == nil {
			return t.Format(DayFormat), nil
		}
	}
	return "", fmt.Errorf("unrecognized day format: %q", value)
}

// inclusive date range, canonical YYYY-MM-DD strings
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// one provider-reported record per (provider, date)
type DailyMetrics struct {
	Date        string  `json:"date"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Reach       int64   `json:"reach"`
}

// per-date merge result across providers. Only additive quantities are
// summed; ratios (CTR/CPC/CPM) are never computed here because they
// cannot be correctly summed across providers or dates.
type AggregatedDailyMetrics struct {
	Date        string                  `json:"date"`
	Spend       float64                 `json:"spend"`
	Impressions int64                   `json:"impressions"`
	Clicks      int64                   `json:"clicks"`
	Reach       int64                   `json:"reach"`
	ByProvider  map[string]DailyMetrics `json:"by_provider"`
}

// one provider's metrics contribution, empty on provider failure
type ProviderMetrics struct {
	Provider string         `json:"provider"`
	Metrics  []DailyMetrics `json:"metrics"`
}

// totals of the additive fields over an aggregated timeline
type MetricsSummary struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Days        int     `json:"days"`
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Reach       int64   `json:"reach"`
}
