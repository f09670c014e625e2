package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"

	"golang.org/x/time/rate"
)

const MetaProviderName = "meta"

// implements domain.Provider against the Meta insights API backing
// service (the data store populated by the external sync process)
type MetaProvider struct {
	client      *http.Client
	baseURL     string
	apiToken    string
	logger      *logger.Logger
	metrics     *metrics.Metrics
	rateLimiter *rate.Limiter
}

// creates a new Meta provider
func NewMetaProvider(baseURL, apiToken string, timeout time.Duration, limitPerSecond, burst int, logger *logger.Logger, metrics *metrics.Metrics) *MetaProvider {
	return &MetaProvider{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiToken:    apiToken,
		logger:      logger,
		metrics:     metrics,
		rateLimiter: rate.NewLimiter(rate.Limit(limitPerSecond), burst),
	}
}

func (p *MetaProvider) Name() string {
	return MetaProviderName
}

// wire shapes of the insights API
type metaMetricsResponse struct {
	Data []domain.DailyMetrics `json:"data"`
}

type metaHierarchyResponse struct {
	Accounts  []domain.Account  `json:"accounts"`
	Campaigns []domain.Campaign `json:"campaigns"`
	Adsets    []domain.Adset    `json:"adsets"`
	Ads       []domain.Ad       `json:"ads"`
}

type metaHealthResponse struct {
	IsComplete        bool       `json:"is_complete"`
	MissingDays       []string   `json:"missing_days"`
	LastSyncAt        *time.Time `json:"last_sync_at"`
	CredentialsStatus string     `json:"credentials_status"`
}

// fetches per-day metrics for the date range
func (p *MetaProvider) GetMetrics(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) ([]domain.DailyMetrics, error) {
	query := url.Values{}
	query.Set("since", dateRange.Start)
	query.Set("until", dateRange.End)
	if len(accountIDs) > 0 {
		query.Set("account_ids", strings.Join(accountIDs, ","))
	}

	var response metaMetricsResponse
	if err := p.get(ctx, "metrics", fmt.Sprintf("/v1/projects/%s/insights/daily", url.PathEscape(projectID)), query, &response); err != nil {
		return nil, err
	}

	if response.Data == nil {
		response.Data = []domain.DailyMetrics{}
	}
	return response.Data, nil
}

// fetches the ad hierarchy
func (p *MetaProvider) GetHierarchy(ctx context.Context, projectID string, accountIDs []string) (*domain.Hierarchy, error) {
	query := url.Values{}
	if len(accountIDs) > 0 {
		query.Set("account_ids", strings.Join(accountIDs, ","))
	}

	var response metaHierarchyResponse
	if err := p.get(ctx, "hierarchy", fmt.Sprintf("/v1/projects/%s/hierarchy", url.PathEscape(projectID)), query, &response); err != nil {
		return nil, err
	}

	hierarchy := domain.EmptyHierarchy()
	hierarchy.Accounts = append(hierarchy.Accounts, response.Accounts...)
	hierarchy.Campaigns = append(hierarchy.Campaigns, response.Campaigns...)
	hierarchy.Adsets = append(hierarchy.Adsets, response.Adsets...)
	hierarchy.Ads = append(hierarchy.Ads, response.Ads...)
	return hierarchy, nil
}

// fetches the completeness / freshness / credentials report
func (p *MetaProvider) GetDataHealth(ctx context.Context, projectID string, dateRange domain.DateRange, accountIDs []string) (*domain.DataHealth, error) {
	query := url.Values{}
	query.Set("since", dateRange.Start)
	query.Set("until", dateRange.End)
	if len(accountIDs) > 0 {
		query.Set("account_ids", strings.Join(accountIDs, ","))
	}

	var response metaHealthResponse
	if err := p.get(ctx, "data_health", fmt.Sprintf("/v1/projects/%s/data-health", url.PathEscape(projectID)), query, &response); err != nil {
		return nil, err
	}

	health := &domain.DataHealth{
		IsComplete:        response.IsComplete,
		MissingDays:       response.MissingDays,
		LastSyncAt:        response.LastSyncAt,
		CredentialsStatus: domain.CredentialsStatus(response.CredentialsStatus),
	}
	if health.MissingDays == nil {
		health.MissingDays = []string{}
	}
	if health.CredentialsStatus == "" {
		health.CredentialsStatus = domain.CredentialsNotConfigured
	}
	return health, nil
}

// performs a rate-limited GET against the insights API and decodes the
// JSON response into out
func (p *MetaProvider) get(ctx context.Context, operation, path string, query url.Values, out any) error {
	start := time.Now()

	// Apply rate limiting
	if err := p.rateLimiter.Wait(ctx); err != nil {
		p.metrics.RecordProviderFailure(MetaProviderName, operation, "rate_limit")
		return fmt.Errorf("rate limit exceeded: %w", err)
	}

	endpoint := p.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		p.metrics.RecordProviderFailure(MetaProviderName, operation, "request_creation")
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if p.apiToken != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiToken)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.metrics.RecordProviderFailure(MetaProviderName, operation, "network_error")
		return fmt.Errorf("failed to call insights API: %w", err)
	}
	defer resp.Body.Close()

	duration := time.Since(start)

	if resp.StatusCode != http.StatusOK {
		p.metrics.RecordProviderCall(MetaProviderName, operation, fmt.Sprintf("error_%d", resp.StatusCode), duration)
		return fmt.Errorf("insights API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		p.metrics.RecordProviderFailure(MetaProviderName, operation, "read_body")
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		p.metrics.RecordProviderFailure(MetaProviderName, operation, "json_parse")
		return fmt.Errorf("failed to parse insights API response: %w", err)
	}

	p.metrics.RecordProviderCall(MetaProviderName, operation, "success", duration)

	p.logger.WithContext(ctx).WithFields(map[string]any{
		"url":       endpoint,
		"operation": operation,
		"duration":  duration,
	}).Debug("Fetched data from insights API")

	return nil
}
