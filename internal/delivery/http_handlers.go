package delivery

import (
	"net/http"
	"strings"
	"time"

	"paidmedia/internal/domain"
	"paidmedia/internal/usecase"
	"paidmedia/pkg/logger"
	"paidmedia/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// handles HTTP requests
type HTTPHandlers struct {
	metricsAggregator   *usecase.MetricsAggregator
	hierarchyAggregator *usecase.HierarchyAggregator
	healthAggregator    *usecase.HealthAggregator
	registry            domain.ProviderRegistry
	logger              *logger.Logger
	metrics             *metrics.Metrics
}

// creates new HTTP handlers
func NewHTTPHandlers(
	metricsAggregator *usecase.MetricsAggregator,
	hierarchyAggregator *usecase.HierarchyAggregator,
	healthAggregator *usecase.HealthAggregator,
	registry domain.ProviderRegistry,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *HTTPHandlers {
	return &HTTPHandlers{
		metricsAggregator:   metricsAggregator,
		hierarchyAggregator: hierarchyAggregator,
		healthAggregator:    healthAggregator,
		registry:            registry,
		logger:              logger,
		metrics:             metrics,
	}
}

// HealthCheck returns service health status
func (h *HTTPHandlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"providers": h.registry.Names(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListProviders returns the registered provider names
func (h *HTTPHandlers) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"providers": h.registry.Names(),
	})
}

// GetAggregatedMetrics returns the merged per-date timeline
func (h *HTTPHandlers) GetAggregatedMetrics(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	rows := h.metricsAggregator.AggregatedMetrics(
		c.Request.Context(),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"data":  rows,
		"count": len(rows),
	})
}

// GetMetricsByProvider returns each provider's raw daily metrics
func (h *HTTPHandlers) GetMetricsByProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	results := h.metricsAggregator.MetricsByProvider(
		c.Request.Context(),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"data":  results,
		"count": len(results),
	})
}

// GetMetricsFromProvider returns a single provider's daily metrics
func (h *HTTPHandlers) GetMetricsFromProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	records := h.metricsAggregator.MetricsFromProvider(
		c.Request.Context(),
		c.Param("provider"),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"provider": c.Param("provider"),
		"data":     records,
		"count":    len(records),
	})
}

// GetMetricsSummary returns totals of the additive fields over the range
func (h *HTTPHandlers) GetMetricsSummary(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	summary := h.metricsAggregator.Summary(
		c.Request.Context(),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, summary)
}

// GetAggregatedHierarchy returns the combined hierarchy of all providers
func (h *HTTPHandlers) GetAggregatedHierarchy(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	hierarchy := h.hierarchyAggregator.AggregatedHierarchy(
		c.Request.Context(),
		c.Param("project_id"),
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, hierarchy)
}

// GetHierarchyByProvider returns each provider's hierarchy
func (h *HTTPHandlers) GetHierarchyByProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	results := h.hierarchyAggregator.HierarchyByProvider(
		c.Request.Context(),
		c.Param("project_id"),
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"data":  results,
		"count": len(results),
	})
}

// GetHierarchyFromProvider returns a single provider's hierarchy
func (h *HTTPHandlers) GetHierarchyFromProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	hierarchy := h.hierarchyAggregator.HierarchyFromProvider(
		c.Request.Context(),
		c.Param("provider"),
		c.Param("project_id"),
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"provider":  c.Param("provider"),
		"hierarchy": hierarchy,
	})
}

// GetAggregatedDataHealth returns the worst-case health summary
func (h *HTTPHandlers) GetAggregatedDataHealth(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	result := h.healthAggregator.AggregatedHealth(
		c.Request.Context(),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, result)
}

// GetDataHealthByProvider returns each provider's health report
func (h *HTTPHandlers) GetDataHealthByProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	results := h.healthAggregator.HealthByProvider(
		c.Request.Context(),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"data":  results,
		"count": len(results),
	})
}

// GetDataHealthFromProvider returns a single provider's health report
func (h *HTTPHandlers) GetDataHealthFromProvider(c *gin.Context) {
	h.metrics.IncHTTPRequestsInFlight()
	defer h.metrics.DecHTTPRequestsInFlight()

	dateRange, ok := h.parseDateRange(c)
	if !ok {
		return
	}

	health := h.healthAggregator.HealthFromProvider(
		c.Request.Context(),
		c.Param("provider"),
		c.Param("project_id"),
		dateRange,
		parseAccountIDs(c),
	)

	c.JSON(http.StatusOK, gin.H{
		"provider": c.Param("provider"),
		"health":   health,
	})
}

// parses required from/to query params into a validated date range
func (h *HTTPHandlers) parseDateRange(c *gin.Context) (domain.DateRange, bool) {
	from := c.Query("from")
	to := c.Query("to")

	if from == "" || to == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":      "Missing date range",
			"message":    "Both from and to query parameters are required (YYYY-MM-DD)",
			"request_id": c.GetString("request_id"),
		})
		return domain.DateRange{}, false
	}

	for _, value := range []string{from, to} {
		if _, err := time.Parse(domain.DayFormat, value); err != nil {
			h.logger.WithContext(c.Request.Context()).WithError(err).WithField("date", value).Warn("Rejected request with invalid date")
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      "Invalid date format",
				"message":    "Dates must be in YYYY-MM-DD format",
				"request_id": c.GetString("request_id"),
			})
			return domain.DateRange{}, false
		}
	}

	return domain.DateRange{Start: from, End: to}, true
}

// parses the optional comma-separated account_ids query param
func parseAccountIDs(c *gin.Context) []string {
	raw := c.Query("account_ids")
	if raw == "" {
		return nil
	}

	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(id); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}
