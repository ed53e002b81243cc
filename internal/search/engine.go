package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"property-search/internal/common/logger"
	"property-search/internal/common/metrics"
	"property-search/internal/common/observability"
	"property-search/internal/models"
	"property-search/internal/search/queries"
)

const (
	Component = "property-search-engine"

	defaultTimePeriod = "1year"
)

// Engine compiles property requests into Elasticsearch queries and maps the
// results back. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	config *Config
	client *elasticsearch.Client
	logger logger.Logger
	obs    *observability.Observability
}

// HealthStatus reports the backend cluster the engine is talking to.
type HealthStatus struct {
	Status               string `json:"status"`
	ClusterName          string `json:"cluster_name"`
	ElasticsearchVersion string `json:"elasticsearch_version"`
	Index                string `json:"index"`
}

func NewEngine(config *Config, client *elasticsearch.Client, log logger.Logger, obs *observability.Observability) *Engine {
	if config == nil {
		config = LoadConfig()
	}
	return &Engine{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": Component, "index": config.IndexName}),
		obs:    obs,
	}
}

// SearchProperties runs a filtered, sorted and paginated listing search.
func (e *Engine) SearchProperties(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error) {
	ctx, done := e.begin(ctx, "SearchProperties")
	resp, err := e.searchProperties(ctx, &req)
	done(err)
	return resp, err
}

func (e *Engine) searchProperties(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	filters := NormalizeFilters(req)
	body := queries.BuildSearchBody(
		queries.BuildSearchQuery(req.Query, filters),
		queries.BuildSort(req.SortBy, req.SortOrder),
		queries.Offset(req.Page, req.Limit),
		req.Limit,
	)

	res, err := e.search(ctx, "search", body)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	resp, err := MapSearchResponse(res.Body, req.Page, req.Limit)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("search completed", map[string]interface{}{
		"query":    req.Query,
		"page":     req.Page,
		"limit":    req.Limit,
		"total":    resp.Total,
		"returned": len(resp.Properties),
	})
	return resp, nil
}

// GetLocationTrends never fails: backend or decoding problems produce a
// zero-valued report.
func (e *Engine) GetLocationTrends(ctx context.Context, location, propertyType, timePeriod string) *models.LocationTrends {
	const op = "GetLocationTrends"
	if timePeriod == "" {
		timePeriod = defaultTimePeriod
	}

	ctx, done := e.begin(ctx, op, attribute.String("location", location))
	body := queries.BuildLocationTrendsQuery(location, propertyType, timePeriod, e.config.TrendsBoundByPeriod)

	trends, err := func() (*models.LocationTrends, error) {
		res, err := e.search(ctx, "location_trends", body)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		return InterpretLocationTrends(res.Body, location, propertyType, timePeriod)
	}()
	if err != nil {
		e.degrade(op, err, map[string]interface{}{"location": location, "propertyType": propertyType})
		done(err)
		return EmptyLocationTrends(location, propertyType, timePeriod)
	}

	done(nil)
	return trends
}

// GetPropertyStatistics never fails: backend or decoding problems produce a
// zero-valued report.
func (e *Engine) GetPropertyStatistics(ctx context.Context, location, propertyType string) *models.PropertyStatistics {
	const op = "GetPropertyStatistics"

	ctx, done := e.begin(ctx, op)
	body := queries.BuildPropertyStatisticsQuery(location, propertyType)

	stats, err := func() (*models.PropertyStatistics, error) {
		res, err := e.search(ctx, "property_statistics", body)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		return InterpretPropertyStatistics(res.Body, location, propertyType)
	}()
	if err != nil {
		e.degrade(op, err, map[string]interface{}{"location": location, "propertyType": propertyType})
		done(err)
		return EmptyPropertyStatistics(location, propertyType)
	}

	done(nil)
	return stats
}

// GetLocationSuggestions returns city and neighborhood names containing
// query. Failures yield an empty list.
func (e *Engine) GetLocationSuggestions(ctx context.Context, query string, limit int) []string {
	const op = "GetLocationSuggestions"
	if limit <= 0 {
		limit = e.config.SuggestionLimit
	}
	if strings.TrimSpace(query) == "" {
		return []string{}
	}

	ctx, done := e.begin(ctx, op)
	suggestions, err := func() ([]string, error) {
		res, err := e.search(ctx, "location_suggestions", queries.BuildLocationSuggestionsQuery(query, limit))
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		return interpretSuggestions(res.Body, query, limit)
	}()
	done(err)
	if err != nil {
		e.degrade(op, err, map[string]interface{}{"query": query})
		return []string{}
	}
	return suggestions
}

// EnsureIndex creates the property index with its mapping when missing.
func (e *Engine) EnsureIndex(ctx context.Context) error {
	exists, err := esapi.IndicesExistsRequest{Index: []string{e.config.IndexName}}.Do(ctx, e.client)
	if err != nil {
		return transportError("index_exists", err)
	}
	defer exists.Body.Close()

	switch exists.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
	default:
		return backendError("index_exists", exists)
	}

	mapping, err := json.Marshal(IndexMapping())
	if err != nil {
		return fmt.Errorf("marshal index mapping: %w", err)
	}

	res, err := esapi.IndicesCreateRequest{
		Index: e.config.IndexName,
		Body:  bytes.NewReader(mapping),
	}.Do(ctx, e.client)
	if err != nil {
		return transportError("index_create", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		// another instance may have created it first
		if res.StatusCode == http.StatusBadRequest && strings.Contains(res.String(), "resource_already_exists_exception") {
			return nil
		}
		return backendError("index_create", res)
	}

	e.logger.Info("created property index", nil)
	return nil
}

// RefreshIndex makes every acknowledged write visible to search. Callers that
// recompute analytics straight after a write run it first.
func (e *Engine) RefreshIndex(ctx context.Context) error {
	ctx, done := e.begin(ctx, "RefreshIndex")
	err := e.refreshIndex(ctx)
	done(err)
	return err
}

func (e *Engine) refreshIndex(ctx context.Context) error {
	res, err := esapi.IndicesRefreshRequest{Index: []string{e.config.IndexName}}.Do(ctx, e.client)
	if err != nil {
		return transportError("index_refresh", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return backendError("index_refresh", res)
	}
	return nil
}

// Health queries cluster info for the health endpoint.
func (e *Engine) Health(ctx context.Context) (*HealthStatus, error) {
	res, err := esapi.InfoRequest{}.Do(ctx, e.client)
	if err != nil {
		return nil, transportError("info", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: info: %s", ErrBackendUnavailable, res.Status())
	}

	var info struct {
		ClusterName string `json:"cluster_name"`
		Version     struct {
			Number string `json:"number"`
		} `json:"version"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%w: decode info: %v", ErrBackendUnavailable, err)
	}

	return &HealthStatus{
		Status:               "healthy",
		ClusterName:          info.ClusterName,
		ElasticsearchVersion: info.Version.Number,
		Index:                e.config.IndexName,
	}, nil
}

// search sends a _search request. On success the caller owns res.Body.
func (e *Engine) search(ctx context.Context, operation string, body map[string]interface{}) (*esapi.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal %s query: %v", ErrQueryRejected, operation, err)
	}

	res, err := esapi.SearchRequest{
		Index: []string{e.config.IndexName},
		Body:  bytes.NewReader(payload),
	}.Do(ctx, e.client)
	if err != nil {
		return nil, transportError(operation, err)
	}

	if res.IsError() {
		defer res.Body.Close()
		return nil, backendError(operation, res)
	}
	return res, nil
}

// begin opens a span bounded by the configured timeout and returns a
// function that records the outcome and releases the deadline.
func (e *Engine) begin(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	start := time.Now()
	cancel := context.CancelFunc(func() {})
	if e.config.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
	}
	ctx, span := e.obs.StartSpan(ctx, operation, attrs...)

	return ctx, func(err error) {
		defer cancel()
		outcome := "success"
		if err != nil {
			outcome = "error"
			recordSpanError(span, err)
			e.logger.Debug("engine operation failed", map[string]interface{}{
				"operation": operation,
				"traceId":   observability.TraceID(ctx),
				"error":     err,
			})
		}
		metrics.SearchRequests.WithLabelValues(operation, outcome).Inc()
		metrics.SearchDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
		e.obs.RecordOperation(ctx, operation, outcome)
		e.obs.RecordDuration(ctx, operation, time.Since(start))
		span.End()
	}
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (e *Engine) degrade(operation string, err error, fields map[string]interface{}) {
	metrics.AnalyticsDegraded.WithLabelValues(operation).Inc()
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields["operation"] = operation
	e.logger.WithError(err).Warn("analytics degraded to empty result", fields)
}
