package rest

import (
	"context"
	"errors"
	"sync"
	"time"

	apperrors "property-search/internal/common/errors"
	"property-search/internal/common/logger"
	"property-search/internal/models"
	"property-search/internal/search"
	"property-search/internal/session"
	"property-search/internal/snapshots"
)

const defaultRefreshTimeout = 30 * time.Second

// PropertyService is the engine surface the HTTP layer calls.
type PropertyService interface {
	SearchProperties(ctx context.Context, req models.SearchRequest) (*models.SearchResponse, error)
	GetProperty(ctx context.Context, id string) (*models.Property, error)
	AddProperty(ctx context.Context, p models.Property) (string, error)
	UpdateProperty(ctx context.Context, id string, fields map[string]interface{}) (bool, error)
	DeleteProperty(ctx context.Context, id string) (bool, error)
	BulkAddProperties(ctx context.Context, properties []models.Property) (*models.BulkResult, error)
	GetPropertyStatistics(ctx context.Context, location, propertyType string) *models.PropertyStatistics
	GetLocationSuggestions(ctx context.Context, query string, limit int) []string
	RefreshIndex(ctx context.Context) error
	Health(ctx context.Context) (*search.HealthStatus, error)
}

type TrendsService interface {
	GetLocationTrends(ctx context.Context, location, propertyType, timePeriod string) *models.LocationTrends
}

type TrendsRefresher interface {
	Refresh(ctx context.Context, locations []string) int
}

type SessionStore interface {
	AddFavorite(ctx context.Context, userID, propertyID string) (bool, error)
	RemoveFavorite(ctx context.Context, userID, propertyID string) (bool, error)
	Favorites(ctx context.Context, userID string) (*models.Favorites, error)
	AppendMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error
	History(ctx context.Context, sessionID string, limit int) (*models.ChatHistory, error)
	ClearHistory(ctx context.Context, sessionID string) error
}

type SnapshotStore interface {
	Record(ctx context.Context, location, propertyType string, stats *models.PropertyStatistics) (*models.MarketSnapshot, error)
	Recent(ctx context.Context, location string, limit int) ([]models.MarketSnapshot, error)
}

// Dependencies groups what the handler needs. Properties and Trends are
// required; a nil optional store turns its routes into 503s.
type Dependencies struct {
	Properties     PropertyService
	Trends         TrendsService
	Refresher      TrendsRefresher
	Sessions       SessionStore
	Snapshots      SnapshotStore
	Logger         logger.Logger
	RefreshTimeout time.Duration
}

type Handler struct {
	properties PropertyService
	trends     TrendsService
	refresher  TrendsRefresher
	sessions   SessionStore
	snapshots  SnapshotStore

	errors         *apperrors.ErrorHandler
	logger         logger.Logger
	refreshTimeout time.Duration
	background     sync.WaitGroup
}

func NewHandler(deps Dependencies) *Handler {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	trends := deps.Trends
	if trends == nil {
		trends, _ = deps.Properties.(TrendsService)
	}
	timeout := deps.RefreshTimeout
	if timeout <= 0 {
		timeout = defaultRefreshTimeout
	}
	return &Handler{
		properties:     deps.Properties,
		trends:         trends,
		refresher:      deps.Refresher,
		sessions:       deps.Sessions,
		snapshots:      deps.Snapshots,
		errors:         apperrors.NewErrorHandler(log),
		logger:         log.WithFields(map[string]interface{}{"component": "http"}),
		refreshTimeout: timeout,
	}
}

// Wait blocks until every background refresh has finished.
func (h *Handler) Wait() {
	h.background.Wait()
}

// refreshAfterWrite updates cached trends and records a statistics snapshot
// for each written city. It runs detached from the request context, and only
// once the index shows the write.
func (h *Handler) refreshAfterWrite(cities []string) {
	if len(cities) == 0 || (h.refresher == nil && h.snapshots == nil) {
		return
	}

	h.background.Add(1)
	go func() {
		defer h.background.Done()
		ctx, cancel := context.WithTimeout(context.Background(), h.refreshTimeout)
		defer cancel()

		if err := h.properties.RefreshIndex(ctx); err != nil {
			h.logger.Warn("skipping analytics refresh, index not refreshed", map[string]interface{}{
				"locations": cities,
				"error":     err,
			})
			return
		}

		if h.refresher != nil {
			h.refresher.Refresh(ctx, cities)
		}
		if h.snapshots == nil {
			return
		}
		for _, city := range uniqueNonEmpty(cities) {
			stats := h.properties.GetPropertyStatistics(ctx, city, "")
			if stats == nil || stats.Statistics.TotalProperties == 0 {
				h.logger.Debug("no statistics to snapshot", map[string]interface{}{"location": city})
				continue
			}
			if _, err := h.snapshots.Record(ctx, city, "", stats); err != nil {
				h.logger.Warn("market snapshot not recorded", map[string]interface{}{
					"location": city,
					"error":    err,
				})
			}
		}
	}()
}

func uniqueNonEmpty(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// toStandardError maps errors from every backing store onto the API error codes.
func toStandardError(err error) *apperrors.StandardError {
	switch {
	case errors.Is(err, session.ErrInvalidMessage):
		return apperrors.NewValidationError(err.Error())
	case errors.Is(err, session.ErrUnavailable):
		return apperrors.NewCacheUnavailableError(err)
	case errors.Is(err, snapshots.ErrStoreFailed), errors.Is(err, snapshots.ErrSchemaMissing):
		return apperrors.NewSnapshotStoreFailedError(err)
	default:
		return search.ToStandardError(err)
	}
}
