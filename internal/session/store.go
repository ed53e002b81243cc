// Package session stores per-user favorites and per-session chat history in
// Redis. It is owned by the HTTP layer; the search engine never reads it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"property-search/internal/common/logger"
	"property-search/internal/models"
)

var (
	ErrUnavailable    = errors.New("session store unavailable")
	ErrInvalidMessage = errors.New("invalid chat message")
)

const DefaultHistoryCap = 50

type Store struct {
	redis      *redis.Client
	historyCap int64
	logger     logger.Logger
}

func NewStore(rdb *redis.Client, historyCap int, log logger.Logger) *Store {
	if historyCap <= 0 {
		historyCap = DefaultHistoryCap
	}
	return &Store{
		redis:      rdb,
		historyCap: int64(historyCap),
		logger:     log,
	}
}

func favoritesKey(userID string) string { return "favorites:" + userID }

func historyKey(sessionID string) string { return "chat:history:" + sessionID }

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
}

// AddFavorite records propertyID for userID. It reports false when the
// property was already a favorite.
func (s *Store) AddFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	n, err := s.redis.SAdd(ctx, favoritesKey(userID), propertyID).Result()
	if err != nil {
		return false, unavailable("add favorite", err)
	}
	return n > 0, nil
}

func (s *Store) RemoveFavorite(ctx context.Context, userID, propertyID string) (bool, error) {
	n, err := s.redis.SRem(ctx, favoritesKey(userID), propertyID).Result()
	if err != nil {
		return false, unavailable("remove favorite", err)
	}
	return n > 0, nil
}

// Favorites returns the user's favorite property ids in sorted order.
func (s *Store) Favorites(ctx context.Context, userID string) (*models.Favorites, error) {
	ids, err := s.redis.SMembers(ctx, favoritesKey(userID)).Result()
	if err != nil {
		return nil, unavailable("list favorites", err)
	}
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	return &models.Favorites{UserID: userID, PropertyIDs: ids}, nil
}

// AppendMessage pushes msg onto the session history and trims it to the
// newest historyCap entries.
func (s *Store) AppendMessage(ctx context.Context, sessionID string, msg models.ChatMessage) error {
	if !msg.Valid() {
		return fmt.Errorf("%w: role %q", ErrInvalidMessage, msg.Role)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}

	key := historyKey(sessionID)
	pipe := s.redis.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -s.historyCap, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("append chat message", err)
	}
	return nil
}

// History returns up to limit of the most recent messages, oldest first.
// A limit <= 0 returns everything kept.
func (s *Store) History(ctx context.Context, sessionID string, limit int) (*models.ChatHistory, error) {
	start := int64(0)
	if limit > 0 {
		start = -int64(limit)
	}

	raw, err := s.redis.LRange(ctx, historyKey(sessionID), start, -1).Result()
	if err != nil {
		return nil, unavailable("read chat history", err)
	}

	messages := make([]models.ChatMessage, 0, len(raw))
	for _, r := range raw {
		var m models.ChatMessage
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			s.logger.Warn("skipping unreadable chat message", map[string]interface{}{
				"sessionId": sessionID,
				"error":     err,
			})
			continue
		}
		messages = append(messages, m)
	}
	return &models.ChatHistory{SessionID: sessionID, Messages: messages}, nil
}

func (s *Store) ClearHistory(ctx context.Context, sessionID string) error {
	if err := s.redis.Del(ctx, historyKey(sessionID)).Err(); err != nil {
		return unavailable("clear chat history", err)
	}
	return nil
}
