package search

import (
	"time"

	"property-search/internal/common/config"
)

type Config struct {
	IndexName string
	// Refresh is sent with every write: "true", "false" or "wait_for".
	Refresh             string
	TrendsBoundByPeriod bool
	SuggestionLimit     int
	// Timeout bounds each engine operation, backend round trip included.
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		IndexName:       "properties",
		Refresh:         "wait_for",
		SuggestionLimit: 10,
		Timeout:         30 * time.Second,
	}
}

// ConfigFrom derives the engine settings from the application configuration.
func ConfigFrom(cfg *config.Config) *Config {
	c := LoadConfig()
	if cfg == nil {
		return c
	}
	if cfg.Database.Elasticsearch.Index != "" {
		c.IndexName = cfg.Database.Elasticsearch.Index
	}
	if cfg.Database.Elasticsearch.Refresh != "" {
		c.Refresh = cfg.Database.Elasticsearch.Refresh
	}
	if cfg.Search.SuggestionLimit > 0 {
		c.SuggestionLimit = cfg.Search.SuggestionLimit
	}
	if cfg.Search.RequestTimeout > 0 {
		c.Timeout = config.GetDuration(cfg.Search.RequestTimeout)
	}
	c.TrendsBoundByPeriod = cfg.Search.TrendsBoundByPeriod
	return c
}
