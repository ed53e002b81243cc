// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Search   SearchConfig   `mapstructure:"search"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address            string   `mapstructure:"address"`
	ReadTimeout        int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout       int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout    int      `mapstructure:"shutdown_timeout"` // milliseconds
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
	ConnLifetime   int    `mapstructure:"conn_lifetime"` // milliseconds
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses  []string `mapstructure:"addresses"`
	Username   string   `mapstructure:"username"`
	Password   string   `mapstructure:"password"`
	SSLEnabled bool     `mapstructure:"ssl_enabled"`
	URL        string   `mapstructure:"url"` // Single URL for backwards compatibility
	Index      string   `mapstructure:"index"`
	// Refresh is passed through on writes: "true", "false" or "wait_for".
	Refresh    string `mapstructure:"refresh"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// GetURL returns the first address or the URL field
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Address     string `mapstructure:"address"`
	Password    string `mapstructure:"password"`
	DB          int    `mapstructure:"db"`
	PoolSize    int    `mapstructure:"pool_size"`
	DialTimeout int    `mapstructure:"dial_timeout"` // milliseconds
}

// SearchConfig tunes the query engine and the caches layered on top of it.
type SearchConfig struct {
	DefaultLimit        int  `mapstructure:"default_limit"`
	MaxLimit            int  `mapstructure:"max_limit"`
	SuggestionLimit     int  `mapstructure:"suggestion_limit"`
	TrendsBoundByPeriod bool `mapstructure:"trends_bound_by_period"`
	TrendsCacheTTL      int  `mapstructure:"trends_cache_ttl"` // milliseconds
	HistoryCap          int  `mapstructure:"history_cap"`
	RefreshTimeout      int  `mapstructure:"refresh_timeout"` // milliseconds
	RequestTimeout      int  `mapstructure:"request_timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
