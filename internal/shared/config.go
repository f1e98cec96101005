package shared

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	BackendDocuments = "documents"
	BackendMySQL     = "mysql"
)

type Config struct {
	AppEnv           string `mapstructure:"APP_ENV"`
	LogLevel         string `mapstructure:"LOG_LEVEL"`
	HTTPAddr         string `mapstructure:"HTTP_ADDR"`
	MetricsAddr      string `mapstructure:"METRICS_ADDR"`
	MySQLDSN         string `mapstructure:"MYSQL_DSN"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisDB          int    `mapstructure:"REDIS_DB"`
	RedisPass        string `mapstructure:"REDIS_PASSWORD"`
	HotelsSource     string `mapstructure:"HOTELS_SOURCE"`
	BookingsSource   string `mapstructure:"BOOKINGS_SOURCE"`
	InventoryBackend string `mapstructure:"INVENTORY_BACKEND"`
	SourceToken      string `mapstructure:"SOURCE_TOKEN"`
	FetchRPS         int    `mapstructure:"FETCH_RPS"`
	Workers          int    `mapstructure:"INGEST_WORKERS"`
	CacheTTLSeconds  int    `mapstructure:"CACHE_TTL_SECONDS"`
	SearchMaxDays    int    `mapstructure:"SEARCH_MAX_DAYS"`
	RequestTimeout   int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
}

func (c Config) CacheTTL() time.Duration { return time.Duration(c.CacheTTLSeconds) * time.Second }

// HasSources reports whether both inventory documents are configured.
func (c Config) HasSources() bool { return c.HotelsSource != "" && c.BookingsSource != "" }

func (c Config) Timeout() time.Duration { return time.Duration(c.RequestTimeout) * time.Second }

var defaults = map[string]any{
	"APP_ENV":                 "prod",
	"LOG_LEVEL":               "info",
	"HTTP_ADDR":               ":8080",
	"METRICS_ADDR":            "",
	"MYSQL_DSN":               "root:root@tcp(localhost:3306)/availability?parseTime=true&charset=utf8mb4&loc=UTC",
	"REDIS_ADDR":              "",
	"REDIS_DB":                0,
	"REDIS_PASSWORD":          "",
	"HOTELS_SOURCE":           "",
	"BOOKINGS_SOURCE":         "",
	"INVENTORY_BACKEND":       BackendDocuments,
	"SOURCE_TOKEN":            "",
	"FETCH_RPS":               5,
	"INGEST_WORKERS":          8,
	"CACHE_TTL_SECONDS":       900,
	"SEARCH_MAX_DAYS":         3660,
	"REQUEST_TIMEOUT_SECONDS": 15,
}

// Load reads defaults, then an optional config.yaml (./ or ./config), then
// the environment. Later sources win.
func Load() Config {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			log.Warn().Err(err).Msg("config file unreadable, using environment only")
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		log.Warn().Err(err).Msg("config unmarshal failed, using defaults")
		c = Config{}
		_ = newViper().Unmarshal(&c)
	}
	if c.InventoryBackend != BackendDocuments && c.InventoryBackend != BackendMySQL {
		log.Warn().Str("backend", c.InventoryBackend).Msg("unknown INVENTORY_BACKEND, using documents")
		c.InventoryBackend = BackendDocuments
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	return c
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	return v
}
