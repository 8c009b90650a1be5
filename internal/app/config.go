package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/odyssey-erp/catalogview/internal/table"
	"github.com/odyssey-erp/catalogview/internal/theme"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"30s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET" required:"true"`

	CatalogURL      string        `envconfig:"CATALOG_URL" default:"https://dummyjson.com/products"`
	CatalogTimeout  time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
	CatalogCacheTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"10m"`

	TablePageSize    int  `envconfig:"TABLE_PAGE_SIZE" default:"5"`
	TableFoldCase    bool `envconfig:"TABLE_FOLD_CASE" default:"false"`
	TableSortRemoval bool `envconfig:"TABLE_SORT_REMOVAL" default:"true"`

	ThemeDefault string `envconfig:"THEME_DEFAULT" default:"light"`

	GotenbergURL string `envconfig:"GOTENBERG_URL" default:"http://127.0.0.1:3000"`

	WarmupCron string `envconfig:"WARMUP_CRON" default:"*/10 * * * *"`
}

// LoadConfig reads configuration from environment variables, after merging a
// local .env file when one exists.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("session secret must be provided")
	}
	if cfg.CSRFSecret == "" {
		return nil, errors.New("csrf secret must be provided")
	}
	if cfg.TablePageSize < 1 {
		cfg.TablePageSize = table.DefaultPageSize
	}
	if _, ok := theme.Parse(cfg.ThemeDefault); !ok {
		cfg.ThemeDefault = theme.Light.String()
	}
	return &cfg, nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// TableOptions derives the table state machine options.
func (c *Config) TableOptions() table.Options {
	opts := table.DefaultOptions()
	if c == nil {
		return opts
	}
	opts.PageSize = c.TablePageSize
	opts.FoldCase = c.TableFoldCase
	opts.SortRemoval = c.TableSortRemoval
	return opts
}

// DefaultTheme is the theme used when the client sends no preference.
func (c *Config) DefaultTheme() theme.Theme {
	if c == nil {
		return theme.Light
	}
	t, ok := theme.Parse(c.ThemeDefault)
	if !ok {
		return theme.Light
	}
	return t
}
