package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/penance-hunter/internal/common"
	"github.com/Veraticus/penance-hunter/internal/taxonomy"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PENANCE_SERVER_ADDR.
const EnvPrefix = "PENANCE"

// Config holds application configuration.
type Config struct {
	Logging  LoggingConfig     `mapstructure:"logging"`
	Taxonomy taxonomy.Defaults `mapstructure:"taxonomy"`
	Server   ServerConfig      `mapstructure:"server"`
	Database DatabaseConfig    `mapstructure:"database"`
	Watch    WatchConfig       `mapstructure:"watch"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig locates the snapshot archive.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// WatchConfig tunes the export watcher.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults.
const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20
	DefaultTimeout        = 15 * time.Second
	DefaultDebounce       = 500 * time.Millisecond
	DefaultDatabasePath   = "~/.local/share/penance/penance.db"
)

// SetDefaults registers every default on v and enables PENANCE_ env overrides.
func SetDefaults(v *viper.Viper) {
	stock := taxonomy.DefaultDefaults()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("taxonomy.summary_default", stock.Summary)
	v.SetDefault("taxonomy.legend_default", stock.Legend)
	v.SetDefault("server.addr", DefaultAddr)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_upload_bytes", DefaultMaxUploadBytes)
	v.SetDefault("server.read_timeout", DefaultTimeout)
	v.SetDefault("server.write_timeout", DefaultTimeout)
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("watch.debounce", DefaultDebounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// LoadDotEnv loads a .env file from the working directory when present.
func LoadDotEnv() {
	// A missing .env file is fine
	_ = godotenv.Load()
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	path, err := ExpandPath(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	cfg.Database.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if _, err := common.ParseLevel(c.Logging.Level); err != nil {
		return err
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format: %s", common.ErrInvalidConfig, c.Logging.Format)
	}
	if strings.TrimSpace(c.Taxonomy.Summary) == "" || strings.TrimSpace(c.Taxonomy.Legend) == "" {
		return fmt.Errorf("%w: taxonomy defaults must not be empty", common.ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", common.ErrInvalidConfig)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("%w: server.max_upload_bytes must be positive", common.ErrInvalidConfig)
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", common.ErrInvalidConfig)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("%w: watch.debounce must not be negative", common.ErrInvalidConfig)
	}
	return nil
}
