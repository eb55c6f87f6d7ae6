package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Flash         UpstreamConfig      `mapstructure:"flash"`
	AlterData     UpstreamConfig      `mapstructure:"alterdata"`
	Sync          SyncConfig          `mapstructure:"sync"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	BaseURL           string        `mapstructure:"base_url"`
	AllowedOrigins    string        `mapstructure:"allowed_origins"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	Source          string        `mapstructure:"source"`
}

// UpstreamConfig describes one of the third-party APIs. The token usually comes from the environment.
type UpstreamConfig struct {
	BaseURL  string        `mapstructure:"base_url"`
	Token    string        `mapstructure:"token"`
	Timeout  time.Duration `mapstructure:"timeout"`
	PageSize int           `mapstructure:"page_size"`
}

type SyncConfig struct {
	EventCacheTTL       time.Duration     `mapstructure:"event_cache_ttl"`
	CacheSweepSchedule  string            `mapstructure:"cache_sweep_schedule"`
	EnrichConcurrency   int               `mapstructure:"enrich_concurrency"`
	SubmissionRetention time.Duration     `mapstructure:"submission_retention"`
	RetentionSchedule   string            `mapstructure:"retention_schedule"`
	CompanyAliases      map[string]string `mapstructure:"company_aliases"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadConfigFromEnv builds the configuration purely from environment variables.
func LoadConfigFromEnv() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Port:              getEnvAsInt("PORT", 8080),
			BaseURL:           getEnv("BASE_URL", ""),
			AllowedOrigins:    getEnv("ALLOWED_ORIGINS", "*"),
			ReadHeaderTimeout: getEnvAsDuration("READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			IdleTimeout:       getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			WriteTimeout:      getEnvAsDuration("WRITE_TIMEOUT", 120*time.Second),
		},
		Database: DatabaseConfig{
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
			ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 5*time.Minute),
			Source:          getEnv("DATABASE_URL", ""),
		},
		Flash: UpstreamConfig{
			BaseURL: getEnv("FLASH_API_URL", "https://api.flashapp.services"),
			Token:   getEnv("FLASH_API_TOKEN", ""),
			Timeout: getEnvAsDuration("FLASH_API_TIMEOUT", 30*time.Second),
		},
		AlterData: UpstreamConfig{
			BaseURL:  getEnv("ALTERDATA_API_URL", "https://dp.pack.alterdata.com.br/api/v1"),
			Token:    getEnv("ALTERDATA_API_TOKEN", ""),
			Timeout:  getEnvAsDuration("ALTERDATA_API_TIMEOUT", 30*time.Second),
			PageSize: getEnvAsInt("ALTERDATA_PAGE_SIZE", 100),
		},
		Sync: SyncConfig{
			EventCacheTTL:       getEnvAsDuration("EVENT_CACHE_TTL", 24*time.Hour),
			CacheSweepSchedule:  getEnv("CACHE_SWEEP_SCHEDULE", "@every 10m"),
			EnrichConcurrency:   getEnvAsInt("ENRICH_CONCURRENCY", 8),
			SubmissionRetention: getEnvAsDuration("SUBMISSION_RETENTION", 90*24*time.Hour),
			RetentionSchedule:   getEnv("RETENTION_SCHEDULE", "@daily"),
			CompanyAliases:      parseAliases(getEnv("COMPANY_ALIASES", "")),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "json"),
			},
		},
	}
	return cfg
}

// ApplyDefaults fills the zero values a config file may leave out.
func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Flash.Timeout <= 0 {
		c.Flash.Timeout = 30 * time.Second
	}
	if c.AlterData.Timeout <= 0 {
		c.AlterData.Timeout = 30 * time.Second
	}
	if c.AlterData.PageSize <= 0 {
		c.AlterData.PageSize = 100
	}
	if c.Sync.EventCacheTTL <= 0 {
		c.Sync.EventCacheTTL = 24 * time.Hour
	}
	if c.Sync.CacheSweepSchedule == "" {
		c.Sync.CacheSweepSchedule = "@every 10m"
	}
	if c.Sync.EnrichConcurrency <= 0 {
		c.Sync.EnrichConcurrency = 8
	}
	if c.Sync.SubmissionRetention <= 0 {
		c.Sync.SubmissionRetention = 90 * 24 * time.Hour
	}
	if c.Sync.RetentionSchedule == "" {
		c.Sync.RetentionSchedule = "@daily"
	}
}

// ----------------- HELPERS -----------------

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}

// parseAliases reads "ALIAS=TARGET;ALIAS2=TARGET2".
func parseAliases(raw string) map[string]string {
	aliases := make(map[string]string)
	for _, pair := range strings.Split(raw, ";") {
		alias, target, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		alias = strings.TrimSpace(alias)
		target = strings.TrimSpace(target)
		if alias == "" || target == "" {
			continue
		}
		aliases[alias] = target
	}
	return aliases
}

// ----------------- VALIDATION -----------------

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Flash.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("flash config: %v", err))
	}

	if err := c.AlterData.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("alterdata config: %v", err))
	}

	if err := c.Observability.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("logging config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.AllowedOrigins != "" {
		for _, origin := range c.Origins() {
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	if c.ReadTimeout < c.ReadHeaderTimeout {
		return errors.New("read_timeout must be >= read_header_timeout")
	}
	return nil
}

// Origins splits the comma separated allowed_origins value.
func (c *ServerConfig) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.AllowedOrigins, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *DatabaseConfig) Validate() error {
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

// Enabled reports whether a database is configured. Without one the audit log is off.
func (c *DatabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.Source) != ""
}

// Validate only checks the base URL. A missing token is reported on the request that needs it.
func (c *UpstreamConfig) Validate() error {
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("base_url must be http or https, got %q", c.BaseURL)
	}
	return nil
}

func (c *LoggingConfig) Validate() error {
	switch c.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %q", c.Level)
	}
	switch c.Format {
	case "", "json", "text":
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	return nil
}
