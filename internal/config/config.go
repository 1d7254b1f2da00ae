package config

import (
	"errors"
	"fmt"
	"os"

	"touristhub/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Shim       ShimConfig       `yaml:"shim"`
	Logging    LoggingConfig    `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Google     GoogleConfig     `yaml:"google"`
	Exports    ExportConfig     `yaml:"exports"`
	Settings   SettingsConfig   `yaml:"settings"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type ServerConfig struct {
	Port      int             `yaml:"port"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// GatewayConfig selects and configures the remote data gateway.
// Mode "remote" talks HTTP to the managed document store; mode
// "local" runs against the in-process gateway, useful for
// development and tests.
type GatewayConfig struct {
	Mode               string `yaml:"mode"` // remote, local
	BaseURL            string `yaml:"base_url"`
	APIKey             string `yaml:"api_key"`
	SessionPollSeconds int    `yaml:"session_poll_seconds"`
	CacheTTLSeconds    int    `yaml:"cache_ttl_seconds"`
}

// ShimConfig selects the local persistence shim backend. When both
// redis and sqlite are configured the shim runs redis-primary with
// sqlite fallback.
type ShimConfig struct {
	Backend string       `yaml:"backend"` // redis, sqlite, memory, failover
	Redis   RedisConfig  `yaml:"redis"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type GoogleConfig struct {
	CredentialsFile      string `yaml:"credentials_file"`
	ReportsSpreadSheetID string `yaml:"reports_spreadsheet_id"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

// SettingsConfig seeds the in-memory site settings singleton.
type SettingsConfig struct {
	SiteName       string `yaml:"site_name"`
	SiteEmail      string `yaml:"site_email"`
	SitePhone      string `yaml:"site_phone"`
	MaxGuests      int    `yaml:"max_guests"`
	AdvanceBooking int    `yaml:"advance_booking_days"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; environment wins either way.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Expand ${VAR} references before parsing.
	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func (c *Config) Validate() error {
	switch c.Gateway.Mode {
	case "remote":
		if c.Gateway.BaseURL == "" {
			return errors.New("gateway.base_url is required in remote mode")
		}
	case "local":
	default:
		return fmt.Errorf("unknown gateway mode: %q", c.Gateway.Mode)
	}

	switch c.Shim.Backend {
	case "redis":
		if c.Shim.Redis.Address == "" {
			return errors.New("shim.redis.address is required")
		}
	case "sqlite", "failover":
		if c.Shim.SQLite.Path == "" {
			return errors.New("shim.sqlite.path is required")
		}
		if c.Shim.Backend == "failover" && c.Shim.Redis.Address == "" {
			return errors.New("shim.redis.address is required for failover")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown shim backend: %q", c.Shim.Backend)
	}

	if c.Settings.MaxGuests < 0 || c.Settings.AdvanceBooking < 0 {
		return errors.New("settings limits must not be negative")
	}

	return nil
}

// ValidateCatalog rejects bundled catalogs with missing or duplicate
// identifiers.
func ValidateCatalog(catalog *models.Catalog) error {
	seen := make(map[string]bool)
	for _, tour := range catalog.Tours {
		if tour.ID == "" {
			return fmt.Errorf("tour %q has an empty ID", tour.Name)
		}
		if seen[tour.ID] {
			return fmt.Errorf("duplicate tour ID found: %s", tour.ID)
		}
		seen[tour.ID] = true
	}

	seen = make(map[string]bool)
	for _, dest := range catalog.Destinations {
		if dest.ID == "" {
			return fmt.Errorf("destination %q has an empty ID", dest.Name)
		}
		if seen[dest.ID] {
			return fmt.Errorf("duplicate destination ID found: %s", dest.ID)
		}
		seen[dest.ID] = true
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "touristhub"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RateLimit.RPS == 0 {
		c.Server.RateLimit.RPS = 10
	}
	if c.Server.RateLimit.Burst == 0 {
		c.Server.RateLimit.Burst = 20
	}
	if c.Gateway.Mode == "" {
		c.Gateway.Mode = "local"
	}
	if c.Gateway.SessionPollSeconds == 0 {
		c.Gateway.SessionPollSeconds = 30
	}
	if c.Shim.Backend == "" {
		c.Shim.Backend = "memory"
	}
	if c.Shim.Redis.PoolSize == 0 {
		c.Shim.Redis.PoolSize = 10
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}

	// Settings defaults mirror models.DefaultSettings.
	defaults := models.DefaultSettings()
	if c.Settings.SiteName == "" {
		c.Settings.SiteName = defaults.SiteName
	}
	if c.Settings.SiteEmail == "" {
		c.Settings.SiteEmail = defaults.SiteEmail
	}
	if c.Settings.SitePhone == "" {
		c.Settings.SitePhone = defaults.SitePhone
	}
	if c.Settings.MaxGuests == 0 {
		c.Settings.MaxGuests = defaults.MaxGuests
	}
	if c.Settings.AdvanceBooking == 0 {
		c.Settings.AdvanceBooking = defaults.AdvanceBooking
	}
}

// SiteSettings converts the config section into the runtime settings
// singleton.
func (c *Config) SiteSettings() models.Settings {
	return models.Settings{
		SiteName:       c.Settings.SiteName,
		SiteEmail:      c.Settings.SiteEmail,
		SitePhone:      c.Settings.SitePhone,
		MaxGuests:      c.Settings.MaxGuests,
		AdvanceBooking: c.Settings.AdvanceBooking,
	}
}
