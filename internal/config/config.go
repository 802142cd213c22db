package config

import (
	"errors"
	"fmt"
	"os"

	"braidzworld/internal/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	Server     ServerConfig     `yaml:"server"`
	Auth       AuthConfig       `yaml:"auth"`
	Storage    StorageConfig    `yaml:"storage"`
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Generator  GeneratorConfig  `yaml:"generator"`
	Exports    ExportConfig     `yaml:"exports"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Sheets     SheetsConfig     `yaml:"sheets"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
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

type AuthConfig struct {
	AdminEmail      string `yaml:"admin_email"`
	AdminPassword   string `yaml:"admin_password"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`
	LoginDelayMS    int    `yaml:"login_delay_ms"`
}

type StorageConfig struct {
	// Backend selects the durable store for blocked times and sessions:
	// sqlite, redis or memory.
	Backend   string      `yaml:"backend"`
	Path      string      `yaml:"path"`
	Namespace string      `yaml:"namespace"`
	Redis     RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type DashboardConfig struct {
	PageSize         int `yaml:"page_size"`
	SearchDebounceMS int `yaml:"search_debounce_ms"`
	SearchLatencyMS  int `yaml:"search_latency_ms"`
	UpdateDelayMS    int `yaml:"update_delay_ms"`
	SaveDelayMS      int `yaml:"save_delay_ms"`
	UploadDelayMS    int `yaml:"upload_delay_ms"`
}

type CalendarConfig struct {
	DayStart    string `yaml:"day_start"`
	DayEnd      string `yaml:"day_end"`
	SlotMinutes int    `yaml:"slot_minutes"`
}

type GeneratorConfig struct {
	Count       int    `yaml:"count"`
	DaysAhead   int    `yaml:"days_ahead"`
	CatalogPath string `yaml:"catalog_path"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

type TelegramConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type SheetsConfig struct {
	Enabled         bool   `yaml:"enabled"`
	CredentialsFile string `yaml:"credentials_file"`
	SpreadsheetID   string `yaml:"spreadsheet_id"`
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	Output   string `yaml:"output"`
	FilePath string `yaml:"file_path"`
}

func Load(configPath string) (*Config, error) {
	// .env не обязателен, но если есть - подхватываем
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Предварительная замена переменных окружения в YAML
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
	if c.Auth.AdminEmail == "" || c.Auth.AdminPassword == "" {
		return errors.New("admin credentials are required")
	}

	switch c.Storage.Backend {
	case "sqlite":
		if c.Storage.Path == "" {
			return errors.New("storage path is required for the sqlite backend")
		}
	case "redis":
		if c.Storage.Redis.Address == "" {
			return errors.New("redis address is required for the redis backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown storage backend: %q", c.Storage.Backend)
	}

	if c.Telegram.Enabled && c.Telegram.BotToken == "" {
		return errors.New("telegram notifier is enabled but bot_token is empty")
	}
	if c.Sheets.Enabled && (c.Sheets.CredentialsFile == "" || c.Sheets.SpreadsheetID == "") {
		return errors.New("sheets export is enabled but credentials_file or spreadsheet_id is empty")
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "braidzworld-admin"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Monitoring.PrometheusEnabled && c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "sqlite"
	}
	if c.Storage.Path == "" && c.Storage.Backend == "sqlite" {
		c.Storage.Path = "data/braidzworld.db"
	}
	if c.Storage.Namespace == "" {
		c.Storage.Namespace = "braidzworld"
	}
	if c.Auth.SessionTTLHours == 0 {
		c.Auth.SessionTTLHours = models.DefaultSessionTTLHours
	}
	if c.Auth.LoginDelayMS == 0 {
		c.Auth.LoginDelayMS = models.DefaultSaveDelayMS
	}

	// Dashboard defaults mirror the reference admin behaviour.
	if c.Dashboard.PageSize == 0 {
		c.Dashboard.PageSize = models.DefaultPageSize
	}
	if c.Dashboard.SearchDebounceMS == 0 {
		c.Dashboard.SearchDebounceMS = models.DefaultSearchDebounceMS
	}
	if c.Dashboard.SearchLatencyMS == 0 {
		c.Dashboard.SearchLatencyMS = models.DefaultSearchLatencyMS
	}
	if c.Dashboard.UpdateDelayMS == 0 {
		c.Dashboard.UpdateDelayMS = models.DefaultUpdateDelayMS
	}
	if c.Dashboard.SaveDelayMS == 0 {
		c.Dashboard.SaveDelayMS = models.DefaultSaveDelayMS
	}
	if c.Dashboard.UploadDelayMS == 0 {
		c.Dashboard.UploadDelayMS = models.DefaultUpdateDelayMS
	}

	if c.Calendar.DayStart == "" {
		c.Calendar.DayStart = models.DayStart
	}
	if c.Calendar.DayEnd == "" {
		c.Calendar.DayEnd = models.DayEnd
	}
	if c.Calendar.SlotMinutes == 0 {
		c.Calendar.SlotMinutes = models.SlotMinutes
	}

	if c.Generator.Count == 0 {
		c.Generator.Count = models.DefaultGeneratedBookings
	}
	if c.Generator.DaysAhead == 0 {
		c.Generator.DaysAhead = models.GeneratorDaysAhead
	}

	if c.Exports.Path == "" {
		c.Exports.Path = "exports"
	}
}
