package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/application.yaml"

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

type TelegramConfig struct {
	Token          string        `yaml:"token" envconfig:"TELEGRAM_BOT_TOKEN"`
	Mode           string        `yaml:"mode" envconfig:"TELEGRAM_MODE"`
	PollTimeout    time.Duration `yaml:"poll_timeout" envconfig:"TELEGRAM_POLL_TIMEOUT"`
	WebhookURL     string        `yaml:"webhook_url" envconfig:"TELEGRAM_WEBHOOK_URL"`
	WebhookSecret  string        `yaml:"webhook_secret" envconfig:"TELEGRAM_WEBHOOK_SECRET"`
	AllowedUserIds []int64       `yaml:"allowed_user_ids" envconfig:"TELEGRAM_ALLOWED_USER_IDS"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" envconfig:"DATABASE_PATH"`
}

type HTTPConfig struct {
	Addr       string `yaml:"addr" envconfig:"HTTP_ADDR"`
	CronSecret string `yaml:"cron_secret" envconfig:"CRON_SECRET"`
}

type SchedulerConfig struct {
	Enabled   bool   `yaml:"enabled" envconfig:"SCHEDULER_ENABLED"`
	Spec      string `yaml:"spec" envconfig:"SCHEDULER_SPEC"`
	BatchSize int    `yaml:"batch_size" envconfig:"SCHEDULER_BATCH_SIZE"`
}

type EmailConfig struct {
	Host     string `yaml:"host" envconfig:"EMAIL_HOST"`
	Port     int    `yaml:"port" envconfig:"EMAIL_PORT"`
	Username string `yaml:"username" envconfig:"EMAIL_USER"`
	Password string `yaml:"password" envconfig:"EMAIL_PASS"`
	From     string `yaml:"from" envconfig:"EMAIL_FROM"`
}

// Enabled reports whether outgoing email is configured.
func (c EmailConfig) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

func (c EmailConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

type LogConfig struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

// Config is read from YAML first; environment variables override it.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Database  DatabaseConfig  `yaml:"database"`
	HTTP      HTTPConfig      `yaml:"http"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Email     EmailConfig     `yaml:"email"`
	Log       LogConfig       `yaml:"log"`
}

func Default() *Config {
	return &Config{
		Telegram: TelegramConfig{
			Mode:        ModePolling,
			PollTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{Path: "data/reminders.db"},
		HTTP:     HTTPConfig{Addr: ":8080"},
		Scheduler: SchedulerConfig{
			Enabled:   true,
			Spec:      "@every 30s",
			BatchSize: 100,
		},
		Email: EmailConfig{Host: "smtp.gmail.com", Port: 587},
		Log:   LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfig builds the configuration from defaults, the YAML file at path
// (skipped when it does not exist) and the environment.
func LoadConfig(path string) (*Config, error) {
	config := Default()

	file, err := os.Open(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to open config file: %w", err)
	default:
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := processEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// processEnv overlays variables that are set. Every tag carries the full
// variable name so envconfig never falls back to bare names like USER or PORT.
func processEnv(config *Config) error {
	sections := []interface{}{
		&config.Telegram,
		&config.Database,
		&config.HTTP,
		&config.Scheduler,
		&config.Email,
		&config.Log,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Telegram.Mode {
	case ModePolling:
	case ModeWebhook:
		if c.Telegram.WebhookURL == "" {
			return errors.New("telegram.webhook_url is required in webhook mode")
		}
	default:
		return fmt.Errorf("unknown telegram mode %q", c.Telegram.Mode)
	}
	if c.Scheduler.BatchSize <= 0 {
		return fmt.Errorf("scheduler.batch_size must be positive, got %d", c.Scheduler.BatchSize)
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	return nil
}
