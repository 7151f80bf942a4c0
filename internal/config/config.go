package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	SourceDir      = "dir"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

type Config struct {
	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	CatalogSource string `env:"CATALOG_SOURCE" envDefault:"dir"`
	CatalogDir    string `env:"CATALOG_DIR" envDefault:"./products"`
	// CatalogFallback serves CATALOG_DIR when the S3 bucket cannot be read.
	CatalogFallback bool `env:"CATALOG_FALLBACK" envDefault:"true"`
	// PickSeed makes featured and recommended picks reproducible when non-zero.
	PickSeed uint64 `env:"PICK_SEED" envDefault:"0"`

	S3Bucket string `env:"S3_BUCKET"`
	S3Region string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Prefix string `env:"S3_PREFIX"`

	DatabaseURL string `env:"DATABASE_URL"`

	SiteURL        string `env:"SITE_URL" envDefault:"http://localhost:8080"`
	AdminJWTSecret string `env:"ADMIN_JWT_SECRET"`
	MetricsToken   string `env:"METRICS_TOKEN"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
	MailTo       string `env:"MAIL_TO"`

	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
	GeoURL           string `env:"GEO_URL" envDefault:"https://ipwho.is"`

	// FormsRateLimit is the number of form posts allowed per client IP per FormsRateWindow.
	FormsRateLimit  int           `env:"FORMS_RATE_LIMIT" envDefault:"10"`
	FormsRateWindow time.Duration `env:"FORMS_RATE_WINDOW" envDefault:"1m"`
	// TrustProxy keys the form limiter on X-Forwarded-For. Enable only behind a proxy that sets it.
	TrustProxy bool `env:"TRUST_PROXY" envDefault:"false"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid PORT: %d", c.Port))
	}
	if !slices.Contains([]string{"debug", "info", "warn", "error"}, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("invalid LOG_LEVEL: %q", c.LogLevel))
	}

	switch c.CatalogSource {
	case SourceDir:
		if c.CatalogDir == "" {
			errs = append(errs, errors.New("CATALOG_DIR is required for the dir source"))
		}
	case SourceS3:
		if c.S3Bucket == "" {
			errs = append(errs, errors.New("S3_BUCKET is required for the s3 source"))
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres source"))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid CATALOG_SOURCE %q: want dir, s3 or postgres", c.CatalogSource))
	}

	if c.SMTPEnabled() {
		if c.SMTPPort < 1 || c.SMTPPort > 65535 {
			errs = append(errs, fmt.Errorf("invalid SMTP_PORT: %d", c.SMTPPort))
		}
		if c.MailFrom == "" || c.MailTo == "" {
			errs = append(errs, errors.New("MAIL_FROM and MAIL_TO are required when SMTP_HOST is set"))
		}
	}

	if (c.TelegramBotToken == "") != (c.TelegramChatID == "") {
		errs = append(errs, errors.New("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID must be set together"))
	}

	if c.FormsRateLimit < 0 {
		errs = append(errs, fmt.Errorf("invalid FORMS_RATE_LIMIT: %d", c.FormsRateLimit))
	}
	if c.FormsRateWindow <= 0 {
		errs = append(errs, fmt.Errorf("invalid FORMS_RATE_WINDOW: %s", c.FormsRateWindow))
	}

	return errors.Join(errs...)
}

func (c *Config) SMTPEnabled() bool { return c.SMTPHost != "" }

func (c *Config) TelegramEnabled() bool { return c.TelegramBotToken != "" }

func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }
