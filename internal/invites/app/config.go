package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aussiebroadwan/invitedesk/pkg/httpx"
	"github.com/caarlos0/env/v11"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Issuer         string `env:"INVITES_ISSUER" envDefault:"invites-service"`
	BootstrapToken string `env:"BOOTSTRAP_TOKEN"` // empty disables /v1/bootstrap

	DatabaseDriver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseFile   string `env:"DATABASE_FILE" envDefault:"invites.db"`
	DatabaseURL    string `env:"DATABASE_URL"` // postgres only

	PepperFile     string        `env:"PEPPER_FILE" envDefault:"pepper"`
	SigningKeyFile string        `env:"SIGNING_KEY_FILE"` // empty generates a key per process
	SigningKeyID   string        `env:"SIGNING_KEY_ID" envDefault:"invites-1"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"1h"`

	PublicOrigin   string `env:"PUBLIC_ORIGIN" envDefault:"http://localhost:3000"`
	SendGridAPIKey string `env:"SENDGRID_API_KEY"` // empty logs links instead of mailing them
	MailFromAddr   string `env:"MAIL_FROM_ADDRESS" envDefault:"no-reply@localhost"`
	MailFromName   string `env:"MAIL_FROM_NAME" envDefault:"Invitations"`
	MailLang       string `env:"MAIL_LANG" envDefault:"en"`

	RetryAttempts int           `env:"RETRY_ATTEMPTS" envDefault:"3"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" envDefault:"100ms"`

	RateLimits httpx.RateLimits `envPrefix:"RATELIMIT_"`

	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	switch strings.ToLower(c.DatabaseDriver) {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("DATABASE_FILE is required for the sqlite driver"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER %q is not sqlite or postgres", c.DatabaseDriver))
	}

	if c.PublicOrigin == "" {
		errs = append(errs, errors.New("PUBLIC_ORIGIN is required"))
	}
	if c.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}
