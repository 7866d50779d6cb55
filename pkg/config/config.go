package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App       AppConfig
	Redis     RedisConfig
	Stripe    StripeConfig
	Checkout  CheckoutConfig
	Cart      CartConfig
	RateLimit RateLimitConfig
	Report    ReportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPECTRA_APP_ENV" required:"true"`
	Port         string `envconfig:"SPECTRA_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPECTRA_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPECTRA_LOG_WARN_STACK" default:"false"`
	CORSOrigins  string `envconfig:"SPECTRA_CORS_ORIGINS" default:"*"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type RedisConfig struct {
	URL          string        `envconfig:"SPECTRA_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SPECTRA_REDIS_ADDR"`
	Password     string        `envconfig:"SPECTRA_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPECTRA_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPECTRA_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPECTRA_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPECTRA_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPECTRA_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPECTRA_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type StripeConfig struct {
	APIKey string `envconfig:"SPECTRA_STRIPE_API_KEY" required:"true"`
	Env    string `envconfig:"SPECTRA_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type CheckoutConfig struct {
	SuccessURL       string        `envconfig:"SPECTRA_CHECKOUT_SUCCESS_URL" required:"true"`
	CancelURL        string        `envconfig:"SPECTRA_CHECKOUT_CANCEL_URL" required:"true"`
	Currency         string        `envconfig:"SPECTRA_CHECKOUT_CURRENCY" default:"pln"`
	TaxRate          float64       `envconfig:"SPECTRA_CHECKOUT_TAX_RATE" default:"0.23"`
	TaxIncluded      bool          `envconfig:"SPECTRA_CHECKOUT_TAX_INCLUDED" default:"false"`
	ProcessorTimeout time.Duration `envconfig:"SPECTRA_CHECKOUT_PROCESSOR_TIMEOUT" default:"5s"`
}

func (c CheckoutConfig) validate() error {
	if c.TaxRate < 0 || c.TaxRate >= 1 {
		return fmt.Errorf("checkout tax rate must be within [0, 1), got %v", c.TaxRate)
	}
	return nil
}

type CartConfig struct {
	StalenessWindow time.Duration `envconfig:"SPECTRA_CART_STALENESS_WINDOW" default:"168h"`
	SlotTTL         time.Duration `envconfig:"SPECTRA_CART_SLOT_TTL" default:"336h"`
}

type RateLimitConfig struct {
	CheckoutWindow  time.Duration `envconfig:"SPECTRA_RATE_LIMIT_CHECKOUT_WINDOW" default:"1m"`
	CheckoutIPLimit int           `envconfig:"SPECTRA_RATE_LIMIT_CHECKOUT_IP_LIMIT" default:"10"`
}

type ReportConfig struct {
	SinkURL string        `envconfig:"SPECTRA_REPORT_SINK_URL"`
	Timeout time.Duration `envconfig:"SPECTRA_REPORT_TIMEOUT" default:"5s"`
}
