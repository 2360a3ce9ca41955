// Package config loads the single typed configuration struct every component
// receives at construction. Sources are a yaml file plus environment
// overrides; business logic never reads the environment directly.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/slighter12/go-lib/database/postgres"
)

const defaultPath = "."

// Log configures the slog logger.
type Log struct {
	Level  string `json:"level" yaml:"level"`
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// AuthConfig carries the token-lifecycle tunables.
type AuthConfig struct {
	// TokenLifetime bounds access-token validity; the auth cookie carries
	// the same expiry.
	TokenLifetime time.Duration `json:"tokenLifetime" yaml:"tokenLifetime"`
	// ResetWindow is how long a password-reset ticket stays valid.
	ResetWindow time.Duration `json:"resetWindow" yaml:"resetWindow"`
	BcryptCost  int           `json:"bcryptCost" yaml:"bcryptCost"`
	// CookieSecure toggles the Secure attribute on the auth cookie.
	CookieSecure bool `json:"cookieSecure" yaml:"cookieSecure"`
}

// APIConfig carries query-translation defaults.
type APIConfig struct {
	// DefaultPageSize applies when a list request has no valid limit.
	DefaultPageSize int `json:"defaultPageSize" yaml:"defaultPageSize"`
}

// StripeConfig configures the card payment gateway.
type StripeConfig struct {
	SecretKey string `json:"secretKey" yaml:"secretKey"`
	Currency  string `json:"currency" yaml:"currency"`
}

// MpesaConfig configures the Daraja client.
type MpesaConfig struct {
	BaseURL        string        `json:"baseUrl" yaml:"baseUrl"`
	ShortCode      string        `json:"shortCode" yaml:"shortCode"`
	Passkey        string        `json:"passkey" yaml:"passkey"`
	ConsumerKey    string        `json:"consumerKey" yaml:"consumerKey"`
	ConsumerSecret string        `json:"consumerSecret" yaml:"consumerSecret"`
	CallbackURL    string        `json:"callbackUrl" yaml:"callbackUrl"`
	Timeout        time.Duration `json:"timeout" yaml:"timeout"`
}

// SMTPConfig configures the outbound mailer.
type SMTPConfig struct {
	Host     string        `json:"host" yaml:"host"`
	Port     int           `json:"port" yaml:"port"`
	Username string        `json:"username" yaml:"username"`
	Password string        `json:"password" yaml:"password"`
	From     string        `json:"from" yaml:"from"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`
}

// UploadConfig bounds product/avatar image uploads.
type UploadConfig struct {
	// BucketURL is a gocloud blob URL (file://, s3://, mem:// in tests).
	BucketURL string `json:"bucketUrl" yaml:"bucketUrl"`
	// PublicBaseURL prefixes stored keys when building image URLs.
	PublicBaseURL string `json:"publicBaseUrl" yaml:"publicBaseUrl"`
	MaxSizeBytes  int64  `json:"maxSizeBytes" yaml:"maxSizeBytes"`
}

// Config is the application configuration root.
type Config struct {
	Env struct {
		Env         string `json:"env" yaml:"env"`
		ServiceName string `json:"serviceName" yaml:"serviceName"`
		Debug       bool   `json:"debug" yaml:"debug"`
		Log         Log    `json:"log" yaml:"log"`
	} `json:"env" yaml:"env"`

	HTTP struct {
		Port int `json:"port" yaml:"port"`
	} `json:"http" yaml:"http"`

	Postgres *postgres.DBConn `json:"postgres" yaml:"postgres" mapstructure:"postgres"`

	SecretKey struct {
		Access string `json:"access" yaml:"access"`
	} `json:"secretKey" yaml:"secretKey"`

	Auth   AuthConfig    `json:"auth" yaml:"auth"`
	API    APIConfig     `json:"api" yaml:"api"`
	Stripe *StripeConfig `json:"stripe" yaml:"stripe"`
	Mpesa  *MpesaConfig  `json:"mpesa" yaml:"mpesa"`
	SMTP   *SMTPConfig   `json:"smtp" yaml:"smtp"`
	Upload *UploadConfig `json:"upload" yaml:"upload"`
}

// Load reads config.yaml from the first directory that has it and overlays
// environment variables (AUTH_TOKENLIFETIME, STRIPE_SECRETKEY, ...).
func Load(name string, paths ...string) (*Config, error) {
	k := koanf.New(".")

	if len(paths) == 0 {
		paths = []string{defaultPath}
	}
	for _, path := range paths {
		candidate := filepath.Join(path, name+".yaml")
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := k.Load(file.Provider(candidate), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", candidate)
		}

		break
	}

	if err := k.Load(env.Provider(".", env.Opt{
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.ReplaceAll(key, "_", ".")), value
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load config from environment")
	}

	cfg := &Config{}
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "yaml",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	applyDefaults(cfg)

	return cfg, nil
}

// New is the fx provider.
func New() (*Config, error) {
	return Load("config", "config", "../config", "../../config")
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.TokenLifetime <= 0 {
		cfg.Auth.TokenLifetime = 24 * time.Hour
	}
	if cfg.Auth.ResetWindow <= 0 {
		cfg.Auth.ResetWindow = 30 * time.Minute
	}
	if cfg.API.DefaultPageSize <= 0 {
		cfg.API.DefaultPageSize = 100
	}
	if cfg.Stripe != nil && cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "usd"
	}
	if cfg.Mpesa != nil && cfg.Mpesa.Timeout <= 0 {
		cfg.Mpesa.Timeout = 15 * time.Second
	}
	// Sandbox unless the deployment explicitly points at production.
	if cfg.Mpesa != nil && cfg.Mpesa.BaseURL == "" {
		cfg.Mpesa.BaseURL = "https://sandbox.safaricom.co.ke"
	}
	if cfg.SMTP != nil && cfg.SMTP.Timeout <= 0 {
		cfg.SMTP.Timeout = 10 * time.Second
	}
	if cfg.Upload != nil && cfg.Upload.MaxSizeBytes <= 0 {
		cfg.Upload.MaxSizeBytes = 5 << 20
	}
}
