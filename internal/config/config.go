package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/dodo-tasks/backend/internal/models"
)

// Credential backends accepted by CREDENTIAL_BACKEND.
const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Config holds all service configuration. Values resolve in the order
// defaults -> YAML file -> environment variables.
type Config struct {
	Port   string `yaml:"port"    env:"PORT"`
	AppEnv string `yaml:"app_env" env:"APP_ENV"`

	MongoURI string `yaml:"db_url"  env:"DB_URL"`
	MongoDB  string `yaml:"db_name" env:"DB_NAME"`

	JWTSecret    string        `yaml:"jwt_secret"     env:"JWT_SECRET"`
	JWTExpiresIn time.Duration `yaml:"jwt_expires_in" env:"JWT_EXPIRES_IN"`
	BcryptCost   int           `yaml:"bcrypt_cost"    env:"BCRYPT_COST"`

	RateLimitWindow time.Duration `yaml:"rate_limit_window" env:"RATE_LIMIT_WINDOW"`
	RateLimitMax    int64         `yaml:"rate_limit_max"    env:"RATE_LIMIT_MAX"`
	RedisAddr       string        `yaml:"redis_addr"        env:"REDIS_ADDR"`
	RedisPassword   string        `yaml:"redis_password"    env:"REDIS_PASSWORD"`

	// TrustProxy makes the client address come from X-Forwarded-For and
	// X-Real-IP. Only enable it behind a proxy that overwrites them.
	TrustProxy bool `yaml:"trust_proxy" env:"TRUST_PROXY"`

	CredentialBackend string `yaml:"credential_backend" env:"CREDENTIAL_BACKEND"`
	PostgresDSN       string `yaml:"postgres_dsn"       env:"POSTGRES_DSN"`

	MinioEndpoint  string `yaml:"minio_endpoint"   env:"MINIO_ENDPOINT"`
	MinioAccessKey string `yaml:"minio_access_key" env:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `yaml:"minio_secret_key" env:"MINIO_SECRET_KEY"`
	MinioBucket    string `yaml:"minio_bucket"     env:"MINIO_BUCKET"`
	MinioUseSSL    bool   `yaml:"minio_use_ssl"    env:"MINIO_USE_SSL"`

	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	LogLevel           string   `yaml:"log_level"            env:"LOG_LEVEL"`
}

// Defaults returns the configuration used when nothing is overridden.
func Defaults() Config {
	return Config{
		Port:              "8080",
		AppEnv:            "production",
		MongoDB:           "dodo",
		JWTExpiresIn:      7 * 24 * time.Hour,
		BcryptCost:        10,
		RateLimitWindow:   15 * time.Minute,
		RateLimitMax:      100,
		CredentialBackend: BackendMongo,
		MinioBucket:       "task-exports",
		CORSAllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:5173",
			"https://dodotaskmanager.netlify.app",
		},
		LogLevel: "info",
	}
}

// Load resolves the configuration. An empty path skips the YAML layer.
func Load(path string) (*Config, error) {
	cfg := Defaults()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.CredentialBackend = strings.ToLower(strings.TrimSpace(cfg.CredentialBackend))
	return &cfg, nil
}

// Validate reports every setting the process cannot start without. All
// returned errors wrap models.ErrConfiguration.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.MongoURI) == "" {
		errs = append(errs, errors.New("DB_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTExpiresIn <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRES_IN must be positive"))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_MAX must be positive"))
	}
	switch c.CredentialBackend {
	case BackendMongo:
	case BackendPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required for the postgres credential backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown CREDENTIAL_BACKEND %q", c.CredentialBackend))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", models.ErrConfiguration, errors.Join(errs...))
}

// Development reports whether error details may be shown to clients.
func (c *Config) Development() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// ExportsEnabled reports whether object storage for task exports is configured.
func (c *Config) ExportsEnabled() bool {
	return c.MinioEndpoint != ""
}
