// Package config загружает конфигурацию сервера из переменных окружения
// и, опционально, из yaml/toml файла.
package config

import (
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Окружения, определяющие формат логов
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Драйверы базы данных
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

type Config struct {
	Env        string `yaml:"env" toml:"env" env:"SMARTNLP_ENV" env-default:"local"`
	HTTPServer `yaml:"http_server" toml:"http_server"`
	Database   `yaml:"database" toml:"database"`
	AIModel    `yaml:"ai_model" toml:"ai_model"`
	JWT        `yaml:"jwt" toml:"jwt"`
	RateLimit  `yaml:"rate_limit" toml:"rate_limit"`
	S3         `yaml:"s3" toml:"s3"`
}

type HTTPServer struct {
	Address      string        `yaml:"address" toml:"address" env:"HTTP_ADDRESS" env-default:":3001"`
	ReadTimeout  time.Duration `yaml:"read_timeout" toml:"read_timeout" env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"write_timeout" toml:"write_timeout" env:"HTTP_WRITE_TIMEOUT" env-default:"60s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" toml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Database struct {
	Driver string `yaml:"driver" toml:"driver" env:"DATABASE_DRIVER" env-default:"sqlite"`
	DSN    string `yaml:"dsn" toml:"dsn" env:"DATABASE_DSN" env-default:"smartnlp.db"`
}

type AIModel struct {
	BaseURL string        `yaml:"base_url" toml:"base_url" env:"AI_MODEL_BASE_URL" env-default:"http://localhost:8000"`
	APIKey  string        `yaml:"api_key" toml:"api_key" env:"AI_MODEL_API_KEY"`
	Timeout time.Duration `yaml:"timeout" toml:"timeout" env:"AI_MODEL_TIMEOUT" env-default:"30s"`
}

type JWT struct {
	Secret    string        `yaml:"secret" toml:"secret" env:"JWT_SECRET" env-required:"true"`
	ExpiresIn time.Duration `yaml:"expires_in" toml:"expires_in" env:"JWT_EXPIRES_IN" env-default:"168h"`
}

type RateLimit struct {
	// TrustedProxies адреса или CIDR обратных прокси. Только от них принимаются
	// X-Forwarded-For и X-Real-IP; пустой список означает прямые подключения.
	TrustedProxies []string `yaml:"trusted_proxies" toml:"trusted_proxies" env:"RATE_LIMIT_TRUSTED_PROXIES" env-separator:","`
	RPS            float64  `yaml:"rps" toml:"rps" env:"RATE_LIMIT_RPS" env-default:"10"`
	Burst          int      `yaml:"burst" toml:"burst" env:"RATE_LIMIT_BURST" env-default:"20"`
}

// Proxies parses TrustedProxies. A bare address becomes a single-host prefix.
func (r RateLimit) Proxies() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", raw, err)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}
	return prefixes, nil
}

// S3 настраивает архив аудио. Пустой Bucket отключает архив.
type S3 struct {
	Bucket    string `yaml:"bucket" toml:"bucket" env:"S3_BUCKET"`
	Region    string `yaml:"region" toml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Endpoint  string `yaml:"endpoint" toml:"endpoint" env:"S3_ENDPOINT"`
	AccessKey string `yaml:"access_key" toml:"access_key" env:"S3_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" toml:"secret_key" env:"S3_SECRET_KEY"`
}

// Enabled reports whether the audio archive is configured.
func (s S3) Enabled() bool {
	return s.Bucket != ""
}

// Load reads configuration from the environment, overlaid on the file at path
// when path is not empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("unknown env %q", c.Env)
	}

	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}

	if _, err := c.RateLimit.Proxies(); err != nil {
		return err
	}

	return nil
}

// Usage returns the list of supported environment variables.
func Usage() string {
	var cfg Config
	text, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return text
}
