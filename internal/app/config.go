package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/orderdoc-backend/internal/clients/redis"
	"github.com/yungbote/orderdoc-backend/internal/data/db"
	"github.com/yungbote/orderdoc-backend/internal/observability"
	"github.com/yungbote/orderdoc-backend/internal/platform/envutil"
	"github.com/yungbote/orderdoc-backend/internal/platform/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "defaultsecret"
)

type Config struct {
	Port        string   `yaml:"port"`
	LogMode     string   `yaml:"log_mode"`
	JWTSecret   string   `yaml:"jwt_secret"`
	CORSOrigins []string `yaml:"cors_origins"`

	DB      DBConfig                 `yaml:"db"`
	Redis   redis.XMLCacheConfig     `yaml:"redis"`
	Orders  OrdersConfig             `yaml:"orders"`
	Metrics MetricsConfig            `yaml:"metrics"`
	Otel    observability.OtelConfig `yaml:"otel"`
}

type DBConfig struct {
	Driver     string            `yaml:"driver"`
	Postgres   db.PostgresConfig `yaml:"postgres"`
	SQLitePath string            `yaml:"sqlite_path"`
}

type OrdersConfig struct {
	// FanoutLimit bounds concurrent per-order reads when listing.
	FanoutLimit   int           `yaml:"fanout_limit"`
	ListLimit     int           `yaml:"list_limit"`
	TxTimeout     time.Duration `yaml:"tx_timeout"`
	MaxIDAttempts int           `yaml:"max_id_attempts"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
	// Addr serves /metrics on its own listener. Empty mounts it on the API router.
	Addr string `yaml:"addr"`
}

func defaultConfig() Config {
	return Config{
		Port:      "8080",
		LogMode:   "development",
		JWTSecret: defaultJWTSecret,
		DB: DBConfig{
			Driver: DriverPostgres,
			Postgres: db.PostgresConfig{
				Host:    "localhost",
				Port:    "5432",
				User:    "postgres",
				Name:    "orderdoc",
				SSLMode: "disable",
			},
			SQLitePath: "orderdoc.db",
		},
		Orders: OrdersConfig{
			FanoutLimit:   8,
			ListLimit:     100,
			TxTimeout:     10 * time.Second,
			MaxIDAttempts: 16,
		},
		Otel: observability.OtelConfig{
			ServiceName: "orderdoc",
			SampleRatio: 0.1,
		},
	}
}

// LoadConfig builds defaults, overlays CONFIG_FILE when set, then applies the environment.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := defaultConfig()
	if path := envutil.String("CONFIG_FILE", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if log != nil {
			log.Info("Loaded config file", "path", path)
		}
	}
	applyEnv(&cfg)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == defaultJWTSecret && log != nil {
		log.Warn("JWT_SECRET not set, using the development default")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envutil.String("PORT", cfg.Port)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode)
	cfg.JWTSecret = envutil.String("JWT_SECRET", cfg.JWTSecret)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.DB.Driver = strings.ToLower(envutil.String("DB_DRIVER", cfg.DB.Driver))
	pg := &cfg.DB.Postgres
	pg.Host = envutil.String("POSTGRES_HOST", pg.Host)
	pg.Port = envutil.String("POSTGRES_PORT", pg.Port)
	pg.User = envutil.String("POSTGRES_USER", pg.User)
	pg.Password = envutil.String("POSTGRES_PASSWORD", pg.Password)
	pg.Name = envutil.String("POSTGRES_NAME", pg.Name)
	pg.SSLMode = envutil.String("POSTGRES_SSLMODE", pg.SSLMode)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.KeyPrefix = envutil.String("XML_CACHE_KEY_PREFIX", cfg.Redis.KeyPrefix)
	cfg.Redis.TTL = seconds("XML_CACHE_TTL_SECONDS", cfg.Redis.TTL)

	cfg.Orders.FanoutLimit = envutil.Int("ORDER_FANOUT_LIMIT", cfg.Orders.FanoutLimit)
	cfg.Orders.ListLimit = envutil.Int("ORDER_LIST_LIMIT", cfg.Orders.ListLimit)
	cfg.Orders.TxTimeout = seconds("ORDER_TX_TIMEOUT_SECONDS", cfg.Orders.TxTimeout)
	cfg.Orders.MaxIDAttempts = envutil.Int("ORDER_ID_MAX_ATTEMPTS", cfg.Orders.MaxIDAttempts)

	cfg.Metrics.Enabled = envutil.Bool("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = envutil.String("METRICS_ADDR", cfg.Metrics.Addr)

	o := &cfg.Otel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName)
	o.Environment = envutil.String("OTEL_ENVIRONMENT", o.Environment)
	o.Version = envutil.String("OTEL_SERVICE_VERSION", o.Version)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint)
	o.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", o.Headers)
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	o.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", o.SampleRatio)
}

func seconds(name string, def time.Duration) time.Duration {
	if !envutil.Set(name) {
		return def
	}
	n := envutil.Int(name, -1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func (c Config) validate() error {
	switch c.DB.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q (want %s or %s)", c.DB.Driver, DriverPostgres, DriverSQLite)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

// Addr is the listen address for the API server.
func (c Config) Addr() string {
	if strings.Contains(c.Port, ":") {
		return c.Port
	}
	return ":" + c.Port
}
