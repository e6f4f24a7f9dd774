package app

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orderdoc.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// clearConfigEnv blanks variables that would otherwise leak from the host.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"CONFIG_FILE", "PORT", "DB_DRIVER", "SQLITE_PATH", "REDIS_ADDR", "XML_CACHE_TTL_SECONDS",
		"ORDER_FANOUT_LIMIT", "ORDER_LIST_LIMIT", "ORDER_TX_TIMEOUT_SECONDS", "ORDER_ID_MAX_ATTEMPTS", "CORS_ORIGINS",
		"METRICS_ENABLED", "OTEL_ENABLED", "OTEL_SERVICE_NAME", "OTEL_SAMPLER_RATIO",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("driver: want=%s got=%s", DriverPostgres, cfg.DB.Driver)
	}
	if cfg.Orders.MaxIDAttempts != 16 || cfg.Orders.TxTimeout != 10*time.Second {
		t.Fatalf("orders: got=%+v", cfg.Orders)
	}
	if cfg.Addr() != ":8080" {
		t.Fatalf("Addr: want=:8080 got=%s", cfg.Addr())
	}
}

func TestLoadConfigFileOverlay(t *testing.T) {
	path := writeConfigFile(t, `
port: "9090"
db:
  driver: sqlite
  sqlite_path: /tmp/orders.db
redis:
  addr: cache:6379
  ttl: 90s
orders:
  fanout_limit: 3
cors_origins: [https://orders.example.com]
otel:
  enabled: true
  sample_ratio: 0.5
`)
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", path)
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/orders.db" {
		t.Fatalf("file values: got=%+v", cfg)
	}
	if cfg.Redis.Addr != "cache:6379" || cfg.Redis.TTL != 90*time.Second {
		t.Fatalf("redis: got=%+v", cfg.Redis)
	}
	if cfg.Orders.FanoutLimit != 3 || cfg.Orders.ListLimit != 100 || cfg.Orders.MaxIDAttempts != 16 {
		t.Fatalf("orders: got=%+v", cfg.Orders)
	}
	if !reflect.DeepEqual(cfg.CORSOrigins, []string{"https://orders.example.com"}) {
		t.Fatalf("cors: got=%v", cfg.CORSOrigins)
	}
	if !cfg.Otel.Enabled || cfg.Otel.SampleRatio != 0.5 || cfg.Otel.ServiceName != "orderdoc" {
		t.Fatalf("otel: got=%+v", cfg.Otel)
	}
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	clearConfigEnv(t)
	path := writeConfigFile(t, "port: \"9090\"\norders:\n  fanout_limit: 3\n")
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("ORDER_FANOUT_LIMIT", "12")
	t.Setenv("ORDER_LIST_LIMIT", "25")
	t.Setenv("ORDER_TX_TIMEOUT_SECONDS", "30")
	t.Setenv("XML_CACHE_TTL_SECONDS", "0")
	t.Setenv("METRICS_ENABLED", "true")
	cfg, err := LoadConfig(nil)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "7070" {
		t.Fatalf("port: want=7070 got=%s", cfg.Port)
	}
	if cfg.Orders.FanoutLimit != 12 || cfg.Orders.ListLimit != 25 || cfg.Orders.TxTimeout != 30*time.Second {
		t.Fatalf("orders: got=%+v", cfg.Orders)
	}
	if cfg.Redis.TTL != 0 || !cfg.Metrics.Enabled {
		t.Fatalf("redis/metrics: got=%+v %+v", cfg.Redis, cfg.Metrics)
	}
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DB_DRIVER", "mysql")
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("LoadConfig: want error for mysql driver")
	}
}

func TestLoadConfigBadFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("CONFIG_FILE", writeConfigFile(t, "port: [unterminated"))
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("LoadConfig: want parse error")
	}
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadConfig(nil); err == nil {
		t.Fatalf("LoadConfig: want read error")
	}
}
