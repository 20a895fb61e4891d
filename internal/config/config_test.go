package config

import (
	"log/slog"
	"testing"
	"time"
)

// setEnv resets every key Load reads so tests do not inherit the host environment.
func setEnv(t *testing.T, kv map[string]string) {
	t.Helper()
	for _, k := range []string{
		"HTTP_ADDR", "DB_DRIVER", "DB_URL", "VERSION", "INGEST_KEYS",
		"LOG_LEVEL", "MAX_BODY_BYTES", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(k, "")
	}
	for k, v := range kv {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_ADDR":        ":8080",
		"DB_DRIVER":        "postgres",
		"DB_URL":           "postgres://u:p@localhost:5432/heartbeat",
		"VERSION":          "",
		"LOG_LEVEL":        "info",
		"MAX_BODY_BYTES":   "65536",
		"SHUTDOWN_TIMEOUT": "10s",
	})

	cfg, err := Load("1.2.3")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want %q", cfg.HTTPAddr, ":8080")
	}
	if cfg.DBDriver != DriverPostgres {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverPostgres)
	}
	if cfg.MaxBodyBytes != 64<<10 {
		t.Errorf("MaxBodyBytes = %d, want %d", cfg.MaxBodyBytes, 64<<10)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 10s", cfg.ShutdownTimeout)
	}
	if len(cfg.IngestKeys) != 0 {
		t.Errorf("IngestKeys = %v, want empty", cfg.IngestKeys)
	}
}

func TestLoad_EnvVarOverride(t *testing.T) {
	setEnv(t, map[string]string{
		"HTTP_ADDR":        ":9090",
		"DB_DRIVER":        "SQLite",
		"DB_URL":           " /tmp/heartbeat.db ",
		"VERSION":          "7.2.0",
		"INGEST_KEYS":      "lab:k1, field : k2",
		"LOG_LEVEL":        "debug",
		"MAX_BODY_BYTES":   "1024",
		"SHUTDOWN_TIMEOUT": "3s",
	})

	cfg, err := Load("ignored")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.DBDriver != DriverSQLite {
		t.Errorf("DBDriver = %q, want %q", cfg.DBDriver, DriverSQLite)
	}
	if cfg.DBURL != "/tmp/heartbeat.db" {
		t.Errorf("DBURL = %q", cfg.DBURL)
	}
	if cfg.Version != "7.2.0" {
		t.Errorf("Version = %q, want 7.2.0", cfg.Version)
	}
	if cfg.MaxBodyBytes != 1024 {
		t.Errorf("MaxBodyBytes = %d", cfg.MaxBodyBytes)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.IngestKeys["k1"] != "lab" || cfg.IngestKeys["k2"] != "field" {
		t.Errorf("IngestKeys = %v", cfg.IngestKeys)
	}
	lvl, err := cfg.SlogLevel()
	if err != nil || lvl != slog.LevelDebug {
		t.Errorf("SlogLevel = %v, %v", lvl, err)
	}
}

func TestLoad_Invalid(t *testing.T) {
	base := map[string]string{
		"HTTP_ADDR":        ":8080",
		"DB_DRIVER":        "postgres",
		"DB_URL":           "postgres://localhost/heartbeat",
		"LOG_LEVEL":        "info",
		"MAX_BODY_BYTES":   "65536",
		"SHUTDOWN_TIMEOUT": "10s",
	}

	testCases := []struct {
		name string
		key  string
		val  string
	}{
		{"missing db url", "DB_URL", "   "},
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"malformed ingest keys", "INGEST_KEYS", "nolabel"},
		{"empty ingest key", "INGEST_KEYS", "lab:"},
		{"zero body cap", "MAX_BODY_BYTES", "0"},
		{"bad log level", "LOG_LEVEL", "loud"},
		{"zero shutdown timeout", "SHUTDOWN_TIMEOUT", "0s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range base {
				env[k] = v
			}
			env[tc.key] = tc.val
			setEnv(t, env)

			if _, err := Load("dev"); err == nil {
				t.Fatalf("Load with %s=%q should fail", tc.key, tc.val)
			}
		})
	}
}
