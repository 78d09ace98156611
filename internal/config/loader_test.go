package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nlog_level: debug\nfetch_timeout_seconds: 5\nmax_body_bytes: 1024\ncors_enabled: true\ncors_allowed_origins: [\"http://a\", \"http://b\"]\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":9999" || cfg.LogLevel != "debug" || cfg.FetchTimeoutSeconds != 5 || cfg.MaxBodyBytes != 1024 || !cfg.CORSEnabled || len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","log_format":"json","fetch_timeout_seconds":7,"user_agent":"ua/1"}`)
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":7070" || cfg.LogFormat != "json" || cfg.FetchTimeoutSeconds != 7 || cfg.UserAgent != "ua/1" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nlog_level=\"warn\"\nmax_request_bytes=2048\n")
	cfg, err := Load(p)
	if err != nil { t.Fatalf("load: %v", err) }
	if cfg.Addr != ":8081" || cfg.LogLevel != "warn" || cfg.MaxRequestBytes != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil { t.Fatalf("expected error on empty path") }
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil { t.Fatalf("expected unsupported extension error") }
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Addr != DefaultAddr || cfg.LogLevel != DefaultLogLevel || cfg.LogFormat != DefaultLogFormat ||
		cfg.FetchTimeoutSeconds != DefaultFetchTimeoutSeconds || cfg.MaxBodyBytes != DefaultMaxBodyBytes || cfg.MaxRequestBytes != DefaultMaxRequestBytes {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
	cfg = Config{Addr: ":1", FetchTimeoutSeconds: 3}
	cfg.ApplyDefaults()
	if cfg.Addr != ":1" || cfg.FetchTimeoutSeconds != 3 {
		t.Fatalf("explicit values overwritten: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	if err := (Config{LogFormat: "xml"}).Validate(); err == nil { t.Fatalf("expected log_format error") }
	if err := (Config{CORSEnabled: true}).Validate(); err == nil { t.Fatalf("expected cors origins error") }
	if err := (Config{LogFormat: "json", CORSEnabled: true, CORSAllowedOrigins: []string{"*"}}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
