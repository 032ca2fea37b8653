package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/time/rate"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(env(nil))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.RateLimit != 5 || cfg.RateBurst != 10 || cfg.Samples != 200 || cfg.LogFormat != "json" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.TLS() || cfg.Debug || cfg.DatabaseURL != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"LENS_ADDR":       ":9000",
		"LENS_TLS_CERT":   "server.crt",
		"LENS_TLS_KEY":    "server.key",
		"LENS_RATE_LIMIT": "0.5",
		"LENS_RATE_BURST": "3",
		"LENS_SAMPLES":    "400",
		"LENS_DEBUG":      "true",
		"LENS_LOG_FORMAT": "text",
		"DATABASE_URL":    "postgres://db/lens",
	}))
	if err != nil {
		t.Fatalf("FromEnv: %v", err)
	}
	if cfg.Addr != ":9000" || !cfg.TLS() || cfg.RateLimit != rate.Limit(0.5) || cfg.RateBurst != 3 ||
		cfg.Samples != 400 || !cfg.Debug || cfg.LogFormat != "text" || cfg.DatabaseURL != "postgres://db/lens" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestFromEnv_Invalid(t *testing.T) {
	cases := []map[string]string{
		{"LENS_RATE_LIMIT": "-1"},
		{"LENS_RATE_BURST": "many"},
		{"LENS_SAMPLES": "1"},
		{"LENS_SAMPLES": "0"},
		{"LENS_DEBUG": "maybe"},
		{"LENS_LOG_FORMAT": "xml"},
		{"LENS_TLS_CERT": "server.crt"},
	}
	for _, c := range cases {
		if _, err := FromEnv(env(c)); err == nil {
			t.Errorf("expected error for %v", c)
		}
	}
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LENS_ADDR=:7070\nLENS_SAMPLES=250\n"), 0o644); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Setenv("LENS_ADDR", "")
	os.Unsetenv("LENS_ADDR")
	t.Setenv("LENS_SAMPLES", "300")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Fatalf("addr=%q", cfg.Addr)
	}
	if cfg.Samples != 300 {
		t.Fatalf("existing env must win, samples=%d", cfg.Samples)
	}
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Fatalf("Load: %v", err)
	}
}
