package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	lens "Sagitta/internal/calc/lens"

	"github.com/joho/godotenv"
	"golang.org/x/time/rate"
)

type Config struct {
	Addr        string
	TLSCert     string
	TLSKey      string
	RateLimit   rate.Limit
	RateBurst   int
	Samples     int
	Debug       bool
	LogFormat   string
	DatabaseURL string
}

func (c Config) TLS() bool {
	return c.TLSCert != "" && c.TLSKey != ""
}

// Load reads an optional .env file (variables already set win) and then the
// environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Addr:        ":8080",
		RateLimit:   5,
		RateBurst:   10,
		Samples:     lens.DefaultSamples,
		LogFormat:   "json",
		TLSCert:     getenv("LENS_TLS_CERT"),
		TLSKey:      getenv("LENS_TLS_KEY"),
		DatabaseURL: getenv("DATABASE_URL"),
	}
	if v := getenv("LENS_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("LENS_LOG_FORMAT"); v != "" {
		if v != "json" && v != "text" {
			return Config{}, fmt.Errorf("LENS_LOG_FORMAT: want json or text, got %q", v)
		}
		cfg.LogFormat = v
	}
	if v := getenv("LENS_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("LENS_DEBUG: %w", err)
		}
		cfg.Debug = b
	}
	if v := getenv("LENS_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			return Config{}, fmt.Errorf("LENS_RATE_LIMIT: want a positive number, got %q", v)
		}
		cfg.RateLimit = rate.Limit(f)
	}
	if v := getenv("LENS_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("LENS_RATE_BURST: want a positive integer, got %q", v)
		}
		cfg.RateBurst = n
	}
	if v := getenv("LENS_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("LENS_SAMPLES: %w", err)
		}
		if _, err := lens.ResolveSamples(n); err != nil || n == 0 {
			return Config{}, fmt.Errorf("LENS_SAMPLES: want 2..%d, got %d", lens.MaxSamples, n)
		}
		cfg.Samples = n
	}
	if (cfg.TLSCert == "") != (cfg.TLSKey == "") {
		return Config{}, errors.New("LENS_TLS_CERT and LENS_TLS_KEY must be set together")
	}
	return cfg, nil
}
