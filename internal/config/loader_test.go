package config

import (
	"log/slog"
	"testing"
	"time"

	"golang.org/x/text/language"
)

var allKeys = []string{
	"SIMULATOR_HTTP_PORT",
	"SIMULATOR_SQLITE_DSN",
	"SIMULATOR_LOG_LEVEL",
	"SIMULATOR_DEFAULT_LOCALE",
	"SIMULATOR_MIN_BUFFER",
	"SIMULATOR_CATERING_GAP",
	"SIMULATOR_CAPACITY_WARNING_PERCENT",
	"SIMULATOR_PARALLEL_VALIDATORS",
	"SIMULATOR_RESULT_CACHE_TTL",
}

// clearEnvironment blanks every variable for the duration of the test; an
// empty value is treated as unset.
func clearEnvironment(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		clearEnvironment(t)

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg != Default() {
			t.Fatalf("expected defaults, got %+v", cfg)
		}
		if cfg.HTTPPort != 8080 || cfg.SQLiteDSN != "simulator.db" {
			t.Fatalf("unexpected defaults: %+v", cfg)
		}
		if cfg.MinBuffer != 15*time.Minute || cfg.CateringGap != 4*time.Hour || cfg.CapacityWarningPercent != 90 {
			t.Fatalf("unexpected engine defaults: %+v", cfg)
		}
		if !cfg.ParallelValidators || cfg.ResultCacheTTL != 30*time.Second {
			t.Fatalf("unexpected runtime defaults: %+v", cfg)
		}
	})

	t.Run("parses every variable", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("SIMULATOR_HTTP_PORT", "9090")
		t.Setenv("SIMULATOR_SQLITE_DSN", "/var/lib/simulator/events.db")
		t.Setenv("SIMULATOR_LOG_LEVEL", "debug")
		t.Setenv("SIMULATOR_DEFAULT_LOCALE", "ja")
		t.Setenv("SIMULATOR_MIN_BUFFER", "20m")
		t.Setenv("SIMULATOR_CATERING_GAP", "3h30m")
		t.Setenv("SIMULATOR_CAPACITY_WARNING_PERCENT", "80")
		t.Setenv("SIMULATOR_PARALLEL_VALIDATORS", "false")
		t.Setenv("SIMULATOR_RESULT_CACHE_TTL", "0s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected HTTP port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "/var/lib/simulator/events.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.LogLevel != slog.LevelDebug {
			t.Fatalf("expected debug level, got %v", cfg.LogLevel)
		}
		if cfg.DefaultLocale != language.Japanese {
			t.Fatalf("expected Japanese locale, got %v", cfg.DefaultLocale)
		}
		if cfg.MinBuffer != 20*time.Minute || cfg.CateringGap != 3*time.Hour+30*time.Minute {
			t.Fatalf("unexpected durations: %+v", cfg)
		}
		if cfg.CapacityWarningPercent != 80 || cfg.ParallelValidators {
			t.Fatalf("unexpected engine settings: %+v", cfg)
		}
		if cfg.ResultCacheTTL != 0 {
			t.Fatalf("expected cache disabled, got %v", cfg.ResultCacheTTL)
		}
	})

	t.Run("reports every invalid value together", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("SIMULATOR_HTTP_PORT", "http")
		t.Setenv("SIMULATOR_MIN_BUFFER", "-5m")
		t.Setenv("SIMULATOR_CAPACITY_WARNING_PERCENT", "150")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for invalid values")
		}
		expected := "環境変数の値が不正です: SIMULATOR_HTTP_PORT, SIMULATOR_MIN_BUFFER, SIMULATOR_CAPACITY_WARNING_PERCENT"
		if err.Error() != expected {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects unparseable locale and log level", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("SIMULATOR_LOG_LEVEL", "loud")
		t.Setenv("SIMULATOR_DEFAULT_LOCALE", "not a tag!")

		_, err := Load()
		expected := "環境変数の値が不正です: SIMULATOR_LOG_LEVEL, SIMULATOR_DEFAULT_LOCALE"
		if err == nil || err.Error() != expected {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("accepts valid but unsupported locales", func(t *testing.T) {
		clearEnvironment(t)
		t.Setenv("SIMULATOR_DEFAULT_LOCALE", "de-DE")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}
		if cfg.DefaultLocale != language.MustParse("de-DE") {
			t.Fatalf("expected de-DE to be kept, got %v", cfg.DefaultLocale)
		}
	})
}
