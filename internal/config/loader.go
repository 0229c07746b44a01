package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// Config captures environment driven configuration values for the simulator.
type Config struct {
	HTTPPort               int
	SQLiteDSN              string
	LogLevel               slog.Level
	DefaultLocale          language.Tag
	MinBuffer              time.Duration
	CateringGap            time.Duration
	CapacityWarningPercent int
	ParallelValidators     bool
	ResultCacheTTL         time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() Config {
	return Config{
		HTTPPort:               8080,
		SQLiteDSN:              "simulator.db",
		LogLevel:               slog.LevelInfo,
		DefaultLocale:          language.English,
		MinBuffer:              15 * time.Minute,
		CateringGap:            4 * time.Hour,
		CapacityWarningPercent: 90,
		ParallelValidators:     true,
		ResultCacheTTL:         30 * time.Second,
	}
}

// Load parses configuration values from the current process environment.
//
// Unset variables keep their defaults. Every invalid value is collected and
// reported together in one localized error.
func Load() (Config, error) {
	cfg := Default()
	invalid := make([]string, 0, 2)

	if portValue := lookup("SIMULATOR_HTTP_PORT"); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "SIMULATOR_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := lookup("SIMULATOR_SQLITE_DSN"); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if levelValue := lookup("SIMULATOR_LOG_LEVEL"); levelValue != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelValue)); err != nil {
			invalid = append(invalid, "SIMULATOR_LOG_LEVEL")
		} else {
			cfg.LogLevel = level
		}
	}

	if localeValue := lookup("SIMULATOR_DEFAULT_LOCALE"); localeValue != "" {
		tag, err := language.Parse(localeValue)
		if err != nil {
			invalid = append(invalid, "SIMULATOR_DEFAULT_LOCALE")
		} else {
			cfg.DefaultLocale = tag
		}
	}

	if d, ok := positiveDuration("SIMULATOR_MIN_BUFFER", &invalid); ok {
		cfg.MinBuffer = d
	}
	if d, ok := positiveDuration("SIMULATOR_CATERING_GAP", &invalid); ok {
		cfg.CateringGap = d
	}

	if percentValue := lookup("SIMULATOR_CAPACITY_WARNING_PERCENT"); percentValue != "" {
		percent, err := strconv.Atoi(percentValue)
		if err != nil || percent < 1 || percent > 100 {
			invalid = append(invalid, "SIMULATOR_CAPACITY_WARNING_PERCENT")
		} else {
			cfg.CapacityWarningPercent = percent
		}
	}

	if parallelValue := lookup("SIMULATOR_PARALLEL_VALIDATORS"); parallelValue != "" {
		parallel, err := strconv.ParseBool(parallelValue)
		if err != nil {
			invalid = append(invalid, "SIMULATOR_PARALLEL_VALIDATORS")
		} else {
			cfg.ParallelValidators = parallel
		}
	}

	if ttlValue := lookup("SIMULATOR_RESULT_CACHE_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl < 0 {
			invalid = append(invalid, "SIMULATOR_RESULT_CACHE_TTL")
		} else {
			cfg.ResultCacheTTL = ttl
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("環境変数の値が不正です: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func positiveDuration(key string, invalid *[]string) (time.Duration, bool) {
	value := lookup(key)
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		*invalid = append(*invalid, key)
		return 0, false
	}
	return d, true
}
