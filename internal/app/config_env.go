package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ApplyEnvOverrides overrides cfg fields with SEATWATCH_* environment
// variables when they are set. It runs after the config file and before
// flags, so env beats the file and flags beat env. Malformed numbers and
// durations are ignored with a warning.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&cfg.URL, "SEATWATCH_URL")
	setString(&cfg.SourceFile, "SEATWATCH_SOURCE_FILE")
	setString(&cfg.Target, "SEATWATCH_TARGET")
	setString(&cfg.TargetPrefix, "SEATWATCH_TARGET_PREFIX")
	setString(&cfg.Absent, "SEATWATCH_ABSENT")
	setString(&cfg.Strategy, "SEATWATCH_STRATEGY")
	setString(&cfg.Marker, "SEATWATCH_MARKER")
	setString(&cfg.LabelSelector, "SEATWATCH_DOM_LABEL")
	setString(&cfg.CountSelector, "SEATWATCH_DOM_COUNT")
	setString(&cfg.ContainerSelector, "SEATWATCH_DOM_CONTAINER")
	setString(&cfg.UserAgent, "SEATWATCH_UA")
	setString(&cfg.AcceptLanguage, "SEATWATCH_LANG")
	setString(&cfg.Format, "SEATWATCH_FORMAT")
	setString(&cfg.LogFile, "SEATWATCH_LOG_FILE")
	setString(&cfg.MetricsFile, "SEATWATCH_METRICS_FILE")

	setInt := func(dst *int, key string) {
		s := strings.TrimSpace(os.Getenv(key))
		if s == "" {
			return
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			log.Warn().Str("env", key).Str("value", s).Msg("ignoring non-integer value")
			return
		}
		*dst = n
	}
	setInt(&cfg.Threshold, "SEATWATCH_THRESHOLD")
	setInt(&cfg.WindowSize, "SEATWATCH_WINDOW")

	if s := strings.TrimSpace(os.Getenv("SEATWATCH_TIMEOUT")); s != "" {
		if d, err := time.ParseDuration(s); err == nil {
			cfg.Timeout = d
		} else {
			log.Warn().Str("env", "SEATWATCH_TIMEOUT").Str("value", s).Msg("ignoring invalid duration")
		}
	}

	// Booleans override when env present and truthy/falsey
	if s := strings.ToLower(strings.TrimSpace(os.Getenv("VERBOSE"))); s != "" {
		switch s {
		case "1", "true", "yes", "on":
			cfg.Verbose = true
		case "0", "false", "no", "off":
			cfg.Verbose = false
		}
	}
}
