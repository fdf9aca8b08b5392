package app

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadConfig resolves the configuration from, in increasing precedence:
// Defaults(), the config file, SEATWATCH_* environment variables (after
// loading dotenv files) and command-line flags. Arguments are parsed twice:
// once to find the config and dotenv paths, and once more on top of the
// file and env values so that explicit flags win.
func LoadConfig(args []string, usage io.Writer) (Config, error) {
	pre := Defaults()
	fs := newFlagSet(&pre, usage)
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := LoadEnvFiles(pre.EnvFiles...); err != nil {
		return Config{}, fmt.Errorf("load env files: %w", err)
	}

	cfg := Defaults()
	path := pre.ConfigPath
	if path == "" {
		path = strings.TrimSpace(os.Getenv("SEATWATCH_CONFIG"))
	}
	if path != "" {
		fc, err := LoadConfigFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		ApplyFileConfig(&cfg, fc)
		cfg.ConfigPath = path
	}
	ApplyEnvOverrides(&cfg)

	if err := newFlagSet(&cfg, io.Discard).Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, ValidateConfig(cfg)
}

func newFlagSet(cfg *Config, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("seatwatch", flag.ContinueOnError)
	fs.SetOutput(out)

	fs.StringVar(&cfg.URL, "url", cfg.URL, "Search result page to check")
	fs.StringVar(&cfg.SourceFile, "source.file", cfg.SourceFile, "Read a pre-rendered page from this file instead of fetching (.txt = text, else HTML; - = stdin)")
	fs.StringVar(&cfg.Target, "target", cfg.Target, "Label of the trip to check, e.g. the bus number")
	fs.StringVar(&cfg.TargetPrefix, "target.prefix", cfg.TargetPrefix, "Words preceding the label on the page; empty to match the label alone")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "Minimum seat count that counts as available")
	fs.StringVar(&cfg.Absent, "absent", cfg.Absent, "How to report a target missing from the page: unknown (failed check) or zero (0 seats)")
	fs.StringVar(&cfg.Strategy, "strategy", cfg.Strategy, "Extraction strategy: text, dom or auto")
	fs.StringVar(&cfg.Marker, "marker", cfg.Marker, "Text preceding the seat count in the page text")
	fs.IntVar(&cfg.WindowSize, "window", cfg.WindowSize, "Characters after the label searched for the marker")
	fs.StringVar(&cfg.LabelSelector, "dom.label", cfg.LabelSelector, "CSS selector for elements that may carry the label")
	fs.StringVar(&cfg.CountSelector, "dom.count", cfg.CountSelector, "CSS selector for the seat count element")
	fs.StringVar(&cfg.ContainerSelector, "dom.container", cfg.ContainerSelector, "CSS selector for one listing; empty to use the nearest ancestor holding a count")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Budget for fetching the page")
	fs.StringVar(&cfg.UserAgent, "ua", cfg.UserAgent, "User-Agent header")
	fs.StringVar(&cfg.AcceptLanguage, "lang", cfg.AcceptLanguage, "Accept-Language header")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "Result format: json or yaml")
	fs.StringVar(&cfg.LogFile, "log.file", cfg.LogFile, "Also write JSON logs to this rotating file")
	fs.StringVar(&cfg.MetricsFile, "metrics.file", cfg.MetricsFile, "Write Prometheus textfile-collector gauges to this path after each check")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Verbose logging")
	fs.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "Path to a YAML or JSON config file")
	fs.Func("env", "Comma-separated dotenv files to load (default .env)", func(s string) error {
		cfg.EnvFiles = splitList(s)
		return nil
	})
	return fs
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	list := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			list = append(list, v)
		}
	}
	return list
}
