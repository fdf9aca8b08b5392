package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"

	"github.com/hyperifyio/seatwatch/internal/seats"
)

// FileConfig represents the single-file configuration schema.
// Nested sections mirror the flag names.
type FileConfig struct {
	URL string `yaml:"url" json:"url"`

	Source struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"source" json:"source"`

	Target struct {
		Label string `yaml:"label" json:"label"`
		// Prefix is a pointer so that an explicit empty prefix can be set.
		Prefix *string `yaml:"prefix" json:"prefix"`
	} `yaml:"target" json:"target"`

	Threshold *int     `yaml:"threshold" json:"threshold"`
	Absent    string   `yaml:"absent" json:"absent"`
	Strategy  string   `yaml:"strategy" json:"strategy"`
	Timeout   Duration `yaml:"timeout" json:"timeout"`
	Format    string   `yaml:"format" json:"format"`
	Verbose   bool     `yaml:"verbose" json:"verbose"`

	Text struct {
		Marker string `yaml:"marker" json:"marker"`
		Window int    `yaml:"window" json:"window"`
	} `yaml:"text" json:"text"`

	DOM struct {
		LabelSelector     string `yaml:"labelSelector" json:"labelSelector"`
		CountSelector     string `yaml:"countSelector" json:"countSelector"`
		ContainerSelector string `yaml:"containerSelector" json:"containerSelector"`
	} `yaml:"dom" json:"dom"`

	HTTP struct {
		UserAgent      string `yaml:"userAgent" json:"userAgent"`
		AcceptLanguage string `yaml:"acceptLanguage" json:"acceptLanguage"`
	} `yaml:"http" json:"http"`

	Log struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"log" json:"log"`

	Metrics struct {
		File string `yaml:"file" json:"file"`
	} `yaml:"metrics" json:"metrics"`
}

// Duration accepts Go duration strings ("90s") in YAML and JSON files.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	return d.set(s)
}

func (d *Duration) set(s string) error {
	if strings.TrimSpace(s) == "" {
		*d = 0
		return nil
	}
	v, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value present in fc onto cfg. It runs on
// top of Defaults(); env and flags are applied afterwards.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}

	set := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	set(&cfg.URL, fc.URL)
	set(&cfg.SourceFile, fc.Source.File)
	set(&cfg.Target, fc.Target.Label)
	if fc.Target.Prefix != nil {
		cfg.TargetPrefix = *fc.Target.Prefix
	}
	if fc.Threshold != nil {
		cfg.Threshold = *fc.Threshold
	}
	set(&cfg.Absent, fc.Absent)
	set(&cfg.Strategy, fc.Strategy)
	if fc.Timeout > 0 {
		cfg.Timeout = time.Duration(fc.Timeout)
	}
	set(&cfg.Format, fc.Format)
	if fc.Verbose {
		cfg.Verbose = true
	}

	set(&cfg.Marker, fc.Text.Marker)
	if fc.Text.Window > 0 {
		cfg.WindowSize = fc.Text.Window
	}

	set(&cfg.LabelSelector, fc.DOM.LabelSelector)
	set(&cfg.CountSelector, fc.DOM.CountSelector)
	set(&cfg.ContainerSelector, fc.DOM.ContainerSelector)

	set(&cfg.UserAgent, fc.HTTP.UserAgent)
	set(&cfg.AcceptLanguage, fc.HTTP.AcceptLanguage)
	set(&cfg.LogFile, fc.Log.File)
	set(&cfg.MetricsFile, fc.Metrics.File)
}

// ValidateConfig rejects configurations that cannot produce a meaningful
// check. It does not touch the network.
func ValidateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Target) == "" {
		return errors.New("config: target label is required")
	}
	if cfg.Threshold < 0 {
		return errors.New("config: threshold must not be negative")
	}
	if cfg.WindowSize < 0 {
		return errors.New("config: window must not be negative")
	}
	if strings.TrimSpace(cfg.SourceFile) == "" {
		if strings.TrimSpace(cfg.URL) == "" {
			return errors.New("config: url is required (or set source.file)")
		}
		u, err := url.Parse(cfg.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("config: url %q is not an http(s) URL", cfg.URL)
		}
		if cfg.Timeout <= 0 {
			return errors.New("config: timeout must be positive")
		}
	}
	if _, err := seats.ParseAbsentPolicy(cfg.Absent); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := seats.ParseFormat(cfg.Format); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := seats.New(seats.Strategy(cfg.Strategy), extractorOptions(cfg)); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
