package app

import (
	"time"

	"github.com/hyperifyio/seatwatch/internal/seats"
)

// Config holds runtime configuration for one seat check.
type Config struct {
	// Page source: URL is always reported; SourceFile, when set, replaces
	// the HTTP fetch with a pre-rendered dump ("-" for stdin).
	URL        string
	SourceFile string

	// Target
	Target       string
	TargetPrefix string
	Threshold    int
	Absent       string

	// Extraction
	Strategy          string
	Marker            string
	WindowSize        int
	LabelSelector     string
	CountSelector     string
	ContainerSelector string

	// HTTP
	Timeout        time.Duration
	UserAgent      string
	AcceptLanguage string

	// Output and behavior
	Format      string
	LogFile     string
	MetricsFile string
	Verbose     bool
	ConfigPath  string
	EnvFiles    []string
}

const (
	DefaultURL            = "https://willer-travel.com/ko/bus_search/yamanashi/all/tokyo/ikebukuro/day_18/?stockNumberMale=1&stockNumberFemale=1&rid=3&lang=ko"
	DefaultTarget         = "0106"
	DefaultTargetPrefix   = "Bus No"
	DefaultThreshold      = 2
	DefaultMarker         = "공석"
	DefaultTimeout        = 60 * time.Second
	DefaultUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"
	DefaultAcceptLanguage = "ko-KR"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		URL:            DefaultURL,
		Target:         DefaultTarget,
		TargetPrefix:   DefaultTargetPrefix,
		Threshold:      DefaultThreshold,
		Absent:         string(seats.AbsentUnknown),
		Strategy:       string(seats.StrategyText),
		Marker:         DefaultMarker,
		WindowSize:     seats.DefaultWindowSize,
		LabelSelector:  seats.DefaultLabelSelector,
		CountSelector:  seats.DefaultCountSelector,
		Timeout:        DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		AcceptLanguage: DefaultAcceptLanguage,
		Format:         string(seats.FormatJSON),
		EnvFiles:       []string{".env"},
	}
}
