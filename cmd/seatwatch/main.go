package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/hyperifyio/seatwatch/internal/app"
	"github.com/hyperifyio/seatwatch/internal/metrics"
)

// Exit codes. Soft outcomes (target not listed, no seats, count missing) are
// normal operation and exit 0; the Result on stdout tells them apart.
const (
	exitOK          = 0
	exitConfig      = 1
	exitHardFailure = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339})

	cfg, err := app.LoadConfig(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "seatwatch: %v\n", err)
		return exitConfig
	}
	closeLog := setupLogging(cfg, stderr)
	defer closeLog()

	log.Debug().Str("version", app.BuildVersion).Str("commit", app.BuildCommit).Str("url", cfg.URL).Msg("starting seat check")

	a, err := app.New(cfg)
	if err != nil {
		log.Error().Err(err).Msg("init failed")
		return exitConfig
	}

	start := time.Now()
	result, runErr := a.Run(ctx)
	if err := result.Encode(stdout, a.Format()); err != nil {
		log.Error().Err(err).Msg("write result failed")
		return exitHardFailure
	}
	if cfg.MetricsFile != "" {
		rec := metrics.NewRecorder()
		rec.Observe(result, time.Since(start))
		if err := rec.WriteFile(cfg.MetricsFile); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("write metrics failed")
		}
	}
	if runErr != nil {
		// Exit code policy: nonzero only when the page could not be acquired.
		if errors.Is(runErr, app.ErrFetchFailed) {
			return exitHardFailure
		}
		log.Warn().Err(runErr).Msg("run finished with warnings")
	}
	return exitOK
}

// setupLogging applies the verbosity and, when a log file is configured,
// tees JSON log lines into a size-rotated file next to the console output.
func setupLogging(cfg app.Config, stderr io.Writer) func() {
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
	if cfg.LogFile == "" {
		return func() {}
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	console := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rotator)).With().Timestamp().Logger()
	return func() { _ = rotator.Close() }
}
