package app

// Build information populated via -ldflags at build time, e.g.
// -X github.com/hyperifyio/seatwatch/internal/app.BuildVersion=1.2.0
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
)
