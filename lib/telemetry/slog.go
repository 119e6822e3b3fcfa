package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler for CLI and test output.
// `debug` turns on debug-level logs, which also enables the per-request
// http message dumps in the resty instrumentation.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
