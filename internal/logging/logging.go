// Package logging configures slog for the folio server and logs each API
// request with its request id. Every record carries app=folio so the
// server's lines can be picked out of a shared log stream.
package logging

import (
	"io"
	"log/slog"
)

// AppName is attached to every record as the "app" attribute.
const AppName = "folio"

// Setup installs the default slog logger writing to w and returns it.
// Dev mode logs text at debug level, including composed contact emails;
// otherwise JSON at info.
func Setup(w io.Writer, devMode bool) *slog.Logger {
	level := slog.LevelInfo
	if devMode {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if devMode {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler).With("app", AppName)
	slog.SetDefault(logger)
	return logger
}
