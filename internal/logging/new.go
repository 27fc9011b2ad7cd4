package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Supported backends and formats.
const (
	BackendSlog = "slog"
	BackendZap  = "zap"

	FormatText = "text"
	FormatJSON = "json"
)

// Options selects and configures a Logger implementation.
type Options struct {
	Backend string // "slog" (default) or "zap"
	Level   string // debug, info, warn, error
	Format  string // "text" (default) or "json"
	Output  io.Writer
}

// New builds a Logger from opts. The returned flush function must be called
// before exit; it is a no-op for slog.
func New(opts Options) (Logger, func() error, error) {
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	level := strings.ToLower(strings.TrimSpace(opts.Level))
	if level == "" {
		level = "info"
	}

	switch strings.ToLower(opts.Backend) {
	case "", BackendSlog:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		ho := &slog.HandlerOptions{Level: lvl}
		var h slog.Handler
		if opts.Format == FormatJSON {
			h = slog.NewJSONHandler(opts.Output, ho)
		} else {
			h = slog.NewTextHandler(opts.Output, ho)
		}
		return NewSlogLogger(slog.New(h)), func() error { return nil }, nil

	case BackendZap:
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, nil, fmt.Errorf("parse log level %q: %w", opts.Level, err)
		}
		ec := zap.NewProductionEncoderConfig()
		ec.EncodeTime = zapcore.ISO8601TimeEncoder
		var enc zapcore.Encoder
		if opts.Format == FormatJSON {
			enc = zapcore.NewJSONEncoder(ec)
		} else {
			enc = zapcore.NewConsoleEncoder(ec)
		}
		core := zapcore.NewCore(enc, zapcore.AddSync(opts.Output), lvl)
		zl := NewZapLogger(zap.New(core))
		return zl, zl.Sync, nil

	default:
		return nil, nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}
