// Package log configures the slog logger used by the solid2d example
// programs. Records go to stderr as text or JSON. Setting a file path adds a
// JSON sink rotated by lumberjack.
//
// The library packages never import this package; they take a *slog.Logger
// through BatchOptions or NewGame and tag records with a "component" attr
// (batch2d, scene, game, image_device).
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync/atomic"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

const (
	EnvLevel  = "SOLID2D_LOG_LEVEL"
	EnvFormat = "SOLID2D_LOG_FORMAT"
	EnvFile   = "SOLID2D_LOG_FILE"
	EnvSource = "SOLID2D_LOG_SOURCE"
)

// ComponentKey is the attr key naming the subsystem that wrote a record.
const ComponentKey = "component"

// Rotation limits for the file sink.
const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 3
	fileMaxAgeDays = 28
)

// Options selects level, output format and the optional file sink.
// The zero value logs INFO text to the console only.
type Options struct {
	Level     string // debug, info, warn or error
	Format    string // console or json
	AddSource bool
	File      string
}

type sink struct {
	logger *slog.Logger
	closer io.Closer
}

var current atomic.Pointer[sink]

// L returns the process logger. Before Init it is built from the
// environment.
func L() *slog.Logger {
	if s := current.Load(); s != nil {
		return s.logger
	}
	Init(FromEnv())
	return current.Load().logger
}

// Init replaces the process logger and slog.Default. The file sink of the
// logger being replaced is closed.
func Init(opts Options) {
	l, c := New(opts, os.Stderr)
	if old := current.Swap(&sink{logger: l, closer: c}); old != nil {
		_ = old.closer.Close()
	}
	slog.SetDefault(l)
}

// Close releases the file sink opened by Init. The logger keeps writing to
// the console.
func Close() error {
	s := current.Load()
	if s == nil {
		return nil
	}
	c := s.closer
	current.CompareAndSwap(s, &sink{logger: s.logger, closer: nopCloser{}})
	return c.Close()
}

// New builds a logger that writes console records to w. Closing the
// returned io.Closer flushes the file sink; without one it does nothing.
func New(opts Options, w io.Writer) (*slog.Logger, io.Closer) {
	ho := &slog.HandlerOptions{Level: parseLevel(opts.Level), AddSource: opts.AddSource}

	var h slog.Handler = slog.NewTextHandler(w, ho)
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		h = slog.NewJSONHandler(w, ho)
	}

	var c io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.File); path != "" {
		rot := &lj.Logger{
			Filename:   path,
			MaxSize:    fileMaxSizeMB,
			MaxBackups: fileMaxBackups,
			MaxAge:     fileMaxAgeDays,
			Compress:   true,
		}
		h = fanout{h, slog.NewJSONHandler(rot, ho)}
		c = rot
	}
	return slog.New(h).With(slog.String("app", "solid2d")), c
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// FromEnv reads Options from the SOLID2D_LOG_* variables. Unset values keep
// their defaults.
func FromEnv() Options {
	o := Options{Level: "info", Format: "console", File: os.Getenv(EnvFile)}
	if v := os.Getenv(EnvLevel); v != "" {
		o.Level = v
	}
	if v := os.Getenv(EnvFormat); v != "" {
		o.Format = v
	}
	if v, err := strconv.ParseBool(os.Getenv(EnvSource)); err == nil {
		o.AddSource = v
	}
	return o
}

// WithComponent returns L tagged with the given component name.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String(ComponentKey, name))
}

// parseLevel accepts the slog level names plus "warning". Anything else is
// INFO.
func parseLevel(s string) slog.Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// fanout sends each record to the console handler and the file handler.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, lvl slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, lvl) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var first error
	for _, h := range f {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f fanout) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f fanout) each(fn func(slog.Handler) slog.Handler) fanout {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = fn(h)
	}
	return out
}
