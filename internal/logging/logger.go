// Headliner - News Personalization and Reader Progression
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/headliner

package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ServiceName is stamped on every line written by a logger from New.
const ServiceName = "headliner"

// Output formats.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Config describes how the process logs. Empty fields fall back to
// DefaultConfig, except Caller and Timestamp which are taken as given.
type Config struct {
	// Level is trace, debug, info, warn, error, fatal, panic or disabled.
	Level string

	// Format is FormatJSON or FormatConsole.
	Format string

	Caller    bool
	Timestamp bool

	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig logs info and above as JSON to stderr.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    FormatJSON,
		Timestamp: true,
		Output:    os.Stderr,
	}
}

// New builds a logger from cfg. The level is applied to the logger itself,
// so loggers built with different configs do not interfere.
func New(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if strings.EqualFold(cfg.Format, FormatConsole) {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	lc := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Str("service", ServiceName)
	if cfg.Timestamp {
		lc = lc.Timestamp()
	}
	if cfg.Caller {
		lc = lc.Caller()
	}
	return lc.Logger()
}

var levelAliases = map[string]string{
	"warning": "warn",
	"off":     "disabled",
}

// ParseLevel maps a level name to a zerolog.Level. Empty and unknown names
// map to info.
func ParseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if alias, ok := levelAliases[name]; ok {
		name = alias
	}
	if name == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

var (
	mu     sync.RWMutex
	global = New(DefaultConfig())
)

// Init replaces the process logger. The CLI calls it once per command after
// loading config; later calls reconfigure.
func Init(cfg Config) {
	l := New(cfg)
	mu.Lock()
	global = l
	mu.Unlock()
}

// Logger returns the process logger, which commands hand to app.New.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Info logs through the process logger. Only the CLI uses it; components
// log through their injected logger.
func Info() *zerolog.Event {
	l := Logger()
	return l.Info()
}

// Warn is Info at warn level.
func Warn() *zerolog.Event {
	l := Logger()
	return l.Warn()
}

// Component derives a component logger from an injected base logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func Component(base zerolog.Logger, component string) zerolog.Logger {
	return base.With().Str("component", component).Logger()
}

// NewTestLogger writes every level as JSON lines to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(zerolog.TraceLevel).With().Timestamp().Logger()
}
