// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package log is a thin layer over go-ethereum's slog based logger. Package
// level loggers created by WithContext resolve the root logger on every call,
// so handlers installed later by the command line take effect everywhere.
package log

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	ethlog "github.com/ethereum/go-ethereum/log"
)

const (
	LevelTrace = ethlog.LevelTrace
	LevelDebug = ethlog.LevelDebug
	LevelInfo  = ethlog.LevelInfo
	LevelWarn  = ethlog.LevelWarn
	LevelError = ethlog.LevelError
	LevelCrit  = ethlog.LevelCrit
)

// Logger writes key/value pairs to the root handler.
type Logger interface {
	Trace(msg string, ctx ...any)
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)

	// New returns a child logger carrying ctx in addition to the parent's context.
	New(ctx ...any) Logger
	Enabled(ctx context.Context, level slog.Level) bool
}

type lazyLogger struct {
	ctx []any
}

// WithContext returns a logger which prefixes every record with ctx.
func WithContext(ctx ...any) Logger {
	return &lazyLogger{ctx: ctx}
}

// Root returns the root logger.
func Root() Logger {
	return &lazyLogger{}
}

func (l *lazyLogger) args(ctx []any) []any {
	if len(l.ctx) == 0 {
		return ctx
	}
	return slices.Concat(l.ctx, ctx)
}

func (l *lazyLogger) Trace(msg string, ctx ...any) { ethlog.Root().Trace(msg, l.args(ctx)...) }
func (l *lazyLogger) Debug(msg string, ctx ...any) { ethlog.Root().Debug(msg, l.args(ctx)...) }
func (l *lazyLogger) Info(msg string, ctx ...any)  { ethlog.Root().Info(msg, l.args(ctx)...) }
func (l *lazyLogger) Warn(msg string, ctx ...any)  { ethlog.Root().Warn(msg, l.args(ctx)...) }
func (l *lazyLogger) Error(msg string, ctx ...any) { ethlog.Root().Error(msg, l.args(ctx)...) }
func (l *lazyLogger) Crit(msg string, ctx ...any)  { ethlog.Root().Crit(msg, l.args(ctx)...) }

func (l *lazyLogger) New(ctx ...any) Logger {
	return &lazyLogger{ctx: l.args(ctx)}
}

func (l *lazyLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ethlog.Root().Enabled(ctx, level)
}

// SetDefault installs h as the root handler.
func SetDefault(h slog.Handler) {
	ethlog.SetDefault(ethlog.NewLogger(h))
}

// Discard silences all logging, used by tests.
func Discard() {
	ethlog.SetDefault(ethlog.NewLogger(ethlog.DiscardHandler()))
}

// FromVerbosity converts a 0 (crit) to 5 (trace) verbosity into a level.
func FromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return LevelCrit
	case v == 1:
		return LevelError
	case v == 2:
		return LevelWarn
	case v == 3:
		return LevelInfo
	case v == 4:
		return LevelDebug
	default:
		return LevelTrace
	}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "crit":
		return LevelCrit, nil
	}
	return 0, fmt.Errorf("invalid log level %q", s)
}

// LevelName is the inverse of ParseLevel.
func LevelName(l slog.Level) string {
	switch l {
	case LevelTrace:
		return "trace"
	case LevelCrit:
		return "crit"
	}
	return strings.ToLower(l.String())
}
