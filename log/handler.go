// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"io"
	"log/slog"

	ethlog "github.com/ethereum/go-ethereum/log"
)

// levelHandler drops records below a level which may change after the
// handler is built.
type levelHandler struct {
	inner slog.Handler
	lvl   *slog.LevelVar
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.lvl.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{inner: h.inner.WithAttrs(attrs), lvl: h.lvl}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{inner: h.inner.WithGroup(name), lvl: h.lvl}
}

// NewHandler creates the handler used by the command line.
// Records below lvl are dropped; lvl may be changed at runtime.
func NewHandler(w io.Writer, lvl *slog.LevelVar, json, color bool) slog.Handler {
	var inner slog.Handler
	if json {
		inner = ethlog.JSONHandlerWithLevel(w, LevelTrace)
	} else {
		inner = ethlog.NewTerminalHandlerWithLevel(w, LevelTrace, color)
	}
	return &levelHandler{inner: inner, lvl: lvl}
}
