package gpu

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discardHandler drops every record. Enabled reports false for all levels,
// so disabled log calls never build their attributes.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

// current is shared by this package and pathtracer, which reads and
// replaces it through Logger and SetLogger.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(discardHandler{}))
}

func slogger() *slog.Logger { return current.Load() }

// Logger returns the logger used for device, dispatcher and frame records.
func Logger() *slog.Logger { return current.Load() }

// SetLogger replaces the logger. nil restores the silent default.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(discardHandler{})
	}
	current.Store(l)
}
