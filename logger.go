package pathtracer

import (
	"log/slog"

	"github.com/gogpu/pathtracer/internal/gpu"
)

// SetLogger routes the records of sessions and their GPU resources to l.
// Nothing is logged until SetLogger is called; nil restores that default.
// It may be called concurrently with rendering.
//
// Records by level:
//   - [slog.LevelInfo]: "pathtracer: session created", "path tracer
//     dispatcher ready" and "GPU device opened", once per resource
//   - [slog.LevelDebug]: "frame dispatched" for every frame with its frame
//     count, parity, submission index and uniform offset, plus
//     "accumulation invalidated" and "uniform ring full, waiting for GPU"
//   - [slog.LevelWarn]: a failed wait for the GPU while tearing down
//
// Per-frame records make LevelDebug noisy at interactive frame rates:
//
//	pathtracer.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelInfo,
//	})))
func SetLogger(l *slog.Logger) {
	gpu.SetLogger(l)
}

// Logger returns the logger set by SetLogger, or a silent one.
func Logger() *slog.Logger {
	return gpu.Logger()
}
