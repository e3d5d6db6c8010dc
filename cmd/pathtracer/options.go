package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer"
)

// sessionOptions converts the shared session flags to Session options.
// Resolution is left to the caller.
func sessionOptions(ctx *cli.Context) ([]pathtracer.Option, error) {
	opts := []pathtracer.Option{
		pathtracer.WithMoveSpeed(float32(ctx.Float64("speed"))),
	}
	if path := ctx.String("kernel"); path != "" {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read kernel: %w", err)
		}
		opts = append(opts, pathtracer.WithKernelSource(string(src)))
	}
	return opts, nil
}

// resolution returns the width and height flags, rejecting values that do
// not fit a texture dimension.
func resolution(ctx *cli.Context) (uint32, uint32, error) {
	w, h := ctx.Int("width"), ctx.Int("height")
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("resolution %dx%d: %w", w, h, pathtracer.ErrInvalidResolution)
	}
	return uint32(w), uint32(h), nil //nolint:gosec // checked positive above
}
