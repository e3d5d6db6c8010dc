package main

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer"
	"github.com/gogpu/pathtracer/internal/gpu"
)

// Render accumulated frames into an offscreen target and save the result.
func renderHeadless(ctx *cli.Context) error {
	frames := ctx.Int("frames")
	if frames <= 0 {
		return errors.New("frames must be positive")
	}
	w, h, err := resolution(ctx)
	if err != nil {
		return err
	}
	opts, err := sessionOptions(ctx)
	if err != nil {
		return err
	}

	dev, err := gpu.OpenDevice(ctx.String("backend"))
	if err != nil {
		return err
	}
	defer dev.Close()

	target, err := gpu.NewOffscreenTarget(dev.Device, dev.Queue, w, h)
	if err != nil {
		return err
	}
	defer target.Destroy()

	opts = append([]pathtracer.Option{
		pathtracer.WithResolution(w, h),
		pathtracer.WithSurfaceFormat(target.Format()),
	}, opts...)
	s, err := pathtracer.NewSession(dev.Device, dev.Queue, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	logger.Info("rendering", "frames", frames, "width", w, "height", h, "adapter", dev.Info.Name)
	start := time.Now()
	stats := make([]pathtracer.FrameStats, 0, frames)
	for i := 0; i < frames; i++ {
		st, err := s.RenderFrame(target.View())
		if err != nil {
			return fmt.Errorf("frame %d: %w", i+1, err)
		}
		stats = append(stats, st)
	}

	img, err := target.Readback()
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	out := ctx.String("out")
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	displayFrameStats(os.Stdout, stats, elapsed)
	logger.Info("frame written", "file", out, "samples", s.FrameCount())
	return nil
}

// displayFrameStats prints a row for every power-of-two frame and the last.
func displayFrameStats(w io.Writer, stats []pathtracer.FrameStats, total time.Duration) {
	table := tablewriter.NewWriter(w)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Frame", "History", "Submission", "Uniform offset", "Encode time"})
	for i, st := range stats {
		n := st.FrameCount
		if n&(n-1) != 0 && i != len(stats)-1 {
			continue
		}
		table.Append([]string{
			fmt.Sprintf("%d", n),
			st.Parity.String(),
			fmt.Sprintf("%d", st.Submission),
			fmt.Sprintf("%d", st.UniformOffset),
			st.Encode.String(),
		})
	}
	table.SetFooter([]string{"", "", "", "TOTAL", total.String()})
	table.Render()
}
