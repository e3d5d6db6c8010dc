package main

import (
	"errors"
	"fmt"

	"github.com/gogpu/gogpu"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer"
	"github.com/gogpu/pathtracer/internal/controls"
)

// viewer ties a gogpu window to a Session. Every field except controls is
// touched only from the render thread.
type viewer struct {
	app      *gogpu.App
	opts     []pathtracer.Option
	controls *controls.Controller
	session  *pathtracer.Session
	frames   uint64
	err      error
}

func runViewer(ctx *cli.Context) error {
	opts, err := sessionOptions(ctx)
	if err != nil {
		return err
	}
	w, h, err := resolution(ctx)
	if err != nil {
		return err
	}

	app := gogpu.NewApp(gogpu.DefaultConfig().
		WithTitle(ctx.String("title")).
		WithSize(int(w), int(h)).
		WithContinuousRender(true))

	v := &viewer{
		app:      app,
		opts:     opts,
		controls: controls.New(app.Input().Keyboard()),
	}

	events := app.EventSource()
	events.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		if key == gpucontext.KeyEscape {
			app.Quit()
		}
	})
	if ps, ok := events.(gpucontext.PointerEventSource); ok {
		ps.OnPointer(v.controls.HandlePointer)
	}
	if ss, ok := events.(gpucontext.ScrollEventSource); ok {
		ss.OnScrollEvent(v.controls.HandleScroll)
	}

	app.OnDraw(v.draw)
	app.OnClose(v.close)
	app.SetCursorMode(gpucontext.CursorModeLocked)
	v.controls.SetCursorLocked(true)

	if err := app.Run(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return v.err
}

func (v *viewer) draw(dc *gogpu.Context) {
	if v.err != nil {
		return
	}
	sw, sh := dc.SurfaceSize()
	if sw == 0 || sh == 0 {
		return
	}
	if err := v.ensureSession(dc.Format(), sw, sh); err != nil {
		v.fail(err)
		return
	}

	v.controls.Apply(v.session)

	view := dc.SurfaceView()
	if view == nil {
		return
	}
	stats, err := v.session.RenderFrame(view.HalTextureView())
	if err != nil {
		v.fail(err)
		return
	}
	v.frames++
	if stats.FrameCount&(stats.FrameCount-1) == 0 {
		logger.Info("accumulating", "samples", stats.FrameCount, "frames", v.frames)
	}
}

// ensureSession creates the session on first draw and rebuilds it when the
// surface size changes. The camera survives a rebuild.
func (v *viewer) ensureSession(format gputypes.TextureFormat, w, h uint32) error {
	if v.session != nil {
		if sw, sh := v.session.Size(); sw == w && sh == h {
			return nil
		}
	}

	provider := v.app.GPUContextProvider()
	if provider == nil {
		return errors.New("no GPU context")
	}
	device, ok := provider.Device().(*wgpu.Device)
	if !ok || device.HalDevice() == nil {
		return errors.New("GPU device has no HAL backend")
	}

	opts := append([]pathtracer.Option{
		pathtracer.WithResolution(w, h),
		pathtracer.WithSurfaceFormat(format),
	}, v.opts...)
	s, err := pathtracer.NewSession(device.HalDevice(), device.HalQueue(), opts...)
	if err != nil {
		return err
	}

	if v.session != nil {
		cam := v.session.Camera()
		s.Edit(func(c *pathtracer.Camera) { *c = cam })
		v.session.Close()
		logger.Info("surface resized, session rebuilt", "width", w, "height", h)
	}
	v.session = s
	return nil
}

func (v *viewer) fail(err error) {
	logger.Error("render failed", "err", err)
	v.err = err
	v.app.Quit()
}

func (v *viewer) close() {
	if v.session != nil {
		v.session.Close()
		v.session = nil
	}
	logger.Info("viewer closed", "frames", v.frames)
}
