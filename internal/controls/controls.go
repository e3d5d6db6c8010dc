// Package controls maps window input to camera operations.
//
// Pointer and scroll events arrive on the window event thread and are only
// accumulated. Apply drains them into a Target from the thread that renders,
// so camera mutation and frame dispatch never interleave.
package controls

import (
	"sync"

	"github.com/gogpu/gogpu/input"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/pathtracer"
)

// Default input scales.
const (
	DefaultSensitivity = 0.002
	DefaultLineScale   = 0.1
	DefaultPixelScale  = 0.001
)

// Target receives camera operations. *pathtracer.Session implements it;
// each of its camera methods also invalidates accumulation.
type Target interface {
	Rotate(dx, dy float32)
	Zoom(displacement float32)
	Translate(dirs pathtracer.Direction)
	Invalidate()
}

// Keys reports whether a key is held. *input.KeyboardState implements it.
type Keys interface {
	Pressed(key input.Key) bool
}

var movementKeys = [...]struct {
	key input.Key
	dir pathtracer.Direction
}{
	{input.KeyW, pathtracer.Forward},
	{input.KeyS, pathtracer.Back},
	{input.KeyA, pathtracer.Left},
	{input.KeyD, pathtracer.Right},
}

// Controller accumulates pointer motion and scroll and turns them, together
// with the held movement keys, into Target calls.
type Controller struct {
	// Sensitivity converts pointer pixels to radians.
	Sensitivity float32
	// LineScale and PixelScale convert scroll deltas to zoom displacement.
	LineScale  float32
	PixelScale float32

	keys Keys

	mu       sync.Mutex
	relative bool
	havePos  bool
	lastX    float64
	lastY    float64
	dx, dy   float64
	scroll   float32
	resetWas bool
}

// New returns a Controller with default scales reading keys from k.
func New(k Keys) *Controller {
	return &Controller{
		Sensitivity: DefaultSensitivity,
		LineScale:   DefaultLineScale,
		PixelScale:  DefaultPixelScale,
		keys:        k,
	}
}

// SetCursorLocked switches between relative and absolute pointer motion.
// With a locked cursor the window reports motion in DeltaX and DeltaY and
// warps the cursor back to the centre, so positions carry no motion.
func (c *Controller) SetCursorLocked(locked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.relative = locked
	c.havePos = false
}

// HandlePointer records pointer motion. A non-zero DeltaX or DeltaY
// switches the controller to relative motion for good. Safe to call from
// any goroutine.
func (c *Controller) HandlePointer(ev gpucontext.PointerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev.DeltaX != 0 || ev.DeltaY != 0 {
		c.relative = true
	}
	if c.relative {
		c.dx += ev.DeltaX
		c.dy += ev.DeltaY
		return
	}
	if c.havePos {
		c.dx += ev.X - c.lastX
		c.dy += ev.Y - c.lastY
	}
	c.lastX, c.lastY = ev.X, ev.Y
	c.havePos = true
}

// HandleScroll records a scroll event. Positive DeltaY scrolls down, which
// zooms out. Safe to call from any goroutine.
func (c *Controller) HandleScroll(ev gpucontext.ScrollEvent) {
	scale := c.LineScale
	if ev.DeltaMode == gpucontext.ScrollDeltaPixel {
		scale = c.PixelScale
	}
	c.mu.Lock()
	c.scroll -= float32(ev.DeltaY) * scale
	c.mu.Unlock()
}

// Apply drains accumulated input into t and returns whether any camera
// operation or invalidation was issued.
//
// Rotation and zoom are issued only for non-zero input so an idle pointer
// does not restart accumulation every frame. R invalidates once per press.
func (c *Controller) Apply(t Target) bool {
	c.mu.Lock()
	dx, dy, scroll := c.dx, c.dy, c.scroll
	c.dx, c.dy, c.scroll = 0, 0, 0
	c.mu.Unlock()

	changed := false
	if dx != 0 || dy != 0 {
		t.Rotate(-float32(dx)*c.Sensitivity, float32(dy)*c.Sensitivity)
		changed = true
	}
	if scroll != 0 {
		t.Zoom(scroll)
		changed = true
	}
	if c.keys == nil {
		return changed
	}

	if dirs := c.heldDirections(); dirs != pathtracer.NoDirection {
		t.Translate(dirs)
		changed = true
	}

	reset := c.keys.Pressed(input.KeyR)
	if reset && !c.resetWas {
		t.Invalidate()
		changed = true
	}
	c.resetWas = reset
	return changed
}

func (c *Controller) heldDirections() pathtracer.Direction {
	dirs := pathtracer.NoDirection
	for _, m := range movementKeys {
		if c.keys.Pressed(m.key) {
			dirs |= m.dir
		}
	}
	return dirs
}
