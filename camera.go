package pathtracer

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Pitch limits. Pitch is kept strictly inside (0, π) so that the view
// direction never lines up with WorldUp and cross(w, up) stays non-zero.
const (
	PitchEpsilon = 0.0001
	MinPitch     = PitchEpsilon
	MaxPitch     = math.Pi - PitchEpsilon
)

// DefaultMoveSpeed is the distance covered by one Translate step.
const DefaultMoveSpeed = 0.1

// degenerateEpsilon is the cross product magnitude below which a basis is
// considered degenerate.
const degenerateEpsilon = 1e-6

// CameraUniforms is the camera state consumed by the rendering kernel.
//
// U, V and W form a right-handed orthonormal basis: W is the view direction,
// U points right and V points up, with V = U × W.
type CameraUniforms struct {
	Origin Vec3
	U      Vec3
	V      Vec3
	W      Vec3
}

// Direction is a set of movement directions for Camera.Translate.
type Direction uint8

// Movement directions. They may be combined with bitwise OR.
const (
	Forward Direction = 1 << iota
	Back
	Left
	Right

	// NoDirection is the empty direction set.
	NoDirection Direction = 0
)

// Has reports whether d contains every direction in other.
func (d Direction) Has(other Direction) bool {
	return d&other == other
}

// String returns a compact representation such as "WA" for Forward|Left.
func (d Direction) String() string {
	if d == NoDirection {
		return "none"
	}
	var s []byte
	for _, k := range []struct {
		dir Direction
		c   byte
	}{{Forward, 'W'}, {Left, 'A'}, {Back, 'S'}, {Right, 'D'}} {
		if d.Has(k.dir) {
			s = append(s, k.c)
		}
	}
	return string(s)
}

// Camera is a pinhole camera whose orientation is driven by yaw and pitch.
//
// Yaw and pitch are the authoritative angular state. The basis stored in
// the uniforms is re-derived from them by every Rotate call. Translate and
// Zoom only ever move the origin.
//
// Yaw is not wrapped and accumulates for the lifetime of the camera.
//
// Camera is a value type. Mutating methods use a pointer receiver; use
// Uniforms to obtain a snapshot for rendering.
type Camera struct {
	uniforms  CameraUniforms
	yaw       float32
	pitch     float32
	moveSpeed float32
}

// LookAt creates a camera at origin looking toward target.
//
// The basis is w = normalize(target - origin), u = normalize(w × up) and
// v = u × w. Yaw and pitch start at zero, so the first Rotate replaces this
// basis with the one derived from the angles. LookAt returns ErrDegenerateBasis
// if target equals origin or up is parallel to the view direction.
func LookAt(origin, target, up Vec3) (Camera, error) {
	forward := target.Sub(origin)
	if forward.NearZero(degenerateEpsilon) {
		return Camera{}, fmt.Errorf("look at %v from %v: %w", target, origin, ErrDegenerateBasis)
	}
	w := forward.Normalize()

	right := w.Cross(up)
	if right.NearZero(degenerateEpsilon) {
		return Camera{}, fmt.Errorf("up %v parallel to view direction %v: %w", up, w, ErrDegenerateBasis)
	}
	u := right.Normalize()
	v := u.Cross(w)

	return Camera{
		uniforms: CameraUniforms{
			Origin: origin,
			U:      u,
			V:      v,
			W:      w,
		},
		moveSpeed: DefaultMoveSpeed,
	}, nil
}

// Uniforms returns a snapshot of the camera state.
func (c Camera) Uniforms() CameraUniforms {
	return c.uniforms
}

// Yaw returns the accumulated yaw angle in radians.
func (c Camera) Yaw() float32 { return c.yaw }

// Pitch returns the pitch angle in radians, always in [MinPitch, MaxPitch].
func (c Camera) Pitch() float32 { return c.pitch }

// MoveSpeed returns the distance of one Translate step.
func (c Camera) MoveSpeed() float32 { return c.moveSpeed }

// WithMoveSpeed returns a copy of the camera using speed for Translate.
func (c Camera) WithMoveSpeed(speed float32) Camera {
	c.moveSpeed = speed
	return c
}

// Rotate adds dx to yaw and dy to pitch, clamps pitch and recomputes the
// basis from the resulting angles.
func (c *Camera) Rotate(dx, dy float32) {
	c.yaw += dx
	c.pitch = mgl32.Clamp(c.pitch+dy, MinPitch, MaxPitch)
	c.uniforms.U, c.uniforms.V, c.uniforms.W = basisFromAngles(c.yaw, c.pitch)
}

// Zoom moves the origin along the view direction by displacement.
// Negative values move backwards.
func (c *Camera) Zoom(displacement float32) {
	c.uniforms.Origin = c.uniforms.Origin.Add(c.uniforms.W.Mul(displacement))
}

// Translate moves the origin one step for every direction in dirs.
// Forward and Back move along W, Left and Right along U.
func (c *Camera) Translate(dirs Direction) {
	if dirs == NoDirection {
		return
	}
	var delta Vec3
	if dirs.Has(Forward) {
		delta = delta.Add(c.uniforms.W.Mul(c.moveSpeed))
	}
	if dirs.Has(Back) {
		delta = delta.Sub(c.uniforms.W.Mul(c.moveSpeed))
	}
	if dirs.Has(Left) {
		delta = delta.Sub(c.uniforms.U.Mul(c.moveSpeed))
	}
	if dirs.Has(Right) {
		delta = delta.Add(c.uniforms.U.Mul(c.moveSpeed))
	}
	c.uniforms.Origin = c.uniforms.Origin.Add(delta)
}

// basisFromAngles maps yaw and pitch to an orthonormal basis.
//
//	w = (sin yaw · sin pitch, cos pitch, cos yaw · sin pitch)
//	u = normalize(w × WorldUp)
//	v = u × w
func basisFromAngles(yaw, pitch float32) (u, v, w Vec3) {
	sinYaw, cosYaw := math.Sincos(float64(yaw))
	sinPitch, cosPitch := math.Sincos(float64(pitch))
	w = V3(
		float32(sinYaw*sinPitch),
		float32(cosPitch),
		float32(cosYaw*sinPitch),
	).Normalize()
	u = w.Cross(WorldUp).Normalize()
	v = u.Cross(w)
	return u, v, w
}
