package pathtracer

import (
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/math/f32"
)

// Vec3 is a single-precision 3D vector.
//
// On the GPU it occupies a full vec4<f32> slot; the fourth lane is reserved
// and always written as zero (see Lanes). Vec3 is a value type and every
// operation returns a new vector.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is a convenience function to create a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// WorldUp is the fixed up axis used to derive the camera basis from angles.
var WorldUp = V3(0, 1, 0)

func fromMgl(m mgl32.Vec3) Vec3 { return Vec3{X: m[0], Y: m[1], Z: m[2]} }

func (v Vec3) mgl() mgl32.Vec3 { return mgl32.Vec3{v.X, v.Y, v.Z} }

// Add returns the sum of two vectors.
func (v Vec3) Add(w Vec3) Vec3 {
	return fromMgl(v.mgl().Add(w.mgl()))
}

// Sub returns the difference of two vectors.
func (v Vec3) Sub(w Vec3) Vec3 {
	return fromMgl(v.mgl().Sub(w.mgl()))
}

// Mul returns the vector scaled by s.
func (v Vec3) Mul(s float32) Vec3 {
	return fromMgl(v.mgl().Mul(s))
}

// Div returns the vector divided by s.
func (v Vec3) Div(s float32) Vec3 {
	return Vec3{X: v.X / s, Y: v.Y / s, Z: v.Z / s}
}

// Neg returns the negation of the vector.
func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(w Vec3) float32 {
	return v.mgl().Dot(w.mgl())
}

// Cross returns the right-handed cross product v × w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return fromMgl(v.mgl().Cross(w.mgl()))
}

// Length returns the Euclidean length of the vector.
func (v Vec3) Length() float32 {
	return v.mgl().Len()
}

// LengthSq returns the squared length of the vector.
func (v Vec3) LengthSq() float32 {
	return v.mgl().LenSqr()
}

// Normalize returns a unit vector in the same direction.
// Returns the zero vector if v has zero length.
func (v Vec3) Normalize() Vec3 {
	if v.LengthSq() == 0 {
		return Vec3{}
	}
	return fromMgl(v.mgl().Normalize())
}

// NearZero reports whether every component magnitude is at most eps.
func (v Vec3) NearZero(eps float32) bool {
	return mgl32.Abs(v.X) <= eps && mgl32.Abs(v.Y) <= eps && mgl32.Abs(v.Z) <= eps
}

// ApproxEqual reports whether v and w differ by at most eps per component.
func (v Vec3) ApproxEqual(w Vec3, eps float32) bool {
	return v.Sub(w).NearZero(eps)
}

// Lanes returns the vector as the 4-wide record written to GPU memory.
// The reserved fourth lane is zero.
func (v Vec3) Lanes() f32.Vec4 {
	return f32.Vec4{v.X, v.Y, v.Z, 0}
}
