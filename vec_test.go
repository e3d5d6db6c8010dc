package pathtracer

import (
	"math"
	"testing"
)

func TestVec3Arithmetic(t *testing.T) {
	a := V3(1, 2, 3)
	b := V3(4, -5, 6)

	tests := []struct {
		name string
		got  Vec3
		want Vec3
	}{
		{"Add", a.Add(b), V3(5, -3, 9)},
		{"Sub", a.Sub(b), V3(-3, 7, -3)},
		{"Mul", a.Mul(2), V3(2, 4, 6)},
		{"Div", a.Div(2), V3(0.5, 1, 1.5)},
		{"Neg", a.Neg(), V3(-1, -2, -3)},
		{"Cross", V3(1, 0, 0).Cross(V3(0, 1, 0)), V3(0, 0, 1)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}

	if got := a.Dot(b); got != 12 {
		t.Errorf("Dot = %v, want 12", got)
	}
	if got := V3(3, 4, 0).Length(); got != 5 {
		t.Errorf("Length = %v, want 5", got)
	}
	if got := V3(3, 4, 0).LengthSq(); got != 25 {
		t.Errorf("LengthSq = %v, want 25", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	n := V3(0, 3, 4).Normalize()
	if math.Abs(float64(n.Length())-1) > 1e-6 {
		t.Errorf("|Normalize| = %v, want 1", n.Length())
	}
	if !n.ApproxEqual(V3(0, 0.6, 0.8), 1e-6) {
		t.Errorf("Normalize = %v", n)
	}

	if z := (Vec3{}).Normalize(); z != (Vec3{}) {
		t.Errorf("Normalize(0) = %v, want zero vector", z)
	}
}

func TestVec3NearZero(t *testing.T) {
	if !V3(1e-8, -1e-8, 0).NearZero(1e-6) {
		t.Error("tiny vector should be near zero")
	}
	if V3(0, 1e-3, 0).NearZero(1e-6) {
		t.Error("1e-3 should not be near zero at eps 1e-6")
	}
}

func TestVec3Lanes(t *testing.T) {
	l := V3(1, 2, 3).Lanes()
	if l[0] != 1 || l[1] != 2 || l[2] != 3 || l[3] != 0 {
		t.Errorf("Lanes = %v, want [1 2 3 0]", l)
	}
}
