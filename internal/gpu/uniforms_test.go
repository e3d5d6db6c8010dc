package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"golang.org/x/image/math/f32"
)

// decodeFrameUniforms is the inverse of FrameUniforms.encode.
func decodeFrameUniforms(b []byte) FrameUniforms {
	var u FrameUniforms
	vecs := [4]*f32.Vec4{&u.Camera.Origin, &u.Camera.U, &u.Camera.V, &u.Camera.W}
	for i, v := range vecs {
		for lane := range v {
			v[lane] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*16+lane*4:]))
		}
	}
	u.Width = binary.LittleEndian.Uint32(b[offsetWidth:])
	u.Height = binary.LittleEndian.Uint32(b[offsetHeight:])
	u.FrameCount = binary.LittleEndian.Uint32(b[offsetFrameCount:])
	u.reserved = binary.LittleEndian.Uint32(b[offsetReserved:])
	return u
}

func TestFrameUniformsLayout(t *testing.T) {
	if FrameUniformsSize != 80 {
		t.Fatalf("FrameUniformsSize = %d, want 80", FrameUniformsSize)
	}
	if FrameUniformsSize%16 != 0 {
		t.Errorf("uniform block size %d is not a multiple of 16", FrameUniformsSize)
	}
	if uniformSlotStride%256 != 0 || uniformSlotStride < FrameUniformsSize {
		t.Errorf("slot stride %d cannot hold an aligned uniform block", uniformSlotStride)
	}
}

func TestFrameUniformsEncoding(t *testing.T) {
	u := FrameUniforms{
		Camera: CameraBlock{
			Origin: f32.Vec4{0, 0.75, 1, 0},
			U:      f32.Vec4{1, 0, 0, 0},
			V:      f32.Vec4{0, 1, 0, 0},
			W:      f32.Vec4{0, 0, -1, 0},
		},
		Width:      800,
		Height:     600,
		FrameCount: 3,
	}
	b := u.Bytes()
	if len(b) != FrameUniformsSize {
		t.Fatalf("len(Bytes()) = %d, want %d", len(b), FrameUniformsSize)
	}

	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[4:])); got != 0.75 {
		t.Errorf("origin.y = %v, want 0.75", got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(b[3*16+8:])); got != -1 {
		t.Errorf("w.z = %v, want -1", got)
	}
	if got := binary.LittleEndian.Uint32(b[64:]); got != 800 {
		t.Errorf("width at 64 = %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[68:]); got != 600 {
		t.Errorf("height at 68 = %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[72:]); got != 3 {
		t.Errorf("frame_count at 72 = %d", got)
	}
	if got := binary.LittleEndian.Uint32(b[76:]); got != 0 {
		t.Errorf("reserved at 76 = %d, want 0", got)
	}

	if got := decodeFrameUniforms(b); got != u {
		t.Errorf("decode(encode(u)) = %+v, want %+v", got, u)
	}
}

func TestFrameUniformsReservedLanesZero(t *testing.T) {
	u := FrameUniforms{Camera: CameraBlock{Origin: f32.Vec4{1, 2, 3, 0}}}
	b := u.Bytes()
	for i := 0; i < 4; i++ {
		if w := binary.LittleEndian.Uint32(b[i*16+12:]); w != 0 {
			t.Errorf("vector %d: fourth lane = %#x, want 0", i, w)
		}
	}
}
