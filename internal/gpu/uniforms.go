package gpu

import (
	"encoding/binary"
	"math"

	"golang.org/x/image/math/f32"
)

// CameraBlock is the camera portion of the frame uniform block.
// Each vector occupies a vec4<f32> slot with the fourth lane reserved.
type CameraBlock struct {
	Origin f32.Vec4
	U      f32.Vec4
	V      f32.Vec4
	W      f32.Vec4
}

// FrameUniforms mirrors the kernel's Uniforms struct.
type FrameUniforms struct {
	Camera     CameraBlock
	Width      uint32
	Height     uint32
	FrameCount uint32
	reserved   uint32
}

// Layout of FrameUniforms in GPU memory.
const (
	cameraBlockSize = 4 * 16
	// FrameUniformsSize is the byte size of the encoded uniform block.
	FrameUniformsSize = cameraBlockSize + 4*4

	offsetWidth      = cameraBlockSize
	offsetHeight     = cameraBlockSize + 4
	offsetFrameCount = cameraBlockSize + 8
	offsetReserved   = cameraBlockSize + 12
)

// Bytes returns the little-endian encoding of u.
func (u *FrameUniforms) Bytes() []byte {
	buf := make([]byte, FrameUniformsSize)
	u.encode(buf)
	return buf
}

// encode writes u into dst, which must hold FrameUniformsSize bytes.
func (u *FrameUniforms) encode(dst []byte) {
	_ = dst[FrameUniformsSize-1]
	for i, v := range [4]f32.Vec4{u.Camera.Origin, u.Camera.U, u.Camera.V, u.Camera.W} {
		for lane := range v {
			binary.LittleEndian.PutUint32(dst[i*16+lane*4:], math.Float32bits(v[lane]))
		}
	}
	binary.LittleEndian.PutUint32(dst[offsetWidth:], u.Width)
	binary.LittleEndian.PutUint32(dst[offsetHeight:], u.Height)
	binary.LittleEndian.PutUint32(dst[offsetFrameCount:], u.FrameCount)
	binary.LittleEndian.PutUint32(dst[offsetReserved:], u.reserved)
}
