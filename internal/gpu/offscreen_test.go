package gpu

import (
	"errors"
	"testing"
)

func TestOffscreenTargetInvalidResolution(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	if _, err := NewOffscreenTarget(device, queue, 0, 10); !errors.Is(err, ErrInvalidResolution) {
		t.Fatalf("err = %v, want ErrInvalidResolution", err)
	}
}

func TestOffscreenTargetRowAlignment(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		w, want uint32
	}{
		{1, 256},
		{64, 256},
		{65, 512},
		{800, 3328},
	}
	for _, tt := range tests {
		target, err := NewOffscreenTarget(device, queue, tt.w, 2)
		if err != nil {
			t.Fatalf("width %d: %v", tt.w, err)
		}
		if target.alignedRow != tt.want {
			t.Errorf("width %d: aligned row = %d, want %d", tt.w, target.alignedRow, tt.want)
		}
		if target.stagingSize != uint64(tt.want)*2 {
			t.Errorf("width %d: staging size = %d", tt.w, target.stagingSize)
		}
		target.Destroy()
	}
}

func TestOffscreenRenderAndReadback(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	target, err := NewOffscreenTarget(device, queue, 40, 30)
	if err != nil {
		t.Fatalf("NewOffscreenTarget: %v", err)
	}
	defer target.Destroy()

	d, err := NewDispatcher(device, queue, Config{Width: 40, Height: 30, SurfaceFormat: target.Format()})
	if err != nil {
		t.Fatalf("NewDispatcher: %v", err)
	}
	defer d.Destroy()

	for i := 0; i < 3; i++ {
		if _, err := d.RenderFrame(target.View(), testCamera); err != nil {
			t.Fatalf("frame %d: %v", i+1, err)
		}
	}

	img, err := target.Readback()
	if err != nil {
		t.Fatalf("Readback: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("image bounds = %v, want 40x30", b)
	}
	if len(img.Pix) != 40*30*4 {
		t.Errorf("len(Pix) = %d", len(img.Pix))
	}

	target.Destroy()
	target.Destroy()
}
