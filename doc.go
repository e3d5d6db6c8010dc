// Package pathtracer is the host side of a progressive GPU path tracer.
//
// A Session holds a free-flying Camera and a GPU dispatcher. Every call to
// Session.RenderFrame adds one sample per pixel into a pair of ping-pong
// accumulation images and writes the running average to a display target.
// Any camera change restarts accumulation at the next frame.
//
// # Quick Start
//
//	s, err := pathtracer.NewSession(device, queue,
//		pathtracer.WithResolution(800, 600),
//		pathtracer.WithSurfaceFormat(format),
//	)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	// per frame
//	s.Rotate(-dx*0.002, dy*0.002)
//	if _, err := s.RenderFrame(view); err != nil {
//		return err
//	}
//
// # Camera
//
// The camera basis (U, V, W) is orthonormal with W along the view direction,
// U to the right and V up. Rotation is driven by yaw and pitch angles, pitch
// measured from the world up axis and clamped away from the poles.
//
// # Logging
//
// The package is silent by default. Use SetLogger to route its log/slog
// output, including that of the GPU layer.
package pathtracer
