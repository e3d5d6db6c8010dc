package gpu

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// Kernel entry points every kernel source must define.
const (
	KernelVertexEntry   = "path_tracer_vs"
	KernelFragmentEntry = "path_tracer_fs"
)

// KernelVertexCount is the number of vertices drawn per frame: two
// triangles covering the full image.
const KernelVertexCount = 6

// DefaultKernelSource is the built-in path tracing kernel.
//
//go:embed shaders/path_tracer.wgsl
var DefaultKernelSource string

// ValidateKernel parses, lowers and validates WGSL source with naga and
// checks that both entry points are present. Failures wrap ErrKernelInvalid.
func ValidateKernel(source string) error {
	ast, err := naga.Parse(source)
	if err != nil {
		return fmt.Errorf("%w: parse: %w", ErrKernelInvalid, err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return fmt.Errorf("%w: lower: %w", ErrKernelInvalid, err)
	}
	verrs, err := naga.Validate(module)
	if err != nil {
		return fmt.Errorf("%w: validate: %w", ErrKernelInvalid, err)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, ve := range verrs {
			msgs = append(msgs, ve.Error())
		}
		return fmt.Errorf("%w: %s", ErrKernelInvalid, strings.Join(msgs, "; "))
	}

	var missing []string
	for _, entry := range []string{KernelVertexEntry, KernelFragmentEntry} {
		if !hasEntryPoint(module.EntryPoints, entry) {
			missing = append(missing, entry)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing entry point %s", ErrKernelInvalid, strings.Join(missing, ", "))
	}
	return nil
}

func hasEntryPoint(entries []ir.EntryPoint, name string) bool {
	for i := range entries {
		if entries[i].Name == name {
			return true
		}
	}
	return false
}

// CompileKernelSPIRV compiles WGSL source to SPIR-V words.
// SPIR-V is a little-endian stream of 32-bit words.
func CompileKernelSPIRV(source string, debug bool) ([]uint32, error) {
	opts := naga.DefaultOptions()
	opts.Debug = debug
	spirvBytes, err := naga.CompileWithOptions(source, opts)
	if err != nil {
		return nil, fmt.Errorf("compile kernel: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, errors.New("compile kernel: SPIR-V length is not a multiple of 4")
	}

	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
