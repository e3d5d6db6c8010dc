package gpu

import (
	"errors"
	"strings"
	"testing"
)

// skipIfUnsupported skips when the shader compiler does not implement a
// feature used by the kernel yet.
func skipIfUnsupported(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") ||
		strings.Contains(msg, "unsupported") {
		t.Skipf("shader compiler limitation: %v", err)
	}
}

func TestDefaultKernelValidates(t *testing.T) {
	if DefaultKernelSource == "" {
		t.Fatal("embedded kernel is empty")
	}
	if err := ValidateKernel(DefaultKernelSource); err != nil {
		skipIfUnsupported(t, err)
		t.Fatalf("ValidateKernel: %v", err)
	}
}

func TestDefaultKernelBindingContract(t *testing.T) {
	for _, want := range []string{
		"@group(0) @binding(0) var<uniform>",
		"@group(0) @binding(1) var radiance_history: texture_2d<f32>",
		"@group(0) @binding(2) var radiance_target: texture_storage_2d<rgba32float, write>",
		"fn " + KernelVertexEntry + "(",
		"fn " + KernelFragmentEntry + "(",
	} {
		if !strings.Contains(DefaultKernelSource, want) {
			t.Errorf("kernel source is missing %q", want)
		}
	}
}

func TestValidateKernelSyntaxError(t *testing.T) {
	err := ValidateKernel("fn main( {")
	if !errors.Is(err, ErrKernelInvalid) {
		t.Fatalf("err = %v, want ErrKernelInvalid", err)
	}
}

func TestValidateKernelMissingEntryPoint(t *testing.T) {
	src := `
@vertex
fn path_tracer_vs(@builtin(vertex_index) vid: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`
	err := ValidateKernel(src)
	if !errors.Is(err, ErrKernelInvalid) {
		t.Fatalf("err = %v, want ErrKernelInvalid", err)
	}
	if !strings.Contains(err.Error(), KernelFragmentEntry) {
		t.Errorf("error %q does not name the missing entry point", err)
	}
}

func TestCompileKernelSPIRV(t *testing.T) {
	words, err := CompileKernelSPIRV(DefaultKernelSource, false)
	if err != nil {
		skipIfUnsupported(t, err)
		t.Fatalf("CompileKernelSPIRV: %v", err)
	}
	if len(words) < 5 {
		t.Fatalf("SPIR-V too short: %d words", len(words))
	}
	if words[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#08x", words[0])
	}
}
