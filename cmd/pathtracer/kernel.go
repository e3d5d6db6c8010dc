package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer/internal/gpu"
)

// Validate a kernel with naga. With -spirv the kernel is also compiled and
// written as a SPIR-V binary. Without an argument the built-in kernel is used.
func checkKernel(ctx *cli.Context) error {
	name := "built-in kernel"
	source := gpu.DefaultKernelSource
	if ctx.NArg() > 0 {
		name = ctx.Args().First()
		src, err := os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read kernel: %w", err)
		}
		source = string(src)
	}

	if err := gpu.ValidateKernel(source); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	fmt.Fprintf(os.Stdout, "%s: ok (%s, %s)\n", name, gpu.KernelVertexEntry, gpu.KernelFragmentEntry)

	out := ctx.String("spirv")
	if out == "" {
		return nil
	}
	words, err := gpu.CompileKernelSPIRV(source, ctx.Bool("debug"))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	buf := make([]byte, 0, len(words)*4)
	for _, word := range words {
		buf = binary.LittleEndian.AppendUint32(buf, word)
	}
	if err := os.WriteFile(out, buf, 0o644); err != nil { //nolint:gosec // build artifact
		return fmt.Errorf("write spirv: %w", err)
	}
	logger.Info("spirv written", "file", out, "words", len(words))
	return nil
}
