// Command pathtracer is an interactive progressive GPU path tracer.
//
// Usage:
//
//	pathtracer run                      # open a window, WASD + mouse to fly
//	pathtracer render -frames 64 -o out.png
//	pathtracer adapters
//	pathtracer kernel -spirv kernel.spv
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "progressive GPU path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable per-frame debug logging",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		setupLogging(ctx)
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "run",
			Usage:  "open an interactive viewer",
			Flags:  append(sessionFlags(), cli.StringFlag{Name: "title", Value: "GPU Path Tracer", Usage: "window title"}),
			Action: runViewer,
		},
		{
			Name:  "render",
			Usage: "render frames headless and write the final image",
			Description: `
Open a GPU device without a window, accumulate the requested number of frames
into an offscreen target and write the last frame as a PNG image.`,
			Flags: append(sessionFlags(),
				cli.IntFlag{Name: "frames, n", Value: 16, Usage: "number of frames to accumulate"},
				cli.StringFlag{Name: "out, o", Value: "frame.png", Usage: "image filename for the rendered frame"},
				cli.StringFlag{Name: "backend, b", Value: "vulkan", Usage: "HAL backend (vulkan, noop)"},
			),
			Action: renderHeadless,
		},
		{
			Name:  "adapters",
			Usage: "list GPU adapters of a backend",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "backend, b", Value: "vulkan", Usage: "HAL backend (vulkan, noop)"},
			},
			Action: listAdapters,
		},
		{
			Name:      "kernel",
			Usage:     "validate a WGSL kernel and optionally emit SPIR-V",
			ArgsUsage: "[kernel.wgsl]",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "spirv", Usage: "write compiled SPIR-V to this file"},
				cli.BoolFlag{Name: "debug", Usage: "include debug info in SPIR-V"},
			},
			Action: checkKernel,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pathtracer: %v\n", err)
		os.Exit(1)
	}
}

// sessionFlags are shared by every command that creates a Session.
func sessionFlags() []cli.Flag {
	return []cli.Flag{
		cli.IntFlag{Name: "width", Value: 800, Usage: "frame width"},
		cli.IntFlag{Name: "height", Value: 600, Usage: "frame height"},
		cli.Float64Flag{Name: "speed", Value: 0.1, Usage: "camera movement per step"},
		cli.StringFlag{Name: "kernel, k", Usage: "WGSL kernel file replacing the built-in kernel"},
	}
}
