package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gogpu/pathtracer/internal/gpu"
)

// List the adapters exposed by a HAL backend.
func listAdapters(ctx *cli.Context) error {
	backend := ctx.String("backend")
	infos, err := gpu.ListAdapters(backend)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "\nBackend %s provides %d adapter(s):\n\n", backend, len(infos))
	table := tablewriter.NewWriter(os.Stdout)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"#", "Name", "Type", "Vendor", "Driver"})
	for i, info := range infos {
		table.Append([]string{
			fmt.Sprintf("%02d", i),
			info.Name,
			info.DeviceType.String(),
			fmt.Sprintf("%s (0x%04x)", info.Vendor, info.VendorID),
			info.Driver,
		})
	}
	table.Render()
	return nil
}
