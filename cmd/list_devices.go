package cmd

import (
	"bytes"
	"fmt"
	"runtime"

	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
	"github.com/urfave/cli"
)

// List the host cpus that render workers can run on.
func ListDevices(ctx *cli.Context) error {
	setupLogging(ctx)

	cpuInfo, err := cpu.Info()
	if err != nil {
		return fmt.Errorf("could not query cpu information: %w", err)
	}
	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("could not query memory information: %w", err)
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"CPU", "Model", "Cores", "Speed"})
	for index, info := range cpuInfo {
		table.Append([]string{
			fmt.Sprintf("%02d", index),
			info.ModelName,
			fmt.Sprintf("%d", info.Cores),
			fmt.Sprintf("%3.1f GHz", info.Mhz/1000),
		})
	}
	table.SetFooter([]string{"", "", "WORKERS", fmt.Sprintf("%d", runtime.NumCPU())})
	table.Render()

	logger.Noticef(
		"system provides %d logical cpu(s) and %d MB of memory (%d MB available)\n%s",
		runtime.NumCPU(), memInfo.Total/(1024*1024), memInfo.Available/(1024*1024), buf.String(),
	)
	return nil
}
