package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/achilleasa/lumen/renderer"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/scene/reader"
	"github.com/achilleasa/lumen/tracer"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	setupLogging(ctx)

	// Load scene
	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sceneFile := ctx.Args().First()
	sc, err := reader.ReadScene(sceneFile)
	if err != nil {
		return err
	}
	applySceneOverrides(ctx, sc)

	opts, err := renderOptions(ctx)
	if err != nil {
		return err
	}

	frame, stats, err := renderer.Render(sc, opts)
	if err != nil {
		return err
	}

	// Export PNG
	imgFile := outputFilename(sceneFile, ctx.String("out"))
	start := time.Now()
	if err = writePNG(imgFile, frame.ToRGBA(opts.Exposure, opts.Gamma)); err != nil {
		return err
	}
	logger.Noticef("wrote frame to %s in %d ms", imgFile, time.Since(start).Nanoseconds()/1000000)

	// Display stats
	displayFrameStats(stats)

	return nil
}

// Encode img as a png file. The file is only reported as written once it has
// been closed successfully.
func writePNG(imgFile string, img image.Image) error {
	f, err := os.Create(imgFile)
	if err != nil {
		return err
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("error encoding png file: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("error writing png file: %w", err)
	}
	return nil
}

// Apply the command line overrides for scene-level render settings.
func applySceneOverrides(ctx *cli.Context, sc *scene.Scene) {
	if res := ctx.Int("resolution"); res > 0 {
		sc.SetResolution(res)
	}
	if samples := ctx.Int("samples"); samples > 0 {
		sc.Samples = samples
	}
	if ctx.Bool("no-shadows") {
		sc.PathShadows = false
	}
	if ctx.Bool("blurry") {
		sc.BlurryReflection = true
	}
}

// Build renderer options from the command line flags.
func renderOptions(ctx *cli.Context) (renderer.Options, error) {
	opts := renderer.DefaultOptions()
	opts.Workers = ctx.Int("workers")
	opts.Seed = uint64(ctx.Int("seed"))
	opts.Exposure = float32(ctx.Float64("exposure"))
	opts.Gamma = float32(ctx.Float64("gamma"))
	opts.Verbose = ctx.GlobalBool("vv")

	scheduler, err := tracer.SchedulerFromName(ctx.String("scheduler"))
	if err != nil {
		return opts, err
	}
	opts.Scheduler = scheduler

	roulette, err := tracer.RouletteModeFromName(ctx.String("roulette"))
	if err != nil {
		return opts, err
	}
	opts.Tracer.Roulette = roulette
	opts.Tracer.MaxDepth = ctx.Int("max-depth")
	opts.Tracer.MinBouncesForRR = ctx.Int("rr-bounces")

	return opts, nil
}

// Get the image filename for a scene. Unless an explicit name is given, the
// image is written next to a local scene file using its base name. Images for
// remote scenes go to the working directory.
func outputFilename(sceneFile, out string) string {
	if out != "" {
		return out
	}
	if strings.Contains(sceneFile, "://") {
		sceneFile = path.Base(sceneFile)
	}
	return strings.TrimSuffix(sceneFile, filepath.Ext(sceneFile)) + ".png"
}

func displayFrameStats(stats renderer.FrameStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of frame", "Render time"})
	for _, stat := range stats.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	table.SetFooter([]string{"", "", "TOTAL", stats.RenderTime.String()})

	table.Render()
	logger.Noticef("frame statistics\n%s", buf.String())
}
