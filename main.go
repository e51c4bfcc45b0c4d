package main

import (
	"os"

	"github.com/achilleasa/lumen/cmd"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/tracer"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	defaults := tracer.DefaultConfig()

	app := cli.NewApp()
	app.Name = "lumen"
	app.Usage = "render scenes using monte carlo path tracing"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set the log level (debug, info, notice, warning or error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a still frame",
			Description: `
Load a scene and render a single frame using a pool of worker goroutines. The
scene argument is either a path or URL to a json scene file or the name of a
built-in scene (testscene0, testscene1, ...).

Unless the --out flag is specified, the frame is written as a png file next to
the scene file.`,
			ArgsUsage: "scene_file.json",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "resolution, r",
					Usage: "override the frame height; the width follows the camera aspect ratio",
				},
				cli.IntFlag{
					Name:  "samples",
					Usage: "override the samples per pixel axis",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "number of worker goroutines; 0 uses all cpus and 1 renders sequentially",
				},
				cli.IntFlag{
					Name:  "max-depth",
					Value: defaults.MaxDepth,
					Usage: "max number of path vertices",
				},
				cli.StringFlag{
					Name:  "roulette",
					Value: defaults.Roulette.String(),
					Usage: "russian roulette policy for scenes that enable it (off, density or stochastic)",
				},
				cli.IntFlag{
					Name:  "rr-bounces",
					Value: defaults.MinBouncesForRR,
					Usage: "min number of bounces before stochastic russian roulette applies",
				},
				cli.IntFlag{
					Name:  "seed",
					Usage: "seed for the per-pixel random streams",
				},
				cli.BoolFlag{
					Name:  "no-shadows",
					Usage: "skip shadow tests for direct lighting",
				},
				cli.BoolFlag{
					Name:  "blurry",
					Usage: "enable blurry reflections",
				},
				cli.Float64Flag{
					Name:  "exposure",
					Value: 1.0,
					Usage: "camera exposure for tone-mapping",
				},
				cli.Float64Flag{
					Name:  "gamma",
					Value: 2.2,
					Usage: "gamma used for encoding the frame",
				},
				cli.StringFlag{
					Name:  "scheduler",
					Value: "interleaved",
					Usage: "row scheduler (interleaved or block)",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "list-devices",
			Usage:  "list the cpus available to render workers",
			Action: cmd.ListDevices,
		},
		{
			Name:        "scene-info",
			Usage:       "print scene information",
			Description: `Load a scene and display a summary of its contents.`,
			ArgsUsage:   "scene_file.json",
			Action:      cmd.ShowSceneInfo,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New("lumen").Error(err)
		os.Exit(1)
	}
}
