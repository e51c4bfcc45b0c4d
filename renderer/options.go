package renderer

import "github.com/achilleasa/lumen/tracer"

type Options struct {
	// Number of worker goroutines. If set to 0, one worker per logical CPU
	// is started. A single worker renders the frame sequentially.
	Workers int

	// Seed for the per-pixel random streams. Rendering the same scene with
	// the same seed always produces the same frame.
	Seed uint64

	// Row assignment strategy. Defaults to tracer.InterleavedScheduler.
	Scheduler tracer.RowScheduler

	// Integrator settings.
	Tracer tracer.Config

	// Exposure and gamma for tonemapping.
	Exposure float32
	Gamma    float32

	// Log per-row progress.
	Verbose bool
}

// Get the default render options.
func DefaultOptions() Options {
	return Options{
		Scheduler: tracer.InterleavedScheduler{},
		Tracer:    tracer.DefaultConfig(),
		Exposure:  1,
		Gamma:     2.2,
	}
}
