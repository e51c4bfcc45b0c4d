package renderer

import (
	"runtime"
	"sync"
	"time"

	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/tracer"
	"github.com/achilleasa/lumen/types"
)

var logger = log.New("renderer")

// A StreamImage holds one random stream per pixel.
type StreamImage struct {
	Width   int
	Height  int
	streams []*tracer.Rng
}

// Create the random streams for a width x height frame. The stream of each
// pixel is derived from seed and the pixel index, so the numbers a pixel sees
// do not depend on which worker renders it.
func NewStreamImage(width, height int, seed uint64) *StreamImage {
	streams := make([]*tracer.Rng, width*height)
	for index := range streams {
		streams[index] = tracer.NewRng(seed, uint64(index))
	}
	return &StreamImage{
		Width:   width,
		Height:  height,
		streams: streams,
	}
}

// Get the stream for pixel (i, j).
func (s *StreamImage) At(i, j int) *tracer.Rng {
	return s.streams[j*s.Width+i]
}

// Render a frame of sc. The scene is only read, so concurrent renders of the
// same scene are safe, but it must not be modified until Render returns.
//
// The frame rows are split between a pool of worker goroutines using the
// configured scheduler. Each pixel, and its random stream, is only ever
// accessed by the worker that owns its row so workers share no mutable state.
func Render(sc *scene.Scene, opts Options) (*Frame, FrameStats, error) {
	var stats FrameStats
	if sc == nil {
		return nil, stats, ErrSceneNotDefined
	}
	if sc.Camera == nil {
		return nil, stats, ErrCameraNotDefined
	}
	if err := sc.Validate(); err != nil {
		return nil, stats, err
	}

	workers := opts.Workers
	switch {
	case workers < 0:
		return nil, stats, ErrInvalidWorkers
	case workers == 0:
		workers = runtime.NumCPU()
	}
	scheduler := opts.Scheduler
	if scheduler == nil {
		scheduler = tracer.InterleavedScheduler{}
	}

	frame := NewFrame(sc.ImageWidth, sc.ImageHeight)
	streams := NewStreamImage(sc.ImageWidth, sc.ImageHeight, opts.Seed)
	integrator := tracer.NewIntegrator(sc, sc, tracer.MixtureSampler{}, opts.Tracer)

	logger.Noticef(
		"rendering %dx%d frame with %d spp using %d workers (max depth %d)",
		frame.Width, frame.Height, sc.Samples*sc.Samples, workers, integrator.Config().MaxDepth,
	)

	assignment := scheduler.Schedule(workers, frame.Height)
	stats.Workers = make([]WorkerStat, len(assignment))

	start := time.Now()
	var wg sync.WaitGroup
	for id, rows := range assignment {
		wg.Add(1)
		go func(id int, rows []int) {
			defer wg.Done()
			workerStart := time.Now()
			renderRows(sc, integrator, frame, streams, rows, opts.Verbose && id == 0)
			stats.Workers[id] = WorkerStat{
				Id:           id,
				Rows:         len(rows),
				FramePercent: 100 * float32(len(rows)) / float32(frame.Height),
				RenderTime:   time.Since(workerStart),
			}
			logger.Infof("worker %d rendered %d rows in %s", id, len(rows), stats.Workers[id].RenderTime)
		}(id, rows)
	}
	wg.Wait()
	stats.RenderTime = time.Since(start)

	logger.Noticef("rendered frame in %d ms", stats.RenderTime.Nanoseconds()/1000000)
	return frame, stats, nil
}

// Render the pixels of the given rows. Each pixel averages a jittered grid of
// Samples x Samples camera rays.
func renderRows(sc *scene.Scene, integrator *tracer.Integrator, frame *Frame, streams *StreamImage, rows []int, verbose bool) {
	samples := sc.Samples
	invSamples := 1 / float32(samples)
	invW := 1 / float32(frame.Width)
	invH := 1 / float32(frame.Height)

	for index, j := range rows {
		if verbose {
			logger.Debugf("rendering row %d/%d", index+1, len(rows))
		}
		for i := 0; i < frame.Width; i++ {
			rng := streams.At(i, j)

			var sum types.Vec3
			for jj := 0; jj < samples; jj++ {
				for ii := 0; ii < samples; ii++ {
					u := (float32(i) + (float32(ii)+rng.Float32())*invSamples) * invW
					v := (float32(j) + (float32(jj)+rng.Float32())*invSamples) * invH
					sum = sum.Add(integrator.Radiance(sc.Camera.Ray(u, v), rng))
				}
			}
			frame.Set(i, j, sum.Mul(invSamples*invSamples))
		}
	}
}
