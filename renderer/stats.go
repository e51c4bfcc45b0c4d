package renderer

import "time"

type WorkerStat struct {
	// The worker id.
	Id int

	// The number of rendered rows and the percentage of total frame area
	// they represent.
	Rows         int
	FramePercent float32

	// Render time for assigned rows.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total render time for entire frame.
	RenderTime time.Duration
}
