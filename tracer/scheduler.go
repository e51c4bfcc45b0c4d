package tracer

import "fmt"

// The RowScheduler interface is implemented by all row scheduling algorithms.
type RowScheduler interface {
	// Split the frame rows between workers. It returns the list of rows
	// owned by each worker. Every row is assigned to exactly one worker.
	Schedule(workers, frameH int) [][]int
}

// The interleaved scheduler assigns rows t, t+T, t+2T... to worker t of T.
// Neighboring rows usually cost about the same to render so this spreads
// expensive image regions across all workers.
type InterleavedScheduler struct{}

func (InterleavedScheduler) Schedule(workers, frameH int) [][]int {
	assignment := make([][]int, workers)
	for w := range assignment {
		for row := w; row < frameH; row += workers {
			assignment[w] = append(assignment[w], row)
		}
	}
	return assignment
}

// The block scheduler splits the frame into contiguous blocks of equal
// height. Rows that do not divide evenly are appended to the first worker.
type BlockScheduler struct{}

func (BlockScheduler) Schedule(workers, frameH int) [][]int {
	assignment := make([][]int, workers)
	if workers == 0 {
		return assignment
	}

	blockH := frameH / workers
	extra := frameH - blockH*workers

	row := 0
	for w := range assignment {
		rows := blockH
		if w == 0 {
			rows += extra
		}
		for i := 0; i < rows; i++ {
			assignment[w] = append(assignment[w], row)
			row++
		}
	}
	return assignment
}

// Lookup a row scheduler by its name.
func SchedulerFromName(name string) (RowScheduler, error) {
	switch name {
	case "interleaved":
		return InterleavedScheduler{}, nil
	case "block":
		return BlockScheduler{}, nil
	}
	return nil, fmt.Errorf("tracer: unknown scheduler %q", name)
}
