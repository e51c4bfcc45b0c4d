package tracer

import (
	"reflect"
	"testing"
)

func TestInterleavedScheduler(t *testing.T) {
	assignment := InterleavedScheduler{}.Schedule(3, 8)
	exp := [][]int{
		{0, 3, 6},
		{1, 4, 7},
		{2, 5},
	}
	if !reflect.DeepEqual(assignment, exp) {
		t.Fatalf("expected assignment %v; got %v", exp, assignment)
	}
}

func TestBlockScheduler(t *testing.T) {
	type spec struct {
		workers int
		frameH  int
		expRows []int
	}
	specs := []spec{
		{2, 10, []int{5, 5}},
		{3, 10, []int{4, 3, 3}},
		{4, 2, []int{2, 0, 0, 0}},
	}

	for index, s := range specs {
		assignment := BlockScheduler{}.Schedule(s.workers, s.frameH)
		for w, rows := range assignment {
			if len(rows) != s.expRows[w] {
				t.Fatalf("[spec %d] expected worker %d to be assigned %d rows; got %d", index, w, s.expRows[w], len(rows))
			}
		}
	}
}

func TestSchedulersCoverFrame(t *testing.T) {
	for _, name := range []string{"interleaved", "block"} {
		sch, err := SchedulerFromName(name)
		if err != nil {
			t.Fatal(err)
		}

		for workers := 1; workers <= 9; workers++ {
			for _, frameH := range []int{1, 7, 64, 101} {
				seen := make([]int, frameH)
				for _, rows := range sch.Schedule(workers, frameH) {
					for _, row := range rows {
						seen[row]++
					}
				}
				for row, count := range seen {
					if count != 1 {
						t.Fatalf("[%s] workers %d, height %d: expected row %d to be assigned once; got %d", name, workers, frameH, row, count)
					}
				}
			}
		}
	}

	if _, err := SchedulerFromName("random"); err == nil {
		t.Fatal("expected unknown scheduler error")
	}
}
