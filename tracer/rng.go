package tracer

import (
	"math/rand/v2"

	"github.com/achilleasa/lumen/types"
)

// A Rng is an independent stream of uniform random numbers. Streams are not
// safe for concurrent use; the renderer assigns one stream to each pixel.
type Rng struct {
	r *rand.Rand
}

// Create a random stream. Streams created with the same seed and a different
// stream id produce uncorrelated sequences.
func NewRng(seed, stream uint64) *Rng {
	return &Rng{
		r: rand.New(rand.NewPCG(seed, stream)),
	}
}

// Get a uniform float in [0, 1).
func (r *Rng) Float32() float32 {
	return r.r.Float32()
}

// Get a uniform point in [0, 1)^2.
func (r *Rng) Vec2() types.Vec2 {
	return types.XY(r.r.Float32(), r.r.Float32())
}
