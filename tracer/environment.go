package tracer

import (
	"math"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/types"
)

// Evaluate the environment radiance along dir. Without a texture the
// environment is the constant ke; otherwise dir is mapped to latitude-longitude
// coordinates around the Y axis and used to look up tex.
func EvalEnvironment(ke types.Vec3, tex *texture.Texture, dir types.Vec3) types.Vec3 {
	if tex == nil {
		return ke
	}

	u := float32(math.Atan2(float64(dir[0]), float64(dir[2])) / (2 * math.Pi))
	v := 1 - float32(math.Acos(float64(types.Clamp(dir[1], -1, 1)))/math.Pi)
	return texture.LookupScaled(ke, tex, types.XY(u, v))
}
