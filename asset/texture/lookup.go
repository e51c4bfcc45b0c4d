package texture

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// Sample a material coefficient modulated by tex at uv using tiled bilinear
// filtering. This is the lookup used for all material and emission textures.
func LookupScaled(base types.Vec3, tex *Texture, uv types.Vec2) types.Vec3 {
	return Lookup(base, tex, uv, true, true)
}

// Sample a material coefficient modulated by tex at uv.
//
// A nil texture leaves base unchanged. With tile set, uv wraps around the unit
// square, otherwise it is clamped to it. Every texel tap is tinted by base.
func Lookup(base types.Vec3, tex *Texture, uv types.Vec2, tile, bilinear bool) types.Vec3 {
	if tex == nil {
		return base
	}

	if tile {
		return Lookup(base, tex, types.XY(fract(uv[0]), fract(uv[1])), false, bilinear)
	}

	u := types.Clamp(uv[0], 0, 1)
	v := types.Clamp(uv[1], 0, 1)
	fu := u * float32(tex.Width)
	fv := v * float32(tex.Height)
	i := types.ClampInt(int(fu), 0, tex.Width-1)
	j := types.ClampInt(int(fv), 0, tex.Height-1)

	if !bilinear {
		return base.MulVec(tex.At(i, j))
	}

	s := types.Clamp(fu-float32(i), 0, 1)
	t := types.Clamp(fv-float32(j), 0, 1)

	cij := base.MulVec(tex.At(i, j))
	cij1 := base.MulVec(tex.At(i, j+1))
	ci1j := base.MulVec(tex.At(i+1, j))
	ci1j1 := base.MulVec(tex.At(i+1, j+1))

	return cij.Mul((1 - s) * (1 - t)).
		Add(cij1.Mul((1 - s) * t)).
		Add(ci1j.Mul(s * (1 - t))).
		Add(ci1j1.Mul(s * t))
}

// Fractional part of x in [0, 1).
func fract(x float32) float32 {
	f := x - float32(math.Floor(float64(x)))
	if f >= 1 {
		return 0
	}
	return f
}
