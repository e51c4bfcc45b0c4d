package tracer

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

// Lower bound for the denominators of the microfacet model.
const brdfEpsilon float32 = 1e-4

// Evaluate the reflectance for view direction v and light direction l at a
// point with normal norm. All vectors point away from the surface and are
// expected to be normalized.
//
// The default model is a normalized modified Phong BRDF. When microfacet is
// set, a Cook-Torrance style model with a Blinn-Phong distribution is used
// instead.
func EvalBRDF(kd, ks types.Vec3, n float32, v, l, norm types.Vec3, microfacet bool) types.Vec3 {
	h := v.Add(l).Normalize()
	nh := max(0, norm.Dot(h))
	nhPow := float32(math.Pow(float64(nh), float64(n)))

	if !microfacet {
		spec := (n + 8) / (8 * math.Pi) * nhPow
		return kd.Mul(1 / math.Pi).Add(ks.Mul(spec))
	}

	d := (n + 2) / (2 * math.Pi) * nhPow

	fw := float32(math.Pow(float64(max(0, 1-h.Dot(l))), 5))
	f := ks.Add(types.Splat(1).Sub(ks).Mul(fw))

	vn := max(0, v.Dot(norm))
	ln := max(0, l.Dot(norm))
	vh := max(brdfEpsilon, v.Dot(h))
	lh := max(brdfEpsilon, l.Dot(h))
	g := min(1, 2*nh*vn/vh, 2*nh*ln/lh)

	return f.Mul(d * g / max(brdfEpsilon, 4*ln*vn))
}
