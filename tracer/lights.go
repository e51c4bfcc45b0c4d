package tracer

import (
	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/types"
)

// Lower bound for squared light distances.
const distEpsilon float32 = 1e-6

// Returns true if ray is unblocked or shadows are disabled.
func (in *Integrator) visible(ray types.Ray) bool {
	return !in.scene.PathShadows || !in.isect.Occluded(ray)
}

// Accumulate the direct contribution of all point lights.
func (in *Integrator) pointLights(sp *shadingPoint) types.Vec3 {
	var c types.Vec3
	for _, light := range in.scene.Lights {
		lightPos := light.Frame.Origin
		cl := light.Intensity.Div(max(distEpsilon, types.DistSqr(lightPos, sp.pos)))
		l := lightPos.Sub(sp.pos).Normalize()

		shade := cl.MulVec(sp.brdfCos(l))
		if shade.IsZero() {
			continue
		}
		if in.visible(types.NewSegment(sp.pos, lightPos)) {
			c = c.Add(shade)
		}
	}
	return c
}

// Accumulate the direct contribution of all emissive surfaces using one
// uniformly sampled point per surface.
func (in *Integrator) areaLights(sp *shadingPoint, rng *Rng) types.Vec3 {
	var c types.Vec3
	for _, surf := range in.emissive {
		uv := rng.Vec2()
		lightPos, lightNorm, area := surf.SamplePoint(uv)

		// The raw sample doubles as the emission texture coordinate
		ke := texture.LookupScaled(surf.Material.Ke, surf.Material.KeTexture, uv)

		l := lightPos.Sub(sp.pos).Normalize()
		response := ke.Mul(area * max(0, -l.Dot(lightNorm)) / max(distEpsilon, types.DistSqr(sp.pos, lightPos)))

		shade := response.MulVec(sp.brdfCos(l))
		if shade.IsZero() {
			continue
		}
		if in.visible(types.NewSegment(sp.pos, lightPos)) {
			c = c.Add(shade)
		}
	}
	return c
}
