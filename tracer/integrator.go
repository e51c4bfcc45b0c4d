package tracer

import (
	"fmt"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// The Intersector interface is implemented by objects that answer ray queries
// against the scene geometry.
type Intersector interface {
	// Find the nearest hit along ray.
	Intersect(ray types.Ray) scene.Intersection

	// Returns true if anything blocks ray within its [TMin, TMax] range.
	Occluded(ray types.Ray) bool
}

type RouletteMode uint8

// The supported path termination policies.
const (
	// Paths are only terminated by the depth limit.
	RouletteOff RouletteMode = iota

	// Continue only if the sampled density exceeds a fixed threshold and
	// divide by (1 - density). This estimator is biased.
	RouletteDensity

	// Continue with a fixed survival probability and divide by it.
	RouletteStochastic
)

func (m RouletteMode) String() string {
	switch m {
	case RouletteOff:
		return "off"
	case RouletteDensity:
		return "density"
	case RouletteStochastic:
		return "stochastic"
	}
	return "invalid"
}

// Lookup a roulette mode by its name.
func RouletteModeFromName(name string) (RouletteMode, error) {
	for _, m := range []RouletteMode{RouletteOff, RouletteDensity, RouletteStochastic} {
		if m.String() == name {
			return m, nil
		}
	}
	return RouletteOff, fmt.Errorf("tracer: unknown roulette mode %q", name)
}

// Integrator settings.
type Config struct {
	// Maximum number of path vertices; 1 traces primary rays only.
	MaxDepth int

	// Termination policy used when the scene enables russian roulette.
	Roulette RouletteMode

	// Density threshold for the density policy.
	RouletteThreshold float32

	// Number of bounces before the stochastic policy kicks in and the
	// probability of continuing a path past that point.
	MinBouncesForRR     int
	SurvivalProbability float32

	// Number of jittered reflection rays and jitter magnitude used when the
	// scene enables blurry reflections.
	BlurrySamples int
	BlurryScale   float32
}

// Get the default integrator configuration.
func DefaultConfig() Config {
	return Config{
		MaxDepth:            8,
		Roulette:            RouletteStochastic,
		RouletteThreshold:   0.1,
		MinBouncesForRR:     3,
		SurvivalProbability: 0.75,
		BlurrySamples:       10,
		BlurryScale:         0.2,
	}
}

// A pending path vertex: a ray to trace, its depth and the factor that scales
// the radiance found along it.
type pathEntry struct {
	ray    types.Ray
	depth  int
	weight types.Vec3

	// Set once the path has split into jittered reflection rays. Later
	// mirror vertices trace a single jittered ray.
	blurred bool
}

// The material parameters and geometry of a shaded hit.
type shadingPoint struct {
	pos  types.Vec3
	norm types.Vec3
	v    types.Vec3

	ke, kd, ks, kr types.Vec3
	n              float32
	microfacet     bool
}

// Evaluate the BRDF times the cosine term for light direction l.
func (sp *shadingPoint) brdfCos(l types.Vec3) types.Vec3 {
	return EvalBRDF(sp.kd, sp.ks, sp.n, sp.v, l, sp.norm, sp.microfacet).Mul(max(0, sp.norm.Dot(l)))
}

// Integrator estimates the radiance arriving along a ray using path tracing
// with next event estimation.
type Integrator struct {
	scene   *scene.Scene
	isect   Intersector
	sampler DirectionSampler
	cfg     Config

	roulette RouletteMode
	emissive []*scene.Surface
}

// Create an integrator for sc. The scene must not be modified while the
// integrator is in use. Invalid settings are replaced with
// the nearest valid value.
func NewIntegrator(sc *scene.Scene, isect Intersector, sampler DirectionSampler, cfg Config) *Integrator {
	if cfg.MaxDepth < 1 {
		cfg.MaxDepth = 1
	}
	if cfg.SurvivalProbability <= 0 || cfg.SurvivalProbability > 1 {
		cfg.SurvivalProbability = 1
	}
	if cfg.BlurrySamples < 1 {
		cfg.BlurrySamples = 1
	}
	if cfg.MinBouncesForRR < 0 {
		cfg.MinBouncesForRR = 0
	}

	roulette := RouletteOff
	if sc.RussianRoulette {
		roulette = cfg.Roulette
	}

	return &Integrator{
		scene:    sc,
		isect:    isect,
		sampler:  sampler,
		cfg:      cfg,
		roulette: roulette,
		emissive: sc.EmissiveSurfaces(),
	}
}

// Get the effective integrator configuration.
func (in *Integrator) Config() Config {
	return in.cfg
}

// Estimate the radiance arriving at the ray origin from the ray direction.
// Random numbers are drawn from rng, which must not be shared with other
// goroutines.
func (in *Integrator) Radiance(ray types.Ray, rng *Rng) types.Vec3 {
	var out types.Vec3

	stack := []pathEntry{{ray: ray, weight: types.Splat(1)}}
	for len(stack) > 0 {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		hit := in.isect.Intersect(entry.ray)
		if !hit.Hit {
			out = out.Add(entry.weight.MulVec(EvalEnvironment(in.scene.Background, in.scene.BackgroundTexture, entry.ray.Dir)))
			continue
		}

		sp := in.shadingPoint(entry.ray, &hit)
		out = out.Add(entry.weight.MulVec(in.local(&sp, entry.depth, rng)))

		stack = in.scatter(stack, &sp, entry, rng)
	}

	return out
}

// Build the shading record for a hit.
func (in *Integrator) shadingPoint(ray types.Ray, hit *scene.Intersection) shadingPoint {
	mat := hit.Material
	return shadingPoint{
		pos:        hit.Pos,
		norm:       hit.Norm,
		v:          ray.Dir.Neg(),
		ke:         texture.LookupScaled(mat.Ke, mat.KeTexture, hit.TexCoord),
		kd:         texture.LookupScaled(mat.Kd, mat.KdTexture, hit.TexCoord),
		ks:         texture.LookupScaled(mat.Ks, mat.KsTexture, hit.TexCoord),
		kr:         mat.Kr,
		n:          mat.N,
		microfacet: mat.Microfacet,
	}
}

// Compute the radiance leaving a hit without following any secondary path:
// emission, ambient, direct lighting and environment lighting.
func (in *Integrator) local(sp *shadingPoint, depth int, rng *Rng) types.Vec3 {
	c := in.scene.Ambient.MulVec(sp.kd)

	// Emission is only visible to camera rays; deeper vertices pick it up
	// through light sampling.
	if depth == 0 && sp.v.Dot(sp.norm) > 0 {
		c = c.Add(sp.ke)
	}

	c = c.Add(in.pointLights(sp))
	c = c.Add(in.areaLights(sp, rng))
	c = c.Add(in.environmentLight(sp, rng))
	return c
}

// Sample the environment along a direction picked by the direction sampler.
func (in *Integrator) environmentLight(sp *shadingPoint, rng *Rng) types.Vec3 {
	if in.scene.Background.IsZero() {
		return types.Vec3{}
	}

	dir, pdf := in.sampler.SampleBRDF(sp.kd, sp.ks, sp.n, sp.v, sp.norm, rng.Vec2(), rng.Float32())
	if pdf <= 0 {
		return types.Vec3{}
	}

	response := sp.brdfCos(dir).MulVec(EvalEnvironment(in.scene.Background, in.scene.BackgroundTexture, dir)).Div(pdf)
	if response.IsZero() || !in.visible(types.NewRay(sp.pos, dir)) {
		return types.Vec3{}
	}
	return response
}

// Push the secondary paths spawned by a hit: one sampled indirect bounce and
// the mirror reflection.
func (in *Integrator) scatter(stack []pathEntry, sp *shadingPoint, entry pathEntry, rng *Rng) []pathEntry {
	nextDepth := entry.depth + 1

	if nextDepth >= in.cfg.MaxDepth {
		return stack
	}

	dir, pdf := in.sampler.SampleBRDF(sp.kd, sp.ks, sp.n, sp.v, sp.norm, rng.Vec2(), rng.Float32())
	if weight, ok := in.bounceWeight(sp, dir, pdf, nextDepth, rng); ok {
		stack = append(stack, pathEntry{
			ray:     types.NewRay(sp.pos, dir),
			depth:   nextDepth,
			weight:  entry.weight.MulVec(weight),
			blurred: entry.blurred,
		})
	}

	if sp.kr.IsZero() {
		return stack
	}

	refl := entry.ray.Dir.Reflect(sp.norm)
	if !in.scene.BlurryReflection {
		return append(stack, pathEntry{
			ray:    types.NewRay(sp.pos, refl),
			depth:  nextDepth,
			weight: entry.weight.MulVec(sp.kr),
		})
	}

	// Only the first mirror vertex of a path splits; otherwise the number of
	// paths grows as BlurrySamples^depth between facing mirrors.
	samples := in.cfg.BlurrySamples
	if entry.blurred {
		samples = 1
	}
	weight := entry.weight.MulVec(sp.kr).Div(float32(samples))
	for i := 0; i < samples; i++ {
		jitter := types.SampleSphereUniform(rng.Vec2()).Mul(in.cfg.BlurryScale * rng.Float32())
		dir := refl.Add(jitter).Normalize()
		if dir.Dot(sp.norm) <= 0 {
			dir = refl
		}
		stack = append(stack, pathEntry{
			ray:     types.NewRay(sp.pos, dir),
			depth:   nextDepth,
			weight:  weight,
			blurred: true,
		})
	}
	return stack
}

// Compute the throughput of an indirect bounce along dir and decide whether
// the path continues according to the active roulette policy.
func (in *Integrator) bounceWeight(sp *shadingPoint, dir types.Vec3, pdf float32, depth int, rng *Rng) (types.Vec3, bool) {
	if pdf <= 0 {
		return types.Vec3{}, false
	}
	weight := sp.brdfCos(dir).Div(pdf)
	if weight.IsZero() {
		return weight, false
	}

	switch in.roulette {
	case RouletteDensity:
		if !densitySurvives(pdf, in.cfg.RouletteThreshold) {
			return weight, false
		}
		weight = weight.Div(1 - pdf)
	case RouletteStochastic:
		if depth > in.cfg.MinBouncesForRR {
			if !stochasticSurvives(rng.Float32(), in.cfg.SurvivalProbability) {
				return weight, false
			}
			weight = weight.Div(in.cfg.SurvivalProbability)
		}
	}
	return weight, true
}

// The density policy continues a path when the sampled density lies in
// (threshold, 1).
func densitySurvives(pdf, threshold float32) bool {
	return pdf > threshold && pdf < 1
}

// The stochastic policy continues a path when the uniform draw u falls below
// the survival probability.
func stochasticSurvives(u, survival float32) bool {
	return u < survival
}
