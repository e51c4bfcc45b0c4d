package tracer

import (
	"math"
	"testing"

	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Wraps a scene and counts the queries issued against it.
type countingIntersector struct {
	sc *scene.Scene

	intersections int
	occlusions    int
}

func (ci *countingIntersector) Intersect(ray types.Ray) scene.Intersection {
	ci.intersections++
	return ci.sc.Intersect(ray)
}

func (ci *countingIntersector) Occluded(ray types.Ray) bool {
	ci.occlusions++
	return ci.sc.Occluded(ray)
}

func TestMissReturnsEnvironment(t *testing.T) {
	sc := scene.NewScene()
	sc.Background = types.XYZ(0.2, 0.3, 0.4)
	sc.Ambient = types.Splat(1)
	sc.AddLight(scene.NewLight(types.XYZ(0, 1, 0), types.Splat(10)))

	in := NewIntegrator(sc, sc, MixtureSampler{}, DefaultConfig())
	got := in.Radiance(types.NewRay(types.Vec3{}, types.XYZ(0, 0, -1)), NewRng(0, 0))
	if got != sc.Background {
		t.Fatalf("expected miss to return the background %v; got %v", sc.Background, got)
	}
}

func TestDirectContributionWithoutLights(t *testing.T) {
	sc := scene.NewScene()
	mat := &scene.Material{Name: "plastic", Kd: types.Splat(0.8), Ks: types.Splat(0.2), N: 20}
	addSurface(t, sc, mat, scene.NewQuad(types.IdentityFrame(), 1, mat))

	in := NewIntegrator(sc, sc, MixtureSampler{}, DefaultConfig())
	ray := types.NewRay(types.XYZ(0, 0, 2), types.XYZ(0, 0, -1))
	hit := sc.Intersect(ray)
	if !hit.Hit {
		t.Fatal("expected ray to hit the quad")
	}

	sp := in.shadingPoint(ray, &hit)
	if got := in.local(&sp, 0, NewRng(0, 0)); got != (types.Vec3{}) {
		t.Fatalf("expected zero direct contribution; got %v", got)
	}
}

func TestLambertianPointLight(t *testing.T) {
	kd := types.XYZ(0.8, 0.5, 0.2)
	intensity := types.Splat(3)

	sc := scene.NewScene()
	sc.PathShadows = false
	mat := scene.NewDiffuse("white", kd)
	addSurface(t, sc, mat, scene.NewQuad(types.IdentityFrame(), 1, mat))
	sc.AddLight(scene.NewLight(types.XYZ(0, 0, 2), intensity))

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	in := NewIntegrator(sc, sc, MixtureSampler{}, cfg)

	got := in.Radiance(types.NewRay(types.XYZ(0, 0, 5), types.XYZ(0, 0, -1)), NewRng(0, 0))
	exp := kd.Mul(1 / math.Pi).MulVec(intensity).Div(4)
	if !types.ApproxEqual(got, exp, 1e-6) {
		t.Fatalf("expected %v; got %v", exp, got)
	}
}

func TestShadowedPointLight(t *testing.T) {
	sc := scene.NewScene()
	mat := scene.NewDiffuse("white", types.Splat(1))
	addSurface(t, sc, mat, scene.NewQuad(types.IdentityFrame(), 1, mat))
	// Blocker between the quad and the light
	addSurface(t, sc, nil, scene.NewQuad(types.TranslationFrame(types.XYZ(0, 0, 1)), 0.1, mat))
	sc.AddLight(scene.NewLight(types.XYZ(0, 0, 2), types.Splat(1)))

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	in := NewIntegrator(sc, sc, MixtureSampler{}, cfg)

	// The ray grazes past the blocker and hits the quad at (0.5, 0, 0) whose
	// path to the light is clear.
	clear := in.Radiance(types.NewRay(types.XYZ(0.5, 0, 5), types.XYZ(0, 0, -1)), NewRng(0, 0))
	if clear.IsZero() {
		t.Fatal("expected unshadowed point to be lit")
	}

	// Shoot from below the blocker straight at the quad center.
	shadowed := in.Radiance(types.NewRay(types.XYZ(0, 0, 0.5), types.XYZ(0, 0, -1)), NewRng(0, 0))
	if !shadowed.IsZero() {
		t.Fatalf("expected shadowed point to be black; got %v", shadowed)
	}
}

func TestAreaLight(t *testing.T) {
	sc := scene.NewScene()
	sc.PathShadows = false
	white := scene.NewDiffuse("white", types.Splat(1))
	light := scene.NewEmissive("light", types.Splat(5))
	addSurface(t, sc, white, scene.NewQuad(types.IdentityFrame(), 1, white))
	// Facing down towards the floor
	addSurface(t, sc, light, scene.NewQuad(types.FrameFromTR(types.XYZ(0, 0, 1), types.XYZ(1, 0, 0), 180), 0.25, light))

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	in := NewIntegrator(sc, sc, MixtureSampler{}, cfg)

	// Average many estimates and compare with the small light approximation
	// ke * area * cos * cos / d^2 * kd / pi.
	rng := NewRng(11, 0)
	var sum types.Vec3
	const samples = 2000
	for i := 0; i < samples; i++ {
		sum = sum.Add(in.Radiance(types.NewRay(types.XYZ(0.5, 0.5, 5), types.XYZ(0, 0, -1)), rng))
	}
	got := sum.Div(samples)[0]

	d2 := float32(0.5*0.5 + 0.5*0.5 + 1)
	cos := 1 / float32(math.Sqrt(float64(d2)))
	exp := 5 * 0.25 * cos * cos / d2 / math.Pi
	if math.Abs(float64(got-exp)) > 0.1*float64(exp) {
		t.Fatalf("expected area light estimate close to %f; got %f", exp, got)
	}
}

func TestEmissionOnlyFromFrontSide(t *testing.T) {
	sc := scene.NewScene()
	light := scene.NewEmissive("light", types.Splat(2))
	addSurface(t, sc, light, scene.NewQuad(types.IdentityFrame(), 1, light))

	cfg := DefaultConfig()
	cfg.MaxDepth = 1
	in := NewIntegrator(sc, sc, MixtureSampler{}, cfg)

	front := in.Radiance(types.NewRay(types.XYZ(0, 0, 1), types.XYZ(0, 0, -1)), NewRng(0, 0))
	if front != types.Splat(2) {
		t.Fatalf("expected front side emission; got %v", front)
	}
	back := in.Radiance(types.NewRay(types.XYZ(0, 0, -1), types.XYZ(0, 0, 1)), NewRng(0, 0))
	if !back.IsZero() {
		t.Fatalf("expected no emission from the back side; got %v", back)
	}
}

func TestMaxDepthIsEnforced(t *testing.T) {
	// Two parallel mirrors facing each other
	sc := scene.NewScene()
	mirror := &scene.Material{Name: "mirror", Kr: types.Splat(1), N: 1}
	addSurface(t, sc, mirror, scene.NewQuad(types.IdentityFrame(), 1, mirror))
	addSurface(t, sc, nil, scene.NewQuad(types.FrameFromTR(types.XYZ(0, 0, 2), types.XYZ(1, 0, 0), 180), 1, mirror))

	for _, maxDepth := range []int{0, 1, 5, 20} {
		isect := &countingIntersector{sc: sc}
		cfg := DefaultConfig()
		cfg.MaxDepth = maxDepth
		in := NewIntegrator(sc, isect, MixtureSampler{}, cfg)
		in.Radiance(types.NewRay(types.XYZ(0, 0, 1), types.XYZ(0, 0, -1)), NewRng(0, 0))

		expCalls := max(1, maxDepth)
		if isect.intersections != expCalls {
			t.Fatalf("[max depth %d] expected %d intersection queries; got %d", maxDepth, expCalls, isect.intersections)
		}
	}
}

func TestBlurryReflection(t *testing.T) {
	sc := scene.NewScene()
	sc.Background = types.Splat(1)
	mirror := &scene.Material{Name: "mirror", Kr: types.Splat(0.5), N: 1}
	addSurface(t, sc, mirror, scene.NewQuad(types.IdentityFrame(), 1, mirror))

	cfg := DefaultConfig()
	cfg.MaxDepth = 2
	ray := types.NewRay(types.XYZ(0, 0, 1), types.XYZ(0, 0, -1))

	for _, blurry := range []bool{false, true} {
		sc.BlurryReflection = blurry
		isect := &countingIntersector{sc: sc}
		in := NewIntegrator(sc, isect, MixtureSampler{}, cfg)
		got := in.Radiance(ray, NewRng(0, 0))

		expCalls := 2
		if blurry {
			expCalls = 1 + cfg.BlurrySamples
		}
		if isect.intersections != expCalls {
			t.Fatalf("[blurry %t] expected %d intersection queries; got %d", blurry, expCalls, isect.intersections)
		}

		// Every reflected ray escapes to the constant environment
		if !types.ApproxEqual(got, types.Splat(0.5), 1e-5) {
			t.Fatalf("[blurry %t] expected reflected environment 0.5; got %v", blurry, got)
		}
	}
}

func TestBlurryReflectionSplitsOnce(t *testing.T) {
	// Two parallel mirrors facing each other
	sc := scene.NewScene()
	sc.BlurryReflection = true
	mirror := &scene.Material{Name: "mirror", Kr: types.Splat(0.9), N: 1}
	addSurface(t, sc, mirror, scene.NewQuad(types.IdentityFrame(), 1, mirror))
	addSurface(t, sc, nil, scene.NewQuad(types.FrameFromTR(types.XYZ(0, 0, 2), types.XYZ(1, 0, 0), 180), 1, mirror))

	cfg := DefaultConfig()
	cfg.MaxDepth = 6
	isect := &countingIntersector{sc: sc}
	in := NewIntegrator(sc, isect, MixtureSampler{}, cfg)
	in.Radiance(types.NewRay(types.XYZ(0, 0, 1), types.XYZ(0, 0, -1)), NewRng(3, 0))

	// The camera ray plus at most one chain of MaxDepth-1 rays per jittered sample
	minCalls := 1 + cfg.BlurrySamples
	maxCalls := 1 + cfg.BlurrySamples*(cfg.MaxDepth-1)
	if isect.intersections < minCalls || isect.intersections > maxCalls {
		t.Fatalf("expected between %d and %d intersection queries; got %d", minCalls, maxCalls, isect.intersections)
	}
}

func TestRouletteDisabledBySceneFlag(t *testing.T) {
	sc := scene.NewScene()
	cfg := DefaultConfig()
	cfg.Roulette = RouletteDensity

	if in := NewIntegrator(sc, sc, MixtureSampler{}, cfg); in.roulette != RouletteOff {
		t.Fatalf("expected roulette to be off; got %s", in.roulette)
	}

	sc.RussianRoulette = true
	if in := NewIntegrator(sc, sc, MixtureSampler{}, cfg); in.roulette != RouletteDensity {
		t.Fatalf("expected density roulette; got %s", in.roulette)
	}
}

func TestDensityRouletteMonotonicity(t *testing.T) {
	rng := NewRng(99, 0)
	for i := 0; i < 1000; i++ {
		pdf := rng.Float32()
		if !densitySurvives(pdf, pdf/2) {
			continue
		}
		// Raising the threshold while it stays below the density keeps the path alive
		for threshold := pdf / 2; threshold < pdf; threshold += pdf / 16 {
			if !densitySurvives(pdf, threshold) {
				t.Fatalf("expected path with density %f to survive threshold %f", pdf, threshold)
			}
		}
	}

	if densitySurvives(0.05, 0.1) || densitySurvives(1, 0.1) || densitySurvives(2, 0.1) {
		t.Fatal("expected densities outside (threshold, 1) to terminate the path")
	}
}

func TestStochasticRouletteMonotonicity(t *testing.T) {
	rng := NewRng(100, 0)
	for i := 0; i < 1000; i++ {
		u := rng.Float32()
		survived := false
		for _, p := range []float32{0.1, 0.25, 0.5, 0.75, 0.9, 1} {
			alive := stochasticSurvives(u, p)
			if survived && !alive {
				t.Fatalf("expected draw %f to keep surviving as the survival probability grows to %f", u, p)
			}
			survived = alive
		}
		if !survived {
			t.Fatalf("expected a survival probability of 1 to always continue the path; draw %f", u)
		}
	}
}

func TestRouletteModeFromName(t *testing.T) {
	for _, m := range []RouletteMode{RouletteOff, RouletteDensity, RouletteStochastic} {
		got, err := RouletteModeFromName(m.String())
		if err != nil || got != m {
			t.Fatalf("expected %s; got %s (%v)", m, got, err)
		}
	}
	if _, err := RouletteModeFromName("sometimes"); err == nil {
		t.Fatal("expected unknown mode error")
	}
}

func TestRadianceIsDeterministic(t *testing.T) {
	sc := scene.NewScene()
	sc.RussianRoulette = true
	sc.Background = types.Splat(0.5)
	white := scene.NewDiffuse("white", types.Splat(0.7))
	light := scene.NewEmissive("light", types.Splat(4))
	addSurface(t, sc, white, scene.NewQuad(types.IdentityFrame(), 2, white))
	addSurface(t, sc, light, scene.NewSphere(types.XYZ(0, 0, 2), 0.3, light))

	in := NewIntegrator(sc, sc, MixtureSampler{}, DefaultConfig())
	ray := types.NewRay(types.XYZ(0.3, 0.2, 4), types.XYZ(-0.1, 0, -1).Normalize())

	a := in.Radiance(ray, NewRng(1, 2))
	b := in.Radiance(ray, NewRng(1, 2))
	if a != b {
		t.Fatalf("expected identical estimates for identical streams; got %v and %v", a, b)
	}
	for c := 0; c < 3; c++ {
		if math.IsNaN(float64(a[c])) || math.IsInf(float64(a[c]), 0) || a[c] < 0 {
			t.Fatalf("expected finite non-negative radiance; got %v", a)
		}
	}
}

// Add a surface and, unless mat is nil, its material to sc.
func addSurface(t *testing.T, sc *scene.Scene, mat *scene.Material, surf *scene.Surface) {
	if mat != nil {
		if err := sc.AddMaterial(mat); err != nil {
			t.Fatal(err)
		}
	}
	if err := sc.AddSurface(surf); err != nil {
		t.Fatal(err)
	}
}
