package reader

import (
	"fmt"
	"math"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

// Number of built-in test scenes.
const NumTestScenes = 4

// Accumulates the first error raised while assembling a scene.
type sceneBuilder struct {
	sc  *scene.Scene
	err error
}

func newSceneBuilder(eye, target types.Vec3, height int) *sceneBuilder {
	sc := scene.NewScene()
	sc.SetCamera(scene.NewCamera(eye, target, types.XYZ(0, 1, 0), 1, 1))
	sc.SetResolution(height)
	return &sceneBuilder{sc: sc}
}

func (b *sceneBuilder) material(mat *scene.Material) *scene.Material {
	if b.err == nil {
		b.err = b.sc.AddMaterial(mat)
	}
	return mat
}

// Add a quad whose local frame is rotated by angle degrees around axis.
func (b *sceneBuilder) quad(pos, axis types.Vec3, angle, radius float32, mat *scene.Material) {
	if b.err == nil {
		b.err = b.sc.AddSurface(scene.NewQuad(types.FrameFromTR(pos, axis, angle), radius, mat))
	}
}

func (b *sceneBuilder) sphere(pos types.Vec3, radius float32, mat *scene.Material) {
	if b.err == nil {
		b.err = b.sc.AddSurface(scene.NewSphere(pos, radius, mat))
	}
}

func (b *sceneBuilder) build() (*scene.Scene, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.sc, nil
}

// Get built-in test scene by id.
func TestScene(id int) (*scene.Scene, error) {
	switch id {
	case 0:
		return litQuadScene()
	case 1:
		return boxScene()
	case 2:
		return texturedSpheresScene()
	case 3:
		return microfacetScene()
	}
	return nil, fmt.Errorf("reader: unknown test scene %d; valid ids are 0-%d", id, NumTestScenes-1)
}

// A diffuse floor lit by a single point light.
func litQuadScene() (*scene.Scene, error) {
	b := newSceneBuilder(types.XYZ(0, 2, 4), types.Vec3{}, 512)
	b.sc.Ambient = types.Splat(0.05)

	floor := b.material(scene.NewDiffuse("floor", types.Splat(0.7)))
	b.quad(types.Vec3{}, types.XYZ(1, 0, 0), -90, 2, floor)
	b.sc.AddLight(scene.NewLight(types.XYZ(0, 2, 0), types.Splat(8)))
	return b.build()
}

// A closed box lit by an emissive quad on the ceiling with a mirror sphere.
func boxScene() (*scene.Scene, error) {
	b := newSceneBuilder(types.XYZ(0, 1, 5.5), types.XYZ(0, 1, 0), 512)
	b.sc.Samples = 4
	b.sc.RussianRoulette = true

	white := b.material(scene.NewDiffuse("white", types.Splat(0.7)))
	red := b.material(scene.NewDiffuse("red", types.XYZ(0.7, 0.1, 0.1)))
	green := b.material(scene.NewDiffuse("green", types.XYZ(0.1, 0.7, 0.1)))
	light := b.material(scene.NewEmissive("light", types.Splat(12)))
	mirror := b.material(&scene.Material{
		Name: "mirror",
		Kd:   types.Splat(0.05),
		Ks:   types.Splat(0.2),
		Kr:   types.Splat(0.8),
		N:    200,
	})

	b.quad(types.XYZ(0, -1, 0), types.XYZ(1, 0, 0), -90, 2, white)
	b.quad(types.XYZ(0, 3, 0), types.XYZ(1, 0, 0), 90, 2, white)
	b.quad(types.XYZ(0, 1, -2), types.Vec3{}, 0, 2, white)
	b.quad(types.XYZ(-2, 1, 0), types.XYZ(0, 1, 0), 90, 2, red)
	b.quad(types.XYZ(2, 1, 0), types.XYZ(0, 1, 0), -90, 2, green)
	b.quad(types.XYZ(0, 2.99, 0), types.XYZ(1, 0, 0), 90, 0.5, light)

	b.sphere(types.XYZ(-0.7, -0.3, -0.5), 0.7, mirror)
	b.sphere(types.XYZ(0.8, -0.5, 0.4), 0.5, white)
	return b.build()
}

// Textured spheres on a checkered floor under a procedural sky.
func texturedSpheresScene() (*scene.Scene, error) {
	b := newSceneBuilder(types.XYZ(0, 1.5, 5), types.XYZ(0, 0.5, 0), 512)
	b.sc.Samples = 2
	b.sc.RussianRoulette = true

	checker, err := checkerTexture(64, 8, types.Splat(0.9), types.Splat(0.1))
	if err != nil {
		return nil, err
	}
	stripes, err := checkerTexture(64, 16, types.XYZ(0.9, 0.6, 0.2), types.XYZ(0.2, 0.3, 0.8))
	if err != nil {
		return nil, err
	}
	sky, err := skyTexture(128, 64)
	if err != nil {
		return nil, err
	}
	b.sc.Background = types.Splat(1)
	b.sc.BackgroundTexture = sky

	floor := b.material(&scene.Material{Name: "floor", Kd: types.Splat(0.8), KdTexture: checker, N: 1})
	ball := b.material(&scene.Material{Name: "ball", Kd: types.Splat(0.8), Ks: types.Splat(0.1), N: 50, KdTexture: stripes})
	chrome := b.material(&scene.Material{Name: "chrome", Kd: types.Splat(0.1), Ks: types.Splat(0.3), Kr: types.Splat(0.6), N: 100})

	b.quad(types.Vec3{}, types.XYZ(1, 0, 0), -90, 4, floor)
	b.sphere(types.XYZ(-1.2, 0.8, 0), 0.8, ball)
	b.sphere(types.XYZ(1.2, 0.8, 0), 0.8, chrome)
	b.sc.AddLight(scene.NewLight(types.XYZ(0, 4, 2), types.Splat(10)))
	return b.build()
}

// Microfacet spheres with increasing glossiness lit by a spherical area light.
func microfacetScene() (*scene.Scene, error) {
	b := newSceneBuilder(types.XYZ(0, 1.5, 6), types.XYZ(0, 0.5, 0), 512)
	b.sc.Samples = 2
	b.sc.Ambient = types.Splat(0.02)

	floor := b.material(scene.NewDiffuse("floor", types.Splat(0.5)))
	light := b.material(scene.NewEmissive("light", types.Splat(20)))
	b.quad(types.Vec3{}, types.XYZ(1, 0, 0), -90, 5, floor)
	b.sphere(types.XYZ(0, 4, 1), 0.5, light)

	for index, n := range []float32{10, 100, 1000} {
		mat := b.material(&scene.Material{
			Name:       fmt.Sprintf("gloss-%d", index),
			Kd:         types.XYZ(0.4, 0.2, 0.1),
			Ks:         types.Splat(0.04),
			N:          n,
			Microfacet: true,
		})
		b.sphere(types.XYZ(float32(index-1)*1.8, 0.7, 0), 0.7, mat)
	}
	return b.build()
}

// Generate a size x size checkerboard with the given number of cells per side.
func checkerTexture(size, cells int, c0, c1 types.Vec3) (*texture.Texture, error) {
	data := make([]types.Vec3, size*size)
	cellSize := size / cells
	for j := 0; j < size; j++ {
		for i := 0; i < size; i++ {
			if (i/cellSize+j/cellSize)%2 == 0 {
				data[j*size+i] = c0
			} else {
				data[j*size+i] = c1
			}
		}
	}
	return texture.FromData(size, size, data)
}

// Generate a latitude-longitude sky that fades from a blue zenith to a white
// horizon and a dark ground.
func skyTexture(width, height int) (*texture.Texture, error) {
	zenith := types.XYZ(0.3, 0.5, 1.0)
	horizon := types.Splat(1)
	ground := types.Splat(0.15)

	data := make([]types.Vec3, width*height)
	for j := 0; j < height; j++ {
		// Row j sits at v = (j+0.5)/height and v = 1 is the zenith
		elevation := float32(math.Cos(math.Pi * (1 - (float64(j)+0.5)/float64(height))))
		var c types.Vec3
		if elevation > 0 {
			c = horizon.Mul(1 - elevation).Add(zenith.Mul(elevation))
		} else {
			c = ground
		}
		for i := 0; i < width; i++ {
			data[j*width+i] = c
		}
	}
	return texture.FromData(width, height, data)
}
