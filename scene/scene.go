package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/types"
)

// A point light.
type Light struct {
	// The light position is the frame origin.
	Frame types.Frame

	Intensity types.Vec3
}

// Create a point light at pos.
func NewLight(pos, intensity types.Vec3) *Light {
	return &Light{
		Frame:     types.TranslationFrame(pos),
		Intensity: intensity,
	}
}

// The result of a ray query. Material is a reference into the scene's
// material list.
type Intersection struct {
	Hit      bool
	T        float32
	Pos      types.Vec3
	Norm     types.Vec3
	TexCoord types.Vec2
	Material *Material
}

type Scene struct {
	Camera *Camera

	Materials []*Material
	Surfaces  []*Surface
	Lights    []*Light

	// Constant ambient term and environment.
	Ambient           types.Vec3
	Background        types.Vec3
	BackgroundTexture *texture.Texture

	// Image resolution and number of samples per pixel along each axis.
	ImageWidth  int
	ImageHeight int
	Samples     int

	// Rendering toggles.
	PathShadows      bool
	RussianRoulette  bool
	BlurryReflection bool
}

func NewScene() *Scene {
	return &Scene{
		Materials:   make([]*Material, 0),
		Surfaces:    make([]*Surface, 0),
		Lights:      make([]*Light, 0),
		ImageWidth:  512,
		ImageHeight: 512,
		Samples:     1,
		PathShadows: true,
	}
}

// Attach a camera to the scene.
func (s *Scene) SetCamera(camera *Camera) {
	s.Camera = camera
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	for _, mat := range s.Materials {
		if mat == material {
			return fmt.Errorf("scene: material already added")
		}
	}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a surface to the scene.
func (s *Scene) AddSurface(surface *Surface) error {
	for _, surf := range s.Surfaces {
		if surf == surface {
			return fmt.Errorf("scene: surface already added")
		}
	}
	if surface.Material == nil {
		return fmt.Errorf("scene: no material assigned to surface")
	}
	for _, mat := range s.Materials {
		if mat == surface.Material {
			s.Surfaces = append(s.Surfaces, surface)
			return nil
		}
	}

	return fmt.Errorf("scene: surface references unknown material; ensure that the material is added to the scene before adding the surface")
}

// Add a point light to the scene.
func (s *Scene) AddLight(light *Light) {
	s.Lights = append(s.Lights, light)
}

// Override the image height and derive the width from the camera aspect ratio.
func (s *Scene) SetResolution(height int) {
	s.ImageHeight = height
	if s.Camera != nil && s.Camera.Height > 0 {
		s.ImageWidth = int(s.Camera.Width * float32(height) / s.Camera.Height)
	}
}

// Check that the scene can be rendered.
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return errors.New("scene: no camera defined")
	}
	if s.Camera.Width <= 0 || s.Camera.Height <= 0 {
		return fmt.Errorf("scene: invalid camera sensor size %fx%f", s.Camera.Width, s.Camera.Height)
	}
	if s.ImageWidth <= 0 || s.ImageHeight <= 0 {
		return fmt.Errorf("scene: invalid image resolution %dx%d", s.ImageWidth, s.ImageHeight)
	}
	if s.Samples <= 0 {
		return fmt.Errorf("scene: invalid samples per pixel axis %d", s.Samples)
	}
	for index, surf := range s.Surfaces {
		if surf.Material == nil {
			return fmt.Errorf("scene: surface %d has no material", index)
		}
		if surf.Radius < 0 || math.IsNaN(float64(surf.Radius)) {
			return fmt.Errorf("scene: surface %d has invalid radius %f", index, surf.Radius)
		}
	}
	return nil
}

// Get the surfaces that act as area lights. Emissive surfaces with a zero
// area are skipped. A new slice is returned on each call.
func (s *Scene) EmissiveSurfaces() []*Surface {
	var emissive []*Surface
	for _, surf := range s.Surfaces {
		if surf.IsEmissive() && surf.Area() > 0 {
			emissive = append(emissive, surf)
		}
	}
	return emissive
}

// Find the nearest surface hit by ray.
func (s *Scene) Intersect(ray types.Ray) Intersection {
	var nearest Intersection
	for _, surf := range s.Surfaces {
		if hit, ok := surf.Intersect(ray); ok {
			nearest = hit
			ray.TMax = hit.T
		}
	}
	return nearest
}

// Returns true if ray hits any surface within its [TMin, TMax] range.
func (s *Scene) Occluded(ray types.Ray) bool {
	for _, surf := range s.Surfaces {
		if _, ok := surf.Intersect(ray); ok {
			return true
		}
	}
	return false
}
