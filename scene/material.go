package scene

import (
	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/types"
)

// Defines a scene material. Each coefficient may be modulated by an optional
// texture; a nil texture leaves the coefficient unchanged. Materials are
// shared by surfaces and never modified while rendering.
type Material struct {
	Name string

	// Emissive color (if material is light).
	Ke types.Vec3

	// Diffuse color.
	Kd types.Vec3

	// Specular color.
	Ks types.Vec3

	// Mirror reflection coefficient.
	Kr types.Vec3

	// Specular exponent.
	N float32

	// Use the microfacet shading model instead of the modified Phong model.
	Microfacet bool

	// Optional textures for Ke, Kd and Ks.
	KeTexture *texture.Texture
	KdTexture *texture.Texture
	KsTexture *texture.Texture
}

// Create a diffuse material.
func NewDiffuse(name string, kd types.Vec3) *Material {
	return &Material{
		Name: name,
		Kd:   kd,
		N:    1,
	}
}

// Create an emissive material.
func NewEmissive(name string, ke types.Vec3) *Material {
	return &Material{
		Name: name,
		Ke:   ke,
		N:    1,
	}
}

// Returns true if the material emits light.
func (m *Material) IsEmissive() bool {
	return !m.Ke.IsZero()
}

// Returns true if the material has a mirror reflection component.
func (m *Material) IsReflective() bool {
	return !m.Kr.IsZero()
}
