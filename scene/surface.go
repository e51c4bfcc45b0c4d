package scene

import (
	"math"

	"github.com/achilleasa/lumen/types"
)

type ShapeType uint8

const (
	QuadShape ShapeType = iota
	SphereShape
)

func (s ShapeType) String() string {
	switch s {
	case QuadShape:
		return "quad"
	case SphereShape:
		return "sphere"
	}
	return "invalid"
}

// Lookup a shape type by its name.
func ShapeTypeFromName(name string) (ShapeType, bool) {
	switch name {
	case "quad":
		return QuadShape, true
	case "sphere":
		return SphereShape, true
	}
	return 0, false
}

// A Surface is a quad or a sphere positioned by a frame.
//
// Quads lie on the local XY plane, span [-Radius, Radius] on both axes and face
// local +Z. Spheres are centered at the frame origin.
type Surface struct {
	Shape  ShapeType
	Frame  types.Frame
	Radius float32

	// The surface material. Must be added to the scene before the surface.
	Material *Material
}

// Create new quad surface.
func NewQuad(frame types.Frame, radius float32, material *Material) *Surface {
	return &Surface{
		Shape:    QuadShape,
		Frame:    frame,
		Radius:   radius,
		Material: material,
	}
}

// Create new sphere surface.
func NewSphere(center types.Vec3, radius float32, material *Material) *Surface {
	return &Surface{
		Shape:    SphereShape,
		Frame:    types.TranslationFrame(center),
		Radius:   radius,
		Material: material,
	}
}

// Returns true if the surface acts as an area light.
func (s *Surface) IsEmissive() bool {
	return s.Material != nil && s.Material.IsEmissive()
}

// Get surface area.
func (s *Surface) Area() float32 {
	switch s.Shape {
	case QuadShape:
		return 4 * s.Radius * s.Radius
	case SphereShape:
		return 4 * math.Pi * s.Radius * s.Radius
	}
	return 0
}

// Map a uniform 2D sample to a point on the surface. It returns the world
// space position, normal and the surface area; dividing by the area converts
// the uniform sample to an area density.
func (s *Surface) SamplePoint(uv types.Vec2) (pos, norm types.Vec3, area float32) {
	switch s.Shape {
	case QuadShape:
		local := types.XYZ((uv[0]-0.5)*2*s.Radius, (uv[1]-0.5)*2*s.Radius, 0)
		pos = s.Frame.TransformPoint(local)
		norm = s.Frame.TransformNormal(types.XYZ(0, 0, 1))
	case SphereShape:
		dir := types.SampleSphereUniform(uv)
		pos = s.Frame.TransformPoint(dir.Mul(s.Radius))
		norm = s.Frame.TransformNormal(dir)
	}
	return pos, norm, s.Area()
}

// Intersect a ray with the surface. On a hit, it returns the ray distance and
// the shading record.
func (s *Surface) Intersect(ray types.Ray) (Intersection, bool) {
	switch s.Shape {
	case QuadShape:
		return s.intersectQuad(ray)
	case SphereShape:
		return s.intersectSphere(ray)
	}
	return Intersection{}, false
}

func (s *Surface) intersectQuad(ray types.Ray) (Intersection, bool) {
	// Work in local space where the quad lies on z = 0
	o := s.Frame.InverseTransformPoint(ray.Origin)
	d := s.Frame.InverseTransformVector(ray.Dir)
	if d[2] == 0 {
		return Intersection{}, false
	}

	t := -o[2] / d[2]
	if t < ray.TMin || t > ray.TMax {
		return Intersection{}, false
	}

	p := o.Add(d.Mul(t))
	if p[0] < -s.Radius || p[0] > s.Radius || p[1] < -s.Radius || p[1] > s.Radius {
		return Intersection{}, false
	}

	return Intersection{
		Hit:      true,
		T:        t,
		Pos:      ray.At(t),
		Norm:     s.Frame.TransformNormal(types.XYZ(0, 0, 1)),
		TexCoord: types.XY((p[0]/s.Radius+1)*0.5, (p[1]/s.Radius+1)*0.5),
		Material: s.Material,
	}, true
}

func (s *Surface) intersectSphere(ray types.Ray) (Intersection, bool) {
	oc := ray.Origin.Sub(s.Frame.Origin)
	a := ray.Dir.LenSqr()
	b := 2 * oc.Dot(ray.Dir)
	c := oc.LenSqr() - s.Radius*s.Radius
	det := b*b - 4*a*c
	if det < 0 || a == 0 {
		return Intersection{}, false
	}

	sqrtDet := float32(math.Sqrt(float64(det)))
	t := (-b - sqrtDet) / (2 * a)
	if t < ray.TMin || t > ray.TMax {
		t = (-b + sqrtDet) / (2 * a)
		if t < ray.TMin || t > ray.TMax {
			return Intersection{}, false
		}
	}

	pos := ray.At(t)
	norm := pos.Sub(s.Frame.Origin).Normalize()

	// Latitude-longitude parametrization in the sphere's local frame
	ln := s.Frame.InverseTransformVector(norm)
	u := float32(math.Atan2(float64(ln[1]), float64(ln[0])) / (2 * math.Pi))
	if u < 0 {
		u += 1
	}
	v := float32(math.Acos(float64(types.Clamp(ln[2], -1, 1))) / math.Pi)

	return Intersection{
		Hit:      true,
		T:        t,
		Pos:      pos,
		Norm:     norm,
		TexCoord: types.XY(u, v),
		Material: s.Material,
	}, true
}
