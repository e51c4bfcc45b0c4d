package types

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// A Frame positions an object in world space with an origin and three
// orthonormal axes. Scene surfaces, lights and the camera are all defined in
// the local space of a frame.
type Frame struct {
	Origin Vec3
	X      Vec3
	Y      Vec3
	Z      Vec3
}

// Create a frame aligned with the world axes.
func IdentityFrame() Frame {
	return Frame{
		X: Vec3{1, 0, 0},
		Y: Vec3{0, 1, 0},
		Z: Vec3{0, 0, 1},
	}
}

// Create an axis-aligned frame centered at origin.
func TranslationFrame(origin Vec3) Frame {
	f := IdentityFrame()
	f.Origin = origin
	return f
}

// Create a frame at eye whose -Z axis points towards target.
func LookAtFrame(eye, target, up Vec3) Frame {
	z := eye.Sub(target).Normalize()
	x := up.Cross(z).Normalize()
	if x.IsZero() {
		// up is parallel to the view direction; pick any perpendicular axis
		x = Vec3{1, 0, 0}.Cross(z).Normalize()
		if x.IsZero() {
			x = Vec3{0, 1, 0}.Cross(z).Normalize()
		}
	}
	y := z.Cross(x)
	return Frame{Origin: eye, X: x, Y: y, Z: z}
}

// Create a frame from a translation and a rotation of angle degrees around axis.
func FrameFromTR(origin, axis Vec3, angleDeg float32) Frame {
	if axis.IsZero() || angleDeg == 0 {
		return TranslationFrame(origin)
	}
	q := mgl32.QuatRotate(mgl32.DegToRad(angleDeg), mgl32.Vec3(axis.Normalize()))
	return FrameFromMat4(mgl32.Translate3D(origin[0], origin[1], origin[2]).Mul4(q.Mat4()))
}

// Extract a frame from an affine transformation matrix. Axes are
// re-orthonormalized so scaled matrices still produce a valid frame.
func FrameFromMat4(m mgl32.Mat4) Frame {
	z := Vec3(m.Col(2).Vec3()).Normalize()
	y := Vec3(m.Col(1).Vec3())
	x := y.Cross(z).Normalize()
	y = z.Cross(x)
	return Frame{
		Origin: Vec3(m.Col(3).Vec3()),
		X:      x,
		Y:      y,
		Z:      z,
	}
}

// Get the local to world transformation matrix.
func (f Frame) Mat4() mgl32.Mat4 {
	return mgl32.Mat4FromCols(
		mgl32.Vec3(f.X).Vec4(0),
		mgl32.Vec3(f.Y).Vec4(0),
		mgl32.Vec3(f.Z).Vec4(0),
		mgl32.Vec3(f.Origin).Vec4(1),
	)
}

func (f Frame) rotation() mgl32.Mat3 {
	return mgl32.Mat3FromCols(mgl32.Vec3(f.X), mgl32.Vec3(f.Y), mgl32.Vec3(f.Z))
}

// Transform a point from local to world space.
func (f Frame) TransformPoint(p Vec3) Vec3 {
	return Vec3(f.rotation().Mul3x1(mgl32.Vec3(p))).Add(f.Origin)
}

// Transform a direction from local to world space.
func (f Frame) TransformVector(v Vec3) Vec3 {
	return Vec3(f.rotation().Mul3x1(mgl32.Vec3(v)))
}

// Transform a normal from local to world space. Frames are orthonormal so the
// rotation itself is the inverse transpose.
func (f Frame) TransformNormal(n Vec3) Vec3 {
	return f.TransformVector(n).Normalize()
}

// Transform a world space point to the frame's local space.
func (f Frame) InverseTransformPoint(p Vec3) Vec3 {
	d := p.Sub(f.Origin)
	return Vec3{d.Dot(f.X), d.Dot(f.Y), d.Dot(f.Z)}
}

// Transform a world space direction to the frame's local space.
func (f Frame) InverseTransformVector(v Vec3) Vec3 {
	return Vec3{v.Dot(f.X), v.Dot(f.Y), v.Dot(f.Z)}
}

// Transform a ray from local to world space.
func (f Frame) TransformRay(r Ray) Ray {
	return Ray{
		Origin: f.TransformPoint(r.Origin),
		Dir:    f.TransformVector(r.Dir),
		TMin:   r.TMin,
		TMax:   r.TMax,
	}
}

// RayEpsilon offsets ray origins and segment ends to avoid self intersections.
const RayEpsilon float32 = 1e-4

// A Ray is defined by an origin, a unit direction and a valid [TMin, TMax] range.
type Ray struct {
	Origin Vec3
	Dir    Vec3
	TMin   float32
	TMax   float32
}

// Create an unbounded ray.
func NewRay(origin, dir Vec3) Ray {
	return Ray{
		Origin: origin,
		Dir:    dir,
		TMin:   RayEpsilon,
		TMax:   float32(math.Inf(1)),
	}
}

// Create a ray segment from p1 to p2 that stops just short of p2.
func NewSegment(p1, p2 Vec3) Ray {
	d := p2.Sub(p1)
	l := d.Len()
	return Ray{
		Origin: p1,
		Dir:    d.Normalize(),
		TMin:   RayEpsilon,
		TMax:   l - RayEpsilon,
	}
}

// Evaluate the ray position at distance t.
func (r Ray) At(t float32) Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}
