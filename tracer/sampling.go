package tracer

import "github.com/achilleasa/lumen/types"

// The DirectionSampler interface is implemented by objects that importance
// sample outgoing directions for a material.
type DirectionSampler interface {
	// Sample an outgoing direction for view direction v at a point with
	// normal norm using the random point r2 and the random number r1.
	// It returns the direction and its probability density with respect to
	// solid angle. A zero density marks a direction that must not be used.
	SampleBRDF(kd, ks types.Vec3, n float32, v, norm types.Vec3, r2 types.Vec2, r1 float32) (types.Vec3, float32)
}

// MixtureSampler picks either a cosine weighted direction around the normal or
// a Phong lobe direction around the mirror direction, in proportion to the
// average diffuse and specular coefficients.
type MixtureSampler struct{}

func (MixtureSampler) SampleBRDF(kd, ks types.Vec3, n float32, v, norm types.Vec3, r2 types.Vec2, r1 float32) (types.Vec3, float32) {
	wd := max(0, kd.Mean())
	ws := max(0, ks.Mean())
	if wd+ws <= 0 {
		return types.Vec3{}, 0
	}
	pd := wd / (wd + ws)
	n = max(0, n)

	refl := v.Neg().Reflect(norm)

	var dir types.Vec3
	if r1 < pd {
		dir = types.FrameFromZ(types.Vec3{}, norm).TransformVector(types.SampleCosineHemisphere(r2))
	} else {
		dir = types.FrameFromZ(types.Vec3{}, refl).TransformVector(types.SamplePhongLobe(r2, n))
	}
	dir = dir.Normalize()

	cosTheta := norm.Dot(dir)
	if cosTheta <= 0 {
		return dir, 0
	}

	pdf := pd*types.PdfCosineHemisphere(cosTheta) + (1-pd)*types.PdfPhongLobe(refl.Dot(dir), n)
	return dir, pdf
}
