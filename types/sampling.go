package types

import "math"

// Map a uniform 2D sample to a uniformly distributed direction on the unit sphere.
func SampleSphereUniform(uv Vec2) Vec3 {
	z := 1 - 2*uv[1]
	r := float32(math.Sqrt(math.Max(0, float64(1-z*z))))
	phi := 2 * math.Pi * float64(uv[0])
	return Vec3{r * float32(math.Cos(phi)), r * float32(math.Sin(phi)), z}
}

// Probability density of SampleSphereUniform w.r.t. solid angle.
func PdfSphereUniform() float32 {
	return 1 / (4 * math.Pi)
}

// Map a uniform 2D sample to a cosine weighted direction in the local +Z hemisphere.
func SampleCosineHemisphere(uv Vec2) Vec3 {
	phi := 2 * math.Pi * float64(uv[0])
	r := math.Sqrt(float64(uv[1]))
	z := float32(math.Sqrt(math.Max(0, 1-float64(uv[1]))))
	return Vec3{float32(r * math.Cos(phi)), float32(r * math.Sin(phi)), z}
}

// Probability density of a cosine weighted direction with the given cosine.
func PdfCosineHemisphere(cosTheta float32) float32 {
	if cosTheta <= 0 {
		return 0
	}
	return cosTheta / math.Pi
}

// Map a uniform 2D sample to a direction around local +Z distributed as cos^n.
func SamplePhongLobe(uv Vec2, n float32) Vec3 {
	phi := 2 * math.Pi * float64(uv[0])
	cosTheta := math.Pow(float64(uv[1]), 1/(float64(n)+1))
	sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
	return Vec3{float32(sinTheta * math.Cos(phi)), float32(sinTheta * math.Sin(phi)), float32(cosTheta)}
}

// Probability density of a Phong lobe direction with the given cosine to the lobe axis.
func PdfPhongLobe(cosAlpha, n float32) float32 {
	if cosAlpha <= 0 {
		return 0
	}
	return (n + 1) / (2 * math.Pi) * float32(math.Pow(float64(cosAlpha), float64(n)))
}

// Build an orthonormal frame at origin whose Z axis is z.
func FrameFromZ(origin, z Vec3) Frame {
	z = z.Normalize()
	var t Vec3
	if z[0] > 0.9 || z[0] < -0.9 {
		t = Vec3{0, 1, 0}
	} else {
		t = Vec3{1, 0, 0}
	}
	x := t.Cross(z).Normalize()
	y := z.Cross(x)
	return Frame{Origin: origin, X: x, Y: y, Z: z}
}
