package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/achilleasa/lumen/types"
)

// A Frame holds the linear radiance estimate for each pixel. Row 0 is the
// bottom row of the camera sensor.
type Frame struct {
	Width  int
	Height int
	Pix    []types.Vec3
}

// Allocate a black frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]types.Vec3, width*height),
	}
}

// Get pixel (i, j).
func (f *Frame) At(i, j int) types.Vec3 {
	return f.Pix[j*f.Width+i]
}

// Set pixel (i, j).
func (f *Frame) Set(i, j int, c types.Vec3) {
	f.Pix[j*f.Width+i] = c
}

// Tonemap the frame into an 8-bit image. Each channel is scaled by exposure,
// gamma corrected and clamped to [0, 1]. The rows are flipped so the top of
// the sensor becomes the first image row.
func (f *Frame) ToRGBA(exposure, gamma float32) *image.RGBA {
	if gamma <= 0 {
		gamma = 1
	}
	invGamma := 1 / float64(gamma)

	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for j := 0; j < f.Height; j++ {
		for i := 0; i < f.Width; i++ {
			c := f.At(i, j).Mul(exposure)
			img.SetRGBA(i, f.Height-1-j, color.RGBA{
				R: toByte(c[0], invGamma),
				G: toByte(c[1], invGamma),
				B: toByte(c[2], invGamma),
				A: 255,
			})
		}
	}
	return img
}

func toByte(v float32, invGamma float64) uint8 {
	if !(v > 0) {
		return 0
	}
	g := math.Pow(float64(v), invGamma)
	if g >= 1 {
		return 255
	}
	return uint8(g*255 + 0.5)
}
