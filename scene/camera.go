package scene

import (
	"fmt"

	"github.com/achilleasa/lumen/types"
)

// The camera type defines a pinhole camera. The image plane sits at distance 1
// along the local -Z axis of the camera frame and spans Width x Height units.
type Camera struct {
	Frame types.Frame

	// Sensor size at unit distance.
	Width  float32
	Height float32
}

// Create a camera located at eye looking at target.
func NewCamera(eye, target, up types.Vec3, width, height float32) *Camera {
	return &Camera{
		Frame:  types.LookAtFrame(eye, target, up),
		Width:  width,
		Height: height,
	}
}

// Generate the world space ray through sensor coordinates (u, v) in [0, 1]^2.
// (0, 0) maps to the bottom-left corner of the sensor.
func (c *Camera) Ray(u, v float32) types.Ray {
	dir := types.XYZ((u-0.5)*c.Width, (v-0.5)*c.Height, -1).Normalize()
	return c.Frame.TransformRay(types.NewRay(types.Vec3{}, dir))
}

// Get the sensor aspect ratio.
func (c *Camera) Aspect() float32 {
	return c.Width / c.Height
}

func (c *Camera) String() string {
	return fmt.Sprintf(
		"camera at (%3.3f, %3.3f, %3.3f) looking towards (%3.3f, %3.3f, %3.3f), sensor %3.3fx%3.3f",
		c.Frame.Origin[0], c.Frame.Origin[1], c.Frame.Origin[2],
		-c.Frame.Z[0], -c.Frame.Z[1], -c.Frame.Z[2],
		c.Width, c.Height,
	)
}
