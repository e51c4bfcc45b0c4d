package texture

import (
	"fmt"
	"image"
	"math"

	// Register decoders for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
)

// A texture image stored as linear RGB floats. Row 0 is the bottom image row
// so that v grows upwards, matching surface texture coordinates, the
// environment mapping and the render frame.
type Texture struct {
	Name string

	Width  int
	Height int

	Data []types.Vec3
}

// Create a new texture by decoding a Resource. Supported formats are png, jpeg,
// gif, bmp, tiff and webp. When linearize is true, 8-bit sRGB values are
// converted to linear space with a 2.2 gamma.
func New(res *asset.Resource, linearize bool) (*Texture, error) {
	img, format, err := image.Decode(res)
	if err != nil {
		return nil, fmt.Errorf("texture: could not decode %s: %w", res.Path(), err)
	}

	tex := FromImage(img, linearize)
	tex.Name = res.Path()
	if tex.Width == 0 || tex.Height == 0 {
		return nil, fmt.Errorf("texture: %s image %s has no pixels", format, res.Path())
	}
	return tex, nil
}

// Convert an image into a texture. Image rows are flipped so the top image row
// ends up at v = 1.
func FromImage(img image.Image, linearize bool) *Texture {
	b := img.Bounds()
	tex := &Texture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Data:   make([]types.Vec3, b.Dx()*b.Dy()),
	}

	for y := 0; y < tex.Height; y++ {
		for x := 0; x < tex.Width; x++ {
			r, g, b16, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			c := types.XYZ(float32(r)/0xffff, float32(g)/0xffff, float32(b16)/0xffff)
			if linearize {
				c = types.XYZ(toLinear(c[0]), toLinear(c[1]), toLinear(c[2]))
			}
			tex.Data[(tex.Height-1-y)*tex.Width+x] = c
		}
	}
	return tex
}

// Create a texture from raw linear RGB data.
func FromData(width, height int, data []types.Vec3) (*Texture, error) {
	if width <= 0 || height <= 0 || len(data) != width*height {
		return nil, fmt.Errorf("texture: expected %dx%d texels; got %d", width, height, len(data))
	}
	return &Texture{Width: width, Height: height, Data: data}, nil
}

// Fetch the texel at (i, j). Indices outside the image are clamped to the edge.
func (t *Texture) At(i, j int) types.Vec3 {
	i = types.ClampInt(i, 0, t.Width-1)
	j = types.ClampInt(j, 0, t.Height-1)
	return t.Data[j*t.Width+i]
}

func toLinear(v float32) float32 {
	return float32(math.Pow(float64(v), 2.2))
}
