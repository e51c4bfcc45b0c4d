package scene

import (
	"bytes"
	"fmt"

	"github.com/achilleasa/lumen/asset/texture"
	"github.com/olekukonko/tablewriter"
)

// Generate a table with scene statistics.
func (s *Scene) Stats() string {
	var quads, spheres, emissive int
	textures := make(map[*texture.Texture]struct{})
	for _, surf := range s.Surfaces {
		switch surf.Shape {
		case QuadShape:
			quads++
		case SphereShape:
			spheres++
		}
		if surf.IsEmissive() {
			emissive++
		}
	}
	for _, mat := range s.Materials {
		for _, tex := range []*texture.Texture{mat.KeTexture, mat.KdTexture, mat.KsTexture} {
			if tex != nil {
				textures[tex] = struct{}{}
			}
		}
	}
	if s.BackgroundTexture != nil {
		textures[s.BackgroundTexture] = struct{}{}
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene attribute", "Value"})
	table.Append([]string{"Resolution", fmt.Sprintf("%dx%d", s.ImageWidth, s.ImageHeight)})
	table.Append([]string{"Samples per pixel", fmt.Sprintf("%d (%dx%d)", s.Samples*s.Samples, s.Samples, s.Samples)})
	table.Append([]string{"Materials", fmt.Sprintf("%d", len(s.Materials))})
	table.Append([]string{"Textures", fmt.Sprintf("%d", len(textures))})
	table.Append([]string{"Quads", fmt.Sprintf("%d", quads)})
	table.Append([]string{"Spheres", fmt.Sprintf("%d", spheres)})
	table.Append([]string{"Emissive surfaces", fmt.Sprintf("%d", emissive)})
	table.Append([]string{"Point lights", fmt.Sprintf("%d", len(s.Lights))})
	table.Append([]string{"Environment", s.environmentInfo()})
	table.Append([]string{"Shadows", fmt.Sprintf("%t", s.PathShadows)})
	table.Append([]string{"Russian roulette", fmt.Sprintf("%t", s.RussianRoulette)})
	table.Append([]string{"Blurry reflection", fmt.Sprintf("%t", s.BlurryReflection)})
	table.Render()

	return buf.String()
}

func (s *Scene) environmentInfo() string {
	switch {
	case s.Background.IsZero():
		return "none"
	case s.BackgroundTexture != nil:
		return fmt.Sprintf("%v x %dx%d texture", s.Background, s.BackgroundTexture.Width, s.BackgroundTexture.Height)
	}
	return fmt.Sprintf("%v", s.Background)
}
