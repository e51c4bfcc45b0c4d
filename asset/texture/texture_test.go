package texture

import (
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/types"
)

func TestPngTexture(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})

	imgRes, err := mockImage(t, img)
	if err != nil {
		t.Fatal(err)
	}
	defer imgRes.Close()

	tex, err := New(imgRes, false)
	if err != nil {
		t.Fatal(err)
	}

	if tex.Width != 2 || tex.Height != 1 {
		t.Fatalf("expected tex dims to be 2x1; got %dx%d", tex.Width, tex.Height)
	}
	if !types.ApproxEqual(tex.At(0, 0), types.XYZ(1, 0, 0), 1e-6) {
		t.Fatalf("expected texel (0,0) to be red; got %v", tex.At(0, 0))
	}
	if !types.ApproxEqual(tex.At(1, 0), types.XYZ(0, 0, 1), 1e-6) {
		t.Fatalf("expected texel (1,0) to be blue; got %v", tex.At(1, 0))
	}
}

func TestPngTextureRowOrder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(0, 1, color.RGBA{0, 255, 0, 255})
	img.Set(0, 2, color.RGBA{0, 0, 255, 255})

	imgRes, err := mockImage(t, img)
	if err != nil {
		t.Fatal(err)
	}
	defer imgRes.Close()

	tex, err := New(imgRes, false)
	if err != nil {
		t.Fatal(err)
	}

	// Row 0 is the image bottom
	type spec struct {
		row int
		exp types.Vec3
	}
	specs := []spec{
		{0, types.XYZ(0, 0, 1)},
		{1, types.XYZ(0, 1, 0)},
		{2, types.XYZ(1, 0, 0)},
	}
	for index, s := range specs {
		if got := tex.At(0, s.row); !types.ApproxEqual(got, s.exp, 1e-6) {
			t.Fatalf("[spec %d] expected texel (0,%d) to be %v; got %v", index, s.row, s.exp, got)
		}
	}

	// v = 1 samples the top of the image
	if got := Lookup(types.Splat(1), tex, types.XY(0, 1), false, false); !types.ApproxEqual(got, types.XYZ(1, 0, 0), 1e-6) {
		t.Fatalf("expected lookup at v = 1 to return the top image row; got %v", got)
	}
}

func TestStreamHttpTexture(t *testing.T) {
	serverFn := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/texture.png" {
			png.Encode(w, image.NewRGBA64(image.Rect(0, 0, 1, 1)))
		} else {
			http.NotFound(w, r)
		}
	})
	server := httptest.NewServer(serverFn)
	defer server.Close()

	imgRes, err := asset.NewResource(server.URL+"/texture.png", nil)
	if err != nil {
		t.Fatal(err)
	}
	defer imgRes.Close()

	tex, err := New(imgRes, true)
	if err != nil {
		t.Fatal(err)
	}

	if tex.Width != 1 || tex.Height != 1 {
		t.Fatalf("expected tex dims to be 1x1; got %dx%d", tex.Width, tex.Height)
	}
}

func TestInvalidTexture(t *testing.T) {
	res := asset.NewResourceFromStream("broken.png", strings.NewReader("not an image"))
	if _, err := New(res, false); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLookupWithoutTexture(t *testing.T) {
	base := types.XYZ(0.2, 0.4, 0.6)
	for _, uv := range []types.Vec2{{0, 0}, {0.5, 0.5}, {-3, 7.25}} {
		if got := Lookup(base, nil, uv, true, true); got != base {
			t.Fatalf("expected nil texture lookup at %v to return base; got %v", uv, got)
		}
	}
}

func TestLookupTilingPeriodicity(t *testing.T) {
	tex := checkerTexture(t, 4, 4)
	base := types.XYZ(1, 0.5, 0.25)

	for _, uv := range []types.Vec2{{0, 0}, {0.125, 0.375}, {0.5, 0.75}, {0.875, 0.0625}} {
		exp := Lookup(base, tex, uv, true, true)
		if got := Lookup(base, tex, uv.Add(types.XY(1, 0)), true, true); !types.ApproxEqual(got, exp, 1e-5) {
			t.Fatalf("expected lookup at %v+(1,0) to equal %v; got %v", uv, exp, got)
		}
		if got := Lookup(base, tex, uv.Add(types.XY(0, 1)), true, true); !types.ApproxEqual(got, exp, 1e-5) {
			t.Fatalf("expected lookup at %v+(0,1) to equal %v; got %v", uv, exp, got)
		}
		if got := Lookup(base, tex, uv.Add(types.XY(-2, 0)), true, true); !types.ApproxEqual(got, exp, 1e-5) {
			t.Fatalf("expected lookup at %v-(2,0) to equal %v; got %v", uv, exp, got)
		}
	}
}

func TestBilinearMatchesNearestOnGrid(t *testing.T) {
	tex := checkerTexture(t, 8, 4)
	base := types.XYZ(0.5, 1, 1)

	for i := 0; i < tex.Width; i++ {
		for j := 0; j < tex.Height; j++ {
			uv := types.XY(float32(i)/float32(tex.Width), float32(j)/float32(tex.Height))
			bl := Lookup(base, tex, uv, false, true)
			nn := Lookup(base, tex, uv, false, false)
			if !types.ApproxEqual(bl, nn, 1e-5) {
				t.Fatalf("[texel %d,%d] expected bilinear %v to match nearest %v", i, j, bl, nn)
			}
			if !types.ApproxEqual(nn, base.MulVec(tex.At(i, j)), 1e-6) {
				t.Fatalf("[texel %d,%d] expected nearest to fetch tinted texel; got %v", i, j, nn)
			}
		}
	}
}

func TestBilinearBlend(t *testing.T) {
	tex, err := FromData(2, 1, []types.Vec3{types.Splat(0), types.Splat(1)})
	if err != nil {
		t.Fatal(err)
	}

	got := Lookup(types.Splat(1), tex, types.XY(0.25, 0), false, true)
	if !types.ApproxEqual(got, types.Splat(0.5), 1e-6) {
		t.Fatalf("expected halfway blend; got %v", got)
	}
}

func TestLookupClampsOutOfRange(t *testing.T) {
	tex := checkerTexture(t, 2, 2)
	base := types.Splat(1)

	type spec struct {
		uv  types.Vec2
		exp types.Vec3
	}
	specs := []spec{
		{types.XY(-1, -1), tex.At(0, 0)},
		{types.XY(5, 5), tex.At(1, 1)},
		{types.XY(1, 0), tex.At(1, 0)},
	}
	for index, s := range specs {
		got := Lookup(base, tex, s.uv, false, true)
		if !types.ApproxEqual(got, s.exp, 1e-6) {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, got)
		}
	}
}

func checkerTexture(t *testing.T, w, h int) *Texture {
	data := make([]types.Vec3, w*h)
	for j := 0; j < h; j++ {
		for i := 0; i < w; i++ {
			data[j*w+i] = types.XYZ(float32(i)/float32(w), float32(j)/float32(h), float32((i+j)%2))
		}
	}
	tex, err := FromData(w, h, data)
	if err != nil {
		t.Fatal(err)
	}
	return tex
}

func mockImage(t *testing.T, img image.Image) (*asset.Resource, error) {
	imgFile := filepath.Join(t.TempDir(), "test.png")
	f, err := os.Create(imgFile)
	if err != nil {
		return nil, err
	}

	err = png.Encode(f, img)
	f.Close()
	if err != nil {
		return nil, err
	}

	return asset.NewResource(imgFile, nil)
}
