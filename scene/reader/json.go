package reader

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/achilleasa/lumen/asset"
	"github.com/achilleasa/lumen/asset/texture"
	"github.com/achilleasa/lumen/log"
	"github.com/achilleasa/lumen/scene"
	"github.com/achilleasa/lumen/types"
)

type jsonCamera struct {
	From   []float32 `json:"from"`
	To     []float32 `json:"to"`
	Up     []float32 `json:"up"`
	Width  float32   `json:"width"`
	Height float32   `json:"height"`
}

type jsonImage struct {
	Width   int `json:"width"`
	Height  int `json:"height"`
	Samples int `json:"samples"`
}

type jsonMaterial struct {
	Ke         []float32 `json:"ke"`
	Kd         []float32 `json:"kd"`
	Ks         []float32 `json:"ks"`
	Kr         []float32 `json:"kr"`
	N          *float32  `json:"n"`
	Microfacet bool      `json:"microfacet"`
	KeTexture  string    `json:"ke_txt"`
	KdTexture  string    `json:"kd_txt"`
	KsTexture  string    `json:"ks_txt"`
}

type jsonRotation struct {
	Axis  []float32 `json:"axis"`
	Angle float32   `json:"angle"`
}

type jsonSurface struct {
	Shape    string        `json:"shape"`
	Position []float32     `json:"position"`
	Rotation *jsonRotation `json:"rotation"`
	Radius   *float32      `json:"radius"`
	Material string        `json:"material"`
}

type jsonLight struct {
	Position  []float32 `json:"position"`
	Intensity []float32 `json:"intensity"`
}

type jsonScene struct {
	Camera            *jsonCamera              `json:"camera"`
	Image             jsonImage                `json:"image"`
	Ambient           []float32                `json:"ambient"`
	Background        []float32                `json:"background"`
	BackgroundTexture string                   `json:"background_txt"`
	PathShadows       *bool                    `json:"path_shadows"`
	RussianRoulette   bool                     `json:"russian_roulette"`
	BlurryReflection  bool                     `json:"blurry_reflection"`
	Materials         map[string]*jsonMaterial `json:"materials"`
	Surfaces          []*jsonSurface           `json:"surfaces"`
	Lights            []*jsonLight             `json:"lights"`
}

type jsonSceneReader struct {
	logger log.Logger

	// The resource being parsed; textures are resolved relative to it.
	sceneRes *asset.Resource

	// Textures loaded so far keyed by their referenced path.
	textureCache map[string]*texture.Texture
}

func newJSONReader() *jsonSceneReader {
	return &jsonSceneReader{
		logger:       log.New("json scene reader"),
		textureCache: make(map[string]*texture.Texture),
	}
}

// Read scene definition.
func (r *jsonSceneReader) Read(sceneRes *asset.Resource) (*scene.Scene, error) {
	r.logger.Noticef("parsing scene from %s", sceneRes.Path())
	start := time.Now()
	r.sceneRes = sceneRes

	var def jsonScene
	if err := json.NewDecoder(sceneRes).Decode(&def); err != nil {
		return nil, fmt.Errorf("reader: could not decode %s: %w", sceneRes.Path(), err)
	}

	sc, err := r.build(&def)
	if err != nil {
		return nil, err
	}

	if err = sc.Validate(); err != nil {
		return nil, err
	}

	r.logger.Noticef("parsed scene in %d ms", time.Since(start).Nanoseconds()/1000000)
	return sc, nil
}

func (r *jsonSceneReader) build(def *jsonScene) (*scene.Scene, error) {
	var err error
	sc := scene.NewScene()

	if def.Camera == nil {
		return nil, fmt.Errorf("reader: missing camera definition")
	}
	if sc.Camera, err = r.camera(def.Camera); err != nil {
		return nil, err
	}

	if def.Image.Samples != 0 {
		sc.Samples = def.Image.Samples
	}
	switch {
	case def.Image.Width != 0 && def.Image.Height != 0:
		sc.ImageWidth, sc.ImageHeight = def.Image.Width, def.Image.Height
	case def.Image.Height != 0:
		sc.SetResolution(def.Image.Height)
	default:
		sc.SetResolution(sc.ImageHeight)
	}

	if sc.Ambient, err = parseVec3("ambient", def.Ambient, types.Vec3{}); err != nil {
		return nil, err
	}
	if sc.Background, err = parseVec3("background", def.Background, types.Vec3{}); err != nil {
		return nil, err
	}
	if def.BackgroundTexture != "" {
		if sc.BackgroundTexture, err = r.texture(def.BackgroundTexture); err != nil {
			return nil, err
		}
	}
	if def.PathShadows != nil {
		sc.PathShadows = *def.PathShadows
	}
	sc.RussianRoulette = def.RussianRoulette
	sc.BlurryReflection = def.BlurryReflection

	// Add materials sorted by name so scene layout does not depend on map order
	names := make([]string, 0, len(def.Materials))
	for name := range def.Materials {
		names = append(names, name)
	}
	sort.Strings(names)

	matByName := make(map[string]*scene.Material, len(names))
	for _, name := range names {
		mat, err := r.material(name, def.Materials[name])
		if err != nil {
			return nil, err
		}
		if err = sc.AddMaterial(mat); err != nil {
			return nil, err
		}
		matByName[name] = mat
	}

	for index, surfDef := range def.Surfaces {
		surf, err := r.surface(index, surfDef, matByName)
		if err != nil {
			return nil, err
		}
		if err = sc.AddSurface(surf); err != nil {
			return nil, err
		}
	}

	for index, lightDef := range def.Lights {
		if lightDef == nil {
			return nil, fmt.Errorf("reader: light %d: empty definition", index)
		}
		pos, err := parseVec3(fmt.Sprintf("light %d position", index), lightDef.Position, types.Vec3{})
		if err != nil {
			return nil, err
		}
		intensity, err := parseVec3(fmt.Sprintf("light %d intensity", index), lightDef.Intensity, types.Splat(1))
		if err != nil {
			return nil, err
		}
		sc.AddLight(scene.NewLight(pos, intensity))
	}

	r.logger.Infof("loaded %d materials, %d surfaces, %d lights and %d textures", len(sc.Materials), len(sc.Surfaces), len(sc.Lights), len(r.textureCache))
	return sc, nil
}

func (r *jsonSceneReader) camera(def *jsonCamera) (*scene.Camera, error) {
	from, err := parseVec3("camera from", def.From, types.XYZ(0, 0, 1))
	if err != nil {
		return nil, err
	}
	to, err := parseVec3("camera to", def.To, types.Vec3{})
	if err != nil {
		return nil, err
	}
	up, err := parseVec3("camera up", def.Up, types.XYZ(0, 1, 0))
	if err != nil {
		return nil, err
	}

	width, height := def.Width, def.Height
	if width == 0 {
		width = 1
	}
	if height == 0 {
		height = 1
	}
	return scene.NewCamera(from, to, up, width, height), nil
}

func (r *jsonSceneReader) material(name string, def *jsonMaterial) (*scene.Material, error) {
	if def == nil {
		return nil, fmt.Errorf("reader: material '%s': empty definition", name)
	}

	var err error
	mat := &scene.Material{Name: name, N: 1, Microfacet: def.Microfacet}
	if def.N != nil {
		mat.N = *def.N
	}

	for _, param := range []struct {
		name  string
		value []float32
		dst   *types.Vec3
	}{
		{"ke", def.Ke, &mat.Ke},
		{"kd", def.Kd, &mat.Kd},
		{"ks", def.Ks, &mat.Ks},
		{"kr", def.Kr, &mat.Kr},
	} {
		if *param.dst, err = parseVec3(fmt.Sprintf("material '%s' %s", name, param.name), param.value, types.Vec3{}); err != nil {
			return nil, err
		}
	}

	for _, param := range []struct {
		path string
		dst  **texture.Texture
	}{
		{def.KeTexture, &mat.KeTexture},
		{def.KdTexture, &mat.KdTexture},
		{def.KsTexture, &mat.KsTexture},
	} {
		if param.path == "" {
			continue
		}
		if *param.dst, err = r.texture(param.path); err != nil {
			return nil, fmt.Errorf("reader: material '%s': %w", name, err)
		}
	}

	return mat, nil
}

func (r *jsonSceneReader) surface(index int, def *jsonSurface, matByName map[string]*scene.Material) (*scene.Surface, error) {
	if def == nil {
		return nil, fmt.Errorf("reader: surface %d: empty definition", index)
	}

	shape, ok := scene.ShapeTypeFromName(def.Shape)
	if !ok {
		return nil, fmt.Errorf("reader: surface %d: unknown shape '%s'", index, def.Shape)
	}

	mat, ok := matByName[def.Material]
	if !ok {
		return nil, fmt.Errorf("reader: surface %d: undefined material '%s'", index, def.Material)
	}

	pos, err := parseVec3(fmt.Sprintf("surface %d position", index), def.Position, types.Vec3{})
	if err != nil {
		return nil, err
	}

	frame := types.TranslationFrame(pos)
	if def.Rotation != nil {
		axis, err := parseVec3(fmt.Sprintf("surface %d rotation axis", index), def.Rotation.Axis, types.XYZ(0, 0, 1))
		if err != nil {
			return nil, err
		}
		frame = types.FrameFromTR(pos, axis, def.Rotation.Angle)
	}

	radius := float32(1)
	if def.Radius != nil {
		radius = *def.Radius
	}

	return &scene.Surface{
		Shape:    shape,
		Frame:    frame,
		Radius:   radius,
		Material: mat,
	}, nil
}

// Load a texture referenced by the scene, reusing already loaded textures.
func (r *jsonSceneReader) texture(path string) (*texture.Texture, error) {
	if tex, exists := r.textureCache[path]; exists {
		return tex, nil
	}

	res, err := asset.NewResource(path, r.sceneRes)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	r.logger.Infof("loading texture %s", res.Path())
	tex, err := texture.New(res, true)
	if err != nil {
		return nil, err
	}
	r.textureCache[path] = tex
	return tex, nil
}

// Convert a 3-element JSON array to a vector. A missing value yields def.
func parseVec3(name string, v []float32, def types.Vec3) (types.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return types.XYZ(v[0], v[1], v[2]), nil
	}
	return types.Vec3{}, fmt.Errorf("reader: %s: expected 3 components; got %d", name, len(v))
}
