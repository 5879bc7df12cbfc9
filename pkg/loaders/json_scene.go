package loaders

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/df07/go-raymarcher/pkg/core"
	"github.com/df07/go-raymarcher/pkg/geometry"
	"github.com/df07/go-raymarcher/pkg/lights"
	"github.com/df07/go-raymarcher/pkg/material"
	"github.com/df07/go-raymarcher/pkg/scene"
	"github.com/df07/go-raymarcher/pkg/sdf"
)

// ErrInvalidScene is wrapped by every error caused by the content of a scene file
var ErrInvalidScene = errors.New("invalid scene file")

// Vec3 is a JSON triple, [x, y, z] or [r, g, b]
type Vec3 [3]float64

func (v Vec3) vec() core.Vec3     { return core.NewVec3(v[0], v[1], v[2]) }
func (v Vec3) point() core.Point3 { return core.NewPoint3(v[0], v[1], v[2]) }
func (v Vec3) color() core.Color  { return core.NewColor(v[0], v[1], v[2]) }

// SceneFile is the on-disk form of a scene
type SceneFile struct {
	Name        string `json:"name"`
	Variant     string `json:"variant,omitempty"`
	Description string `json:"description,omitempty"`
	Group       string `json:"group,omitempty"`

	Camera     CameraCfg     `json:"camera"`
	Materials  []MaterialCfg `json:"materials,omitempty"`
	Ambient    *Vec3         `json:"ambient,omitempty"` // defaults to 0.5 grey
	Lights     []LightCfg    `json:"lights,omitempty"`
	Background BackgroundCfg `json:"background"`
	SDF        *NodeCfg      `json:"sdf"`
}

type CameraCfg struct {
	LookFrom    Vec3    `json:"lookFrom"`
	LookAt      Vec3    `json:"lookAt"`
	Up          *Vec3   `json:"up,omitempty"`          // defaults to +y
	VFov        float64 `json:"vfov,omitempty"`        // degrees, defaults to 60
	AspectRatio float64 `json:"aspectRatio,omitempty"` // defaults to 16:9
}

// MaterialCfg describes a Phong material. Color fills any of ambient, diffuse
// and specular that are not given.
type MaterialCfg struct {
	Name         string  `json:"name"`
	Color        *Vec3   `json:"color,omitempty"`
	Ambient      *Vec3   `json:"ambient,omitempty"`
	Diffuse      *Vec3   `json:"diffuse,omitempty"`
	Specular     *Vec3   `json:"specular,omitempty"`
	Shininess    float64 `json:"shininess"`
	Reflectivity float64 `json:"reflectivity,omitempty"`
}

type LightCfg struct {
	Type           string   `json:"type"`               // "point" or "directional"
	Position       *Vec3    `json:"position,omitempty"` // required for point lights
	Direction      Vec3     `json:"direction,omitempty"`
	Color          *Vec3    `json:"color,omitempty"`
	Diffuse        *Vec3    `json:"diffuse,omitempty"`
	Specular       *Vec3    `json:"specular,omitempty"`
	Strength       *float64 `json:"strength,omitempty"`
	ShadowHardness *float64 `json:"shadowHardness,omitempty"` // 0 is allowed and means fully dark
}

type BackgroundCfg struct {
	Type  string `json:"type,omitempty"` // "gradient" (default) or "constant"
	From  *Vec3  `json:"from,omitempty"`
	To    *Vec3  `json:"to,omitempty"`
	Color Vec3   `json:"color,omitempty"`
}

// NodeCfg is one node of the distance field tree. Which fields apply depends
// on Type:
//
//	sphere        center, radius
//	box           center, halfExtents
//	cube          center, side
//	floor         height
//	halfspace     point, normal
//	union         children (one or more)
//	intersection  children (exactly two)
//	difference    children (exactly two, the second is subtracted)
//	translate     offset, child
//	scale         factor, child
//	rotate        degrees, axis, child
//
// Material may be set on any node and tags the whole subtree.
type NodeCfg struct {
	Type     string `json:"type"`
	Material string `json:"material,omitempty"`

	Center      Vec3    `json:"center,omitempty"`
	Radius      float64 `json:"radius,omitempty"`
	HalfExtents Vec3    `json:"halfExtents,omitempty"`
	Side        float64 `json:"side,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Point       Vec3    `json:"point,omitempty"`
	Normal      Vec3    `json:"normal,omitempty"`
	Offset      Vec3    `json:"offset,omitempty"`
	Factor      float64 `json:"factor,omitempty"`
	Degrees     float64 `json:"degrees,omitempty"`
	Axis        Vec3    `json:"axis,omitempty"`

	Child    *NodeCfg  `json:"child,omitempty"`
	Children []NodeCfg `json:"children,omitempty"`
}

// LoadSceneFile reads and builds a JSON scene. Non-zero fields of
// cameraOverrides replace the file's camera settings.
func LoadSceneFile(path string, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, *SceneFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	s, file, err := ParseScene(data, cameraOverrides...)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, file, nil
}

// ParseScene decodes and builds a JSON scene
func ParseScene(data []byte, cameraOverrides ...geometry.CameraConfig) (*scene.Scene, *SceneFile, error) {
	var file SceneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	s, err := file.Build(cameraOverrides...)
	if err != nil {
		return nil, nil, err
	}
	return s, &file, nil
}

// Build validates and constructs the runtime scene
func (f *SceneFile) Build(cameraOverrides ...geometry.CameraConfig) (*scene.Scene, error) {
	cameraConfig := f.Camera.config()
	for _, override := range cameraOverrides {
		cameraConfig = geometry.MergeCameraConfig(cameraConfig, override)
	}
	camera, err := geometry.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: camera: %w", ErrInvalidScene, err)
	}

	materials := material.NewList()
	names := make(map[string]material.Index, len(f.Materials))
	for i, mc := range f.Materials {
		if mc.Name == "" {
			return nil, fmt.Errorf("%w: material %d has no name", ErrInvalidScene, i)
		}
		if _, dup := names[mc.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate material %q", ErrInvalidScene, mc.Name)
		}
		names[mc.Name] = materials.Add(mc.build())
	}

	if f.SDF == nil {
		return nil, fmt.Errorf("%w: missing sdf", ErrInvalidScene)
	}
	root, err := f.SDF.build(names, "sdf")
	if err != nil {
		return nil, err
	}

	sceneLights := make([]lights.Light, 0, len(f.Lights))
	for i, lc := range f.Lights {
		light, err := lc.build()
		if err != nil {
			return nil, fmt.Errorf("%w: light %d: %v", ErrInvalidScene, i, err)
		}
		sceneLights = append(sceneLights, light)
	}

	background, err := f.Background.build()
	if err != nil {
		return nil, err
	}

	ambient := core.NewColor(0.5, 0.5, 0.5)
	if f.Ambient != nil {
		ambient = f.Ambient.color()
	}

	return &scene.Scene{
		Camera:     camera,
		SDF:        root,
		Materials:  materials,
		Ambient:    lights.NewAmbient(ambient),
		Lights:     sceneLights,
		Background: background,
	}, nil
}

func (c CameraCfg) config() geometry.CameraConfig {
	config := geometry.CameraConfig{
		LookFrom:    c.LookFrom.point(),
		LookAt:      c.LookAt.point(),
		Up:          core.NewVec3(0, 1, 0),
		VFov:        c.VFov,
		AspectRatio: c.AspectRatio,
	}
	if c.Up != nil {
		config.Up = c.Up.vec()
	}
	if config.VFov == 0 {
		config.VFov = 60
	}
	if config.AspectRatio == 0 {
		config.AspectRatio = 16.0 / 9.0
	}
	return config
}

func (mc MaterialCfg) build() material.Material {
	base := core.White()
	if mc.Color != nil {
		base = mc.Color.color()
	}
	m := material.NewSingleColor(base, mc.Shininess)
	if mc.Ambient != nil {
		m.Ambient = mc.Ambient.color()
	}
	if mc.Diffuse != nil {
		m.Diffuse = mc.Diffuse.color()
	}
	if mc.Specular != nil {
		m.Specular = mc.Specular.color()
	}
	return m.WithReflectivity(mc.Reflectivity)
}

func (lc LightCfg) build() (lights.Light, error) {
	diffuse, specular := core.White(), core.White()
	if lc.Color != nil {
		diffuse, specular = lc.Color.color(), lc.Color.color()
	}
	if lc.Diffuse != nil {
		diffuse = lc.Diffuse.color()
	}
	if lc.Specular != nil {
		specular = lc.Specular.color()
	}

	if lc.ShadowHardness != nil && *lc.ShadowHardness < 0 {
		return nil, fmt.Errorf("shadow hardness must not be negative, got %g", *lc.ShadowHardness)
	}

	switch lc.Type {
	case "point", "":
		if lc.Position == nil {
			return nil, fmt.Errorf("point light needs a position")
		}
		light := lights.NewPoint(lc.Position.point(), diffuse, specular)
		if lc.Strength != nil {
			light.Strength = *lc.Strength
		}
		if lc.ShadowHardness != nil {
			light.ShadowHardness = *lc.ShadowHardness
		}
		return light, nil

	case "directional":
		if lc.Direction.vec().IsZero() {
			return nil, fmt.Errorf("directional light needs a non-zero direction")
		}
		light := lights.NewDirectional(lc.Direction.vec(), diffuse, specular)
		if lc.Strength != nil {
			light.Strength = *lc.Strength
		}
		if lc.ShadowHardness != nil {
			light.ShadowHardness = *lc.ShadowHardness
		}
		return light, nil

	default:
		return nil, fmt.Errorf("unknown light type %q", lc.Type)
	}
}

func (bc BackgroundCfg) build() (scene.Background, error) {
	switch bc.Type {
	case "", "gradient":
		g := scene.SkyGradient()
		if bc.From != nil {
			g.From = bc.From.color()
		}
		if bc.To != nil {
			g.To = bc.To.color()
		}
		return g, nil
	case "constant":
		return scene.Constant{Color: bc.Color.color()}, nil
	default:
		return nil, fmt.Errorf("%w: unknown background type %q", ErrInvalidScene, bc.Type)
	}
}

// build constructs the node and its subtree. path locates the node in error
// messages, e.g. sdf.children[1].child.
func (n *NodeCfg) build(names map[string]material.Index, path string) (sdf.SDF, error) {
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s (%s): %s", ErrInvalidScene, path, n.Type, fmt.Sprintf(format, args...))
	}

	child := func() (sdf.SDF, error) {
		if n.Child == nil {
			return nil, fail("missing child")
		}
		return n.Child.build(names, path+".child")
	}

	children := func(minCount, maxCount int) ([]sdf.SDF, error) {
		if len(n.Children) < minCount || (maxCount > 0 && len(n.Children) > maxCount) {
			if minCount == maxCount {
				return nil, fail("needs exactly %d children, got %d", minCount, len(n.Children))
			}
			return nil, fail("needs at least %d children, got %d", minCount, len(n.Children))
		}
		built := make([]sdf.SDF, len(n.Children))
		for i := range n.Children {
			s, err := n.Children[i].build(names, fmt.Sprintf("%s.children[%d]", path, i))
			if err != nil {
				return nil, err
			}
			built[i] = s
		}
		return built, nil
	}

	var node sdf.SDF
	switch n.Type {
	case "sphere":
		if n.Radius <= 0 {
			return nil, fail("radius must be positive, got %g", n.Radius)
		}
		node = sdf.NewSphere(n.Center.point(), n.Radius)

	case "box":
		h := n.HalfExtents
		if h[0] <= 0 || h[1] <= 0 || h[2] <= 0 {
			return nil, fail("half extents must be positive, got %v", h)
		}
		node = sdf.NewBox(n.Center.point(), h.vec())

	case "cube":
		if n.Side <= 0 {
			return nil, fail("side must be positive, got %g", n.Side)
		}
		node = sdf.NewCube(n.Center.point(), n.Side)

	case "floor":
		node = sdf.NewFloor(n.Height)

	case "halfspace":
		if n.Normal.vec().IsZero() {
			return nil, fail("normal must be non-zero")
		}
		node = sdf.NewHalfSpace(n.Point.point(), n.Normal.vec())

	case "union":
		parts, err := children(1, 0)
		if err != nil {
			return nil, err
		}
		node = sdf.UnionAll(parts[0], parts[1:]...)

	case "intersection":
		parts, err := children(2, 2)
		if err != nil {
			return nil, err
		}
		node = sdf.Intersection(parts[0], parts[1])

	case "difference":
		parts, err := children(2, 2)
		if err != nil {
			return nil, err
		}
		node = sdf.Difference(parts[0], parts[1])

	case "translate":
		c, err := child()
		if err != nil {
			return nil, err
		}
		node = sdf.Translate(c, n.Offset.vec())

	case "scale":
		if n.Factor <= 0 {
			return nil, fail("factor must be positive, got %g", n.Factor)
		}
		c, err := child()
		if err != nil {
			return nil, err
		}
		node = sdf.ScaleUniform(c, n.Factor)

	case "rotate":
		if n.Axis.vec().IsZero() {
			return nil, fail("axis must be non-zero")
		}
		c, err := child()
		if err != nil {
			return nil, err
		}
		node = sdf.RotateDegrees(c, n.Degrees, n.Axis.vec())

	default:
		return nil, fail("unknown node type")
	}

	if n.Material != "" {
		index, ok := names[n.Material]
		if !ok {
			return nil, fail("unknown material %q", n.Material)
		}
		node = sdf.WithMaterial(node, index)
	}
	return node, nil
}
