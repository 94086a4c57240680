// Package level turns YAML level descriptions into populated scenes: birds
// waiting at the slingshot, platforms with a pig on each, walls, and the
// collision rules between them.
package level

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rigid2d/internal/core/geom"
	"github.com/zeusync/rigid2d/internal/core/physics"
)

//go:embed levels/*.yaml
var builtin embed.FS

var (
	ErrUnknownLevel = errors.New("unknown level")
	ErrInvalidLevel = errors.New("invalid level")
)

type Shape string

const (
	ShapeCircle   Shape = "circle"
	ShapeTriangle Shape = "triangle"
)

// Point is a geom.Vector written as [x, y].
type Point geom.Vector

func (p *Point) UnmarshalYAML(node *yaml.Node) error {
	var xy []float64
	if err := node.Decode(&xy); err != nil {
		return err
	}
	if len(xy) != 2 {
		return fmt.Errorf("line %d: point needs 2 components, got %d", node.Line, len(xy))
	}
	*p = Point{X: xy[0], Y: xy[1]}
	return nil
}

func (p Point) Vector() geom.Vector { return geom.Vector(p) }

type Bird struct {
	Kind  string        `yaml:"kind"`
	Shape Shape         `yaml:"shape"`
	At    Point         `yaml:"at"`
	Color physics.Color `yaml:"color"`
}

// Description is one level as written in YAML. The first bird is the one
// sitting in the slingshot.
type Description struct {
	Name      string  `yaml:"name"`
	Birds     []Bird  `yaml:"birds"`
	Platforms []Point `yaml:"platforms"`
	Walls     []Point `yaml:"walls"`
}

// Names lists the embedded levels.
func Names() []string {
	entries, err := fs.ReadDir(builtin, "levels")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	slices.Sort(names)
	return names
}

// Load resolves name to an embedded level, or reads it from disk when it names
// a .yaml file.
func Load(name string) (*Description, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		data, err = os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading level file: %w", err)
		}
	} else {
		data, err = builtin.ReadFile("levels/" + name + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, name)
		}
	}
	return Parse(data)
}

func Parse(data []byte) (*Description, error) {
	d := &Description{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("parsing level: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Description) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLevel)
	}
	if len(d.Birds) == 0 {
		return fmt.Errorf("%w: %s has no birds", ErrInvalidLevel, d.Name)
	}
	for i, b := range d.Birds {
		switch b.Shape {
		case ShapeCircle, ShapeTriangle:
		default:
			return fmt.Errorf("%w: %s bird %d has shape %q", ErrInvalidLevel, d.Name, i, b.Shape)
		}
		if !b.At.Vector().IsFinite() {
			return fmt.Errorf("%w: %s bird %d position", ErrInvalidLevel, d.Name, i)
		}
	}
	for _, pts := range [][]Point{d.Platforms, d.Walls} {
		for _, p := range pts {
			if !p.Vector().IsFinite() {
				return fmt.Errorf("%w: %s has a non-finite position", ErrInvalidLevel, d.Name)
			}
		}
	}
	return nil
}
