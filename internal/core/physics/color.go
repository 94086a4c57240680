package physics

// Color is an RGB triple with components in [0, 1]. The engine carries it for
// renderers and never reads it.
type Color struct {
	R float32 `yaml:"r"`
	G float32 `yaml:"g"`
	B float32 `yaml:"b"`
}

var (
	Black = Color{}
	White = Color{R: 1, G: 1, B: 1}
)
