package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// BoundaryPolicy decides what happens when an agent reaches a surface edge.
type BoundaryPolicy uint8

const (
	// Wrap treats the surface as a torus.
	Wrap BoundaryPolicy = iota
	// Bounce reflects agents off the edges.
	Bounce
)

var boundaryNames = map[BoundaryPolicy]string{
	Wrap:   "wrap",
	Bounce: "bounce",
}

func (b BoundaryPolicy) String() string {
	if s, ok := boundaryNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BoundaryPolicy(%d)", b)
}

// UnmarshalYAML parses a policy name.
func (b *BoundaryPolicy) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum(n, boundaryNames)
	if err != nil {
		return fmt.Errorf("boundary policy: %w", err)
	}
	*b = v
	return nil
}

// MarshalYAML writes the policy name.
func (b BoundaryPolicy) MarshalYAML() (any, error) { return b.String(), nil }

// ColorPolicy selects how field values become pixels.
type ColorPolicy uint8

const (
	ColorPosition ColorPolicy = iota
	ColorDirection
	ColorGrayscale
	ColorSpeed
)

var colorNames = map[ColorPolicy]string{
	ColorPosition:  "position",
	ColorDirection: "direction",
	ColorGrayscale: "grayscale",
	ColorSpeed:     "speed",
}

func (c ColorPolicy) String() string {
	if s, ok := colorNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ColorPolicy(%d)", c)
}

// UnmarshalYAML parses a color policy name.
func (c *ColorPolicy) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum(n, colorNames)
	if err != nil {
		return fmt.Errorf("color policy: %w", err)
	}
	*c = v
	return nil
}

// MarshalYAML writes the color policy name.
func (c ColorPolicy) MarshalYAML() (any, error) { return c.String(), nil }

// Arrangement is the initial agent placement strategy.
type Arrangement uint8

const (
	RandomScatter Arrangement = iota
	Ring
	OriginBurst
)

var arrangementNames = map[Arrangement]string{
	RandomScatter: "random_scatter",
	Ring:          "ring",
	OriginBurst:   "origin_burst",
}

func (a Arrangement) String() string {
	if s, ok := arrangementNames[a]; ok {
		return s
	}
	return fmt.Sprintf("Arrangement(%d)", a)
}

// UnmarshalYAML parses an arrangement name.
func (a *Arrangement) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum(n, arrangementNames)
	if err != nil {
		return fmt.Errorf("arrangement: %w", err)
	}
	*a = v
	return nil
}

// MarshalYAML writes the arrangement name.
func (a Arrangement) MarshalYAML() (any, error) { return a.String(), nil }

// Backend selects the compute dispatch implementation.
type Backend uint8

const (
	BackendPool Backend = iota
	BackendSerial
)

var backendNames = map[Backend]string{
	BackendPool:   "pool",
	BackendSerial: "serial",
}

func (b Backend) String() string {
	if s, ok := backendNames[b]; ok {
		return s
	}
	return fmt.Sprintf("Backend(%d)", b)
}

// UnmarshalYAML parses a backend name.
func (b *Backend) UnmarshalYAML(n *yaml.Node) error {
	v, err := parseEnum(n, backendNames)
	if err != nil {
		return fmt.Errorf("compute backend: %w", err)
	}
	*b = v
	return nil
}

// MarshalYAML writes the backend name.
func (b Backend) MarshalYAML() (any, error) { return b.String(), nil }

func parseEnum[T comparable](n *yaml.Node, names map[T]string) (T, error) {
	var zero T
	var s string
	if err := n.Decode(&s); err != nil {
		return zero, err
	}
	for v, name := range names {
		if name == s {
			return v, nil
		}
	}
	return zero, fmt.Errorf("%w: unknown value %q", ErrInvalidConfig, s)
}
