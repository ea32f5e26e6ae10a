package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownParam is returned by [ParseParam] for names that are not a [Param].
var ErrUnknownParam = errors.New("unknown style parameter")

// Point is a position on the diagram plane.
type Point struct {
	X float64 `json:"x" yaml:"x" toml:"x"`
	Y float64 `json:"y" yaml:"y" toml:"y"`
}

// Add returns p translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// String formats the point as "(x, y)".
func (p Point) String() string { return fmt.Sprintf("(%g, %g)", p.X, p.Y) }

// Param enumerates the numeric style parameters.
type Param int

const (
	// ParamHandleLength is the length of the curve control handles.
	ParamHandleLength Param = iota
	// ParamCrossingDistance is the gap left where one strand passes under another.
	ParamCrossingDistance
	// ParamCuspAngle is the minimum angle that produces a cusp.
	ParamCuspAngle
	// ParamCuspDistance is how far a cusp extends from its node.
	ParamCuspDistance
	// ParamEdgeSlide moves the crossing point along the edge (0..1, 0.5 is the middle).
	ParamEdgeSlide
)

var paramNames = [...]string{
	ParamHandleLength:     "handle-length",
	ParamCrossingDistance: "crossing-distance",
	ParamCuspAngle:        "cusp-angle",
	ParamCuspDistance:     "cusp-distance",
	ParamEdgeSlide:        "edge-slide",
}

// Params returns every parameter in declaration order.
func Params() []Param {
	return []Param{ParamHandleLength, ParamCrossingDistance, ParamCuspAngle, ParamCuspDistance, ParamEdgeSlide}
}

func (p Param) String() string {
	if p < 0 || int(p) >= len(paramNames) {
		return fmt.Sprintf("param(%d)", int(p))
	}
	return paramNames[p]
}

// ParseParam returns the parameter with the given name.
// Underscores are accepted in place of dashes.
func ParseParam(s string) (Param, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for i, name := range paramNames {
		if name == s {
			return Param(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParam, s)
}

// ForNodes reports whether node styles carry the parameter.
func (p Param) ForNodes() bool { return p.NodeFeature() != 0 }

// ForEdges reports whether edge styles carry the parameter.
func (p Param) ForEdges() bool { return p.EdgeFeature() != 0 }

// NodeFeature returns the enable bit of the parameter in [NodeStyle], or 0.
func (p Param) NodeFeature() NodeFeatures {
	switch p {
	case ParamHandleLength:
		return NodeHandleLength
	case ParamCrossingDistance:
		return NodeCrossingDistance
	case ParamCuspAngle:
		return NodeCuspAngle
	case ParamCuspDistance:
		return NodeCuspDistance
	}
	return 0
}

// EdgeFeature returns the enable bit of the parameter in [EdgeStyle], or 0.
func (p Param) EdgeFeature() EdgeFeatures {
	switch p {
	case ParamHandleLength:
		return EdgeHandleLength
	case ParamCrossingDistance:
		return EdgeCrossingDistance
	case ParamEdgeSlide:
		return EdgeSlideOffset
	}
	return 0
}

// NodeFeatures is the set of node style parameters that are set explicitly.
type NodeFeatures uint8

const (
	NodeHandleLength NodeFeatures = 1 << iota
	NodeCrossingDistance
	NodeCuspAngle
	NodeCuspDistance
	NodeShape

	// NodeNothing inherits everything from the diagram default.
	NodeNothing NodeFeatures = 0
	// NodeAll overrides every default.
	NodeAll = NodeHandleLength | NodeCrossingDistance | NodeCuspAngle | NodeCuspDistance | NodeShape
)

// Has reports whether every bit of f is set.
func (s NodeFeatures) Has(f NodeFeatures) bool { return s&f == f }

func (s NodeFeatures) String() string {
	return flagString(uint8(s), []string{"handle-length", "crossing-distance", "cusp-angle", "cusp-distance", "cusp-shape"})
}

// EdgeFeatures is the set of edge style parameters that are set explicitly.
type EdgeFeatures uint8

const (
	EdgeHandleLength EdgeFeatures = 1 << iota
	EdgeCrossingDistance
	EdgeSlideOffset
	EdgeKind

	// EdgeNothing inherits everything from the diagram default.
	EdgeNothing EdgeFeatures = 0
	// EdgeAll overrides every default.
	EdgeAll = EdgeHandleLength | EdgeCrossingDistance | EdgeSlideOffset | EdgeKind
)

// Has reports whether every bit of f is set.
func (s EdgeFeatures) Has(f EdgeFeatures) bool { return s&f == f }

func (s EdgeFeatures) String() string {
	return flagString(uint8(s), []string{"handle-length", "crossing-distance", "edge-slide", "edge-type"})
}

func flagString(bits uint8, names []string) string {
	if bits == 0 {
		return "none"
	}
	var parts []string
	for i, name := range names {
		if bits&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// NodeStyle describes how the strands bend around a node.
// The zero value inherits everything.
type NodeStyle struct {
	HandleLength     float64      `json:"handle_length" yaml:"handle_length" toml:"handle_length"`
	CrossingDistance float64      `json:"crossing_distance" yaml:"crossing_distance" toml:"crossing_distance"`
	CuspAngle        float64      `json:"cusp_angle" yaml:"cusp_angle" toml:"cusp_angle"`
	CuspDistance     float64      `json:"cusp_distance" yaml:"cusp_distance" toml:"cusp_distance"`
	CuspShape        CuspShape    `json:"cusp_shape" yaml:"cusp_shape" toml:"cusp_shape"`
	Enabled          NodeFeatures `json:"enabled" yaml:"enabled" toml:"enabled"`
}

// DefaultNodeStyle returns the diagram-wide node defaults.
func DefaultNodeStyle() NodeStyle {
	return NodeStyle{
		HandleLength:     24,
		CrossingDistance: 10,
		CuspAngle:        225,
		CuspDistance:     24,
		CuspShape:        CuspPointed,
		Enabled:          NodeAll,
	}
}

// Get returns the value of p, or 0 if node styles do not carry p.
func (s NodeStyle) Get(p Param) float64 {
	switch p {
	case ParamHandleLength:
		return s.HandleLength
	case ParamCrossingDistance:
		return s.CrossingDistance
	case ParamCuspAngle:
		return s.CuspAngle
	case ParamCuspDistance:
		return s.CuspDistance
	}
	return 0
}

// Set assigns v to p. Parameters node styles do not carry are ignored.
func (s *NodeStyle) Set(p Param, v float64) {
	switch p {
	case ParamHandleLength:
		s.HandleLength = v
	case ParamCrossingDistance:
		s.CrossingDistance = v
	case ParamCuspAngle:
		s.CuspAngle = v
	case ParamCuspDistance:
		s.CuspDistance = v
	}
}

// Resolve returns s with every disabled parameter taken from def.
// The result has every feature enabled.
func (s NodeStyle) Resolve(def NodeStyle) NodeStyle {
	out := def
	for _, p := range Params() {
		if f := p.NodeFeature(); f != 0 && s.Enabled.Has(f) {
			out.Set(p, s.Get(p))
		}
	}
	if s.Enabled.Has(NodeShape) {
		out.CuspShape = s.CuspShape
	}
	out.Enabled = NodeAll
	return out
}

// EdgeStyle describes how the strands cross over an edge.
// The zero value inherits everything.
type EdgeStyle struct {
	HandleLength     float64      `json:"handle_length" yaml:"handle_length" toml:"handle_length"`
	CrossingDistance float64      `json:"crossing_distance" yaml:"crossing_distance" toml:"crossing_distance"`
	EdgeSlide        float64      `json:"edge_slide" yaml:"edge_slide" toml:"edge_slide"`
	Type             EdgeType     `json:"type" yaml:"type" toml:"type"`
	Enabled          EdgeFeatures `json:"enabled" yaml:"enabled" toml:"enabled"`
}

// DefaultEdgeStyle returns the diagram-wide edge defaults.
func DefaultEdgeStyle() EdgeStyle {
	return EdgeStyle{
		HandleLength:     24,
		CrossingDistance: 10,
		EdgeSlide:        0.5,
		Type:             EdgeRegular,
		Enabled:          EdgeAll,
	}
}

// Get returns the value of p, or 0 if edge styles do not carry p.
func (s EdgeStyle) Get(p Param) float64 {
	switch p {
	case ParamHandleLength:
		return s.HandleLength
	case ParamCrossingDistance:
		return s.CrossingDistance
	case ParamEdgeSlide:
		return s.EdgeSlide
	}
	return 0
}

// Set assigns v to p. Parameters edge styles do not carry are ignored.
func (s *EdgeStyle) Set(p Param, v float64) {
	switch p {
	case ParamHandleLength:
		s.HandleLength = v
	case ParamCrossingDistance:
		s.CrossingDistance = v
	case ParamEdgeSlide:
		s.EdgeSlide = v
	}
}

// Resolve returns s with every disabled parameter taken from def.
func (s EdgeStyle) Resolve(def EdgeStyle) EdgeStyle {
	out := def
	for _, p := range Params() {
		if f := p.EdgeFeature(); f != 0 && s.Enabled.Has(f) {
			out.Set(p, s.Get(p))
		}
	}
	if s.Enabled.Has(EdgeKind) {
		out.Type = s.Type
	}
	out.Enabled = EdgeAll
	return out
}
