package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownVariant is returned when parsing a name that is not part of a
// closed enumeration.
var ErrUnknownVariant = errors.New("unknown variant")

// names maps enumeration values to their textual form.
type names []string

func (n names) format(v int, kind string) string {
	if v < 0 || v >= len(n) {
		return fmt.Sprintf("%s(%d)", kind, v)
	}
	return n[v]
}

func (n names) parse(s, kind string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range n {
		if name == s {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s %q", ErrUnknownVariant, kind, s)
}

// CuspShape selects how a strand turns back on itself at a cusp.
type CuspShape int

const (
	CuspPointed CuspShape = iota
	CuspRounded
	CuspOgee
	CuspPolygonal
)

var cuspShapeNames = names{"pointed", "rounded", "ogee", "polygonal"}

func (c CuspShape) String() string { return cuspShapeNames.format(int(c), "cusp") }

// ParseCuspShape returns the cusp shape with the given name.
func ParseCuspShape(s string) (CuspShape, error) {
	i, err := cuspShapeNames.parse(s, "cusp shape")
	return CuspShape(i), err
}

func (c CuspShape) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CuspShape) UnmarshalText(b []byte) error {
	v, err := ParseCuspShape(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// EdgeType selects how the strands behave across an edge.
type EdgeType int

const (
	// EdgeRegular crosses the strands over each other.
	EdgeRegular EdgeType = iota
	// EdgeInverted crosses the strands with over and under swapped.
	EdgeInverted
	// EdgeWall bounces the strands off the edge.
	EdgeWall
	// EdgeHole lets the strands pass straight through without crossing.
	EdgeHole
)

var edgeTypeNames = names{"regular", "inverted", "wall", "hole"}

func (t EdgeType) String() string { return edgeTypeNames.format(int(t), "edge") }

// ParseEdgeType returns the edge type with the given name.
// "normal" is accepted as an alias of "regular".
func ParseEdgeType(s string) (EdgeType, error) {
	if strings.EqualFold(strings.TrimSpace(s), "normal") {
		return EdgeRegular, nil
	}
	i, err := edgeTypeNames.parse(s, "edge type")
	return EdgeType(i), err
}

func (t EdgeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *EdgeType) UnmarshalText(b []byte) error {
	v, err := ParseEdgeType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// JoinStyle is the pen join used where knot strokes meet.
type JoinStyle int

const (
	JoinBevel JoinStyle = iota
	JoinMiter
	JoinRound
)

var joinStyleNames = names{"bevel", "miter", "round"}

func (j JoinStyle) String() string { return joinStyleNames.format(int(j), "join") }

// ParseJoinStyle returns the join style with the given name.
func ParseJoinStyle(s string) (JoinStyle, error) {
	i, err := joinStyleNames.parse(s, "join style")
	return JoinStyle(i), err
}

func (j JoinStyle) MarshalText() ([]byte, error) { return []byte(j.String()), nil }

func (j *JoinStyle) UnmarshalText(b []byte) error {
	v, err := ParseJoinStyle(string(b))
	if err != nil {
		return err
	}
	*j = v
	return nil
}

// BrushStyle is the fill pattern of the knot strokes.
type BrushStyle int

const (
	BrushSolid BrushStyle = iota
	BrushDense1
	BrushDense2
	BrushDense3
	BrushDense4
	BrushDense5
	BrushDense6
	BrushDense7
	BrushHorizontal
	BrushVertical
	BrushCross
	BrushBDiag
	BrushFDiag
	BrushDiagCross
)

var brushStyleNames = names{
	"solid", "dense1", "dense2", "dense3", "dense4", "dense5", "dense6", "dense7",
	"horizontal", "vertical", "cross", "bdiag", "fdiag", "diagcross",
}

func (b BrushStyle) String() string { return brushStyleNames.format(int(b), "brush") }

// ParseBrushStyle returns the brush style with the given name.
func ParseBrushStyle(s string) (BrushStyle, error) {
	i, err := brushStyleNames.parse(s, "brush style")
	return BrushStyle(i), err
}

func (b BrushStyle) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

func (b *BrushStyle) UnmarshalText(text []byte) error {
	v, err := ParseBrushStyle(string(text))
	if err != nil {
		return err
	}
	*b = v
	return nil
}
