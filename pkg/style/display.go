package style

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidColor is returned by [ParseColor] for malformed hex colors.
var ErrInvalidColor = errors.New("invalid color")

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Black is the default knot color.
var Black = Color{A: 255}

// ParseColor parses "#rrggbb" or "#rrggbbaa" (the leading '#' is optional).
func ParseColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 && len(h) != 8 {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	if len(h) == 6 {
		v = v<<8 | 0xff
	}
	return Color{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// String returns "#rrggbb", or "#rrggbbaa" when the color is translucent.
func (c Color) String() string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

func (c Color) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Color) UnmarshalText(b []byte) error {
	v, err := ParseColor(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Border is an outline drawn around the knot strokes.
type Border struct {
	Color Color   `json:"color" yaml:"color" toml:"color"`
	Width float64 `json:"width" yaml:"width" toml:"width"`
}

// Display holds the whole-diagram painting options.
// Colors are used in order for the strands of the knot; when CustomColors is
// false only the first one is used.
type Display struct {
	Colors       []Color    `json:"colors" yaml:"colors" toml:"colors"`
	CustomColors bool       `json:"custom_colors" yaml:"custom_colors" toml:"custom_colors"`
	Width        float64    `json:"width" yaml:"width" toml:"width"`
	Join         JoinStyle  `json:"join" yaml:"join" toml:"join"`
	Brush        BrushStyle `json:"brush" yaml:"brush" toml:"brush"`
	Borders      []Border   `json:"borders,omitempty" yaml:"borders,omitempty" toml:"borders,omitempty"`
	ShowBorder   bool       `json:"show_border" yaml:"show_border" toml:"show_border"`
}

// DefaultDisplay returns a solid black knot with no border.
func DefaultDisplay() Display {
	return Display{
		Colors: []Color{Black},
		Width:  5,
		Join:   JoinMiter,
		Brush:  BrushSolid,
	}
}

// Clone returns a deep copy of d.
func (d Display) Clone() Display {
	d.Colors = slices.Clone(d.Colors)
	d.Borders = slices.Clone(d.Borders)
	return d
}

// Equal reports whether d and o describe the same display.
func (d Display) Equal(o Display) bool {
	return slices.Equal(d.Colors, o.Colors) &&
		d.CustomColors == o.CustomColors &&
		d.Width == o.Width &&
		d.Join == o.Join &&
		d.Brush == o.Brush &&
		slices.Equal(d.Borders, o.Borders) &&
		d.ShowBorder == o.ShowBorder
}

// StrandColor returns the color for strand i.
func (d Display) StrandColor(i int) Color {
	if len(d.Colors) == 0 {
		return Black
	}
	if !d.CustomColors {
		return d.Colors[0]
	}
	return d.Colors[i%len(d.Colors)]
}
