package editor

import (
	"slices"

	"github.com/matzehuels/knotedit/pkg/command"
	"github.com/matzehuels/knotedit/pkg/style"
)

// Display setters skip values equal to the current one, so toggles and
// repeated slider values leave no history entry.

// SetColors replaces the strand colors.
func (ed *Editor) SetColors(colors []style.Color) {
	if d := ed.g.Display; !slices.Equal(d.Colors, colors) {
		ed.Push(command.ChangeColors(ed.g, d.Colors, colors))
	}
}

// SetBorders replaces the border outlines.
func (ed *Editor) SetBorders(borders []style.Border) {
	if d := ed.g.Display; !slices.Equal(d.Borders, borders) {
		ed.Push(command.ChangeBorders(ed.g, d.Borders, borders))
	}
}

// SetWidth changes the stroke width.
func (ed *Editor) SetWidth(w float64) {
	if d := ed.g.Display; d.Width != w {
		ed.Push(command.KnotWidth(ed.g, d.Width, w))
	}
}

// SetJoinStyle changes the pen join style.
func (ed *Editor) SetJoinStyle(j style.JoinStyle) {
	if d := ed.g.Display; d.Join != j {
		ed.Push(command.JoinStyle(ed.g, d.Join, j))
	}
}

// SetBrushStyle changes the stroke fill pattern.
func (ed *Editor) SetBrushStyle(b style.BrushStyle) {
	if d := ed.g.Display; d.Brush != b {
		ed.Push(command.BrushStyle(ed.g, d.Brush, b))
	}
}

// SetCustomColors turns per-strand colors on or off.
func (ed *Editor) SetCustomColors(on bool) {
	if d := ed.g.Display; d.CustomColors != on {
		ed.Push(command.CustomColors(ed.g, d.CustomColors, on))
	}
}

// SetShowBorder turns the border outline on or off.
func (ed *Editor) SetShowBorder(on bool) {
	if d := ed.g.Display; d.ShowBorder != on {
		ed.Push(command.ShowBorder(ed.g, d.ShowBorder, on))
	}
}

// SetDisplay applies every display option of d that differs from the
// current one, in one transaction.
func (ed *Editor) SetDisplay(d style.Display) error {
	if ed.g.Display.Equal(d) {
		return nil
	}
	return ed.Transaction("Change Display", func() error {
		ed.setDisplay(d)
		return nil
	})
}

func (ed *Editor) setDisplay(d style.Display) {
	ed.SetColors(d.Colors)
	ed.SetCustomColors(d.CustomColors)
	ed.SetWidth(d.Width)
	ed.SetJoinStyle(d.Join)
	ed.SetBrushStyle(d.Brush)
	ed.SetBorders(d.Borders)
	ed.SetShowBorder(d.ShowBorder)
}
