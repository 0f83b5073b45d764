package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
	Plain   bool // no colors (--no-color, pipes)
}

type Symbols struct {
	// Range bars
	Solid rune // ■ key covered by a range
	Empty rune // · key outside the range

	Bullet rune // ● list marker
	Cursor rune // ▶ selected row
	Warn   rune // ! warning prefix
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Solid:  '■',
			Empty:  '·',
			Bullet: '●',
			Cursor: '▶',
			Warn:   '!',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleError   = 0.6
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) Header() lipgloss.Style {
	return t.style(RoleAccent).Bold(!t.Plain)
}

func (t *Theme) Text() lipgloss.Style {
	return t.style(RoleFG)
}

func (t *Theme) Muted() lipgloss.Style {
	return t.style(RoleMuted)
}

func (t *Theme) Warning() lipgloss.Style {
	return t.style(RoleWarning)
}

func (t *Theme) Error() lipgloss.Style {
	return t.style(RoleError).Bold(!t.Plain)
}

func (t *Theme) Success() lipgloss.Style {
	return t.style(RoleSuccess)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return rgbToLipgloss(t.Palette.Lookup(norm))
}

func (t *Theme) style(role float64) lipgloss.Style {
	s := lipgloss.NewStyle()
	if t.Plain {
		return s
	}
	return s.Foreground(t.Color(role))
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2]))
}

// Load builds a theme from an optional GIMP palette file; color false
// gives a plain theme
func Load(palettePath string, color bool) (*Theme, error) {
	palette := DefaultPalette()
	if palettePath != "" {
		p, err := LoadGPL(palettePath)
		if err != nil {
			return nil, err
		}
		palette = p
	}
	th := New(palette)
	th.Plain = !color
	return th, nil
}
