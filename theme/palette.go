package theme

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//go:embed palettes/plasma.gpl
var defaultGPL string

type RGB [3]uint8

// Palette is an ordered color ramp read from a GIMP .gpl file
type Palette struct {
	Name   string
	Colors []RGB
}

// DefaultPalette returns the built-in plasma palette
func DefaultPalette() *Palette {
	p, err := ParseGPL(strings.NewReader(defaultGPL))
	if err != nil {
		panic(fmt.Sprintf("built-in palette: %v", err))
	}
	return p
}

func LoadGPL(path string) (*Palette, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "palette")
	}
	defer f.Close()

	p, err := ParseGPL(f)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return p, nil
}

// ParseGPL reads a GIMP palette. Color rows are "R G B [label]"; a row whose
// first three fields are not channel values in 0-255 is an error
func ParseGPL(r io.Reader) (*Palette, error) {
	p := &Palette{}
	scanner := bufio.NewScanner(r)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "", text[0] == '#', text == "GIMP Palette", strings.HasPrefix(text, "Columns:"):
			continue
		case strings.HasPrefix(text, "Name:"):
			p.Name = strings.TrimSpace(text[len("Name:"):])
			continue
		}

		fields := strings.Fields(text)
		if len(fields) < 3 {
			return nil, errors.Errorf("line %d: want R G B, got %q", line, text)
		}
		var c RGB
		for i := range c {
			v, err := strconv.ParseUint(fields[i], 10, 8)
			if err != nil {
				return nil, errors.Errorf("line %d: bad channel %q", line, fields[i])
			}
			c[i] = uint8(v)
		}
		p.Colors = append(p.Colors, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(p.Colors) == 0 {
		return nil, errors.New("no colors found in palette")
	}
	return p, nil
}

// Lookup interpolates the ramp at norm, clamped to 0-1
func (p *Palette) Lookup(norm float64) RGB {
	last := len(p.Colors) - 1
	switch {
	case norm <= 0:
		return p.Colors[0]
	case norm >= 1:
		return p.Colors[last]
	}

	pos := norm * float64(last)
	i := int(pos)
	t := pos - float64(i)
	a, b := p.Colors[i], p.Colors[i+1]

	var c RGB
	for ch := range c {
		c[ch] = uint8(float64(a[ch])*(1-t) + float64(b[ch])*t)
	}
	return c
}
