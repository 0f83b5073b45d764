package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	assert.Equal(t, "plasma", p.Name)
	assert.Len(t, p.Colors, 11)
	assert.Equal(t, RGB{13, 8, 135}, p.Lookup(0))
	assert.Equal(t, RGB{240, 249, 33}, p.Lookup(1))
}

func TestParseGPLEmpty(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\nName: none\n#\n"))
	assert.Error(t, err)
}

func TestLoadGPL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two.gpl")
	require.NoError(t, os.WriteFile(path, []byte("GIMP Palette\nName: two\n0 0 0 black\n255 255 255 white\n"), 0644))

	p, err := LoadGPL(path)
	require.NoError(t, err)
	assert.Equal(t, "two", p.Name)
	assert.Equal(t, RGB{127, 127, 127}, p.Lookup(0.5))
}

func TestPlainThemeHasNoColor(t *testing.T) {
	th := New(DefaultPalette())
	th.Plain = true
	assert.Equal(t, "warn", th.Warning().Render("warn"))
}

func TestLoadTheme(t *testing.T) {
	th, err := Load("", false)
	require.NoError(t, err)
	assert.True(t, th.Plain)
	assert.Equal(t, "x", th.Error().Render("x"))

	_, err = Load(filepath.Join(t.TempDir(), "missing.gpl"), true)
	assert.Error(t, err)
}

func TestParseGPLBadRow(t *testing.T) {
	_, err := ParseGPL(strings.NewReader("GIMP Palette\nName: bad\n0 0 0\n12 300 4 too bright\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 4")

	_, err = ParseGPL(strings.NewReader("GIMP Palette\n1 2\n"))
	assert.Error(t, err)
}
