package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bankbuild/bank"
	"go-bankbuild/descriptor"
	"go-bankbuild/midi"
	"go-bankbuild/theme"
)

func testFile() *bank.File {
	return &bank.File{
		Version: 3,
		Comment: "test bank",
		Assets:  []*bank.SampleAsset{{Name: "piano", Channels: 1, Bits: 16, SampleRate: 44100, RootKey: 60, LoopStart: -1}},
		Patches: []*bank.PatchRecord{
			{Name: "piano", Type: "basi", Ranges: []bank.Range{{Bank: 0, Start: 0, End: 127}}},
			{Name: "sub", Type: "synt", Ranges: []bank.Range{{Bank: midi.UnassignedBank}}},
			{Name: "lead", Type: "mult", Ranges: []bank.Range{{Bank: 0, Start: 0, End: 0}},
				Descriptors: []descriptor.Custom{descriptor.NewMember("sub").Custom()}},
		},
	}
}

func press(m tea.Model, keys ...string) tea.Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m
}

func plainTheme() *theme.Theme {
	th := theme.New(theme.DefaultPalette())
	th.Plain = true
	return th
}

func TestNavigation(t *testing.T) {
	var m tea.Model = NewModel("test.bank", testFile(), plainTheme())

	m = press(m, "j", "j", "j", "j")
	col, idx := m.(Model).Selected()
	assert.Equal(t, ColumnPatches, col)
	assert.Equal(t, 2, idx, "cursor stops at the last patch")

	m = press(m, "k")
	_, idx = m.(Model).Selected()
	assert.Equal(t, 1, idx)

	m = press(m, "tab")
	col, idx = m.(Model).Selected()
	assert.Equal(t, ColumnAssets, col)
	assert.Equal(t, 0, idx)

	m = press(m, "tab")
	_, idx = m.(Model).Selected()
	assert.Equal(t, 1, idx, "patch cursor is kept across switches")
}

func TestQuit(t *testing.T) {
	m := NewModel("test.bank", testFile(), plainTheme())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, "", next.View())
}

func TestView(t *testing.T) {
	var m tea.Model = NewModel("test.bank", testFile(), plainTheme())
	view := m.View()
	assert.Contains(t, view, "test.bank")
	assert.Contains(t, view, "test bank")
	assert.Contains(t, view, "piano")

	m = press(m, "G")
	view = m.View()
	assert.Contains(t, view, "Members")
	assert.Contains(t, view, "sub")

	m = press(m, "tab")
	assert.Contains(t, m.View(), "44100 Hz")
}

func TestRangeLine(t *testing.T) {
	th := plainTheme()
	assert.Contains(t, RangeLine(th, bank.Range{Bank: midi.UnassignedBank}), "unassigned")
	line := RangeLine(th, bank.Range{Bank: midi.DrumBank, Start: 35, End: 81})
	assert.Contains(t, line, "drums")
	assert.Contains(t, line, "(35-81)")
}
