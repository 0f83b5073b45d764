package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-bankbuild/bank"
	"go-bankbuild/midi"
	"go-bankbuild/theme"
	"go-bankbuild/widgets"
)

// Column selects the list the cursor is in
type Column int

const (
	ColumnPatches Column = iota
	ColumnAssets
)

const (
	maxRows  = 16
	barWidth = 32
)

// Model browses a decoded bank file
type Model struct {
	Name  string
	File  *bank.File
	Theme *theme.Theme

	column   Column
	patchIdx int
	assetIdx int
	offset   int // first visible row of the active list
	quitting bool
}

func NewModel(name string, file *bank.File, th *theme.Theme) Model {
	return Model{Name: name, File: file, Theme: th}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit
	case "tab", "h", "l", "left", "right":
		if m.column == ColumnPatches && len(m.File.Assets) > 0 {
			m.column = ColumnAssets
		} else {
			m.column = ColumnPatches
		}
		m.offset = 0
	case "j", "down":
		m.move(1)
	case "k", "up":
		m.move(-1)
	case "g", "home":
		m.move(-m.count())
	case "G", "end":
		m.move(m.count())
	}
	return m, nil
}

// Selected returns the cursor position in the active list
func (m Model) Selected() (Column, int) {
	if m.column == ColumnAssets {
		return m.column, m.assetIdx
	}
	return m.column, m.patchIdx
}

func (m Model) count() int {
	if m.column == ColumnAssets {
		return len(m.File.Assets)
	}
	return len(m.File.Patches)
}

func (m *Model) move(delta int) {
	idx := &m.patchIdx
	if m.column == ColumnAssets {
		idx = &m.assetIdx
	}
	*idx = max(0, min(m.count()-1, *idx+delta))

	// keep the cursor visible
	if *idx < m.offset {
		m.offset = *idx
	} else if *idx >= m.offset+maxRows {
		m.offset = *idx - maxRows + 1
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	th := m.Theme

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(th.Header().Render(fmt.Sprintf("%s  v%.1f  %d patches  %d assets",
		m.Name, m.File.Version, len(m.File.Patches), len(m.File.Assets))))
	out.WriteString("\n")
	if m.File.Comment != "" {
		out.WriteString(th.Muted().Render(m.File.Comment))
		out.WriteString("\n")
	}
	out.WriteString("\n")

	list := lipgloss.JoinVertical(lipgloss.Left, m.listLines()...)
	details := m.details()
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, list, "    ", details))
	out.WriteString("\n\n")

	out.WriteString(th.Muted().Render(widgets.RenderKeyHelp([]widgets.KeySection{
		{Keys: []widgets.KeyBinding{
			{Key: "tab", Desc: "switch patches / assets"},
			{Key: "j / k", Desc: "navigate list"},
			{Key: "q", Desc: "quit"},
		}},
	})))
	return out.String()
}

func (m Model) listLines() []string {
	th := m.Theme
	title := "Patches"
	if m.column == ColumnAssets {
		title = "Assets"
	}
	lines := []string{th.Header().Render(title), th.Muted().Render(strings.Repeat("─", 26))}

	_, selected := m.Selected()
	end := min(m.count(), m.offset+maxRows)
	for row := m.offset; row < end; row++ {
		var name string
		if m.column == ColumnAssets {
			name = m.File.Assets[row].Name
		} else {
			p := m.File.Patches[row]
			name = fmt.Sprintf("%-20s %s", p.Name, p.Type)
		}
		name = widgets.Truncate(name, 24)
		if row == selected {
			lines = append(lines, th.Text().Bold(true).Render(fmt.Sprintf("%c %s", th.Symbols.Cursor, name)))
		} else {
			lines = append(lines, th.Text().Render("  "+name))
		}
	}
	if m.count() == 0 {
		lines = append(lines, th.Muted().Render("  (empty)"))
	}
	return lines
}

func (m Model) details() string {
	if m.count() == 0 {
		return ""
	}
	if m.column == ColumnAssets {
		return m.assetDetails(m.File.Assets[m.assetIdx])
	}
	return m.patchDetails(m.File.Patches[m.patchIdx])
}

func (m Model) patchDetails(p *bank.PatchRecord) string {
	th := m.Theme
	lines := []string{
		th.Header().Render(p.Name),
		widgets.RenderField("type", strings.TrimSpace(p.Type), th.Muted()),
		widgets.RenderField("size", fmt.Sprintf("%d bytes", p.Size), th.Muted()),
	}

	ids := make([]string, len(p.Descriptors))
	for i, d := range p.Descriptors {
		ids[i] = strings.TrimSpace(d.ID)
	}
	lines = append(lines, widgets.RenderField("descr", strings.Join(ids, " "), th.Muted()))

	for _, r := range p.Ranges {
		lines = append(lines, "", RangeLine(th, r))
	}

	if p.IsMulti() {
		members, err := p.Members()
		if err != nil {
			lines = append(lines, "", th.Error().Render(err.Error()))
		}
		lines = append(lines, "", th.Header().Render("Members"))
		for _, mem := range members {
			lines = append(lines, fmt.Sprintf("  %c %-20s key %s  vel %d-%d  ch %d-%d",
				th.Symbols.Bullet, mem.Patch, midi.FormatRange(mem.KeyLo, mem.KeyHi),
				mem.VelLo, mem.VelHi, mem.ChanLo+1, mem.ChanHi+1))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) assetDetails(a *bank.SampleAsset) string {
	th := m.Theme
	loop := "none"
	if a.LoopStart >= 0 {
		loop = fmt.Sprintf("%.0f-%.2f", a.LoopStart, a.LoopEnd)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		th.Header().Render(a.Name),
		widgets.RenderField("format", fmt.Sprintf("%d ch, %d bit, %d Hz", a.Channels, a.Bits, a.SampleRate), th.Muted()),
		widgets.RenderField("root", fmt.Sprintf("%s (%d), tune %+d", rootName(a.RootKey), a.RootKey, a.Tune), th.Muted()),
		widgets.RenderField("loop", loop, th.Muted()),
		widgets.RenderField("data", fmt.Sprintf("%d bytes", len(a.Data)), th.Muted()),
	)
}

// RangeLine renders a bank range as a label, note names and a key bar
func RangeLine(th *theme.Theme, r bank.Range) string {
	label := th.Text().Render(fmt.Sprintf("%-10s", midi.BankLabel(r.Bank)))
	if r.Bank == midi.UnassignedBank {
		return label + " " + th.Muted().Render("selected through a multi")
	}
	bar := widgets.RenderRangeBar(r.Start, r.End, barWidth, th.Symbols.Solid, th.Symbols.Empty, th.Success(), th.Muted())
	return fmt.Sprintf("%s %s %s", label, bar, th.Muted().Render(midi.FormatRange(r.Start, r.End)))
}

func rootName(key int16) string {
	if key < 0 || key > midi.MaxKey {
		return "?"
	}
	return midi.NoteName(uint8(key))
}
