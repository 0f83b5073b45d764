package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Keys is the number of MIDI keys a range bar spans
const Keys = 128

// RenderRangeBar renders keys start-end as a bar of width cells; a cell is
// solid when any key it covers lies in the range
func RenderRangeBar(start, end uint8, width int, solid, empty rune, on, off lipgloss.Style) string {
	if width <= 0 {
		return ""
	}
	var out strings.Builder
	for cell := 0; cell < width; cell++ {
		lo := cell * Keys / width
		hi := (cell+1)*Keys/width - 1
		if hi < lo {
			hi = lo
		}
		if lo <= int(end) && int(start) <= hi {
			out.WriteString(on.Render(string(solid)))
		} else {
			out.WriteString(off.Render(string(empty)))
		}
	}
	return out.String()
}

// RenderField renders an aligned "label  value" line
func RenderField(label, value string, labelStyle lipgloss.Style) string {
	return fmt.Sprintf("  %s %s", labelStyle.Render(fmt.Sprintf("%-10s", label)), value)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

// Truncate shortens s to n characters, marking the cut with "..."
func Truncate(s string, n int) string {
	if len(s) <= n || n < 4 {
		return s
	}
	return s[:n-3] + "..."
}
