package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"go-bankbuild/bank"
	"go-bankbuild/config"
	"go-bankbuild/midi"
	"go-bankbuild/theme"
	"go-bankbuild/tui"
	"go-bankbuild/widgets"
)

func main() {
	if len(os.Args) < 3 {
		usage()
		os.Exit(1)
	}

	th := loadTheme()
	path := os.Args[2]
	file, err := bank.DecodeFile(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, th.Error().Render("Error: "+err.Error()))
		os.Exit(1)
	}

	switch os.Args[1] {
	case "info":
		printInfo(os.Stdout, th, path, file)
	case "assets":
		printAssets(os.Stdout, th, file)
	case "patches":
		printPatches(os.Stdout, th, file)
	case "browse":
		p := tea.NewProgram(tui.NewModel(filepath.Base(path), file, th), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Bank inspector")
	fmt.Println("")
	fmt.Println("Usage: bankinspect <command> <file.bank>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  info     - Version, comment and section counts")
	fmt.Println("  assets   - List sample assets")
	fmt.Println("  patches  - List patches with their ranges")
	fmt.Println("  browse   - Interactive browser")
}

// loadTheme falls back to the built-in palette when the config is unusable
func loadTheme() *theme.Theme {
	cfg, err := config.Load(config.New(), "")
	if err != nil {
		cfg = config.DefaultConfig()
	}
	th, err := theme.Load(cfg.Palette, cfg.Color)
	if err != nil {
		th, _ = theme.Load("", cfg.Color)
	}
	return th
}

func printInfo(w io.Writer, th *theme.Theme, path string, f *bank.File) {
	multis := 0
	pcm := 0
	for _, p := range f.Patches {
		if p.IsMulti() {
			multis++
		}
	}
	for _, a := range f.Assets {
		pcm += len(a.Data)
	}

	fmt.Fprintln(w, th.Header().Render(filepath.Base(path)))
	fmt.Fprintln(w, widgets.RenderField("version", fmt.Sprintf("%.1f", f.Version), th.Muted()))
	fmt.Fprintln(w, widgets.RenderField("comment", f.Comment, th.Muted()))
	fmt.Fprintln(w, widgets.RenderField("patches", fmt.Sprintf("%d (%d multi)", len(f.Patches), multis), th.Muted()))
	fmt.Fprintln(w, widgets.RenderField("assets", fmt.Sprintf("%d (%d bytes of PCM)", len(f.Assets), pcm), th.Muted()))
}

func printAssets(w io.Writer, th *theme.Theme, f *bank.File) {
	fmt.Fprintln(w, th.Header().Render(fmt.Sprintf("%-20s %6s %4s %3s %5s  %s", "name", "rate", "bits", "ch", "root", "loop")))
	for _, a := range f.Assets {
		loop := "-"
		if a.LoopStart >= 0 {
			loop = fmt.Sprintf("%.0f-%.2f", a.LoopStart, a.LoopEnd)
		}
		root := fmt.Sprint(a.RootKey)
		if a.RootKey >= 0 && a.RootKey <= midi.MaxKey {
			root = midi.NoteName(uint8(a.RootKey))
		}
		fmt.Fprintln(w, th.Text().Render(fmt.Sprintf("%-20s %6d %4d %3d %5s  %s", a.Name, a.SampleRate, a.Bits, a.Channels, root, loop)))
	}
}

func printPatches(w io.Writer, th *theme.Theme, f *bank.File) {
	for _, p := range f.Patches {
		ids := make([]string, len(p.Descriptors))
		for i, d := range p.Descriptors {
			ids[i] = strings.TrimSpace(d.ID)
		}
		fmt.Fprintf(w, "%s %s\n", th.Header().Render(fmt.Sprintf("%-20s", p.Name)),
			th.Muted().Render(fmt.Sprintf("%s  [%s]", p.Type, strings.Join(ids, " "))))
		for _, r := range p.Ranges {
			fmt.Fprintln(w, "  "+tui.RangeLine(th, r))
		}
	}
}
