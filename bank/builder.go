// Package bank builds binary patch banks from a text bank description, the
// patch files it names and the sample assets those patches play.
package bank

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"go-bankbuild/debug"
)

// Options configures a Builder
type Options struct {
	// Extension is appended to output names without one (default .bank)
	Extension string
}

// Report summarizes a successful build
type Report struct {
	Input    string
	Output   string
	Comment  string
	Patches  int // simple patches, including expanded leaves
	Multis   int
	Assets   int
	Bytes    int64
	Warnings []string
}

// Builder runs the build pipeline. A Builder is not safe for concurrent
// use; all state is reset after every Build.
type Builder struct {
	opts Options

	comment   string
	patchPath string
	assetPath string
	registry  Registry
	multis    []*Patch
	assets    []*SampleAsset
	report    *Report
}

// NewBuilder returns a Builder using opts
func NewBuilder(opts Options) *Builder {
	if opts.Extension == "" {
		opts.Extension = DefaultExtension
	}
	return &Builder{opts: opts}
}

// Build converts the text bank at input into a binary bank. output may be
// empty, a directory ending in a separator, or a file name (see
// ResolveOutputPath). Nothing is written unless every stage succeeds.
func (b *Builder) Build(input, output string) (*Report, error) {
	defer b.reset()
	b.report = &Report{Input: input}

	if _, err := os.Stat(input); err != nil {
		return nil, errors.Wrapf(err, "the input file can not be found")
	}
	out := ResolveOutputPath(input, output, b.opts.Extension)
	debug.Log("build", "%s -> %s", input, out)

	if err := b.readTextBank(input); err != nil {
		return nil, err
	}
	if err := b.loadPatches(); err != nil {
		return nil, err
	}
	if err := b.loadAssets(); err != nil {
		return nil, err
	}
	l, err := b.computeLayout()
	if err != nil {
		return nil, err
	}
	debug.Log("build", "sizes: info %d, assets %d, patches %d, total %d", l.infoSize, l.assetsSize, l.patchSize, l.total())

	n, err := writeFile(out, l)
	if err != nil {
		return nil, err
	}

	report := b.report
	report.Output = out
	report.Comment = b.comment
	report.Patches = b.registry.Len()
	report.Multis = len(b.multis)
	report.Assets = len(b.assets)
	report.Bytes = n
	debug.Log("build", "created %s (%d bytes)", out, n)
	return report, nil
}

func (b *Builder) readTextBank(input string) error {
	f, err := os.Open(input)
	if err != nil {
		return errors.Wrapf(err, "open %s", input)
	}
	defer f.Close()

	tb, err := ParseTextBank(f, filepath.Base(input))
	if err != nil {
		return err
	}
	b.comment = tb.Comment
	b.patchPath = resolveDir(input, tb.PatchPath)
	b.assetPath = resolveDir(input, tb.AssetPath)
	debug.Log("parser", "%d declarations, patches in %s, assets in %s", len(tb.Entries), b.patchPath, b.assetPath)

	for _, decl := range tb.Entries {
		if err := b.registry.Register(decl.Name, decl.Range); err != nil {
			return err
		}
	}
	debug.Log("registry", "%d patches registered", b.registry.Len())
	return nil
}

func (b *Builder) reset() {
	b.comment = ""
	b.patchPath = ""
	b.assetPath = ""
	b.registry.Clear()
	b.multis = nil
	b.assets = nil
	b.report = nil
}
