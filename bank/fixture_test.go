package bank

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleLoop struct {
	typ, start, end, frac uint32
}

type sampler struct {
	period, unity, pitchFrac uint32
	loops                    []sampleLoop
}

// wavBytes builds a PCM WAVE file; pcm must have an even length
func wavBytes(channels, bits uint16, rate uint32, pcm []byte, smpl *sampler) []byte {
	var body bytes.Buffer
	put := func(v any) { binary.Write(&body, binary.LittleEndian, v) }

	body.WriteString("WAVE")
	body.WriteString("fmt ")
	put(uint32(16))
	put(uint16(1))
	put(channels)
	put(rate)
	align := channels * bits / 8
	put(rate * uint32(align))
	put(align)
	put(bits)

	body.WriteString("data")
	put(uint32(len(pcm)))
	body.Write(pcm)

	if smpl != nil {
		body.WriteString("smpl")
		put(uint32(36 + 24*len(smpl.loops)))
		put([2]uint32{}) // manufacturer, product
		put(smpl.period)
		put(smpl.unity)
		put(smpl.pitchFrac)
		put([2]uint32{}) // SMPTE format, offset
		put(uint32(len(smpl.loops)))
		put(uint32(0))
		for i, l := range smpl.loops {
			put(uint32(i))
			put(l.typ)
			put(l.start)
			put(l.end)
			put(l.frac)
			put(uint32(0))
		}
	}

	var out bytes.Buffer
	out.WriteString("RIFF")
	binary.Write(&out, binary.LittleEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

// fixture is a text bank directory with patches/ and samples/ subdirectories
type fixture struct {
	t   *testing.T
	dir string
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "patches"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "samples"), 0755))
	return &fixture{t: t, dir: dir}
}

func (f *fixture) write(rel string, data []byte) string {
	path := filepath.Join(f.dir, filepath.FromSlash(rel))
	require.NoError(f.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(f.t, os.WriteFile(path, data, 0644))
	return path
}

func (f *fixture) patch(name, body string) {
	f.write("patches/"+name, []byte(body))
}

func (f *fixture) sample(name string, smpl *sampler) {
	f.write("samples/"+name, wavBytes(1, 16, 22050, []byte{1, 2, 3, 4, 5, 6, 7, 8}, smpl))
}

// bank writes bank.txt declaring lines and returns its path
func (f *fixture) bank(comment string, lines ...string) string {
	text := fmt.Sprintf("[PATCHBANK]\n<comment>%s</comment>\n<patchpath>patches</patchpath>\n<assetpath>samples</assetpath>\n<patches>\n%s\n</patches>\n",
		comment, strings.Join(lines, "\n"))
	return f.write("bank.txt", []byte(text))
}

// builder returns a Builder positioned after the text bank stage
func (f *fixture) builder(lines ...string) *Builder {
	b := NewBuilder(Options{})
	b.report = &Report{}
	b.patchPath = filepath.Join(f.dir, "patches")
	b.assetPath = filepath.Join(f.dir, "samples")
	for _, line := range lines {
		decl, err := parseDeclaration(line)
		require.NoError(f.t, err)
		require.NoError(f.t, b.registry.Register(decl.Name, decl.Range))
	}
	return b
}

func samplePatch(assets ...string) string {
	var sb strings.Builder
	sb.WriteString("#patch v3.0\nbasic\n")
	for _, a := range assets {
		fmt.Fprintf(&sb, "<generator>\nname=%s\nwaveform=sampledata\n</generator>\n", a)
	}
	sb.WriteString("<envelope>\nattack=0.01\n</envelope>\n")
	return sb.String()
}

const sinePatch = "#patch v3.0\nsynth\n<generator>\nwaveform=sine\n</generator>\n"

func multiPatch(members ...string) string {
	var sb strings.Builder
	sb.WriteString("#patch v3.0\nmulti\n")
	for _, m := range members {
		fmt.Fprintf(&sb, "<mpat>\npatch=%s\nkey=0-127\n</mpat>\n", m)
	}
	return sb.String()
}

func names(patches []*Patch) []string {
	out := make([]string, len(patches))
	for i, p := range patches {
		out[i] = p.Name
	}
	return out
}
