package bank

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bankbuild/midi"
)

func TestParseTextBank(t *testing.T) {
	text := "[PATCHBANK]\r\n" +
		"<Comment> Demo bank </Comment>\r\n" +
		"<patchpath>patches\\</patchpath>\r\n" +
		"<ASSETPATH></ASSETPATH>\r\n" +
		"<patches>\r\n" +
		"piano.patch/0/127/i\r\n" +
		"\r\n" +
		"kit.patch/35/81/d\r\n" +
		"organ.patch/0/10/3\r\n" +
		"</patches>\r\n"

	tb, err := ParseTextBank(strings.NewReader(text), "demo.txt")
	require.NoError(t, err)
	assert.Equal(t, "Demo bank", tb.Comment)
	assert.Equal(t, "patches\\", tb.PatchPath)
	assert.Equal(t, "", tb.AssetPath)

	require.Len(t, tb.Entries, 3)
	assert.Equal(t, "piano.patch", tb.Entries[0].Name)
	assert.Equal(t, Range{midi.MelodicBank, 0, 127}, tb.Entries[0].Range)
	assert.Equal(t, Range{midi.DrumBank, 35, 81}, tb.Entries[1].Range)
	assert.Equal(t, Range{3, 0, 10}, tb.Entries[2].Range)
	assert.Equal(t, 6, tb.Entries[0].Line)
	assert.Equal(t, 8, tb.Entries[1].Line)
}

func TestParseTextBankHeader(t *testing.T) {
	_, err := ParseTextBank(strings.NewReader("[BANK]\n<comment></comment>"), "x.txt")
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 1, fe.Line)

	_, err = ParseTextBank(strings.NewReader(""), "x.txt")
	assert.ErrorAs(t, err, &fe)
}

func TestParseTextBankByteOrderMark(t *testing.T) {
	text := "\ufeff[PATCHBANK]\n<comment>bom</comment>\n<patchpath></patchpath>\n<assetpath></assetpath>\n<patches>\na.patch/0/1/i\n</patches>\n"
	tb, err := ParseTextBank(strings.NewReader(text), "bom.txt")
	require.NoError(t, err)
	assert.Equal(t, "bom", tb.Comment)
	require.Len(t, tb.Entries, 1)
	assert.Equal(t, 6, tb.Entries[0].Line)
}

func TestParseTextBankTags(t *testing.T) {
	for name, text := range map[string]string{
		"wrong order":    "[PATCHBANK]\n<patchpath></patchpath>",
		"bad close":      "[PATCHBANK]\n<comment>x</comments>",
		"unclosed":       "[PATCHBANK]\n<comment>x",
		"missing tags":   "[PATCHBANK]\n<comment>x</comment>",
		"unterminated":   "[PATCHBANK]\n<comment",
		"no patches tag": "[PATCHBANK]\n<comment></comment><patchpath></patchpath><assetpath></assetpath>",
	} {
		_, err := ParseTextBank(strings.NewReader(text), "x.txt")
		var fe *FormatError
		assert.ErrorAs(t, err, &fe, name)
	}
}

func TestParseTextBankBadLines(t *testing.T) {
	head := "[PATCHBANK]\n<comment></comment>\n<patchpath></patchpath>\n<assetpath></assetpath>\n<patches>\na.patch/0/1/i\n"
	for _, line := range []string{
		"b.patch/0/1",
		"b.patch/x/1/i",
		"b.patch/0/128/i",
		"b.patch/10/5/i",
		"b.patch/0/1/q",
		"b.patch/0/1/-1",
		"b.patch/0/1/40000",
		"/0/1/i",
		"b.patch/0/1/",
	} {
		_, err := ParseTextBank(strings.NewReader(head+line+"\n</patches>"), "x.txt")
		var fe *FormatError
		require.ErrorAs(t, err, &fe, line)
		assert.Equal(t, 7, fe.Line, line)
		assert.Equal(t, "x.txt", fe.File)
	}
}

func TestResolveOutputPath(t *testing.T) {
	in := filepath.Join("dir", "bank.txt")
	assert.Equal(t, filepath.Join("dir", "bank.bank"), ResolveOutputPath(in, "", ""))
	assert.Equal(t, "out/bank.bank", ResolveOutputPath(in, "out/", ""))
	assert.Equal(t, "out/name.bank", ResolveOutputPath(in, "out/name", ""))
	assert.Equal(t, "out/name.bin", ResolveOutputPath(in, "out/name.bin", ""))
	assert.Equal(t, filepath.Join("dir", "bank.sbk"), ResolveOutputPath(in, "  ", ".sbk"))
}

func TestResolveDir(t *testing.T) {
	bankFile := filepath.Join("root", "bank.txt")
	assert.Equal(t, "root", resolveDir(bankFile, ""))
	assert.Equal(t, filepath.Join("root", "sub", "wav"), resolveDir(bankFile, `sub\wav\`))
	abs := filepath.Join(string(filepath.Separator), "abs")
	assert.Equal(t, abs, resolveDir(bankFile, abs))
}
