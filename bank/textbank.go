package bank

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go-bankbuild/midi"
)

// TextBankHeader is the first line of every text bank
const TextBankHeader = "[PATCHBANK]"

// TextBank is a parsed text bank description
type TextBank struct {
	Comment   string
	PatchPath string
	AssetPath string
	Entries   []Declaration
}

// Declaration is one patches line: a patch file claiming a range
type Declaration struct {
	Name  string
	Range Range
	Line  int
}

// ParseTextBank reads a text bank:
//
//	[PATCHBANK]
//	<comment>my bank</comment>
//	<patchpath>patches</patchpath>
//	<assetpath>samples</assetpath>
//	<patches>
//	piano.patch/0/127/i
//	kit.patch/35/81/d
//	</patches>
//
// name is only used in error messages.
func ParseTextBank(r io.Reader, name string) (*TextBank, error) {
	tr := &tagReader{r: bufio.NewReader(r), file: name, line: 1}

	header, err := tr.r.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, err
	}
	header = strings.TrimPrefix(header, "\ufeff")
	if strings.TrimSpace(header) != TextBankHeader {
		return nil, &FormatError{File: name, Line: 1, Msg: "the text bank header was not correct"}
	}
	tr.line++

	tb := &TextBank{}
	if tb.Comment, _, err = tr.readTag("comment"); err != nil {
		return nil, err
	}
	if tb.PatchPath, _, err = tr.readTag("patchpath"); err != nil {
		return nil, err
	}
	if tb.AssetPath, _, err = tr.readTag("assetpath"); err != nil {
		return nil, err
	}
	body, line, err := tr.readTag("patches")
	if err != nil {
		return nil, err
	}
	tb.Comment = strings.TrimSpace(tb.Comment)
	tb.PatchPath = strings.TrimSpace(tb.PatchPath)
	tb.AssetPath = strings.TrimSpace(tb.AssetPath)

	for i, raw := range strings.Split(body, "\n") {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		decl, err := parseDeclaration(text)
		if err != nil {
			return nil, &FormatError{File: name, Line: line + i, Msg: err.Error()}
		}
		decl.Line = line + i
		tb.Entries = append(tb.Entries, decl)
	}
	return tb, nil
}

// parseDeclaration reads name/start/end/bank
func parseDeclaration(text string) (Declaration, error) {
	fields := strings.Split(text, "/")
	if len(fields) < 4 {
		return Declaration{}, fmt.Errorf("expected name/start/end/bank, found %q", text)
	}
	name := strings.TrimSpace(fields[0])
	if name == "" {
		return Declaration{}, fmt.Errorf("missing patch name in %q", text)
	}
	start, err := parseKey(fields[1])
	if err != nil {
		return Declaration{}, err
	}
	end, err := parseKey(fields[2])
	if err != nil {
		return Declaration{}, err
	}
	if start > end {
		return Declaration{}, fmt.Errorf("range start %d above end %d", start, end)
	}
	bank, err := parseBank(fields[3])
	if err != nil {
		return Declaration{}, err
	}
	return Declaration{Name: name, Range: Range{Bank: bank, Start: start, End: end}}, nil
}

func parseKey(s string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 || n > midi.MaxKey {
		return 0, fmt.Errorf("invalid key %q, want 0-%d", strings.TrimSpace(s), midi.MaxKey)
	}
	return uint8(n), nil
}

// parseBank accepts i(nstrument), d(rum) or a bank number
func parseBank(s string) (int16, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("missing bank selector")
	}
	switch s[0] {
	case 'i', 'I':
		return midi.MelodicBank, nil
	case 'd', 'D':
		return midi.DrumBank, nil
	}
	n, err := strconv.ParseInt(s, 10, 16)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid bank %q", s)
	}
	return int16(n), nil
}

// tagReader reads <name>body</name> sections in a fixed order
type tagReader struct {
	r    *bufio.Reader
	file string
	line int
}

// readTag returns the body of the next tag and the line it starts on
func (t *tagReader) readTag(want string) (string, int, error) {
	if _, err := t.until('<'); err != nil {
		return "", 0, t.errorf("expected <%s>, found end of file", want)
	}
	name, err := t.until('>')
	if err != nil {
		return "", 0, t.errorf("unterminated tag <%s", name)
	}
	name = foldName(strings.TrimSpace(name))
	if name != want {
		return "", 0, t.errorf("expected to find tag: %s, but found tag: %s", want, name)
	}

	start := t.line
	body, err := t.until('<')
	if err != nil {
		return "", 0, t.errorf("<%s> is not closed", name)
	}
	closing, err := t.until('>')
	if err != nil {
		return "", 0, t.errorf("<%s> is not closed", name)
	}
	if foldName(strings.TrimSpace(closing)) != "/"+name {
		return "", 0, t.errorf("invalid tag: <%s> closed by <%s>", name, closing)
	}
	return strings.ReplaceAll(body, "\r", ""), start, nil
}

// until consumes up to and including delim and returns what came before it
func (t *tagReader) until(delim byte) (string, error) {
	s, err := t.r.ReadString(delim)
	t.line += strings.Count(s, "\n")
	if err == io.EOF {
		return s, io.ErrUnexpectedEOF
	}
	if err != nil {
		return s, err
	}
	return s[:len(s)-1], nil
}

func (t *tagReader) errorf(format string, args ...any) error {
	return &FormatError{File: t.file, Line: t.line, Msg: fmt.Sprintf(format, args...)}
}
