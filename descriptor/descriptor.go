// Package descriptor holds the parsed synthesis parameters of a patch:
// generators, envelopes, filters, LFOs and custom descriptors (such as the
// member markers of a multi patch). Every descriptor kind has a fixed binary
// payload size except custom descriptors, which declare their own.
package descriptor

import (
	"encoding/binary"
	"io"
	"path"
	"strings"
)

// Version is the patch format version this package reads
const Version float32 = 3.0

// Fixed payload sizes in bytes, excluding the 8 byte sub-chunk header
const (
	GeneratorSize = 78
	EnvelopeSize  = 40
	FilterSize    = 16
	LFOSize       = 14

	// HeaderSize is the id + length prefix written before every descriptor
	HeaderSize = 8

	// NameSize is the fixed width of names stored in bank records
	NameSize = 20
)

// Sub-chunk IDs
const (
	GeneratorID = "gen "
	EnvelopeID  = "envp"
	FilterID    = "fltr"
	LFOID       = "lfo "
)

// List is the descriptor tree of one patch
type List struct {
	Generators []Generator
	Envelopes  []Envelope
	Filters    []Filter
	LFOs       []LFO
	Customs    []Custom
}

// Count returns the number of descriptors of every kind
func (l *List) Count() int {
	if l == nil {
		return 0
	}
	return len(l.Generators) + len(l.Envelopes) + len(l.Filters) + len(l.LFOs) + len(l.Customs)
}

// Size returns the serialized size of the tree including sub-chunk headers
func (l *List) Size() int {
	if l == nil {
		return 0
	}
	size := len(l.Generators) * (GeneratorSize + HeaderSize)
	size += len(l.Envelopes) * (EnvelopeSize + HeaderSize)
	size += len(l.Filters) * (FilterSize + HeaderSize)
	size += len(l.LFOs) * (LFOSize + HeaderSize)
	return size + l.CustomSize()
}

// CustomSize returns the serialized size of the custom descriptors only
func (l *List) CustomSize() int {
	if l == nil {
		return 0
	}
	size := 0
	for _, c := range l.Customs {
		size += c.Size() + HeaderSize
	}
	return size
}

// HasSynthesis reports whether the tree carries any non-custom descriptor
func (l *List) HasSynthesis() bool {
	return l != nil && len(l.Generators)+len(l.Envelopes)+len(l.Filters)+len(l.LFOs) > 0
}

// WriteTo serializes every descriptor as id[4] int32(size) payload,
// generators first and customs last
func (l *List) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if l == nil {
		return 0, nil
	}
	for i := range l.Generators {
		if err := writeChunk(cw, GeneratorID, GeneratorSize, l.Generators[i].wire()); err != nil {
			return cw.n, err
		}
	}
	for i := range l.Envelopes {
		if err := writeChunk(cw, EnvelopeID, EnvelopeSize, l.Envelopes[i].wire()); err != nil {
			return cw.n, err
		}
	}
	for i := range l.Filters {
		if err := writeChunk(cw, FilterID, FilterSize, l.Filters[i].wire()); err != nil {
			return cw.n, err
		}
	}
	for i := range l.LFOs {
		if err := writeChunk(cw, LFOID, LFOSize, l.LFOs[i].wire()); err != nil {
			return cw.n, err
		}
	}
	for _, c := range l.Customs {
		if err := writeChunk(cw, c.ID, int32(len(c.Data)), c.Data); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

func writeChunk(w io.Writer, id string, size int32, payload any) error {
	if _, err := w.Write(FixedString(id, 4)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, size); err != nil {
		return err
	}
	if b, ok := payload.([]byte); ok {
		_, err := w.Write(b)
		return err
	}
	return binary.Write(w, binary.LittleEndian, payload)
}

// FixedString returns s as exactly n bytes, truncated or zero padded
func FixedString(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// StoredExtensions are the file extensions dropped from stored names.
// Other dots are part of the name ("my.strings_0" stays as is).
var StoredExtensions = []string{".patch", ".sfz", ".wav"}

// StoredName is the name a file is known by inside a bank: the base name
// without a patch, sfz or wav extension
func StoredName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(base)
	for _, known := range StoredExtensions {
		if strings.EqualFold(ext, known) {
			return base[:len(base)-len(ext)]
		}
	}
	return base
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
