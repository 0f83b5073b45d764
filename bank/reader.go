package bank

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"go-bankbuild/descriptor"
)

// File is a decoded bank
type File struct {
	Version float32
	Comment string
	Assets  []*SampleAsset
	Patches []*PatchRecord
}

// PatchRecord is one decoded PTCH record. Descriptors keep their raw
// payloads; member markers can be decoded with descriptor.Custom.Member.
type PatchRecord struct {
	Name        string
	Type        string
	Descriptors []descriptor.Custom
	Ranges      []Range
	Size        int
}

// IsMulti reports whether the record is a multi patch
func (p *PatchRecord) IsMulti() bool {
	return p.Type == TypeMulti[:4]
}

// Members decodes the member markers of a multi
func (p *PatchRecord) Members() ([]descriptor.Member, error) {
	var members []descriptor.Member
	for _, d := range p.Descriptors {
		if !d.IsMember() {
			continue
		}
		m, err := d.Member()
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

// DecodeFile reads and decodes the bank at path
func DecodeFile(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read bank %s", path)
	}
	return decode(raw, filepath.Base(path))
}

// Decode reads a whole bank from r
func Decode(r io.Reader) (*File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read bank")
	}
	return decode(raw, "bank")
}

// bankReader walks the buffer and keeps the first error
type bankReader struct {
	r    *bytes.Reader
	name string
	err  error
}

func (br *bankReader) value(v any) {
	if br.err == nil {
		if err := binary.Read(br.r, binary.LittleEndian, v); err != nil {
			br.fail("truncated record at offset %d", br.offset())
		}
	}
}

func (br *bankReader) take(n int) []byte {
	if br.err != nil {
		return nil
	}
	if n < 0 || n > br.r.Len() {
		br.fail("record at offset %d overruns the file", br.offset())
		return nil
	}
	b := make([]byte, n)
	br.r.Read(b)
	return b
}

func (br *bankReader) str(n int) string {
	return strings.TrimRight(string(br.take(n)), "\x00")
}

// expect reads a 4 byte tag and fails unless it is want
func (br *bankReader) expect(want string) {
	at := br.offset()
	if got := string(br.take(4)); br.err == nil && got != want {
		br.fail("expected %q at offset %d, found %q", want, at, got)
	}
}

func (br *bankReader) offset() int64 {
	return br.r.Size() - int64(br.r.Len())
}

func (br *bankReader) fail(format string, args ...any) {
	if br.err == nil {
		br.err = &FormatError{File: br.name, Msg: fmt.Sprintf(format, args...)}
	}
}

func decode(raw []byte, name string) (*File, error) {
	br := &bankReader{r: bytes.NewReader(raw), name: name}
	f := &File{}

	var total, size int32
	br.expect("RIFF")
	br.value(&total)
	if br.err == nil && int(total) != len(raw)-chunkHeaderSize {
		br.fail("RIFF length %d does not match file size %d", total, len(raw))
	}
	br.expect("BANK")

	br.expect("INFO")
	br.value(&size)
	br.value(&f.Version)
	f.Comment = string(br.take(int(size) - 4))

	br.expect("LIST")
	br.value(&size)
	end := br.offset() + int64(size)
	br.expect("ASET")
	for br.err == nil && br.offset() < end {
		f.Assets = append(f.Assets, decodeAsset(br))
	}
	if br.err == nil && br.offset() != end {
		br.fail("ASET list ends at offset %d, records end at %d", end, br.offset())
	}

	br.expect("LIST")
	br.value(&size)
	end = br.offset() + int64(size)
	br.expect("INST")
	for br.err == nil && br.offset() < end {
		f.Patches = append(f.Patches, decodePatch(br))
	}
	if br.err == nil && br.offset() != end {
		br.fail("INST list ends at offset %d, records end at %d", end, br.offset())
	}

	if br.err == nil && br.r.Len() > 0 {
		br.fail("%d trailing bytes", br.r.Len())
	}
	if br.err != nil {
		return nil, br.err
	}
	return f, nil
}

func decodeAsset(br *bankReader) *SampleAsset {
	var size int32
	br.expect("SMPL")
	br.value(&size)
	a := &SampleAsset{Name: br.str(descriptor.NameSize)}
	br.value(&a.SampleRate)
	br.value(&a.RootKey)
	br.value(&a.Tune)
	br.value(&a.LoopStart)
	br.value(&a.LoopEnd)
	br.value(&a.Bits)
	br.value(&a.Channels)
	a.Data = br.take(int(size) - assetFixedSize)
	return a
}

func decodePatch(br *bankReader) *PatchRecord {
	var (
		size  int32
		count int16
	)
	br.expect("PTCH")
	br.value(&size)
	start := br.offset()

	p := &PatchRecord{Size: int(size)}
	p.Name = br.str(descriptor.NameSize)
	p.Type = br.str(4)
	br.value(&count)
	for i := 0; i < int(count) && br.err == nil; i++ {
		id := string(br.take(4))
		var n int32
		br.value(&n)
		p.Descriptors = append(p.Descriptors, descriptor.Custom{ID: id, Data: br.take(int(n))})
	}

	var ranges int16
	br.value(&ranges)
	for i := 0; i < int(ranges) && br.err == nil; i++ {
		var r Range
		br.value(&r.Bank)
		br.value(&r.Start)
		br.value(&r.End)
		p.Ranges = append(p.Ranges, r)
	}

	if br.err == nil && br.offset()-start != int64(size) {
		br.fail("patch %s: record size %d, read %d", p.Name, size, br.offset()-start)
	}
	return p
}
