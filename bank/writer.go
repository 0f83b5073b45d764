package bank

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"go-bankbuild/descriptor"
)

// chunkWriter counts bytes and keeps the first error so a record can be
// written without checking every field
type chunkWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *chunkWriter) str(s string, size int) {
	c.Write(descriptor.FixedString(s, size))
}

func (c *chunkWriter) value(v any) {
	if c.err != nil {
		return
	}
	if err := binary.Write(c, binary.LittleEndian, v); err != nil && c.err == nil {
		c.err = err
	}
}

// writeBank serializes l in one forward pass and returns the bytes written
func writeBank(w io.Writer, l *layout) (int64, error) {
	c := &chunkWriter{w: w}

	c.str("RIFF", 4)
	c.value(int32(l.total()))
	c.str("BANK", 4)

	c.str("INFO", 4)
	c.value(int32(l.infoSize - chunkHeaderSize))
	c.value(descriptor.Version)
	c.Write([]byte(l.comment))

	c.str("LIST", 4)
	c.value(int32(l.assetsSize - chunkHeaderSize))
	c.str("ASET", 4)
	for _, a := range l.assets {
		c.str("SMPL", 4)
		c.value(int32(assetFixedSize + len(a.Data)))
		c.str(a.StoredName(), descriptor.NameSize)
		c.value(a.SampleRate)
		c.value(a.RootKey)
		c.value(a.Tune)
		c.value(a.LoopStart)
		c.value(a.LoopEnd)
		c.value(a.Bits)
		c.value(a.Channels)
		c.Write(a.Data)
	}

	c.str("LIST", 4)
	c.value(int32(l.patchSize - chunkHeaderSize))
	c.str("INST", 4)
	for _, p := range l.simple {
		writePatch(c, p, p.Tree)
	}
	for _, p := range l.multis {
		writePatch(c, p, &descriptor.List{Customs: p.Tree.Customs})
	}

	if c.err != nil {
		return c.n, c.err
	}
	if want := int64(l.total()) + chunkHeaderSize; c.n != want {
		return c.n, fmt.Errorf("wrote %d bytes, expected %d", c.n, want)
	}
	return c.n, nil
}

func writePatch(c *chunkWriter, p *Patch, tree *descriptor.List) {
	c.str("PTCH", 4)
	c.value(int32(p.Size))
	c.str(p.StoredName(), descriptor.NameSize)
	c.str(p.TypeTag(), 4)
	c.value(int16(tree.Count()))
	if c.err == nil {
		if _, err := tree.WriteTo(c); err != nil && c.err == nil {
			c.err = err
		}
	}
	c.value(int16(len(p.Ranges)))
	for _, r := range p.Ranges {
		c.value(r.Bank)
		c.value(r.Start)
		c.value(r.End)
	}
}

// writeFile writes the bank next to path and renames it into place once
// every byte is on disk
func writeFile(path string, l *layout) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return 0, errors.Wrapf(err, "create %s", path)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	n, err := writeBank(bw, l)
	if err == nil {
		err = tmp.Chmod(0644)
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, errors.Wrapf(err, "write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, errors.Wrapf(err, "rename %s", path)
	}
	return n, nil
}
