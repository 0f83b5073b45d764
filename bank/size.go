package bank

import (
	"fmt"
	"math"

	"go-bankbuild/descriptor"
)

// Fixed record sizes, in bytes
const (
	chunkHeaderSize = 8  // id[4] int32(size)
	listHeaderSize  = 12 // id[4] int32(size) type[4]
	assetFixedSize  = 46 // name[20] rate, root, tune, loop start/end, bits, channels
	patchFixedSize  = 28 // name[20] type[4] int16 count, int16 range count
	rangeSize       = 4  // int16 bank, u8 start, u8 end
)

// layout is everything the serializer writes plus the precomputed sizes
// of every section
type layout struct {
	comment string
	assets  []*SampleAsset
	simple  []*Patch
	multis  []*Patch

	infoSize   int
	assetsSize int
	patchSize  int
}

// total is the RIFF length field: everything after it
func (l *layout) total() int {
	return 4 + l.infoSize + l.assetsSize + l.patchSize
}

// computeLayout sizes every section and caches each patch's record size
func (b *Builder) computeLayout() (*layout, error) {
	l := &layout{
		comment: b.comment,
		assets:  b.assets,
		simple:  b.registry.Patches(),
		multis:  b.multis,
	}

	l.infoSize = listHeaderSize + len(l.comment)

	l.assetsSize = listHeaderSize
	for _, a := range l.assets {
		l.assetsSize += chunkHeaderSize + assetFixedSize + len(a.Data)
	}

	l.patchSize = listHeaderSize
	for _, p := range l.simple {
		if err := checkCounts(p, p.Tree.Count()); err != nil {
			return nil, err
		}
		p.Size = patchFixedSize + rangeSize*len(p.Ranges) + p.Tree.Size()
		l.patchSize += chunkHeaderSize + p.Size
	}
	for _, p := range l.multis {
		if err := checkCounts(p, len(p.Tree.Customs)); err != nil {
			return nil, err
		}
		p.Size = patchFixedSize + rangeSize*len(p.Ranges) + p.Tree.CustomSize()
		l.patchSize += chunkHeaderSize + p.Size
	}

	if err := checkStoredNames(l); err != nil {
		return nil, err
	}
	if int64(l.total()) > math.MaxInt32 {
		return nil, fmt.Errorf("bank size %d exceeds the 32 bit RIFF limit", l.total())
	}
	return l, nil
}

func checkCounts(p *Patch, descriptors int) error {
	if len(p.Ranges) == 0 {
		return &FormatError{File: p.Name, Msg: "patch has no range"}
	}
	if descriptors > math.MaxInt16 || len(p.Ranges) > math.MaxInt16 {
		return &FormatError{File: p.Name, Msg: "too many descriptors or ranges"}
	}
	for _, c := range p.Tree.Customs {
		if len(c.Data) > math.MaxInt32-descriptor.HeaderSize {
			return &FormatError{File: p.Name, Msg: fmt.Sprintf("descriptor %q is too large", c.ID)}
		}
	}
	return nil
}

// checkStoredNames rejects two records that would carry the same 20 byte
// name, since members and generators refer to records by that name
func checkStoredNames(l *layout) error {
	seen := map[string]string{}
	for _, group := range [][]*Patch{l.simple, l.multis} {
		for _, p := range group {
			stored := string(descriptor.FixedString(p.StoredName(), descriptor.NameSize))
			key := foldName(stored)
			if other, ok := seen[key]; ok {
				return &FormatError{File: p.Name, Msg: fmt.Sprintf("stored name %q is also used by %s", p.StoredName(), other)}
			}
			seen[key] = p.Name
		}
	}
	return nil
}
