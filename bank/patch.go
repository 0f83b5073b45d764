package bank

import (
	"fmt"

	"go-bankbuild/descriptor"
	"go-bankbuild/midi"
)

// Range is the bank/key interval a patch is selectable on
type Range struct {
	Bank  int16
	Start uint8
	End   uint8
}

// unassigned is the placeholder range of sub-patches discovered through a multi
var unassigned = Range{Bank: midi.UnassignedBank}

// Intersects reports whether r and o share a bank and at least one key.
// Unassigned ranges never intersect anything.
func (r Range) Intersects(o Range) bool {
	if r.Bank != o.Bank || r.Bank == midi.UnassignedBank {
		return false
	}
	return r.Start <= o.End && o.Start <= r.End
}

// Touches is Intersects extended to adjacent intervals (0-63 touches 64-127)
func (r Range) Touches(o Range) bool {
	if r.Bank != o.Bank || r.Bank == midi.UnassignedBank {
		return false
	}
	return int(r.Start) <= int(o.End)+1 && int(o.Start) <= int(r.End)+1
}

// union returns the smallest range covering r and o
func (r Range) union(o Range) Range {
	return Range{Bank: r.Bank, Start: min(r.Start, o.Start), End: max(r.End, o.End)}
}

func (r Range) String() string {
	return fmt.Sprintf("%s %d-%d", midi.BankLabel(r.Bank), r.Start, r.End)
}

// Format is how a patch's descriptor tree is obtained
type Format int

const (
	FormatPatch    Format = iota // .patch text file
	FormatSfz                    // .sfz instrument, expanded into leaves
	FormatExpanded               // leaf synthesized from an SFZ region
)

func (f Format) String() string {
	switch f {
	case FormatPatch:
		return "patch"
	case FormatSfz:
		return "sfz"
	case FormatExpanded:
		return "expanded"
	}
	return "unknown"
}

// TypeMulti is the type keyword of layered/split instruments
const TypeMulti = "multi"

// Patch is one named instrument of the bank
type Patch struct {
	Name   string
	Format Format
	Type   string // type keyword, stored as a 4 byte tag
	Ranges []Range
	Tree   *descriptor.List
	Size   int // record payload size, set by the size pass
}

// StoredName is the name written into the bank record
func (p *Patch) StoredName() string {
	return descriptor.StoredName(p.Name)
}

// TypeTag is the 4 byte space padded type tag ("multi" -> "mult")
func (p *Patch) TypeTag() string {
	tag := p.Type
	if len(tag) > 4 {
		tag = tag[:4]
	}
	return fmt.Sprintf("%-4s", tag)
}

func (p *Patch) String() string {
	return fmt.Sprintf("%s, %s", p.Name, p.Type)
}
