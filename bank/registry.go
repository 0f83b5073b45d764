package bank

import (
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"

	"go-bankbuild/descriptor"
)

// Registry is the simple-patch collection of one build. Names are unique
// and no two patches own intersecting ranges.
type Registry struct {
	patches []*Patch
}

// Register adds r to the patch called name, matched like Find by its
// case-folded base name. Every other patch is checked
// for an intersecting range first. If the patch exists, a range of its own
// touching r is widened to cover both and coalesced with any further own
// ranges it now touches; otherwise r is appended as a separate range.
func (reg *Registry) Register(name string, r Range) error {
	var owner *Patch
	key := patchKey(name)
	for _, p := range reg.patches {
		if patchKey(p.Name) == key {
			owner = p
			continue
		}
		for _, own := range p.Ranges {
			if own.Intersects(r) {
				return &ConflictError{Existing: p.Name, Candidate: name, Range: r}
			}
		}
	}

	if owner == nil {
		reg.patches = append(reg.patches, &Patch{
			Name:   name,
			Format: formatOf(name),
			Ranges: []Range{r},
		})
		return nil
	}
	owner.Ranges = mergeRange(owner.Ranges, r)
	return nil
}

// AddUnassigned registers a sub-patch found through a multi with the
// unassigned placeholder range, unless a patch with the same base name is
// already present. It reports whether a patch was added.
func (reg *Registry) AddUnassigned(name string) (*Patch, bool) {
	if p := reg.Find(name); p != nil {
		return p, false
	}
	p := &Patch{
		Name:   name,
		Format: formatOf(name),
		Ranges: []Range{unassigned},
	}
	reg.patches = append(reg.patches, p)
	return p, true
}

// Find returns the patch whose base name matches name, ignoring case and extension
func (reg *Registry) Find(name string) *Patch {
	key := patchKey(name)
	for _, p := range reg.patches {
		if patchKey(p.Name) == key {
			return p
		}
	}
	return nil
}

// Patches returns the simple patches in registration order
func (reg *Registry) Patches() []*Patch {
	return reg.patches
}

// Len returns the number of simple patches
func (reg *Registry) Len() int {
	return len(reg.patches)
}

// Remove takes p out of the collection
func (reg *Registry) Remove(p *Patch) {
	reg.Replace(p, nil)
}

// Replace puts leaves where p was, keeping the order of everything else
func (reg *Registry) Replace(p *Patch, leaves []*Patch) {
	for i, q := range reg.patches {
		if q != p {
			continue
		}
		rest := append([]*Patch(nil), reg.patches[i+1:]...)
		reg.patches = append(append(reg.patches[:i], leaves...), rest...)
		return
	}
}

// Clear drops every patch
func (reg *Registry) Clear() {
	reg.patches = nil
}

func mergeRange(ranges []Range, r Range) []Range {
	at := -1
	for i, own := range ranges {
		if own.Touches(r) {
			at = i
			break
		}
	}
	if at < 0 {
		return append(ranges, r)
	}
	ranges[at] = ranges[at].union(r)

	// the widened range may now reach other ranges of the same patch
	for merged := true; merged; {
		merged = false
		for i := range ranges {
			if i == at || !ranges[i].Touches(ranges[at]) {
				continue
			}
			ranges[at] = ranges[at].union(ranges[i])
			ranges = append(ranges[:i], ranges[i+1:]...)
			if i < at {
				at--
			}
			merged = true
			break
		}
	}
	return ranges
}

func formatOf(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".sfz") {
		return FormatSfz
	}
	return FormatPatch
}

// patchKey identifies a patch across declarations and multi members
func patchKey(name string) string {
	return foldName(descriptor.StoredName(name))
}

func foldName(s string) string {
	return cases.Fold().String(s)
}
