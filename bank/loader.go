package bank

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go-bankbuild/debug"
	"go-bankbuild/descriptor"
	"go-bankbuild/sfz"
)

// SfzType is the type keyword of leaves expanded from SFZ regions
const SfzType = "sfz"

// loadPatches loads every declared patch and everything they pull in.
// Multis discovered along the way enqueue their members; SFZ files are
// replaced by one leaf per region.
func (b *Builder) loadPatches() error {
	for _, p := range b.registry.Patches() {
		if path := b.patchFile(p.Name); !fileExists(path) {
			return &MissingFileError{Path: path}
		}
	}

	queue := append([]*Patch(nil), b.registry.Patches()...)
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		var (
			found []*Patch
			err   error
		)
		switch ext := strings.ToLower(filepath.Ext(p.Name)); ext {
		case ".patch":
			found, err = b.loadPatchFile(p)
		case ".sfz":
			err = b.loadSfz(p)
		default:
			err = &UnsupportedFormatError{Ext: ext, Patch: p.Name}
		}
		if err != nil {
			return err
		}
		queue = append(queue, found...)
	}

	debug.Log("loader", "loaded %d patches, %d multis", b.registry.Len(), len(b.multis))
	return nil
}

func (b *Builder) patchFile(name string) string {
	return filepath.Join(b.patchPath, localPath(name))
}

func (b *Builder) openPatch(p *Patch) (*os.File, error) {
	path := b.patchFile(p.Name)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, &MissingFileError{Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open patch %s", path)
	}
	return f, nil
}

// loadPatchFile reads a .patch file: version line, type line, descriptors.
// It returns the sub-patches a multi introduced.
func (b *Builder) loadPatchFile(p *Patch) ([]*Patch, error) {
	f, err := b.openPatch(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	first, err := readLine(r)
	if err != nil {
		return nil, b.lineError(p, 1, err)
	}
	i := strings.Index(first, "v")
	if i < 0 {
		return nil, &FormatError{File: p.Name, Line: 1, Msg: "missing format version"}
	}
	version, err := strconv.ParseFloat(strings.TrimSpace(first[i+1:]), 32)
	if err != nil {
		return nil, &FormatError{File: p.Name, Line: 1, Msg: fmt.Sprintf("invalid format version %q", first[i+1:])}
	}
	if float32(version) != descriptor.Version {
		return nil, &VersionError{Patch: p.Name, Got: float32(version), Want: descriptor.Version}
	}

	kind, err := readLine(r)
	if err != nil {
		return nil, b.lineError(p, 2, err)
	}
	p.Type = foldName(strings.TrimSpace(kind))
	if p.Type == "" {
		return nil, &FormatError{File: p.Name, Line: 2, Msg: "missing patch type"}
	}

	tree, err := descriptor.Parse(r)
	if err != nil {
		var pe *descriptor.ParseError
		if errors.As(err, &pe) {
			return nil, &FormatError{File: p.Name, Line: pe.Line + 2, Msg: pe.Msg}
		}
		return nil, errors.Wrapf(err, "read patch %s", p.Name)
	}
	p.Tree = tree
	debug.Log("loader", "%s: type %s, %d descriptors", p.Name, p.Type, tree.Count())

	if p.Type != TypeMulti {
		return nil, nil
	}
	return b.expandMulti(p)
}

// expandMulti moves p to the multi collection and registers the members
// not known yet
func (b *Builder) expandMulti(p *Patch) ([]*Patch, error) {
	if p.Tree.HasSynthesis() {
		return nil, &FormatError{File: p.Name, Msg: "invalid multi patch: only member markers are allowed"}
	}
	members := make([]descriptor.Member, 0, len(p.Tree.Customs))
	for _, c := range p.Tree.Customs {
		if !c.IsMember() {
			return nil, &FormatError{File: p.Name, Msg: fmt.Sprintf("invalid multi patch: unexpected descriptor %q", c.ID)}
		}
		m, err := c.Member()
		if err != nil {
			return nil, &FormatError{File: p.Name, Msg: err.Error()}
		}
		members = append(members, m)
	}

	b.registry.Remove(p)
	b.multis = append(b.multis, p)

	var found []*Patch
	for _, m := range members {
		if b.findMulti(m.Patch) != nil {
			continue
		}
		if sub, added := b.registry.AddUnassigned(m.Patch); added {
			debug.Log("loader", "%s: discovered member %s", p.Name, m.Patch)
			found = append(found, sub)
		}
	}
	return found, nil
}

// loadSfz expands an SFZ instrument: one leaf per region taking the SFZ
// entry's place, and a multi selecting the leaves
func (b *Builder) loadSfz(p *Patch) error {
	path := b.patchFile(p.Name)
	inst, err := sfz.ParseFile(path)
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &MissingFileError{Path: path}
	case errors.As(err, &pathErr):
		return errors.Wrapf(err, "read sfz %s", path)
	case err != nil:
		return &FormatError{File: p.Name, Msg: err.Error()}
	}
	if len(inst.Regions) == 0 {
		return &FormatError{File: p.Name, Msg: "no regions"}
	}

	base := leafBase(inst.Name, len(inst.Regions))
	leaves := make([]*Patch, len(inst.Regions))
	tree := &descriptor.List{}
	for i, region := range inst.Regions {
		name := fmt.Sprintf("%s_%d", base, i)
		if b.registry.Find(name) != nil || b.findMulti(name) != nil {
			return &FormatError{File: p.Name, Msg: fmt.Sprintf("expanded patch name %s is already in use", name)}
		}
		leaves[i] = &Patch{
			Name:   name,
			Format: FormatExpanded,
			Type:   SfzType,
			Ranges: []Range{unassigned},
			Tree:   descriptor.FromRegion(region),
		}
		tree.Customs = append(tree.Customs, descriptor.MemberFromRegion(name, region).Custom())
	}

	p.Type = TypeMulti
	p.Tree = tree
	b.registry.Replace(p, leaves)
	b.multis = append(b.multis, p)

	debug.Log("loader", "%s: expanded %d regions as %s_*", p.Name, len(leaves), base)
	return nil
}

// leafBase trims name from the left so that name_<index> fits a stored name
func leafBase(name string, regions int) string {
	excess := len(name) + 1 + len(strconv.Itoa(regions)) - descriptor.NameSize
	if excess > 0 && excess < len(name) {
		return name[excess:]
	}
	return name
}

func (b *Builder) findMulti(name string) *Patch {
	key := patchKey(name)
	for _, p := range b.multis {
		if patchKey(p.Name) == key {
			return p
		}
	}
	return nil
}

func (b *Builder) lineError(p *Patch, line int, err error) error {
	if err == io.EOF {
		return &FormatError{File: p.Name, Line: line, Msg: "unexpected end of file"}
	}
	return errors.Wrapf(err, "read patch %s", p.Name)
}

func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	return strings.TrimRight(line, "\r\n"), err
}
