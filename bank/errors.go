package bank

import "fmt"

// FormatError reports malformed input: the text bank, a patch file, a
// descriptor tree or an asset that is not what its name claims
type FormatError struct {
	File string
	Line int // 0 when not tied to a line
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.File, e.Msg)
}

// VersionError reports a patch written for another format version
type VersionError struct {
	Patch string
	Got   float32
	Want  float32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("the patch %s has an incorrect version: v%.1f, want v%.1f", e.Patch, e.Got, e.Want)
}

// ConflictError reports two distinct patches claiming overlapping ranges
type ConflictError struct {
	Existing  string
	Candidate string
	Range     Range
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("patches %s and %s have overlapping assignments (%s)", e.Existing, e.Candidate, e.Range)
}

// MissingFileError reports a patch file that does not exist
type MissingFileError struct {
	Path string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("can not find the patch: %s", e.Path)
}

// UnsupportedFormatError reports a file extension the builder cannot load
type UnsupportedFormatError struct {
	Ext   string
	Asset string // empty for patch files
	Patch string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Asset == "" {
		return fmt.Sprintf("unknown patch format (%s), PatchName: %s", e.Ext, e.Patch)
	}
	return fmt.Sprintf("unknown format (%s), AssetName: %s, PatchName: %s", e.Ext, e.Asset, e.Patch)
}
