package bank

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is appended to output names that have none
const DefaultExtension = ".bank"

// ResolveOutputPath derives the bank file name from the input and an
// optional output argument:
//
//	""           -> input with ext
//	"out/"       -> out/<input base name><ext>
//	"out/name"   -> out/name<ext>
//	"out/name.x" -> unchanged
func ResolveOutputPath(input, output, ext string) string {
	if ext == "" {
		ext = DefaultExtension
	}
	output = strings.TrimSpace(output)
	switch {
	case output == "":
		return strings.TrimSuffix(input, filepath.Ext(input)) + ext
	case strings.HasSuffix(output, "/") || strings.HasSuffix(output, string(os.PathSeparator)):
		base := filepath.Base(input)
		return output + strings.TrimSuffix(base, filepath.Ext(base)) + ext
	case filepath.Ext(output) == "":
		return output + ext
	}
	return output
}

// resolveDir places a patchpath/assetpath relative to the text bank's
// directory unless it is absolute
func resolveDir(bankFile, dir string) string {
	dir = localPath(strings.TrimSpace(dir))
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(filepath.Dir(bankFile), dir)
}

// localPath accepts both separators in names written into text banks and patches
func localPath(name string) string {
	return filepath.FromSlash(strings.ReplaceAll(name, "\\", "/"))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
