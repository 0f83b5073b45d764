// Package sfz reads the region layout of SFZ instrument files.
package sfz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go-bankbuild/midi"
)

// Region is one sample mapping of an SFZ instrument
type Region struct {
	Sample         string
	ChanLo, ChanHi uint8 // 0-based
	KeyLo, KeyHi   uint8
	VelLo, VelHi   uint8
	PitchKeycenter uint8
	Tune           int16 // cents
	Transpose      int16 // semitones
	LoopMode       string
	Volume         float32 // dB

	AmpegDelay   float32
	AmpegAttack  float32
	AmpegHold    float32
	AmpegDecay   float32
	AmpegSustain float32 // percent
	AmpegRelease float32
}

// File is a parsed SFZ instrument
type File struct {
	Name    string
	Regions []Region
}

var opcodeRe = regexp.MustCompile(`([A-Za-z0-9_]+)=`)

// ParseFile parses the SFZ file at path; the instrument is named after the
// file without extension
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	base := filepath.Base(path)
	return Parse(f, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse reads global, group and region headers; opcodes of enclosing
// global and group headers are inherited by their regions
func Parse(r io.Reader, name string) (*File, error) {
	file := &File{Name: name}

	var (
		global  = map[string]string{}
		group   = map[string]string{}
		region  map[string]string
		current = global
		lineNo  int
	)

	flush := func() error {
		if region == nil {
			return nil
		}
		merged := map[string]string{}
		for _, layer := range []map[string]string{global, group, region} {
			for k, v := range layer {
				merged[k] = v
			}
		}
		reg, err := buildRegion(merged)
		if err != nil {
			return fmt.Errorf("%s region %d: %w", name, len(file.Regions), err)
		}
		file.Regions = append(file.Regions, reg)
		region = nil
		return nil
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.Index(line, "//"); i >= 0 {
			line = line[:i]
		}

		for strings.TrimSpace(line) != "" {
			line = strings.TrimSpace(line)
			if line[0] == '<' {
				end := strings.IndexByte(line, '>')
				if end < 0 {
					return nil, fmt.Errorf("%s line %d: unterminated header", name, lineNo)
				}
				header := strings.ToLower(line[1:end])
				line = line[end+1:]

				if err := flush(); err != nil {
					return nil, err
				}
				switch header {
				case "global":
					global = map[string]string{}
					group = map[string]string{}
					current = global
				case "group", "master":
					group = map[string]string{}
					current = group
				case "region":
					region = map[string]string{}
					current = region
				default:
					// control, curve, effect... carry nothing we store
					current = map[string]string{}
				}
				continue
			}

			// opcodes run until the next header on the same line
			text := line
			if i := strings.IndexByte(line, '<'); i >= 0 {
				text, line = line[:i], line[i:]
			} else {
				line = ""
			}
			if err := parseOpcodes(text, current); err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return file, nil
}

// parseOpcodes splits "a=1 sample=my file.wav b=2"; values may contain spaces
func parseOpcodes(text string, into map[string]string) error {
	locs := opcodeRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return fmt.Errorf("expected opcode=value, found %q", strings.TrimSpace(text))
	}
	for i, loc := range locs {
		valueEnd := len(text)
		if i+1 < len(locs) {
			valueEnd = locs[i+1][0]
		}
		key := strings.ToLower(text[loc[2]:loc[3]])
		into[key] = strings.TrimSpace(text[loc[1]:valueEnd])
	}
	return nil
}

func buildRegion(op map[string]string) (Region, error) {
	reg := Region{
		ChanHi:         15,
		KeyHi:          midi.MaxKey,
		VelHi:          midi.MaxKey,
		PitchKeycenter: 60,
		AmpegSustain:   100,
	}

	sample, ok := op["sample"]
	if !ok || sample == "" {
		return reg, fmt.Errorf("missing sample opcode")
	}
	reg.Sample = filepath.ToSlash(strings.ReplaceAll(sample, "\\", "/"))

	var err error
	if v, ok := op["key"]; ok {
		if reg.KeyLo, err = midi.ParseKey(v); err != nil {
			return reg, err
		}
		reg.KeyHi, reg.PitchKeycenter = reg.KeyLo, reg.KeyLo
	}

	keys := []struct {
		name string
		dst  *uint8
	}{
		{"lokey", &reg.KeyLo},
		{"hikey", &reg.KeyHi},
		{"pitch_keycenter", &reg.PitchKeycenter},
	}
	for _, k := range keys {
		if v, ok := op[k.name]; ok {
			if *k.dst, err = midi.ParseKey(v); err != nil {
				return reg, fmt.Errorf("%s: %w", k.name, err)
			}
		}
	}

	bytes := []struct {
		name     string
		dst      *uint8
		min, max int
		offset   int
	}{
		{"lovel", &reg.VelLo, 0, 127, 0},
		{"hivel", &reg.VelHi, 0, 127, 0},
		{"lochan", &reg.ChanLo, 1, 16, -1},
		{"hichan", &reg.ChanHi, 1, 16, -1},
	}
	for _, b := range bytes {
		v, ok := op[b.name]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < b.min || n > b.max {
			return reg, fmt.Errorf("%s: invalid value %q", b.name, v)
		}
		*b.dst = uint8(n + b.offset)
	}

	ints := []struct {
		name string
		dst  *int16
	}{
		{"tune", &reg.Tune},
		{"transpose", &reg.Transpose},
	}
	for _, i := range ints {
		if v, ok := op[i.name]; ok {
			n, err := strconv.ParseInt(v, 10, 16)
			if err != nil {
				return reg, fmt.Errorf("%s: invalid value %q", i.name, v)
			}
			*i.dst = int16(n)
		}
	}

	floats := []struct {
		name string
		dst  *float32
	}{
		{"volume", &reg.Volume},
		{"ampeg_delay", &reg.AmpegDelay},
		{"ampeg_attack", &reg.AmpegAttack},
		{"ampeg_hold", &reg.AmpegHold},
		{"ampeg_decay", &reg.AmpegDecay},
		{"ampeg_sustain", &reg.AmpegSustain},
		{"ampeg_release", &reg.AmpegRelease},
	}
	for _, f := range floats {
		if v, ok := op[f.name]; ok {
			n, err := strconv.ParseFloat(v, 32)
			if err != nil {
				return reg, fmt.Errorf("%s: invalid value %q", f.name, v)
			}
			*f.dst = float32(n)
		}
	}

	reg.LoopMode = op["loop_mode"]
	if reg.KeyLo > reg.KeyHi || reg.VelLo > reg.VelHi || reg.ChanLo > reg.ChanHi {
		return reg, fmt.Errorf("low bound above high bound")
	}
	return reg, nil
}
