package bank

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/h2non/filetype"
	"github.com/pkg/errors"

	"go-bankbuild/debug"
	"go-bankbuild/descriptor"
)

// SampleAsset is the PCM payload and playback metadata of one sample file
type SampleAsset struct {
	Name       string
	Channels   uint8
	Bits       uint8
	SampleRate int32
	RootKey    int16
	Tune       int16 // cents
	LoopStart  float64
	LoopEnd    float64
	Data       []byte
}

// StoredName is the name written into the bank record
func (a *SampleAsset) StoredName() string {
	return descriptor.StoredName(a.Name)
}

// smpl sample periods are relative to 44.1kHz (22675ns)
const (
	referenceRate   = 44100
	referencePeriod = 22675
	loopForward     = 0
)

// loadAssets loads every sample referenced by a simple patch's generators,
// once per case-folded asset name
func (b *Builder) loadAssets() error {
	loaded := map[string]bool{}
	stored := map[string]string{}

	for _, p := range b.registry.Patches() {
		if p.Tree == nil {
			continue
		}
		for _, g := range p.Tree.Generators {
			if !g.SampleBacked() {
				continue
			}
			key := foldName(localPath(g.AssetName))
			if loaded[key] {
				continue
			}

			asset, err := b.loadAsset(p, g.AssetName)
			if err != nil {
				return err
			}
			// generators reference assets by stored name only
			short := foldName(asset.StoredName())
			if other, ok := stored[short]; ok {
				return &FormatError{File: p.Name, Msg: fmt.Sprintf("assets %s and %s share the name %s", other, g.AssetName, asset.StoredName())}
			}
			stored[short] = g.AssetName
			loaded[key] = true
			b.assets = append(b.assets, asset)
		}
	}

	debug.Log("assets", "loaded %d assets", len(b.assets))
	return nil
}

func (b *Builder) loadAsset(p *Patch, name string) (*SampleAsset, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".wav" {
		return nil, &UnsupportedFormatError{Ext: ext, Asset: name, Patch: p.Name}
	}

	path := filepath.Join(b.assetPath, localPath(name))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read asset %s", path)
	}
	if !filetype.Is(raw, "wav") {
		return nil, &FormatError{File: name, Msg: "not a RIFF WAVE file"}
	}

	asset, warnings, err := decodeWav(name, raw)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		b.report.Warnings = append(b.report.Warnings, w)
		debug.Log("assets", "%s", w)
	}
	debug.Log("assets", "%s: %d ch, %d bit, %d Hz, %d bytes", name, asset.Channels, asset.Bits, asset.SampleRate, len(asset.Data))
	return asset, nil
}

// decodeWav extracts format, sampler metadata and PCM from a WAVE file
func decodeWav(name string, raw []byte) (*SampleAsset, []string, error) {
	d := wav.NewDecoder(bytes.NewReader(raw))
	if !d.IsValidFile() {
		return nil, nil, &FormatError{File: name, Msg: "invalid WAVE header"}
	}
	d.ReadMetadata()
	if err := d.Err(); err != nil && err != io.EOF {
		return nil, nil, &FormatError{File: name, Msg: err.Error()}
	}

	asset := &SampleAsset{
		Name:       name,
		Channels:   uint8(d.NumChans),
		Bits:       uint8(d.BitDepth),
		SampleRate: int32(d.SampleRate),
		RootKey:    60,
		LoopStart:  -1,
		LoopEnd:    -1,
	}

	var warnings []string
	if d.Metadata != nil && d.Metadata.SamplerInfo != nil {
		smpl := d.Metadata.SamplerInfo
		if smpl.SamplePeriod > 0 {
			asset.SampleRate = int32(referenceRate / (float64(smpl.SamplePeriod) / referencePeriod))
		}
		asset.RootKey = int16(smpl.MIDIUnityNote)
		asset.Tune = int16(fraction(smpl.MIDIPitchFraction) * 100)
		if len(smpl.Loops) > 0 {
			loop := smpl.Loops[0]
			if loop.Type != loopForward {
				warnings = append(warnings, fmt.Sprintf("%s: loop type %d is not forward, played as forward loop", name, loop.Type))
			}
			asset.LoopStart = float64(loop.Start)
			asset.LoopEnd = float64(loop.End) + fraction(loop.Fraction) + 1
		}
	}

	// a second pass positions a fresh decoder on the data chunk
	pcm := wav.NewDecoder(bytes.NewReader(raw))
	if err := pcm.FwdToPCM(); err != nil {
		return nil, nil, &FormatError{File: name, Msg: err.Error()}
	}
	asset.Data = make([]byte, pcm.PCMLen())
	if _, err := io.ReadFull(pcm.PCMChunk, asset.Data); err != nil {
		return nil, nil, &FormatError{File: name, Msg: fmt.Sprintf("truncated data chunk: %v", err)}
	}
	return asset, warnings, nil
}

// fraction converts a 32 bit fixed point fraction to [0, 1)
func fraction(v uint32) float64 {
	return float64(v) / math.Exp2(32)
}
