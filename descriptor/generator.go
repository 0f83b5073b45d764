package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// Waveform selects what a generator plays
type Waveform uint8

const (
	WaveSine Waveform = iota
	WaveSquare
	WaveSaw
	WaveTriangle
	WaveWhiteNoise
	WaveSampleData
)

var waveforms = map[string]Waveform{
	"sine":       WaveSine,
	"square":     WaveSquare,
	"saw":        WaveSaw,
	"triangle":   WaveTriangle,
	"whitenoise": WaveWhiteNoise,
	"sampledata": WaveSampleData,
}

// LoopMode controls how a generator repeats
type LoopMode uint8

const (
	LoopNone LoopMode = iota
	LoopOneShot
	LoopContinuous
	LoopUntilNoteOff
)

var loopModes = map[string]LoopMode{
	"noloop":           LoopNone,
	"oneshot":          LoopOneShot,
	"continuous":       LoopContinuous,
	"loopuntilnoteoff": LoopUntilNoteOff,
}

// NullAsset is the asset name of generators that play no sample
const NullAsset = "null"

// Generator produces the raw signal of a voice
type Generator struct {
	AssetName  string
	Waveform   Waveform
	LoopMode   LoopMode
	StartPhase float64 // -1 = derived from the asset
	EndPhase   float64
	LoopStart  float64
	LoopEnd    float64
	Offset     float64
	Period     float64
	RootKey    int16
	KeyTrack   int16 // cents per key
	VelTrack   int16
	Tune       int16 // cents
}

// NewGenerator returns a generator with default settings
func NewGenerator() Generator {
	return Generator{
		AssetName:  NullAsset,
		StartPhase: -1,
		EndPhase:   -1,
		LoopStart:  -1,
		LoopEnd:    -1,
		Period:     -1,
		RootKey:    60,
		KeyTrack:   100,
	}
}

// SampleBacked reports whether the generator plays a sample asset
func (g *Generator) SampleBacked() bool {
	return g.Waveform == WaveSampleData && !strings.EqualFold(g.AssetName, NullAsset)
}

func (g *Generator) set(key, value string) error {
	var err error
	switch key {
	case "name", "assetname":
		g.AssetName = value
	case "waveform":
		w, ok := waveforms[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown waveform %q", value)
		}
		g.Waveform = w
	case "loopmode":
		m, ok := loopModes[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown loop mode %q", value)
		}
		g.LoopMode = m
	case "startphase":
		g.StartPhase, err = strconv.ParseFloat(value, 64)
	case "endphase":
		g.EndPhase, err = strconv.ParseFloat(value, 64)
	case "loopstart":
		g.LoopStart, err = strconv.ParseFloat(value, 64)
	case "loopend":
		g.LoopEnd, err = strconv.ParseFloat(value, 64)
	case "offset":
		g.Offset, err = strconv.ParseFloat(value, 64)
	case "period":
		g.Period, err = strconv.ParseFloat(value, 64)
	case "rootkey":
		g.RootKey, err = parseInt16(value)
	case "keytrack":
		g.KeyTrack, err = parseInt16(value)
	case "veltrack":
		g.VelTrack, err = parseInt16(value)
	case "tune":
		g.Tune, err = parseInt16(value)
	default:
		return fmt.Errorf("unknown generator property %q", key)
	}
	return err
}

type generatorWire struct {
	AssetName  [NameSize]byte
	Waveform   uint8
	LoopMode   uint8
	StartPhase float64
	EndPhase   float64
	LoopStart  float64
	LoopEnd    float64
	Offset     float64
	Period     float64
	RootKey    int16
	KeyTrack   int16
	VelTrack   int16
	Tune       int16
}

func (g *Generator) wire() *generatorWire {
	w := &generatorWire{
		Waveform:   uint8(g.Waveform),
		LoopMode:   uint8(g.LoopMode),
		StartPhase: g.StartPhase,
		EndPhase:   g.EndPhase,
		LoopStart:  g.LoopStart,
		LoopEnd:    g.LoopEnd,
		Offset:     g.Offset,
		Period:     g.Period,
		RootKey:    g.RootKey,
		KeyTrack:   g.KeyTrack,
		VelTrack:   g.VelTrack,
		Tune:       g.Tune,
	}
	// assets are stored under their base name, so generators refer to them the same way
	copy(w.AssetName[:], StoredName(g.AssetName))
	return w
}

func parseInt16(s string) (int16, error) {
	n, err := strconv.ParseInt(s, 10, 16)
	return int16(n), err
}
