package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// FilterMethod selects the filter response
type FilterMethod uint8

const (
	FilterNone FilterMethod = iota
	FilterLowpass
	FilterHighpass
	FilterBandpass
)

var filterMethods = map[string]FilterMethod{
	"none":     FilterNone,
	"lowpass":  FilterLowpass,
	"highpass": FilterHighpass,
	"bandpass": FilterBandpass,
}

// Filter shapes the generator output
type Filter struct {
	Method    FilterMethod
	Poles     uint8
	Cutoff    float32 // Hz
	Resonance float32
	RootKey   int16
	KeyTrack  int16
	VelTrack  int16
}

func NewFilter() Filter {
	return Filter{
		Poles:     2,
		Cutoff:    22050,
		Resonance: 1,
		RootKey:   60,
	}
}

func (f *Filter) set(key, value string) error {
	var err error
	switch key {
	case "method", "type":
		m, ok := filterMethods[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown filter method %q", value)
		}
		f.Method = m
	case "poles":
		var n uint64
		n, err = strconv.ParseUint(value, 10, 8)
		f.Poles = uint8(n)
	case "cutoff":
		f.Cutoff, err = parseFloat32(value)
	case "resonance":
		f.Resonance, err = parseFloat32(value)
	case "rootkey":
		f.RootKey, err = parseInt16(value)
	case "keytrack":
		f.KeyTrack, err = parseInt16(value)
	case "veltrack":
		f.VelTrack, err = parseInt16(value)
	default:
		return fmt.Errorf("unknown filter property %q", key)
	}
	return err
}

type filterWire struct {
	Method    uint8
	Poles     uint8
	Cutoff    float32
	Resonance float32
	RootKey   int16
	KeyTrack  int16
	VelTrack  int16
}

func (f *Filter) wire() *filterWire {
	return &filterWire{
		Method:    uint8(f.Method),
		Poles:     f.Poles,
		Cutoff:    f.Cutoff,
		Resonance: f.Resonance,
		RootKey:   f.RootKey,
		KeyTrack:  f.KeyTrack,
		VelTrack:  f.VelTrack,
	}
}

// LFO is a low frequency oscillator
type LFO struct {
	ApplyTo   Target
	Waveform  Waveform
	Delay     float32
	Frequency float32
	Depth     float32
}

func NewLFO() LFO {
	return LFO{
		ApplyTo:   TargetPitch,
		Frequency: 8,
	}
}

func (o *LFO) set(key, value string) error {
	var err error
	switch key {
	case "applyto":
		t, ok := targets[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown target %q", value)
		}
		o.ApplyTo = t
	case "waveform":
		w, ok := waveforms[strings.ToLower(value)]
		if !ok || w == WaveSampleData {
			return fmt.Errorf("unsupported lfo waveform %q", value)
		}
		o.Waveform = w
	case "delay":
		o.Delay, err = parseFloat32(value)
	case "frequency":
		o.Frequency, err = parseFloat32(value)
	case "depth":
		o.Depth, err = parseFloat32(value)
	default:
		return fmt.Errorf("unknown lfo property %q", key)
	}
	return err
}

type lfoWire struct {
	ApplyTo   uint8
	Waveform  uint8
	Delay     float32
	Frequency float32
	Depth     float32
}

func (o *LFO) wire() *lfoWire {
	return &lfoWire{
		ApplyTo:   uint8(o.ApplyTo),
		Waveform:  uint8(o.Waveform),
		Delay:     o.Delay,
		Frequency: o.Frequency,
		Depth:     o.Depth,
	}
}
