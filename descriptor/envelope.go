package descriptor

import (
	"fmt"
	"strconv"
	"strings"
)

// Target is the parameter an envelope or LFO modulates
type Target uint8

const (
	TargetAmplitude Target = iota
	TargetPitch
	TargetFilter
)

var targets = map[string]Target{
	"amplitude": TargetAmplitude,
	"volume":    TargetAmplitude,
	"pitch":     TargetPitch,
	"filter":    TargetFilter,
}

// Curve is the shape of an envelope segment
type Curve uint8

const (
	CurveLinear Curve = iota
	CurveConvex
	CurveConcave
)

var curves = map[string]Curve{
	"linear":  CurveLinear,
	"convex":  CurveConvex,
	"concave": CurveConcave,
}

// Envelope is a DAHDSR envelope, times in seconds
type Envelope struct {
	ApplyTo      Target
	Delay        float32
	Attack       float32
	Hold         float32
	Decay        float32
	Release      float32
	AttackCurve  Curve
	DecayCurve   Curve
	ReleaseCurve Curve
	SustainLevel float32
	PeakLevel    float32
	StartLevel   float32
	Depth        float32
}

// NewEnvelope returns an envelope that opens instantly at full level
func NewEnvelope() Envelope {
	return Envelope{
		SustainLevel: 1,
		PeakLevel:    1,
		Depth:        1,
	}
}

func (e *Envelope) set(key, value string) error {
	var err error
	switch key {
	case "applyto":
		t, ok := targets[strings.ToLower(value)]
		if !ok {
			return fmt.Errorf("unknown target %q", value)
		}
		e.ApplyTo = t
	case "delay":
		e.Delay, err = parseFloat32(value)
	case "attack":
		e.Attack, err = parseFloat32(value)
	case "hold":
		e.Hold, err = parseFloat32(value)
	case "decay":
		e.Decay, err = parseFloat32(value)
	case "release":
		e.Release, err = parseFloat32(value)
	case "attackcurve":
		e.AttackCurve, err = parseCurve(value)
	case "decaycurve":
		e.DecayCurve, err = parseCurve(value)
	case "releasecurve":
		e.ReleaseCurve, err = parseCurve(value)
	case "sustain", "sustainlevel":
		e.SustainLevel, err = parseFloat32(value)
	case "peak", "peaklevel":
		e.PeakLevel, err = parseFloat32(value)
	case "start", "startlevel":
		e.StartLevel, err = parseFloat32(value)
	case "depth":
		e.Depth, err = parseFloat32(value)
	default:
		return fmt.Errorf("unknown envelope property %q", key)
	}
	return err
}

type envelopeWire struct {
	Delay        float32
	Attack       float32
	Hold         float32
	Decay        float32
	Release      float32
	AttackCurve  uint8
	DecayCurve   uint8
	ReleaseCurve uint8
	ApplyTo      uint8
	SustainLevel float32
	PeakLevel    float32
	StartLevel   float32
	Depth        float32
}

func (e *Envelope) wire() *envelopeWire {
	return &envelopeWire{
		Delay:        e.Delay,
		Attack:       e.Attack,
		Hold:         e.Hold,
		Decay:        e.Decay,
		Release:      e.Release,
		AttackCurve:  uint8(e.AttackCurve),
		DecayCurve:   uint8(e.DecayCurve),
		ReleaseCurve: uint8(e.ReleaseCurve),
		ApplyTo:      uint8(e.ApplyTo),
		SustainLevel: e.SustainLevel,
		PeakLevel:    e.PeakLevel,
		StartLevel:   e.StartLevel,
		Depth:        e.Depth,
	}
}

func parseCurve(s string) (Curve, error) {
	c, ok := curves[strings.ToLower(s)]
	if !ok {
		return 0, fmt.Errorf("unknown curve %q", s)
	}
	return c, nil
}

func parseFloat32(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}
