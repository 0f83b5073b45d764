package descriptor

import (
	"math"

	"go-bankbuild/sfz"
)

var sfzLoopModes = map[string]LoopMode{
	"no_loop":         LoopNone,
	"one_shot":        LoopOneShot,
	"loop_continuous": LoopContinuous,
	"loop_sustain":    LoopUntilNoteOff,
}

// FromRegion builds the tree of a leaf patch playing one SFZ region: a
// sample generator and an amplitude envelope
func FromRegion(r sfz.Region) *List {
	gen := NewGenerator()
	gen.AssetName = r.Sample
	gen.Waveform = WaveSampleData
	if mode, ok := sfzLoopModes[r.LoopMode]; ok {
		gen.LoopMode = mode
	}
	gen.RootKey = int16(r.PitchKeycenter) - r.Transpose
	gen.Tune = r.Tune

	env := NewEnvelope()
	env.ApplyTo = TargetAmplitude
	env.Delay = r.AmpegDelay
	env.Attack = r.AmpegAttack
	env.Hold = r.AmpegHold
	env.Decay = r.AmpegDecay
	env.Release = r.AmpegRelease
	env.SustainLevel = r.AmpegSustain / 100
	env.Depth = float32(math.Pow(10, float64(r.Volume)/20))

	return &List{
		Generators: []Generator{gen},
		Envelopes:  []Envelope{env},
	}
}

// MemberFromRegion returns the multi member marker selecting patch for r
func MemberFromRegion(patch string, r sfz.Region) Member {
	return Member{
		Patch:  patch,
		ChanLo: r.ChanLo, ChanHi: r.ChanHi,
		KeyLo: r.KeyLo, KeyHi: r.KeyHi,
		VelLo: r.VelLo, VelHi: r.VelHi,
	}
}
