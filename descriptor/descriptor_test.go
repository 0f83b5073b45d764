package descriptor

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-bankbuild/sfz"
)

const leadPatch = `
# lead voice
<generator>
name=samples/Lead.wav
waveform=sampledata
loopmode=continuous
rootkey=64
tune=-12
</generator>
<envelope>
applyto=amplitude
attack=0.01
release=0.4
sustain=0.8
</envelope>
<filter>
method=lowpass
cutoff=8000
</filter>
<lfo>
applyto=pitch
frequency=5.5
depth=0.2
</lfo>
<tags>
author=someone
</tags>
`

func TestWireSizes(t *testing.T) {
	assert.Equal(t, GeneratorSize, binary.Size(generatorWire{}))
	assert.Equal(t, EnvelopeSize, binary.Size(envelopeWire{}))
	assert.Equal(t, FilterSize, binary.Size(filterWire{}))
	assert.Equal(t, LFOSize, binary.Size(lfoWire{}))
}

func TestParse(t *testing.T) {
	list, err := Parse(strings.NewReader(leadPatch))
	require.NoError(t, err)

	require.Len(t, list.Generators, 1)
	require.Len(t, list.Envelopes, 1)
	require.Len(t, list.Filters, 1)
	require.Len(t, list.LFOs, 1)
	require.Len(t, list.Customs, 1)
	assert.Equal(t, 5, list.Count())

	g := list.Generators[0]
	assert.Equal(t, "samples/Lead.wav", g.AssetName)
	assert.Equal(t, WaveSampleData, g.Waveform)
	assert.Equal(t, LoopContinuous, g.LoopMode)
	assert.Equal(t, int16(64), g.RootKey)
	assert.Equal(t, int16(-12), g.Tune)
	assert.True(t, g.SampleBacked())

	assert.InDelta(t, 0.8, list.Envelopes[0].SustainLevel, 1e-6)
	assert.Equal(t, FilterLowpass, list.Filters[0].Method)
	assert.Equal(t, TargetPitch, list.LFOs[0].ApplyTo)

	c := list.Customs[0]
	assert.Equal(t, "tags", c.ID)
	assert.Equal(t, "author=someone\n", string(c.Data))
	assert.False(t, c.IsMember())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		line int
	}{
		{"unknown property", "<generator>\ncolour=red\n</generator>", 2},
		{"unclosed", "<envelope>\nattack=1\n", 1},
		{"mismatched close", "<filter>\n</lfo>", 2},
		{"close without open", "</filter>", 1},
		{"outside block", "attack=1", 1},
		{"nested", "<lfo>\n<filter>", 2},
		{"long custom id", "<toolong>\n</toolong>", 1},
		{"bad number", "<lfo>\nfrequency=fast\n</lfo>", 2},
		{"member without patch", "<mpat>\nkey=0-10\n</mpat>", 3},
		{"member bounds", "<mpat>\npatch=a.patch\nvel=90-10\n</mpat>", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body))
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}

func TestMemberMarker(t *testing.T) {
	body := "<mpat>\npatch=Strings.patch\nchan=2-3\nkey=c4-g4\nvel=10-100\n</mpat>\n"
	list, err := Parse(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, list.Customs, 1)

	c := list.Customs[0]
	assert.True(t, c.IsMember())
	assert.Equal(t, len("Strings.patch")+14, c.Size())

	m, err := c.Member()
	require.NoError(t, err)
	assert.Equal(t, Member{Patch: "Strings.patch", ChanLo: 2, ChanHi: 3, KeyLo: 60, KeyHi: 67, VelLo: 10, VelHi: 100}, m)
}

func TestMemberDefaults(t *testing.T) {
	m, err := NewMember("pad").Custom().Member()
	require.NoError(t, err)
	assert.Equal(t, NewMember("pad"), m)

	_, err = Custom{ID: "tags"}.Member()
	assert.Error(t, err)
}

func TestWriteToMatchesSize(t *testing.T) {
	list, err := Parse(strings.NewReader(leadPatch))
	require.NoError(t, err)
	list.Customs = append(list.Customs, NewMember("x.patch").Custom())

	var buf bytes.Buffer
	n, err := list.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(list.Size()), n)
	assert.Equal(t, list.Size(), buf.Len())

	// generator first, stored under its base name
	assert.Equal(t, GeneratorID, string(buf.Bytes()[:4]))
	assert.Equal(t, "Lead", strings.TrimRight(string(buf.Bytes()[8:8+NameSize]), "\x00"))
}

func TestEmptyList(t *testing.T) {
	var l *List
	assert.Equal(t, 0, l.Count())
	assert.Equal(t, 0, l.Size())
	n, err := l.WriteTo(&bytes.Buffer{})
	assert.NoError(t, err)
	assert.Zero(t, n)
}

func TestFromRegion(t *testing.T) {
	r := sfz.Region{
		Sample:         "pno/c4.wav",
		PitchKeycenter: 60,
		Transpose:      2,
		Tune:           5,
		LoopMode:       "loop_continuous",
		AmpegSustain:   50,
		ChanHi:         15,
		KeyLo:          50, KeyHi: 70,
		VelHi: 127,
	}
	list := FromRegion(r)
	require.Len(t, list.Generators, 1)
	require.Len(t, list.Envelopes, 1)

	g := list.Generators[0]
	assert.Equal(t, "pno/c4.wav", g.AssetName)
	assert.True(t, g.SampleBacked())
	assert.Equal(t, LoopContinuous, g.LoopMode)
	assert.Equal(t, int16(58), g.RootKey)
	assert.Equal(t, int16(5), g.Tune)
	assert.InDelta(t, 0.5, list.Envelopes[0].SustainLevel, 1e-6)
	assert.InDelta(t, 1.0, list.Envelopes[0].Depth, 1e-6)

	m := MemberFromRegion("c4_0", r)
	assert.Equal(t, uint8(50), m.KeyLo)
	assert.Equal(t, uint8(70), m.KeyHi)
}

func TestStoredName(t *testing.T) {
	assert.Equal(t, "piano", StoredName("piano.patch"))
	assert.Equal(t, "kick", StoredName("drums/kick.wav"))
	assert.Equal(t, "snare", StoredName(`drums\snare.wav`))
	assert.Equal(t, "lead_3", StoredName("lead_3"))
	assert.Equal(t, "Pad", StoredName("Pad.SFZ"))
	assert.Equal(t, "my.strings_0", StoredName("my.strings_0"))
	assert.Equal(t, "my.strings", StoredName("my.strings.sfz"))
}
