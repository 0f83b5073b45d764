package descriptor

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"go-bankbuild/midi"
)

// MemberID marks a custom descriptor as a member of a multi patch
const MemberID = "mpat"

// Custom is a descriptor the engine interprets by ID; its size is len(Data)
type Custom struct {
	ID   string
	Data []byte
}

// Size returns the payload size in bytes
func (c Custom) Size() int {
	return len(c.Data)
}

// IsMember reports whether c is a multi member marker
func (c Custom) IsMember() bool {
	return c.ID == MemberID
}

// Member is one sub-patch of a multi, selected by channel, key and velocity
type Member struct {
	Patch          string
	ChanLo, ChanHi uint8
	KeyLo, KeyHi   uint8
	VelLo, VelHi   uint8
}

// NewMember returns a member covering every channel, key and velocity
func NewMember(patch string) Member {
	return Member{
		Patch:  patch,
		ChanHi: 15,
		KeyHi:  midi.MaxKey,
		VelHi:  midi.MaxKey,
	}
}

// Custom encodes the member as int16(len) name int16*6 bounds
func (m Member) Custom() Custom {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, int16(len(m.Patch)))
	buf.WriteString(m.Patch)
	for _, v := range []uint8{m.ChanLo, m.ChanHi, m.KeyLo, m.KeyHi, m.VelLo, m.VelHi} {
		binary.Write(&buf, binary.LittleEndian, int16(v))
	}
	return Custom{ID: MemberID, Data: buf.Bytes()}
}

// Member decodes a member marker
func (c Custom) Member() (Member, error) {
	if !c.IsMember() {
		return Member{}, fmt.Errorf("descriptor %q is not a member marker", c.ID)
	}
	r := bytes.NewReader(c.Data)
	var n int16
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil || n < 0 || int(n) > r.Len() {
		return Member{}, fmt.Errorf("member marker: bad name length")
	}
	name := make([]byte, n)
	r.Read(name)

	var bounds [6]int16
	if err := binary.Read(r, binary.LittleEndian, &bounds); err != nil {
		return Member{}, fmt.Errorf("member marker: %w", err)
	}
	return Member{
		Patch:  string(name),
		ChanLo: uint8(bounds[0]), ChanHi: uint8(bounds[1]),
		KeyLo: uint8(bounds[2]), KeyHi: uint8(bounds[3]),
		VelLo: uint8(bounds[4]), VelHi: uint8(bounds[5]),
	}, nil
}

func (m *Member) set(key, value string) error {
	switch key {
	case "patch", "name":
		m.Patch = value
		return nil
	case "chan", "channel":
		lo, hi, err := parseBounds(value, func(s string) (uint8, error) {
			return parseByte(s, 15)
		})
		m.ChanLo, m.ChanHi = lo, hi
		return err
	case "key":
		lo, hi, err := parseBounds(value, midi.ParseKey)
		m.KeyLo, m.KeyHi = lo, hi
		return err
	case "vel", "velocity":
		lo, hi, err := parseBounds(value, func(s string) (uint8, error) {
			return parseByte(s, midi.MaxKey)
		})
		m.VelLo, m.VelHi = lo, hi
		return err
	default:
		return fmt.Errorf("unknown member property %q", key)
	}
}

// parseBounds reads "lo-hi" or a single value; note names like a-1 are
// handled by splitting on the last dash that follows a digit
func parseBounds(s string, parse func(string) (uint8, error)) (uint8, uint8, error) {
	s = strings.TrimSpace(s)
	split := -1
	for i := 1; i < len(s); i++ {
		if s[i] == '-' && s[i-1] >= '0' && s[i-1] <= '9' {
			split = i
			break
		}
	}
	if split < 0 {
		v, err := parse(s)
		return v, v, err
	}
	lo, err := parse(s[:split])
	if err != nil {
		return 0, 0, err
	}
	hi, err := parse(s[split+1:])
	if err != nil {
		return 0, 0, err
	}
	if lo > hi {
		return 0, 0, fmt.Errorf("bounds %q: low above high", s)
	}
	return lo, hi, nil
}

func parseByte(s string, max int) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if n < 0 || n > max {
		return 0, fmt.Errorf("%d out of range 0-%d", n, max)
	}
	return uint8(n), nil
}
