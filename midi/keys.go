package midi

import (
	"fmt"
	"strconv"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Bank select values used by patch ranges
const (
	MelodicBank    int16 = 0
	DrumBank       int16 = 128 // percussion sentinel
	UnassignedBank int16 = -1  // sub-patch not yet placed by a range
)

// MaxKey is the highest MIDI key/velocity value
const MaxKey = 127

// NoteName returns the note name for a MIDI key (60 -> C5 in gomidi's octave numbering)
func NoteName(key uint8) string {
	return gomidi.Note(key).String()
}

// BankLabel returns a human readable label for a bank select value
func BankLabel(bank int16) string {
	switch bank {
	case MelodicBank:
		return "melodic"
	case DrumBank:
		return "drums"
	case UnassignedBank:
		return "unassigned"
	default:
		return fmt.Sprintf("bank %d", bank)
	}
}

// FormatRange renders a key range with note names, e.g. "C0-G5 (0-67)"
func FormatRange(start, end uint8) string {
	return fmt.Sprintf("%s-%s (%d-%d)", NoteName(start), NoteName(end), start, end)
}

var pitchClasses = map[byte]int{
	'c': 0, 'd': 2, 'e': 4, 'f': 5, 'g': 7, 'a': 9, 'b': 11,
}

// ParseKey parses a MIDI key given as a number ("60") or as a note name
// using the sfz convention where c4 is 60 ("c4", "c#4", "db4", "a-1").
func ParseKey(s string) (uint8, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty key")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > MaxKey {
			return 0, fmt.Errorf("key %d out of range", n)
		}
		return uint8(n), nil
	}

	lower := strings.ToLower(s)
	pc, ok := pitchClasses[lower[0]]
	if !ok {
		return 0, fmt.Errorf("invalid key %q", s)
	}
	rest := lower[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case '#':
			pc++
			rest = rest[1:]
		case 'b':
			// "b" alone is the note B; only treat it as a flat when an octave follows
			if len(rest) > 1 {
				pc--
				rest = rest[1:]
			}
		}
	}
	oct, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("invalid key %q", s)
	}
	n := (oct+1)*12 + pc
	if n < 0 || n > MaxKey {
		return 0, fmt.Errorf("key %q out of range", s)
	}
	return uint8(n), nil
}
