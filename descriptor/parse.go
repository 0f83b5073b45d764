package descriptor

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseError reports a malformed descriptor body; Line is 1-based within
// the reader given to Parse
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

type setter interface {
	set(key, value string) error
}

// Parse reads descriptor blocks:
//
//	<generator>
//	waveform=sampledata
//	name=piano.wav
//	</generator>
//
// Known kinds are generator, envelope, filter and lfo. Any other tag of at
// most four characters is a custom descriptor with that ID; mpat blocks are
// multi member markers.
func Parse(r io.Reader) (*List, error) {
	list := &List{}
	scanner := bufio.NewScanner(r)

	var (
		kind    string
		target  setter
		member  *Member
		gen     Generator
		env     Envelope
		flt     Filter
		lfo     LFO
		rawBody strings.Builder
		lineNo  int
		openAt  int
	)

	fail := func(format string, args ...any) error {
		return &ParseError{Line: lineNo, Msg: fmt.Sprintf(format, args...)}
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		// Skip blanks and comments
		if line == "" || line[0] == '#' {
			continue
		}

		if strings.HasPrefix(line, "</") {
			if !strings.HasSuffix(line, ">") {
				return nil, fail("malformed closing tag %q", line)
			}
			name := strings.ToLower(strings.TrimSpace(line[2 : len(line)-1]))
			if kind == "" {
				return nil, fail("closing tag </%s> without opening tag", name)
			}
			if name != kind {
				return nil, fail("expected </%s>, found </%s>", kind, name)
			}

			switch kind {
			case "generator":
				list.Generators = append(list.Generators, gen)
			case "envelope":
				list.Envelopes = append(list.Envelopes, env)
			case "filter":
				list.Filters = append(list.Filters, flt)
			case "lfo":
				list.LFOs = append(list.LFOs, lfo)
			case MemberID:
				if member.Patch == "" {
					return nil, fail("member marker without patch name")
				}
				list.Customs = append(list.Customs, member.Custom())
			default:
				list.Customs = append(list.Customs, Custom{ID: kind, Data: []byte(rawBody.String())})
			}
			kind, target, member = "", nil, nil
			continue
		}

		if strings.HasPrefix(line, "<") {
			if !strings.HasSuffix(line, ">") {
				return nil, fail("malformed tag %q", line)
			}
			if kind != "" {
				return nil, fail("<%s> opened at line %d is not closed", kind, openAt)
			}
			kind = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			openAt = lineNo

			switch kind {
			case "generator":
				gen = NewGenerator()
				target = &gen
			case "envelope":
				env = NewEnvelope()
				target = &env
			case "filter":
				flt = NewFilter()
				target = &flt
			case "lfo":
				lfo = NewLFO()
				target = &lfo
			case MemberID:
				m := NewMember("")
				member = &m
				target = member
			default:
				if kind == "" || len(kind) > 4 {
					return nil, fail("invalid custom descriptor id %q", kind)
				}
				rawBody.Reset()
			}
			continue
		}

		if kind == "" {
			return nil, fail("property %q outside of a descriptor block", line)
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fail("expected key=value, found %q", line)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		if target == nil {
			// custom descriptor: keep the property verbatim
			rawBody.WriteString(key + "=" + value + "\n")
			continue
		}
		if err := target.set(key, value); err != nil {
			return nil, fail("%s: %v", kind, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if kind != "" {
		return nil, &ParseError{Line: openAt, Msg: fmt.Sprintf("<%s> is not closed", kind)}
	}

	return list, nil
}
