// Package swift implements the SWIFT FIN block envelope grammar: the
// {1:}..{5:} structure wrapping a message text. Block 4 content is handed
// to the message-type parsers verbatim; this package only deals with the
// envelope itself.
package swift

import (
	"strings"

	"finbridge/internal/parsererror"
)

// Direction discriminates input (to SWIFT) from output (from SWIFT)
// application headers, which have different fixed layouts.
type Direction string

const (
	DirectionInput  Direction = "I"
	DirectionOutput Direction = "O"
)

// BasicHeader is the fixed-width block 1 of a FIN message.
type BasicHeader struct {
	AppID          string // 1 char, "F" (FIN), "A" (GPA), "L" (GPA login)
	ServiceID      string // 2 chars, "01" for FIN
	LTAddress      string // 12 chars, BIC + logical terminal + branch
	SessionNumber  string // 4 digits
	SequenceNumber string // 6 digits
}

// BIC returns the 8-character BIC embedded in the logical terminal address.
func (h BasicHeader) BIC() string {
	if len(h.LTAddress) >= 8 {
		return h.LTAddress[:8]
	}
	return h.LTAddress
}

// ApplicationHeader is block 2. The layout depends on the direction
// discriminator: an input header carries the receiver address, an output
// header carries the input time, MIR and output date/time.
type ApplicationHeader struct {
	Direction   Direction
	MessageType string // 3 digits, e.g. "940"
	Priority    string // "N", "U" or "S"

	// Input only.
	ReceiverAddress string // 12 chars

	// Output only.
	InputTime  string // HHMM
	MIR        string // 28 chars message input reference
	OutputDate string // YYMMDD
	OutputTime string // HHMM
}

// UserHeader is the optional block 3, a sequence of {tag:value} pairs.
// Well-known tags are lifted into named fields; everything else is kept
// in Tags verbatim.
type UserHeader struct {
	MUR            string // tag 108, message user reference
	UETR           string // tag 121, unique end-to-end transaction reference
	ValidationFlag string // tag 119, e.g. "STP"
	Tags           map[string]string
}

// Trailer is the optional block 5, a sequence of {tag:value} pairs.
type Trailer struct {
	Checksum          string // CHK
	PossibleDuplicate bool   // PDE
	Training          bool   // TNG
	Tags              map[string]string
}

// Envelope is a fully split FIN message. Text holds the raw block 4
// content up to (excluding) the terminating "-}" sentinel.
type Envelope struct {
	Basic       BasicHeader
	Application *ApplicationHeader
	User        *UserHeader
	Trailer     *Trailer
	Text        string
}

// MessageType returns the message type from the application header, or ""
// when block 2 is absent.
func (e *Envelope) MessageType() string {
	if e.Application == nil {
		return ""
	}
	return e.Application.MessageType
}

// HasEnvelope reports whether the buffer contains a block-1 marker.
func HasEnvelope(raw string) bool {
	return strings.Contains(raw, "{1:")
}

// Parse splits a single FIN message into its blocks. It fails with
// MissingEnvelopeError when no {1: block is present and with a structural
// error on malformed block boundaries or header layouts. Unknown optional
// block content is preserved rather than rejected.
func Parse(raw string) (*Envelope, error) {
	start := strings.Index(raw, "{1:")
	if start < 0 {
		return nil, &parsererror.MissingEnvelopeError{Snippet: snippet(raw)}
	}

	env := &Envelope{}
	rest := raw[start:]
	for len(rest) > 0 {
		rest = strings.TrimLeft(rest, " \r\n\t")
		if rest == "" || !strings.HasPrefix(rest, "{") {
			break
		}
		if len(rest) < 3 || rest[2] != ':' {
			return nil, &parsererror.StructuralError{
				Format:   "SWIFT",
				Location: "block marker",
				Msg:      "expected '{n:' block start, got " + snippet(rest),
			}
		}
		blockNum := rest[1]
		var content string
		var err error
		if blockNum == '4' {
			// Block 4 is not brace-parsed: everything up to the "-}"
			// sentinel belongs to the text, nested braces included.
			end := strings.Index(rest, "-}")
			if end < 0 {
				return nil, &parsererror.StructuralError{
					Format:   "SWIFT",
					Location: "block 4",
					Msg:      "missing '-}' text block terminator",
				}
			}
			content = rest[3:end]
			rest = rest[end+2:]
		} else {
			content, rest, err = readBracedBlock(rest)
			if err != nil {
				return nil, err
			}
		}

		switch blockNum {
		case '1':
			basic, err := parseBasicHeader(content)
			if err != nil {
				return nil, err
			}
			env.Basic = basic
		case '2':
			app, err := parseApplicationHeader(content)
			if err != nil {
				return nil, err
			}
			env.Application = app
		case '3':
			env.User = parseUserHeader(content)
		case '4':
			env.Text = strings.TrimPrefix(content, "\n")
		case '5':
			env.Trailer = parseTrailer(content)
		default:
			return nil, &parsererror.StructuralError{
				Format:   "SWIFT",
				Location: "block " + string(blockNum),
				Msg:      "unknown block number",
			}
		}
	}
	return env, nil
}

// ParseMultiple splits a buffer with several concatenated FIN messages on
// block-1 starts and parses each one.
func ParseMultiple(raw string) ([]*Envelope, error) {
	if !HasEnvelope(raw) {
		return nil, &parsererror.MissingEnvelopeError{Snippet: snippet(raw)}
	}
	var envelopes []*Envelope
	rest := raw
	for {
		start := strings.Index(rest, "{1:")
		if start < 0 {
			break
		}
		next := strings.Index(rest[start+3:], "{1:")
		var chunk string
		if next < 0 {
			chunk = rest[start:]
			rest = ""
		} else {
			chunk = rest[start : start+3+next]
			rest = rest[start+3+next:]
		}
		env, err := Parse(chunk)
		if err != nil {
			return nil, err
		}
		envelopes = append(envelopes, env)
	}
	return envelopes, nil
}

// readBracedBlock consumes one {n:...} block starting at rest[0],
// balancing nested braces (blocks 3 and 5 contain {tag:value} sub-blocks).
// It returns the content after the "{n:" prefix and the remaining input.
func readBracedBlock(rest string) (string, string, error) {
	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[3:i], rest[i+1:], nil
			}
		}
	}
	return "", "", &parsererror.StructuralError{
		Format:   "SWIFT",
		Location: "block " + string(rest[1]),
		Msg:      "unterminated block",
	}
}

// parseBasicHeader splits the fixed-width block 1 content, e.g.
// "F01BANKDEFFAXXX2222123456".
func parseBasicHeader(content string) (BasicHeader, error) {
	if len(content) < 25 {
		return BasicHeader{}, &parsererror.StructuralError{
			Format:   "SWIFT",
			Location: "block 1",
			Msg:      "basic header too short: expected 25 characters, got " + snippet(content),
		}
	}
	return BasicHeader{
		AppID:          content[0:1],
		ServiceID:      content[1:3],
		LTAddress:      content[3:15],
		SessionNumber:  content[15:19],
		SequenceNumber: content[19:25],
	}, nil
}

// parseApplicationHeader splits block 2, dispatching on the I/O
// discriminator.
func parseApplicationHeader(content string) (*ApplicationHeader, error) {
	if content == "" {
		return nil, &parsererror.StructuralError{
			Format:   "SWIFT",
			Location: "block 2",
			Msg:      "empty application header",
		}
	}
	switch Direction(content[0:1]) {
	case DirectionInput:
		// I + MT(3) + receiver(12) [+ priority(1) [+ monitoring/obsolescence]]
		if len(content) < 16 {
			return nil, &parsererror.StructuralError{
				Format:   "SWIFT",
				Location: "block 2",
				Msg:      "input header too short: expected at least 16 characters, got " + snippet(content),
			}
		}
		h := &ApplicationHeader{
			Direction:       DirectionInput,
			MessageType:     content[1:4],
			ReceiverAddress: content[4:16],
		}
		if len(content) > 16 {
			h.Priority = content[16:17]
		}
		return h, nil
	case DirectionOutput:
		// O + MT(3) + input time(4) + MIR(28) + output date(6) + output time(4) [+ priority(1)]
		if len(content) < 46 {
			return nil, &parsererror.StructuralError{
				Format:   "SWIFT",
				Location: "block 2",
				Msg:      "output header too short: expected at least 46 characters, got " + snippet(content),
			}
		}
		h := &ApplicationHeader{
			Direction:   DirectionOutput,
			MessageType: content[1:4],
			InputTime:   content[4:8],
			MIR:         content[8:36],
			OutputDate:  content[36:42],
			OutputTime:  content[42:46],
		}
		if len(content) > 46 {
			h.Priority = content[46:47]
		}
		return h, nil
	default:
		return nil, &parsererror.StructuralError{
			Format:   "SWIFT",
			Location: "block 2",
			Msg:      "unknown direction discriminator " + content[0:1],
		}
	}
}

func parseUserHeader(content string) *UserHeader {
	tags := parseTagBlocks(content)
	h := &UserHeader{Tags: tags}
	h.MUR = tags["108"]
	h.UETR = tags["121"]
	h.ValidationFlag = tags["119"]
	return h
}

func parseTrailer(content string) *Trailer {
	tags := parseTagBlocks(content)
	t := &Trailer{Tags: tags}
	t.Checksum = tags["CHK"]
	_, t.PossibleDuplicate = tags["PDE"]
	_, t.Training = tags["TNG"]
	return t
}

// parseTagBlocks reads a sequence of {tag:value} pairs into a map.
// Malformed fragments are skipped, not rejected: optional blocks vary
// between networks and partial trailers occur in archived traffic.
func parseTagBlocks(content string) map[string]string {
	tags := make(map[string]string)
	rest := content
	for {
		open := strings.Index(rest, "{")
		if open < 0 {
			break
		}
		closing := strings.Index(rest[open:], "}")
		if closing < 0 {
			break
		}
		pair := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]
		if colon := strings.Index(pair, ":"); colon >= 0 {
			tags[pair[:colon]] = pair[colon+1:]
		}
	}
	return tags
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 24 {
		return s[:24] + "..."
	}
	return s
}
