package mt9xx

import (
	"regexp"
	"strings"

	"finbridge/internal/models"
	"finbridge/internal/parsererror"
)

// field is one logical tagged field of the text block, with continuation
// lines already resolved.
type field struct {
	Tag   string
	Value string
	Line  int // 1-based physical line the field starts on
}

var tagLineRe = regexp.MustCompile(`^:(\d{2}[A-Z]?):(.*)$`)

// splitFields groups the physical lines of a text block into logical
// fields. A field's value continues on subsequent lines until the next
// ":tag:" marker or the "-}" terminator. Join semantics are tag-specific:
// :86: narrative is newline-joined, :61: statement lines must not be
// continued.
func splitFields(text string) ([]field, error) {
	var fields []field
	var current *field
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "-}" || line == "-" {
			break
		}
		if m := tagLineRe.FindStringSubmatch(line); m != nil {
			if current != nil {
				fields = append(fields, *current)
			}
			current = &field{Tag: m[1], Value: m[2], Line: i + 1}
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if current == nil {
			return nil, &parsererror.StructuralError{
				Format:   "MT9xx",
				Location: lineRef(i + 1),
				Msg:      "content before first tagged field: " + strings.TrimSpace(line),
			}
		}
		if current.Tag == "61" {
			return nil, &parsererror.StructuralError{
				Format:   "MT9xx",
				Location: lineRef(i + 1),
				Msg:      "statement line :61: must not be continued",
			}
		}
		current.Value += "\n" + line
	}
	if current != nil {
		fields = append(fields, *current)
	}
	return fields, nil
}

func lineRef(n int) string {
	return "line " + itoa(n)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// signCode maps a :61: debit/credit mark onto the indicator and reversal
// flag. The one-letter codes C and D are plain bookings; any two-letter
// code is a reversal keeping the original polarity. Both RD and DR occur
// in the wild for debit reversals and map identically.
func signCode(code string) (models.CreditDebit, bool, bool) {
	switch code {
	case "C":
		return models.Credit, false, true
	case "D":
		return models.Debit, false, true
	case "RC":
		return models.Credit, true, true
	case "RD", "DR":
		return models.Debit, true, true
	}
	return "", false, false
}
