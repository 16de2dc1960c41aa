package swift

import (
	"strings"
)

// Generate serializes an envelope back into FIN block syntax. Only the
// blocks present on the envelope are emitted; the text block is wrapped in
// {4:\n...\n-} as on the wire.
func Generate(env *Envelope) string {
	var b strings.Builder

	b.WriteString("{1:")
	b.WriteString(env.Basic.AppID)
	b.WriteString(env.Basic.ServiceID)
	b.WriteString(env.Basic.LTAddress)
	b.WriteString(env.Basic.SessionNumber)
	b.WriteString(env.Basic.SequenceNumber)
	b.WriteString("}")

	if app := env.Application; app != nil {
		b.WriteString("{2:")
		b.WriteString(string(app.Direction))
		b.WriteString(app.MessageType)
		if app.Direction == DirectionInput {
			b.WriteString(app.ReceiverAddress)
		} else {
			b.WriteString(app.InputTime)
			b.WriteString(app.MIR)
			b.WriteString(app.OutputDate)
			b.WriteString(app.OutputTime)
		}
		b.WriteString(app.Priority)
		b.WriteString("}")
	}

	if user := env.User; user != nil {
		b.WriteString("{3:")
		// Named fields first, in conventional tag order, then the rest.
		writeTag(&b, "108", user.MUR)
		writeTag(&b, "119", user.ValidationFlag)
		writeTag(&b, "121", user.UETR)
		for tag, value := range user.Tags {
			if tag == "108" || tag == "119" || tag == "121" {
				continue
			}
			writeTag(&b, tag, value)
		}
		b.WriteString("}")
	}

	if env.Text != "" {
		b.WriteString("{4:\n")
		b.WriteString(strings.TrimSuffix(env.Text, "\n"))
		b.WriteString("\n-}")
	}

	if trl := env.Trailer; trl != nil {
		b.WriteString("{5:")
		writeTag(&b, "CHK", trl.Checksum)
		if trl.PossibleDuplicate {
			b.WriteString("{PDE:}")
		}
		if trl.Training {
			b.WriteString("{TNG:}")
		}
		for tag, value := range trl.Tags {
			if tag == "CHK" || tag == "PDE" || tag == "TNG" {
				continue
			}
			writeTag(&b, tag, value)
		}
		b.WriteString("}")
	}

	return b.String()
}

func writeTag(b *strings.Builder, tag, value string) {
	if value == "" {
		return
	}
	b.WriteString("{")
	b.WriteString(tag)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("}")
}
