package mt9xx

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbridge/internal/models"
	"finbridge/internal/parsererror"
	"finbridge/internal/swift"
)

// defaultTypeCode is used for statement lines whose source carried no
// format-native transaction type.
const defaultTypeCode = "NMSC"

// Generate serializes a statement document as an MT940 text block. The
// document must satisfy its own balance invariant; generation refuses to
// emit an inconsistent statement.
func Generate(doc *models.StatementDocument) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", err
	}
	if doc.Opening == nil || doc.Closing == nil {
		return "", &parsererror.ValidationError{
			Format: "MT9xx",
			Rule:   "MT940 requires both opening and closing balances",
		}
	}

	var b strings.Builder
	writeField(&b, "20", orDefault(doc.ReferenceID, "STMT"))
	writeField(&b, "25", doc.AccountID)
	writeField(&b, "28C", orDefault(doc.SequenceNumber, "1/1"))
	writeField(&b, balanceTag("60", doc.Opening.SubType), formatBalance(*doc.Opening))
	for _, tx := range doc.Transactions {
		writeField(&b, "61", formatStatementLine(tx))
		if tx.Reference.AdditionalInfo != "" {
			writeField(&b, "86", tx.Reference.AdditionalInfo)
		}
	}
	writeField(&b, balanceTag("62", doc.Closing.SubType), formatBalance(*doc.Closing))
	return b.String(), nil
}

// GenerateMessage wraps the generated text block in a minimal input-side
// FIN envelope with the given sender and receiver addresses.
func GenerateMessage(doc *models.StatementDocument, senderLT, receiverLT string) (string, error) {
	text, err := Generate(doc)
	if err != nil {
		return "", err
	}
	env := &swift.Envelope{
		Basic: swift.BasicHeader{
			AppID:          "F",
			ServiceID:      "01",
			LTAddress:      pad(senderLT, 12),
			SessionNumber:  "0000",
			SequenceNumber: "000000",
		},
		Application: &swift.ApplicationHeader{
			Direction:       swift.DirectionInput,
			MessageType:     "940",
			ReceiverAddress: pad(receiverLT, 12),
			Priority:        "N",
		},
		Text: text,
	}
	return swift.Generate(env), nil
}

func writeField(b *strings.Builder, tag, value string) {
	b.WriteString(":")
	b.WriteString(tag)
	b.WriteString(":")
	b.WriteString(value)
	b.WriteString("\n")
}

func balanceTag(prefix, subType string) string {
	if subType == "ITBD" {
		return prefix + "M"
	}
	return prefix + "F"
}

func formatBalance(bal models.Balance) string {
	mark := "C"
	if bal.Indicator == models.Debit {
		mark = "D"
	}
	return mark + bal.Date.Format("060102") + bal.Amount.Currency + formatCommaAmount(bal.Amount.Amount)
}

func formatStatementLine(tx models.Transaction) string {
	var b strings.Builder
	b.WriteString(tx.BookingDate.Format("060102"))
	if !tx.ValueDate.IsZero() && !sameDay(tx.ValueDate, tx.BookingDate) {
		b.WriteString(tx.ValueDate.Format("0102"))
	}
	b.WriteString(formatMark(tx))
	b.WriteString(formatCommaAmount(tx.Amount))
	b.WriteString(orDefault(tx.ProprietaryCode, defaultTypeCode))
	b.WriteString(orDefault(tx.Reference.EndToEndID, "NONREF"))
	if tx.Reference.AccountServicerRef != "" {
		b.WriteString("//")
		b.WriteString(tx.Reference.AccountServicerRef)
	}
	return b.String()
}

// formatMark is the inverse of signCode. Debit reversals are emitted as
// "RD"; the "DR" spelling is accepted on input only.
func formatMark(tx models.Transaction) string {
	switch {
	case tx.Reversal && tx.CreditDebit == models.Credit:
		return "RC"
	case tx.Reversal:
		return "RD"
	case tx.CreditDebit == models.Credit:
		return "C"
	default:
		return "D"
	}
}

func formatCommaAmount(d decimal.Decimal) string {
	return strings.Replace(d.Abs().StringFixed(2), ".", ",", 1)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat("X", n-len(s))
}
