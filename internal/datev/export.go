package datev

import (
	"fmt"
	"strings"
	"time"

	"finbridge/internal/models"
	"finbridge/internal/parsererror"
)

// TruncationPolicy decides what happens on export when a value exceeds
// its field's maximum length. Input parsing never truncates.
type TruncationPolicy int

const (
	// TruncateHard cuts the value at the maximum length.
	TruncateHard TruncationPolicy = iota
	// TruncateEllipsis cuts earlier and marks the cut with "...". Fields
	// too short to carry the marker fall back to a hard cut.
	TruncateEllipsis
)

// TruncationPolicyFromString resolves a configuration value.
func TruncationPolicyFromString(s string) (TruncationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hard":
		return TruncateHard, nil
	case "ellipsis":
		return TruncateEllipsis, nil
	}
	return TruncateHard, &parsererror.ConfigurationError{Type: fmt.Sprintf("unknown truncation policy %q", s)}
}

func (p TruncationPolicy) apply(value string, max int) string {
	runes := []rune(value)
	if max <= 0 || len(runes) <= max {
		return value
	}
	if p == TruncateEllipsis && max > 3 {
		return string(runes[:max-3]) + "..."
	}
	return string(runes[:max])
}

// Write serializes a parsed document back to DATEV text, applying the
// truncation policy to every field that exceeds its maximum length.
func Write(doc *Document, policy TruncationPolicy) (string, error) {
	if doc.Format == FormatUnknown {
		return "", &parsererror.UnknownFormatError{Token: "", Kind: "datev format"}
	}
	var sb strings.Builder
	sb.WriteString(joinRecord(doc.Header.Raw))
	sb.WriteString("\r\n")
	for _, b := range doc.Bookings {
		fields := make([]string, len(b.Fields))
		for i, v := range b.Fields {
			fields[i] = policy.apply(v, doc.Format.MaxFieldLength(i))
		}
		sb.WriteString(joinRecord(fields))
		sb.WriteString("\r\n")
	}
	return sb.String(), nil
}

// FromStatement builds a Buchungsstapel document from the common
// statement model. The statement account becomes the Konto of every
// line; balances have no DATEV representation and are dropped.
func FromStatement(doc *models.StatementDocument) (*Document, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	out := &Document{
		Format:  Buchungsstapel,
		Version: "700",
		Header:  buildHeader(doc),
	}
	seen := map[string]bool{}
	for i, tx := range doc.Transactions {
		b := bookingFromTransaction(tx, doc.AccountID, i)
		out.Bookings = append(out.Bookings, b)
		if b.Currency != "" && !seen[b.Currency] {
			seen[b.Currency] = true
			out.Currencies = append(out.Currencies, b.Currency)
		}
	}
	return out, nil
}

func buildHeader(doc *models.StatementDocument) MetaHeader {
	var periodStart, periodEnd time.Time
	for _, tx := range doc.Transactions {
		if periodStart.IsZero() || tx.BookingDate.Before(periodStart) {
			periodStart = tx.BookingDate
		}
		if tx.BookingDate.After(periodEnd) {
			periodEnd = tx.BookingDate
		}
	}
	header := MetaHeader{
		Token:        "EXTF",
		FormatName:   Buchungsstapel.String(),
		Version:      "700",
		Description:  doc.ReferenceID,
		BaseCurrency: doc.Currency,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
	}
	if !periodStart.IsZero() {
		header.FiscalYearStart = time.Date(periodStart.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	}

	raw := make([]string, headerBaseCurrency+1)
	raw[headerToken] = header.Token
	raw[1] = "700"
	raw[2] = "21"
	raw[headerFormatName] = header.FormatName
	raw[headerVersion] = header.Version
	raw[headerOrigin] = "RE"
	if !header.FiscalYearStart.IsZero() {
		raw[headerFiscalStart] = header.FiscalYearStart.Format("20060102")
	}
	if !periodStart.IsZero() {
		raw[headerPeriodStart] = periodStart.Format("20060102")
		raw[headerPeriodEnd] = periodEnd.Format("20060102")
	}
	raw[headerDescription] = header.Description
	raw[headerBaseCurrency] = header.BaseCurrency
	header.Raw = raw
	return header
}

func bookingFromTransaction(tx models.Transaction, account string, ordinal int) Booking {
	fields := make([]string, buchungsstapelFieldCount)
	fields[fieldAmount] = formatCommaAmount(tx)
	fields[fieldDebitCredit] = indicatorToMark(tx.CreditDebit)
	fields[fieldCurrency] = tx.Currency
	fields[fieldAccount] = account
	fields[fieldContraAccount] = contraAccount(tx)
	fields[fieldPostingKey] = tx.ProprietaryCode
	fields[fieldDocumentDate] = tx.BookingDate.Format("0201")
	fields[fieldDocField1] = docField1(tx, ordinal)
	fields[fieldText] = tx.Reference.AdditionalInfo

	return Booking{
		Amount:        tx.Amount,
		DebitCredit:   fields[fieldDebitCredit],
		Currency:      tx.Currency,
		Account:       account,
		ContraAccount: fields[fieldContraAccount],
		PostingKey:    tx.ProprietaryCode,
		DocumentDate:  tx.BookingDate,
		DocField1:     fields[fieldDocField1],
		Text:          tx.Reference.AdditionalInfo,
		Line:          ordinal + 2,
		Fields:        fields,
	}
}

// contraAccount carries the counterparty only when the source had an
// account-shaped identifier; names and IBANs are not account numbers.
func contraAccount(tx models.Transaction) string {
	if tx.Reference.EntryReference != "" && isDigits(tx.Reference.EntryReference) {
		return tx.Reference.EntryReference
	}
	return "9999"
}

func docField1(tx models.Transaction, ordinal int) string {
	if tx.Reference.EndToEndID != "" {
		return tx.Reference.EndToEndID
	}
	if tx.Reference.EntryReference != "" {
		return tx.Reference.EntryReference
	}
	return fmt.Sprintf("B%04d", ordinal+1)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func formatCommaAmount(tx models.Transaction) string {
	return strings.ReplaceAll(tx.Amount.StringFixed(2), ".", ",")
}

// joinRecord writes one semicolon-delimited line, quoting text fields
// the way DATEV exports do.
func joinRecord(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		if needsQuoting(f) {
			quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			quoted[i] = f
		}
	}
	return strings.Join(quoted, ";")
}

func needsQuoting(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != ',' && r != '.' && r != '-' {
			return true
		}
	}
	return false
}
