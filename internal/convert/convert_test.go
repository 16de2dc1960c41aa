package convert

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/datev"
	"finbridge/internal/models"
)

const datevHeader = `"EXTF";700;21;"Buchungsstapel";700;;;"RE";;;;;20250101;;20250101;20250131;"Januar 2025";;;;;"EUR"`

// datevLine builds one Buchungsstapel data line with the exact field
// count the format demands.
func datevLine(amount, mark, ddmm, belegfeld1, text string) string {
	fields := make([]string, 125)
	fields[0] = amount
	fields[1] = mark
	fields[2] = "EUR"
	fields[6] = "1200"
	fields[7] = "8400"
	fields[9] = ddmm
	fields[10] = belegfeld1
	fields[13] = text
	return strings.Join(fields, ";")
}

func datevFixture(lines ...string) string {
	return datevHeader + "\r\n" + strings.Join(lines, "\r\n") + "\r\n"
}

func parseDatev(t *testing.T, text string) *datev.Document {
	t.Helper()
	doc, err := datev.NewParser(nil).FromString(text)
	require.NoError(t, err)
	return doc
}

func TestSyntheticRefsAgreeAcrossPaths(t *testing.T) {
	// One row with a reference of its own, one without. The row without
	// must end up with the same synthesized account-servicer reference
	// no matter which conversion path produced the CAMT-bound document.
	text := datevFixture(
		datevLine("100,00", "S", "1501", "RE-1", "Miete"),
		datevLine("25,00", "H", "1601", "", ""),
	)
	source := parseDatev(t, text)

	direct, err := DatevToCamt(source)
	require.NoError(t, err)

	intermediate, err := DatevToMT940(parseDatev(t, text))
	require.NoError(t, err)
	viaMT940, err := MT940ToCamt(intermediate)
	require.NoError(t, err)

	assert.Equal(t, direct, viaMT940)

	require.Len(t, direct.Transactions, 2)
	assert.Empty(t, direct.Transactions[0].Reference.AccountServicerRef,
		"a row with its own reference gets nothing synthesized")
	assert.Equal(t, "SYN202501160002", direct.Transactions[1].Reference.AccountServicerRef)
}

func TestMT940ToCamtDoesNotMutateSource(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	doc := &models.StatementDocument{
		AccountID: "DE89370400440532013000",
		Currency:  "EUR",
		Transactions: []models.Transaction{
			{BookingDate: jan15, ValueDate: jan15, Amount: decimal.NewFromInt(10), Currency: "EUR", CreditDebit: models.Credit},
		},
	}

	out, err := MT940ToCamt(doc)
	require.NoError(t, err)

	assert.NotEmpty(t, out.Transactions[0].Reference.AccountServicerRef)
	assert.Empty(t, doc.Transactions[0].Reference.AccountServicerRef, "source must stay untouched")
}

func TestCamtToMT940FoldsPartyName(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	doc := &models.StatementDocument{
		AccountID: "CH5604835012345678009",
		Currency:  "CHF",
		Transactions: []models.Transaction{
			{
				BookingDate: jan15, Amount: decimal.NewFromInt(20), Currency: "CHF",
				CreditDebit: models.Debit, PartyName: "ACME Supplies",
			},
			{
				BookingDate: jan15, ValueDate: jan15, Amount: decimal.NewFromInt(5), Currency: "CHF",
				CreditDebit: models.Credit, PartyName: "John Example",
				Reference: models.Reference{AdditionalInfo: "Refund"},
			},
		},
	}

	out, err := CamtToMT940(doc)
	require.NoError(t, err)

	assert.Equal(t, "ACME Supplies", out.Transactions[0].Reference.AdditionalInfo)
	assert.Equal(t, jan15, out.Transactions[0].ValueDate, "missing value date defaults to booking date")
	assert.Equal(t, "Refund", out.Transactions[1].Reference.AdditionalInfo,
		"an occupied information line is never overwritten")
}

func TestConvertersRejectBalanceMismatch(t *testing.T) {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	opening := models.NewBalance(models.Credit, decimal.NewFromInt(100), "EUR", jan15)
	closing := models.NewBalance(models.Credit, decimal.NewFromInt(50), "EUR", jan15)
	doc := &models.StatementDocument{AccountID: "X", Currency: "EUR", Opening: &opening, Closing: &closing}

	_, err := MT940ToCamt(doc)
	assert.Error(t, err)
	_, err = CamtToMT940(doc)
	assert.Error(t, err)
	_, err = StatementToDatev(doc)
	assert.Error(t, err)
}
