package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/models"
)

func sampleDoc() *models.StatementDocument {
	jan15 := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	jan16 := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	return &models.StatementDocument{
		AccountID: "CH5604835012345678009",
		Currency:  "CHF",
		Transactions: []models.Transaction{
			{
				BookingDate: jan15, ValueDate: jan16,
				Amount: decimal.NewFromFloat(200.00), Currency: "CHF",
				CreditDebit: models.Debit,
				PartyName:   "ACME Supplies",
				PartyIBAN:   "DE89370400440532013000",
				BankTxCode:  models.BankTxCode{Domain: "PMNT", Family: "ICDT", SubFamily: "ESCT"},
				PurposeCode: "GDDS",
				Reference: models.Reference{
					EndToEndID:     "E2E-1",
					EntryReference: "ENTRY-1",
					AdditionalInfo: "Invoice 4711",
				},
			},
			{
				BookingDate: jan15,
				Amount:      decimal.NewFromFloat(50.00), Currency: "CHF",
				CreditDebit: models.Credit, Reversal: true,
				ReturnReason: "AC04",
			},
		},
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleDoc())
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "CH5604835012345678009", first.AccountID)
	assert.Equal(t, "15.01.2025", first.BookingDate)
	assert.Equal(t, "16.01.2025", first.ValueDate)
	assert.Equal(t, "200.00", first.Amount)
	assert.Equal(t, "DBIT", first.CreditDebit)
	assert.Equal(t, "PMNT/ICDT/ESCT", first.BankTxCode)
	assert.Equal(t, "Invoice 4711", first.Description)

	second := rows[1]
	assert.True(t, second.Reversal)
	assert.Equal(t, "AC04", second.ReturnReason)
	assert.Empty(t, second.ValueDate, "a zero value date stays blank")
}

func TestWriteCSV(t *testing.T) {
	out, err := WriteCSV(sampleDoc())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "AccountID,BookingDate,ValueDate,Amount"))
	assert.Contains(t, lines[1], "ACME Supplies")
	assert.Contains(t, lines[2], "true")
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	require.NoError(t, WriteCSVFile(sampleDoc(), path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "E2E-1")
}
