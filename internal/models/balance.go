package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditDebit indicates which side of the account a balance or transaction
// sits on. Amounts are always stored as non-negative magnitudes; the sign
// lives here.
type CreditDebit string

const (
	Credit CreditDebit = "CRDT"
	Debit  CreditDebit = "DBIT"
)

// Sign returns +1 for credit and -1 for debit, matching the
// credit-increases-balance convention used for reconciliation.
func (cd CreditDebit) Sign() decimal.Decimal {
	if cd == Debit {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// Balance is an opening, closing or intermediate account balance.
type Balance struct {
	Indicator CreditDebit `json:"indicator" yaml:"indicator"`
	Amount    Money       `json:"amount" yaml:"amount"`
	Date      time.Time   `json:"date" yaml:"date"`
	// SubType is an optional ISO 20022 balance sub-type code
	// (OPBD, CLBD, ITBD, ...); descriptive only.
	SubType string `json:"sub_type,omitempty" yaml:"sub_type,omitempty"`
}

// NewBalance creates a balance from a magnitude amount and indicator.
func NewBalance(indicator CreditDebit, amount decimal.Decimal, currency string, date time.Time) Balance {
	return Balance{
		Indicator: indicator,
		Amount:    NewMoney(amount.Abs(), currency),
		Date:      date,
	}
}

// Signed returns the balance amount with its sign applied.
func (b Balance) Signed() decimal.Decimal {
	return b.Amount.Amount.Mul(b.Indicator.Sign())
}

// Equal reports whether two balances carry the same financial meaning.
func (b Balance) Equal(other Balance) bool {
	return b.Indicator == other.Indicator &&
		b.Amount.Equal(other.Amount) &&
		b.Date.Equal(other.Date)
}
