package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankTxCode is the structured ISO 20022 bank transaction code.
type BankTxCode struct {
	Domain    string `json:"domain,omitempty" yaml:"domain,omitempty"`
	Family    string `json:"family,omitempty" yaml:"family,omitempty"`
	SubFamily string `json:"sub_family,omitempty" yaml:"sub_family,omitempty"`
}

// IsSet reports whether any code component is present.
func (c BankTxCode) IsSet() bool {
	return c.Domain != "" || c.Family != "" || c.SubFamily != ""
}

// String renders the code as DOMAIN/FAMILY/SUBFAMILY, omitting empty tails.
func (c BankTxCode) String() string {
	if c.Domain == "" {
		return ""
	}
	s := c.Domain
	if c.Family != "" {
		s += "/" + c.Family
		if c.SubFamily != "" {
			s += "/" + c.SubFamily
		}
	}
	return s
}

// Transaction is a single booked entry of a statement. Amounts are stored
// as magnitudes; the sign lives in CreditDebit. A reversal keeps the
// original polarity and only sets the flag.
type Transaction struct {
	BookingDate time.Time       `json:"booking_date" yaml:"booking_date"`
	ValueDate   time.Time       `json:"value_date,omitempty" yaml:"value_date,omitempty"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Currency    string          `json:"currency" yaml:"currency"`
	CreditDebit CreditDebit     `json:"credit_debit" yaml:"credit_debit"`
	Reversal    bool            `json:"reversal,omitempty" yaml:"reversal,omitempty"`

	Reference Reference `json:"reference" yaml:"reference"`

	BankTxCode   BankTxCode `json:"bank_tx_code,omitempty" yaml:"bank_tx_code,omitempty"`
	PurposeCode  string     `json:"purpose_code,omitempty" yaml:"purpose_code,omitempty"`
	ReturnReason string     `json:"return_reason,omitempty" yaml:"return_reason,omitempty"`
	// ProprietaryCode carries a format-native transaction type code that has
	// no structured ISO equivalent, e.g. the SWIFT :61: code "NTRF".
	ProprietaryCode string `json:"proprietary_code,omitempty" yaml:"proprietary_code,omitempty"`

	PartyName string `json:"party_name,omitempty" yaml:"party_name,omitempty"`
	PartyIBAN string `json:"party_iban,omitempty" yaml:"party_iban,omitempty"`
	PartyBIC  string `json:"party_bic,omitempty" yaml:"party_bic,omitempty"`
}

// Signed returns the transaction amount with its sign applied.
func (t Transaction) Signed() decimal.Decimal {
	return t.Amount.Mul(t.CreditDebit.Sign())
}

// IsCredit returns true if the transaction is a credit
func (t Transaction) IsCredit() bool {
	return t.CreditDebit == Credit
}

// IsDebit returns true if the transaction is a debit
func (t Transaction) IsDebit() bool {
	return t.CreditDebit == Debit
}
