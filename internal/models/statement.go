package models

import (
	"github.com/shopspring/decimal"

	"finbridge/internal/parsererror"
)

// StatementDocument is the format-agnostic account statement every parser
// produces and every converter consumes. It owns its transactions; a
// converter producing a new document deep-copies rather than sharing, so
// the source stays valid for repeated use.
type StatementDocument struct {
	// AccountID is the account identifier in whatever shape the source
	// format uses (IBAN, BLZ+number, proprietary id).
	AccountID string `json:"account_id" yaml:"account_id"`
	Currency  string `json:"currency" yaml:"currency"`

	// ReferenceID is the message-level reference (:20: in MT9xx, MsgId
	// in CAMT). Optional.
	ReferenceID string `json:"reference_id,omitempty" yaml:"reference_id,omitempty"`
	// SequenceNumber is the statement/sequence number (:28C:). Optional.
	SequenceNumber string `json:"sequence_number,omitempty" yaml:"sequence_number,omitempty"`

	// Opening and Closing are nil when the source carried no balance.
	// They are never defaulted to zero.
	Opening *Balance `json:"opening,omitempty" yaml:"opening,omitempty"`
	Closing *Balance `json:"closing,omitempty" yaml:"closing,omitempty"`

	Transactions []Transaction `json:"transactions" yaml:"transactions"`
}

// SumSigned returns the signed sum over all transactions.
func (d *StatementDocument) SumSigned() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range d.Transactions {
		sum = sum.Add(tx.Signed())
	}
	return sum
}

// Validate enforces the balance invariant
//
//	closing = opening + sum of signed transactions
//
// whenever both balances are present. A mismatch is a hard error, never a
// warning: a silently wrong balance is worse than a rejected document.
func (d *StatementDocument) Validate() error {
	if d.Opening == nil || d.Closing == nil {
		return nil
	}
	computed := d.Opening.Signed().Add(d.SumSigned())
	declared := d.Closing.Signed()
	if !computed.Equal(declared) {
		return &parsererror.BalanceMismatchError{
			AccountID: d.AccountID,
			Expected:  declared.String(),
			Computed:  computed.String(),
		}
	}
	return nil
}

// Clone returns a deep copy of the document. Balances and the transaction
// slice are copied so mutating the clone never touches the source.
func (d *StatementDocument) Clone() *StatementDocument {
	out := &StatementDocument{
		AccountID:      d.AccountID,
		Currency:       d.Currency,
		ReferenceID:    d.ReferenceID,
		SequenceNumber: d.SequenceNumber,
	}
	if d.Opening != nil {
		opening := *d.Opening
		out.Opening = &opening
	}
	if d.Closing != nil {
		closing := *d.Closing
		out.Closing = &closing
	}
	out.Transactions = make([]Transaction, len(d.Transactions))
	copy(out.Transactions, d.Transactions)
	return out
}
