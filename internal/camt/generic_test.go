package camt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbridge/internal/parsererror"
)

const sampleCamt056 = `<?xml version="1.0" encoding="UTF-8"?>
<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.056.001.11">
  <FIToFIPmtCxlReq>
    <Assgnmt>
      <Id>ASSIGN-42</Id>
      <CreDtTm>2025-02-01T09:30:00Z</CreDtTm>
    </Assgnmt>
    <Undrlyg>
      <TxInf>
        <CxlId>CXL-1</CxlId>
        <OrgnlEndToEndId>E2E-ORIG-1</OrgnlEndToEndId>
        <OrgnlTxId>TX-ORIG-1</OrgnlTxId>
        <OrgnlIntrBkSttlmAmt Ccy="EUR">1250.00</OrgnlIntrBkSttlmAmt>
        <CxlRsnInf><Rsn><Cd>DUPL</Cd></Rsn></CxlRsnInf>
      </TxInf>
      <TxInf>
        <CxlId>CXL-2</CxlId>
        <OrgnlEndToEndId>E2E-ORIG-2</OrgnlEndToEndId>
        <OrgnlIntrBkSttlmAmt Ccy="EUR">90.50</OrgnlIntrBkSttlmAmt>
        <CxlRsnInf><Rsn><Cd>FRAD</Cd></Rsn></CxlRsnInf>
      </TxInf>
    </Undrlyg>
  </FIToFIPmtCxlReq>
</Document>`

func newInitializedRegistry() *Registry {
	reg := NewRegistry()
	reg.Initialize()
	return reg
}

func TestGenericExtractCamt056(t *testing.T) {
	ext := NewGenericExtractor(newInitializedRegistry(), nil)

	result, err := ext.Extract(sampleCamt056)
	require.NoError(t, err)

	assert.Equal(t, Camt056, result.Type)
	assert.Equal(t, "ASSIGN-42", result.Field("assignment_id"))
	assert.Equal(t, "2025-02-01T09:30:00Z", result.Field("creation_time"))

	require.Len(t, result.Items, 2)
	first := result.Items[0]
	assert.Equal(t, "CXL-1", first["cancellation_id"])
	assert.Equal(t, "E2E-ORIG-1", first["original_end_to_end_id"])
	assert.Equal(t, "TX-ORIG-1", first["original_tx_id"])
	assert.Equal(t, "1250.00", first["original_amount"])
	assert.Equal(t, "EUR", first["original_currency"])
	assert.Equal(t, "DUPL", first["reason"])

	second := result.Items[1]
	assert.Equal(t, "CXL-2", second["cancellation_id"])
	assert.Equal(t, "FRAD", second["reason"])
	// The second TxInf has no OrgnlTxId: absent element, absent key.
	_, present := second["original_tx_id"]
	assert.False(t, present)
}

func TestGenericExtractCamt053Fields(t *testing.T) {
	ext := NewGenericExtractor(newInitializedRegistry(), nil)

	result, err := ext.Extract(sampleCamt053)
	require.NoError(t, err)

	assert.Equal(t, Camt053, result.Type)
	assert.Equal(t, "STMT-2025-001", result.Field("statement_id"))
	assert.Equal(t, "CH5604835012345678009", result.Field("account_iban"))
	assert.Equal(t, "CHF", result.Field("currency"))
	assert.Equal(t, "1000.00", result.Field("opening_amount"))
	assert.Equal(t, "CRDT", result.Field("opening_indicator"))
	assert.Equal(t, "2025-01-14", result.Field("opening_date"))
	assert.Equal(t, "850.00", result.Field("closing_amount"))

	require.Len(t, result.Items, 2)
	debit := result.Items[0]
	assert.Equal(t, "200.00", debit["amount"])
	assert.Equal(t, "DBIT", debit["credit_debit"])
	assert.Equal(t, "ACME Supplies", debit["creditor_name"])
	assert.Equal(t, "COBADEFFXXX", debit["creditor_bic"])
	assert.Equal(t, "Invoice 4711 part 2 of 2", debit["remittance"])
	assert.Equal(t, "GDDS", debit["purpose_code"])

	credit := result.Items[1]
	assert.Equal(t, "true", credit["reversal"])
	assert.Equal(t, "AC04", credit["return_reason"])
	assert.Equal(t, "John Example", credit["debtor_name"])
}

// Both extraction paths over the same camt.053 message must produce the
// same statement document, field for field. This is what lets the
// registry metadata stand in for the hand-written mapping code.
func TestGenericStatementMatchesHandWritten(t *testing.T) {
	handWritten, err := NewParser(nil).Parse(sampleCamt053)
	require.NoError(t, err)

	ext := NewGenericExtractor(newInitializedRegistry(), nil)
	generic, err := ext.ExtractStatement(sampleCamt053)
	require.NoError(t, err)

	assert.Equal(t, handWritten, generic)
}

func TestGenericExtractStatementRejectsCancellationType(t *testing.T) {
	ext := NewGenericExtractor(newInitializedRegistry(), nil)

	_, err := ext.ExtractStatement(sampleCamt056)
	var unknownErr *parsererror.UnknownFormatError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "camt.056", unknownErr.Token)
}

func TestGenericExtractUninitializedRegistry(t *testing.T) {
	ext := NewGenericExtractor(NewRegistry(), nil)

	_, err := ext.Extract(sampleCamt053)
	var cfgErr *parsererror.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestGenericExtractPayloadNotFound(t *testing.T) {
	reg := newInitializedRegistry()
	ext := NewGenericExtractor(reg, nil)

	// Structurally valid XML whose namespace claims camt.053 but whose
	// body carries no statement payload.
	text := `<Document xmlns="urn:iso:std:iso:20022:tech:xsd:camt.053.001.08"><Other/></Document>`
	_, err := ext.ExtractTyped(text, Camt053)
	var structErr *parsererror.StructuralError
	require.ErrorAs(t, err, &structErr)
	assert.Contains(t, structErr.Error(), "payload element not found")
}
