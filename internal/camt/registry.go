package camt

import (
	"gopkg.in/yaml.v3"

	"finbridge/internal/parsererror"
)

// FieldMapping declares where one named field lives in the XML tree. The
// path is an XPath expression, relative to the payload element for
// payload fields and to the item element for item fields.
type FieldMapping struct {
	Name string `yaml:"name"`
	Path string `yaml:"path"`
}

// ExtractionConfig is the declarative extraction metadata for one camt
// type: where to find the payload, where to find the repeated items
// inside it, and which fields to pull from each. Adding support for a new
// message type means registering a config, not writing an extractor.
type ExtractionConfig struct {
	PayloadPath string         `yaml:"payload_path"`
	ItemPath    string         `yaml:"item_path"`
	Fields      []FieldMapping `yaml:"fields"`
	ItemFields  []FieldMapping `yaml:"item_fields"`
}

// Registry maps camt types to their extraction metadata. It is plain
// mutable state with an explicit two-phase lifecycle and no internal
// locking: the embedding application initializes it once at startup,
// before any parsing runs concurrently. Pass it explicitly to the
// extractor; there is no ambient global instance.
type Registry struct {
	initialized bool
	configs     map[Type]ExtractionConfig
}

// NewRegistry creates an empty, uninitialized registry.
func NewRegistry() *Registry {
	return &Registry{configs: make(map[Type]ExtractionConfig)}
}

// Initialize populates the built-in registrations. Calling it again on an
// initialized registry is a no-op.
func (r *Registry) Initialize() {
	if r.initialized {
		return
	}
	for t, cfg := range builtinConfigs() {
		r.configs[t] = cfg
	}
	r.initialized = true
}

// Reset clears every registration, restoring a clean slate. Used mainly
// for test isolation.
func (r *Registry) Reset() {
	r.configs = make(map[Type]ExtractionConfig)
	r.initialized = false
}

// IsInitialized reports whether Initialize has run since the last Reset.
func (r *Registry) IsInitialized() bool {
	return r.initialized
}

// Register adds or replaces the extraction config for a type.
func (r *Registry) Register(t Type, cfg ExtractionConfig) {
	r.configs[t] = cfg
}

// Lookup returns the extraction config for a type. A type without a
// registration is a configuration error naming the type.
func (r *Registry) Lookup(t Type) (ExtractionConfig, error) {
	cfg, ok := r.configs[t]
	if !ok {
		return ExtractionConfig{}, &parsererror.ConfigurationError{Type: t.String()}
	}
	return cfg, nil
}

// LoadYAML merges registrations from a YAML document keyed by canonical
// type name, e.g.
//
//	camt.055:
//	  payload_path: //CstmrPmtCxlReq/Undrlyg
//	  ...
//
// Unknown type names are rejected so a typo cannot silently register dead
// metadata.
func (r *Registry) LoadYAML(data []byte) error {
	var raw map[string]ExtractionConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for name, cfg := range raw {
		t, ok := TypeFromString(name)
		if !ok {
			return &parsererror.UnknownFormatError{Token: name, Kind: "CAMT type"}
		}
		r.configs[t] = cfg
	}
	return nil
}

// builtinConfigs declares the extraction metadata shipped with the engine:
// the statement types (so the generic path can be checked against the
// hand-written extractors) and the investigation/cancellation family that
// has no hand-written extractor at all.
func builtinConfigs() map[Type]ExtractionConfig {
	statementItems := []FieldMapping{
		{Name: "amount", Path: "Amt"},
		{Name: "currency", Path: "Amt/@Ccy"},
		{Name: "credit_debit", Path: "CdtDbtInd"},
		{Name: "reversal", Path: "RvslInd"},
		{Name: "booking_date", Path: "BookgDt/Dt"},
		{Name: "value_date", Path: "ValDt/Dt"},
		{Name: "entry_reference", Path: "NtryRef"},
		{Name: "account_servicer_ref", Path: "AcctSvcrRef"},
		{Name: "domain", Path: "BkTxCd/Domn/Cd"},
		{Name: "family", Path: "BkTxCd/Domn/Fmly/Cd"},
		{Name: "sub_family", Path: "BkTxCd/Domn/Fmly/SubFmlyCd"},
		{Name: "proprietary_code", Path: "BkTxCd/Prtry/Cd"},
		{Name: "end_to_end_id", Path: "NtryDtls/TxDtls/Refs/EndToEndId"},
		{Name: "instruction_id", Path: "NtryDtls/TxDtls/Refs/InstrId"},
		{Name: "mandate_id", Path: "NtryDtls/TxDtls/Refs/MndtId"},
		{Name: "creditor_id", Path: "NtryDtls/TxDtls/CdtrSchmeId/Id/PrvtId/Othr/Id"},
		{Name: "purpose_code", Path: "NtryDtls/TxDtls/Purp/Cd"},
		{Name: "return_reason", Path: "NtryDtls/TxDtls/RtrInf/Rsn/Cd"},
		{Name: "debtor_name", Path: "NtryDtls/TxDtls/RltdPties/Dbtr/Nm"},
		{Name: "creditor_name", Path: "NtryDtls/TxDtls/RltdPties/Cdtr/Nm"},
		{Name: "debtor_iban", Path: "NtryDtls/TxDtls/RltdPties/DbtrAcct/Id/IBAN"},
		{Name: "creditor_iban", Path: "NtryDtls/TxDtls/RltdPties/CdtrAcct/Id/IBAN"},
		{Name: "debtor_bic", Path: "NtryDtls/TxDtls/RltdAgts/DbtrAgt/FinInstnId/BICFI"},
		{Name: "creditor_bic", Path: "NtryDtls/TxDtls/RltdAgts/CdtrAgt/FinInstnId/BICFI"},
		{Name: "additional_info", Path: "AddtlNtryInf"},
		{Name: "remittance", Path: "NtryDtls/TxDtls/RmtInf/Ustrd"},
	}
	statementFields := func() []FieldMapping {
		return []FieldMapping{
			{Name: "statement_id", Path: "Id"},
			{Name: "account_iban", Path: "Acct/Id/IBAN"},
			{Name: "account_other_id", Path: "Acct/Id/Othr/Id"},
			{Name: "currency", Path: "Acct/Ccy"},
			{Name: "opening_code", Path: "Bal[Tp/CdOrPrtry/Cd='OPBD']/Tp/CdOrPrtry/Cd"},
			{Name: "opening_indicator", Path: "Bal[Tp/CdOrPrtry/Cd='OPBD']/CdtDbtInd"},
			{Name: "opening_amount", Path: "Bal[Tp/CdOrPrtry/Cd='OPBD']/Amt"},
			{Name: "opening_currency", Path: "Bal[Tp/CdOrPrtry/Cd='OPBD']/Amt/@Ccy"},
			{Name: "opening_date", Path: "Bal[Tp/CdOrPrtry/Cd='OPBD']/Dt/Dt"},
			{Name: "closing_code", Path: "Bal[Tp/CdOrPrtry/Cd='CLBD']/Tp/CdOrPrtry/Cd"},
			{Name: "closing_indicator", Path: "Bal[Tp/CdOrPrtry/Cd='CLBD']/CdtDbtInd"},
			{Name: "closing_amount", Path: "Bal[Tp/CdOrPrtry/Cd='CLBD']/Amt"},
			{Name: "closing_currency", Path: "Bal[Tp/CdOrPrtry/Cd='CLBD']/Amt/@Ccy"},
			{Name: "closing_date", Path: "Bal[Tp/CdOrPrtry/Cd='CLBD']/Dt/Dt"},
		}
	}
	return map[Type]ExtractionConfig{
		Camt052: {
			PayloadPath: "//BkToCstmrAcctRpt/Rpt",
			ItemPath:    "Ntry",
			Fields:      statementFields(),
			ItemFields:  statementItems,
		},
		Camt053: {
			PayloadPath: "//BkToCstmrStmt/Stmt",
			ItemPath:    "Ntry",
			Fields:      statementFields(),
			ItemFields:  statementItems,
		},
		Camt054: {
			PayloadPath: "//BkToCstmrDbtCdtNtfctn/Ntfctn",
			ItemPath:    "Ntry",
			Fields:      statementFields(),
			ItemFields:  statementItems,
		},
		Camt029: {
			PayloadPath: "//RsltnOfInvstgtn",
			ItemPath:    "CxlDtls/TxInfAndSts",
			Fields: []FieldMapping{
				{Name: "assignment_id", Path: "Assgnmt/Id"},
				{Name: "assigner", Path: "Assgnmt/Assgnr/Agt/FinInstnId/BICFI"},
				{Name: "assignee", Path: "Assgnmt/Assgne/Agt/FinInstnId/BICFI"},
				{Name: "status", Path: "Sts/Conf"},
			},
			ItemFields: []FieldMapping{
				{Name: "cancellation_status_id", Path: "CxlStsId"},
				{Name: "original_end_to_end_id", Path: "OrgnlEndToEndId"},
				{Name: "original_tx_id", Path: "OrgnlTxId"},
				{Name: "status", Path: "TxCxlSts"},
			},
		},
		Camt055: {
			PayloadPath: "//CstmrPmtCxlReq",
			ItemPath:    "Undrlyg/OrgnlPmtInfAndCxl/TxInf",
			Fields: []FieldMapping{
				{Name: "assignment_id", Path: "Assgnmt/Id"},
				{Name: "creation_time", Path: "Assgnmt/CreDtTm"},
			},
			ItemFields: []FieldMapping{
				{Name: "cancellation_id", Path: "CxlId"},
				{Name: "original_end_to_end_id", Path: "OrgnlEndToEndId"},
				{Name: "original_amount", Path: "OrgnlInstdAmt"},
				{Name: "original_currency", Path: "OrgnlInstdAmt/@Ccy"},
				{Name: "reason", Path: "CxlRsnInf/Rsn/Cd"},
			},
		},
		Camt056: {
			PayloadPath: "//FIToFIPmtCxlReq",
			ItemPath:    "Undrlyg/TxInf",
			Fields: []FieldMapping{
				{Name: "assignment_id", Path: "Assgnmt/Id"},
				{Name: "creation_time", Path: "Assgnmt/CreDtTm"},
			},
			ItemFields: []FieldMapping{
				{Name: "cancellation_id", Path: "CxlId"},
				{Name: "original_end_to_end_id", Path: "OrgnlEndToEndId"},
				{Name: "original_tx_id", Path: "OrgnlTxId"},
				{Name: "original_amount", Path: "OrgnlIntrBkSttlmAmt"},
				{Name: "original_currency", Path: "OrgnlIntrBkSttlmAmt/@Ccy"},
				{Name: "reason", Path: "CxlRsnInf/Rsn/Cd"},
			},
		},
		Camt060: {
			PayloadPath: "//AcctRptgReq",
			ItemPath:    "RptgReq",
			Fields: []FieldMapping{
				{Name: "message_id", Path: "GrpHdr/MsgId"},
			},
			ItemFields: []FieldMapping{
				{Name: "request_id", Path: "Id"},
				{Name: "requested_type", Path: "ReqdMsgNmId"},
				{Name: "account_iban", Path: "Acct/Id/IBAN"},
			},
		},
		Camt086: {
			PayloadPath: "//BkSvcsBllgStmt",
			ItemPath:    "BllgStmtGrp/BllgStmt",
			Fields: []FieldMapping{
				{Name: "report_id", Path: "RptHdr/RptId/Id"},
			},
			ItemFields: []FieldMapping{
				{Name: "statement_id", Path: "StmtId"},
				{Name: "from_date", Path: "FrToDt/FrDt"},
				{Name: "to_date", Path: "FrToDt/ToDt"},
				{Name: "status", Path: "Sts"},
			},
		},
	}
}
