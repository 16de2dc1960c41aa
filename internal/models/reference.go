package models

// Reference bundles the optional identifier strings a transaction can carry.
// Which fields are populated depends entirely on the source format.
type Reference struct {
	EndToEndID         string `json:"end_to_end_id,omitempty" yaml:"end_to_end_id,omitempty"`
	MandateID          string `json:"mandate_id,omitempty" yaml:"mandate_id,omitempty"`
	CreditorID         string `json:"creditor_id,omitempty" yaml:"creditor_id,omitempty"`
	EntryReference     string `json:"entry_reference,omitempty" yaml:"entry_reference,omitempty"`
	AccountServicerRef string `json:"account_servicer_ref,omitempty" yaml:"account_servicer_ref,omitempty"`
	InstructionID      string `json:"instruction_id,omitempty" yaml:"instruction_id,omitempty"`
	AdditionalInfo     string `json:"additional_info,omitempty" yaml:"additional_info,omitempty"`
}

// HasAny reports whether at least one reference field is non-empty.
// Converters use this to decide whether a synthetic reference must be
// derived for a target format that mandates one.
func (r Reference) HasAny() bool {
	return r.EndToEndID != "" ||
		r.MandateID != "" ||
		r.CreditorID != "" ||
		r.EntryReference != "" ||
		r.AccountServicerRef != "" ||
		r.InstructionID != "" ||
		r.AdditionalInfo != ""
}
