package codes

// BalanceType is an ISO 20022 balance sub-type code.
type BalanceType string

const (
	BalanceOPBD BalanceType = "OPBD" // opening booked
	BalanceCLBD BalanceType = "CLBD" // closing booked
	BalanceITBD BalanceType = "ITBD" // interim booked
	BalanceOPAV BalanceType = "OPAV" // opening available
	BalanceCLAV BalanceType = "CLAV" // closing available
	BalanceITAV BalanceType = "ITAV" // interim available
	BalanceFWAV BalanceType = "FWAV" // forward available
	BalancePRCD BalanceType = "PRCD" // previously closed booked
	BalanceXPCD BalanceType = "XPCD" // expected
)

// BalanceTypeFromString resolves a balance sub-type case-insensitively.
func BalanceTypeFromString(s string) (BalanceType, bool) {
	b := BalanceType(normalize(s))
	if b.IsValid() {
		return b, true
	}
	return "", false
}

// IsValid reports whether the code belongs to the closed set.
func (b BalanceType) IsValid() bool {
	switch b {
	case BalanceOPBD, BalanceCLBD, BalanceITBD, BalanceOPAV, BalanceCLAV,
		BalanceITAV, BalanceFWAV, BalancePRCD, BalanceXPCD:
		return true
	}
	return false
}

// IsOpening reports whether the sub-type denotes an opening balance.
func (b BalanceType) IsOpening() bool {
	return b == BalanceOPBD || b == BalanceOPAV || b == BalancePRCD
}

// IsClosing reports whether the sub-type denotes a closing balance.
func (b BalanceType) IsClosing() bool {
	return b == BalanceCLBD || b == BalanceCLAV
}

// Name returns the short human-readable name of the sub-type.
func (b BalanceType) Name() string {
	switch b {
	case BalanceOPBD:
		return "Opening Booked"
	case BalanceCLBD:
		return "Closing Booked"
	case BalanceITBD:
		return "Interim Booked"
	case BalanceOPAV:
		return "Opening Available"
	case BalanceCLAV:
		return "Closing Available"
	case BalanceITAV:
		return "Interim Available"
	case BalanceFWAV:
		return "Forward Available"
	case BalancePRCD:
		return "Previously Closed Booked"
	case BalanceXPCD:
		return "Expected"
	}
	return ""
}

// Definition returns the standardized definition text of the sub-type.
func (b BalanceType) Definition() string {
	switch b {
	case BalanceOPBD:
		return "Book balance of the account at the beginning of the account reporting period."
	case BalanceCLBD:
		return "Balance of the account at the end of the pre-agreed account reporting period."
	case BalanceITBD:
		return "Balance calculated in the course of the account servicer's business day."
	case BalanceOPAV:
		return "Opening balance of amount of money that is at the disposal of the account owner on the date specified."
	case BalanceCLAV:
		return "Closing balance of amount of money that is at the disposal of the account owner on the date specified."
	case BalanceITAV:
		return "Available balance calculated in the course of the account servicer's business day."
	case BalanceFWAV:
		return "Forward available balance of money that is at the disposal of the account owner on the date specified."
	case BalancePRCD:
		return "Balance of the account at the previously closed account reporting period."
	case BalanceXPCD:
		return "Balance, composed of booked entries and pending items known at the time of calculation, which projects the end of day balance."
	}
	return ""
}
