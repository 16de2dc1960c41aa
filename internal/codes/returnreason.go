package codes

// ReturnReason is an ISO 20022 external return reason code (subset).
type ReturnReason string

const (
	ReturnAC01 ReturnReason = "AC01" // incorrect account number
	ReturnAC04 ReturnReason = "AC04" // closed account number
	ReturnAC06 ReturnReason = "AC06" // blocked account
	ReturnAG01 ReturnReason = "AG01" // transaction forbidden
	ReturnAG02 ReturnReason = "AG02" // invalid bank operation code
	ReturnAM04 ReturnReason = "AM04" // insufficient funds
	ReturnAM05 ReturnReason = "AM05" // duplication
	ReturnBE04 ReturnReason = "BE04" // missing creditor address
	ReturnMD01 ReturnReason = "MD01" // no mandate
	ReturnMD06 ReturnReason = "MD06" // refund request by end customer
	ReturnMD07 ReturnReason = "MD07" // end customer deceased
	ReturnMS02 ReturnReason = "MS02" // not specified reason, customer generated
	ReturnMS03 ReturnReason = "MS03" // not specified reason, agent generated
	ReturnRC01 ReturnReason = "RC01" // bank identifier incorrect
	ReturnRR01 ReturnReason = "RR01" // missing debtor account or identification
	ReturnRR02 ReturnReason = "RR02" // missing debtor name or address
	ReturnRR03 ReturnReason = "RR03" // missing creditor name or address
	ReturnRR04 ReturnReason = "RR04" // regulatory reason
	ReturnSL01 ReturnReason = "SL01" // specific service offered by debtor agent
)

// ReturnReasonFromString resolves a return reason code case-insensitively.
func ReturnReasonFromString(s string) (ReturnReason, bool) {
	r := ReturnReason(normalize(s))
	if r.IsValid() {
		return r, true
	}
	return "", false
}

// IsValid reports whether the code belongs to the closed set.
func (r ReturnReason) IsValid() bool {
	switch r {
	case ReturnAC01, ReturnAC04, ReturnAC06, ReturnAG01, ReturnAG02,
		ReturnAM04, ReturnAM05, ReturnBE04, ReturnMD01, ReturnMD06,
		ReturnMD07, ReturnMS02, ReturnMS03, ReturnRC01, ReturnRR01,
		ReturnRR02, ReturnRR03, ReturnRR04, ReturnSL01:
		return true
	}
	return false
}

// Name returns the short human-readable name of the code.
func (r ReturnReason) Name() string {
	switch r {
	case ReturnAC01:
		return "Incorrect Account Number"
	case ReturnAC04:
		return "Closed Account Number"
	case ReturnAC06:
		return "Blocked Account"
	case ReturnAG01:
		return "Transaction Forbidden"
	case ReturnAG02:
		return "Invalid Bank Operation Code"
	case ReturnAM04:
		return "Insufficient Funds"
	case ReturnAM05:
		return "Duplication"
	case ReturnBE04:
		return "Missing Creditor Address"
	case ReturnMD01:
		return "No Mandate"
	case ReturnMD06:
		return "Refund Request By End Customer"
	case ReturnMD07:
		return "End Customer Deceased"
	case ReturnMS02:
		return "Not Specified Reason Customer Generated"
	case ReturnMS03:
		return "Not Specified Reason Agent Generated"
	case ReturnRC01:
		return "Bank Identifier Incorrect"
	case ReturnRR01:
		return "Missing Debtor Account Or Identification"
	case ReturnRR02:
		return "Missing Debtor Name Or Address"
	case ReturnRR03:
		return "Missing Creditor Name Or Address"
	case ReturnRR04:
		return "Regulatory Reason"
	case ReturnSL01:
		return "Specific Service Offered By Debtor Agent"
	}
	return ""
}

// Definition returns the standardized definition text of the code.
func (r ReturnReason) Definition() string {
	switch r {
	case ReturnAC01:
		return "Account number is invalid or missing."
	case ReturnAC04:
		return "Account number specified has been closed on the bank of account's books."
	case ReturnAC06:
		return "Account specified is blocked, prohibiting posting of transactions against it."
	case ReturnAG01:
		return "Transaction forbidden on this type of account."
	case ReturnAG02:
		return "Bank operation code specified in the message is not valid for receiver."
	case ReturnAM04:
		return "Amount of funds available to cover specified message amount is insufficient."
	case ReturnAM05:
		return "This message appears to duplicate another message."
	case ReturnBE04:
		return "Specification of creditor's address, which is required for payment, is missing or not correct."
	case ReturnMD01:
		return "No mandate exists for this debtor account."
	case ReturnMD06:
		return "Return of funds requested by end customer."
	case ReturnMD07:
		return "End customer is deceased."
	case ReturnMS02:
		return "Reason has not been specified by end customer."
	case ReturnMS03:
		return "Reason has not been specified by agent."
	case ReturnRC01:
		return "Bank identifier code specified in the message has an incorrect format."
	case ReturnRR01:
		return "Specification of the debtor's account or unique identification needed for regulatory requirements is missing."
	case ReturnRR02:
		return "Specification of the debtor's name or address needed for regulatory requirements is missing."
	case ReturnRR03:
		return "Specification of the creditor's name or address needed for regulatory requirements is missing."
	case ReturnRR04:
		return "Return following a regulatory requirement."
	case ReturnSL01:
		return "Due to specific service offered by the debtor agent."
	}
	return ""
}
