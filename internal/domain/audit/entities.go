package audit

import (
	"time"

	"tredgate-loan-portal/internal/domain/loan"
)

type ActionType string

const (
	ActionCreate     ActionType = "create"
	ActionApprove    ActionType = "approve"
	ActionReject     ActionType = "reject"
	ActionAutoDecide ActionType = "auto-decide"
	ActionDelete     ActionType = "delete"
)

// Entry is one immutable audit row. LoanID and ApplicantName are snapshots
// taken at the time of the action, not live references; the loan they point
// at may no longer exist. PreviousStatus is nil for create, NewStatus is nil
// for delete.
type Entry struct {
	ID             string       `json:"id"`
	Timestamp      time.Time    `json:"timestamp"`
	ActionType     ActionType   `json:"actionType"`
	LoanID         string       `json:"loanId"`
	ApplicantName  string       `json:"applicantName"`
	PreviousStatus *loan.Status `json:"previousStatus"`
	NewStatus      *loan.Status `json:"newStatus"`
	Details        string       `json:"details"`
}

// Criteria narrows a read of the log. Both families are optional and compose
// with AND; an empty/blank criterion imposes no filter.
type Criteria struct {
	ActionTypes []ActionType
	SearchText  string
}
