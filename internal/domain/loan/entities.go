package loan

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one loan application row. The JSON tags are the storage
// shape of the tredgate_loans slot; renaming a field breaks existing
// profiles.
type Application struct {
	ID            string    `json:"id"`
	ApplicantName string    `json:"applicantName"`
	Amount        float64   `json:"amount"`
	TermMonths    int       `json:"termMonths"`
	InterestRate  float64   `json:"interestRate"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

// MonthlyPayment is (amount * (1 + interestRate)) / termMonths with no
// rounding; display formatting is the caller's concern. TermMonths > 0 is
// enforced at creation and never mutated, so the division is safe.
func (a *Application) MonthlyPayment() float64 {
	return (a.Amount * (1 + a.InterestRate)) / float64(a.TermMonths)
}
