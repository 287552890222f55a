package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "PENDING"
	InstallmentStatusPaid    InstallmentStatus = "PAID"
	InstallmentStatusOverdue InstallmentStatus = "OVERDUE"
)

// installmentTransitions is the allowed status transition table. PAID is
// terminal; an installment never moves back to PENDING.
var installmentTransitions = map[InstallmentStatus][]InstallmentStatus{
	InstallmentStatusPending: {InstallmentStatusOverdue, InstallmentStatusPaid},
	InstallmentStatusOverdue: {InstallmentStatusPaid},
}

// CanTransitionTo reports whether the status may move to next.
func (s InstallmentStatus) CanTransitionTo(next InstallmentStatus) bool {
	for _, allowed := range installmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Installment struct {
	ID                 int32             `json:"id"`
	LoanID             int32             `json:"loan_id"`
	Number             int32             `json:"number"`
	PrincipalAmount    decimal.Decimal   `json:"principal_amount"`
	InterestAmount     decimal.Decimal   `json:"interest_amount"`
	LateInterestAmount decimal.Decimal   `json:"late_interest_amount"`
	PaidAmount         decimal.Decimal   `json:"paid_amount"`
	DueDate            time.Time         `json:"due_date"`
	PaymentDate        *time.Time        `json:"payment_date,omitempty"`
	Status             InstallmentStatus `json:"status"`
	IsDeleted          bool              `json:"is_deleted"`
	CreatedOn          time.Time         `json:"created_on"`
	UpdatedOn          time.Time         `json:"updated_on"`
}

// TotalDue returns the outstanding amount on the installment: principal plus
// normal and late interest, minus whatever has been paid.
func (i *Installment) TotalDue() decimal.Decimal {
	return i.PrincipalAmount.
		Add(i.InterestAmount).
		Add(i.LateInterestAmount).
		Sub(i.PaidAmount)
}

// AccruableInstallment is an overdue unpaid installment joined with its parent
// loan's monthly rate, as selected for the late-interest recalculation.
type AccruableInstallment struct {
	Installment
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"`
}
