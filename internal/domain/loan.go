package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type LoanStatus string

const (
	LoanStatusActive    LoanStatus = "ACTIVE"
	LoanStatusOverdue   LoanStatus = "OVERDUE"
	LoanStatusPaid      LoanStatus = "PAID"
	LoanStatusCancelled LoanStatus = "CANCELLED"
)

// loanTransitions is the allowed status transition table. PAID and CANCELLED
// are terminal.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanStatusActive:  {LoanStatusOverdue, LoanStatusPaid, LoanStatusCancelled},
	LoanStatusOverdue: {LoanStatusPaid, LoanStatusCancelled},
}

// CanTransitionTo reports whether the status may move to next.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	for _, allowed := range loanTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Loan struct {
	ID                  int32           `json:"id"`
	CustomerID          int32           `json:"customer_id"`
	SellerID            int32           `json:"seller_id"`
	Amount              decimal.Decimal `json:"amount"`
	CurrentBalance      decimal.Decimal `json:"current_balance"`
	MonthlyInterestRate decimal.Decimal `json:"monthly_interest_rate"` // percentage, e.g. 15 means 15% per month
	TermMonths          int32           `json:"term_months"`
	StartDate           time.Time       `json:"start_date"`
	DueDate             time.Time       `json:"due_date"`
	Status              LoanStatus      `json:"status"`
	IsDeleted           bool            `json:"is_deleted"`
	CreatedOn           time.Time       `json:"created_on"`
	UpdatedOn           time.Time       `json:"updated_on"`
}
