package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCheck    = "CHECK"
)

type Payment struct {
	ID            int32           `json:"id"`
	LoanID        int32           `json:"loan_id"`
	InstallmentID int32           `json:"installment_id"`
	PaymentDate   time.Time       `json:"payment_date"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Reference     string          `json:"reference"`
	CollectorID   int32           `json:"collector_id"`
	IsDeleted     bool            `json:"is_deleted"`
	CreatedOn     time.Time       `json:"created_on"`
}

// CollectionVisit records one field collection attempt on a loan.
type CollectionVisit struct {
	ID          int32     `json:"id"`
	LoanID      int32     `json:"loan_id"`
	CollectorID int32     `json:"collector_id"`
	VisitDate   time.Time `json:"visit_date"`
	Result      string    `json:"result"`
	Notes       string    `json:"notes"`
	IsDeleted   bool      `json:"is_deleted"`
	CreatedOn   time.Time `json:"created_on"`
}
