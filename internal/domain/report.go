package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CollectionsReport summarizes payments received in a date range, broken down
// by collector.
type CollectionsReport struct {
	From           time.Time                 `json:"from"`
	To             time.Time                 `json:"to"`
	TotalCollected decimal.Decimal           `json:"total_collected"`
	PaymentCount   int32                     `json:"payment_count"`
	ByCollector    []CollectorCollectionsRow `json:"by_collector"`
}

type CollectorCollectionsRow struct {
	CollectorID   int32           `json:"collector_id"`
	CollectorName string          `json:"collector_name"`
	Collected     decimal.Decimal `json:"collected"`
	PaymentCount  int32           `json:"payment_count"`
}

// PortfolioReport is a point-in-time snapshot of the loan book.
type PortfolioReport struct {
	GeneratedAt        time.Time       `json:"generated_at"`
	ActiveLoans        int32           `json:"active_loans"`
	OverdueLoans       int32           `json:"overdue_loans"`
	PaidLoans          int32           `json:"paid_loans"`
	CancelledLoans     int32           `json:"cancelled_loans"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	LateInterestOwed   decimal.Decimal `json:"late_interest_owed"`
}
