package domain

import "github.com/shopspring/decimal"

// DashboardSummary aggregates the portfolio figures shown on the back-office
// landing page.
type DashboardSummary struct {
	ActiveLoans         int32           `json:"active_loans"`
	OverdueLoans        int32           `json:"overdue_loans"`
	PortfolioBalance    decimal.Decimal `json:"portfolio_balance"`
	OverdueInstallments int32           `json:"overdue_installments"`
	CollectedToday      decimal.Decimal `json:"collected_today"`
	ActiveCustomers     int32           `json:"active_customers"`
}
