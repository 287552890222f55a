package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"time"

	"microfinance-backend/internal/domain"
)

// reportService assembles reports straight from SQL; the aggregations span
// tables in ways the per-entity repositories do not expose.
type reportService struct {
	db *sql.DB
}

func NewReportService(db *sql.DB) ReportService {
	return &reportService{db: db}
}

func (s *reportService) Collections(ctx context.Context, from, to time.Time) (*domain.CollectionsReport, error) {
	report := &domain.CollectionsReport{From: from, To: to}

	query := `SELECT p.collector_id, u.name, COALESCE(SUM(p.amount), 0), COUNT(*)
	          FROM payments p
	          JOIN users u ON u.id = p.collector_id
	          WHERE p.payment_date >= $1 AND p.payment_date < $2 AND p.is_deleted = false
	          GROUP BY p.collector_id, u.name
	          ORDER BY u.name`
	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var row domain.CollectorCollectionsRow
		if err := rows.Scan(&row.CollectorID, &row.CollectorName, &row.Collected, &row.PaymentCount); err != nil {
			return nil, err
		}
		report.ByCollector = append(report.ByCollector, row)
		report.TotalCollected = report.TotalCollected.Add(row.Collected)
		report.PaymentCount += row.PaymentCount
	}
	return report, rows.Err()
}

func (s *reportService) Portfolio(ctx context.Context) (*domain.PortfolioReport, error) {
	report := &domain.PortfolioReport{GeneratedAt: time.Now()}

	query := `SELECT status, COUNT(*) FROM loans WHERE is_deleted = false GROUP BY status`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int32
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch domain.LoanStatus(status) {
		case domain.LoanStatusActive:
			report.ActiveLoans = count
		case domain.LoanStatusOverdue:
			report.OverdueLoans = count
		case domain.LoanStatusPaid:
			report.PaidLoans = count
		case domain.LoanStatusCancelled:
			report.CancelledLoans = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	balanceQuery := `SELECT COALESCE(SUM(current_balance), 0) FROM loans
	                 WHERE status IN ('ACTIVE', 'OVERDUE') AND is_deleted = false`
	if err := s.db.QueryRowContext(ctx, balanceQuery).Scan(&report.OutstandingBalance); err != nil {
		return nil, err
	}

	lateQuery := `SELECT COALESCE(SUM(i.late_interest_amount), 0) FROM installments i
	              WHERE i.status = 'OVERDUE' AND i.is_deleted = false`
	if err := s.db.QueryRowContext(ctx, lateQuery).Scan(&report.LateInterestOwed); err != nil {
		return nil, err
	}

	return report, nil
}

// JSONRenderer is the default report output format.
type JSONRenderer struct{}

func (JSONRenderer) ContentType() string {
	return "application/json"
}

func (JSONRenderer) Render(w io.Writer, report interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
