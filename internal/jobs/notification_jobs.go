package jobs

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/interest"
	"microfinance-backend/internal/logger"
)

// SendOverdueNotices emails each customer with overdue installments a payment
// reminder, one notice per loan. Customers without an email address are
// skipped.
func (jr *JobRunner) SendOverdueNotices() {
	jr.runWithRecovery("SendOverdueNotices", func() {
		ctx := context.Background()

		query := `
			SELECT l.id, c.full_name, c.email,
			       COALESCE(SUM(i.principal_amount + i.interest_amount + i.late_interest_amount - i.paid_amount), 0),
			       MIN(i.due_date)
			FROM installments i
			JOIN loans l ON i.loan_id = l.id
			JOIN customers c ON l.customer_id = c.id
			WHERE i.status = 'OVERDUE'
			  AND i.is_deleted = false
			  AND l.is_deleted = false
			  AND c.email <> ''
			GROUP BY l.id, c.full_name, c.email
		`

		rows, err := jr.db.QueryContext(ctx, query)
		if err != nil {
			logger.Error("Failed to query overdue installments for notices", "error", err)
			return
		}
		defer rows.Close()

		count := 0
		for rows.Next() {
			var (
				loanID       int32
				customerName string
				email        string
				totalDue     decimal.Decimal
				oldestDue    time.Time
			)
			if err := rows.Scan(&loanID, &customerName, &email, &totalDue, &oldestDue); err != nil {
				logger.Error("Failed to scan overdue notice row", "error", err)
				continue
			}

			daysLate := interest.DaysLate(oldestDue, jr.now())
			if err := jr.services.Email.SendOverdueNotice(ctx, email, customerName, loanID, totalDue, daysLate); err != nil {
				logger.Error("Failed to send overdue notice",
					"loan_id", loanID,
					"email", email,
					"error", err)
				continue
			}

			count++
			logger.Debug("Sent overdue notice", "loan_id", loanID, "email", email, "days_late", daysLate)
		}

		if err := rows.Err(); err != nil {
			logger.Error("Error iterating overdue notice rows", "error", err)
			return
		}

		logger.Info("Overdue notices sent", "count", count)
	})
}
