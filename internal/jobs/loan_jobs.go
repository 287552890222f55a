package jobs

import (
	"context"

	"microfinance-backend/internal/logger"
)

// PromoteOverdueLoans moves loans past their final due date from ACTIVE to
// OVERDUE. PAID and CANCELLED loans are terminal and never touched.
func (jr *JobRunner) PromoteOverdueLoans() {
	jr.runWithRecovery("PromoteOverdueLoans", func() {
		ctx := context.Background()

		promoted, err := jr.store.LoanRepository.MarkOverdue(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to mark overdue loans", "error", err)
			return
		}

		logger.Info("Marked loans as overdue", "count", len(promoted))
		for _, loan := range promoted {
			logger.Debug("Marked loan as overdue",
				"loan_id", loan.ID,
				"customer_id", loan.CustomerID,
				"due_date", loan.DueDate.Format("2006-01-02"))
		}
	})
}
