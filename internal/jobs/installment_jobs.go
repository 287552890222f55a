package jobs

import (
	"context"

	"microfinance-backend/internal/logger"
)

// PromoteOverdueInstallments moves installments past their due date from
// PENDING to OVERDUE. Paid and soft-deleted installments are never touched,
// so running the job twice on the same day is a no-op the second time.
func (jr *JobRunner) PromoteOverdueInstallments() {
	jr.runWithRecovery("PromoteOverdueInstallments", func() {
		ctx := context.Background()

		promoted, err := jr.store.InstallmentRepository.MarkOverdue(ctx, jr.now())
		if err != nil {
			logger.Error("Failed to mark overdue installments", "error", err)
			return
		}

		logger.Info("Marked installments as overdue", "count", len(promoted))
		for _, inst := range promoted {
			logger.Debug("Marked installment as overdue",
				"installment_id", inst.ID,
				"loan_id", inst.LoanID,
				"due_date", inst.DueDate.Format("2006-01-02"))
		}
	})
}
