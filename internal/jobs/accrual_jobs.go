package jobs

import (
	"context"

	"github.com/shopspring/decimal"

	"microfinance-backend/internal/interest"
	"microfinance-backend/internal/logger"
)

// materialityEpsilon is the persistence threshold for recalculated late
// interest. Changes of a cent or less are not worth a write.
var materialityEpsilon = decimal.RequireFromString("0.01")

// RecalculateLateInterest recomputes the moratory interest owed on every
// overdue unpaid installment from scratch (rate, base and days late), then
// persists only the amounts that materially changed. A bad row is logged and
// skipped; one unparsable loan never blocks the rest of the batch.
func (jr *JobRunner) RecalculateLateInterest() {
	jr.runWithRecovery("RecalculateLateInterest", func() {
		ctx := context.Background()
		today := jr.now()

		items, err := jr.store.InstallmentRepository.ListAccruable(ctx, today)
		if err != nil {
			logger.Error("Failed to list accruable installments", "error", err)
			return
		}

		charges := make(map[int32]decimal.Decimal)
		skipped := 0
		for _, item := range items {
			rate, _ := item.MonthlyInterestRate.Float64()
			daysLate := interest.DaysLate(item.DueDate, today)

			charge, err := interest.LateCharge(item.PrincipalAmount, item.InterestAmount, rate, daysLate)
			if err != nil {
				logger.Error("Failed to compute late interest",
					"installment_id", item.ID,
					"loan_id", item.LoanID,
					"rate", item.MonthlyInterestRate,
					"error", err)
				skipped++
				continue
			}

			if charge.Sub(item.LateInterestAmount).Abs().GreaterThan(materialityEpsilon) {
				charges[item.ID] = charge
				logger.Debug("Late interest changed",
					"installment_id", item.ID,
					"loan_id", item.LoanID,
					"days_late", daysLate,
					"previous", item.LateInterestAmount,
					"charge", charge)
			}
		}

		if len(charges) > 0 {
			if err := jr.store.InstallmentRepository.UpdateLateInterest(ctx, charges); err != nil {
				logger.Error("Failed to persist late interest charges", "error", err)
				return
			}
		}

		logger.Info("Recalculated late interest",
			"examined", len(items),
			"updated", len(charges),
			"skipped", skipped)
	})
}
