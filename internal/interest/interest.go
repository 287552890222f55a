// Package interest implements the moratory (late) interest math applied to
// overdue installments: conversion of a loan's stated monthly rate to an
// effective daily late rate, day counting, and the business rounding rule.
package interest

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// moratorySurcharge is the statutory 25% surcharge applied on top of the
	// loan's effective annual rate.
	moratorySurcharge = 1.25
	monthsPerYear     = 12
	daysPerYear       = 365
)

// roundUpThreshold is the fractional cutoff of the business rounding
// convention: fractions at or below it truncate, anything above rounds up to
// the next whole unit.
var roundUpThreshold = decimal.RequireFromString("0.39")

var oneDecimal = decimal.NewFromInt(1)

// DailyLateRate converts a monthly interest rate expressed as a percentage
// (15 means 15% per month) into the effective daily moratory rate:
//
//	effectiveAnnual = (1 + monthly)^12 - 1
//	lateAnnual      = effectiveAnnual * 1.25
//	daily           = (1 + lateAnnual)^(1/365) - 1
func DailyLateRate(monthlyRatePercent float64) (float64, error) {
	if math.IsNaN(monthlyRatePercent) || math.IsInf(monthlyRatePercent, 0) {
		return 0, fmt.Errorf("monthly rate is not a number: %v", monthlyRatePercent)
	}
	if monthlyRatePercent < 0 {
		return 0, fmt.Errorf("monthly rate must be non-negative, got %v", monthlyRatePercent)
	}

	monthly := monthlyRatePercent / 100
	effectiveAnnual := math.Pow(1+monthly, monthsPerYear) - 1
	lateAnnual := effectiveAnnual * moratorySurcharge
	daily := math.Pow(1+lateAnnual, 1.0/daysPerYear) - 1
	return daily, nil
}

// DaysLate counts whole calendar days between the due date and today. The
// calculator only ever selects installments due strictly before today, but a
// minimum of one day is always charged regardless.
func DaysLate(dueDate, today time.Time) int {
	due := truncateToDay(dueDate)
	now := truncateToDay(today)

	days := int(now.Sub(due).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// LateCharge computes the rounded moratory interest owed on an installment.
// The base is principal plus normal interest, clamped non-negative; late
// interest already accrued is excluded so the charge never compounds on
// itself.
func LateCharge(principal, normalInterest decimal.Decimal, monthlyRatePercent float64, daysLate int) (decimal.Decimal, error) {
	dailyRate, err := DailyLateRate(monthlyRatePercent)
	if err != nil {
		return decimal.Zero, err
	}
	if daysLate < 1 {
		daysLate = 1
	}

	base := principal.Add(normalInterest)
	if base.IsNegative() {
		base = decimal.Zero
	}

	raw := base.
		Mul(decimal.NewFromFloat(dailyRate)).
		Mul(decimal.NewFromInt(int64(daysLate)))
	return RoundCharge(raw), nil
}

// RoundCharge applies the business rounding convention: split the value into
// whole and fractional parts; a fraction of 0.39 or less truncates, anything
// above rounds up to the next whole unit. This is a deliberate convention,
// not standard rounding.
func RoundCharge(v decimal.Decimal) decimal.Decimal {
	whole := v.Floor()
	frac := v.Sub(whole)
	if frac.Cmp(roundUpThreshold) <= 0 {
		return whole
	}
	return whole.Add(oneDecimal)
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
