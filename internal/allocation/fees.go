package allocation

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Fees struct {
	LateFee         decimal.Decimal
	PenaltyInterest decimal.Decimal
	Total           decimal.Decimal
}

// OverdueFees charges a one-off late fee of lateFeePct percent plus
// dailyPenaltyPct percent of amount for every day overdue.
func OverdueFees(amount, lateFeePct, dailyPenaltyPct decimal.Decimal, daysOverdue int) Fees {
	if daysOverdue <= 0 || !amount.IsPositive() {
		return Fees{LateFee: decimal.Zero, PenaltyInterest: decimal.Zero, Total: decimal.Zero}
	}

	lateFee := amount.Mul(lateFeePct).Shift(-2)
	penalty := amount.Mul(dailyPenaltyPct).Shift(-2).Mul(decimal.NewFromInt(int64(daysOverdue)))

	return Fees{
		LateFee:         lateFee,
		PenaltyInterest: penalty,
		Total:           lateFee.Add(penalty),
	}
}

// DaysOverdue counts started days between due and now, never negative.
func DaysOverdue(due, now time.Time) int {
	diff := now.Sub(due)
	if diff <= 0 {
		return 0
	}
	return int(math.Ceil(diff.Hours() / 24))
}
