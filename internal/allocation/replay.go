package allocation

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

// ReplayEntry is a recorded payment as stored, in recording order.
type ReplayEntry struct {
	PaymentID           uuid.UUID
	Amount              decimal.Decimal
	InterestPortion     decimal.Decimal
	PrincipalPortion    decimal.Decimal
	BalanceAfterPayment decimal.Decimal
}

type Mismatch struct {
	PaymentID uuid.UUID
	Field     string
	Recorded  decimal.Decimal
	Expected  decimal.Decimal
}

// Replay recomputes a contract's balance history from its principal and reports
// every stored figure that differs from the recomputation. The second return
// value is the balance the history leads to.
func Replay(principal, rate decimal.Decimal, entries []ReplayEntry) ([]Mismatch, decimal.Decimal) {
	snap := ContractSnapshot{
		CurrentBalance: principal,
		InterestRate:   rate,
		Status:         domain.ContractStatusActive,
	}

	var mismatches []Mismatch
	for _, e := range entries {
		res, err := Allocate(snap, e.Amount)
		if err != nil {
			mismatches = append(mismatches, Mismatch{
				PaymentID: e.PaymentID,
				Field:     "amount",
				Recorded:  e.Amount,
				Expected:  decimal.Zero,
			})
			continue
		}

		check := func(field string, recorded, expected decimal.Decimal) {
			if !recorded.Equal(expected) {
				mismatches = append(mismatches, Mismatch{
					PaymentID: e.PaymentID,
					Field:     field,
					Recorded:  recorded,
					Expected:  expected,
				})
			}
		}
		check("interest_portion", e.InterestPortion, res.InterestPortion)
		check("principal_portion", e.PrincipalPortion, res.PrincipalPortion)
		check("balance_after_payment", e.BalanceAfterPayment, res.NewBalance)

		snap.CurrentBalance = res.NewBalance
		snap.Status = res.NewStatus
	}

	return mismatches, snap.CurrentBalance
}
