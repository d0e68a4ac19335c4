// Package allocation splits a loan payment into its interest and principal
// portions and derives the resulting contract balance and status.
//
// All arithmetic is exact decimal arithmetic. Dividing by 100 is a decimal
// shift, so interest due carries every digit of balance*rate and the interest
// and principal portions always sum to the amount.
package allocation

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

// ContractSnapshot is the slice of contract state an allocation reads.
type ContractSnapshot struct {
	CurrentBalance decimal.Decimal
	InterestRate   decimal.Decimal
	Status         domain.ContractStatus
}

type Result struct {
	InterestDue      decimal.Decimal
	InterestPortion  decimal.Decimal
	PrincipalPortion decimal.Decimal
	NewBalance       decimal.Decimal
	NewStatus        domain.ContractStatus
}

// Allocate applies amount to the contract: interest due on the current balance
// is settled first and only the remainder reduces principal. An over-payment
// keeps its full principal portion while the balance is clamped at zero.
func Allocate(c ContractSnapshot, amount decimal.Decimal) (Result, error) {
	if !amount.IsPositive() {
		return Result{}, fmt.Errorf("Allocate: %s: %w", amount, domain.ErrInvalidPaymentAmount)
	}
	if c.CurrentBalance.IsNegative() || c.InterestRate.IsNegative() {
		return Result{}, fmt.Errorf("Allocate: balance %s rate %s: %w",
			c.CurrentBalance, c.InterestRate, domain.ErrInvalidContractState)
	}

	interestDue := InterestDue(c.CurrentBalance, c.InterestRate)

	interest, principal := amount, decimal.Zero
	if amount.GreaterThanOrEqual(interestDue) {
		interest = interestDue
		principal = amount.Sub(interestDue)
	}

	newBalance := decimal.Max(decimal.Zero, c.CurrentBalance.Sub(principal))

	status := c.Status
	if newBalance.IsZero() {
		status = domain.ContractStatusPaid
	}

	return Result{
		InterestDue:      interestDue,
		InterestPortion:  interest,
		PrincipalPortion: principal,
		NewBalance:       newBalance,
		NewStatus:        status,
	}, nil
}

// InterestDue is the interest accrued on balance for one period at rate percent.
func InterestDue(balance, rate decimal.Decimal) decimal.Decimal {
	return balance.Mul(rate).Shift(-2)
}
