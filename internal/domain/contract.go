package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "active"
	ContractStatusOverdue    ContractStatus = "overdue"
	ContractStatusPaid       ContractStatus = "paid"
	ContractStatusRefinanced ContractStatus = "refinanced"
)

func (s ContractStatus) IsValid() bool {
	switch s {
	case ContractStatusActive, ContractStatusOverdue, ContractStatusPaid, ContractStatusRefinanced:
		return true
	}
	return false
}

// Open contracts still accrue interest and accept payments.
func (s ContractStatus) IsOpen() bool {
	return s == ContractStatusActive || s == ContractStatusOverdue
}

// CanTransitionTo reports whether an operator or the overdue sweeper may move
// a contract from s to next. Paid is reachable only through payment allocation.
func (s ContractStatus) CanTransitionTo(next ContractStatus) bool {
	if !next.IsValid() || next == ContractStatusPaid || s == next {
		return false
	}
	switch s {
	case ContractStatusActive:
		return next == ContractStatusOverdue || next == ContractStatusRefinanced
	case ContractStatusOverdue:
		return next == ContractStatusActive || next == ContractStatusRefinanced
	default:
		return false
	}
}

type Contract struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	ClientID        uuid.UUID
	ClientName      string
	ContractNumber  string
	LoanDate        time.Time
	PrincipalAmount decimal.Decimal
	InterestRate    decimal.Decimal
	CurrentBalance  decimal.Decimal
	PaymentDay      int
	LateFeePct      decimal.Decimal
	DailyPenaltyPct decimal.Decimal
	Status          ContractStatus
	Notes           *string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// MonthlyInterest is the interest due on the current balance for one period.
func (c *Contract) MonthlyInterest() decimal.Decimal {
	return c.CurrentBalance.Mul(c.InterestRate).Shift(-2)
}

func (c *Contract) TotalWithInterest() decimal.Decimal {
	return c.PrincipalAmount.Add(c.PrincipalAmount.Mul(c.InterestRate).Shift(-2))
}

// OpenContract is an active or overdue contract with the date of its latest payment.
type OpenContract struct {
	Contract
	LastPaymentDate *time.Time
}

type ContractFilter struct {
	Status   *ContractStatus
	ClientID *uuid.UUID
	Limit    int
	Offset   int
}
