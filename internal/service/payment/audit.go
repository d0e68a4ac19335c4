package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/allocation"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

// AuditReport compares a contract's stored balance history against a fresh
// replay of its payments from the original principal.
type AuditReport struct {
	ContractID      uuid.UUID
	Payments        int
	StoredBalance   decimal.Decimal
	ReplayedBalance decimal.Decimal
	Mismatches      []allocation.Mismatch
}

func (r *AuditReport) Consistent() bool {
	return len(r.Mismatches) == 0 && r.StoredBalance.Equal(r.ReplayedBalance)
}

func (s *Service) AuditContract(ctx context.Context, userID, contractID uuid.UUID) (*AuditReport, error) {
	c, err := s.contracts.GetByID(ctx, userID, contractID)
	if err != nil {
		return nil, fmt.Errorf("AuditContract: %w", err)
	}

	payments, err := s.payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("AuditContract: %w", err)
	}

	entries := make([]allocation.ReplayEntry, len(payments))
	for i, p := range payments {
		entries[i] = allocation.ReplayEntry{
			PaymentID:           p.ID,
			Amount:              p.Amount,
			InterestPortion:     p.InterestPortion,
			PrincipalPortion:    p.PrincipalPortion,
			BalanceAfterPayment: p.BalanceAfterPayment,
		}
	}
	mismatches, replayed := allocation.Replay(c.PrincipalAmount, c.InterestRate, entries)

	report := &AuditReport{
		ContractID:      c.ID,
		Payments:        len(payments),
		StoredBalance:   c.CurrentBalance,
		ReplayedBalance: replayed,
		Mismatches:      mismatches,
	}
	if !report.Consistent() {
		logging.FromContext(ctx).Warn("contract balance history inconsistent",
			"contract_id", c.ID,
			"mismatches", len(mismatches),
			"stored_balance", c.CurrentBalance,
			"replayed_balance", replayed,
		)
	}
	return report, nil
}
