package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/allocation"
	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

type openContractLister interface {
	ListAllOpen(ctx context.Context) ([]domain.OpenContract, error)
}

type statusTransitioner interface {
	TransitionStatus(ctx context.Context, userID, id uuid.UUID, from, next domain.ContractStatus, actor string) (*domain.Contract, error)
}

// OverdueSweeper flips open contracts between active and overdue according to
// their payment calendar.
type OverdueSweeper struct {
	contracts   openContractLister
	transitions statusTransitioner
	graceDays   int
	logger      *slog.Logger
	now         func() time.Time
}

func NewOverdueSweeper(contracts openContractLister, transitions statusTransitioner, graceDays int, logger *slog.Logger) *OverdueSweeper {
	return &OverdueSweeper{
		contracts:   contracts,
		transitions: transitions,
		graceDays:   graceDays,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Sweep evaluates every open contract once and returns how many changed
// status. A failure on one contract is logged and does not stop the sweep.
func (s *OverdueSweeper) Sweep(ctx context.Context) (int, error) {
	open, err := s.contracts.ListAllOpen(ctx)
	if err != nil {
		return 0, fmt.Errorf("Sweep: %w", err)
	}

	now := s.now()
	changed := 0
	for _, oc := range open {
		next, ok := overdueTransition(oc, now, s.graceDays)
		if !ok {
			continue
		}

		c, err := s.transitions.TransitionStatus(ctx, oc.UserID, oc.ID, oc.Status, next, domain.ActorSystem)
		if err != nil {
			s.logger.Error("overdue sweep transition failed",
				"contract_id", oc.ID,
				"from", oc.Status,
				"to", next,
				"error", err,
			)
			continue
		}
		if c != nil {
			changed++
		}
	}

	if changed > 0 {
		s.logger.Info("overdue sweep completed", "checked", len(open), "changed", changed)
	}
	return changed, nil
}

// overdueTransition decides the calendar-driven status for an open contract.
// An active contract becomes overdue once the day after its last due date
// (plus grace) has started with no payment on or after that due date. An
// overdue contract returns to active when such a payment exists. Contracts
// originated on or after the due date owe nothing for it yet.
func overdueTransition(oc domain.OpenContract, now time.Time, graceDays int) (domain.ContractStatus, bool) {
	due := allocation.LastDueDate(now, oc.PaymentDay)
	paidSinceDue := oc.LastPaymentDate != nil && !oc.LastPaymentDate.Before(due)

	switch oc.Status {
	case domain.ContractStatusActive:
		deadline := due.AddDate(0, 0, graceDays+1)
		if !now.Before(deadline) && oc.LoanDate.Before(due) && !paidSinceDue {
			return domain.ContractStatusOverdue, true
		}
	case domain.ContractStatusOverdue:
		if paidSinceDue {
			return domain.ContractStatusActive, true
		}
	}
	return "", false
}
