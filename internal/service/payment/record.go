package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/allocation"
	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

type RecordPaymentRequest struct {
	UserID      uuid.UUID
	ContractID  uuid.UUID
	Amount      decimal.Decimal
	PaymentDate time.Time
	Method      domain.PaymentMethod
	Description *string
}

type RecordPaymentResult struct {
	Payment         *domain.Payment
	PreviousBalance decimal.Decimal
	NewBalance      decimal.Decimal
	Status          domain.ContractStatus
}

// RecordPayment allocates a payment between interest and principal and
// persists the receipt and the new contract balance as one unit. The contract
// row stays locked for the whole transaction, so concurrent payments against
// the same contract apply one after the other.
func (s *Service) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	log := logging.FromContext(ctx)

	if !req.Amount.IsPositive() {
		s.metrics.PaymentRejected()
		return nil, fmt.Errorf("RecordPayment: %w", domain.ErrInvalidPaymentAmount)
	}
	if req.Method == "" {
		req.Method = domain.PaymentMethodPix
	}
	if !req.Method.IsValid() {
		s.metrics.PaymentRejected()
		return nil, fmt.Errorf("RecordPayment: payment method %q: %w", req.Method, domain.ErrInvalidRequest)
	}
	if req.PaymentDate.IsZero() {
		req.PaymentDate = s.now()
	}

	res, err := s.executePayment(ctx, req)
	if err != nil {
		s.metrics.PaymentRejected()
		return nil, fmt.Errorf("RecordPayment: %w", err)
	}

	p := res.Payment
	s.metrics.PaymentRecorded(string(res.Status), p.InterestPortion, p.PrincipalPortion)
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, req.UserID); err != nil {
			log.Warn("dashboard cache invalidation failed", "user_id", req.UserID, "error", err)
		}
	}

	log.Info("payment recorded",
		"payment_id", p.ID,
		"receipt_number", p.ReceiptNumber,
		"contract_id", p.ContractID,
		"amount", p.Amount,
		"interest_portion", p.InterestPortion,
		"principal_portion", p.PrincipalPortion,
		"previous_balance", res.PreviousBalance,
		"new_balance", res.NewBalance,
		"status", res.Status,
	)
	return res, nil
}

func (s *Service) executePayment(ctx context.Context, req RecordPaymentRequest) (*RecordPaymentResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("executePayment: begin tx: %w", err)
	}
	defer tx.Rollback()

	c, err := s.contracts.GetForUpdate(ctx, tx, req.UserID, req.ContractID)
	if err != nil {
		return nil, fmt.Errorf("executePayment: %w", err)
	}
	if c.Status == domain.ContractStatusPaid {
		return nil, fmt.Errorf("executePayment: %w", domain.ErrContractPaid)
	}

	alloc, err := allocation.Allocate(allocation.ContractSnapshot{
		CurrentBalance: c.CurrentBalance,
		InterestRate:   c.InterestRate,
		Status:         c.Status,
	}, req.Amount)
	if err != nil {
		return nil, fmt.Errorf("executePayment: %w", err)
	}

	receipt, err := s.payments.NextReceiptNumber(ctx, tx, req.PaymentDate)
	if err != nil {
		return nil, fmt.Errorf("executePayment: %w", err)
	}

	now := s.now()
	p := &domain.Payment{
		ID:                  uuid.New(),
		ContractID:          c.ID,
		ReceiptNumber:       receipt,
		Amount:              req.Amount,
		PaymentDate:         req.PaymentDate,
		PaymentMethod:       req.Method,
		Description:         req.Description,
		InterestPortion:     alloc.InterestPortion,
		PrincipalPortion:    alloc.PrincipalPortion,
		BalanceBefore:       c.CurrentBalance,
		BalanceAfterPayment: alloc.NewBalance,
		RecordedBy:          req.UserID,
		CreatedAt:           now,
		ContractNumber:      c.ContractNumber,
		ClientName:          c.ClientName,
	}
	if err := s.payments.Create(ctx, tx, p); err != nil {
		return nil, fmt.Errorf("executePayment: create payment: %w", err)
	}

	if err := s.contracts.UpdateBalance(ctx, tx, c.ID, alloc.NewBalance, alloc.NewStatus, c.Version+1); err != nil {
		return nil, fmt.Errorf("executePayment: update contract: %w", err)
	}

	if err := s.writePaymentEvents(ctx, tx, c, p, alloc, now); err != nil {
		return nil, fmt.Errorf("executePayment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("executePayment: commit: %w", err)
	}

	return &RecordPaymentResult{
		Payment:         p,
		PreviousBalance: c.CurrentBalance,
		NewBalance:      alloc.NewBalance,
		Status:          alloc.NewStatus,
	}, nil
}

func (s *Service) writePaymentEvents(ctx context.Context, tx *sql.Tx, c *domain.Contract, p *domain.Payment, alloc allocation.Result, at time.Time) error {
	payload, err := json.Marshal(map[string]any{
		"payment_id":            p.ID,
		"receipt_number":        p.ReceiptNumber,
		"amount":                p.Amount,
		"interest_portion":      p.InterestPortion,
		"principal_portion":     p.PrincipalPortion,
		"balance_before":        p.BalanceBefore,
		"balance_after_payment": p.BalanceAfterPayment,
	})
	if err != nil {
		return fmt.Errorf("writePaymentEvents: encode payload: %w", err)
	}

	actor := domain.UserActor(p.RecordedBy)
	events := []*domain.ContractEvent{{
		ID:         uuid.New(),
		ContractID: c.ID,
		EventType:  domain.ContractEventPaymentRecorded,
		Actor:      actor,
		Payload:    payload,
		CreatedAt:  at,
	}}
	if alloc.NewStatus == domain.ContractStatusPaid && c.Status != domain.ContractStatusPaid {
		paidPayload, _ := json.Marshal(map[string]any{"payment_id": p.ID, "previous_status": c.Status})
		events = append(events, &domain.ContractEvent{
			ID:         uuid.New(),
			ContractID: c.ID,
			EventType:  domain.ContractEventPaid,
			Actor:      actor,
			Payload:    paidPayload,
			CreatedAt:  at,
		})
	}

	for _, e := range events {
		if err := s.events.Create(ctx, tx, e); err != nil {
			return fmt.Errorf("writePaymentEvents: %s: %w", e.EventType, err)
		}
	}
	return nil
}
