// Package payment records loan payments against contracts and serves the
// receipt history built from them.
package payment

//go:generate mockgen -source=service.go -destination=mocks/payment_mocks.go -package=mocks ContractStore,PaymentStore,EventStore,ClientFinder

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/importer"
	"github.com/josh-kwaku/loan-servicing/internal/metrics"
)

type ContractStore interface {
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contract, error)
	GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*domain.Contract, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, userID, id uuid.UUID) (*domain.Contract, error)
	ListOpenByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.OpenContract, error)
	UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance decimal.Decimal, status domain.ContractStatus, newVersion int64) error
}

type PaymentStore interface {
	NextReceiptNumber(ctx context.Context, tx *sql.Tx, at time.Time) (string, error)
	Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Payment, error)
	List(ctx context.Context, userID uuid.UUID, f domain.PaymentFilter) ([]domain.Payment, int, error)
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Payment, error)
	ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error)
}

type EventStore interface {
	Create(ctx context.Context, tx *sql.Tx, event *domain.ContractEvent) error
}

type ClientFinder interface {
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Client, error)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type Service struct {
	contracts ContractStore
	payments  PaymentStore
	events    EventStore
	clients   ClientFinder
	cache     dashboardInvalidator
	metrics   *metrics.Metrics
	db        *sql.DB
	now       func() time.Time
}

func NewService(
	contracts ContractStore,
	payments PaymentStore,
	events EventStore,
	clients ClientFinder,
	cache dashboardInvalidator,
	m *metrics.Metrics,
	db *sql.DB,
) *Service {
	return &Service{
		contracts: contracts,
		payments:  payments,
		events:    events,
		clients:   clients,
		cache:     cache,
		metrics:   m,
		db:        db,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetPayment(ctx context.Context, userID, id uuid.UUID) (*domain.Payment, error) {
	p, err := s.payments.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("GetPayment: %w", err)
	}
	return p, nil
}

func (s *Service) ListPayments(ctx context.Context, userID uuid.UUID, f domain.PaymentFilter) ([]domain.Payment, int, error) {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return nil, 0, fmt.Errorf("ListPayments: end date before start date: %w", domain.ErrInvalidRequest)
	}
	payments, total, err := s.payments.List(ctx, userID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("ListPayments: %w", err)
	}
	return payments, total, nil
}

// ListContractPayments returns a contract's receipts in recording order.
func (s *Service) ListContractPayments(ctx context.Context, userID, contractID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.contracts.GetByID(ctx, userID, contractID); err != nil {
		return nil, fmt.Errorf("ListContractPayments: %w", err)
	}
	payments, err := s.payments.ListByContract(ctx, contractID)
	if err != nil {
		return nil, fmt.Errorf("ListContractPayments: %w", err)
	}
	return payments, nil
}

// ExportPayments writes every receipt of the user as an XLSX workbook.
func (s *Service) ExportPayments(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	payments, err := s.payments.ListAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("ExportPayments: %w", err)
	}
	if err := importer.WritePayments(w, payments); err != nil {
		return fmt.Errorf("ExportPayments: %w", err)
	}
	return nil
}
