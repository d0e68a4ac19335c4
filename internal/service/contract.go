package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/allocation"
	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/importer"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/metrics"
)

type contractRepo interface {
	Create(ctx context.Context, tx *sql.Tx, c *domain.Contract) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contract, error)
	GetForUpdate(ctx context.Context, tx *sql.Tx, userID, id uuid.UUID) (*domain.Contract, error)
	List(ctx context.Context, userID uuid.UUID, f domain.ContractFilter) ([]domain.Contract, int, error)
	UpdateTerms(ctx context.Context, c *domain.Contract) error
	UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.ContractStatus, newVersion int64) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type contractClientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Client, error)
	GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Client, error)
}

type contractEventRepo interface {
	Create(ctx context.Context, tx *sql.Tx, event *domain.ContractEvent) error
}

type CreateContractRequest struct {
	UserID          uuid.UUID
	ClientID        uuid.UUID
	PrincipalAmount decimal.Decimal
	InterestRate    decimal.Decimal
	LoanDate        time.Time
	PaymentDay      int
	LateFeePct      decimal.Decimal
	DailyPenaltyPct decimal.Decimal
	Notes           *string
}

// UpdateContractRequest changes only the terms that do not affect the
// balance. Nil fields are left as they are.
type UpdateContractRequest struct {
	Notes           *string
	PaymentDay      *int
	LateFeePct      *decimal.Decimal
	DailyPenaltyPct *decimal.Decimal
}

type OverdueFeesResult struct {
	ContractID  uuid.UUID
	Status      domain.ContractStatus
	DueDate     time.Time
	DaysOverdue int
	AmountDue   decimal.Decimal
	Fees        allocation.Fees
}

type ContractService struct {
	contracts contractRepo
	clients   contractClientRepo
	events    contractEventRepo
	cache     dashboardInvalidator
	metrics   *metrics.Metrics
	db        *sql.DB
	now       func() time.Time
}

func NewContractService(
	contracts contractRepo,
	clients contractClientRepo,
	events contractEventRepo,
	cache dashboardInvalidator,
	m *metrics.Metrics,
	db *sql.DB,
) *ContractService {
	return &ContractService{
		contracts: contracts,
		clients:   clients,
		events:    events,
		cache:     cache,
		metrics:   m,
		db:        db,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest) (*domain.Contract, error) {
	if err := validateContractTerms(req); err != nil {
		return nil, fmt.Errorf("CreateContract: %w", err)
	}

	client, err := s.clients.GetByID(ctx, req.UserID, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("CreateContract: %w", err)
	}

	c, err := s.originate(ctx, req, client.Name, domain.ContractEventOriginated)
	if err != nil {
		return nil, fmt.Errorf("CreateContract: %w", err)
	}
	s.metrics.ContractOriginated("api")
	invalidateDashboard(ctx, s.cache, req.UserID)

	logging.FromContext(ctx).Info("contract created",
		"contract_id", c.ID,
		"contract_number", c.ContractNumber,
		"client_id", c.ClientID,
		"principal_amount", c.PrincipalAmount,
		"interest_rate", c.InterestRate,
	)
	return c, nil
}

// originate inserts the contract and its origin event in one transaction.
func (s *ContractService) originate(ctx context.Context, req CreateContractRequest, clientName string, eventType domain.ContractEventType) (*domain.Contract, error) {
	now := s.now()
	id := uuid.New()
	c := &domain.Contract{
		ID:              id,
		UserID:          req.UserID,
		ClientID:        req.ClientID,
		ClientName:      clientName,
		ContractNumber:  contractNumber(id, now),
		LoanDate:        req.LoanDate,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		CurrentBalance:  req.PrincipalAmount,
		PaymentDay:      req.PaymentDay,
		LateFeePct:      req.LateFeePct,
		DailyPenaltyPct: req.DailyPenaltyPct,
		Status:          domain.ContractStatusActive,
		Notes:           req.Notes,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("originate: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := s.contracts.Create(ctx, tx, c); err != nil {
		return nil, fmt.Errorf("originate: %w", err)
	}

	payload, _ := json.Marshal(map[string]any{
		"contract_number":  c.ContractNumber,
		"principal_amount": c.PrincipalAmount,
		"interest_rate":    c.InterestRate,
		"payment_day":      c.PaymentDay,
	})
	if err := s.writeEvent(ctx, tx, c.ID, eventType, domain.UserActor(req.UserID), payload, now); err != nil {
		return nil, fmt.Errorf("originate: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("originate: commit: %w", err)
	}
	return c, nil
}

func (s *ContractService) GetContract(ctx context.Context, userID, id uuid.UUID) (*domain.Contract, error) {
	c, err := s.contracts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("GetContract: %w", err)
	}
	return c, nil
}

func (s *ContractService) ListContracts(ctx context.Context, userID uuid.UUID, f domain.ContractFilter) ([]domain.Contract, int, error) {
	if f.Status != nil && !f.Status.IsValid() {
		return nil, 0, fmt.Errorf("ListContracts: status %q: %w", *f.Status, domain.ErrInvalidRequest)
	}
	contracts, total, err := s.contracts.List(ctx, userID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("ListContracts: %w", err)
	}
	return contracts, total, nil
}

func (s *ContractService) UpdateContract(ctx context.Context, userID, id uuid.UUID, req UpdateContractRequest) (*domain.Contract, error) {
	c, err := s.contracts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateContract: %w", err)
	}

	if req.Notes != nil {
		c.Notes = optional(*req.Notes)
	}
	if req.PaymentDay != nil {
		c.PaymentDay = *req.PaymentDay
	}
	if req.LateFeePct != nil {
		c.LateFeePct = *req.LateFeePct
	}
	if req.DailyPenaltyPct != nil {
		c.DailyPenaltyPct = *req.DailyPenaltyPct
	}
	if c.PaymentDay < 1 || c.PaymentDay > 31 {
		return nil, fmt.Errorf("UpdateContract: payment day %d: %w", c.PaymentDay, domain.ErrInvalidContractTerms)
	}
	if c.LateFeePct.IsNegative() || c.DailyPenaltyPct.IsNegative() {
		return nil, fmt.Errorf("UpdateContract: negative fee: %w", domain.ErrInvalidContractTerms)
	}
	c.UpdatedAt = s.now()

	if err := s.contracts.UpdateTerms(ctx, c); err != nil {
		return nil, fmt.Errorf("UpdateContract: %w", err)
	}

	logging.FromContext(ctx).Info("contract updated", "contract_id", c.ID, "version", c.Version)
	return c, nil
}

// UpdateStatus applies an operator-requested status change.
func (s *ContractService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, next domain.ContractStatus) (*domain.Contract, error) {
	c, err := s.TransitionStatus(ctx, userID, id, "", next, domain.UserActor(userID))
	if err != nil {
		return nil, fmt.Errorf("UpdateStatus: %w", err)
	}
	return c, nil
}

// TransitionStatus moves a contract to next under a row lock. When from is
// set, the contract must still be in that status; otherwise the call is a
// no-op returning (nil, nil), which lets the overdue sweeper lose races with
// payments quietly.
func (s *ContractService) TransitionStatus(ctx context.Context, userID, id uuid.UUID, from, next domain.ContractStatus, actor string) (*domain.Contract, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("TransitionStatus: begin tx: %w", err)
	}
	defer tx.Rollback()

	c, err := s.contracts.GetForUpdate(ctx, tx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("TransitionStatus: %w", err)
	}
	if from != "" && c.Status != from {
		return nil, nil
	}
	if !c.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("TransitionStatus: %s -> %s: %w", c.Status, next, domain.ErrInvalidStatusTransition)
	}

	previous := c.Status
	c.Version++
	if err := s.contracts.UpdateStatus(ctx, tx, c.ID, next, c.Version); err != nil {
		return nil, fmt.Errorf("TransitionStatus: %w", err)
	}

	now := s.now()
	payload, _ := json.Marshal(map[string]string{"from": string(previous), "to": string(next)})
	if err := s.writeEvent(ctx, tx, c.ID, domain.ContractEventStatusChanged, actor, payload, now); err != nil {
		return nil, fmt.Errorf("TransitionStatus: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("TransitionStatus: commit: %w", err)
	}

	c.Status = next
	c.UpdatedAt = now

	actorKind := "user"
	if actor == domain.ActorSystem {
		actorKind = domain.ActorSystem
	}
	s.metrics.StatusTransition(string(next), actorKind)
	invalidateDashboard(ctx, s.cache, c.UserID)

	logging.FromContext(ctx).Info("contract status changed",
		"contract_id", c.ID,
		"previous_status", previous,
		"new_status", next,
		"actor", actor,
	)
	return c, nil
}

func (s *ContractService) DeleteContract(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.contracts.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("DeleteContract: %w", err)
	}
	invalidateDashboard(ctx, s.cache, userID)

	logging.FromContext(ctx).Info("contract deleted", "contract_id", id)
	return nil
}

// OverdueFees prices the late fee and daily penalty on the installment due at
// the most recent due date. Contracts that are not overdue owe nothing.
func (s *ContractService) OverdueFees(ctx context.Context, userID, id uuid.UUID) (*OverdueFeesResult, error) {
	c, err := s.contracts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("OverdueFees: %w", err)
	}

	now := s.now()
	due := allocation.LastDueDate(now, c.PaymentDay)
	res := &OverdueFeesResult{
		ContractID: c.ID,
		Status:     c.Status,
		DueDate:    due,
		AmountDue:  c.MonthlyInterest(),
	}
	if c.Status == domain.ContractStatusOverdue {
		res.DaysOverdue = allocation.DaysOverdue(due, now)
	}
	res.Fees = allocation.OverdueFees(res.AmountDue, c.LateFeePct, c.DailyPenaltyPct, res.DaysOverdue)
	return res, nil
}

// ImportContracts creates one contract per valid row, creating clients that
// do not exist yet. Each row stands alone.
func (s *ContractService) ImportContracts(ctx context.Context, userID uuid.UUID, rows []importer.Row) (*domain.ImportResult, error) {
	log := logging.FromContext(ctx)
	result := &domain.ImportResult{Total: len(rows)}

	for _, r := range rows {
		name, err := s.importContractRow(ctx, userID, r)
		s.metrics.ImportRow("contracts", err == nil)
		if err != nil {
			result.Failed++
			result.Details = append(result.Details, domain.ImportRowError{
				Row:    r.Number,
				Client: name,
				Error:  importErrorMessage(err),
			})
			continue
		}
		result.Succeeded++
	}

	if result.Succeeded > 0 {
		invalidateDashboard(ctx, s.cache, userID)
	}

	log.Info("contracts imported",
		"user_id", userID,
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *ContractService) importContractRow(ctx context.Context, userID uuid.UUID, r importer.Row) (string, error) {
	row, err := importer.ParseContractRow(r)
	if err != nil {
		return r.Get("Nome do Cliente", "client_name"), err
	}

	client, err := s.findOrCreateClient(ctx, userID, row)
	if err != nil {
		return row.ClientName, err
	}

	req := CreateContractRequest{
		UserID:          userID,
		ClientID:        client.ID,
		PrincipalAmount: row.LoanAmount,
		InterestRate:    row.InterestRate,
		LoanDate:        row.LoanDate,
		PaymentDay:      row.PaymentDay,
		LateFeePct:      decimal.Zero,
		DailyPenaltyPct: decimal.Zero,
		Notes:           optional(row.Notes),
	}
	if _, err := s.originate(ctx, req, client.Name, domain.ContractEventImported); err != nil {
		return row.ClientName, err
	}
	s.metrics.ContractOriginated("import")
	return row.ClientName, nil
}

func (s *ContractService) findOrCreateClient(ctx context.Context, userID uuid.UUID, row importer.ContractRow) (*domain.Client, error) {
	client, err := s.clients.GetByName(ctx, userID, row.ClientName)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, domain.ErrClientNotFound) {
		return nil, fmt.Errorf("findOrCreateClient: %w", err)
	}

	now := s.now()
	client = &domain.Client{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      strings.TrimSpace(row.ClientName),
		Email:     optional(row.Email),
		Phone:     optional(row.Phone),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("findOrCreateClient: %w", err)
	}
	return client, nil
}

func (s *ContractService) writeEvent(ctx context.Context, tx *sql.Tx, contractID uuid.UUID, eventType domain.ContractEventType, actor string, payload []byte, at time.Time) error {
	event := &domain.ContractEvent{
		ID:         uuid.New(),
		ContractID: contractID,
		EventType:  eventType,
		Actor:      actor,
		Payload:    payload,
		CreatedAt:  at,
	}
	if err := s.events.Create(ctx, tx, event); err != nil {
		return fmt.Errorf("write %s event: %w", eventType, err)
	}
	return nil
}

func validateContractTerms(req CreateContractRequest) error {
	switch {
	case !req.PrincipalAmount.IsPositive():
		return fmt.Errorf("principal must be greater than zero: %w", domain.ErrInvalidContractTerms)
	case req.InterestRate.IsNegative():
		return fmt.Errorf("interest rate must not be negative: %w", domain.ErrInvalidContractTerms)
	case req.PaymentDay < 1 || req.PaymentDay > 31:
		return fmt.Errorf("payment day %d out of range: %w", req.PaymentDay, domain.ErrInvalidContractTerms)
	case req.LateFeePct.IsNegative() || req.DailyPenaltyPct.IsNegative():
		return fmt.Errorf("fees must not be negative: %w", domain.ErrInvalidContractTerms)
	case req.LoanDate.IsZero():
		return fmt.Errorf("loan date is required: %w", domain.ErrInvalidContractTerms)
	}
	return nil
}

// contractNumber is CONT-<unix millis>-<id prefix>; the suffix keeps numbers
// unique when a bulk import creates several contracts in the same millisecond.
func contractNumber(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("CONT-%d-%s", at.UnixMilli(), strings.ToUpper(id.String()[:4]))
}

// importErrorMessage strips the call-chain prefixes so row errors read well
// in the import report.
func importErrorMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrContractNotFound,
		domain.ErrContractPaid,
		domain.ErrClientNotFound,
		domain.ErrInvalidPaymentAmount,
		domain.ErrInvalidContractState,
		domain.ErrInvalidContractTerms,
		domain.ErrVersionConflict,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
