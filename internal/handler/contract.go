package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/service"
	"github.com/josh-kwaku/loan-servicing/internal/service/payment"
)

type contractService interface {
	CreateContract(ctx context.Context, req service.CreateContractRequest) (*domain.Contract, error)
	GetContract(ctx context.Context, userID, id uuid.UUID) (*domain.Contract, error)
	ListContracts(ctx context.Context, userID uuid.UUID, f domain.ContractFilter) ([]domain.Contract, int, error)
	UpdateContract(ctx context.Context, userID, id uuid.UUID, req service.UpdateContractRequest) (*domain.Contract, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, next domain.ContractStatus) (*domain.Contract, error)
	DeleteContract(ctx context.Context, userID, id uuid.UUID) error
	OverdueFees(ctx context.Context, userID, id uuid.UUID) (*service.OverdueFeesResult, error)
}

type contractHistory interface {
	ListContractPayments(ctx context.Context, userID, contractID uuid.UUID) ([]domain.Payment, error)
	AuditContract(ctx context.Context, userID, contractID uuid.UUID) (*payment.AuditReport, error)
}

type ContractHandler struct {
	contracts contractService
	history   contractHistory
}

func NewContractHandler(contracts contractService, history contractHistory) *ContractHandler {
	return &ContractHandler{contracts: contracts, history: history}
}

type createContractRequest struct {
	ClientID        string           `json:"client_id"`
	PrincipalAmount *decimal.Decimal `json:"principal_amount"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	LoanDate        string           `json:"loan_date"`
	PaymentDay      int              `json:"payment_day"`
	LateFeePct      *decimal.Decimal `json:"late_fee_pct"`
	DailyPenaltyPct *decimal.Decimal `json:"daily_penalty_pct"`
	Notes           *string          `json:"notes"`
}

func (r createContractRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := uuid.Parse(r.ClientID); err != nil {
		errs = append(errs, FieldError{Field: "client_id", Message: "must be a valid UUID"})
	}
	if r.PrincipalAmount == nil || !r.PrincipalAmount.IsPositive() {
		errs = append(errs, FieldError{Field: "principal_amount", Message: "must be greater than 0"})
	}
	if r.InterestRate == nil || r.InterestRate.IsNegative() {
		errs = append(errs, FieldError{Field: "interest_rate", Message: "required and must not be negative"})
	}
	if _, err := time.Parse(dateLayout, r.LoanDate); err != nil {
		errs = append(errs, FieldError{Field: "loan_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if r.PaymentDay < 1 || r.PaymentDay > 31 {
		errs = append(errs, FieldError{Field: "payment_day", Message: "must be between 1 and 31"})
	}
	if r.LateFeePct != nil && r.LateFeePct.IsNegative() {
		errs = append(errs, FieldError{Field: "late_fee_pct", Message: "must not be negative"})
	}
	if r.DailyPenaltyPct != nil && r.DailyPenaltyPct.IsNegative() {
		errs = append(errs, FieldError{Field: "daily_penalty_pct", Message: "must not be negative"})
	}
	return errs
}

type updateContractRequest struct {
	Notes           *string          `json:"notes"`
	PaymentDay      *int             `json:"payment_day"`
	LateFeePct      *decimal.Decimal `json:"late_fee_pct"`
	DailyPenaltyPct *decimal.Decimal `json:"daily_penalty_pct"`
}

func (r updateContractRequest) Validate() []FieldError {
	var errs []FieldError
	if r.PaymentDay != nil && (*r.PaymentDay < 1 || *r.PaymentDay > 31) {
		errs = append(errs, FieldError{Field: "payment_day", Message: "must be between 1 and 31"})
	}
	if r.LateFeePct != nil && r.LateFeePct.IsNegative() {
		errs = append(errs, FieldError{Field: "late_fee_pct", Message: "must not be negative"})
	}
	if r.DailyPenaltyPct != nil && r.DailyPenaltyPct.IsNegative() {
		errs = append(errs, FieldError{Field: "daily_penalty_pct", Message: "must not be negative"})
	}
	return errs
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type contractDTO struct {
	ID                uuid.UUID       `json:"id"`
	ContractNumber    string          `json:"contract_number"`
	ClientID          uuid.UUID       `json:"client_id"`
	ClientName        string          `json:"client_name"`
	LoanDate          string          `json:"loan_date"`
	PrincipalAmount   decimal.Decimal `json:"principal_amount"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	TotalWithInterest decimal.Decimal `json:"total_with_interest"`
	CurrentBalance    decimal.Decimal `json:"current_balance"`
	MonthlyInterest   decimal.Decimal `json:"monthly_interest"`
	PaymentDay        int             `json:"payment_day"`
	LateFeePct        decimal.Decimal `json:"late_fee_pct"`
	DailyPenaltyPct   decimal.Decimal `json:"daily_penalty_pct"`
	Status            string          `json:"status"`
	Notes             *string         `json:"notes"`
	Version           int64           `json:"version"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func toContractDTO(c *domain.Contract) contractDTO {
	return contractDTO{
		ID:                c.ID,
		ContractNumber:    c.ContractNumber,
		ClientID:          c.ClientID,
		ClientName:        c.ClientName,
		LoanDate:          c.LoanDate.Format(dateLayout),
		PrincipalAmount:   c.PrincipalAmount,
		InterestRate:      c.InterestRate,
		TotalWithInterest: c.TotalWithInterest(),
		CurrentBalance:    c.CurrentBalance,
		MonthlyInterest:   c.MonthlyInterest(),
		PaymentDay:        c.PaymentDay,
		LateFeePct:        c.LateFeePct,
		DailyPenaltyPct:   c.DailyPenaltyPct,
		Status:            string(c.Status),
		Notes:             c.Notes,
		Version:           c.Version,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

type overdueFeesDTO struct {
	ContractID      uuid.UUID       `json:"contract_id"`
	Status          string          `json:"status"`
	DueDate         string          `json:"due_date"`
	DaysOverdue     int             `json:"days_overdue"`
	AmountDue       decimal.Decimal `json:"amount_due"`
	LateFee         decimal.Decimal `json:"late_fee"`
	PenaltyInterest decimal.Decimal `json:"penalty_interest"`
	TotalFees       decimal.Decimal `json:"total_fees"`
}

type mismatchDTO struct {
	PaymentID uuid.UUID       `json:"payment_id"`
	Field     string          `json:"field"`
	Recorded  decimal.Decimal `json:"recorded"`
	Expected  decimal.Decimal `json:"expected"`
}

type auditDTO struct {
	ContractID      uuid.UUID       `json:"contract_id"`
	Consistent      bool            `json:"consistent"`
	Payments        int             `json:"payments"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Mismatches      []mismatchDTO   `json:"mismatches"`
}

func (h *ContractHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	loanDate, _ := time.Parse(dateLayout, req.LoanDate)
	in := service.CreateContractRequest{
		UserID:          userID,
		ClientID:        uuid.MustParse(req.ClientID),
		PrincipalAmount: *req.PrincipalAmount,
		InterestRate:    *req.InterestRate,
		LoanDate:        loanDate,
		PaymentDay:      req.PaymentDay,
		Notes:           req.Notes,
	}
	if req.LateFeePct != nil {
		in.LateFeePct = *req.LateFeePct
	}
	if req.DailyPenaltyPct != nil {
		in.DailyPenaltyPct = *req.DailyPenaltyPct
	}

	c, err := h.contracts.CreateContract(r.Context(), in)
	if err != nil {
		logging.FromContext(r.Context()).Warn("contract creation failed", "error", err)
		RespondDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/contracts/"+c.ID.String())
	RespondSuccess(w, http.StatusCreated, toContractDTO(c))
}

func (h *ContractHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var fields []FieldError
	f := domain.ContractFilter{}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.ContractStatus(s)
		if !status.IsValid() {
			fields = append(fields, FieldError{Field: "status", Message: "must be active, overdue, paid, or refinanced"})
		}
		f.Status = &status
	}
	if s := r.URL.Query().Get("client_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			fields = append(fields, FieldError{Field: "client_id", Message: "must be a valid UUID"})
		}
		f.ClientID = &id
	}
	f.Limit, f.Offset, fields = pageParams(r, fields)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	contracts, total, err := h.contracts.ListContracts(r.Context(), userID, f)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]contractDTO, len(contracts))
	for i := range contracts {
		items[i] = toContractDTO(&contracts[i])
	}
	RespondSuccess(w, http.StatusOK, listResponse[contractDTO]{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (h *ContractHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	c, err := h.contracts.GetContract(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toContractDTO(c))
}

func (h *ContractHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	var req updateContractRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	c, err := h.contracts.UpdateContract(r.Context(), userID, id, service.UpdateContractRequest{
		Notes:           req.Notes,
		PaymentDay:      req.PaymentDay,
		LateFeePct:      req.LateFeePct,
		DailyPenaltyPct: req.DailyPenaltyPct,
	})
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toContractDTO(c))
}

func (h *ContractHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	var req updateStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status := domain.ContractStatus(req.Status)
	if !status.IsValid() {
		RespondValidationError(w, []FieldError{{Field: "status", Message: "must be active, overdue, paid, or refinanced"}})
		return
	}

	c, err := h.contracts.UpdateStatus(r.Context(), userID, id, status)
	if err != nil {
		logging.FromContext(r.Context()).Warn("contract status change rejected", "contract_id", id, "status", status, "error", err)
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toContractDTO(c))
}

func (h *ContractHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	if err := h.contracts.DeleteContract(r.Context(), userID, id); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ContractHandler) Payments(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	payments, err := h.history.ListContractPayments(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]paymentDTO, len(payments))
	for i := range payments {
		items[i] = toPaymentDTO(&payments[i])
	}
	RespondSuccess(w, http.StatusOK, items)
}

func (h *ContractHandler) Audit(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	report, err := h.history.AuditContract(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	mismatches := make([]mismatchDTO, len(report.Mismatches))
	for i, m := range report.Mismatches {
		mismatches[i] = mismatchDTO{PaymentID: m.PaymentID, Field: m.Field, Recorded: m.Recorded, Expected: m.Expected}
	}
	RespondSuccess(w, http.StatusOK, auditDTO{
		ContractID:      report.ContractID,
		Consistent:      report.Consistent(),
		Payments:        report.Payments,
		StoredBalance:   report.StoredBalance,
		ReplayedBalance: report.ReplayedBalance,
		Mismatches:      mismatches,
	})
}

func (h *ContractHandler) OverdueFees(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrContractNotFound)
	if !ok {
		return
	}

	res, err := h.contracts.OverdueFees(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, overdueFeesDTO{
		ContractID:      res.ContractID,
		Status:          string(res.Status),
		DueDate:         res.DueDate.Format(dateLayout),
		DaysOverdue:     res.DaysOverdue,
		AmountDue:       res.AmountDue,
		LateFee:         res.Fees.LateFee,
		PenaltyInterest: res.Fees.PenaltyInterest,
		TotalFees:       res.Fees.Total,
	})
}
