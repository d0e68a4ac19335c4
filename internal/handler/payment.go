package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/service/payment"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type paymentService interface {
	RecordPayment(ctx context.Context, req payment.RecordPaymentRequest) (*payment.RecordPaymentResult, error)
	GetPayment(ctx context.Context, userID, id uuid.UUID) (*domain.Payment, error)
	ListPayments(ctx context.Context, userID uuid.UUID, f domain.PaymentFilter) ([]domain.Payment, int, error)
	ExportPayments(ctx context.Context, userID uuid.UUID, w io.Writer) error
}

type PaymentHandler struct {
	payments paymentService
}

func NewPaymentHandler(payments paymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

type createPaymentRequest struct {
	ContractID    string         `json:"contract_id"`
	PaymentDate   string         `json:"payment_date"`
	PaymentAmount *paymentAmount `json:"payment_amount"`
	PaymentMethod string         `json:"payment_method"`
	Description   *string        `json:"description"`
}

// paymentAmount accepts a JSON number or string. A value that is not a decimal
// is flagged instead of failing the whole body, so it reports as
// INVALID_PAYMENT_AMOUNT rather than a malformed request.
type paymentAmount struct {
	value   decimal.Decimal
	invalid bool
}

func (a *paymentAmount) UnmarshalJSON(b []byte) error {
	if err := a.value.UnmarshalJSON(b); err != nil {
		a.invalid = true
	}
	return nil
}

// Validate checks shape only. The amount's sign is judged by the allocator so
// that a non-positive amount maps to INVALID_PAYMENT_AMOUNT.
func (r createPaymentRequest) Validate() []FieldError {
	var errs []FieldError
	if _, err := uuid.Parse(r.ContractID); err != nil {
		errs = append(errs, FieldError{Field: "contract_id", Message: "must be a valid UUID"})
	}
	if r.PaymentAmount == nil {
		errs = append(errs, FieldError{Field: "payment_amount", Message: "required"})
	}
	if r.PaymentDate != "" {
		if _, err := time.Parse(dateLayout, r.PaymentDate); err != nil {
			errs = append(errs, FieldError{Field: "payment_date", Message: "must be a date in YYYY-MM-DD format"})
		}
	}
	if r.PaymentMethod != "" && !domain.PaymentMethod(r.PaymentMethod).IsValid() {
		errs = append(errs, FieldError{Field: "payment_method", Message: "must be pix, transfer, cash, card, boleto, or other"})
	}
	return errs
}

type paymentDTO struct {
	ID                  uuid.UUID       `json:"id"`
	ContractID          uuid.UUID       `json:"contract_id"`
	ContractNumber      string          `json:"contract_number,omitempty"`
	ClientName          string          `json:"client_name,omitempty"`
	ReceiptNumber       string          `json:"receipt_number"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentDate         string          `json:"payment_date"`
	PaymentMethod       string          `json:"payment_method"`
	Description         *string         `json:"description"`
	InterestPortion     decimal.Decimal `json:"interest_portion"`
	PrincipalPortion    decimal.Decimal `json:"principal_portion"`
	BalanceAfterPayment decimal.Decimal `json:"balance_after_payment"`
	RecordedBy          uuid.UUID       `json:"recorded_by"`
	CreatedAt           time.Time       `json:"created_at"`
}

func toPaymentDTO(p *domain.Payment) paymentDTO {
	return paymentDTO{
		ID:                  p.ID,
		ContractID:          p.ContractID,
		ContractNumber:      p.ContractNumber,
		ClientName:          p.ClientName,
		ReceiptNumber:       p.ReceiptNumber,
		Amount:              p.Amount,
		PaymentDate:         p.PaymentDate.Format(dateLayout),
		PaymentMethod:       string(p.PaymentMethod),
		Description:         p.Description,
		InterestPortion:     p.InterestPortion,
		PrincipalPortion:    p.PrincipalPortion,
		BalanceAfterPayment: p.BalanceAfterPayment,
		RecordedBy:          p.RecordedBy,
		CreatedAt:           p.CreatedAt,
	}
}

type recordPaymentResponse struct {
	Payment         paymentDTO      `json:"payment"`
	PreviousBalance decimal.Decimal `json:"previous_balance"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	Status          string          `json:"status"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req createPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}
	if req.PaymentAmount.invalid {
		RespondAppError(w, ErrInvalidPaymentAmount, nil)
		return
	}

	in := payment.RecordPaymentRequest{
		UserID:      userID,
		ContractID:  uuid.MustParse(req.ContractID),
		Amount:      req.PaymentAmount.value,
		Method:      domain.PaymentMethod(req.PaymentMethod),
		Description: req.Description,
	}
	if req.PaymentDate != "" {
		in.PaymentDate, _ = time.Parse(dateLayout, req.PaymentDate)
	}

	res, err := h.payments.RecordPayment(r.Context(), in)
	if err != nil {
		log.Warn("payment recording failed", "contract_id", in.ContractID, "error", err)
		RespondDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/payments/"+res.Payment.ID.String())
	RespondSuccess(w, http.StatusCreated, recordPaymentResponse{
		Payment:         toPaymentDTO(res.Payment),
		PreviousBalance: res.PreviousBalance,
		NewBalance:      res.NewBalance,
		Status:          string(res.Status),
	})
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var fields []FieldError
	f := domain.PaymentFilter{}
	if s := r.URL.Query().Get("contract_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			fields = append(fields, FieldError{Field: "contract_id", Message: "must be a valid UUID"})
		}
		f.ContractID = &id
	}
	if f.From, ok = queryDate(r, "start_date"); !ok {
		fields = append(fields, FieldError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	if f.To, ok = queryDate(r, "end_date"); !ok {
		fields = append(fields, FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
	}
	f.Limit, f.Offset, fields = pageParams(r, fields)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	payments, total, err := h.payments.ListPayments(r.Context(), userID, f)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]paymentDTO, len(payments))
	for i := range payments {
		items[i] = toPaymentDTO(&payments[i])
	}
	RespondSuccess(w, http.StatusOK, listResponse[paymentDTO]{Items: items, Total: total, Limit: f.Limit, Offset: f.Offset})
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrResourceNotFound)
	if !ok {
		return
	}

	p, err := h.payments.GetPayment(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toPaymentDTO(p))
}

// Export streams every receipt of the caller as an XLSX workbook.
func (h *PaymentHandler) Export(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="recebimentos.xlsx"`)
	rec := &headerGuard{ResponseWriter: w}
	if err := h.payments.ExportPayments(r.Context(), userID, rec); err != nil {
		if rec.wrote {
			logging.FromContext(r.Context()).Error("payment export interrupted", "error", err)
			return
		}
		w.Header().Del("Content-Disposition")
		RespondDomainError(w, r, err)
	}
}

// headerGuard records whether any body bytes went out, after which an error
// response can no longer be sent.
type headerGuard struct {
	http.ResponseWriter
	wrote bool
}

func (g *headerGuard) Write(b []byte) (int, error) {
	g.wrote = true
	return g.ResponseWriter.Write(b)
}
