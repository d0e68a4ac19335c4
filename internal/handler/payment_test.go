package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/service/payment"
)

type fakePaymentService struct {
	got     payment.RecordPaymentRequest
	result  *payment.RecordPaymentResult
	err     error
	filter  domain.PaymentFilter
	listed  []domain.Payment
	exportW []byte
}

func (f *fakePaymentService) RecordPayment(_ context.Context, req payment.RecordPaymentRequest) (*payment.RecordPaymentResult, error) {
	f.got = req
	return f.result, f.err
}

func (f *fakePaymentService) GetPayment(_ context.Context, _, id uuid.UUID) (*domain.Payment, error) {
	for i := range f.listed {
		if f.listed[i].ID == id {
			return &f.listed[i], nil
		}
	}
	return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
}

func (f *fakePaymentService) ListPayments(_ context.Context, _ uuid.UUID, filter domain.PaymentFilter) ([]domain.Payment, int, error) {
	f.filter = filter
	return f.listed, len(f.listed), f.err
}

func (f *fakePaymentService) ExportPayments(_ context.Context, _ uuid.UUID, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := w.Write(f.exportW)
	return err
}

func recordedResult(contractID uuid.UUID) *payment.RecordPaymentResult {
	return &payment.RecordPaymentResult{
		Payment: &domain.Payment{
			ID:                  uuid.New(),
			ContractID:          contractID,
			ReceiptNumber:       "REC-2026-000042",
			Amount:              decimal.RequireFromString("300"),
			PaymentDate:         time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
			PaymentMethod:       domain.PaymentMethodPix,
			InterestPortion:     decimal.RequireFromString("100"),
			PrincipalPortion:    decimal.RequireFromString("200"),
			BalanceBefore:       decimal.RequireFromString("1000"),
			BalanceAfterPayment: decimal.RequireFromString("800"),
		},
		PreviousBalance: decimal.RequireFromString("1000"),
		NewBalance:      decimal.RequireFromString("800"),
		Status:          domain.ContractStatusActive,
	}
}

func postPayment(h *PaymentHandler, body string) *httptest.ResponseRecorder {
	req := authed(httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	h.Create(rec, req)
	return rec
}

func TestPaymentHandler_Create(t *testing.T) {
	contractID := uuid.New()

	t.Run("records payment", func(t *testing.T) {
		svc := &fakePaymentService{result: recordedResult(contractID)}
		h := NewPaymentHandler(svc)

		rec := postPayment(h, fmt.Sprintf(
			`{"contract_id":%q,"payment_date":"2026-03-05","payment_amount":300,"payment_method":"pix"}`, contractID))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, testUserID, svc.got.UserID)
		assert.Equal(t, contractID, svc.got.ContractID)
		assert.True(t, svc.got.Amount.Equal(decimal.RequireFromString("300")))
		assert.Equal(t, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), svc.got.PaymentDate)

		resp, data := decodeEnvelope(t, rec)
		assert.True(t, resp.Success)
		assert.Equal(t, "1000", data["previous_balance"])
		assert.Equal(t, "800", data["new_balance"])
		p := data["payment"].(map[string]any)
		assert.Equal(t, "100", p["interest_portion"])
		assert.Equal(t, "200", p["principal_portion"])
		assert.Equal(t, "800", p["balance_after_payment"])
		assert.Equal(t, "2026-03-05", p["payment_date"])
		assert.NotEmpty(t, rec.Header().Get("Location"))
	})

	t.Run("accepts amount as string", func(t *testing.T) {
		svc := &fakePaymentService{result: recordedResult(contractID)}
		rec := postPayment(NewPaymentHandler(svc), fmt.Sprintf(`{"contract_id":%q,"payment_amount":"150.75"}`, contractID))

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.True(t, svc.got.Amount.Equal(decimal.RequireFromString("150.75")))
		assert.True(t, svc.got.PaymentDate.IsZero())
	})

	for name, amount := range map[string]string{
		"word":    `"abc"`,
		"boolean": `true`,
		"object":  `{"value":10}`,
	} {
		t.Run("non-numeric amount "+name, func(t *testing.T) {
			svc := &fakePaymentService{}
			rec := postPayment(NewPaymentHandler(svc),
				fmt.Sprintf(`{"contract_id":%q,"payment_amount":%s}`, contractID, amount))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			resp, _ := decodeEnvelope(t, rec)
			assert.Equal(t, "INVALID_PAYMENT_AMOUNT", resp.Error.Code)
			assert.Equal(t, uuid.Nil, svc.got.ContractID, "service must not be called")
		})
	}

	errorCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"contract not found", domain.ErrContractNotFound, http.StatusNotFound, "CONTRACT_NOT_FOUND"},
		{"invalid amount", domain.ErrInvalidPaymentAmount, http.StatusBadRequest, "INVALID_PAYMENT_AMOUNT"},
		{"already paid", domain.ErrContractPaid, http.StatusUnprocessableEntity, "CONTRACT_ALREADY_PAID"},
		{"corrupt contract", domain.ErrInvalidContractState, http.StatusInternalServerError, "INVALID_CONTRACT_STATE"},
		{"persistence failure", errors.New("driver: bad connection"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakePaymentService{err: fmt.Errorf("RecordPayment: %w", tc.err)}
			rec := postPayment(NewPaymentHandler(svc), fmt.Sprintf(`{"contract_id":%q,"payment_amount":0}`, contractID))

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp, _ := decodeEnvelope(t, rec)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}

	validation := []struct {
		name string
		body string
	}{
		{"malformed json", `{"contract_id":`},
		{"bad contract id", `{"contract_id":"abc","payment_amount":10}`},
		{"missing amount", fmt.Sprintf(`{"contract_id":%q}`, contractID)},
		{"null amount", fmt.Sprintf(`{"contract_id":%q,"payment_amount":null}`, contractID)},
		{"bad date", fmt.Sprintf(`{"contract_id":%q,"payment_amount":10,"payment_date":"05/03/2026"}`, contractID)},
		{"unknown method", fmt.Sprintf(`{"contract_id":%q,"payment_amount":10,"payment_method":"cheque"}`, contractID)},
	}
	for _, tc := range validation {
		t.Run(tc.name, func(t *testing.T) {
			svc := &fakePaymentService{}
			rec := postPayment(NewPaymentHandler(svc), tc.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, uuid.Nil, svc.got.ContractID, "service must not be called")
		})
	}
}

func TestPaymentHandler_RequiresUser(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentService{})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	h.Create(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPaymentHandler_List(t *testing.T) {
	contractID := uuid.New()
	svc := &fakePaymentService{listed: []domain.Payment{*recordedResult(contractID).Payment}}
	h := NewPaymentHandler(svc)

	req := authed(httptest.NewRequest(http.MethodGet,
		"/api/v1/payments?contract_id="+contractID.String()+"&start_date=2026-03-01&end_date=2026-03-31&limit=10", nil))
	rec := httptest.NewRecorder()
	h.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.ContractID)
	assert.Equal(t, contractID, *svc.filter.ContractID)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *svc.filter.From)
	assert.Equal(t, 10, svc.filter.Limit)

	_, data := decodeEnvelope(t, rec)
	assert.EqualValues(t, 1, data["total"])
	assert.Len(t, data["items"], 1)
}

func TestPaymentHandler_ListRejectsBadQuery(t *testing.T) {
	h := NewPaymentHandler(&fakePaymentService{})
	req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/payments?start_date=yesterday&limit=0", nil))
	rec := httptest.NewRecorder()

	h.List(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
}

func TestPaymentHandler_Get(t *testing.T) {
	p := recordedResult(uuid.New()).Payment
	h := NewPaymentHandler(&fakePaymentService{listed: []domain.Payment{*p}})

	tests := []struct {
		name       string
		id         string
		wantStatus int
	}{
		{"found", p.ID.String(), http.StatusOK},
		{"unknown", uuid.NewString(), http.StatusNotFound},
		{"malformed", "not-a-uuid", http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := authed(httptest.NewRequest(http.MethodGet, "/api/v1/payments/"+tc.id, nil))
			req.SetPathValue("id", tc.id)
			rec := httptest.NewRecorder()

			h.Get(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
		})
	}
}

func TestPaymentHandler_Export(t *testing.T) {
	t.Run("streams workbook", func(t *testing.T) {
		h := NewPaymentHandler(&fakePaymentService{exportW: []byte("PK\x03\x04")})
		rec := httptest.NewRecorder()

		h.Export(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/payments/export", nil)))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Equal(t, "PK\x03\x04", rec.Body.String())
	})

	t.Run("failure before any bytes", func(t *testing.T) {
		h := NewPaymentHandler(&fakePaymentService{err: errors.New("timeout")})
		rec := httptest.NewRecorder()

		h.Export(rec, authed(httptest.NewRequest(http.MethodGet, "/api/v1/payments/export", nil)))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})
}
