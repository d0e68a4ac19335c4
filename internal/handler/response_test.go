package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrInvalidPaymentAmount, http.StatusBadRequest, "INVALID_PAYMENT_AMOUNT"},
		{domain.ErrContractNotFound, http.StatusNotFound, "CONTRACT_NOT_FOUND"},
		{domain.ErrInvalidContractState, http.StatusInternalServerError, "INVALID_CONTRACT_STATE"},
		{domain.ErrContractPaid, http.StatusUnprocessableEntity, "CONTRACT_ALREADY_PAID"},
		{domain.ErrVersionConflict, http.StatusConflict, "VERSION_CONFLICT"},
		{domain.ErrClientNotFound, http.StatusNotFound, "CLIENT_NOT_FOUND"},
		{domain.ErrClientHasContracts, http.StatusConflict, "CLIENT_HAS_CONTRACTS"},
		{domain.ErrContractHasPayments, http.StatusConflict, "CONTRACT_HAS_PAYMENTS"},
		{domain.ErrInvalidStatusTransition, http.StatusUnprocessableEntity, "INVALID_STATUS_TRANSITION"},
		{domain.ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.ErrInvalidContractTerms, http.StatusBadRequest, "INVALID_CONTRACT_TERMS"},
		{domain.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{domain.ErrEmptyImport, http.StatusBadRequest, "EMPTY_IMPORT"},
		{domain.ErrInvalidRequest, http.StatusBadRequest, "INVALID_REQUEST"},
		{domain.ErrNotFound, http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{errors.New("connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tc := range tests {
		t.Run(tc.wantCode, func(t *testing.T) {
			wrapped := fmt.Errorf("RecordPayment: executePayment: %w", tc.err)
			appErr := mapDomainError(wrapped)
			assert.Equal(t, tc.wantStatus, appErr.Status)
			assert.Equal(t, tc.wantCode, appErr.Code)
		})
	}
}

func TestRespondDomainError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondDomainError(rec, req, fmt.Errorf("ListPayments: end date before start date: %w", domain.ErrInvalidRequest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp, _ := decodeEnvelope(t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_REQUEST", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "end date before start date")
}

func TestRespondDomainError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	RespondDomainError(rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}
