package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type listResponse[T any] struct {
	Items  []T `json:"items"`
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

var domainErrors = []struct {
	err    error
	appErr *AppError
}{
	{domain.ErrInvalidPaymentAmount, ErrInvalidPaymentAmount},
	{domain.ErrContractNotFound, ErrContractNotFound},
	{domain.ErrInvalidContractState, ErrInvalidContractState},
	{domain.ErrContractPaid, ErrContractPaid},
	{domain.ErrContractHasPayments, ErrContractHasPayments},
	{domain.ErrInvalidStatusTransition, ErrInvalidStatusTransition},
	{domain.ErrInvalidContractTerms, ErrInvalidContractTerms},
	{domain.ErrClientNotFound, ErrClientNotFound},
	{domain.ErrClientHasContracts, ErrClientHasContracts},
	{domain.ErrEmailTaken, ErrEmailTaken},
	{domain.ErrInvalidCredentials, ErrInvalidCredentials},
	{domain.ErrUnsupportedFormat, ErrUnsupportedFormat},
	{domain.ErrEmptyImport, ErrEmptyImport},
	{domain.ErrVersionConflict, ErrVersionConflict},
	{domain.ErrNotFound, ErrResourceNotFound},
	{domain.ErrInvalidRequest, ErrInvalidRequest},
}

// mapDomainError picks the response for err; unknown errors become 500.
func mapDomainError(err error) *AppError {
	for _, m := range domainErrors {
		if errors.Is(err, m.err) {
			return m.appErr
		}
	}
	return ErrInternalError
}

// RespondDomainError writes the mapped error response. Client errors carrying
// a validation reason echo it in details; server errors are logged.
func RespondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := mapDomainError(err)
	if appErr.Status >= http.StatusInternalServerError {
		logging.FromContext(r.Context()).Error("request failed", "error", err)
	}

	var details any
	if errors.Is(err, domain.ErrInvalidRequest) || errors.Is(err, domain.ErrInvalidContractTerms) {
		details = err.Error()
	}
	RespondAppError(w, appErr, details)
}
