package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrInvalidPaymentAmount    = &AppError{http.StatusBadRequest, "INVALID_PAYMENT_AMOUNT", "Payment amount must be greater than zero"}
	ErrContractNotFound        = &AppError{http.StatusNotFound, "CONTRACT_NOT_FOUND", "Contract not found"}
	ErrInvalidContractState    = &AppError{http.StatusInternalServerError, "INVALID_CONTRACT_STATE", "Contract balance or interest rate is invalid"}
	ErrContractPaid            = &AppError{http.StatusUnprocessableEntity, "CONTRACT_ALREADY_PAID", "Contract is already paid"}
	ErrContractHasPayments     = &AppError{http.StatusConflict, "CONTRACT_HAS_PAYMENTS", "Contract has recorded payments"}
	ErrInvalidStatusTransition = &AppError{http.StatusUnprocessableEntity, "INVALID_STATUS_TRANSITION", "Contract status transition is not allowed"}
	ErrInvalidContractTerms    = &AppError{http.StatusBadRequest, "INVALID_CONTRACT_TERMS", "Contract terms are invalid"}
	ErrClientNotFound          = &AppError{http.StatusNotFound, "CLIENT_NOT_FOUND", "Client not found"}
	ErrClientHasContracts      = &AppError{http.StatusConflict, "CLIENT_HAS_CONTRACTS", "Client has contracts"}
	ErrEmailTaken              = &AppError{http.StatusConflict, "EMAIL_TAKEN", "Email already registered"}
	ErrUnsupportedFormat       = &AppError{http.StatusBadRequest, "UNSUPPORTED_FORMAT", "File must be XLSX or CSV"}
	ErrEmptyImport             = &AppError{http.StatusBadRequest, "EMPTY_IMPORT", "File has no data rows"}
	ErrFileTooLarge            = &AppError{http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File is too large"}

	ErrVersionConflict       = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrMissingIdempotencyKey = &AppError{http.StatusBadRequest, "MISSING_IDEMPOTENCY_KEY", "Idempotency-Key header is required"}
	ErrIdempotencyConflict   = &AppError{http.StatusConflict, "IDEMPOTENCY_CONFLICT", "Idempotency key already used with a different request"}
	ErrIdempotencyInProgress = &AppError{http.StatusConflict, "IDEMPOTENCY_IN_PROGRESS", "A request with this Idempotency-Key is still being processed"}
)
