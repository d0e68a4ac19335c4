package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrVersionConflict = errors.New("optimistic lock conflict")

	ErrInvalidPaymentAmount    = errors.New("payment amount must be greater than zero")
	ErrInvalidContractState    = errors.New("contract balance and interest rate must not be negative")
	ErrContractNotFound        = errors.New("contract not found")
	ErrContractPaid            = errors.New("contract already paid")
	ErrContractHasPayments     = errors.New("contract has recorded payments")
	ErrInvalidStatusTransition = errors.New("invalid contract status transition")
	ErrInvalidContractTerms    = errors.New("invalid contract terms")

	ErrClientNotFound     = errors.New("client not found")
	ErrClientHasContracts = errors.New("client has contracts")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyImport        = errors.New("import file has no data rows")
)
