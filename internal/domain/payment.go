package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodPix      PaymentMethod = "pix"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodBoleto   PaymentMethod = "boleto"
	PaymentMethodOther    PaymentMethod = "other"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodPix, PaymentMethodTransfer, PaymentMethodCash,
		PaymentMethodCard, PaymentMethodBoleto, PaymentMethodOther:
		return true
	}
	return false
}

// Payment is the immutable receipt of one allocation against a contract.
type Payment struct {
	ID                  uuid.UUID
	ContractID          uuid.UUID
	ReceiptNumber       string
	Amount              decimal.Decimal
	PaymentDate         time.Time
	PaymentMethod       PaymentMethod
	Description         *string
	InterestPortion     decimal.Decimal
	PrincipalPortion    decimal.Decimal
	BalanceBefore       decimal.Decimal
	BalanceAfterPayment decimal.Decimal
	RecordedBy          uuid.UUID
	CreatedAt           time.Time

	// Populated by list queries.
	ContractNumber string
	ClientName     string
}

type PaymentFilter struct {
	ContractID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
