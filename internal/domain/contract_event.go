package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ContractEventType string

const (
	ContractEventOriginated      ContractEventType = "originated"
	ContractEventImported        ContractEventType = "imported"
	ContractEventPaymentRecorded ContractEventType = "payment_recorded"
	ContractEventPaid            ContractEventType = "paid"
	ContractEventStatusChanged   ContractEventType = "status_changed"
)

const ActorSystem = "system"

type ContractEvent struct {
	ID         uuid.UUID
	ContractID uuid.UUID
	EventType  ContractEventType
	Actor      string
	Payload    json.RawMessage
	CreatedAt  time.Time
}

func UserActor(id uuid.UUID) string {
	return "user:" + id.String()
}
