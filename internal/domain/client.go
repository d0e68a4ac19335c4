package domain

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	CPF       *string
	RG        *string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	ZipCode   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ClientFilter struct {
	Query  string
	Limit  int
	Offset int
}
