package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

type userDTO struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Company   *string   `json:"company"`
	Plan      string    `json:"plan"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Company:   u.Company,
		Plan:      string(u.Plan),
		CreatedAt: u.CreatedAt,
	}
}
