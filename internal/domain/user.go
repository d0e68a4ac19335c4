package domain

import (
	"time"

	"github.com/google/uuid"
)

type UserPlan string

const (
	UserPlanBasic      UserPlan = "basic"
	UserPlanPremium    UserPlan = "premium"
	UserPlanEnterprise UserPlan = "enterprise"
)

func (p UserPlan) IsValid() bool {
	switch p {
	case UserPlanBasic, UserPlanPremium, UserPlanEnterprise:
		return true
	}
	return false
}

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Company      *string
	Plan         UserPlan
	CreatedAt    time.Time
}
