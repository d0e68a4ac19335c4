package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

func SeedUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Plan:         domain.UserPlanBasic,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, plan, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Plan, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

func SeedClient(t *testing.T, db *sql.DB, userID uuid.UUID, name string) *domain.Client {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Client{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := db.Exec(
		`INSERT INTO clients (id, user_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.UserID, c.Name, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed client %s: %v", name, err)
	}
	return c
}

// SeedContract inserts an active contract whose balance equals its principal.
// Amounts are decimal strings.
func SeedContract(t *testing.T, db *sql.DB, userID, clientID uuid.UUID, principal, rate string, paymentDay int) *domain.Contract {
	t.Helper()

	now := time.Now().UTC()
	c := &domain.Contract{
		ID:              uuid.New(),
		UserID:          userID,
		ClientID:        clientID,
		ContractNumber:  fmt.Sprintf("CONT-TEST-%s", uuid.NewString()[:8]),
		LoanDate:        now.AddDate(0, -2, 0).Truncate(24 * time.Hour),
		PrincipalAmount: decimal.RequireFromString(principal),
		InterestRate:    decimal.RequireFromString(rate),
		CurrentBalance:  decimal.RequireFromString(principal),
		PaymentDay:      paymentDay,
		LateFeePct:      decimal.Zero,
		DailyPenaltyPct: decimal.Zero,
		Status:          domain.ContractStatusActive,
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := db.Exec(
		`INSERT INTO contracts (
			id, user_id, client_id, contract_number, loan_date, principal_amount,
			interest_rate, current_balance, payment_day, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		c.ID, c.UserID, c.ClientID, c.ContractNumber, c.LoanDate, c.PrincipalAmount,
		c.InterestRate, c.CurrentBalance, c.PaymentDay, c.Status, c.Version, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("seed contract for client %s: %v", clientID, err)
	}
	return c
}

func SetContractStatus(t *testing.T, db *sql.DB, contractID uuid.UUID, status domain.ContractStatus) {
	t.Helper()

	_, err := db.Exec(`UPDATE contracts SET status = $1 WHERE id = $2`, status, contractID)
	if err != nil {
		t.Fatalf("set contract %s status: %v", contractID, err)
	}
}

func GetContractBalance(t *testing.T, db *sql.DB, contractID uuid.UUID) (decimal.Decimal, domain.ContractStatus) {
	t.Helper()

	var (
		balance decimal.Decimal
		status  domain.ContractStatus
	)
	err := db.QueryRow(
		`SELECT current_balance, status FROM contracts WHERE id = $1`, contractID,
	).Scan(&balance, &status)
	if err != nil {
		t.Fatalf("get contract %s: %v", contractID, err)
	}
	return balance, status
}

func CountPayments(t *testing.T, db *sql.DB, contractID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM payments WHERE contract_id = $1`, contractID).Scan(&count)
	if err != nil {
		t.Fatalf("count payments for contract %s: %v", contractID, err)
	}
	return count
}

func CountEvents(t *testing.T, db *sql.DB, contractID uuid.UUID, eventType domain.ContractEventType) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM contract_events WHERE contract_id = $1 AND event_type = $2`,
		contractID, eventType,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count %s events for contract %s: %v", eventType, contractID, err)
	}
	return count
}
