package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

const paymentColumns = `p.id, p.contract_id, p.receipt_number, p.amount, p.payment_date,
	p.payment_method, p.description, p.interest_portion, p.principal_portion,
	p.balance_before, p.balance_after_payment, p.recorded_by, p.created_at,
	c.contract_number, cl.name`

const paymentFrom = ` FROM payments p
	JOIN contracts c ON c.id = p.contract_id
	JOIN clients cl ON cl.id = c.client_id`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// NextReceiptNumber draws from a database sequence so numbers stay unique
// across concurrent writers.
func (r *PaymentRepository) NextReceiptNumber(ctx context.Context, tx *sql.Tx, at time.Time) (string, error) {
	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT nextval('receipt_number_seq')`).Scan(&seq); err != nil {
		return "", fmt.Errorf("NextReceiptNumber: %w", err)
	}
	return fmt.Sprintf("REC-%d-%06d", at.Year(), seq), nil
}

func (r *PaymentRepository) Create(ctx context.Context, tx *sql.Tx, p *domain.Payment) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO payments (
			id, contract_id, receipt_number, amount, payment_date, payment_method,
			description, interest_portion, principal_portion, balance_before,
			balance_after_payment, recorded_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.ContractID, p.ReceiptNumber, p.Amount, p.PaymentDate, p.PaymentMethod,
		p.Description, p.InterestPortion, p.PrincipalPortion, p.BalanceBefore,
		p.BalanceAfterPayment, p.RecordedBy, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Payment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+paymentFrom+` WHERE p.id = $1 AND c.user_id = $2`, id, userID,
	)
	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return p, nil
}

func (r *PaymentRepository) List(ctx context.Context, userID uuid.UUID, f domain.PaymentFilter) ([]domain.Payment, int, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)

	const where = ` WHERE c.user_id = $1
		AND ($2::uuid IS NULL OR p.contract_id = $2)
		AND ($3::date IS NULL OR p.payment_date >= $3)
		AND ($4::date IS NULL OR p.payment_date <= $4)`

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)`+paymentFrom+where, userID, f.ContractID, f.From, f.To,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+paymentFrom+where+`
		ORDER BY p.payment_date DESC, p.created_at DESC LIMIT $5 OFFSET $6`,
		userID, f.ContractID, f.From, f.To, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	return payments, total, nil
}

// ListByContract returns the full payment history in recording order.
func (r *PaymentRepository) ListByContract(ctx context.Context, contractID uuid.UUID) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+paymentFrom+`
		WHERE p.contract_id = $1 ORDER BY p.created_at, p.id`, contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListByContract: %w", err)
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, fmt.Errorf("ListByContract: %w", err)
	}
	return payments, nil
}

// ListAll returns every payment of the user, newest first, for export.
func (r *PaymentRepository) ListAll(ctx context.Context, userID uuid.UUID) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+paymentFrom+`
		WHERE c.user_id = $1 ORDER BY p.payment_date DESC, p.created_at DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	defer rows.Close()

	payments, err := collectPayments(rows)
	if err != nil {
		return nil, fmt.Errorf("ListAll: %w", err)
	}
	return payments, nil
}

func collectPayments(rows *sql.Rows) ([]domain.Payment, error) {
	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		payments = append(payments, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return payments, nil
}

func scanPayment(s scanner) (*domain.Payment, error) {
	var p domain.Payment
	err := s.Scan(
		&p.ID, &p.ContractID, &p.ReceiptNumber, &p.Amount, &p.PaymentDate,
		&p.PaymentMethod, &p.Description, &p.InterestPortion, &p.PrincipalPortion,
		&p.BalanceBefore, &p.BalanceAfterPayment, &p.RecordedBy, &p.CreatedAt,
		&p.ContractNumber, &p.ClientName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
