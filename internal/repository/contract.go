package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

const contractColumns = `c.id, c.user_id, c.client_id, cl.name, c.contract_number, c.loan_date,
	c.principal_amount, c.interest_rate, c.current_balance, c.payment_day,
	c.late_fee_pct, c.daily_penalty_pct, c.status, c.notes, c.version,
	c.created_at, c.updated_at`

const contractFrom = ` FROM contracts c JOIN clients cl ON cl.id = c.client_id`

type ContractRepository struct {
	db *sql.DB
}

func NewContractRepository(db *sql.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) Create(ctx context.Context, tx *sql.Tx, c *domain.Contract) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contracts (
			id, user_id, client_id, contract_number, loan_date,
			principal_amount, interest_rate, current_balance, payment_day,
			late_fee_pct, daily_penalty_pct, status, notes, version,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		c.ID, c.UserID, c.ClientID, c.ContractNumber, c.LoanDate,
		c.PrincipalAmount, c.InterestRate, c.CurrentBalance, c.PaymentDay,
		c.LateFeePct, c.DailyPenaltyPct, c.Status, c.Notes, c.Version,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "contracts_contract_number_key") {
			return fmt.Errorf("Create: contract number %s: %w", c.ContractNumber, domain.ErrInvalidContractTerms)
		}
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ContractRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Contract, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+contractFrom+` WHERE c.id = $1 AND c.user_id = $2`, id, userID,
	)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrContractNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) GetByNumber(ctx context.Context, userID uuid.UUID, number string) (*domain.Contract, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+contractColumns+contractFrom+` WHERE c.contract_number = $1 AND c.user_id = $2`, number, userID,
	)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByNumber: %w", domain.ErrContractNotFound)
		}
		return nil, fmt.Errorf("GetByNumber: %w", err)
	}
	return c, nil
}

// ListOpenByClient returns the client's active and overdue contracts.
func (r *ContractRepository) ListOpenByClient(ctx context.Context, userID, clientID uuid.UUID) ([]domain.OpenContract, error) {
	out, err := r.listOpen(ctx, `AND c.user_id = $1 AND c.client_id = $2`, userID, clientID)
	if err != nil {
		return nil, fmt.Errorf("ListOpenByClient: %w", err)
	}
	return out, nil
}

// GetForUpdate locks the contract row until tx ends, serialising every writer
// of the same contract.
func (r *ContractRepository) GetForUpdate(ctx context.Context, tx *sql.Tx, userID, id uuid.UUID) (*domain.Contract, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+contractColumns+contractFrom+`
		WHERE c.id = $1 AND c.user_id = $2 FOR UPDATE OF c`, id, userID,
	)
	c, err := scanContract(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetForUpdate: %w", domain.ErrContractNotFound)
		}
		return nil, fmt.Errorf("GetForUpdate: %w", err)
	}
	return c, nil
}

func (r *ContractRepository) List(ctx context.Context, userID uuid.UUID, f domain.ContractFilter) ([]domain.Contract, int, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)

	var status *string
	if f.Status != nil {
		s := string(*f.Status)
		status = &s
	}

	const where = ` WHERE c.user_id = $1
		AND ($2::text IS NULL OR c.status = $2)
		AND ($3::uuid IS NULL OR c.client_id = $3)`

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)`+contractFrom+where, userID, status, f.ClientID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractColumns+contractFrom+where+`
		ORDER BY c.created_at DESC LIMIT $4 OFFSET $5`,
		userID, status, f.ClientID, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var contracts []domain.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		contracts = append(contracts, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return contracts, total, nil
}

// ListOpen returns the user's active and overdue contracts.
func (r *ContractRepository) ListOpen(ctx context.Context, userID uuid.UUID) ([]domain.OpenContract, error) {
	out, err := r.listOpen(ctx, `AND c.user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("ListOpen: %w", err)
	}
	return out, nil
}

// ListAllOpen returns active and overdue contracts across all lenders.
func (r *ContractRepository) ListAllOpen(ctx context.Context) ([]domain.OpenContract, error) {
	out, err := r.listOpen(ctx, ``)
	if err != nil {
		return nil, fmt.Errorf("ListAllOpen: %w", err)
	}
	return out, nil
}

func (r *ContractRepository) listOpen(ctx context.Context, cond string, args ...any) ([]domain.OpenContract, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractColumns+`,
			(SELECT max(p.payment_date) FROM payments p WHERE p.contract_id = c.id)`+
			contractFrom+`
		WHERE c.status IN ('active', 'overdue') `+cond+`
		ORDER BY c.payment_day, c.created_at`,
		args...,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OpenContract
	for rows.Next() {
		var oc domain.OpenContract
		var last sql.NullTime
		if err := rows.Scan(append(contractDest(&oc.Contract), &last)...); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		if last.Valid {
			t := last.Time
			oc.LastPaymentDate = &t
		}
		out = append(out, oc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

// UpdateTerms changes the mutable, non-financial terms of a contract.
func (r *ContractRepository) UpdateTerms(ctx context.Context, c *domain.Contract) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contracts SET
			notes = $1, payment_day = $2, late_fee_pct = $3, daily_penalty_pct = $4,
			version = version + 1, updated_at = $5
		WHERE id = $6 AND user_id = $7 AND version = $8`,
		c.Notes, c.PaymentDay, c.LateFeePct, c.DailyPenaltyPct, c.UpdatedAt,
		c.ID, c.UserID, c.Version,
	)
	if err != nil {
		return fmt.Errorf("UpdateTerms: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("UpdateTerms: %w", err)
	}
	c.Version++
	return nil
}

func (r *ContractRepository) UpdateBalance(ctx context.Context, tx *sql.Tx, id uuid.UUID, balance decimal.Decimal, status domain.ContractStatus, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE contracts SET current_balance = $1, status = $2, version = $3, updated_at = now()
		WHERE id = $4 AND version = $5`,
		balance, status, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("UpdateBalance: %w", err)
	}
	return nil
}

func (r *ContractRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, status domain.ContractStatus, newVersion int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE contracts SET status = $1, version = $2, updated_at = now()
		WHERE id = $3 AND version = $4`,
		status, newVersion, id, newVersion-1,
	)
	if err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	if err := expectOneRow(res); err != nil {
		return fmt.Errorf("UpdateStatus: %w", err)
	}
	return nil
}

// Delete refuses to remove a contract that has recorded payments.
func (r *ContractRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM contracts c
		WHERE c.id = $1 AND c.user_id = $2
		AND NOT EXISTS (SELECT 1 FROM payments WHERE contract_id = c.id)`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	if _, err := r.GetByID(ctx, userID, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return fmt.Errorf("Delete: %w", domain.ErrContractHasPayments)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func contractDest(c *domain.Contract) []any {
	return []any{
		&c.ID, &c.UserID, &c.ClientID, &c.ClientName, &c.ContractNumber, &c.LoanDate,
		&c.PrincipalAmount, &c.InterestRate, &c.CurrentBalance, &c.PaymentDay,
		&c.LateFeePct, &c.DailyPenaltyPct, &c.Status, &c.Notes, &c.Version,
		&c.CreatedAt, &c.UpdatedAt,
	}
}

func scanContract(s scanner) (*domain.Contract, error) {
	var c domain.Contract
	if err := s.Scan(contractDest(&c)...); err != nil {
		return nil, err
	}
	return &c, nil
}
