package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

// DashboardRepository runs the read-only aggregates behind the dashboard and
// the period reports.
type DashboardRepository struct {
	db *sql.DB
}

func NewDashboardRepository(db *sql.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// SumPayments totals payments dated in [from, to).
func (r *DashboardRepository) SumPayments(ctx context.Context, userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(p.amount), 0)
		FROM payments p JOIN contracts c ON c.id = p.contract_id
		WHERE c.user_id = $1 AND p.payment_date >= $2::date AND p.payment_date < $3::date`,
		userID, from, to,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumPayments: %w", err)
	}
	return total, nil
}

func (r *DashboardRepository) SumInterestReceived(ctx context.Context, userID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(p.interest_portion), 0)
		FROM payments p JOIN contracts c ON c.id = p.contract_id
		WHERE c.user_id = $1`,
		userID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("SumInterestReceived: %w", err)
	}
	return total, nil
}

func (r *DashboardRepository) ContractTotals(ctx context.Context, userID uuid.UUID) (domain.ContractTotals, error) {
	var t domain.ContractTotals
	err := r.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(principal_amount), 0),
			COALESCE(SUM(current_balance) FILTER (WHERE status = 'overdue'), 0),
			COALESCE(SUM(current_balance * interest_rate / 100) FILTER (WHERE status IN ('active', 'overdue')), 0),
			COUNT(*) FILTER (WHERE status IN ('active', 'overdue'))
		FROM contracts WHERE user_id = $1`,
		userID,
	).Scan(&t.TotalLent, &t.OverdueAmount, &t.ExpectedMonthly, &t.OpenContracts)
	if err != nil {
		return domain.ContractTotals{}, fmt.Errorf("ContractTotals: %w", err)
	}
	return t, nil
}

func (r *DashboardRepository) CountClients(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = $1`, userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("CountClients: %w", err)
	}
	return n, nil
}

// MonthlyPayments groups payments dated on or after since by calendar month.
func (r *DashboardRepository) MonthlyPayments(ctx context.Context, userID uuid.UUID, since time.Time) ([]domain.MonthlyTotal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT to_char(date_trunc('month', p.payment_date), 'YYYY-MM'),
			SUM(p.amount), SUM(p.interest_portion), COUNT(*)
		FROM payments p JOIN contracts c ON c.id = p.contract_id
		WHERE c.user_id = $1 AND p.payment_date >= $2::date
		GROUP BY 1 ORDER BY 1`,
		userID, since,
	)
	if err != nil {
		return nil, fmt.Errorf("MonthlyPayments: %w", err)
	}
	defer rows.Close()

	var out []domain.MonthlyTotal
	for rows.Next() {
		var m domain.MonthlyTotal
		if err := rows.Scan(&m.Month, &m.Total, &m.Interest, &m.Count); err != nil {
			return nil, fmt.Errorf("MonthlyPayments: scan: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("MonthlyPayments: rows: %w", err)
	}
	return out, nil
}

// ReportSummary covers contracts originated and payments dated in [from, to].
func (r *DashboardRepository) ReportSummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (domain.ReportSummary, error) {
	var s domain.ReportSummary
	err := r.db.QueryRowContext(ctx,
		`SELECT
			(SELECT COALESCE(SUM(principal_amount), 0) FROM contracts
				WHERE user_id = $1 AND loan_date BETWEEN $2::date AND $3::date),
			(SELECT COALESCE(SUM(p.amount), 0) FROM payments p JOIN contracts c ON c.id = p.contract_id
				WHERE c.user_id = $1 AND p.payment_date BETWEEN $2::date AND $3::date),
			(SELECT COALESCE(SUM(p.interest_portion), 0) FROM payments p JOIN contracts c ON c.id = p.contract_id
				WHERE c.user_id = $1 AND p.payment_date BETWEEN $2::date AND $3::date),
			(SELECT COUNT(*) FROM clients
				WHERE user_id = $1 AND created_at::date BETWEEN $2::date AND $3::date),
			(SELECT COUNT(*) FROM contracts
				WHERE user_id = $1 AND status IN ('active', 'overdue'))`,
		userID, from, to,
	).Scan(&s.TotalLent, &s.TotalReceived, &s.TotalInterest, &s.NewClients, &s.ActiveContracts)
	if err != nil {
		return domain.ReportSummary{}, fmt.Errorf("ReportSummary: %w", err)
	}
	return s, nil
}

func (r *DashboardRepository) TopClients(ctx context.Context, userID uuid.UUID, from, to time.Time, limit int) ([]domain.TopClient, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT cl.id, cl.name, SUM(c.principal_amount), COUNT(*)
		FROM contracts c JOIN clients cl ON cl.id = c.client_id
		WHERE c.user_id = $1 AND c.loan_date BETWEEN $2::date AND $3::date
		GROUP BY cl.id, cl.name
		ORDER BY SUM(c.principal_amount) DESC, cl.name
		LIMIT $4`,
		userID, from, to, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("TopClients: %w", err)
	}
	defer rows.Close()

	var out []domain.TopClient
	for rows.Next() {
		var tc domain.TopClient
		if err := rows.Scan(&tc.ClientID, &tc.Name, &tc.TotalBorrowed, &tc.Contracts); err != nil {
			return nil, fmt.Errorf("TopClients: scan: %w", err)
		}
		out = append(out, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("TopClients: rows: %w", err)
	}
	return out, nil
}

func (r *DashboardRepository) ContractsByStatus(ctx context.Context, userID uuid.UUID, from, to time.Time) (map[domain.ContractStatus]int, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM contracts
		WHERE user_id = $1 AND loan_date BETWEEN $2::date AND $3::date
		GROUP BY status`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("ContractsByStatus: %w", err)
	}
	defer rows.Close()

	out := make(map[domain.ContractStatus]int)
	for rows.Next() {
		var status domain.ContractStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("ContractsByStatus: scan: %w", err)
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ContractsByStatus: rows: %w", err)
	}
	return out, nil
}
