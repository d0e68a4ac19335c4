package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

const clientColumns = `id, user_id, name, cpf, rg, email, phone, address, city, state,
	zip_code, notes, created_at, updated_at`

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (
			id, user_id, name, cpf, rg, email, phone, address, city, state,
			zip_code, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		c.ID, c.UserID, c.Name, c.CPF, c.RG, c.Email, c.Phone, c.Address, c.City, c.State,
		c.ZipCode, c.Notes, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1 AND user_id = $2`, id, userID,
	)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByID: %w", domain.ErrClientNotFound)
		}
		return nil, fmt.Errorf("GetByID: %w", err)
	}
	return c, nil
}

// GetByName matches case-insensitively and returns the oldest client with that name.
func (r *ClientRepository) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients
		WHERE user_id = $1 AND lower(name) = lower($2)
		ORDER BY created_at LIMIT 1`,
		userID, strings.TrimSpace(name),
	)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("GetByName: %w", domain.ErrClientNotFound)
		}
		return nil, fmt.Errorf("GetByName: %w", err)
	}
	return c, nil
}

func (r *ClientRepository) List(ctx context.Context, userID uuid.UUID, f domain.ClientFilter) ([]domain.Client, int, error) {
	limit, offset := pageBounds(f.Limit, f.Offset)
	pattern := "%" + strings.ToLower(strings.TrimSpace(f.Query)) + "%"

	var total int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clients WHERE user_id = $1 AND lower(name) LIKE $2`,
		userID, pattern,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("List: count: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients
		WHERE user_id = $1 AND lower(name) LIKE $2
		ORDER BY name LIMIT $3 OFFSET $4`,
		userID, pattern, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("List: %w", err)
	}
	defer rows.Close()

	var clients []domain.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("List: scan: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("List: rows: %w", err)
	}
	return clients, total, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *domain.Client) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET
			name = $1, cpf = $2, rg = $3, email = $4, phone = $5, address = $6,
			city = $7, state = $8, zip_code = $9, notes = $10, updated_at = $11
		WHERE id = $12 AND user_id = $13`,
		c.Name, c.CPF, c.RG, c.Email, c.Phone, c.Address,
		c.City, c.State, c.ZipCode, c.Notes, c.UpdatedAt,
		c.ID, c.UserID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Update: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Update: %w", domain.ErrClientNotFound)
	}
	return nil
}

// Delete refuses to remove a client that still has contracts.
func (r *ClientRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM clients c
		WHERE c.id = $1 AND c.user_id = $2
		AND NOT EXISTS (SELECT 1 FROM contracts WHERE client_id = c.id)`,
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
	return fmt.Errorf("Delete: %w", domain.ErrClientHasContracts)
}

func scanClient(s scanner) (*domain.Client, error) {
	var c domain.Client
	err := s.Scan(
		&c.ID, &c.UserID, &c.Name, &c.CPF, &c.RG, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.State, &c.ZipCode, &c.Notes,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
