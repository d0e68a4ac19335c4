package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
)

const contractEventColumns = `id, contract_id, event_type, actor, payload, created_at`

type ContractEventRepository struct {
	db *sql.DB
}

func NewContractEventRepository(db *sql.DB) *ContractEventRepository {
	return &ContractEventRepository{db: db}
}

func (r *ContractEventRepository) Create(ctx context.Context, tx *sql.Tx, event *domain.ContractEvent) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO contract_events (id, contract_id, event_type, actor, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.ContractID, event.EventType, event.Actor,
		nullableJSON(event.Payload), event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (r *ContractEventRepository) GetByContractID(ctx context.Context, contractID uuid.UUID) ([]domain.ContractEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contractEventColumns+` FROM contract_events
		WHERE contract_id = $1 ORDER BY created_at, id`, contractID,
	)
	if err != nil {
		return nil, fmt.Errorf("GetByContractID: %w", err)
	}
	defer rows.Close()

	var events []domain.ContractEvent
	for rows.Next() {
		e, err := scanContractEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetByContractID: scan: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetByContractID: rows: %w", err)
	}
	return events, nil
}

func nullableJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func scanContractEvent(s scanner) (*domain.ContractEvent, error) {
	var e domain.ContractEvent
	var payload []byte
	err := s.Scan(&e.ID, &e.ContractID, &e.EventType, &e.Actor, &payload, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	e.Payload = payload
	return &e, nil
}
