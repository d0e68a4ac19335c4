package payment

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/importer"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

var errAmbiguousClient = errors.New("client has more than one open contract, contract id required")

// ImportReceipts records each parsed row as its own payment. A failing row
// never stops the rest of the file.
func (s *Service) ImportReceipts(ctx context.Context, userID uuid.UUID, rows []importer.Row) (*domain.ImportResult, error) {
	result := &domain.ImportResult{Total: len(rows)}

	for _, r := range rows {
		client, err := s.importReceiptRow(ctx, userID, r)
		s.metrics.ImportRow("receipts", err == nil)
		if err != nil {
			result.Failed++
			result.Details = append(result.Details, domain.ImportRowError{
				Row:    r.Number,
				Client: client,
				Error:  importErrorMessage(err),
			})
			continue
		}
		result.Succeeded++
	}

	logging.FromContext(ctx).Info("receipts imported",
		"user_id", userID,
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *Service) importReceiptRow(ctx context.Context, userID uuid.UUID, r importer.Row) (string, error) {
	row, err := importer.ParseReceiptRow(r)
	if err != nil {
		return r.Get("Nome do Cliente", "client_name"), err
	}

	c, err := s.resolveContract(ctx, userID, row)
	if err != nil {
		return row.ClientName, fmt.Errorf("line %d: %w", row.Line, err)
	}
	client := row.ClientName
	if client == "" {
		client = c.ClientName
	}

	_, err = s.RecordPayment(ctx, RecordPaymentRequest{
		UserID:      userID,
		ContractID:  c.ID,
		Amount:      row.Amount,
		PaymentDate: row.PaymentDate,
		Method:      row.PaymentMethod,
		Description: optional(row.Description),
	})
	if err != nil {
		return client, fmt.Errorf("line %d: %w", row.Line, err)
	}
	return client, nil
}

// resolveContract finds the contract a receipt line refers to: by id, then by
// contract number, then as the single open contract of the named client.
func (s *Service) resolveContract(ctx context.Context, userID uuid.UUID, row importer.ReceiptRow) (*domain.Contract, error) {
	if ref := strings.TrimSpace(row.ContractRef); ref != "" {
		if id, err := uuid.Parse(ref); err == nil {
			return s.contracts.GetByID(ctx, userID, id)
		}
		return s.contracts.GetByNumber(ctx, userID, ref)
	}

	client, err := s.clients.GetByName(ctx, userID, row.ClientName)
	if err != nil {
		return nil, err
	}
	open, err := s.contracts.ListOpenByClient(ctx, userID, client.ID)
	if err != nil {
		return nil, err
	}
	switch len(open) {
	case 0:
		return nil, domain.ErrContractNotFound
	case 1:
		return &open[0].Contract, nil
	default:
		return nil, errAmbiguousClient
	}
}

func importErrorMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrContractNotFound,
		domain.ErrContractPaid,
		domain.ErrClientNotFound,
		domain.ErrInvalidPaymentAmount,
		domain.ErrInvalidContractState,
		domain.ErrVersionConflict,
		errAmbiguousClient,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
