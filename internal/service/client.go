package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

type clientRepo interface {
	Create(ctx context.Context, c *domain.Client) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, userID uuid.UUID, f domain.ClientFilter) ([]domain.Client, int, error)
	Update(ctx context.Context, c *domain.Client) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// ClientInput carries the editable client fields. Empty optional strings are
// stored as NULL.
type ClientInput struct {
	Name    string
	CPF     string
	RG      string
	Email   string
	Phone   string
	Address string
	City    string
	State   string
	ZipCode string
	Notes   string
}

type ClientService struct {
	clients clientRepo
	cache   dashboardInvalidator
}

func NewClientService(clients clientRepo, cache dashboardInvalidator) *ClientService {
	return &ClientService{clients: clients, cache: cache}
}

func (s *ClientService) CreateClient(ctx context.Context, userID uuid.UUID, in ClientInput) (*domain.Client, error) {
	if err := validateClientInput(in); err != nil {
		return nil, fmt.Errorf("CreateClient: %w", err)
	}

	now := time.Now().UTC()
	c := &domain.Client{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyClientInput(c, in)

	if err := s.clients.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("CreateClient: %w", err)
	}
	invalidateDashboard(ctx, s.cache, userID)

	logging.FromContext(ctx).Info("client created", "client_id", c.ID, "user_id", userID)
	return c, nil
}

func (s *ClientService) GetClient(ctx context.Context, userID, id uuid.UUID) (*domain.Client, error) {
	c, err := s.clients.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("GetClient: %w", err)
	}
	return c, nil
}

func (s *ClientService) ListClients(ctx context.Context, userID uuid.UUID, f domain.ClientFilter) ([]domain.Client, int, error) {
	clients, total, err := s.clients.List(ctx, userID, f)
	if err != nil {
		return nil, 0, fmt.Errorf("ListClients: %w", err)
	}
	return clients, total, nil
}

func (s *ClientService) UpdateClient(ctx context.Context, userID, id uuid.UUID, in ClientInput) (*domain.Client, error) {
	if err := validateClientInput(in); err != nil {
		return nil, fmt.Errorf("UpdateClient: %w", err)
	}

	c, err := s.clients.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("UpdateClient: %w", err)
	}
	applyClientInput(c, in)
	c.UpdatedAt = time.Now().UTC()

	if err := s.clients.Update(ctx, c); err != nil {
		return nil, fmt.Errorf("UpdateClient: %w", err)
	}

	logging.FromContext(ctx).Info("client updated", "client_id", c.ID)
	return c, nil
}

func (s *ClientService) DeleteClient(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.clients.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("DeleteClient: %w", err)
	}
	invalidateDashboard(ctx, s.cache, userID)

	logging.FromContext(ctx).Info("client deleted", "client_id", id)
	return nil
}

func validateClientInput(in ClientInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrInvalidRequest)
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if _, err := mail.ParseAddress(email); err != nil {
			return fmt.Errorf("invalid email %q: %w", email, domain.ErrInvalidRequest)
		}
	}
	return nil
}

func applyClientInput(c *domain.Client, in ClientInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.CPF = optional(in.CPF)
	c.RG = optional(in.RG)
	c.Email = optional(in.Email)
	c.Phone = optional(in.Phone)
	c.Address = optional(in.Address)
	c.City = optional(in.City)
	c.State = optional(in.State)
	c.ZipCode = optional(in.ZipCode)
	c.Notes = optional(in.Notes)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// invalidateDashboard drops the lender's cached dashboard. A cache failure only
// delays freshness until the entry expires, so it is logged and swallowed.
func invalidateDashboard(ctx context.Context, cache dashboardInvalidator, userID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, userID); err != nil {
		logging.FromContext(ctx).Warn("dashboard cache invalidation failed", "user_id", userID, "error", err)
	}
}
