package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
	"github.com/josh-kwaku/loan-servicing/internal/service"
)

type clientService interface {
	CreateClient(ctx context.Context, userID uuid.UUID, in service.ClientInput) (*domain.Client, error)
	GetClient(ctx context.Context, userID, id uuid.UUID) (*domain.Client, error)
	ListClients(ctx context.Context, userID uuid.UUID, f domain.ClientFilter) ([]domain.Client, int, error)
	UpdateClient(ctx context.Context, userID, id uuid.UUID, in service.ClientInput) (*domain.Client, error)
	DeleteClient(ctx context.Context, userID, id uuid.UUID) error
}

type ClientHandler struct {
	clients clientService
}

func NewClientHandler(clients clientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

type clientRequest struct {
	Name    string `json:"name"`
	CPF     string `json:"cpf"`
	RG      string `json:"rg"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Notes   string `json:"notes"`
}

func (r clientRequest) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(r.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if len(r.State) > 2 {
		errs = append(errs, FieldError{Field: "state", Message: "must be a two-letter code"})
	}
	return errs
}

func (r clientRequest) input() service.ClientInput {
	return service.ClientInput{
		Name:    r.Name,
		CPF:     r.CPF,
		RG:      r.RG,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
		City:    r.City,
		State:   r.State,
		ZipCode: r.ZipCode,
		Notes:   r.Notes,
	}
}

type clientDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CPF       *string   `json:"cpf"`
	RG        *string   `json:"rg"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	City      *string   `json:"city"`
	State     *string   `json:"state"`
	ZipCode   *string   `json:"zip_code"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toClientDTO(c *domain.Client) clientDTO {
	return clientDTO{
		ID:        c.ID,
		Name:      c.Name,
		CPF:       c.CPF,
		RG:        c.RG,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		ZipCode:   c.ZipCode,
		Notes:     c.Notes,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req clientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	c, err := h.clients.CreateClient(r.Context(), userID, req.input())
	if err != nil {
		logging.FromContext(r.Context()).Warn("client creation failed", "error", err)
		RespondDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", "/api/v1/clients/"+c.ID.String())
	RespondSuccess(w, http.StatusCreated, toClientDTO(c))
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit, offset, fields := pageParams(r, nil)
	if len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	clients, total, err := h.clients.ListClients(r.Context(), userID, domain.ClientFilter{
		Query:  r.URL.Query().Get("q"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}

	items := make([]clientDTO, len(clients))
	for i := range clients {
		items[i] = toClientDTO(&clients[i])
	}
	RespondSuccess(w, http.StatusOK, listResponse[clientDTO]{Items: items, Total: total, Limit: limit, Offset: offset})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrClientNotFound)
	if !ok {
		return
	}

	c, err := h.clients.GetClient(r.Context(), userID, id)
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toClientDTO(c))
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrClientNotFound)
	if !ok {
		return
	}

	var req clientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	c, err := h.clients.UpdateClient(r.Context(), userID, id, req.input())
	if err != nil {
		RespondDomainError(w, r, err)
		return
	}
	RespondSuccess(w, http.StatusOK, toClientDTO(c))
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, ErrClientNotFound)
	if !ok {
		return
	}

	if err := h.clients.DeleteClient(r.Context(), userID, id); err != nil {
		RespondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
