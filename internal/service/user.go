package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/josh-kwaku/loan-servicing/internal/auth"
	"github.com/josh-kwaku/loan-servicing/internal/domain"
	"github.com/josh-kwaku/loan-servicing/internal/logging"
)

const minPasswordLength = 8

type userRepo interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Company  *string
	Plan     domain.UserPlan
}

type UserService struct {
	users     userRepo
	jwtSecret string
	jwtExpiry time.Duration
	hashCost  int
}

func NewUserService(users userRepo, jwtSecret string, jwtExpiry time.Duration) *UserService {
	return &UserService{
		users:     users,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		hashCost:  bcrypt.DefaultCost,
	}
}

func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	if req.Plan == "" {
		req.Plan = domain.UserPlanBasic
	}
	if err := validateRegistration(req); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("Register: hash password: %w", err)
	}

	u := &domain.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: string(hash),
		Company:      req.Company,
		Plan:         req.Plan,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("Register: %w", err)
	}

	logging.FromContext(ctx).Info("user registered", "user_id", u.ID, "plan", u.Plan)
	return u, nil
}

// Authenticate checks the credentials and issues a bearer token. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
		}
		return nil, "", fmt.Errorf("Authenticate: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("Authenticate: %w", domain.ErrInvalidCredentials)
	}

	token, err := auth.GenerateToken(u.ID, u.Email, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("Authenticate: %w", err)
	}
	return u, token, nil
}

func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("GetUser: %w", err)
	}
	return u, nil
}

func validateRegistration(req RegisterRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("name is required: %w", domain.ErrInvalidRequest)
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		return fmt.Errorf("invalid email: %w", domain.ErrInvalidRequest)
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("password must have at least %d characters: %w", minPasswordLength, domain.ErrInvalidRequest)
	}
	if !req.Plan.IsValid() {
		return fmt.Errorf("plan %q: %w", req.Plan, domain.ErrInvalidRequest)
	}
	return nil
}
