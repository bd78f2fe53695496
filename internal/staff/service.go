package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid staff data")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	repo     Repository
	sessions *SessionStore
	log      *zap.Logger
}

func NewService(repo Repository, sessions *SessionStore, log *zap.Logger) *Service {
	return &Service{repo: repo, sessions: sessions, log: log}
}

func validateUser(u *User) error {
	if strings.TrimSpace(u.FirstName) == "" || strings.TrimSpace(u.LastName) == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidInput)
	}
	if !strings.Contains(u.Email, "@") {
		return fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}
	if !ValidRole(u.Role) {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, u.Role)
	}
	return nil
}

func (s *Service) Create(ctx context.Context, u *User, password string) (*User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)

	created, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}

	s.log.Info("staff user created",
		zap.String("user_id", created.ID.String()),
		zap.String("role", string(created.Role)))

	return created, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, *User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("load user: %w", err)
	}
	if !u.Active {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.sessions.Create(ctx, u.ID)
	if err != nil {
		return "", nil, err
	}

	s.log.Info("staff login", zap.String("user_id", u.ID.String()))
	return token, u, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ResolveSession maps a bearer token to its active staff user.
func (s *Service) ResolveSession(ctx context.Context, token string) (*User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrSessionNotFound
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, u *User) (*User, error) {
	if err := validateUser(u); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, u)
}

func (s *Service) List(ctx context.Context, role Role, includeInactive bool) ([]User, error) {
	if role != "" && !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	return s.repo.List(ctx, role, includeInactive)
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.log.Info("staff user deactivated", zap.String("user_id", id.String()))
	return nil
}
