package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("staff user not found")
	ErrDuplicateEmail = errors.New("a staff user with this email already exists")
)

type Repository interface {
	Create(ctx context.Context, u *User) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, u *User) (*User, error)
	List(ctx context.Context, role Role, includeInactive bool) ([]User, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
