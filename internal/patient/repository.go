package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("patient not found")

type Repository interface {
	Create(ctx context.Context, p *Patient) (*Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) (*Patient, error)
	// List returns a page of active patients, optionally filtered by a name
	// search term, plus the total match count.
	List(ctx context.Context, search string, limit, offset int) ([]Patient, int, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
}
