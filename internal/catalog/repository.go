package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrServiceNotFound   = errors.New("service not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrDuplicateSKU      = errors.New("a product with this SKU already exists")
	ErrInsufficientStock = errors.New("not enough stock")
)

type Repository interface {
	CreateService(ctx context.Context, s *Service) (*Service, error)
	GetServiceByID(ctx context.Context, id uuid.UUID) (*Service, error)
	UpdateService(ctx context.Context, s *Service) (*Service, error)
	ListServices(ctx context.Context, includeInactive bool) ([]Service, error)
	DeactivateService(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, p *Product) (*Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*Product, error)
	UpdateProduct(ctx context.Context, p *Product) (*Product, error)
	ListProducts(ctx context.Context, includeInactive bool) ([]Product, error)
	// AdjustStock applies a positive or negative delta; the stored stock may
	// never go negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error)
	DeactivateProduct(ctx context.Context, id uuid.UUID) error
}
