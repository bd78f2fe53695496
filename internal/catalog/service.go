package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid catalog data")

type Svc struct {
	repo Repository
	log  *zap.Logger
}

func NewSvc(repo Repository, log *zap.Logger) *Svc {
	return &Svc{repo: repo, log: log}
}

func validateService(s *Service) error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: service name is required", ErrInvalidInput)
	}
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if s.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	return nil
}

func validateProduct(p *Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(p.SKU) == "" {
		return fmt.Errorf("%w: SKU is required", ErrInvalidInput)
	}
	if p.PriceCents < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidInput)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	return nil
}

func (s *Svc) CreateService(ctx context.Context, svc *Service) (*Service, error) {
	if err := validateService(svc); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateService(ctx, svc)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	s.log.Info("service created", zap.String("service_id", created.ID.String()), zap.String("name", created.Name))
	return created, nil
}

func (s *Svc) GetService(ctx context.Context, id uuid.UUID) (*Service, error) {
	return s.repo.GetServiceByID(ctx, id)
}

func (s *Svc) UpdateService(ctx context.Context, svc *Service) (*Service, error) {
	if err := validateService(svc); err != nil {
		return nil, err
	}
	return s.repo.UpdateService(ctx, svc)
}

func (s *Svc) ListServices(ctx context.Context, includeInactive bool) ([]Service, error) {
	return s.repo.ListServices(ctx, includeInactive)
}

func (s *Svc) DeactivateService(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateService(ctx, id)
}

func (s *Svc) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.log.Info("product created", zap.String("product_id", created.ID.String()), zap.String("sku", created.SKU))
	return created, nil
}

func (s *Svc) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *Svc) UpdateProduct(ctx context.Context, p *Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	return s.repo.UpdateProduct(ctx, p)
}

func (s *Svc) ListProducts(ctx context.Context, includeInactive bool) ([]Product, error) {
	return s.repo.ListProducts(ctx, includeInactive)
}

func (s *Svc) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*Product, error) {
	if delta == 0 {
		return s.repo.GetProductByID(ctx, id)
	}
	return s.repo.AdjustStock(ctx, id, delta)
}

func (s *Svc) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeactivateProduct(ctx, id)
}
