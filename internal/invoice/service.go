package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidInput = errors.New("invalid invoice data")

type Service struct {
	repo Repository
	log  *zap.Logger
}

func NewService(repo Repository, log *zap.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create computes all amounts server side; client-supplied totals are ignored.
func (s *Service) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	if inv.PatientID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient is required", ErrInvalidInput)
	}
	if len(inv.Items) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", ErrInvalidInput)
	}
	for _, it := range inv.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item quantity must be positive", ErrInvalidInput)
		}
		if it.UnitPriceCents < 0 {
			return nil, fmt.Errorf("%w: item price cannot be negative", ErrInvalidInput)
		}
	}
	if inv.DiscountCents < 0 || inv.TaxCents < 0 {
		return nil, fmt.Errorf("%w: discount and tax cannot be negative", ErrInvalidInput)
	}

	if inv.IssueDate.IsZero() {
		inv.IssueDate = time.Now()
	}

	ComputeTotals(inv)

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", created.ID.String()),
		zap.String("number", created.Number),
		zap.Int64("total_cents", created.TotalCents))

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Invoice, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]Invoice, error) {
	limit, offset = clampPage(limit, offset)
	return s.repo.ListByDateRange(ctx, from, to, limit, offset)
}

func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, amountCents int64, method string) (*Invoice, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}

	inv, err := s.repo.AddPayment(ctx, id, amountCents, method)
	if err != nil {
		return nil, err
	}

	s.log.Info("payment recorded",
		zap.String("invoice_id", id.String()),
		zap.Int64("amount_cents", amountCents),
		zap.String("status", string(inv.PaymentStatus)))

	return inv, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
