package invoice

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound              = errors.New("invoice not found")
	ErrPaymentExceedsBalance = errors.New("payment exceeds the outstanding balance")
)

type Repository interface {
	// Create persists the invoice and its items in one transaction and
	// assigns the id and invoice number.
	Create(ctx context.Context, inv *Invoice) (*Invoice, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Invoice, error)
	ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]Invoice, error)
	// AddPayment accumulates paid_cents and stores the derived status; the
	// guard in SQL refuses payments past the total.
	AddPayment(ctx context.Context, id uuid.UUID, amountCents int64, method string) (*Invoice, error)
}
