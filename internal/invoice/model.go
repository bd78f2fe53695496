package invoice

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

type Invoice struct {
	ID            uuid.UUID
	Number        string // e.g. INV-20250610-0042
	PatientID     uuid.UUID
	AppointmentID *uuid.UUID
	IssueDate     time.Time
	Items         []Item
	SubtotalCents int64
	DiscountCents int64
	TaxCents      int64
	TotalCents    int64
	PaidCents     int64
	PaymentStatus PaymentStatus
	PaymentMethod string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Item is one invoice line, a service rendered or a product sold.
type Item struct {
	ID             uuid.UUID
	InvoiceID      uuid.UUID
	Description    string
	ServiceID      *uuid.UUID
	ProductID      *uuid.UUID
	Quantity       int
	UnitPriceCents int64
	TotalCents     int64
}
