package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service is a billable dental procedure offered by the practice.
type Service struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Category        string
	DurationMinutes int
	PriceCents      int64
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Product is a retail item sold at the front desk.
type Product struct {
	ID         uuid.UUID
	Name       string
	SKU        string
	Brand      string
	PriceCents int64
	Stock      int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
