package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Service answers the dashboard's read-only aggregate queries.
type Service struct {
	pool *pgxpool.Pool
}

func NewService(pool *pgxpool.Pool) *Service {
	return &Service{pool: pool}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type DayCount struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

type AppointmentSummary struct {
	Total    int64         `json:"total"`
	ByStatus []StatusCount `json:"by_status"`
	ByDay    []DayCount    `json:"by_day"`
}

type MonthRevenue struct {
	Month          time.Time `json:"month"`
	InvoicedCents  int64     `json:"invoiced_cents"`
	CollectedCents int64     `json:"collected_cents"`
	Invoices       int64     `json:"invoices"`
}

type ServiceUsage struct {
	ServiceID string `json:"service_id"`
	Name      string `json:"name"`
	Bookings  int64  `json:"bookings"`
}

// AppointmentSummary aggregates bookings in [from, to).
func (s *Service) AppointmentSummary(ctx context.Context, from, to time.Time) (*AppointmentSummary, error) {
	summary := &AppointmentSummary{}

	rows, err := s.pool.Query(ctx, `
		SELECT status, count(*)
		FROM appointments
		WHERE date >= $1 AND date < $2
		GROUP BY status
		ORDER BY status
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointment status counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sc StatusCount
		if err := rows.Scan(&sc.Status, &sc.Count); err != nil {
			return nil, err
		}
		summary.ByStatus = append(summary.ByStatus, sc)
		summary.Total += sc.Count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	dayRows, err := s.pool.Query(ctx, `
		SELECT date, count(*)
		FROM appointments
		WHERE date >= $1 AND date < $2
		GROUP BY date
		ORDER BY date
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointment day counts: %w", err)
	}
	defer dayRows.Close()

	for dayRows.Next() {
		var dc DayCount
		if err := dayRows.Scan(&dc.Date, &dc.Count); err != nil {
			return nil, err
		}
		summary.ByDay = append(summary.ByDay, dc)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	return summary, nil
}

// Revenue aggregates invoices per calendar month in [from, to).
func (s *Service) Revenue(ctx context.Context, from, to time.Time) ([]MonthRevenue, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT date_trunc('month', issue_date) AS month,
		       coalesce(sum(total_cents), 0),
		       coalesce(sum(paid_cents), 0),
		       count(*)
		FROM invoices
		WHERE issue_date >= $1 AND issue_date < $2
		GROUP BY month
		ORDER BY month
	`, from, to)
	if err != nil {
		return nil, fmt.Errorf("revenue by month: %w", err)
	}
	defer rows.Close()

	var result []MonthRevenue
	for rows.Next() {
		var mr MonthRevenue
		if err := rows.Scan(&mr.Month, &mr.InvoicedCents, &mr.CollectedCents, &mr.Invoices); err != nil {
			return nil, err
		}
		result = append(result, mr)
	}
	return result, rows.Err()
}

// TopServices lists the most-booked services in [from, to).
func (s *Service) TopServices(ctx context.Context, from, to time.Time, limit int) ([]ServiceUsage, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT a.service_id, s.name, count(*)
		FROM appointments a
		JOIN services s ON s.id = a.service_id
		WHERE a.date >= $1 AND a.date < $2
		  AND a.status <> 'cancelled'
		GROUP BY a.service_id, s.name
		ORDER BY count(*) DESC, s.name
		LIMIT $3
	`, from, to, limit)
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	defer rows.Close()

	var result []ServiceUsage
	for rows.Next() {
		var su ServiceUsage
		if err := rows.Scan(&su.ServiceID, &su.Name, &su.Bookings); err != nil {
			return nil, err
		}
		result = append(result, su)
	}
	return result, rows.Err()
}
