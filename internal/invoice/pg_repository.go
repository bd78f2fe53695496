package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const invoiceColumns = `id, number, patient_id, appointment_id, issue_date, subtotal_cents,
	discount_cents, tax_cents, total_cents, paid_cents, payment_status, payment_method,
	notes, created_at, updated_at`

func scanInvoice(row pgx.Row) (*Invoice, error) {
	var inv Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.PatientID,
		&inv.AppointmentID,
		&inv.IssueDate,
		&inv.SubtotalCents,
		&inv.DiscountCents,
		&inv.TaxCents,
		&inv.TotalCents,
		&inv.PaidCents,
		&inv.PaymentStatus,
		&inv.PaymentMethod,
		&inv.Notes,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

func (r *PgRepository) Create(ctx context.Context, inv *Invoice) (*Invoice, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var seq int64
	if err := tx.QueryRow(ctx, `SELECT nextval('invoice_number_seq')`).Scan(&seq); err != nil {
		return nil, fmt.Errorf("next invoice number: %w", err)
	}

	id := uuid.New()
	number := fmt.Sprintf("INV-%s-%04d", inv.IssueDate.Format("20060102"), seq)

	row := tx.QueryRow(ctx, `
		INSERT INTO invoices
			(id, number, patient_id, appointment_id, issue_date, subtotal_cents,
			 discount_cents, tax_cents, total_cents, paid_cents, payment_status,
			 payment_method, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0, 'unpaid', '', $10, now(), now())
		RETURNING `+invoiceColumns+`
	`, id, number, inv.PatientID, inv.AppointmentID, inv.IssueDate, inv.SubtotalCents,
		inv.DiscountCents, inv.TaxCents, inv.TotalCents, inv.Notes)

	created, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	for i := range inv.Items {
		it := &inv.Items[i]
		it.ID = uuid.New()
		it.InvoiceID = created.ID
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items
				(id, invoice_id, description, service_id, product_id, quantity,
				 unit_price_cents, total_cents)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, it.ID, it.InvoiceID, it.Description, it.ServiceID, it.ProductID,
			it.Quantity, it.UnitPriceCents, it.TotalCents)
		if err != nil {
			return nil, fmt.Errorf("insert invoice item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	created.Items = inv.Items
	return created, nil
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE id = $1
	`, id)

	inv, err := scanInvoice(row)
	if err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.Items = items

	return inv, nil
}

func (r *PgRepository) listItems(ctx context.Context, invoiceID uuid.UUID) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, invoice_id, description, service_id, product_id, quantity,
		       unit_price_cents, total_cents
		FROM invoice_items
		WHERE invoice_id = $1
		ORDER BY description
	`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		err := rows.Scan(&it.ID, &it.InvoiceID, &it.Description, &it.ServiceID,
			&it.ProductID, &it.Quantity, &it.UnitPriceCents, &it.TotalCents)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PgRepository) collect(rows pgx.Rows) ([]Invoice, error) {
	defer rows.Close()

	var result []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *inv)
	}
	return result, rows.Err()
}

func (r *PgRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE patient_id = $1
		ORDER BY issue_date DESC
		LIMIT $2 OFFSET $3
	`, patientID, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PgRepository) ListByDateRange(ctx context.Context, from, to time.Time, limit, offset int) ([]Invoice, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+invoiceColumns+`
		FROM invoices
		WHERE issue_date >= $1 AND issue_date < $2
		ORDER BY issue_date DESC
		LIMIT $3 OFFSET $4
	`, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	return r.collect(rows)
}

func (r *PgRepository) AddPayment(ctx context.Context, id uuid.UUID, amountCents int64, method string) (*Invoice, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE invoices
		SET paid_cents = paid_cents + $2,
		    payment_status = CASE
		        WHEN paid_cents + $2 >= total_cents THEN 'paid'
		        WHEN paid_cents + $2 > 0 THEN 'partial'
		        ELSE 'unpaid'
		    END,
		    payment_method = $3,
		    updated_at = now()
		WHERE id = $1
		  AND paid_cents + $2 <= total_cents
		RETURNING `+invoiceColumns+`
	`, id, amountCents, method)

	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Missing row or the guard refused the overpayment.
			if _, getErr := r.GetByID(ctx, id); getErr == nil {
				return nil, ErrPaymentExceedsBalance
			}
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}
