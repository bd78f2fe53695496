package patient

import (
	"context"
	"errors"

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

const patientColumns = `id, first_name, last_name, date_of_birth, sex, phone, email, address,
	insurance_provider, insurance_number, medical_notes, active, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.DateOfBirth,
		&p.Sex,
		&p.Phone,
		&p.Email,
		&p.Address,
		&p.InsuranceProvider,
		&p.InsuranceNumber,
		&p.MedicalNotes,
		&p.Active,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}

func (r *PgRepository) Create(ctx context.Context, p *Patient) (*Patient, error) {
	id := uuid.New()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO patients
			(id, first_name, last_name, date_of_birth, sex, phone, email, address,
			 insurance_provider, insurance_number, medical_notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, now(), now())
		RETURNING `+patientColumns+`
	`, id, p.FirstName, p.LastName, p.DateOfBirth, p.Sex, p.Phone, p.Email, p.Address,
		p.InsuranceProvider, p.InsuranceNumber, p.MedicalNotes)

	return scanPatient(row)
}

func (r *PgRepository) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) Update(ctx context.Context, p *Patient) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE patients
		SET first_name = $2,
		    last_name = $3,
		    date_of_birth = $4,
		    sex = $5,
		    phone = $6,
		    email = $7,
		    address = $8,
		    insurance_provider = $9,
		    insurance_number = $10,
		    medical_notes = $11,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns+`
	`, p.ID, p.FirstName, p.LastName, p.DateOfBirth, p.Sex, p.Phone, p.Email, p.Address,
		p.InsuranceProvider, p.InsuranceNumber, p.MedicalNotes)

	return scanPatient(row)
}

func (r *PgRepository) List(ctx context.Context, search string, limit, offset int) ([]Patient, int, error) {
	pattern := "%" + search + "%"

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*)
		FROM patients
		WHERE active
		  AND ($1 = '%%' OR first_name ILIKE $1 OR last_name ILIKE $1)
	`, pattern).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+patientColumns+`
		FROM patients
		WHERE active
		  AND ($1 = '%%' OR first_name ILIKE $1 OR last_name ILIKE $1)
		ORDER BY last_name, first_name
		LIMIT $2 OFFSET $3
	`, pattern, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return result, total, nil
}

func (r *PgRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE patients
		SET active = false,
		    updated_at = now()
		WHERE id = $1 AND active
	`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
