package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"

	"github.com/dentaworks/practice-api/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedStaff(context.Background(), pool); err != nil {
		log.Fatalf("seed staff: %v", err)
	}
	if err := seedServices(context.Background(), pool); err != nil {
		log.Fatalf("seed services: %v", err)
	}
	if err := seedProducts(context.Background(), pool, 40); err != nil {
		log.Fatalf("seed products: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

func seedStaff(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding staff users")

	specialties := []string{
		"General Dentistry",
		"Orthodontics",
		"Endodontics",
		"Periodontics",
		"Oral Surgery",
		"Pediatric Dentistry",
		"Prosthodontics",
	}

	// Every seeded account gets the same demo password.
	hash, err := bcrypt.GenerateFromPassword([]byte("changeme123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	insert := func(first, last, email, role, specialty string) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO staff_users
				(id, first_name, last_name, email, role, password_hash, specialty, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, true, now(), now())
		`, uuid.New(), first, last, email, role, string(hash), specialty)
		return err
	}

	if err := insert("Admin", "User", "admin@dentaworks.local", "admin", ""); err != nil {
		return err
	}

	for i := 0; i < 8; i++ {
		specialty := specialties[gofakeit.Number(0, len(specialties)-1)]
		email := fmt.Sprintf("dentist%d@dentaworks.local", i+1)
		if err := insert(gofakeit.FirstName(), gofakeit.LastName(), email, "dentist", specialty); err != nil {
			return err
		}
	}
	for i := 0; i < 4; i++ {
		email := fmt.Sprintf("assistant%d@dentaworks.local", i+1)
		if err := insert(gofakeit.FirstName(), gofakeit.LastName(), email, "assistant", ""); err != nil {
			return err
		}
	}
	for i := 0; i < 3; i++ {
		email := fmt.Sprintf("reception%d@dentaworks.local", i+1)
		if err := insert(gofakeit.FirstName(), gofakeit.LastName(), email, "receptionist", ""); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("staff users seeded")
	return nil
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) error {
	log.Println("seeding services")

	services := []struct {
		name     string
		category string
		duration int
		price    int64
	}{
		{"Routine Checkup", "preventive", 30, 7500},
		{"Dental Cleaning", "preventive", 45, 12000},
		{"Fluoride Treatment", "preventive", 15, 4500},
		{"Tooth Filling", "restorative", 45, 18000},
		{"Root Canal", "endodontic", 90, 85000},
		{"Crown Placement", "restorative", 60, 110000},
		{"Tooth Extraction", "surgical", 45, 25000},
		{"Wisdom Tooth Removal", "surgical", 90, 45000},
		{"Teeth Whitening", "cosmetic", 60, 35000},
		{"Orthodontic Consultation", "orthodontic", 30, 9000},
		{"Braces Adjustment", "orthodontic", 30, 15000},
		{"Emergency Exam", "emergency", 30, 11000},
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, s := range services {
		_, err := tx.Exec(ctx, `
			INSERT INTO services (id, name, description, category, duration_minutes, price_cents, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, uuid.New(), s.name, gofakeit.Sentence(8), s.category, s.duration, s.price)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("services seeded")
	return nil
}

func seedProducts(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d products", count)

	brands := []string{"OralPro", "DentaFresh", "BrightSmile", "PerioCare", "Flexident"}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		sku := fmt.Sprintf("DW-%05d", i+1)
		brand := brands[gofakeit.Number(0, len(brands)-1)]
		price := int64(gofakeit.Number(300, 9500))
		stock := gofakeit.Number(0, 200)

		_, err := tx.Exec(ctx, `
			INSERT INTO products (id, name, sku, brand, price_cents, stock, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, true, now(), now())
		`, uuid.New(), gofakeit.ProductName(), sku, brand, price, stock)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("products seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	insurers := []string{"MediShield", "DentaCover", "HealthFirst", "SmilePlan", ""}
	sexes := []string{"female", "male", "other"}

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			dob := gofakeit.DateRange(
				time.Date(1935, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2018, 12, 31, 0, 0, 0, 0, time.UTC),
			)
			insurer := insurers[gofakeit.Number(0, len(insurers)-1)]
			insuranceNo := ""
			if insurer != "" {
				insuranceNo = fmt.Sprintf("%s-%06d", insurer[:2], gofakeit.Number(100000, 999999))
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO patients
					(id, first_name, last_name, date_of_birth, sex, phone, email, address,
					 insurance_provider, insurance_number, medical_notes, active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, true, now(), now())
			`, uuid.New(), gofakeit.FirstName(), gofakeit.LastName(), dob,
				sexes[gofakeit.Number(0, len(sexes)-1)], gofakeit.Phone(), gofakeit.Email(),
				gofakeit.Address().Address, insurer, insuranceNo, "")
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}
