package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/dentaworks/practice-api/internal/appointment"
	"github.com/dentaworks/practice-api/internal/catalog"
	"github.com/dentaworks/practice-api/internal/invoice"
	"github.com/dentaworks/practice-api/internal/patient"
	"github.com/dentaworks/practice-api/internal/staff"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Context any    `json:"context,omitempty"`
}

// ConflictContext is attached to appointment_conflict rejections so clients
// can render the clashing booking.
type ConflictContext struct {
	AppointmentID   uuid.UUID `json:"appointment_id"`
	Time            string    `json:"time"`
	DurationMinutes int       `json:"duration_minutes"`
}

// Auth

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// Appointments

type AppointmentRequest struct {
	PatientID string `json:"patient_id"`
	DentistID string `json:"dentist_id"`
	ServiceID string `json:"service_id"`
	Date      string `json:"date"` // YYYY-MM-DD
	Time      string `json:"time"` // HH:MM
	Duration  int    `json:"duration_minutes"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

type StatusChangeRequest struct {
	TargetStatus string `json:"target_status"`
	Reason       string `json:"reason,omitempty"`
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	PatientID    uuid.UUID `json:"patient_id"`
	DentistID    uuid.UUID `json:"dentist_id"`
	ServiceID    uuid.UUID `json:"service_id"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Duration     int       `json:"duration_minutes"`
	Status       string    `json:"status"`
	Type         string    `json:"type"`
	Notes        string    `json:"notes,omitempty"`
	CancelReason *string   `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *appointment.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:           a.ID,
		Number:       a.Number,
		PatientID:    a.PatientID,
		DentistID:    a.DentistID,
		ServiceID:    a.ServiceID,
		Date:         a.Date.Format("2006-01-02"),
		Time:         a.Start.String(),
		Duration:     a.DurationMinutes,
		Status:       string(a.Status),
		Type:         string(a.Type),
		Notes:        a.Notes,
		CancelReason: a.CancelReason,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func toAppointmentResponses(appts []appointment.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, 0, len(appts))
	for i := range appts {
		out = append(out, toAppointmentResponse(&appts[i]))
	}
	return out
}

// Patients

type PatientRequest struct {
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	DateOfBirth       string `json:"date_of_birth,omitempty"` // YYYY-MM-DD
	Sex               string `json:"sex,omitempty"`
	Phone             string `json:"phone,omitempty"`
	Email             string `json:"email,omitempty"`
	Address           string `json:"address,omitempty"`
	InsuranceProvider string `json:"insurance_provider,omitempty"`
	InsuranceNumber   string `json:"insurance_number,omitempty"`
	MedicalNotes      string `json:"medical_notes,omitempty"`
}

type PatientResponse struct {
	ID                uuid.UUID `json:"id"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	DateOfBirth       string    `json:"date_of_birth,omitempty"`
	Sex               string    `json:"sex,omitempty"`
	Phone             string    `json:"phone,omitempty"`
	Email             string    `json:"email,omitempty"`
	Address           string    `json:"address,omitempty"`
	InsuranceProvider string    `json:"insurance_provider,omitempty"`
	InsuranceNumber   string    `json:"insurance_number,omitempty"`
	MedicalNotes      string    `json:"medical_notes,omitempty"`
	Active            bool      `json:"active"`
	CreatedAt         time.Time `json:"created_at"`
}

func toPatientResponse(p *patient.Patient) PatientResponse {
	resp := PatientResponse{
		ID:                p.ID,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Sex:               p.Sex,
		Phone:             p.Phone,
		Email:             p.Email,
		Address:           p.Address,
		InsuranceProvider: p.InsuranceProvider,
		InsuranceNumber:   p.InsuranceNumber,
		MedicalNotes:      p.MedicalNotes,
		Active:            p.Active,
		CreatedAt:         p.CreatedAt,
	}
	if p.DateOfBirth != nil {
		resp.DateOfBirth = p.DateOfBirth.Format("2006-01-02")
	}
	return resp
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}

// Catalog

type ServiceRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Category        string `json:"category,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	PriceCents      int64  `json:"price_cents"`
}

type ServiceResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	Active          bool      `json:"active"`
}

func toServiceResponse(s *catalog.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		Description:     s.Description,
		Category:        s.Category,
		DurationMinutes: s.DurationMinutes,
		PriceCents:      s.PriceCents,
		Active:          s.Active,
	}
}

type ProductRequest struct {
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Brand      string `json:"brand,omitempty"`
	PriceCents int64  `json:"price_cents"`
	Stock      int    `json:"stock"`
}

type StockAdjustRequest struct {
	Delta int `json:"delta"`
}

type ProductResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	SKU        string    `json:"sku"`
	Brand      string    `json:"brand,omitempty"`
	PriceCents int64     `json:"price_cents"`
	Stock      int       `json:"stock"`
	Active     bool      `json:"active"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Brand:      p.Brand,
		PriceCents: p.PriceCents,
		Stock:      p.Stock,
		Active:     p.Active,
	}
}

// Invoices

type InvoiceItemRequest struct {
	Description    string `json:"description"`
	ServiceID      string `json:"service_id,omitempty"`
	ProductID      string `json:"product_id,omitempty"`
	Quantity       int    `json:"quantity"`
	UnitPriceCents int64  `json:"unit_price_cents"`
}

type InvoiceRequest struct {
	PatientID     string               `json:"patient_id"`
	AppointmentID string               `json:"appointment_id,omitempty"`
	IssueDate     string               `json:"issue_date,omitempty"`
	DiscountCents int64                `json:"discount_cents,omitempty"`
	TaxCents      int64                `json:"tax_cents,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

type PaymentRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method,omitempty"`
}

type InvoiceItemResponse struct {
	ID             uuid.UUID  `json:"id"`
	Description    string     `json:"description"`
	ServiceID      *uuid.UUID `json:"service_id,omitempty"`
	ProductID      *uuid.UUID `json:"product_id,omitempty"`
	Quantity       int        `json:"quantity"`
	UnitPriceCents int64      `json:"unit_price_cents"`
	TotalCents     int64      `json:"total_cents"`
}

type InvoiceResponse struct {
	ID            uuid.UUID             `json:"id"`
	Number        string                `json:"number"`
	PatientID     uuid.UUID             `json:"patient_id"`
	AppointmentID *uuid.UUID            `json:"appointment_id,omitempty"`
	IssueDate     string                `json:"issue_date"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	SubtotalCents int64                 `json:"subtotal_cents"`
	DiscountCents int64                 `json:"discount_cents"`
	TaxCents      int64                 `json:"tax_cents"`
	TotalCents    int64                 `json:"total_cents"`
	PaidCents     int64                 `json:"paid_cents"`
	PaymentStatus string                `json:"payment_status"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	Notes         string                `json:"notes,omitempty"`
}

func toInvoiceResponse(inv *invoice.Invoice) InvoiceResponse {
	resp := InvoiceResponse{
		ID:            inv.ID,
		Number:        inv.Number,
		PatientID:     inv.PatientID,
		AppointmentID: inv.AppointmentID,
		IssueDate:     inv.IssueDate.Format("2006-01-02"),
		SubtotalCents: inv.SubtotalCents,
		DiscountCents: inv.DiscountCents,
		TaxCents:      inv.TaxCents,
		TotalCents:    inv.TotalCents,
		PaidCents:     inv.PaidCents,
		PaymentStatus: string(inv.PaymentStatus),
		PaymentMethod: inv.PaymentMethod,
		Notes:         inv.Notes,
	}
	for _, it := range inv.Items {
		resp.Items = append(resp.Items, InvoiceItemResponse{
			ID:             it.ID,
			Description:    it.Description,
			ServiceID:      it.ServiceID,
			ProductID:      it.ProductID,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
			TotalCents:     it.TotalCents,
		})
	}
	return resp
}

// Staff

type StaffRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Specialty string `json:"specialty,omitempty"`
	Password  string `json:"password,omitempty"`
}

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Specialty string    `json:"specialty,omitempty"`
	Active    bool      `json:"active"`
}

func toUserResponse(u *staff.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Role:      string(u.Role),
		Specialty: u.Specialty,
		Active:    u.Active,
	}
}
