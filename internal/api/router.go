package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dentaworks/practice-api/internal/analytics"
	"github.com/dentaworks/practice-api/internal/appointment"
	"github.com/dentaworks/practice-api/internal/catalog"
	"github.com/dentaworks/practice-api/internal/invoice"
	"github.com/dentaworks/practice-api/internal/patient"
	"github.com/dentaworks/practice-api/internal/staff"
)

type RouterConfig struct {
	Appointments *appointment.Service
	Patients     *patient.Service
	Catalog      *catalog.Svc
	Invoices     *invoice.Service
	Staff        *staff.Service
	Analytics    *analytics.Service
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Log          *zap.Logger
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	auth := &authHandlers{svc: cfg.Staff}
	r.Post("/auth/login", auth.login)

	appts := &appointmentHandlers{svc: cfg.Appointments}
	patients := &patientHandlers{svc: cfg.Patients}
	cat := &catalogHandlers{svc: cfg.Catalog}
	invoices := &invoiceHandlers{svc: cfg.Invoices}
	staffH := &staffHandlers{svc: cfg.Staff}
	stats := &analyticsHandlers{svc: cfg.Analytics}

	// Everything below requires an authenticated staff session.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Staff))

		r.Post("/auth/logout", auth.logout)
		r.Get("/auth/me", auth.me)

		r.Route("/appointments", func(r chi.Router) {
			r.With(RequirePermission(staff.PermWriteAppointment)).Post("/", appts.create)
			r.With(RequirePermission(staff.PermReadAppointment)).Get("/", appts.list)
			r.With(RequirePermission(staff.PermReadAppointment)).Get("/{id}", appts.get)
			r.With(RequirePermission(staff.PermWriteAppointment)).Put("/{id}", appts.reschedule)
			r.With(RequirePermission(staff.PermWriteAppointment)).Patch("/{id}/status", appts.changeStatus)
		})

		r.Route("/patients", func(r chi.Router) {
			r.With(RequirePermission(staff.PermWritePatient)).Post("/", patients.create)
			r.With(RequirePermission(staff.PermReadPatient)).Get("/", patients.list)
			r.With(RequirePermission(staff.PermReadPatient)).Get("/{id}", patients.get)
			r.With(RequirePermission(staff.PermWritePatient)).Put("/{id}", patients.update)
			r.With(RequirePermission(staff.PermWritePatient)).Delete("/{id}", patients.deactivate)
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Route("/services", func(r chi.Router) {
				r.With(RequirePermission(staff.PermWriteCatalog)).Post("/", cat.createService)
				r.With(RequirePermission(staff.PermReadCatalog)).Get("/", cat.listServices)
				r.With(RequirePermission(staff.PermReadCatalog)).Get("/{id}", cat.getService)
				r.With(RequirePermission(staff.PermWriteCatalog)).Put("/{id}", cat.updateService)
				r.With(RequirePermission(staff.PermWriteCatalog)).Delete("/{id}", cat.deactivateService)
			})
			r.Route("/products", func(r chi.Router) {
				r.With(RequirePermission(staff.PermWriteCatalog)).Post("/", cat.createProduct)
				r.With(RequirePermission(staff.PermReadCatalog)).Get("/", cat.listProducts)
				r.With(RequirePermission(staff.PermReadCatalog)).Get("/{id}", cat.getProduct)
				r.With(RequirePermission(staff.PermWriteCatalog)).Put("/{id}", cat.updateProduct)
				r.With(RequirePermission(staff.PermWriteCatalog)).Post("/{id}/stock", cat.adjustStock)
				r.With(RequirePermission(staff.PermWriteCatalog)).Delete("/{id}", cat.deactivateProduct)
			})
		})

		r.Route("/invoices", func(r chi.Router) {
			r.With(RequirePermission(staff.PermWriteInvoice)).Post("/", invoices.create)
			r.With(RequirePermission(staff.PermReadInvoice)).Get("/", invoices.list)
			r.With(RequirePermission(staff.PermReadInvoice)).Get("/{id}", invoices.get)
			r.With(RequirePermission(staff.PermWriteInvoice)).Post("/{id}/payments", invoices.recordPayment)
		})

		r.Route("/staff", func(r chi.Router) {
			r.Use(RequirePermission(staff.PermManageStaff))
			r.Post("/", staffH.create)
			r.Get("/", staffH.list)
			r.Get("/{id}", staffH.get)
			r.Put("/{id}", staffH.update)
			r.Delete("/{id}", staffH.deactivate)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Use(RequirePermission(staff.PermReadAnalytics))
			r.Get("/appointments", stats.appointments)
			r.Get("/revenue", stats.revenue)
			r.Get("/top-services", stats.topServices)
		})
	})

	return r
}
