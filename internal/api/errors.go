package api

import (
	"errors"
	"net/http"

	"github.com/dentaworks/practice-api/internal/appointment"
	"github.com/dentaworks/practice-api/internal/catalog"
	"github.com/dentaworks/practice-api/internal/invoice"
	"github.com/dentaworks/practice-api/internal/patient"
	"github.com/dentaworks/practice-api/internal/staff"
)

// handleDomainError maps service-layer errors to HTTP responses. Validation
// rejections carry their kind and machine-readable context; everything
// unrecognized becomes a 500.
func handleDomainError(w http.ResponseWriter, err error) {
	var verr *appointment.ValidationError
	if errors.As(err, &verr) {
		status := http.StatusUnprocessableEntity
		if verr.Kind == appointment.KindAppointmentConflict {
			status = http.StatusConflict
		}

		var ctx any
		if verr.Conflict != nil {
			ctx = ConflictContext{
				AppointmentID:   verr.Conflict.ID,
				Time:            verr.Conflict.Start.String(),
				DurationMinutes: verr.Conflict.DurationMinutes,
			}
		}
		writeErrorContext(w, status, string(verr.Kind), verr.Error(), ctx)
		return
	}

	switch {
	case errors.Is(err, appointment.ErrPatientNotFound),
		errors.Is(err, appointment.ErrDentistNotFound),
		errors.Is(err, appointment.ErrServiceNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, patient.ErrNotFound),
		errors.Is(err, catalog.ErrServiceNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, invoice.ErrNotFound),
		errors.Is(err, staff.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())

	case errors.Is(err, appointment.ErrScheduleBusy):
		writeError(w, http.StatusConflict, "schedule_busy", "the schedule is being modified, please retry shortly")

	case errors.Is(err, catalog.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())

	case errors.Is(err, catalog.ErrDuplicateSKU),
		errors.Is(err, staff.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate", err.Error())

	case errors.Is(err, invoice.ErrPaymentExceedsBalance):
		writeError(w, http.StatusUnprocessableEntity, "payment_exceeds_balance", err.Error())

	case errors.Is(err, patient.ErrInvalidInput),
		errors.Is(err, catalog.ErrInvalidInput),
		errors.Is(err, invoice.ErrInvalidInput),
		errors.Is(err, staff.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())

	case errors.Is(err, staff.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
