package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dentaworks/practice-api/internal/appointment"
)

type appointmentHandlers struct {
	svc *appointment.Service
}

// parseProposal turns the wire request into a validator proposal. Malformed
// ids/dates/times are client errors; absent ones are left at zero values so
// the validator can report which required field is missing.
func parseProposal(w http.ResponseWriter, req AppointmentRequest) (appointment.Proposal, appointment.Type, bool) {
	p := appointment.Proposal{
		DurationMinutes: req.Duration,
		Start:           appointment.ClockUnset,
	}

	var err error
	if req.PatientID != "" {
		if p.PatientID, err = uuid.Parse(req.PatientID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return p, "", false
		}
	}
	if req.DentistID != "" {
		if p.DentistID, err = uuid.Parse(req.DentistID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_dentist_id", "dentist_id must be a valid UUID")
			return p, "", false
		}
	}
	if req.ServiceID != "" {
		if p.ServiceID, err = uuid.Parse(req.ServiceID); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return p, "", false
		}
	}
	if req.Date != "" {
		if p.Date, err = time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return p, "", false
		}
	}
	if req.Time != "" {
		if p.Start, err = appointment.ParseClock(req.Time); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_time", "time must be HH:MM")
			return p, "", false
		}
	}

	apptType := appointment.Type(req.Type)
	if apptType == "" {
		apptType = appointment.TypeCheckup
	}
	if !appointment.ValidType(apptType) {
		writeError(w, http.StatusBadRequest, "invalid_type", "unknown appointment type")
		return p, "", false
	}

	return p, apptType, true
}

func (h *appointmentHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	p, apptType, ok := parseProposal(w, req)
	if !ok {
		return
	}

	appt, err := h.svc.Book(r.Context(), p, apptType, req.Notes)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return
	}

	appt, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

// list serves both the dentist-day view (dentist_id + date) and a patient's
// history (patient_id).
func (h *appointmentHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if pid := q.Get("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		limit, _ := strconv.Atoi(q.Get("limit"))
		offset, _ := strconv.Atoi(q.Get("offset"))

		appts, err := h.svc.ListByPatient(r.Context(), patientID, limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
		return
	}

	dentistID, err := uuid.Parse(q.Get("dentist_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_dentist_id", "dentist_id must be a valid UUID")
		return
	}
	day, err := time.Parse("2006-01-02", q.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	appts, err := h.svc.ListDay(r.Context(), dentistID, day)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAppointmentResponses(appts))
}

func (h *appointmentHandlers) reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return
	}

	var req AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	p, apptType, ok := parseProposal(w, req)
	if !ok {
		return
	}

	appt, err := h.svc.Reschedule(r.Context(), id, p, apptType, req.Notes)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}

func (h *appointmentHandlers) changeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_appointment_id", "id must be a valid UUID")
		return
	}

	var req StatusChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	target := appointment.Status(req.TargetStatus)
	if !appointment.ValidStatus(target) {
		writeError(w, http.StatusBadRequest, "invalid_status", "unknown target status")
		return
	}

	appt, err := h.svc.ChangeStatus(r.Context(), id, target, req.Reason)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toAppointmentResponse(appt))
}
