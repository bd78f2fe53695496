package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dentaworks/practice-api/internal/patient"
)

type patientHandlers struct {
	svc *patient.Service
}

func parsePatient(w http.ResponseWriter, req PatientRequest) (*patient.Patient, bool) {
	p := &patient.Patient{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Sex:               req.Sex,
		Phone:             req.Phone,
		Email:             req.Email,
		Address:           req.Address,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceNumber:   req.InsuranceNumber,
		MedicalNotes:      req.MedicalNotes,
	}

	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date_of_birth", "date_of_birth must be YYYY-MM-DD")
			return nil, false
		}
		p.DateOfBirth = &dob
	}

	return p, true
}

func (h *patientHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	p, ok := parsePatient(w, req)
	if !ok {
		return
	}

	created, err := h.svc.Create(r.Context(), p)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPatientResponse(created))
}

func (h *patientHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
		return
	}

	p, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(p))
}

func (h *patientHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
		return
	}

	var req PatientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	p, ok := parsePatient(w, req)
	if !ok {
		return
	}
	p.ID = id

	updated, err := h.svc.Update(r.Context(), p)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toPatientResponse(updated))
}

func (h *patientHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	patients, total, err := h.svc.List(r.Context(), q.Get("search"), limit, offset)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := PatientListResponse{Total: total, Patients: make([]PatientResponse, 0, len(patients))}
	for i := range patients {
		resp.Patients = append(resp.Patients, toPatientResponse(&patients[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *patientHandlers) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "id must be a valid UUID")
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
