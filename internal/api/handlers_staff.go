package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dentaworks/practice-api/internal/staff"
)

type staffHandlers struct {
	svc *staff.Service
}

func (h *staffHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	u := &staff.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      staff.Role(req.Role),
		Specialty: req.Specialty,
	}

	created, err := h.svc.Create(r.Context(), u, req.Password)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(created))
}

func (h *staffHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
		return
	}

	u, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h *staffHandlers) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
		return
	}

	var req StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	u := &staff.User{
		ID:        id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      staff.Role(req.Role),
		Specialty: req.Specialty,
	}

	updated, err := h.svc.Update(r.Context(), u)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

func (h *staffHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	role := staff.Role(q.Get("role"))
	if role != "" && !staff.ValidRole(role) {
		writeError(w, http.StatusBadRequest, "invalid_role", "unknown staff role")
		return
	}

	users, err := h.svc.List(r.Context(), role, q.Get("include_inactive") == "true")
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *staffHandlers) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_user_id", "id must be a valid UUID")
		return
	}

	if err := h.svc.Deactivate(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
