package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dentaworks/practice-api/internal/invoice"
)

type invoiceHandlers struct {
	svc *invoice.Service
}

func (h *invoiceHandlers) create(w http.ResponseWriter, r *http.Request) {
	var req InvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
		return
	}

	inv := &invoice.Invoice{
		PatientID:     patientID,
		DiscountCents: req.DiscountCents,
		TaxCents:      req.TaxCents,
		Notes:         req.Notes,
	}

	if req.AppointmentID != "" {
		apptID, err := uuid.Parse(req.AppointmentID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_appointment_id", "appointment_id must be a valid UUID")
			return
		}
		inv.AppointmentID = &apptID
	}

	if req.IssueDate != "" {
		issued, err := time.Parse("2006-01-02", req.IssueDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_issue_date", "issue_date must be YYYY-MM-DD")
			return
		}
		inv.IssueDate = issued
	}

	for _, it := range req.Items {
		item := invoice.Item{
			Description:    it.Description,
			Quantity:       it.Quantity,
			UnitPriceCents: it.UnitPriceCents,
		}
		if it.ServiceID != "" {
			sid, err := uuid.Parse(it.ServiceID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_service_id", "item service_id must be a valid UUID")
				return
			}
			item.ServiceID = &sid
		}
		if it.ProductID != "" {
			pid, err := uuid.Parse(it.ProductID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_product_id", "item product_id must be a valid UUID")
				return
			}
			item.ProductID = &pid
		}
		inv.Items = append(inv.Items, item)
	}

	created, err := h.svc.Create(r.Context(), inv)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toInvoiceResponse(created))
}

func (h *invoiceHandlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_invoice_id", "id must be a valid UUID")
		return
	}

	inv, err := h.svc.Get(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h *invoiceHandlers) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	if pid := q.Get("patient_id"); pid != "" {
		patientID, err := uuid.Parse(pid)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_patient_id", "patient_id must be a valid UUID")
			return
		}
		invoices, err := h.svc.ListByPatient(r.Context(), patientID, limit, offset)
		if err != nil {
			handleDomainError(w, err)
			return
		}
		writeInvoices(w, invoices)
		return
	}

	from, err := time.Parse("2006-01-02", q.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_from", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", q.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_to", "to must be YYYY-MM-DD")
		return
	}

	invoices, err := h.svc.ListByDateRange(r.Context(), from, to, limit, offset)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeInvoices(w, invoices)
}

func writeInvoices(w http.ResponseWriter, invoices []invoice.Invoice) {
	resp := make([]InvoiceResponse, 0, len(invoices))
	for i := range invoices {
		resp = append(resp, toInvoiceResponse(&invoices[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *invoiceHandlers) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_invoice_id", "id must be a valid UUID")
		return
	}

	var req PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
		return
	}

	inv, err := h.svc.RecordPayment(r.Context(), id, req.AmountCents, req.Method)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}
