package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dentaworks/practice-api/internal/analytics"
)

type analyticsHandlers struct {
	svc *analytics.Service
}

// parseRange reads from/to query params, defaulting to the last 30 days.
func parseRange(r *http.Request) (time.Time, time.Time, error) {
	q := r.URL.Query()

	to := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	from := to.AddDate(0, 0, -30)

	if v := q.Get("from"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = parsed.AddDate(0, 0, 1)
	}
	return from, to, nil
}

func (h *analyticsHandlers) appointments(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date_range", "from and to must be YYYY-MM-DD")
		return
	}

	summary, err := h.svc.AppointmentSummary(r.Context(), from, to)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *analyticsHandlers) revenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date_range", "from and to must be YYYY-MM-DD")
		return
	}

	months, err := h.svc.Revenue(r.Context(), from, to)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, months)
}

func (h *analyticsHandlers) topServices(w http.ResponseWriter, r *http.Request) {
	from, to, err := parseRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date_range", "from and to must be YYYY-MM-DD")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	usage, err := h.svc.TopServices(r.Context(), from, to, limit)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}
