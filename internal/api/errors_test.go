package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentaworks/practice-api/internal/appointment"
	"github.com/dentaworks/practice-api/internal/catalog"
	"github.com/dentaworks/practice-api/internal/staff"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestHandleDomainErrorValidation(t *testing.T) {
	rec := httptest.NewRecorder()
	handleDomainError(rec, &appointment.ValidationError{
		Kind:  appointment.KindOutsideBusinessHours,
		Field: "time",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "outside_business_hours", resp.Error)
}

func TestHandleDomainErrorConflict(t *testing.T) {
	conflictID := uuid.New()
	start, err := appointment.ParseClock("09:00")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handleDomainError(rec, &appointment.ValidationError{
		Kind: appointment.KindAppointmentConflict,
		Conflict: &appointment.DaySlot{
			ID:              conflictID,
			Start:           start,
			DurationMinutes: 30,
		},
	})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var resp struct {
		Error   string          `json:"error"`
		Context ConflictContext `json:"context"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "appointment_conflict", resp.Error)
	assert.Equal(t, conflictID, resp.Context.AppointmentID)
	assert.Equal(t, "09:00", resp.Context.Time)
	assert.Equal(t, 30, resp.Context.DurationMinutes)
}

func TestHandleDomainErrorWrapped(t *testing.T) {
	// Services wrap repository sentinels; the mapping must still see them.
	rec := httptest.NewRecorder()
	handleDomainError(rec, fmt.Errorf("get appointment: %w", appointment.ErrAppointmentNotFound))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error)
}

func TestHandleDomainErrorSentinels(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{appointment.ErrScheduleBusy, http.StatusConflict, "schedule_busy"},
		{catalog.ErrInsufficientStock, http.StatusConflict, "insufficient_stock"},
		{catalog.ErrDuplicateSKU, http.StatusConflict, "duplicate"},
		{staff.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
		{staff.ErrNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tc := range tests {
		rec := httptest.NewRecorder()
		handleDomainError(rec, tc.err)

		assert.Equal(t, tc.status, rec.Code, "error %v", tc.err)
		assert.Equal(t, tc.code, decodeError(t, rec).Error, "error %v", tc.err)
	}
}

func TestHandleDomainErrorUnknown(t *testing.T) {
	rec := httptest.NewRecorder()
	handleDomainError(rec, fmt.Errorf("connection reset"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error)
}

func TestRequirePermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guard := RequirePermission(staff.PermManageStaff)(next)

	withUser := func(role staff.Role) *http.Request {
		req := httptest.NewRequest("GET", "/staff", nil)
		user := &staff.User{ID: uuid.New(), Role: role}
		return req.WithContext(context.WithValue(req.Context(), userKey, user))
	}

	t.Run("allowed role passes through", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, withUser(staff.RoleAdmin))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("lacking role gets 403", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, withUser(staff.RoleReceptionist))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "forbidden", decodeError(t, rec).Error)
	})

	t.Run("missing user gets 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		guard.ServeHTTP(rec, httptest.NewRequest("GET", "/staff", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
