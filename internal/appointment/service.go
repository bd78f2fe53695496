package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dentaworks/practice-api/internal/config"
	"github.com/dentaworks/practice-api/internal/redisclient"
)

const (
	EventAppointmentBooked      = "APPOINTMENT_BOOKED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventStatusChanged          = "STATUS_CHANGED"
	EventAppointmentNoShow      = "APPOINTMENT_NO_SHOW"
)

var (
	// ErrScheduleBusy means another booking for the same dentist and day holds
	// the lock. Retryable.
	ErrScheduleBusy = errors.New("schedule is currently being modified, please retry")
)

type Service struct {
	repo        Repository
	locker      redisclient.Locker
	rules       Rules
	noShowGrace time.Duration
	log         *zap.Logger

	// now is swappable in tests
	now func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config, log *zap.Logger) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		rules: Rules{
			BusinessStart:  Clock(cfg.BusinessStart),
			BusinessEnd:    Clock(cfg.BusinessEnd),
			MaxAdvanceDays: cfg.MaxAdvanceDays,
		},
		noShowGrace: cfg.NoShowGrace,
		log:         log,
		now:         time.Now,
	}
}

// Rules exposes the configured scheduling bounds, e.g. for client display.
func (s *Service) Rules() Rules {
	return s.rules
}

// Book validates a proposal against the dentist's day and persists it. The
// validate-then-insert sequence runs under a per-dentist/day Redis lock so two
// concurrent proposals cannot both pass the conflict check.
func (s *Service) Book(ctx context.Context, p Proposal, apptType Type, notes string) (*Appointment, error) {
	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	var created *Appointment

	err := s.locker.WithScheduleLock(ctx, p.DentistID, p.Date, func(lockCtx context.Context) error {
		existing, err := s.repo.ListDaySlots(lockCtx, p.DentistID, p.Date)
		if err != nil {
			return fmt.Errorf("load day slots: %w", err)
		}

		if err := s.rules.Validate(p, existing, s.now()); err != nil {
			return err
		}

		appt, err := s.repo.CreateAppointment(lockCtx, &Appointment{
			PatientID:       p.PatientID,
			DentistID:       p.DentistID,
			ServiceID:       p.ServiceID,
			Date:            p.Date,
			Start:           p.Start,
			DurationMinutes: p.DurationMinutes,
			Status:          StatusScheduled,
			Type:            apptType,
			Notes:           notes,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, map[string]any{
			"number":     appt.Number,
			"dentist_id": p.DentistID.String(),
			"patient_id": p.PatientID.String(),
			"date":       p.Date.Format("2006-01-02"),
			"time":       p.Start.String(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return created, nil
}

// Reschedule re-validates and moves an existing appointment. The appointment
// itself is excluded from the conflict check so it cannot collide with its own
// old slot. Terminal appointments cannot be rescheduled.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, p Proposal, apptType Type, notes string) (*Appointment, error) {
	current, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() {
		return nil, &ValidationError{Kind: KindInvalidTransition}
	}

	if err := s.checkReferences(ctx, p); err != nil {
		return nil, err
	}

	p.Exclude = id

	var updated *Appointment

	err = s.locker.WithScheduleLock(ctx, p.DentistID, p.Date, func(lockCtx context.Context) error {
		existing, err := s.repo.ListDaySlots(lockCtx, p.DentistID, p.Date)
		if err != nil {
			return fmt.Errorf("load day slots: %w", err)
		}

		if err := s.rules.Validate(p, existing, s.now()); err != nil {
			return err
		}

		appt, err := s.repo.UpdateSchedule(lockCtx, &Appointment{
			ID:              id,
			PatientID:       p.PatientID,
			DentistID:       p.DentistID,
			ServiceID:       p.ServiceID,
			Date:            p.Date,
			Start:           p.Start,
			DurationMinutes: p.DurationMinutes,
			Type:            apptType,
			Notes:           notes,
		})
		if err != nil {
			return fmt.Errorf("update schedule: %w", err)
		}

		updated = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentRescheduled, map[string]any{
			"date": p.Date.Format("2006-01-02"),
			"time": p.Start.String(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return updated, nil
}

// ChangeStatus applies one lifecycle transition. Transitioning to the current
// status is a no-op success.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, target Status, reason string) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Transition(appt.Status, target, reason); err != nil {
		return nil, err
	}

	if appt.Status == target {
		return appt, nil
	}

	var cancelReason *string
	if target == StatusCancelled {
		cancelReason = &reason
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, id, appt.Status, target, cancelReason)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Guarded update lost a race with another status change.
			return nil, &ValidationError{Kind: KindInvalidTransition}
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	payload := map[string]any{
		"from": string(appt.Status),
		"to":   string(target),
	}
	if cancelReason != nil {
		payload["reason"] = *cancelReason
	}
	s.logEvent(ctx, updated.ID, EventStatusChanged, payload)

	return updated, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetAppointmentByID(ctx, id)
}

// ListDay returns a dentist's appointments for one date, chronological.
func (s *Service) ListDay(ctx context.Context, dentistID uuid.UUID, day time.Time) ([]Appointment, error) {
	appts, err := s.repo.ListByDentistDay(ctx, dentistID, day)
	if err != nil {
		return nil, fmt.Errorf("list day: %w", err)
	}
	return appts, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 20 // default
	}
	if limit > 100 {
		limit = 100 // max
	}
	if offset < 0 {
		offset = 0
	}

	appts, err := s.repo.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments by patient: %w", err)
	}
	return appts, nil
}

// MarkOverdueNoShows is intended to be called by the worker periodically. It
// flags scheduled/confirmed appointments whose end passed longer than the
// grace period ago.
func (s *Service) MarkOverdueNoShows(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.noShowGrace)

	overdue, err := s.repo.FindOverdue(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("find overdue appointments: %w", err)
	}

	flagged := 0
	for _, appt := range overdue {
		if err := Transition(appt.Status, StatusNoShow, ""); err != nil {
			continue
		}
		_, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, appt.Status, StatusNoShow, nil)
		if err != nil {
			if !errors.Is(err, ErrAppointmentNotFound) {
				s.log.Warn("failed to flag no-show", zap.String("appointment_id", appt.ID.String()), zap.Error(err))
			}
			continue
		}
		flagged++
		s.logEvent(ctx, appt.ID, EventAppointmentNoShow, map[string]any{
			"reason": "worker",
		})
	}

	return flagged, nil
}

func (s *Service) checkReferences(ctx context.Context, p Proposal) error {
	// The validator reports unset ids itself; only resolve the ones present.
	if p.PatientID != uuid.Nil {
		ok, err := s.repo.PatientExists(ctx, p.PatientID)
		if err != nil {
			return fmt.Errorf("check patient: %w", err)
		}
		if !ok {
			return ErrPatientNotFound
		}
	}
	if p.DentistID != uuid.Nil {
		ok, err := s.repo.DentistExists(ctx, p.DentistID)
		if err != nil {
			return fmt.Errorf("check dentist: %w", err)
		}
		if !ok {
			return ErrDentistNotFound
		}
	}
	if p.ServiceID != uuid.Nil {
		ok, err := s.repo.ServiceExists(ctx, p.ServiceID)
		if err != nil {
			return fmt.Errorf("check service: %w", err)
		}
		if !ok {
			return ErrServiceNotFound
		}
	}
	return nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Warn("failed to marshal event payload", zap.String("event", eventType), zap.Error(err))
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Warn("failed to insert event log",
			zap.String("event", eventType),
			zap.String("appointment_id", appointmentID.String()),
			zap.Error(err))
	}
}
