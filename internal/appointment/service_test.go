package appointment

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentaworks/practice-api/internal/config"
	"github.com/dentaworks/practice-api/internal/redisclient"
)

// fakeRepo is an in-memory Repository for service tests.
type fakeRepo struct {
	patients map[uuid.UUID]bool
	dentists map[uuid.UUID]bool
	services map[uuid.UUID]bool
	appts    map[uuid.UUID]*Appointment
	events   []EventLog
	seq      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		patients: map[uuid.UUID]bool{},
		dentists: map[uuid.UUID]bool{},
		services: map[uuid.UUID]bool{},
		appts:    map[uuid.UUID]*Appointment{},
	}
}

func (r *fakeRepo) PatientExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.patients[id], nil
}

func (r *fakeRepo) DentistExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.dentists[id], nil
}

func (r *fakeRepo) ServiceExists(_ context.Context, id uuid.UUID) (bool, error) {
	return r.services[id], nil
}

func (r *fakeRepo) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := r.appts[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeRepo) ListDaySlots(_ context.Context, dentistID uuid.UUID, day time.Time) ([]DaySlot, error) {
	var slots []DaySlot
	for _, a := range r.appts {
		if a.DentistID == dentistID && a.Date.Equal(day) {
			slots = append(slots, DaySlot{
				ID:              a.ID,
				Start:           a.Start,
				DurationMinutes: a.DurationMinutes,
				Status:          a.Status,
			})
		}
	}
	return slots, nil
}

func (r *fakeRepo) ListByDentistDay(_ context.Context, dentistID uuid.UUID, day time.Time) ([]Appointment, error) {
	var result []Appointment
	for _, a := range r.appts {
		if a.DentistID == dentistID && a.Date.Equal(day) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]Appointment, error) {
	var result []Appointment
	for _, a := range r.appts {
		if a.PatientID == patientID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, a *Appointment) (*Appointment, error) {
	r.seq++
	cp := *a
	cp.ID = uuid.New()
	cp.Number = fmt.Sprintf("APT-%s-%04d", a.Date.Format("20060102"), r.seq)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.appts[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (r *fakeRepo) UpdateSchedule(_ context.Context, a *Appointment) (*Appointment, error) {
	cur, ok := r.appts[a.ID]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	cur.PatientID = a.PatientID
	cur.DentistID = a.DentistID
	cur.ServiceID = a.ServiceID
	cur.Date = a.Date
	cur.Start = a.Start
	cur.DurationMinutes = a.DurationMinutes
	cur.Type = a.Type
	cur.Notes = a.Notes
	cur.UpdatedAt = time.Now()
	cp := *cur
	return &cp, nil
}

func (r *fakeRepo) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to Status, cancelReason *string) (*Appointment, error) {
	cur, ok := r.appts[id]
	if !ok || cur.Status != from {
		return nil, ErrAppointmentNotFound
	}
	cur.Status = to
	if cancelReason != nil {
		cur.CancelReason = cancelReason
	}
	cur.UpdatedAt = time.Now()
	cp := *cur
	return &cp, nil
}

func (r *fakeRepo) FindOverdue(_ context.Context, cutoff time.Time) ([]Appointment, error) {
	var result []Appointment
	for _, a := range r.appts {
		if a.Status != StatusScheduled && a.Status != StatusConfirmed {
			continue
		}
		end := a.Date.Add(time.Duration(a.Start+Clock(a.DurationMinutes)) * time.Minute)
		if end.Before(cutoff) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeRepo) InsertEvent(_ context.Context, ev EventLog) error {
	r.events = append(r.events, ev)
	return nil
}

// fakeLocker runs the critical section inline, or refuses when busy.
type fakeLocker struct {
	busy  bool
	calls int
}

func (l *fakeLocker) WithScheduleLock(ctx context.Context, _ uuid.UUID, _ time.Time, fn func(ctx context.Context) error) error {
	l.calls++
	if l.busy {
		return redisclient.ErrLockNotAcquired
	}
	return fn(ctx)
}

func testConfig() config.Config {
	return config.Config{
		BusinessStart:  8 * 60,
		BusinessEnd:    18 * 60,
		MaxAdvanceDays: 365,
		NoShowGrace:    30 * time.Minute,
	}
}

func newTestService(repo *fakeRepo, locker *fakeLocker) *Service {
	svc := NewService(repo, locker, testConfig(), zap.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func seededProposal(repo *fakeRepo) Proposal {
	p := Proposal{
		PatientID:       uuid.New(),
		DentistID:       uuid.New(),
		ServiceID:       uuid.New(),
		Date:            time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
		Start:           9 * 60,
		DurationMinutes: 30,
	}
	repo.patients[p.PatientID] = true
	repo.dentists[p.DentistID] = true
	repo.services[p.ServiceID] = true
	return p
}

func TestServiceBook(t *testing.T) {
	repo := newFakeRepo()
	locker := &fakeLocker{}
	svc := newTestService(repo, locker)
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "first visit")
	require.NoError(t, err)

	assert.Equal(t, StatusScheduled, appt.Status)
	assert.Equal(t, "APT-20250610-0001", appt.Number)
	assert.Equal(t, TypeCheckup, appt.Type)
	assert.Equal(t, 1, locker.calls)

	require.Len(t, repo.events, 1)
	assert.Equal(t, EventAppointmentBooked, repo.events[0].EventType)
}

func TestServiceBook_Conflict(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	_, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	overlapping := p
	overlapping.Start = 9*60 + 15
	_, err = svc.Book(context.Background(), overlapping, TypeCleaning, "")
	assertRejected(t, err, KindAppointmentConflict)
}

func TestServiceBook_CancelledSlotIsFree(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	first, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), first.ID, StatusCancelled, "patient request")
	require.NoError(t, err)

	again := p
	again.Start = 9*60 + 15
	_, err = svc.Book(context.Background(), again, TypeCheckup, "")
	assert.NoError(t, err)
}

func TestServiceBook_UnknownReferences(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	unknownPatient := p
	unknownPatient.PatientID = uuid.New()
	_, err := svc.Book(context.Background(), unknownPatient, TypeCheckup, "")
	assert.ErrorIs(t, err, ErrPatientNotFound)

	unknownDentist := p
	unknownDentist.DentistID = uuid.New()
	_, err = svc.Book(context.Background(), unknownDentist, TypeCheckup, "")
	assert.ErrorIs(t, err, ErrDentistNotFound)

	unknownService := p
	unknownService.ServiceID = uuid.New()
	_, err = svc.Book(context.Background(), unknownService, TypeCheckup, "")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestServiceBook_LockBusy(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{busy: true})
	p := seededProposal(repo)

	_, err := svc.Book(context.Background(), p, TypeCheckup, "")
	assert.ErrorIs(t, err, ErrScheduleBusy)
}

func TestServiceReschedule(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	// Shift by 15 minutes into its own old window. Excluding itself makes
	// this legal.
	moved := p
	moved.Start = 9*60 + 15
	updated, err := svc.Reschedule(context.Background(), appt.ID, moved, TypeCheckup, "")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*60+15), updated.Start)
}

func TestServiceReschedule_PatientChangePersists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	// Rebook the slot for someone else, e.g. a family member.
	moved := p
	moved.PatientID = uuid.New()
	repo.patients[moved.PatientID] = true

	updated, err := svc.Reschedule(context.Background(), appt.ID, moved, TypeCheckup, "")
	require.NoError(t, err)
	assert.Equal(t, moved.PatientID, updated.PatientID)

	stored, err := svc.Get(context.Background(), appt.ID)
	require.NoError(t, err)
	assert.Equal(t, moved.PatientID, stored.PatientID)
}

func TestServiceReschedule_TerminalRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	_, err = svc.ChangeStatus(context.Background(), appt.ID, StatusCompleted, "")
	require.NoError(t, err)

	_, err = svc.Reschedule(context.Background(), appt.ID, p, TypeCheckup, "")
	assertRejected(t, err, KindInvalidTransition)
}

func TestServiceChangeStatus(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	// Cancel without a reason fails.
	_, err = svc.ChangeStatus(context.Background(), appt.ID, StatusCancelled, "")
	assertRejected(t, err, KindMissingReason)

	// With a reason it lands, and the reason is stored.
	cancelled, err := svc.ChangeStatus(context.Background(), appt.ID, StatusCancelled, "patient request")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "patient request", *cancelled.CancelReason)

	// Terminal now.
	_, err = svc.ChangeStatus(context.Background(), appt.ID, StatusCompleted, "")
	assertRejected(t, err, KindInvalidTransition)
}

func TestServiceChangeStatus_SameStatusNoOp(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})
	p := seededProposal(repo)

	appt, err := svc.Book(context.Background(), p, TypeCheckup, "")
	require.NoError(t, err)

	eventsBefore := len(repo.events)
	same, err := svc.ChangeStatus(context.Background(), appt.ID, StatusScheduled, "")
	require.NoError(t, err)
	assert.Equal(t, StatusScheduled, same.Status)
	assert.Len(t, repo.events, eventsBefore, "no-op must not emit an event")
}

func TestServiceMarkOverdueNoShows(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, &fakeLocker{})

	dentist := uuid.New()
	repo.dentists[dentist] = true

	// One appointment well in the past, one upcoming.
	old := &Appointment{
		ID: uuid.New(), PatientID: uuid.New(), DentistID: dentist, ServiceID: uuid.New(),
		Date: testNow.AddDate(0, 0, -2), Start: 9 * 60, DurationMinutes: 30,
		Status: StatusConfirmed,
	}
	upcoming := &Appointment{
		ID: uuid.New(), PatientID: uuid.New(), DentistID: dentist, ServiceID: uuid.New(),
		Date: testNow.AddDate(0, 0, 2), Start: 9 * 60, DurationMinutes: 30,
		Status: StatusScheduled,
	}
	repo.appts[old.ID] = old
	repo.appts[upcoming.ID] = upcoming

	flagged, err := svc.MarkOverdueNoShows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, flagged)

	assert.Equal(t, StatusNoShow, repo.appts[old.ID].Status)
	assert.Equal(t, StatusScheduled, repo.appts[upcoming.ID].Status)
}
