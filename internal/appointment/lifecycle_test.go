package appointment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition_Allowed(t *testing.T) {
	tests := []struct {
		from, to Status
		reason   string
	}{
		{StatusScheduled, StatusConfirmed, ""},
		{StatusScheduled, StatusInProgress, ""},
		{StatusScheduled, StatusCompleted, ""},
		{StatusScheduled, StatusCancelled, "patient request"},
		{StatusScheduled, StatusNoShow, ""},
		{StatusConfirmed, StatusInProgress, ""},
		{StatusConfirmed, StatusCompleted, ""},
		{StatusConfirmed, StatusCancelled, "dentist unavailable"},
		{StatusConfirmed, StatusNoShow, ""},
		{StatusInProgress, StatusCompleted, ""},
		{StatusInProgress, StatusCancelled, "equipment failure"},
	}

	for _, tt := range tests {
		assert.NoError(t, Transition(tt.from, tt.to, tt.reason), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransition_TerminalStatesAreFinal(t *testing.T) {
	terminal := []Status{StatusCompleted, StatusCancelled, StatusNoShow}
	all := []Status{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	}

	for _, from := range terminal {
		for _, to := range all {
			err := Transition(from, to, "some reason")
			if from == to {
				assert.NoError(t, err, "%s -> %s should be a no-op", from, to)
				continue
			}
			verr := assertRejected(t, err, KindInvalidTransition)
			require.NotNil(t, verr)
		}
	}
}

func TestTransition_IllegalPairs(t *testing.T) {
	tests := []struct{ from, to Status }{
		{StatusInProgress, StatusScheduled},
		{StatusInProgress, StatusConfirmed},
		{StatusInProgress, StatusNoShow},
		{StatusConfirmed, StatusScheduled},
	}

	for _, tt := range tests {
		assertRejected(t, Transition(tt.from, tt.to, "r"), KindInvalidTransition)
	}
}

func TestTransition_CancelRequiresReason(t *testing.T) {
	assertRejected(t, Transition(StatusScheduled, StatusCancelled, ""), KindMissingReason)
	assertRejected(t, Transition(StatusScheduled, StatusCancelled, "   "), KindMissingReason)
	assert.NoError(t, Transition(StatusScheduled, StatusCancelled, "patient request"))
}

func TestTransition_SameStatusNoOp(t *testing.T) {
	for _, s := range []Status{
		StatusScheduled, StatusConfirmed, StatusInProgress,
		StatusCompleted, StatusCancelled, StatusNoShow,
	} {
		assert.NoError(t, Transition(s, s, ""))
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusScheduled.Terminal())
	assert.False(t, StatusConfirmed.Terminal())
	assert.False(t, StatusInProgress.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.True(t, StatusNoShow.Terminal())
}
