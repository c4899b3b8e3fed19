package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/titleorder/pkg/errors"
)

func TestTransition_HappyPath(t *testing.T) {
	steps := []struct {
		event Event
		want  State
	}{
		{EventMatterValidated, StateMatterValidated},
		{EventSearchStarted, StateSearching},
		{EventResultsReceived, StateVerified},
		{EventPageRequested, StatePaginating},
		{EventResultsReceived, StateVerified},
		{EventItemChosen, StateSelecting},
		{EventPlacementStarted, StatePlacing},
		{EventPlacementCompleted, StatePlaced},
	}
	s := StateIdle
	for _, step := range steps {
		next, err := Transition(s, step.event)
		require.NoError(t, err, "%s on %s", s, step.event)
		assert.Equal(t, step.want, next)
		s = next
	}
	assert.True(t, s.Terminal())
}

func TestTransition_ErrorReachableFromEveryNonTerminalState(t *testing.T) {
	for s := range transitions {
		if s.Terminal() {
			continue
		}
		next, err := Transition(s, EventFailed)
		require.NoError(t, err)
		assert.Equal(t, StateError, next, s)

		next, err = Transition(s, EventFatal)
		require.NoError(t, err)
		assert.Equal(t, StateAborted, next, s)

		next, err = Transition(s, EventReset)
		require.NoError(t, err)
		assert.Equal(t, StateIdle, next, s)
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	events := []Event{
		EventMatterValidated, EventSearchStarted, EventPageRequested, EventResultsReceived,
		EventItemChosen, EventPlacementStarted, EventPlacementCompleted, EventFailed, EventFatal, EventReset,
	}
	for _, s := range []State{StatePlaced, StateAborted} {
		for _, e := range events {
			next, err := Transition(s, e)
			require.Error(t, err, "%s on %s", s, e)
			assert.True(t, errors.IsCode(err, errors.CodeInvalidTransition))
			assert.Equal(t, s, next)
		}
	}
}

func TestTransition_Rejections(t *testing.T) {
	tests := []struct {
		from  State
		event Event
	}{
		{StateIdle, EventSearchStarted},
		{StateIdle, EventPlacementStarted},
		{StateMatterValidated, EventPageRequested},
		{StatePlacing, EventSearchStarted},
		{StatePlacing, EventItemChosen},
		{StateVerified, EventPlacementCompleted},
	}
	for _, tt := range tests {
		_, err := Transition(tt.from, tt.event)
		assert.True(t, errors.IsCode(err, errors.CodeInvalidTransition), "%s on %s", tt.from, tt.event)
	}
}

func TestTransition_RecoverFromError(t *testing.T) {
	for _, e := range []Event{EventSearchStarted, EventPageRequested, EventItemChosen, EventPlacementStarted, EventMatterValidated} {
		_, err := Transition(StateError, e)
		assert.NoError(t, err, e)
	}
}

func TestTransition_UnknownState(t *testing.T) {
	_, err := Transition(State("bogus"), EventReset)
	assert.True(t, errors.IsCode(err, errors.CodeInvalidTransition))
}
