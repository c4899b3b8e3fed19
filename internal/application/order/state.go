package order

import (
	"github.com/turtacn/titleorder/pkg/errors"
)

// State is the phase of an order session.
type State string

const (
	StateIdle            State = "idle"
	StateMatterValidated State = "matter_validated"
	StateSearching       State = "searching"
	StateVerified        State = "verified"
	StatePaginating      State = "paginating"
	StateSelecting       State = "selecting"
	StatePlacing         State = "placing"
	StatePlaced          State = "placed"
	// StateError is entered on a recoverable failure; the session accepts new
	// searches and selections from it.
	StateError State = "error"
	// StateAborted is the unrecoverable error state.
	StateAborted State = "aborted"
)

func (s State) String() string { return string(s) }

// Terminal reports whether no further event is accepted.
func (s State) Terminal() bool { return s == StatePlaced || s == StateAborted }

// Event drives a State change.
type Event string

const (
	EventMatterValidated    Event = "matter_validated"
	EventSearchStarted      Event = "search_started"
	EventPageRequested      Event = "page_requested"
	EventResultsReceived    Event = "results_received"
	EventItemChosen         Event = "item_chosen"
	EventPlacementStarted   Event = "placement_started"
	EventPlacementCompleted Event = "placement_completed"
	EventFailed             Event = "failed"
	EventFatal              Event = "fatal"
	EventReset              Event = "reset"
)

func (e Event) String() string { return string(e) }

// transitions lists every legal (state, event) pair.  EventFailed, EventFatal
// and EventReset are handled generically for non-terminal states.
var transitions = map[State]map[Event]State{
	StateIdle: {
		EventMatterValidated: StateMatterValidated,
	},
	StateMatterValidated: {
		EventMatterValidated: StateMatterValidated,
		EventSearchStarted:   StateSearching,
		EventItemChosen:      StateSelecting,
	},
	StateSearching: {
		EventMatterValidated:  StateSearching,
		EventSearchStarted:    StateSearching,
		EventPageRequested:    StatePaginating,
		EventResultsReceived:  StateVerified,
		EventItemChosen:       StateSelecting,
		EventPlacementStarted: StatePlacing,
	},
	StateVerified: {
		EventMatterValidated:  StateVerified,
		EventSearchStarted:    StateSearching,
		EventPageRequested:    StatePaginating,
		EventResultsReceived:  StateVerified,
		EventItemChosen:       StateSelecting,
		EventPlacementStarted: StatePlacing,
	},
	StatePaginating: {
		EventMatterValidated:  StatePaginating,
		EventSearchStarted:    StateSearching,
		EventPageRequested:    StatePaginating,
		EventResultsReceived:  StateVerified,
		EventItemChosen:       StateSelecting,
		EventPlacementStarted: StatePlacing,
	},
	StateSelecting: {
		EventMatterValidated:  StateSelecting,
		EventSearchStarted:    StateSearching,
		EventPageRequested:    StatePaginating,
		EventResultsReceived:  StateSelecting,
		EventItemChosen:       StateSelecting,
		EventPlacementStarted: StatePlacing,
	},
	StatePlacing: {
		EventPlacementCompleted: StatePlaced,
	},
	StateError: {
		EventMatterValidated:  StateMatterValidated,
		EventSearchStarted:    StateSearching,
		EventPageRequested:    StatePaginating,
		EventResultsReceived:  StateVerified,
		EventItemChosen:       StateSelecting,
		EventPlacementStarted: StatePlacing,
	},
	StatePlaced:  {},
	StateAborted: {},
}

// Transition returns the state reached from s on e.  It is a pure function of
// the transition table.
func Transition(s State, e Event) (State, error) {
	table, ok := transitions[s]
	if !ok {
		return s, errors.New(errors.CodeInvalidTransition, "unknown session state").WithDetail(string(s))
	}
	if !s.Terminal() {
		switch e {
		case EventFailed:
			return StateError, nil
		case EventFatal:
			return StateAborted, nil
		case EventReset:
			return StateIdle, nil
		}
	}
	next, ok := table[e]
	if !ok {
		return s, errors.New(errors.CodeInvalidTransition, errors.DefaultMessageForCode(errors.CodeInvalidTransition)).
			WithDetail(string(e) + " in state " + string(s))
	}
	return next, nil
}
