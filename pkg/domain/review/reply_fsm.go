package review

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration.
// These must remain as untyped string constants for statekit.StateID compatibility.
// Values are kept in sync with ReviewStatus constants in status.go.
const (
	StatePending = "pending"
	StateReplied = "replied"
	StateIgnored = "ignored"
)

// init validates at startup that FSM state constants match ReviewStatus values.
// This ensures the FSM and value object stay in sync.
func init() {
	stateMap := map[string]ReviewStatus{
		StatePending: StatusPending,
		StateReplied: StatusReplied,
		StateIgnored: StatusIgnored,
	}

	for fsmState, status := range stateMap {
		if fsmState != string(status) {
			panic(fmt.Sprintf("FSM state %q does not match ReviewStatus %q - constants are out of sync", fsmState, status))
		}
	}
}

// ReplyContext carries state data.
type ReplyContext struct {
	ReviewID string
	Guard    func(reviewID string, event string) bool
}

// ReplyStateMachine defines the valid reply lifecycle transitions.
type ReplyStateMachine struct {
	interpreter *statekit.Interpreter[ReplyContext]
}

// NewReplyStateMachine builds the machine for one review. The guard is consulted on
// the approve event; the lifecycle manager uses it to require a present AI
// suggestion before approving verbatim.
func NewReplyStateMachine(initialState string, reviewID string, guard func(string, string) bool) (*ReplyStateMachine, error) {
	if guard == nil {
		guard = func(string, string) bool { return true }
	}

	builder := statekit.NewMachine[ReplyContext]("reply-machine").
		WithInitial(statekit.StateID(initialState)).
		WithContext(ReplyContext{
			ReviewID: reviewID,
			Guard:    guard,
		}).
		WithGuard("suggestionGuard", func(ctx ReplyContext, e statekit.Event) bool {
			return ctx.Guard(ctx.ReviewID, string(e.Type))
		})

	// Pending state: the only state with outgoing transitions
	builder.State(StatePending).
		On(EventApprove).Target(StateReplied).Guard("suggestionGuard").
		On(EventReply).Target(StateReplied).
		On(EventIgnore).Target(StateIgnored).
		Done()

	// Replied state (terminal)
	builder.State(StateReplied).
		Done()

	// Ignored state (terminal)
	builder.State(StateIgnored).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ReplyStateMachine{interpreter: interpreter}, nil
}

// Transition attempts to move the review to a new state.
func (sm *ReplyStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before != after {
		return nil
	}

	// In statekit, if no transition matches or a guard fails, the state stays the
	// same, so an unchanged state means the event was rejected.
	return fmt.Errorf("the action '%s' is not allowed while the review is in the '%s' state", event, before)
}

func (sm *ReplyStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// CurrentStatus returns the current state as a ReviewStatus value object.
func (sm *ReplyStateMachine) CurrentStatus() ReviewStatus {
	return ReviewStatus(sm.Current())
}

// CanTransition checks if the given event is valid for the current state.
// This delegates to the ReviewStatus value object for consistency.
func (sm *ReplyStateMachine) CanTransition(event string) bool {
	return sm.CurrentStatus().CanTransitionWith(event)
}

// ValidEvents returns the valid events for the current state.
func (sm *ReplyStateMachine) ValidEvents() []string {
	return sm.CurrentStatus().ValidEvents()
}

// IsFinal returns true if the current state is a final state.
func (sm *ReplyStateMachine) IsFinal() bool {
	return sm.CurrentStatus().IsFinal()
}
