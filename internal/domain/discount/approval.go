package discount

import "github.com/go-faster/errors"

// ApprovalState models the lifecycle of a discount that needs staff sign-off
// before it affects a bill. A customer applying such a discount moves the
// bill to ApprovalRequested; only a staff actor can resolve the request, and
// an approval behaves exactly like a direct application. Removal returns any
// state to ApprovalNone.
type ApprovalState string

const (
	ApprovalNone      ApprovalState = "NONE"
	ApprovalRequested ApprovalState = "REQUESTED"
	ApprovalApproved  ApprovalState = "APPROVED"
	ApprovalRejected  ApprovalState = "REJECTED"
)

// ErrInvalidApprovalTransition is returned for transitions outside the
// state machine.
var ErrInvalidApprovalTransition = errors.New("invalid approval state transition")

var approvalTransitions = map[ApprovalState][]ApprovalState{
	ApprovalNone:      {ApprovalRequested},
	ApprovalRequested: {ApprovalApproved, ApprovalRejected},
	ApprovalApproved:  {},
	ApprovalRejected:  {},
}

// CanTransition reports whether moving from s to next is allowed. Explicit
// removal back to ApprovalNone is allowed from every state.
func (s ApprovalState) CanTransition(next ApprovalState) bool {
	if next == ApprovalNone {
		return true
	}
	for _, allowed := range approvalTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next if the move is allowed, or
// ErrInvalidApprovalTransition otherwise.
func (s ApprovalState) Transition(next ApprovalState) (ApprovalState, error) {
	if !s.CanTransition(next) {
		return s, errors.Wrapf(ErrInvalidApprovalTransition, "%s -> %s", s, next)
	}
	return next, nil
}
