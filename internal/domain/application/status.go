// Status graph for a job application:
//
//	pending ──seekerAccept──► seeker_accepted ──providerAccept──► both_accepted
//	pending ──providerAccept──► provider_accepted ──seekerAccept──► both_accepted
//	pending|seeker_accepted|provider_accepted ──providerReject──► rejected
//
// both_accepted and rejected are terminal. Reaching both_accepted is the
// only trigger for chat channel provisioning.
package application

import (
	"fmt"

	"jobportal/internal/common"
)

type Status string

const (
	StatusPending          Status = "pending"
	StatusSeekerAccepted   Status = "seeker_accepted"
	StatusProviderAccepted Status = "provider_accepted"
	StatusBothAccepted     Status = "both_accepted"
	StatusRejected         Status = "rejected"
)

// ParseStatus converts a raw string to a Status, rejecting unknown values.
// Statuses are matched exactly: no case folding, no substring checks.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusSeekerAccepted, StatusProviderAccepted, StatusBothAccepted, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// IsTerminal reports whether the status permits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusBothAccepted || s == StatusRejected
}

type Action string

const (
	ActionSeekerAccept   Action = "seeker_accept"
	ActionProviderAccept Action = "provider_accept"
	ActionProviderReject Action = "provider_reject"
)

// transitions lists every allowed (status, action) pair and its outcome.
var transitions = map[Status]map[Action]Status{
	StatusPending: {
		ActionSeekerAccept:   StatusSeekerAccepted,
		ActionProviderAccept: StatusProviderAccepted,
		ActionProviderReject: StatusRejected,
	},
	StatusSeekerAccepted: {
		ActionProviderAccept: StatusBothAccepted,
		ActionProviderReject: StatusRejected,
	},
	StatusProviderAccepted: {
		ActionSeekerAccept:   StatusBothAccepted,
		ActionProviderReject: StatusRejected,
	},
	// both_accepted and rejected have no outgoing transitions
}

// Transition is the pure state machine: it maps (current, action) to the
// next status and reports whether the move unlocks chat provisioning.
// An illegal pair returns a validation error and leaves nothing mutated.
func Transition(current Status, action Action) (Status, bool, error) {
	allowed, ok := transitions[current]
	if !ok {
		return "", false, common.NewError(common.CodeValidation,
			fmt.Sprintf("application status is final, %s is not allowed", action), nil)
	}
	next, ok := allowed[action]
	if !ok {
		return "", false, common.NewError(common.CodeValidation,
			fmt.Sprintf("transition %s is not allowed from status %s", action, current), nil)
	}
	return next, next == StatusBothAccepted, nil
}

// CanWithdraw reports whether the seeker may hard-delete the record.
// Once the application is terminal only soft hiding is permitted.
func CanWithdraw(s Status) bool {
	switch s {
	case StatusPending, StatusSeekerAccepted, StatusProviderAccepted:
		return true
	default:
		return false
	}
}

// CanHide reports whether a finished application may be soft-removed from
// an actor's list view.
func CanHide(s Status) bool {
	return s == StatusBothAccepted || s == StatusRejected
}
