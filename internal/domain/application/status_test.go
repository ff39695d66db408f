package application_test

import (
	"testing"

	"jobportal/internal/common"
	"jobportal/internal/domain/application"
)

func TestParseStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "seeker_accepted", "provider_accepted", "both_accepted", "rejected"}
	for _, s := range valid {
		got, err := application.ParseStatus(s)
		if err != nil {
			t.Errorf("ParseStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseStatus_RejectsUnknownAndFuzzyValues(t *testing.T) {
	// Exact matching only: values that a substring or case-insensitive
	// comparison would wrongly accept must fail.
	invalid := []string{"", "PENDING", "Rejected", "not_rejected", " both_accepted", "both_accepted "}
	for _, s := range invalid {
		if _, err := application.ParseStatus(s); err == nil {
			t.Errorf("ParseStatus(%q) expected error, got nil", s)
		}
	}
}

func TestTransition_ValidPaths(t *testing.T) {
	cases := []struct {
		from          application.Status
		action        application.Action
		want          application.Status
		provisionChat bool
	}{
		{application.StatusPending, application.ActionSeekerAccept, application.StatusSeekerAccepted, false},
		{application.StatusPending, application.ActionProviderAccept, application.StatusProviderAccepted, false},
		{application.StatusPending, application.ActionProviderReject, application.StatusRejected, false},
		{application.StatusSeekerAccepted, application.ActionProviderAccept, application.StatusBothAccepted, true},
		{application.StatusSeekerAccepted, application.ActionProviderReject, application.StatusRejected, false},
		{application.StatusProviderAccepted, application.ActionSeekerAccept, application.StatusBothAccepted, true},
		{application.StatusProviderAccepted, application.ActionProviderReject, application.StatusRejected, false},
	}
	for _, c := range cases {
		next, provision, err := application.Transition(c.from, c.action)
		if err != nil {
			t.Errorf("Transition(%s, %s) returned unexpected error: %v", c.from, c.action, err)
			continue
		}
		if next != c.want {
			t.Errorf("Transition(%s, %s) = %s, want %s", c.from, c.action, next, c.want)
		}
		if provision != c.provisionChat {
			t.Errorf("Transition(%s, %s) provisionChat = %v, want %v", c.from, c.action, provision, c.provisionChat)
		}
	}
}

func TestTransition_FromTerminal(t *testing.T) {
	terminals := []application.Status{application.StatusBothAccepted, application.StatusRejected}
	actions := []application.Action{
		application.ActionSeekerAccept,
		application.ActionProviderAccept,
		application.ActionProviderReject,
	}
	for _, from := range terminals {
		for _, action := range actions {
			_, _, err := application.Transition(from, action)
			if err == nil {
				t.Errorf("Transition(%s, %s) should fail (terminal state)", from, action)
			}
			if !common.Is(err, common.CodeValidation) {
				t.Errorf("Transition(%s, %s) error code = %v, want validation", from, action, common.CodeOf(err))
			}
		}
	}
}

func TestTransition_RepeatedAcceptBySameSide(t *testing.T) {
	// The same actor accepting twice is not a legal move.
	cases := []struct {
		from   application.Status
		action application.Action
	}{
		{application.StatusSeekerAccepted, application.ActionSeekerAccept},
		{application.StatusProviderAccepted, application.ActionProviderAccept},
	}
	for _, c := range cases {
		if _, _, err := application.Transition(c.from, c.action); err == nil {
			t.Errorf("Transition(%s, %s) should fail (repeated accept)", c.from, c.action)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := map[application.Status]bool{
		application.StatusPending:          false,
		application.StatusSeekerAccepted:   false,
		application.StatusProviderAccepted: false,
		application.StatusBothAccepted:     true,
		application.StatusRejected:         true,
	}
	for s, want := range terminal {
		if got := s.IsTerminal(); got != want {
			t.Errorf("IsTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestCanWithdraw(t *testing.T) {
	allowed := map[application.Status]bool{
		application.StatusPending:          true,
		application.StatusSeekerAccepted:   true,
		application.StatusProviderAccepted: true,
		application.StatusBothAccepted:     false,
		application.StatusRejected:         false,
	}
	for s, want := range allowed {
		if got := application.CanWithdraw(s); got != want {
			t.Errorf("CanWithdraw(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestCanHide(t *testing.T) {
	allowed := map[application.Status]bool{
		application.StatusPending:          false,
		application.StatusSeekerAccepted:   false,
		application.StatusProviderAccepted: false,
		application.StatusBothAccepted:     true,
		application.StatusRejected:         true,
	}
	for s, want := range allowed {
		if got := application.CanHide(s); got != want {
			t.Errorf("CanHide(%s) = %v, want %v", s, got, want)
		}
	}
}
