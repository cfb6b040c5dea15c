package swap

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNextStatusTable(t *testing.T) {
	cases := []struct {
		current Status
		action  Action
		next    Status
		ok      bool
	}{
		{StatusPending, ActionAccept, StatusAccepted, true},
		{StatusPending, ActionCounterOffer, StatusCounterOffer, true},
		{StatusPending, ActionCancel, StatusCancelled, true},
		{StatusPending, ActionAcceptCounterOffer, "", false},
		{StatusPending, ActionComplete, "", false},
		{StatusCounterOffer, ActionAcceptCounterOffer, StatusAccepted, true},
		{StatusCounterOffer, ActionCancel, StatusCancelled, true},
		{StatusCounterOffer, ActionAccept, "", false},
		{StatusAccepted, ActionComplete, StatusCompleted, true},
		{StatusAccepted, ActionCancel, StatusCancelled, true},
		{StatusAccepted, ActionAccept, "", false},
		{StatusCompleted, ActionCancel, "", false},
		{StatusCompleted, ActionComplete, "", false},
		{StatusCancelled, ActionAccept, "", false},
		{StatusCancelled, ActionCancel, "", false},
	}
	for _, c := range cases {
		next, err := NextStatus(c.current, c.action)
		if c.ok {
			if err != nil {
				t.Fatalf("%s + %s: unexpected error %v", c.current, c.action, err)
			}
			if next != c.next {
				t.Fatalf("%s + %s: expected %s, got %s", c.current, c.action, c.next, next)
			}
			continue
		}
		if err != ErrInvalidTransition {
			t.Fatalf("%s + %s: expected ErrInvalidTransition, got %v", c.current, c.action, err)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusCounterOffer, StatusAccepted} {
		if s.IsTerminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
}

func TestCanCancel(t *testing.T) {
	requester := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()
	for _, status := range []Status{StatusPending, StatusCounterOffer, StatusAccepted, StatusCompleted, StatusCancelled} {
		s := &SwapRequest{RequesterID: requester, OwnerID: owner, Status: status}
		wantParty := !status.IsTerminal()
		if got := CanCancel(s, requester); got != wantParty {
			t.Fatalf("status %s requester: expected %v, got %v", status, wantParty, got)
		}
		if got := CanCancel(s, owner); got != wantParty {
			t.Fatalf("status %s owner: expected %v, got %v", status, wantParty, got)
		}
		if CanCancel(s, stranger) {
			t.Fatalf("status %s: stranger must never cancel", status)
		}
	}
}

func TestPermissionPredicates(t *testing.T) {
	requester := uuid.New()
	owner := uuid.New()

	pending := &SwapRequest{RequesterID: requester, OwnerID: owner, Status: StatusPending}
	if !CanAccept(pending, owner) || CanAccept(pending, requester) {
		t.Fatal("only the owner may accept a pending request")
	}
	if !CanCounterOffer(pending, owner) || CanCounterOffer(pending, requester) {
		t.Fatal("only the owner may counter-offer a pending request")
	}
	if CanAcceptCounterOffer(pending, requester) {
		t.Fatal("no counter-offer to accept while pending")
	}

	countered := &SwapRequest{RequesterID: requester, OwnerID: owner, Status: StatusCounterOffer}
	if !CanAcceptCounterOffer(countered, requester) || CanAcceptCounterOffer(countered, owner) {
		t.Fatal("only the requester may accept a counter-offer")
	}
	if CanAccept(countered, owner) {
		t.Fatal("a countered request can no longer be accepted directly")
	}
}

func TestCanComplete(t *testing.T) {
	requester := uuid.New()
	owner := uuid.New()
	now := time.Now().UTC()

	s := &SwapRequest{RequesterID: requester, OwnerID: owner, Status: StatusAccepted}
	if !CanComplete(s, requester) || !CanComplete(s, owner) {
		t.Fatal("both parties may confirm an accepted swap")
	}
	if CanComplete(s, uuid.New()) {
		t.Fatal("a stranger may never confirm completion")
	}

	s.RequesterCompletedAt = &now
	if CanComplete(s, requester) {
		t.Fatal("requester already confirmed")
	}
	if !CanComplete(s, owner) {
		t.Fatal("owner confirmation still outstanding")
	}

	s.Status = StatusPending
	s.RequesterCompletedAt = nil
	if CanComplete(s, requester) {
		t.Fatal("completion requires ACCEPTED status")
	}
}

func TestCompletionStateOf(t *testing.T) {
	now := time.Now().UTC()
	cases := []struct {
		requester *time.Time
		owner     *time.Time
		state     CompletionState
	}{
		{nil, nil, AwaitingBoth},
		{&now, nil, AwaitingOwner},
		{nil, &now, AwaitingRequester},
		{&now, &now, FullyCompleted},
	}
	for _, c := range cases {
		s := &SwapRequest{RequesterCompletedAt: c.requester, OwnerCompletedAt: c.owner}
		if got := s.CompletionStateOf(); got != c.state {
			t.Fatalf("expected %s, got %s", c.state, got)
		}
	}
}

func TestValidateRating(t *testing.T) {
	for _, r := range []int{1, 3, 5} {
		if err := ValidateRating(r); err != nil {
			t.Fatalf("rating %d should be valid", r)
		}
	}
	for _, r := range []int{0, -1, 6, 100} {
		if err := ValidateRating(r); err != ErrValidation {
			t.Fatalf("rating %d should be rejected", r)
		}
	}
}

func TestValidateMessage(t *testing.T) {
	if err := ValidateMessage(nil); err != nil {
		t.Fatal("nil message is valid")
	}
	short := "looking to trade"
	if err := ValidateMessage(&short); err != nil {
		t.Fatal("short message is valid")
	}
	long := make([]byte, MessageMaxLen+1)
	for i := range long {
		long[i] = 'a'
	}
	msg := string(long)
	if err := ValidateMessage(&msg); err != ErrValidation {
		t.Fatal("over-long message should be rejected")
	}
}
