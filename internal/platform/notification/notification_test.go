package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func TestDispatchDeliversAsync(t *testing.T) {
	sender := &MockSender{}
	d := NewDispatcher(sender, zerolog.Nop())
	userID := uuid.New()

	d.Dispatch(context.Background(), Notification{
		UserID:  userID,
		Title:   "Appointment confirmed",
		Message: "See you Monday.",
		Type:    TypeAppointment,
	})
	d.Wait()

	calls := sender.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(calls))
	}
	if calls[0].UserID != userID {
		t.Errorf("sent to wrong user")
	}
	if calls[0].Priority != PriorityNormal {
		t.Errorf("priority should default to normal, got %s", calls[0].Priority)
	}

	listed := d.ListByUser(userID, 10)
	if len(listed) != 1 {
		t.Fatalf("expected 1 stored notification, got %d", len(listed))
	}
	if listed[0].Status != "sent" {
		t.Errorf("status = %s, want sent", listed[0].Status)
	}
}

func TestDispatchSwallowsSenderFailure(t *testing.T) {
	sender := &MockSender{ShouldFail: true, FailError: "smtp down"}
	d := NewDispatcher(sender, zerolog.Nop())
	userID := uuid.New()

	// Dispatch must not return or panic on sender failure.
	d.Dispatch(context.Background(), Notification{
		UserID:   userID,
		Title:    "Appointment cancelled",
		Type:     TypeCancellation,
		Priority: PriorityHigh,
	})
	d.Wait()

	listed := d.ListByUser(userID, 10)
	if len(listed) != 1 {
		t.Fatalf("expected the failed notification to be recorded, got %d", len(listed))
	}
	if listed[0].Status != "failed" {
		t.Errorf("status = %s, want failed", listed[0].Status)
	}
	if listed[0].Error != "smtp down" {
		t.Errorf("error = %q, want smtp down", listed[0].Error)
	}

	stats := d.Stats()
	if stats["failed"] != 1 {
		t.Errorf("stats[failed] = %d, want 1", stats["failed"])
	}
}

func TestDispatchAssignsIDs(t *testing.T) {
	d := NewDispatcher(&MockSender{}, zerolog.Nop())
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		d.Dispatch(context.Background(), Notification{UserID: userID, Title: "t", Type: TypeSystem})
	}
	d.Wait()

	seen := make(map[uuid.UUID]bool)
	for _, n := range d.ListByUser(userID, 10) {
		if n.ID == uuid.Nil {
			t.Error("notification left without an id")
		}
		if seen[n.ID] {
			t.Error("duplicate notification id")
		}
		seen[n.ID] = true
		if _, err := d.Get(n.ID); err != nil {
			t.Errorf("Get(%s): %v", n.ID, err)
		}
	}
}

func TestListByUserLimit(t *testing.T) {
	d := NewDispatcher(&MockSender{}, zerolog.Nop())
	userID := uuid.New()
	for i := 0; i < 5; i++ {
		d.Dispatch(context.Background(), Notification{UserID: userID, Title: "t", Type: TypeSystem})
	}
	d.Dispatch(context.Background(), Notification{UserID: uuid.New(), Title: "other", Type: TypeSystem})
	d.Wait()

	if got := len(d.ListByUser(userID, 3)); got != 3 {
		t.Errorf("limit not applied, got %d", got)
	}
	if got := len(d.ListByUser(userID, 100)); got != 5 {
		t.Errorf("expected 5 for user, got %d", got)
	}
}
