package booking

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

func TestCancel_Transitions(t *testing.T) {
	now := time.Now()

	for _, status := range []Status{StatusPending, StatusReserved} {
		b := &models.Booking{Status: string(status)}
		if err := Cancel(b, now); err != nil {
			t.Fatalf("cancel from %s: %v", status, err)
		}
		if b.Status != string(StatusCancelled) || b.CancelledAt == nil {
			t.Fatalf("cancel from %s left booking in %s", status, b.Status)
		}
	}

	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		b := &models.Booking{Status: string(status)}
		if err := Cancel(b, now); !httperr.IsKind(err, httperr.KindValidation) {
			t.Fatalf("cancel from %s: expected validation error, got %v", status, err)
		}
	}
}

func TestComplete_OnlyFromReserved(t *testing.T) {
	now := time.Now()

	b := &models.Booking{Status: string(StatusReserved)}
	if err := Complete(b, now); err != nil {
		t.Fatalf("complete from reserved: %v", err)
	}
	if b.Status != string(StatusCompleted) || b.CompletedAt == nil {
		t.Fatalf("unexpected state after complete: %s", b.Status)
	}

	pending := &models.Booking{Status: string(StatusPending)}
	if err := Complete(pending, now); err == nil {
		t.Fatal("complete from pending should fail")
	}
}

func TestExpire(t *testing.T) {
	now := time.Now()

	past := now.Add(-time.Minute)
	b := &models.Booking{Status: string(StatusPending), ExpiresAt: &past}
	if err := Expire(b, now); err != nil {
		t.Fatalf("expire overdue pending: %v", err)
	}
	if b.Status != string(StatusCancelled) {
		t.Fatalf("expected cancelled, got %s", b.Status)
	}

	future := now.Add(time.Minute)
	notDue := &models.Booking{Status: string(StatusPending), ExpiresAt: &future}
	if err := Expire(notDue, now); err == nil {
		t.Fatal("expire before the deadline should fail")
	}

	reserved := &models.Booking{Status: string(StatusReserved), ExpiresAt: &past}
	if err := Expire(reserved, now); err == nil {
		t.Fatal("expire a reserved booking should fail")
	}
}

func TestOccupies(t *testing.T) {
	if !Occupies(StatusPending) || !Occupies(StatusReserved) {
		t.Fatal("pending and reserved hold the slot")
	}
	if Occupies(StatusCancelled) || Occupies(StatusCompleted) {
		t.Fatal("cancelled and completed do not hold the slot")
	}
}
