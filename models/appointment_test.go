package models

import (
	"testing"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    AppointmentStatus
		to      AppointmentStatus
		allowed bool
	}{
		{StatusBooked, StatusPaid, true},
		{StatusBooked, StatusCompleted, true},
		{StatusBooked, StatusCanceled, true},
		{StatusBooked, StatusBooked, false},
		{StatusPaid, StatusCompleted, true},
		{StatusPaid, StatusCanceled, true},
		{StatusPaid, StatusBooked, false},
		{StatusCompleted, StatusCanceled, false},
		{StatusCompleted, StatusPaid, false},
		{StatusCanceled, StatusBooked, false},
		{StatusCanceled, StatusCompleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if StatusBooked.Terminal() || StatusPaid.Terminal() {
		t.Error("booked and paid must allow further transitions")
	}
	if !StatusCompleted.Terminal() || !StatusCanceled.Terminal() {
		t.Error("completed and canceled must be terminal")
	}
}

func TestCompletionKeepsSlotReserved(t *testing.T) {
	slots := BookedSlots{}
	if !slots.Reserve("2024-01-01", "10:00") {
		t.Fatal("initial reservation failed")
	}

	appt := &Appointment{Status: StatusBooked, SlotDate: "2024-01-01", SlotTime: "10:00"}
	if !appt.Status.CanTransition(StatusCompleted) {
		t.Fatal("booked appointment must be completable")
	}
	appt.Status = StatusCompleted

	// Completion is a pure status change; only cancellation releases the slot
	if !slots.Has(appt.SlotDate, appt.SlotTime) {
		t.Error("completed appointment's slot must stay booked")
	}
	if slots.Reserve(appt.SlotDate, appt.SlotTime) {
		t.Error("completed appointment's slot must not be rebookable")
	}
}

func TestBeforeCreateDefaultsToBooked(t *testing.T) {
	a := &Appointment{}
	if err := a.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate failed: %v", err)
	}
	if a.Status != StatusBooked {
		t.Errorf("default status = %s, want %s", a.Status, StatusBooked)
	}

	b := &Appointment{Status: StatusPaid}
	if err := b.BeforeCreate(nil); err != nil {
		t.Fatalf("BeforeCreate failed: %v", err)
	}
	if b.Status != StatusPaid {
		t.Error("BeforeCreate must not overwrite an explicit status")
	}
}
