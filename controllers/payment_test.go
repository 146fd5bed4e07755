package controllers

import (
	"testing"

	"github.com/medibook/appointment-api/models"
)

func TestChargeAmountCents(t *testing.T) {
	tests := []struct {
		fee  float64
		want int64
	}{
		{50, 5000},
		{49.99, 4999},
		{0.1, 10},
		{0, 0},
		{0.07, 7}, // rounds, never truncates
	}

	for _, tt := range tests {
		if got := chargeAmountCents(tt.fee); got != tt.want {
			t.Errorf("chargeAmountCents(%v) = %d, want %d", tt.fee, got, tt.want)
		}
	}
}

func TestConfirmRequiresRecordedCheckout(t *testing.T) {
	appt := &models.Appointment{}
	if matchesRecordedIntent(appt, "pi_anything") {
		t.Error("an appointment with no recorded checkout must reject every intent id")
	}

	appt.PaymentIntentID = "pi_123"
	if matchesRecordedIntent(appt, "pi_456") {
		t.Error("a foreign intent id must not confirm the appointment")
	}
	if !matchesRecordedIntent(appt, "pi_123") {
		t.Error("the intent recorded at checkout must be accepted")
	}
}
