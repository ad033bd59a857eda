package booking

import (
	"testing"

	"condominio-server/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from string
		to   string
		want bool
	}{
		{models.ReservationPending, models.ReservationConfirmed, true},
		{models.ReservationPending, models.ReservationRejected, true},
		{models.ReservationPending, models.ReservationCancelled, true},
		{models.ReservationPending, models.ReservationCompleted, false},
		{models.ReservationConfirmed, models.ReservationCompleted, true},
		{models.ReservationConfirmed, models.ReservationCancelled, true},
		{models.ReservationConfirmed, models.ReservationPending, false},
		{models.ReservationConfirmed, models.ReservationRejected, false},
		{models.ReservationCancelled, models.ReservationPending, false},
		{models.ReservationCompleted, models.ReservationCancelled, false},
		{models.ReservationRejected, models.ReservationConfirmed, false},
		{"", models.ReservationConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	terminal := []string{models.ReservationCancelled, models.ReservationCompleted, models.ReservationRejected}
	for _, state := range terminal {
		if !IsTerminal(state) {
			t.Errorf("IsTerminal(%q) = false, want true", state)
		}
	}
	for _, state := range []string{models.ReservationPending, models.ReservationConfirmed} {
		if IsTerminal(state) {
			t.Errorf("IsTerminal(%q) = true, want false", state)
		}
	}
	if IsTerminal("desconocido") {
		t.Error("unknown state reported as terminal")
	}
}

func TestBlocks(t *testing.T) {
	if !Blocks(models.ReservationPending) || !Blocks(models.ReservationConfirmed) {
		t.Error("pending and confirmed reservations must block their slot")
	}
	for _, state := range []string{models.ReservationCancelled, models.ReservationCompleted, models.ReservationRejected} {
		if Blocks(state) {
			t.Errorf("Blocks(%q) = true, want false", state)
		}
	}
}
