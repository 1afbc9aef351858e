package id

import (
	"strings"
	"testing"
	"time"
)

func TestTournamentID(t *testing.T) {
	g := NewRandomGenerator()
	now := time.Date(2026, 8, 31, 15, 30, 0, 0, time.UTC)

	id, err := g.TournamentID(now)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasPrefix(id, "TOUR_202608311530_") {
		t.Fatalf("unexpected id %q", id)
	}
	if len(id) != len("TOUR_202608311530_")+4 {
		t.Fatalf("unexpected suffix length in %q", id)
	}

	other, err := g.TournamentID(now)
	if err != nil {
		t.Fatalf("generate second: %v", err)
	}
	if id == other {
		t.Fatalf("expected random suffixes to differ, got %q twice", id)
	}
}

func TestRoomCredentials(t *testing.T) {
	g := NewRandomGenerator()

	roomID, password, err := g.RoomCredentials()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(roomID) != 6 {
		t.Fatalf("unexpected room id %q", roomID)
	}
	for _, r := range roomID {
		if r < '0' || r > '9' {
			t.Fatalf("room id must be numeric, got %q", roomID)
		}
	}
	if len(password) != 8 {
		t.Fatalf("unexpected password length %q", password)
	}
}

func TestReferralCode(t *testing.T) {
	if code := ReferralCode("7001"); code != "REF7001" {
		t.Fatalf("unexpected code %q", code)
	}
}
