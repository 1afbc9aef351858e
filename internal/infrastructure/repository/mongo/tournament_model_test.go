package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
)

func TestTournamentDocumentMapping(t *testing.T) {
	deadline := time.Date(2026, 1, 15, 17, 0, 0, 0, time.UTC)
	src := tournament.Tournament{
		ID:              "TOUR_202601151800_A1B2",
		Name:            "Evening Showdown",
		Type:            tournament.TypeSquad,
		Schedule:        time.Date(2026, 1, 15, 18, 0, 0, 0, time.UTC),
		Map:             "Erangel",
		EntryFee:        50,
		Prize:           tournament.PrizeStructure{Type: tournament.PrizeKillBased, PerKill: 25, TopKillerBonus: 200},
		Status:          tournament.StatusUpcoming,
		Participants:    []string{"u1", "u2"},
		MinParticipants: 2,
		MaxParticipants: 16,
		Winners: []tournament.Winner{
			{Position: "1", UserID: "u1", Kills: 7, Prize: 300},
		},
		RegistrationDeadline: &deadline,
		CreatedBy:            "admin-1",
	}

	out, err := newTournamentDocument(src).toDomain()
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestTournamentDocumentMarksEmptyRoster(t *testing.T) {
	doc := newTournamentDocument(tournament.Tournament{ID: "TOUR_X", Type: tournament.TypeSolo})

	// A nil roster would drop the participants field from the document
	// and break the $size capacity filter.
	require.NotNil(t, doc.Participants)
	assert.Empty(t, doc.Participants)
}

func TestTournamentDocumentRejectsCorruptRecords(t *testing.T) {
	bad := tournamentDocument{ID: "TOUR_X", Type: "trio", Status: "upcoming"}
	_, err := bad.toDomain()
	require.Error(t, err)

	bad = tournamentDocument{ID: "TOUR_X", Type: "solo", Status: "archived"}
	_, err = bad.toDomain()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown status")
}
