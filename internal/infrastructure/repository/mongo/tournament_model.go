package mongo

import (
	"fmt"
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
)

// tournamentDocument is the persisted shape; the natural tournament id is
// the document key. Mapping through this struct keeps invalid stored data
// at the boundary instead of leaking zero values into the domain.
type tournamentDocument struct {
	ID                   string           `bson:"_id"`
	Name                 string           `bson:"name"`
	Type                 string           `bson:"type"`
	Schedule             time.Time        `bson:"schedule"`
	Map                  string           `bson:"map"`
	Description          string           `bson:"description,omitempty"`
	Rules                []string         `bson:"rules,omitempty"`
	EntryFee             float64          `bson:"entry_fee"`
	Prize                prizeDocument    `bson:"prize"`
	UPIID                string           `bson:"upi_id,omitempty"`
	RoomID               string           `bson:"room_id,omitempty"`
	RoomPassword         string           `bson:"room_password,omitempty"`
	Status               string           `bson:"status"`
	Participants         []string         `bson:"participants"`
	MaxParticipants      int              `bson:"max_participants"`
	MinParticipants      int              `bson:"min_participants"`
	Winners              []winnerDocument `bson:"winners,omitempty"`
	RegistrationDeadline *time.Time       `bson:"registration_deadline,omitempty"`
	CreatedAt            time.Time        `bson:"created_at"`
	UpdatedAt            time.Time        `bson:"updated_at"`
	CreatedBy            string           `bson:"created_by"`
}

type prizeDocument struct {
	Type           string  `bson:"type"`
	PerKill        float64 `bson:"per_kill,omitempty"`
	TopKillerBonus float64 `bson:"top_killer_bonus,omitempty"`
	First          float64 `bson:"first,omitempty"`
	Second         float64 `bson:"second,omitempty"`
	Third          float64 `bson:"third,omitempty"`
	WinnersAmount  float64 `bson:"winners_amount,omitempty"`
}

type winnerDocument struct {
	Position string  `bson:"position"`
	UserID   string  `bson:"user_id"`
	Kills    int     `bson:"kills"`
	Prize    float64 `bson:"prize"`
}

func newTournamentDocument(t tournament.Tournament) tournamentDocument {
	winners := make([]winnerDocument, 0, len(t.Winners))
	for _, w := range t.Winners {
		winners = append(winners, winnerDocument(w))
	}
	participants := t.Participants
	if participants == nil {
		participants = []string{}
	}

	return tournamentDocument{
		ID:       t.ID,
		Name:     t.Name,
		Type:     string(t.Type),
		Schedule: t.Schedule,
		Map:      t.Map,

		Description: t.Description,
		Rules:       t.Rules,
		EntryFee:    t.EntryFee,
		Prize: prizeDocument{
			Type:           string(t.Prize.Type),
			PerKill:        t.Prize.PerKill,
			TopKillerBonus: t.Prize.TopKillerBonus,
			First:          t.Prize.First,
			Second:         t.Prize.Second,
			Third:          t.Prize.Third,
			WinnersAmount:  t.Prize.WinnersAmount,
		},
		UPIID:                t.UPIID,
		RoomID:               t.RoomID,
		RoomPassword:         t.RoomPassword,
		Status:               string(t.Status),
		Participants:         participants,
		MaxParticipants:      t.MaxParticipants,
		MinParticipants:      t.MinParticipants,
		Winners:              winners,
		RegistrationDeadline: t.RegistrationDeadline,
		CreatedAt:            t.CreatedAt,
		UpdatedAt:            t.UpdatedAt,
		CreatedBy:            t.CreatedBy,
	}
}

func (d tournamentDocument) toDomain() (tournament.Tournament, error) {
	tournamentType, err := tournament.ParseType(d.Type)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("tournament %s: %w", d.ID, err)
	}

	switch tournament.Status(d.Status) {
	case tournament.StatusUpcoming, tournament.StatusLive, tournament.StatusCompleted, tournament.StatusCancelled:
	default:
		return tournament.Tournament{}, fmt.Errorf("tournament %s: unknown status %q", d.ID, d.Status)
	}

	winners := make([]tournament.Winner, 0, len(d.Winners))
	for _, w := range d.Winners {
		winners = append(winners, tournament.Winner(w))
	}

	return tournament.Tournament{
		ID:       d.ID,
		Name:     d.Name,
		Type:     tournamentType,
		Schedule: d.Schedule,
		Map:      d.Map,

		Description: d.Description,
		Rules:       d.Rules,
		EntryFee:    d.EntryFee,
		Prize: tournament.PrizeStructure{
			Type:           tournament.PrizeType(d.Prize.Type),
			PerKill:        d.Prize.PerKill,
			TopKillerBonus: d.Prize.TopKillerBonus,
			First:          d.Prize.First,
			Second:         d.Prize.Second,
			Third:          d.Prize.Third,
			WinnersAmount:  d.Prize.WinnersAmount,
		},
		UPIID:                d.UPIID,
		RoomID:               d.RoomID,
		RoomPassword:         d.RoomPassword,
		Status:               tournament.Status(d.Status),
		Participants:         d.Participants,
		MaxParticipants:      d.MaxParticipants,
		MinParticipants:      d.MinParticipants,
		Winners:              winners,
		RegistrationDeadline: d.RegistrationDeadline,
		CreatedAt:            d.CreatedAt,
		UpdatedAt:            d.UpdatedAt,
		CreatedBy:            d.CreatedBy,
	}, nil
}
