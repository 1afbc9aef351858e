package mongo

import (
	"time"

	"github.com/dumwala/tournament-bot/internal/domain/user"
)

type userDocument struct {
	ID            string  `bson:"_id"`
	Username      string  `bson:"username,omitempty"`
	FirstName     string  `bson:"first_name"`
	LastName      string  `bson:"last_name,omitempty"`
	Paid          bool    `bson:"paid"`
	Confirmed     bool    `bson:"confirmed"`
	Banned        bool    `bson:"banned"`
	BanReason     string  `bson:"ban_reason,omitempty"`
	Balance       float64 `bson:"balance"`
	ReferralCode  string  `bson:"referral_code"`
	ReferredBy    string  `bson:"referred_by,omitempty"`
	ReferralCount int     `bson:"referral_count"`

	TotalTournaments  int      `bson:"total_tournaments"`
	TotalWins         int      `bson:"total_wins"`
	TotalKills        int      `bson:"total_kills"`
	TotalEarnings     float64  `bson:"total_earnings"`
	TournamentHistory []string `bson:"tournament_history,omitempty"`

	CreatedAt  time.Time `bson:"created_at"`
	UpdatedAt  time.Time `bson:"updated_at"`
	LastActive time.Time `bson:"last_active"`
}

func newUserDocument(u user.User) userDocument {
	return userDocument{
		ID:            u.ID,
		Username:      u.Username,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Paid:          u.Paid,
		Confirmed:     u.Confirmed,
		Banned:        u.Banned,
		BanReason:     u.BanReason,
		Balance:       u.Balance,
		ReferralCode:  u.ReferralCode,
		ReferredBy:    u.ReferredBy,
		ReferralCount: u.ReferralCount,

		TotalTournaments:  u.TotalTournaments,
		TotalWins:         u.TotalWins,
		TotalKills:        u.TotalKills,
		TotalEarnings:     u.TotalEarnings,
		TournamentHistory: u.TournamentHistory,

		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
		LastActive: u.LastActive,
	}
}

func (d userDocument) toDomain() user.User {
	return user.User{
		ID:            d.ID,
		Username:      d.Username,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Paid:          d.Paid,
		Confirmed:     d.Confirmed,
		Banned:        d.Banned,
		BanReason:     d.BanReason,
		Balance:       d.Balance,
		ReferralCode:  d.ReferralCode,
		ReferredBy:    d.ReferredBy,
		ReferralCount: d.ReferralCount,

		TotalTournaments:  d.TotalTournaments,
		TotalWins:         d.TotalWins,
		TotalKills:        d.TotalKills,
		TotalEarnings:     d.TotalEarnings,
		TournamentHistory: d.TournamentHistory,

		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
		LastActive: d.LastActive,
	}
}
