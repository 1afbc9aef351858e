package user

import (
	"fmt"
	"strings"
	"time"
)

// ReferralCodePrefix is the fixed prefix of generated referral codes.
const ReferralCodePrefix = "REF"

// User is a chat-platform account as the registry sees it. The paid,
// confirmed and banned flags gate tournament eligibility; the rest is
// profile and lifetime-stats bookkeeping.
type User struct {
	ID            string
	Username      string
	FirstName     string
	LastName      string
	Paid          bool
	Confirmed     bool
	Banned        bool
	BanReason     string
	Balance       float64
	ReferralCode  string
	ReferredBy    string
	ReferralCount int

	TotalTournaments  int
	TotalWins         int
	TotalKills        int
	TotalEarnings     float64
	TournamentHistory []string

	CreatedAt  time.Time
	UpdatedAt  time.Time
	LastActive time.Time
}

func (u User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("user id is required")
	}
	if u.ReferralCode != "" && !strings.HasPrefix(u.ReferralCode, ReferralCodePrefix) {
		return fmt.Errorf("invalid referral code format: %q", u.ReferralCode)
	}
	if u.TotalTournaments < 0 || u.TotalKills < 0 {
		return fmt.Errorf("negative lifetime stats")
	}
	if u.TotalWins > u.TotalTournaments {
		return fmt.Errorf("total wins cannot exceed total tournaments")
	}
	return nil
}

// Eligible reports whether the user may join tournaments: not banned and
// with a confirmed payment on record.
func (u User) Eligible() bool {
	return !u.Banned && u.Paid && u.Confirmed
}

func (u User) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return "User" + u.ID
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

func (u User) WinRate() float64 {
	if u.TotalTournaments == 0 {
		return 0
	}
	return float64(u.TotalWins) / float64(u.TotalTournaments) * 100
}

func (u User) AverageKills() float64 {
	if u.TotalTournaments == 0 {
		return 0
	}
	return float64(u.TotalKills) / float64(u.TotalTournaments)
}

// RecordParticipation appends the tournament to the user's history once.
func (u *User) RecordParticipation(tournamentID string, now time.Time) {
	for _, id := range u.TournamentHistory {
		if id == tournamentID {
			return
		}
	}
	u.TournamentHistory = append(u.TournamentHistory, tournamentID)
	u.TotalTournaments++
	u.UpdatedAt = now
}

// RecordWin credits a win with its kills and earnings; earnings are also
// added to the spendable balance.
func (u *User) RecordWin(kills int, earnings float64, now time.Time) {
	u.TotalWins++
	u.TotalKills += kills
	u.TotalEarnings += earnings
	u.Balance += earnings
	u.UpdatedAt = now
}

// ConfirmPayment marks the user as paid and confirmed, crediting an
// optional balance top-up.
func (u *User) ConfirmPayment(amount float64, now time.Time) {
	u.Paid = true
	u.Confirmed = true
	if amount > 0 {
		u.Balance += amount
	}
	u.UpdatedAt = now
}

func (u *User) Ban(reason string, now time.Time) {
	u.Banned = true
	u.BanReason = reason
	u.UpdatedAt = now
}

func (u *User) Unban(now time.Time) {
	u.Banned = false
	u.BanReason = ""
	u.UpdatedAt = now
}
