package id

import (
	"crypto/rand"
	"fmt"
	"time"
)

const (
	tournamentPrefix = "TOUR"
	suffixCharset    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	digitCharset     = "0123456789"
	passwordCharset  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Generator creates the opaque identifiers used across the bot: tournament
// ids readable enough for admins to quote in chat, numeric room ids and
// room passwords matching the in-game custom-room format.
type Generator interface {
	TournamentID(now time.Time) (string, error)
	RoomCredentials() (roomID string, password string, err error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// TournamentID yields ids like TOUR_202608311530_7KQ2: sortable by creation
// minute with a random suffix to avoid collisions within the same minute.
func (g *RandomGenerator) TournamentID(now time.Time) (string, error) {
	suffix, err := randomString(suffixCharset, 4)
	if err != nil {
		return "", fmt.Errorf("generate tournament id: %w", err)
	}
	return fmt.Sprintf("%s_%s_%s", tournamentPrefix, now.Format("200601021504"), suffix), nil
}

func (g *RandomGenerator) RoomCredentials() (string, string, error) {
	roomID, err := randomString(digitCharset, 6)
	if err != nil {
		return "", "", fmt.Errorf("generate room id: %w", err)
	}
	password, err := randomString(passwordCharset, 8)
	if err != nil {
		return "", "", fmt.Errorf("generate room password: %w", err)
	}
	return roomID, password, nil
}

// ReferralCode derives the stable referral code for a user id.
func ReferralCode(userID string) string {
	return "REF" + userID
}

func randomString(charset string, n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = charset[int(b)%len(charset)]
	}
	return string(buf), nil
}
