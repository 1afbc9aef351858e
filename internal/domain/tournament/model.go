package tournament

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type classifies how participants are grouped into play units.
type Type string

const (
	TypeSolo  Type = "solo"
	TypeDuo   Type = "duo"
	TypeSquad Type = "squad"
)

var AllTypes = map[Type]struct{}{
	TypeSolo:  {},
	TypeDuo:   {},
	TypeSquad: {},
}

func ParseType(raw string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := AllTypes[t]; !ok {
		return "", fmt.Errorf("unknown tournament type: %q", raw)
	}
	return t, nil
}

// Status is the lifecycle state. Transitions are monotonic:
// upcoming -> live -> completed, with upcoming/live -> cancelled also legal.
// completed and cancelled are terminal.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ActiveStatuses are the states a tournament can still change from.
var ActiveStatuses = []Status{StatusUpcoming, StatusLive}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// PrizeType tags the prize structure union.
type PrizeType string

const (
	PrizeKillBased PrizeType = "kill_based"
	PrizeRankBased PrizeType = "rank_based"
	PrizeFixed     PrizeType = "fixed"
)

// PrizeStructure describes how winnings are computed. Only the fields
// matching Type are meaningful.
type PrizeStructure struct {
	Type           PrizeType
	PerKill        float64
	TopKillerBonus float64
	First          float64
	Second         float64
	Third          float64
	WinnersAmount  float64
}

// Winner is one entry of the ordered result list stored on completion.
type Winner struct {
	Position string
	UserID   string
	Kills    int
	Prize    float64
}

// Roster and state-machine failures. The registry maps these to
// user-facing outcomes; ErrAlreadyRegistered is benign (the join is
// already in effect), the rest are hard precondition failures.
var (
	ErrRegistrationClosed       = errors.New("registration closed")
	ErrTournamentFull           = errors.New("tournament is full")
	ErrAlreadyRegistered        = errors.New("user already registered")
	ErrNotRegistered            = errors.New("user not registered")
	ErrInvalidTransition        = errors.New("operation not allowed in current status")
	ErrInsufficientParticipants = errors.New("not enough participants")
)

// DefaultRegistrationLead is how long before the scheduled start
// registration closes when no explicit deadline is set.
const DefaultRegistrationLead = time.Hour

// LiveGracePeriod is how long a live tournament may run before the
// time-based reconciler force-closes it.
const LiveGracePeriod = 3 * time.Hour

// Tournament is the registry's aggregate. The persisted document is the
// authoritative copy; instances are loaded per operation and never shared
// across calls.
type Tournament struct {
	ID              string
	Name            string
	Type            Type
	Schedule        time.Time
	Map             string
	Description     string
	Rules           []string
	EntryFee        float64
	Prize           PrizeStructure
	UPIID           string
	RoomID          string
	RoomPassword    string
	Status          Status
	Participants    []string
	MaxParticipants int
	MinParticipants int
	Winners         []Winner
	// RegistrationDeadline overrides the default schedule-1h cutoff when set.
	RegistrationDeadline *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
	CreatedBy            string
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if _, ok := AllTypes[t.Type]; !ok {
		return fmt.Errorf("unknown tournament type: %q", t.Type)
	}
	if t.MinParticipants <= 0 {
		return fmt.Errorf("minimum participants must be positive")
	}
	if t.MaxParticipants <= t.MinParticipants {
		return fmt.Errorf("maximum participants must be greater than minimum")
	}
	if t.EntryFee < 0 {
		return fmt.Errorf("entry fee cannot be negative")
	}
	return nil
}

func (t Tournament) ParticipantCount() int {
	return len(t.Participants)
}

func (t Tournament) AvailableSlots() int {
	slots := t.MaxParticipants - len(t.Participants)
	if slots < 0 {
		return 0
	}
	return slots
}

func (t Tournament) IsFull() bool {
	return len(t.Participants) >= t.MaxParticipants
}

func (t Tournament) HasParticipant(userID string) bool {
	for _, id := range t.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// RegistrationCutoff is the latest instant a join is accepted: the explicit
// deadline when one is set, otherwise one hour before the scheduled start.
func (t Tournament) RegistrationCutoff() time.Time {
	if t.RegistrationDeadline != nil {
		return *t.RegistrationDeadline
	}
	return t.Schedule.Add(-DefaultRegistrationLead)
}

func (t Tournament) RegistrationOpen(now time.Time) bool {
	if t.Status != StatusUpcoming || t.IsFull() {
		return false
	}
	return now.Before(t.RegistrationCutoff())
}

// CanJoin evaluates join preconditions in registry order and returns the
// first failure. Eligibility (payment, ban) is checked by the caller.
func (t Tournament) CanJoin(userID string, now time.Time) error {
	if t.Status != StatusUpcoming {
		return ErrRegistrationClosed
	}
	if t.IsFull() {
		return ErrTournamentFull
	}
	if t.HasParticipant(userID) {
		return ErrAlreadyRegistered
	}
	if !now.Before(t.RegistrationCutoff()) {
		return ErrRegistrationClosed
	}
	return nil
}

// AddParticipant appends userID to the roster after CanJoin passes. The
// persisted write must still use set semantics; this keeps the in-memory
// copy consistent for the caller.
func (t *Tournament) AddParticipant(userID string, now time.Time) error {
	if err := t.CanJoin(userID, now); err != nil {
		return err
	}
	t.Participants = append(t.Participants, userID)
	t.UpdatedAt = now
	return nil
}

// RemoveParticipant drops userID preserving the order of the rest.
// Allowed while the tournament is upcoming or live.
func (t *Tournament) RemoveParticipant(userID string, now time.Time) error {
	if t.Status != StatusUpcoming && t.Status != StatusLive {
		return ErrInvalidTransition
	}
	for i, id := range t.Participants {
		if id == userID {
			t.Participants = append(t.Participants[:i], t.Participants[i+1:]...)
			t.UpdatedAt = now
			return nil
		}
	}
	return ErrNotRegistered
}

// Start moves upcoming -> live and publishes the room credentials.
func (t *Tournament) Start(roomID, roomPassword string, now time.Time) error {
	if t.Status != StatusUpcoming {
		return ErrInvalidTransition
	}
	if len(t.Participants) < t.MinParticipants {
		return ErrInsufficientParticipants
	}
	t.RoomID = roomID
	t.RoomPassword = roomPassword
	t.Status = StatusLive
	t.UpdatedAt = now
	return nil
}

// Complete moves live -> completed and records the ordered winner list.
func (t *Tournament) Complete(winners []Winner, now time.Time) error {
	if t.Status != StatusLive {
		return ErrInvalidTransition
	}
	t.Winners = winners
	t.Status = StatusCompleted
	t.UpdatedAt = now
	return nil
}

// Cancel moves any non-terminal state to cancelled and annotates the
// description with the reason.
func (t *Tournament) Cancel(reason string, now time.Time) error {
	if t.Status.Terminal() {
		return ErrInvalidTransition
	}
	t.Status = StatusCancelled
	if reason != "" {
		t.Description = "Cancelled: " + reason
	} else {
		t.Description = "Cancelled"
	}
	t.UpdatedAt = now
	return nil
}

// ReconcileByTime applies the time-driven transitions and reports whether
// anything changed. Upcoming tournaments past their schedule go live when
// the minimum roster is met, otherwise they are cancelled. Live tournaments
// past schedule+grace are force-completed without winners; see
// CheckInvariants for why that close is advisory-flagged.
func (t *Tournament) ReconcileByTime(now time.Time) bool {
	switch t.Status {
	case StatusUpcoming:
		if t.Schedule.After(now) {
			return false
		}
		if len(t.Participants) >= t.MinParticipants {
			t.Status = StatusLive
		} else {
			t.Status = StatusCancelled
			t.Description = "Cancelled due to insufficient participants"
		}
		t.UpdatedAt = now
		return true
	case StatusLive:
		if t.Schedule.Add(LiveGracePeriod).After(now) {
			return false
		}
		t.Status = StatusCompleted
		t.UpdatedAt = now
		return true
	default:
		return false
	}
}

// CheckInvariants reports advisory invariant violations on a loaded record.
// A completed tournament with no winners is possible through the time-based
// auto-close and is deliberately not rejected; callers log what this returns.
func (t Tournament) CheckInvariants() []string {
	var out []string
	if t.MaxParticipants <= t.MinParticipants || t.MinParticipants <= 0 {
		out = append(out, "participant bounds violated")
	}
	seen := make(map[string]struct{}, len(t.Participants))
	for _, id := range t.Participants {
		if _, dup := seen[id]; dup {
			out = append(out, "duplicate participant: "+id)
		}
		seen[id] = struct{}{}
	}
	if (t.RoomID != "" || t.RoomPassword != "") && t.Status == StatusUpcoming {
		out = append(out, "room credentials set before start")
	}
	if len(t.Winners) > 0 && t.Status != StatusCompleted {
		out = append(out, "winners present on non-completed tournament")
	}
	if t.Status == StatusCompleted && len(t.Winners) == 0 {
		out = append(out, "completed without winners")
	}
	return out
}
