package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
	"github.com/dumwala/tournament-bot/internal/domain/user"
	"github.com/dumwala/tournament-bot/internal/platform/id"
	"github.com/dumwala/tournament-bot/internal/platform/logging"
)

// ScheduleLayout is the admin-facing date/time input format.
const ScheduleLayout = "02/01/2006 15:04"

// RegistryConfig carries the policy knobs every registry operation reads.
// It is injected at construction so tests run against fixture values.
type RegistryConfig struct {
	// NameDenylist blocks tournament names containing any of these
	// substrings, compared case-insensitively.
	NameDenylist []string
	// KnownMaps is the advisory map pool; names outside it only warn.
	KnownMaps []string
	// AvgKillsEstimate feeds kill-based prize-pool projections.
	AvgKillsEstimate int
	// DefaultUPIID is stamped on tournaments created without one.
	DefaultUPIID string
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		NameDenylist:     []string{"hack", "cheat", "spam", "fake"},
		KnownMaps:        []string{"Erangel", "Miramar", "Sanhok", "Vikendi", "Livik", "Karakin", "Paramo", "Taego"},
		AvgKillsEstimate: tournament.DefaultAvgKillsEstimate,
	}
}

// RegistryService owns the tournament lifecycle: creation, roster
// membership, status transitions and the derived prize figures. Every
// operation is one bounded read-modify-write against the persisted record;
// roster mutations go through the repository's atomic set operations.
type RegistryService struct {
	tournaments tournament.Repository
	users       user.Repository
	ids         id.Generator
	cfg         RegistryConfig
	logger      *logging.Logger
	validate    *validator.Validate
	now         func() time.Time
}

func NewRegistryService(
	tournaments tournament.Repository,
	users user.Repository,
	ids id.Generator,
	cfg RegistryConfig,
	logger *logging.Logger,
) *RegistryService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.AvgKillsEstimate < 1 {
		cfg.AvgKillsEstimate = tournament.DefaultAvgKillsEstimate
	}

	return &RegistryService{
		tournaments: tournaments,
		users:       users,
		ids:         ids,
		cfg:         cfg,
		logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		now:         time.Now,
	}
}

// CreateTournamentInput is the admin-supplied tournament spec. Date and
// Time follow the chat command format DD/MM/YYYY and HH:MM.
type CreateTournamentInput struct {
	Name            string `validate:"required,max=100"`
	Type            string `validate:"required"`
	Date            string `validate:"required"`
	Time            string `validate:"required"`
	Map             string
	EntryFee        float64 `validate:"gte=0"`
	Prize           tournament.PrizeStructure
	MinParticipants int `validate:"gt=0"`
	MaxParticipants int `validate:"gtfield=MinParticipants"`
	Description     string
	Rules           []string
	UPIID           string
	// RegistrationDeadline overrides the default schedule-1h cutoff.
	RegistrationDeadline *time.Time
	CreatedBy            string `validate:"required"`
}

// Create validates the input, collecting every violated rule before
// failing, and persists a new upcoming tournament with an empty roster.
// The returned warnings are advisory (odd fees, unknown map, past
// schedule, oversized field) and never block creation.
func (s *RegistryService) Create(ctx context.Context, input CreateTournamentInput) (tournament.Tournament, []string, error) {
	now := s.now()
	violations, warnings := s.validateCreate(input, now)
	if len(violations) > 0 {
		return tournament.Tournament{}, warnings, &ValidationError{Violations: violations, Warnings: warnings}
	}

	tournamentType, err := tournament.ParseType(input.Type)
	if err != nil {
		return tournament.Tournament{}, warnings, &ValidationError{Violations: []string{err.Error()}, Warnings: warnings}
	}
	schedule, err := time.Parse(ScheduleLayout, input.Date+" "+input.Time)
	if err != nil {
		return tournament.Tournament{}, warnings, &ValidationError{
			Violations: []string{"invalid date/time, expected DD/MM/YYYY HH:MM"},
			Warnings:   warnings,
		}
	}

	tournamentID, err := s.ids.TournamentID(now)
	if err != nil {
		return tournament.Tournament{}, warnings, fmt.Errorf("generate tournament id: %w", err)
	}

	rules := input.Rules
	if len(rules) == 0 {
		rules = tournament.DefaultRules()
	}
	upiID := input.UPIID
	if upiID == "" {
		upiID = s.cfg.DefaultUPIID
	}

	t := tournament.Tournament{
		ID:                   tournamentID,
		Name:                 strings.TrimSpace(input.Name),
		Type:                 tournamentType,
		Schedule:             schedule.UTC(),
		Map:                  input.Map,
		Description:          input.Description,
		Rules:                rules,
		EntryFee:             input.EntryFee,
		Prize:                input.Prize,
		UPIID:                upiID,
		Status:               tournament.StatusUpcoming,
		MinParticipants:      input.MinParticipants,
		MaxParticipants:      input.MaxParticipants,
		RegistrationDeadline: input.RegistrationDeadline,
		CreatedAt:            now,
		UpdatedAt:            now,
		CreatedBy:            input.CreatedBy,
	}
	if err := t.Validate(); err != nil {
		return tournament.Tournament{}, warnings, &ValidationError{Violations: []string{err.Error()}, Warnings: warnings}
	}

	if err := s.tournaments.Insert(ctx, t); err != nil {
		if stderrors.Is(err, tournament.ErrDuplicateID) {
			return tournament.Tournament{}, warnings, fmt.Errorf("%w: tournament=%s", tournament.ErrDuplicateID, tournamentID)
		}
		return tournament.Tournament{}, warnings, fmt.Errorf("insert tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament created",
		"tournament_id", t.ID,
		"type", t.Type,
		"schedule", t.Schedule,
		"created_by", t.CreatedBy,
	)
	return t, warnings, nil
}

func (s *RegistryService) validateCreate(input CreateTournamentInput, now time.Time) (violations, warnings []string) {
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				violations = append(violations, describeFieldError(fe))
			}
		} else {
			violations = append(violations, err.Error())
		}
	}

	name := strings.ToLower(input.Name)
	for _, blocked := range s.cfg.NameDenylist {
		if blocked != "" && strings.Contains(name, strings.ToLower(blocked)) {
			violations = append(violations, fmt.Sprintf("tournament name contains blocked term %q", blocked))
		}
	}

	if input.Type != "" {
		if _, err := tournament.ParseType(input.Type); err != nil {
			violations = append(violations, err.Error())
		}
	}

	switch input.Prize.Type {
	case tournament.PrizeKillBased, tournament.PrizeRankBased, tournament.PrizeFixed:
	default:
		violations = append(violations, fmt.Sprintf("unknown prize type: %q", input.Prize.Type))
	}
	if input.Prize.PerKill < 0 || input.Prize.TopKillerBonus < 0 ||
		input.Prize.First < 0 || input.Prize.Second < 0 || input.Prize.Third < 0 ||
		input.Prize.WinnersAmount < 0 {
		violations = append(violations, "prize amounts cannot be negative")
	}

	if input.Date != "" && input.Time != "" {
		schedule, err := time.Parse(ScheduleLayout, input.Date+" "+input.Time)
		if err != nil {
			violations = append(violations, "invalid date/time, expected DD/MM/YYYY HH:MM")
		} else if !schedule.UTC().After(now) {
			warnings = append(warnings, "tournament time is in the past")
		}
	}

	if input.EntryFee >= 0 {
		switch {
		case input.EntryFee == 0:
			warnings = append(warnings, "free tournament - no entry fee")
		case input.EntryFee < 10:
			warnings = append(warnings, "very low entry fee")
		case input.EntryFee > 1000:
			warnings = append(warnings, "very high entry fee")
		}
	}
	if input.MaxParticipants > 500 {
		warnings = append(warnings, "very large tournament (>500 players)")
	}
	if input.Map != "" && !s.knownMap(input.Map) {
		warnings = append(warnings, fmt.Sprintf("unknown map %q", input.Map))
	}

	return violations, warnings
}

func (s *RegistryService) knownMap(name string) bool {
	for _, m := range s.cfg.KnownMaps {
		if strings.EqualFold(m, name) {
			return true
		}
	}
	return false
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.StructField() {
	case "Name":
		if fe.Tag() == "max" {
			return "tournament name must be at most 100 characters"
		}
		return "tournament name is required"
	case "Type":
		return "tournament type is required"
	case "Date":
		return "tournament date is required"
	case "Time":
		return "tournament time is required"
	case "EntryFee":
		return "entry fee cannot be negative"
	case "MinParticipants":
		return "minimum participants must be positive"
	case "MaxParticipants":
		return "maximum participants must be greater than minimum"
	case "CreatedBy":
		return "creator id is required"
	default:
		return fmt.Sprintf("%s: failed %s validation", fe.StructField(), fe.Tag())
	}
}

// JoinResult reports a successful registration.
type JoinResult struct {
	Tournament tournament.Tournament
	// Position is the 1-based roster slot the user landed in.
	Position int
}

// Join registers userID for the tournament. Preconditions are evaluated in
// a fixed order so the caller always sees the most relevant failure:
// existence, status, capacity, prior registration (benign
// ErrAlreadyRegistered), registration cutoff, then payment/ban
// eligibility. The roster write itself is an atomic set-add, so two
// concurrent joins for the same user can never both succeed.
func (s *RegistryService) Join(ctx context.Context, tournamentID, userID string) (JoinResult, error) {
	if tournamentID == "" || userID == "" {
		return JoinResult{}, &ValidationError{Violations: []string{"tournament id and user id are required"}}
	}
	now := s.now()

	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return JoinResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if err := t.CanJoin(userID, now); err != nil {
		return JoinResult{}, err
	}

	u, found, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("get user: %w", err)
	}
	if !found {
		return JoinResult{}, fmt.Errorf("%w: user=%s", ErrNotFound, userID)
	}
	if u.Banned {
		return JoinResult{}, fmt.Errorf("%w: %s", ErrUserBanned, u.BanReason)
	}
	if !u.Paid || !u.Confirmed {
		return JoinResult{}, ErrPaymentRequired
	}

	added, err := s.tournaments.AddParticipant(ctx, tournamentID, userID)
	if err != nil {
		return JoinResult{}, fmt.Errorf("add participant: %w", err)
	}
	if !added {
		// Lost a race between the precondition read and the write.
		// Re-read so the caller gets the precise current failure.
		current, found, err := s.tournaments.GetByID(ctx, tournamentID)
		if err != nil {
			return JoinResult{}, fmt.Errorf("get tournament: %w", err)
		}
		if !found {
			return JoinResult{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
		}
		if err := current.CanJoin(userID, now); err != nil {
			return JoinResult{}, err
		}
		return JoinResult{}, fmt.Errorf("%w: roster update had no effect", ErrGatewayUnavailable)
	}

	joined, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil || !found {
		// The write succeeded; fall back to the local copy for the result.
		joined = t
		joined.Participants = append(joined.Participants, userID)
		joined.UpdatedAt = now
	}

	u.RecordParticipation(tournamentID, now)
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.WarnContext(ctx, "record participation failed", "user_id", userID, "error", err)
	}

	position := len(joined.Participants)
	for i, pid := range joined.Participants {
		if pid == userID {
			position = i + 1
			break
		}
	}

	s.logger.InfoContext(ctx, "user joined tournament",
		"tournament_id", tournamentID,
		"user_id", userID,
		"position", position,
	)
	return JoinResult{Tournament: joined, Position: position}, nil
}

// Leave removes userID from the roster. Allowed while the tournament is
// upcoming or live; the removal is an atomic set-remove preserving the
// order of the remaining entries.
func (s *RegistryService) Leave(ctx context.Context, tournamentID, userID string) error {
	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if t.Status != tournament.StatusUpcoming && t.Status != tournament.StatusLive {
		return tournament.ErrInvalidTransition
	}
	if !t.HasParticipant(userID) {
		return tournament.ErrNotRegistered
	}

	removed, err := s.tournaments.RemoveParticipant(ctx, tournamentID, userID)
	if err != nil {
		return fmt.Errorf("remove participant: %w", err)
	}
	if !removed {
		return tournament.ErrNotRegistered
	}

	s.logger.InfoContext(ctx, "user left tournament", "tournament_id", tournamentID, "user_id", userID)
	return nil
}

// Start publishes the room credentials and moves the tournament live.
// When no room id is supplied, credentials are generated.
func (s *RegistryService) Start(ctx context.Context, tournamentID, roomID, roomPassword string) (tournament.Tournament, error) {
	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if roomID == "" {
		roomID, roomPassword, err = s.ids.RoomCredentials()
		if err != nil {
			return tournament.Tournament{}, fmt.Errorf("generate room credentials: %w", err)
		}
	}
	if err := t.Start(roomID, roomPassword, s.now()); err != nil {
		return tournament.Tournament{}, err
	}
	if err := s.tournaments.Update(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament started",
		"tournament_id", tournamentID,
		"participants", t.ParticipantCount(),
	)
	return t, nil
}

// Complete records the ordered winner list and closes the tournament.
func (s *RegistryService) Complete(ctx context.Context, tournamentID string, winners []tournament.Winner) (tournament.Tournament, error) {
	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if err := t.Complete(winners, s.now()); err != nil {
		return tournament.Tournament{}, err
	}
	if err := s.tournaments.Update(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament: %w", err)
	}

	for _, w := range winners {
		s.creditWinner(ctx, tournamentID, w)
	}

	s.logger.InfoContext(ctx, "tournament completed",
		"tournament_id", tournamentID,
		"winners", len(winners),
	)
	return t, nil
}

func (s *RegistryService) creditWinner(ctx context.Context, tournamentID string, w tournament.Winner) {
	u, found, err := s.users.GetByID(ctx, w.UserID)
	if err != nil || !found {
		s.logger.WarnContext(ctx, "winner credit skipped",
			"tournament_id", tournamentID,
			"user_id", w.UserID,
			"error", err,
		)
		return
	}
	u.RecordWin(w.Kills, w.Prize, s.now())
	if err := s.users.Update(ctx, u); err != nil {
		s.logger.WarnContext(ctx, "winner credit failed",
			"tournament_id", tournamentID,
			"user_id", w.UserID,
			"error", err,
		)
	}
}

// Cancel moves any non-terminal tournament to cancelled, annotating the
// description with the reason. Records are never deleted.
func (s *RegistryService) Cancel(ctx context.Context, tournamentID, reason string) (tournament.Tournament, error) {
	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if err := t.Cancel(reason, s.now()); err != nil {
		return tournament.Tournament{}, err
	}
	if err := s.tournaments.Update(ctx, t); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament: %w", err)
	}

	s.logger.WarnContext(ctx, "tournament cancelled", "tournament_id", tournamentID, "reason", reason)
	return t, nil
}

// ReconcileStatusByTime applies the time-driven transitions to a loaded
// tournament and persists it when anything changed. It is idempotent and
// safe to run concurrently with user-initiated operations on the same
// record. Note a live tournament past its grace period completes without
// winners; that violation is logged, not rejected.
func (s *RegistryService) ReconcileStatusByTime(ctx context.Context, t tournament.Tournament) (tournament.Tournament, bool, error) {
	if !t.ReconcileByTime(s.now()) {
		return t, false, nil
	}
	if violations := t.CheckInvariants(); len(violations) > 0 {
		s.logger.WarnContext(ctx, "invariant violations after reconcile",
			"tournament_id", t.ID,
			"violations", violations,
		)
	}
	if err := s.tournaments.Update(ctx, t); err != nil {
		return t, false, fmt.Errorf("update tournament: %w", err)
	}

	s.logger.InfoContext(ctx, "tournament status reconciled", "tournament_id", t.ID, "status", t.Status)
	return t, true, nil
}

// Get loads one tournament, logging advisory invariant violations found on
// the stored record.
func (s *RegistryService) Get(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	t, found, err := s.tournaments.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !found {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}
	if violations := t.CheckInvariants(); len(violations) > 0 {
		s.logger.WarnContext(ctx, "stored record violates invariants",
			"tournament_id", t.ID,
			"violations", violations,
		)
	}
	return t, nil
}

// ListActive returns upcoming and live tournaments.
func (s *RegistryService) ListActive(ctx context.Context) ([]tournament.Tournament, error) {
	out, err := s.tournaments.ListByStatus(ctx, tournament.ActiveStatuses...)
	if err != nil {
		return nil, fmt.Errorf("list active tournaments: %w", err)
	}
	return out, nil
}

func (s *RegistryService) ListByStatus(ctx context.Context, statuses ...tournament.Status) ([]tournament.Tournament, error) {
	out, err := s.tournaments.ListByStatus(ctx, statuses...)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}
	return out, nil
}

// PrizePool computes the pool for the current roster using the configured
// average-kills estimate. Kill-based results are projections, flagged
// Estimated; unknown prize types yield zero and a data-integrity warning.
func (s *RegistryService) PrizePool(t tournament.Tournament) tournament.PrizePool {
	pool, known := t.PrizePool(s.cfg.AvgKillsEstimate)
	if !known {
		s.logger.Warn("unknown prize type on stored tournament",
			"tournament_id", t.ID,
			"prize_type", t.Prize.Type,
		)
	}
	return pool
}

// Revenue is the organiser-side collection/pool breakdown.
func (s *RegistryService) Revenue(t tournament.Tournament) tournament.Revenue {
	return t.Revenue(s.cfg.AvgKillsEstimate)
}
