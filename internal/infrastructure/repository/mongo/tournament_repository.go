package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dumwala/tournament-bot/internal/domain/tournament"
)

// TournamentRepository persists tournaments as single documents. Roster
// mutations run as one-shot filtered updates so two concurrent joins can
// never both succeed past capacity and a join can never drop a concurrent
// leave.
type TournamentRepository struct {
	collection *mongo.Collection
}

func NewTournamentRepository(db *mongo.Database) *TournamentRepository {
	return &TournamentRepository{collection: db.Collection(tournamentsCollection)}
}

func (r *TournamentRepository) Insert(ctx context.Context, t tournament.Tournament) error {
	_, err := r.collection.InsertOne(ctx, newTournamentDocument(t))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return tournament.ErrDuplicateID
		}
		return fmt.Errorf("insert tournament %s: %w", t.ID, err)
	}
	return nil
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	var doc tournamentDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": tournamentID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return tournament.Tournament{}, false, nil
	}
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get tournament %s: %w", tournamentID, err)
	}

	t, err := doc.toDomain()
	if err != nil {
		return tournament.Tournament{}, false, err
	}
	return t, true, nil
}

func (r *TournamentRepository) Update(ctx context.Context, t tournament.Tournament) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": t.ID}, newTournamentDocument(t))
	if err != nil {
		return fmt.Errorf("update tournament %s: %w", t.ID, err)
	}
	return nil
}

func (r *TournamentRepository) ListByStatus(ctx context.Context, statuses ...tournament.Status) ([]tournament.Tournament, error) {
	values := make([]string, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, string(s))
	}

	cursor, err := r.collection.Find(ctx,
		bson.M{"status": bson.M{"$in": values}},
		options.Find().SetSort(bson.D{{Key: "schedule", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list tournaments by status: %w", err)
	}
	defer cursor.Close(ctx)

	var out []tournament.Tournament
	for cursor.Next(ctx) {
		var doc tournamentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode tournament: %w", err)
		}
		t, err := doc.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list tournaments by status: %w", err)
	}
	return out, nil
}

// AddParticipant appends userID when the tournament is still open for
// sign-up, has a free slot and does not already hold the user. The filter
// and $addToSet run as one document-level operation, which is what makes
// the roster write at-most-once under concurrency.
func (r *TournamentRepository) AddParticipant(ctx context.Context, tournamentID, userID string) (bool, error) {
	filter := bson.M{
		"_id":          tournamentID,
		"status":       string(tournament.StatusUpcoming),
		"participants": bson.M{"$ne": userID},
		"$expr": bson.M{"$lt": bson.A{
			bson.M{"$size": bson.M{"$ifNull": bson.A{"$participants", bson.A{}}}},
			"$max_participants",
		}},
	}
	update := bson.M{
		"$addToSet": bson.M{"participants": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("add participant %s to tournament %s: %w", userID, tournamentID, err)
	}
	return result.ModifiedCount == 1, nil
}

// RemoveParticipant pulls userID from the roster while the tournament is
// upcoming or live. Completed and cancelled rosters stay frozen.
func (r *TournamentRepository) RemoveParticipant(ctx context.Context, tournamentID, userID string) (bool, error) {
	filter := bson.M{
		"_id": tournamentID,
		"status": bson.M{"$in": bson.A{
			string(tournament.StatusUpcoming),
			string(tournament.StatusLive),
		}},
		"participants": userID,
	}
	update := bson.M{
		"$pull": bson.M{"participants": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("remove participant %s from tournament %s: %w", userID, tournamentID, err)
	}
	return result.ModifiedCount == 1, nil
}
