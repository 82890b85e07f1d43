// internal/app/store/solverruns/solverrunsstore.go
package solverrunsstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName holds one document per optimizer run.
const CollectionName = "solver_runs"

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("solver run not found")

// ErrDuplicateRun is returned when a run id is already recorded.
var ErrDuplicateRun = errors.New("solver run already exists")

// Store records optimizer runs and the statistics of their candidates.
type Store struct {
	c *mongo.Collection
}

// New creates a new solver runs store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Create inserts a running record for runID.
func (s *Store) Create(ctx context.Context, runID, scope, startISO, endISO string) (models.SolverRun, error) {
	run := models.SolverRun{
		ID:         primitive.NewObjectID(),
		RunID:      runID,
		Scope:      scope,
		StartISO:   startISO,
		EndISO:     endISO,
		Status:     models.RunStatusRunning,
		Candidates: []models.SolverCheckpoint{},
		StartedAt:  time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.c.InsertOne(ctx, run); err != nil {
		if wafflemongo.IsDup(err) {
			return models.SolverRun{}, ErrDuplicateRun
		}
		return models.SolverRun{}, fmt.Errorf("create solver run %q: %w", runID, err)
	}
	return run, nil
}

// AppendCheckpoint adds the telemetry of one candidate to a running run.
func (s *Store) AppendCheckpoint(ctx context.Context, runID string, cp models.SolverCheckpoint) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"run_id": runID, "status": models.RunStatusRunning},
		bson.M{"$push": bson.M{"candidates": cp}},
	)
	if err != nil {
		return fmt.Errorf("append checkpoint to %q: %w", runID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Finish stores the terminal status of a run.
func (s *Store) Finish(ctx context.Context, runID, status, errMsg string, notes []string) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status":      status,
		"finished_at": now,
	}
	if errMsg != "" {
		set["error"] = errMsg
	}
	if len(notes) > 0 {
		set["notes"] = notes
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"run_id": runID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("finish solver run %q: %w", runID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the run with runID.
func (s *Store) Get(ctx context.Context, runID string) (models.SolverRun, error) {
	var run models.SolverRun
	err := s.c.FindOne(ctx, bson.M{"run_id": runID}).Decode(&run)
	if err == mongo.ErrNoDocuments {
		return models.SolverRun{}, ErrNotFound
	}
	if err != nil {
		return models.SolverRun{}, fmt.Errorf("get solver run %q: %w", runID, err)
	}
	return run, nil
}

// ListRecent returns the latest runs of scope, newest first.
func (s *Store) ListRecent(ctx context.Context, scope string, limit int64) ([]models.SolverRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "started_at", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"candidates": 0})
	cur, err := s.c.Find(ctx, bson.M{"scope": scope}, opts)
	if err != nil {
		return nil, fmt.Errorf("list solver runs: %w", err)
	}
	defer cur.Close(ctx)

	var out []models.SolverRun
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode solver runs: %w", err)
	}
	return out, nil
}

// FailStale marks runs still running after olderThan as errored. Runs are
// left running when the process dies mid-solve.
func (s *Store) FailStale(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	res, err := s.c.UpdateMany(ctx,
		bson.M{"status": models.RunStatusRunning, "started_at": bson.M{"$lt": cutoff}},
		bson.M{"$set": bson.M{
			"status":      models.RunStatusError,
			"error":       "run abandoned",
			"finished_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, fmt.Errorf("fail stale solver runs: %w", err)
	}
	return res.ModifiedCount, nil
}
