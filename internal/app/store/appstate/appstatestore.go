// internal/app/store/appstate/appstatestore.go
package appstatestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/shiftgrid/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName holds one AppState document per schedule scope.
const CollectionName = "app_state"

// ErrNotFound is returned when no state exists for a scope.
var ErrNotFound = errors.New("app state not found")

// Store provides get/replace access to the app_state collection. Documents
// are keyed by scope (_id) and always read and written whole.
type Store struct {
	c *mongo.Collection
}

// New creates a new app state store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Get returns the stored state of scope exactly as persisted. Callers
// normalize it before use.
func (s *Store) Get(ctx context.Context, scope string) (models.AppState, error) {
	var st models.AppState
	err := s.c.FindOne(ctx, bson.M{"_id": scope}).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return models.AppState{}, ErrNotFound
	}
	if err != nil {
		return models.AppState{}, fmt.Errorf("get app state %q: %w", scope, err)
	}
	return st, nil
}

// Replace writes st as the whole document of scope, creating it if needed,
// and returns the stored copy.
func (s *Store) Replace(ctx context.Context, scope string, st models.AppState) (models.AppState, error) {
	now := time.Now().UTC().Truncate(time.Millisecond)
	st.Scope = scope
	st.UpdatedAt = &now

	opts := options.Replace().SetUpsert(true)
	if _, err := s.c.ReplaceOne(ctx, bson.M{"_id": scope}, st, opts); err != nil {
		return models.AppState{}, fmt.Errorf("replace app state %q: %w", scope, err)
	}
	return st, nil
}

// Scopes lists the ids of every stored state.
func (s *Store) Scopes(ctx context.Context) ([]string, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list app state scopes: %w", err)
	}
	defer cur.Close(ctx)

	var out []string
	for cur.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode app state scope: %w", err)
		}
		out = append(out, doc.ID)
	}
	return out, cur.Err()
}
