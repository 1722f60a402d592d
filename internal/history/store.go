package history

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shopseed/shopseed/internal/seed"
)

// Store persists seed run reports, one document per run keyed by run id.
// A nil *Store is a valid no-op store.
type Store struct {
	col *mongo.Collection
}

// NewStore returns nil when col is nil so callers can wire it unconditionally.
func NewStore(col *mongo.Collection) *Store {
	if col == nil {
		return nil
	}
	return &Store{col: col}
}

// Store upserts the report. It implements seed.ReportSink.
func (s *Store) Store(ctx context.Context, r *seed.Report) error {
	if s == nil {
		return nil
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": r.RunID}, r, opts); err != nil {
		return fmt.Errorf("save seed run: %w", err)
	}
	return nil
}

// Recent returns up to limit reports, newest first. Returns nil for a nil store.
func (s *Store) Recent(ctx context.Context, limit int64) ([]seed.Report, error) {
	if s == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}
	opts := options.Find().SetSort(bson.D{{Key: "startedAt", Value: -1}}).SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list seed runs: %w", err)
	}
	out := []seed.Report{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode seed runs: %w", err)
	}
	return out, nil
}
