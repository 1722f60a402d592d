package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopseed/shopseed/internal/customer"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Store on a MongoDB collection. Customers are keyed by
// _id, which already carries the unique index.
type MongoRepo struct {
	col     *mongo.Collection
	ordered bool
}

// NewMongoRepo returns a repository using the driver's default ordered
// batch inserts when ordered is true.
func NewMongoRepo(col *mongo.Collection, ordered bool) *MongoRepo {
	return &MongoRepo{col: col, ordered: ordered}
}

func (m *MongoRepo) InsertOne(ctx context.Context, c customer.Customer) error {
	if _, err := m.col.InsertOne(ctx, c); err != nil {
		return translate(err)
	}
	return nil
}

func (m *MongoRepo) InsertMany(ctx context.Context, cs []customer.Customer) (int, error) {
	docs := make([]interface{}, len(cs))
	for i := range cs {
		docs[i] = cs[i]
	}
	_, err := m.col.InsertMany(ctx, docs, options.InsertMany().SetOrdered(m.ordered))
	if err == nil {
		return len(cs), nil
	}
	return insertedBefore(err, len(cs), m.ordered), translate(err)
}

// insertedBefore derives how many documents of a failed batch were written
// from the write errors the server reported.
func insertedBefore(err error, total int, ordered bool) int {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) || len(bwe.WriteErrors) == 0 {
		return 0
	}
	if ordered {
		first := bwe.WriteErrors[0].Index
		for _, we := range bwe.WriteErrors[1:] {
			if we.Index < first {
				first = we.Index
			}
		}
		return first
	}
	n := total - len(bwe.WriteErrors)
	if n < 0 {
		n = 0
	}
	return n
}

func (m *MongoRepo) UpdateByID(ctx context.Context, id int, p customer.Patch) (UpdateResult, error) {
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": p.Fields()})
	if err != nil {
		return UpdateResult{}, translate(err)
	}
	return UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *MongoRepo) DeleteByID(ctx context.Context, id int) (int64, error) {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (m *MongoRepo) Get(ctx context.Context, id int) (*customer.Customer, error) {
	var c customer.Customer
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (m *MongoRepo) List(ctx context.Context) ([]customer.Customer, error) {
	cur, err := m.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []customer.Customer{}
	for cur.Next(ctx) {
		var c customer.Customer
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, cur.Err()
}

func translate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	}
	return err
}
