package service

import (
	"context"
	"time"

	"github.com/shopseed/shopseed/internal/customer"
	"github.com/shopseed/shopseed/internal/customer/repository"
	"github.com/shopseed/shopseed/pkg/logger"
	"github.com/shopseed/shopseed/pkg/metrics"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service is the customers store with a query log and latency histogram
// around every call. It satisfies repository.Store.
type Service struct {
	store repository.Store
}

var _ repository.Store = (*Service)(nil)

// New wraps an existing store.
func New(store repository.Store) *Service {
	return &Service{store: store}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(initial ...customer.Customer) *Service {
	return New(repository.NewMemoryRepo(initial...))
}

// NewMongoService returns a Service backed by a MongoDB collection.
// Caller is responsible for creating the collection (and client) and passing it in.
func NewMongoService(col *mongo.Collection, orderedInserts bool) *Service {
	return New(repository.NewMongoRepo(col, orderedInserts))
}

// queryLog is the debug record emitted for every store call.
type queryLog struct {
	op       string
	target   interface{}
	duration time.Duration
	err      error
}

func observe(ql *queryLog, start time.Time) {
	ql.duration = time.Since(start)
	metrics.StoreOpDuration.WithLabelValues(ql.op).Observe(ql.duration.Seconds())
	l := logger.With("op", ql.op, "target", ql.target, "duration", ql.duration)
	if ql.err != nil {
		l.Debugw("customers store call failed", "error", ql.err)
		return
	}
	l.Debug("customers store call")
}

func (s *Service) InsertOne(ctx context.Context, c customer.Customer) (err error) {
	ql := &queryLog{op: "insertOne", target: c.ID}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.InsertOne(ctx, c)
}

func (s *Service) InsertMany(ctx context.Context, cs []customer.Customer) (n int, err error) {
	ids := make([]int, len(cs))
	for i, c := range cs {
		ids[i] = c.ID
	}
	ql := &queryLog{op: "insertMany", target: ids}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.InsertMany(ctx, cs)
}

func (s *Service) UpdateByID(ctx context.Context, id int, p customer.Patch) (res repository.UpdateResult, err error) {
	ql := &queryLog{op: "updateOne", target: id}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.UpdateByID(ctx, id, p)
}

func (s *Service) DeleteByID(ctx context.Context, id int) (n int64, err error) {
	ql := &queryLog{op: "deleteOne", target: id}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.DeleteByID(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int) (c *customer.Customer, err error) {
	ql := &queryLog{op: "findOne", target: id}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) (cs []customer.Customer, err error) {
	ql := &queryLog{op: "find"}
	defer func(start time.Time) { ql.err = err; observe(ql, start) }(time.Now())
	return s.store.List(ctx)
}
