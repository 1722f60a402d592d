package repository

import (
	"context"
	"errors"

	"github.com/shopseed/shopseed/internal/customer"
)

var (
	ErrNotFound     = errors.New("customer not found")
	ErrDuplicateKey = errors.New("duplicate customer id")
)

// UpdateResult mirrors the matched/modified counters returned by the store.
type UpdateResult struct {
	Matched  int64 `json:"matched"`
	Modified int64 `json:"modified"`
}

// Reader is the read side of the customers collection.
type Reader interface {
	Get(ctx context.Context, id int) (*customer.Customer, error)
	List(ctx context.Context) ([]customer.Customer, error)
}

// Writer is the write surface exercised by the seed plan.
type Writer interface {
	InsertOne(ctx context.Context, c customer.Customer) error
	InsertMany(ctx context.Context, cs []customer.Customer) (int, error)
	UpdateByID(ctx context.Context, id int, p customer.Patch) (UpdateResult, error)
	DeleteByID(ctx context.Context, id int) (int64, error)
}

// Store is the full customers collection surface.
type Store interface {
	Reader
	Writer
}
