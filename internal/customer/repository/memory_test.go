package repository

import (
	"context"
	"testing"

	"github.com/shopseed/shopseed/internal/customer"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepoCRUD(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	require.NoError(t, r.InsertOne(ctx, customer.Customer{ID: 1, Name: "Asha", Age: 30, City: "Pune"}))

	got, err := r.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Asha", got.Name)

	res, err := r.UpdateByID(ctx, 1, customer.Patch{Age: customer.Int(31)})
	require.NoError(t, err)
	require.Equal(t, UpdateResult{Matched: 1, Modified: 1}, res)
	got, err = r.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 31, got.Age)
	require.Equal(t, "Pune", got.City)

	n, err := r.DeleteByID(ctx, 1)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)
	_, err = r.Get(ctx, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_InsertOneDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(customer.Customer{ID: 3, Name: "Sanjay"})

	err := r.InsertOne(ctx, customer.Customer{ID: 3, Name: "Other"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	got, err := r.Get(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Sanjay", got.Name)
}

func TestMemoryRepo_UpdateAndDeleteMissingAreNoops(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo()

	res, err := r.UpdateByID(ctx, 42, customer.Patch{Age: customer.Int(1)})
	require.NoError(t, err)
	require.Zero(t, res.Matched)

	n, err := r.DeleteByID(ctx, 42)
	require.NoError(t, err)
	require.Zero(t, n)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Empty(t, list)
}

func TestMemoryRepo_UpdateWithSameValueMatchesWithoutModifying(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(customer.Customer{ID: 1, Age: 31})

	res, err := r.UpdateByID(ctx, 1, customer.Patch{Age: customer.Int(31)})
	require.NoError(t, err)
	require.Equal(t, UpdateResult{Matched: 1, Modified: 0}, res)
}

func TestMemoryRepo_InsertManyOrderedStopsAtFirstDuplicate(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(customer.Customer{ID: 5, Name: "Rishi"})

	n, err := r.InsertMany(ctx, []customer.Customer{{ID: 4}, {ID: 5}, {ID: 6}})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 1, n)

	_, err = r.Get(ctx, 4)
	require.NoError(t, err)
	_, err = r.Get(ctx, 6)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepo_InsertManyUnorderedAttemptsAll(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(customer.Customer{ID: 5}).SetOrdered(false)

	n, err := r.InsertMany(ctx, []customer.Customer{{ID: 4}, {ID: 5}, {ID: 6}})
	require.ErrorIs(t, err, ErrDuplicateKey)
	require.Equal(t, 2, n)

	_, err = r.Get(ctx, 6)
	require.NoError(t, err)
}

func TestMemoryRepo_ListSortedByID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepo(customer.Customer{ID: 5}, customer.Customer{ID: 1}, customer.Customer{ID: 3})

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.Equal(t, []int{1, 3, 5}, []int{list[0].ID, list[1].ID, list[2].ID})
}

func TestMemoryRepo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewMemoryRepo()

	require.ErrorIs(t, r.InsertOne(ctx, customer.Customer{ID: 1}), context.Canceled)
	list, err := r.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, list)
}
