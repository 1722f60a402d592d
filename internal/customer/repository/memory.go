package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shopseed/shopseed/internal/customer"
)

// MemoryRepo is an in-memory customers collection used for dry runs and unit
// tests. It reproduces the store's unique-id and batch-insert behavior.
type MemoryRepo struct {
	mu      sync.RWMutex
	store   map[int]customer.Customer
	ordered bool
}

// NewMemoryRepo returns an ordered-insert repository holding the given documents.
func NewMemoryRepo(initial ...customer.Customer) *MemoryRepo {
	m := &MemoryRepo{store: make(map[int]customer.Customer, len(initial)), ordered: true}
	for _, c := range initial {
		m.store[c.ID] = c
	}
	return m
}

// SetOrdered switches InsertMany between ordered (stop at first failure) and
// unordered (attempt every document) semantics.
func (m *MemoryRepo) SetOrdered(ordered bool) *MemoryRepo {
	m.mu.Lock()
	m.ordered = ordered
	m.mu.Unlock()
	return m
}

func (m *MemoryRepo) InsertOne(ctx context.Context, c customer.Customer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[c.ID]; ok {
		return fmt.Errorf("%w: _id %d", ErrDuplicateKey, c.ID)
	}
	m.store[c.ID] = c
	return nil
}

func (m *MemoryRepo) InsertMany(ctx context.Context, cs []customer.Customer) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	inserted := 0
	var firstErr error
	for _, c := range cs {
		if _, ok := m.store[c.ID]; ok {
			if firstErr == nil {
				firstErr = fmt.Errorf("%w: _id %d", ErrDuplicateKey, c.ID)
			}
			if m.ordered {
				break
			}
			continue
		}
		m.store[c.ID] = c
		inserted++
	}
	return inserted, firstErr
}

func (m *MemoryRepo) UpdateByID(ctx context.Context, id int, p customer.Patch) (UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return UpdateResult{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.store[id]
	if !ok {
		return UpdateResult{}, nil
	}
	res := UpdateResult{Matched: 1}
	if p.Apply(&c) {
		m.store[id] = c
		res.Modified = 1
	}
	return res, nil
}

func (m *MemoryRepo) DeleteByID(ctx context.Context, id int) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return 0, nil
	}
	delete(m.store, id)
	return 1, nil
}

func (m *MemoryRepo) Get(ctx context.Context, id int) (*customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.store[id]; ok {
		return &c, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(ctx context.Context) ([]customer.Customer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]customer.Customer, 0, len(m.store))
	for _, c := range m.store {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
