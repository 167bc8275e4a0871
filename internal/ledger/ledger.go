// Package ledger owns the in-memory transaction collection and keeps it in
// sync with a single persisted payload.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"terapis/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrPersistence = errors.New("persistence failure")
)

// Persister stores the whole encoded collection under one key.
type Persister interface {
	// Load returns the stored payload. ok is false when nothing was stored.
	Load(ctx context.Context) (data []byte, ok bool, err error)
	Save(ctx context.Context, data []byte) error
}

// Order is the ordering applied after every mutation.
type Order int

const (
	// OrderDate sorts ascending by date, stable, unparsable dates first.
	OrderDate Order = iota
	// OrderInsertion keeps records in the order they were added.
	OrderInsertion
)

// ParseOrder maps config values to an Order, defaulting to OrderDate.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "date":
		return OrderDate, nil
	case "insertion":
		return OrderInsertion, nil
	}
	return OrderDate, fmt.Errorf("unknown order mode %q", s)
}

func (o Order) String() string {
	if o == OrderInsertion {
		return "insertion"
	}
	return "date"
}

// Mutation receives a private copy of the collection and returns the new
// collection. Returning an error aborts without touching the store.
type Mutation func(items []core.Transaction) ([]core.Transaction, error)

// Revision describes the collection right after a successful Apply.
type Revision struct {
	Version int64
	Count   int
}

// Store is the single owner of the transaction list.
type Store struct {
	mu      sync.RWMutex
	p       Persister
	order   Order
	items   []core.Transaction
	version int64
}

// Open loads the initial collection. Missing, unreadable or malformed data
// yields an empty collection; the problem is logged, never returned.
func Open(ctx context.Context, p Persister, order Order) *Store {
	s := &Store{p: p, order: order}

	data, ok, err := p.Load(ctx)
	switch {
	case err != nil:
		slog.WarnContext(ctx, "Failed to load ledger, starting empty", "error", err)
		return s
	case !ok:
		slog.InfoContext(ctx, "No stored ledger, starting empty")
		return s
	}

	res, err := Decode(data)
	if err != nil {
		slog.WarnContext(ctx, "Stored ledger is malformed, starting empty", "error", err)
		return s
	}
	for _, skipped := range res.Skipped {
		slog.WarnContext(ctx, "Skipping invalid stored transaction", "error", skipped)
	}
	s.items = res.Items
	s.sort(s.items)
	slog.InfoContext(ctx, "Ledger loaded", "transactions", len(s.items), "order", order.String())
	return s
}

// Snapshot returns a copy of the current collection.
func (s *Store) Snapshot() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the transaction with the given id.
func (s *Store) Get(id string) (core.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := IndexOf(s.items, id); i >= 0 {
		return s.items[i], nil
	}
	return core.Transaction{}, ErrNotFound
}

// Version increases by one on every persisted mutation.
func (s *Store) Version() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Order() Order {
	return s.order
}

// Apply runs fn on a copy of the collection, re-applies ordering and
// persists the result. The in-memory collection only changes when Save
// succeeds, so a failed mutation can be retried as is. The returned Revision
// is taken under the same lock as the mutation.
func (s *Store) Apply(ctx context.Context, fn Mutation) (Revision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]core.Transaction, len(s.items))
	copy(next, s.items)
	next, err := fn(next)
	if err != nil {
		return s.revision(), err
	}
	s.sort(next)

	data, err := Encode(next)
	if err != nil {
		return s.revision(), fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}
	if err := s.p.Save(ctx, data); err != nil {
		return s.revision(), fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.items = next
	s.version++
	return s.revision(), nil
}

func (s *Store) revision() Revision {
	return Revision{Version: s.version, Count: len(s.items)}
}

func (s *Store) sort(items []core.Transaction) {
	if s.order != OrderDate {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
}

// IndexOf returns the position of id in items or -1.
func IndexOf(items []core.Transaction, id string) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}
