package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"terapis/internal/core"
	"terapis/internal/ledger"
)

// DateMode decides where a transaction's date comes from.
type DateMode int

const (
	// DateFromInput requires the caller to supply the date.
	DateFromInput DateMode = iota
	// DateFromClock stamps today's date on add and ignores supplied dates.
	DateFromClock
)

// ParseDateMode maps config values to a DateMode, defaulting to input.
func ParseDateMode(s string) (DateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "input":
		return DateFromInput, nil
	case "clock":
		return DateFromClock, nil
	}
	return DateFromInput, fmt.Errorf("unknown date mode %q", s)
}

func (m DateMode) String() string {
	if m == DateFromClock {
		return "clock"
	}
	return "input"
}

// ChangePublisher is notified after every persisted mutation. *amqp.Client
// satisfies it.
type ChangePublisher interface {
	PublishLedgerSaved(ctx context.Context, key string, version int64, count int) error
}

// Options configures a TransactionService.
type Options struct {
	DateMode DateMode
	// Key names the ledger in change notifications.
	Key string
	// Now defaults to time.Now.
	Now       func() time.Time
	Publisher ChangePublisher
}

// TransactionService validates and applies add, update and delete to the
// ledger, then publishes a change notification.
type TransactionService struct {
	store     *ledger.Store
	dateMode  DateMode
	key       string
	now       func() time.Time
	publisher ChangePublisher
}

func NewTransactionService(store *ledger.Store, opts Options) *TransactionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &TransactionService{
		store:     store,
		dateMode:  opts.DateMode,
		key:       opts.Key,
		now:       opts.Now,
		publisher: opts.Publisher,
	}
}

// DateMode reports where dates come from.
func (s *TransactionService) DateMode() DateMode {
	return s.dateMode
}

// List returns the current collection in ledger order.
func (s *TransactionService) List(ctx context.Context) []core.Transaction {
	return s.store.Snapshot()
}

// Add validates the input, appends a new transaction and persists.
func (s *TransactionService) Add(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	date, err := s.resolveDate(in.Date, core.Date{})
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := in.Build(core.NewID(), date)
	if err != nil {
		return core.Transaction{}, err
	}

	rev, err := s.store.Apply(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		return append(items, t), nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("add transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction added",
		"id", t.ID,
		"therapist", t.Therapist,
		"nominal", t.Nominal.String(),
		"date", t.Date.String())
	s.publish(ctx, rev)
	return t, nil
}

// Update replaces the transaction in place. Its identity and, in insertion
// order, its position are kept.
func (s *TransactionService) Update(ctx context.Context, id string, in core.TransactionInput) (core.Transaction, error) {
	current, err := s.store.Get(id)
	if err != nil {
		return core.Transaction{}, err
	}
	date, err := s.resolveDate(in.Date, current.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	t, err := in.Build(id, date)
	if err != nil {
		return core.Transaction{}, err
	}

	rev, err := s.store.Apply(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		i := ledger.IndexOf(items, id)
		if i < 0 {
			return nil, ledger.ErrNotFound
		}
		items[i] = t
		return items, nil
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction updated",
		"id", t.ID,
		"therapist", t.Therapist,
		"nominal", t.Nominal.String())
	s.publish(ctx, rev)
	return t, nil
}

// Delete removes the transaction.
func (s *TransactionService) Delete(ctx context.Context, id string) error {
	rev, err := s.store.Apply(ctx, func(items []core.Transaction) ([]core.Transaction, error) {
		i := ledger.IndexOf(items, id)
		if i < 0 {
			return nil, ledger.ErrNotFound
		}
		return append(items[:i], items[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.publish(ctx, rev)
	return nil
}

// BeginEdit returns the editable values of a transaction without mutating
// anything. Tracking which record is being edited is up to the caller.
func (s *TransactionService) BeginEdit(ctx context.Context, id string) (core.TransactionInput, error) {
	t, err := s.store.Get(id)
	if err != nil {
		return core.TransactionInput{}, err
	}
	return core.InputFrom(t), nil
}

// resolveDate applies the date mode. In clock mode updates keep the
// existing date; only adds are stamped with today.
func (s *TransactionService) resolveDate(raw string, existing core.Date) (core.Date, error) {
	if s.dateMode == DateFromClock {
		if existing.Valid() || existing.Raw != "" {
			return existing, nil
		}
		return core.DateOf(s.now()), nil
	}

	d, err := core.ParseDate(raw)
	if err != nil {
		if errors.Is(err, core.ErrMissingDate) {
			return core.Date{}, &core.ValidationError{Field: "date", Err: core.ErrMissingDate}
		}
		return core.Date{}, &core.ValidationError{Field: "date", Err: core.ErrInvalidDate}
	}
	return d, nil
}

func (s *TransactionService) publish(ctx context.Context, rev ledger.Revision) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishLedgerSaved(ctx, s.key, rev.Version, rev.Count); err != nil {
		// Local save already succeeded
		slog.ErrorContext(ctx, "Failed to publish ledger saved message",
			"version", rev.Version, "error", err)
	}
}
