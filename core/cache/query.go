package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Query is a re-executable read against the cache. It names the table keys
// whose changes may alter its results so callers can observe it.
type Query[T any] struct {
	driver     *Driver
	identifier string
	keys       []string
	exec       func(db *gorm.DB) ([]T, error)
}

// NewQuery builds a query identified by identifier that depends on keys.
func NewQuery[T any](d *Driver, identifier string, keys []string, exec func(db *gorm.DB) ([]T, error)) *Query[T] {
	return &Query[T]{driver: d, identifier: identifier, keys: keys, exec: exec}
}

// Identifier returns the query name used in errors and logs.
func (q *Query[T]) Identifier() string { return q.identifier }

// ExecuteAsList runs the query and returns every row. Inside a transaction
// carried by ctx the rows reflect its uncommitted writes.
func (q *Query[T]) ExecuteAsList(ctx context.Context) ([]T, error) {
	rows, err := q.exec(q.driver.DB(ctx))
	if err != nil {
		var sf *StorageFailure
		if errors.As(err, &sf) {
			return nil, err
		}
		return nil, &StorageFailure{Op: q.identifier, Err: err}
	}
	return rows, nil
}

// ExecuteAsOne returns the single row of the query. It fails with ErrNotFound
// for zero rows and ErrMultipleRows for more than one.
func (q *Query[T]) ExecuteAsOne(ctx context.Context) (T, error) {
	var zero T
	row, err := q.ExecuteAsOneOrNull(ctx)
	if err != nil {
		return zero, err
	}
	if row == nil {
		return zero, fmt.Errorf("%s: %w", q.identifier, ErrNotFound)
	}
	return *row, nil
}

// ExecuteAsOneOrNull returns the single row of the query or nil when there is none.
func (q *Query[T]) ExecuteAsOneOrNull(ctx context.Context) (*T, error) {
	rows, err := q.ExecuteAsList(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%s: %w (%d rows)", q.identifier, ErrMultipleRows, len(rows))
	}
}

// AddListener registers l on every key of the query.
func (q *Query[T]) AddListener(l Listener) {
	q.driver.AddListener(l, q.keys...)
}

// RemoveListener unregisters l from every key of the query.
func (q *Query[T]) RemoveListener(l Listener) {
	q.driver.RemoveListener(l, q.keys...)
}

// Observe emits the current result list and a fresh one after every change
// notification on the query's keys. Emissions are conflated: a slow reader
// only ever sees the latest list. The channel closes when ctx is done.
func (q *Query[T]) Observe(ctx context.Context) <-chan []T {
	out := make(chan []T, 1)
	trigger := make(chan struct{}, 1)
	trigger <- struct{}{}

	listener := NewListener(func() {
		select {
		case trigger <- struct{}{}:
		default:
		}
	})
	q.AddListener(listener)

	go func() {
		defer close(out)
		defer q.RemoveListener(listener)

		for {
			select {
			case <-ctx.Done():
				return
			case <-trigger:
			}

			rows, err := q.ExecuteAsList(context.WithoutCancel(ctx))
			if err != nil {
				q.driver.logger.Warn("Observed query failed",
					zap.String("query", q.identifier), zap.Error(err))
				continue
			}

			select {
			case <-out:
			default:
			}
			select {
			case out <- rows:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
