package cache

import (
	"context"
	"errors"
	"sync"

	"report-sync/core/metrics"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Listener is notified that the results of a query may have changed.
// Implementations must be comparable (use a pointer type) so they can be removed.
type Listener interface {
	ResultsChanged()
}

// ListenerFunc is a Listener backed by a function. Build it with NewListener;
// each call yields a distinct listener even for the same function.
type ListenerFunc struct {
	fn func()
}

// NewListener wraps fn in a removable Listener.
func NewListener(fn func()) *ListenerFunc {
	return &ListenerFunc{fn: fn}
}

func (l *ListenerFunc) ResultsChanged() { l.fn() }

// Option configures a Driver.
type Option func(*Driver)

// WithMetrics records transaction outcomes and notifications on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// Driver owns one logical connection to the cache database. It serializes
// writers through a single outermost transaction at a time and routes change
// notifications to listeners keyed by table name.
type Driver struct {
	db      *gorm.DB
	logger  *zap.Logger
	metrics *metrics.Metrics

	writeMu sync.Mutex

	listenersMu sync.RWMutex
	listeners   map[string]map[Listener]struct{}
}

// NewDriver creates a driver over db.
func NewDriver(db *gorm.DB, logger *zap.Logger, opts ...Option) *Driver {
	d := &Driver{
		db:        db,
		logger:    logger,
		listeners: make(map[string]map[Listener]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type txKey struct{}

// current returns the active transaction carried by ctx for this driver.
func (d *Driver) current(ctx context.Context) *Transaction {
	tx, _ := ctx.Value(txKey{}).(*Transaction)
	if tx == nil || tx.driver != d || tx.State() != TxActive {
		return nil
	}
	return tx
}

// InTransaction reports whether ctx carries an active transaction of d.
func (d *Driver) InTransaction(ctx context.Context) bool {
	return d.current(ctx) != nil
}

// DB returns the handle statements must run on: the active transaction when
// ctx carries one, the base connection otherwise.
func (d *Driver) DB(ctx context.Context) *gorm.DB {
	if tx := d.current(ctx); tx != nil {
		return tx.db.WithContext(ctx)
	}
	return d.db.WithContext(ctx)
}

// Transaction runs body in a transaction. If ctx already carries an active
// transaction of d, body runs as a nested scope of it.
func (d *Driver) Transaction(ctx context.Context, body func(ctx context.Context, tx *Transaction) error) error {
	_, err := TransactionWithResult(ctx, d, func(ctx context.Context, tx *Transaction) (struct{}, error) {
		return struct{}{}, body(ctx, tx)
	})
	return err
}

// TransactionWithResult is Transaction for bodies that produce a value.
func TransactionWithResult[T any](ctx context.Context, d *Driver, body func(ctx context.Context, tx *Transaction) (T, error)) (T, error) {
	if parent := d.current(ctx); parent != nil {
		tx := &Transaction{driver: d, enclosing: parent, db: parent.db}
		result, err := body(context.WithValue(ctx, txKey{}, tx), tx)
		if err != nil {
			tx.Rollback()
		}
		return result, err
	}
	value, err := d.outermost(ctx, func(ctx context.Context, tx *Transaction) (any, error) {
		return body(ctx, tx)
	})
	result, _ := value.(T)
	return result, err
}

func (d *Driver) outermost(ctx context.Context, body func(ctx context.Context, tx *Transaction) (any, error)) (any, error) {
	d.writeMu.Lock()
	locked := true
	unlock := func() {
		if locked {
			locked = false
			d.writeMu.Unlock()
		}
	}
	defer unlock()

	physical := d.db.WithContext(ctx).Begin()
	if physical.Error != nil {
		d.metrics.TransactionFinished(metrics.TxFailed)
		return nil, &StorageFailure{Op: "begin", Err: physical.Error}
	}

	tx := &Transaction{driver: d, db: physical, state: TxActive}
	txCtx := context.WithValue(ctx, txKey{}, tx)

	var (
		value   any
		bodyErr error
	)
	func() {
		defer func() {
			if p := recover(); p != nil {
				tx.setState(TxRollingBack)
				physical.Rollback()
				tx.setState(TxRolledBack)
				d.metrics.TransactionFinished(metrics.TxRolledBack)
				panic(p)
			}
		}()
		value, bodyErr = body(txCtx, tx)
	}()

	if bodyErr != nil || tx.RollbackOnly() {
		tx.setState(TxRollingBack)
		rbErr := physical.Rollback().Error
		tx.setState(TxRolledBack)
		d.metrics.TransactionFinished(metrics.TxRolledBack)
		unlock()

		_, onRollback, _ := tx.snapshot()
		hookErr := runHooks(onRollback)
		switch {
		case bodyErr != nil:
			if rbErr != nil {
				d.logger.Warn("Rollback failed", zap.Error(rbErr))
			}
			return value, joinHookErr(bodyErr, hookErr)
		case rbErr != nil:
			return value, joinHookErr(&StorageFailure{Op: "rollback", Err: rbErr}, hookErr)
		default:
			return value, hookErr
		}
	}

	tx.setState(TxCommitting)
	if err := physical.Commit().Error; err != nil {
		// A failed commit leaves nothing applied.
		tx.setState(TxRollingBack)
		tx.setState(TxRolledBack)
		d.metrics.TransactionFinished(metrics.TxFailed)
		unlock()

		_, onRollback, _ := tx.snapshot()
		return value, joinHookErr(&StorageFailure{Op: "commit", Err: err}, runHooks(onRollback))
	}
	tx.setState(TxCommitted)
	d.metrics.TransactionFinished(metrics.TxCommitted)
	unlock()

	onCommit, _, keys := tx.snapshot()
	d.dispatch(keys)
	return value, runHooks(onCommit)
}

// joinHookErr keeps err as is when no hook failed.
func joinHookErr(err, hookErr error) error {
	if hookErr == nil {
		return err
	}
	return errors.Join(err, hookErr)
}

// Write runs stmt inside a (possibly nested) transaction and schedules a
// change notification for keys. Statement errors surface as *StorageFailure.
func (d *Driver) Write(ctx context.Context, op string, keys []string, stmt func(db *gorm.DB) error) error {
	return d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error {
		if err := stmt(tx.db.WithContext(ctx)); err != nil {
			return &StorageFailure{Op: op, Err: err}
		}
		tx.addPendingKeys(keys...)
		return nil
	})
}

// Notify reports that rows behind keys may have changed. Inside a transaction
// the notification is deferred until the outermost scope commits.
func (d *Driver) Notify(ctx context.Context, keys ...string) {
	if tx := d.current(ctx); tx != nil {
		tx.addPendingKeys(keys...)
		return
	}
	d.dispatch(keys)
}

// AddListener registers l for every key.
func (d *Driver) AddListener(l Listener, keys ...string) {
	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()
	for _, k := range keys {
		set, ok := d.listeners[k]
		if !ok {
			set = make(map[Listener]struct{})
			d.listeners[k] = set
		}
		set[l] = struct{}{}
	}
}

// RemoveListener unregisters l from every key.
func (d *Driver) RemoveListener(l Listener, keys ...string) {
	d.listenersMu.Lock()
	defer d.listenersMu.Unlock()
	for _, k := range keys {
		if set, ok := d.listeners[k]; ok {
			delete(set, l)
			if len(set) == 0 {
				delete(d.listeners, k)
			}
		}
	}
}

// dispatch invokes each listener registered on any of keys exactly once.
func (d *Driver) dispatch(keys []string) {
	if len(keys) == 0 {
		return
	}

	var targets []Listener
	seen := make(map[Listener]struct{})

	d.listenersMu.RLock()
	for _, k := range keys {
		for l := range d.listeners[k] {
			if _, dup := seen[l]; dup {
				continue
			}
			seen[l] = struct{}{}
			targets = append(targets, l)
		}
	}
	d.listenersMu.RUnlock()

	for _, k := range keys {
		d.metrics.Notified(k)
	}
	for _, l := range targets {
		l.ResultsChanged()
	}
}
