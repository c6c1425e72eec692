package cache

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// TxState is the lifecycle state of an outermost transaction.
type TxState int

const (
	TxNone TxState = iota
	TxActive
	TxCommitting
	TxCommitted
	TxRollingBack
	TxRolledBack
)

func (s TxState) String() string {
	switch s {
	case TxNone:
		return "none"
	case TxActive:
		return "active"
	case TxCommitting:
		return "committing"
	case TxCommitted:
		return "committed"
	case TxRollingBack:
		return "rolling_back"
	case TxRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

// Transaction is one scope of work on a Driver. Nested scopes share the
// physical transaction of the outermost scope; only the outermost scope
// commits or rolls back, and all hooks and notifications are held on it.
type Transaction struct {
	driver    *Driver
	enclosing *Transaction
	db        *gorm.DB

	// The fields below are only used on the outermost transaction.
	mu            sync.Mutex
	state         TxState
	rollbackOnly  bool
	afterCommit   []func() error
	afterRollback []func() error
	pendingKeys   []string
}

// Enclosing returns the parent scope, or nil for the outermost transaction.
func (t *Transaction) Enclosing() *Transaction {
	return t.enclosing
}

func (t *Transaction) root() *Transaction {
	r := t
	for r.enclosing != nil {
		r = r.enclosing
	}
	return r
}

// Rollback marks the whole transaction for rollback. Once marked, the
// outermost scope rolls back regardless of how the remaining scopes return.
func (t *Transaction) Rollback() {
	r := t.root()
	r.mu.Lock()
	r.rollbackOnly = true
	r.mu.Unlock()
}

// RollbackOnly reports whether the transaction has been marked for rollback.
func (t *Transaction) RollbackOnly() bool {
	r := t.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rollbackOnly
}

// State returns the state of the outermost transaction.
func (t *Transaction) State() TxState {
	r := t.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// AfterCommit registers fn to run after the outermost transaction commits.
// Hooks run in registration order; the first error stops the chain and is
// returned to the caller of the outermost scope.
func (t *Transaction) AfterCommit(fn func() error) {
	r := t.root()
	r.mu.Lock()
	r.afterCommit = append(r.afterCommit, fn)
	r.mu.Unlock()
}

// AfterRollback registers fn to run after the outermost transaction rolls back.
func (t *Transaction) AfterRollback(fn func() error) {
	r := t.root()
	r.mu.Lock()
	r.afterRollback = append(r.afterRollback, fn)
	r.mu.Unlock()
}

// DB returns the gorm handle bound to the physical transaction.
func (t *Transaction) DB() *gorm.DB {
	return t.db
}

func (t *Transaction) setState(s TxState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	t.driver.logger.Debug("Transaction state changed", zap.Stringer("state", s))
}

func (t *Transaction) addPendingKeys(keys ...string) {
	r := t.root()
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range keys {
		seen := false
		for _, p := range r.pendingKeys {
			if p == k {
				seen = true
				break
			}
		}
		if !seen {
			r.pendingKeys = append(r.pendingKeys, k)
		}
	}
}

func (t *Transaction) snapshot() (commit, rollback []func() error, keys []string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.afterCommit, t.afterRollback, t.pendingKeys
}

func runHooks(hooks []func() error) error {
	for i, h := range hooks {
		if err := h(); err != nil {
			return fmt.Errorf("transaction hook %d: %w", i, err)
		}
	}
	return nil
}
