package cache

import (
	"context"
	"errors"
	"testing"

	"report-sync/core/metrics"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDriver(t *testing.T, opts ...Option) (*Driver, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewDriver(db, zap.NewNop(), opts...), mock
}

func TestDriverFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("Begin failure", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		d, mock := newMockDriver(t, WithMetrics(m))
		mock.ExpectBegin().WillReturnError(errors.New("connection lost"))

		ran := false
		err := d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error {
			ran = true
			return nil
		})

		var sf *StorageFailure
		require.ErrorAs(t, err, &sf)
		assert.Equal(t, "begin", sf.Op)
		assert.False(t, ran)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues(metrics.TxFailed)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit failure runs rollback hooks without notifying", func(t *testing.T) {
		d, mock := newMockDriver(t)
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `items`").WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		notified := false
		d.AddListener(NewListener(func() { notified = true }), itemsTable)

		var committed, rolledBack bool
		err := d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error {
			tx.AfterCommit(func() error { committed = true; return nil })
			tx.AfterRollback(func() error { rolledBack = true; return nil })
			return insertItem(ctx, d, "1", "one")
		})

		var sf *StorageFailure
		require.ErrorAs(t, err, &sf)
		assert.Equal(t, "commit", sf.Op)
		assert.False(t, committed)
		assert.True(t, rolledBack)
		assert.False(t, notified)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback is issued on body error", func(t *testing.T) {
		m := metrics.NewMetrics(prometheus.NewRegistry())
		d, mock := newMockDriver(t, WithMetrics(m))
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error {
			return boom
		})

		assert.Same(t, boom, err)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.Transactions.WithLabelValues(metrics.TxRolledBack)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit failure passes through rolling back", func(t *testing.T) {
		sqlDB, mock, err := sqlmock.New()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}),
			&gorm.Config{Logger: logger.Default.LogMode(logger.Silent), SkipDefaultTransaction: true})
		require.NoError(t, err)

		core, logs := observer.New(zapcore.DebugLevel)
		d := NewDriver(db, zap.New(core))
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		err = d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error { return nil })
		require.Error(t, err)

		var states []string
		for _, e := range logs.FilterMessage("Transaction state changed").All() {
			states = append(states, e.ContextMap()["state"].(string))
		}
		assert.Equal(t, []string{"committing", "rolling_back", "rolled_back"}, states)
	})

	t.Run("Commit failure joins rollback hook errors", func(t *testing.T) {
		d, mock := newMockDriver(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("disk full"))

		hookErr := errors.New("hook")
		err := d.Transaction(ctx, func(ctx context.Context, tx *Transaction) error {
			tx.AfterRollback(func() error { return hookErr })
			return nil
		})

		var sf *StorageFailure
		require.ErrorAs(t, err, &sf)
		assert.Equal(t, "commit", sf.Op)
		assert.ErrorIs(t, err, hookErr)
	})
}
