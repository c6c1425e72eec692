package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMemoryDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(Config{Driver: DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	return db
}

func storedVersion(t *testing.T, db *gorm.DB) int {
	t.Helper()
	var v schemaVersion
	require.NoError(t, db.Where("id = ?", 1).Find(&v).Error)
	return v.Version
}

func TestMigrate(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates fresh schema", func(t *testing.T) {
		db := newMemoryDB(t)
		created := 0
		schema := Schema{
			Version: 3,
			Create: func(tx *gorm.DB) error {
				created++
				return tx.Exec("CREATE TABLE items (id TEXT PRIMARY KEY)").Error
			},
			Migrate: func(tx *gorm.DB, oldVersion, newVersion int) error {
				t.Fatalf("unexpected migrate %d -> %d", oldVersion, newVersion)
				return nil
			},
		}

		require.NoError(t, Migrate(ctx, db, schema))
		assert.Equal(t, 1, created)
		assert.Equal(t, 3, storedVersion(t, db))

		// Second run is a no-op.
		require.NoError(t, Migrate(ctx, db, schema))
		assert.Equal(t, 1, created)
	})

	t.Run("Interleaves callbacks with migration steps", func(t *testing.T) {
		db := newMemoryDB(t)
		require.NoError(t, db.AutoMigrate(&schemaVersion{}))
		require.NoError(t, db.Save(&schemaVersion{ID: 1, Version: 1}).Error)

		var steps []string
		schema := Schema{
			Version: 4,
			Create:  func(tx *gorm.DB) error { return nil },
			Migrate: func(tx *gorm.DB, oldVersion, newVersion int) error {
				steps = append(steps, fmt.Sprintf("migrate %d->%d", oldVersion, newVersion))
				return nil
			},
		}
		callbacks := []AfterVersion{
			{Version: 3, Run: func(tx *gorm.DB) error { steps = append(steps, "after 3"); return nil }},
			{Version: 1, Run: func(tx *gorm.DB) error { steps = append(steps, "after 1"); return nil }},
			{Version: 4, Run: func(tx *gorm.DB) error { steps = append(steps, "after 4"); return nil }},
		}

		require.NoError(t, Migrate(ctx, db, schema, callbacks...))
		assert.Equal(t, []string{"migrate 1->2", "after 1", "migrate 2->4", "after 3"}, steps)
		assert.Equal(t, 4, storedVersion(t, db))
	})

	t.Run("Rejects newer database", func(t *testing.T) {
		db := newMemoryDB(t)
		require.NoError(t, db.AutoMigrate(&schemaVersion{}))
		require.NoError(t, db.Save(&schemaVersion{ID: 1, Version: 9}).Error)

		err := Migrate(ctx, db, Schema{Version: 2})
		assert.ErrorIs(t, err, ErrSchemaTooNew)
	})
}

func TestRequireColumns(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.Exec("CREATE TABLE reports (id TEXT PRIMARY KEY, user_id TEXT NOT NULL)").Error)

	assert.NoError(t, RequireColumns(db, "reports", "id", "USER_ID"))

	err := RequireColumns(db, "reports", "id", "created_at")
	assert.ErrorContains(t, err, "created_at")

	err = RequireColumns(db, "missing_table", "id")
	assert.ErrorContains(t, err, "does not exist")
}

func TestGetTableColumns(t *testing.T) {
	db := newMemoryDB(t)
	require.NoError(t, db.Exec("CREATE TABLE reports (id TEXT PRIMARY KEY, lat REAL)").Error)

	cols, err := GetTableColumns(db, "reports")
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "id", cols[0].Field)
	assert.Equal(t, "PRI", cols[0].Key)
	assert.Equal(t, "real", cols[1].Type)
	assert.Equal(t, "YES", cols[1].Null)
}
