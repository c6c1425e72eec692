package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"
)

// Schema describes a versioned table layout.
type Schema struct {
	// Version is the version the code expects.
	Version int
	// Create builds the schema from scratch on an empty database.
	Create func(tx *gorm.DB) error
	// Migrate upgrades the schema from oldVersion to newVersion.
	Migrate func(tx *gorm.DB, oldVersion, newVersion int) error
}

// AfterVersion is a migration callback run once the schema has been
// migrated up to (and including) Version.
type AfterVersion struct {
	Version int
	Run     func(tx *gorm.DB) error
}

type schemaVersion struct {
	ID      uint `gorm:"primaryKey"`
	Version int  `gorm:"not null"`
}

func (schemaVersion) TableName() string { return "schema_versions" }

// ErrSchemaTooNew is returned when the database was written by a newer schema.
var ErrSchemaTooNew = errors.New("database schema is newer than supported")

// Migrate brings db to schema.Version. A fresh database is created, an older
// one is migrated step by step with the callbacks interleaved at their
// versions. It must run before any query is served.
func Migrate(ctx context.Context, db *gorm.DB, schema Schema, callbacks ...AfterVersion) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.AutoMigrate(&schemaVersion{}); err != nil {
			return fmt.Errorf("create schema_versions: %w", err)
		}

		var current schemaVersion
		err := tx.Where("id = ?", 1).Limit(1).Find(&current).Error
		if err != nil {
			return fmt.Errorf("read schema version: %w", err)
		}

		switch {
		case current.Version == schema.Version:
			return nil
		case current.Version > schema.Version:
			return fmt.Errorf("%w: have %d, support %d", ErrSchemaTooNew, current.Version, schema.Version)
		case current.Version == 0:
			if err := schema.Create(tx); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
		default:
			if err := migrateWithCallbacks(tx, schema, current.Version, schema.Version, callbacks); err != nil {
				return err
			}
		}

		current.ID = 1
		current.Version = schema.Version
		if err := tx.Save(&current).Error; err != nil {
			return fmt.Errorf("store schema version: %w", err)
		}
		return nil
	})
}

func migrateWithCallbacks(tx *gorm.DB, schema Schema, oldVersion, newVersion int, callbacks []AfterVersion) error {
	sorted := make([]AfterVersion, len(callbacks))
	copy(sorted, callbacks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Version < sorted[j].Version
	})

	last := oldVersion
	for _, cb := range sorted {
		if cb.Version < oldVersion || cb.Version >= newVersion {
			continue
		}
		if last < cb.Version+1 {
			if err := schema.Migrate(tx, last, cb.Version+1); err != nil {
				return fmt.Errorf("migrate %d -> %d: %w", last, cb.Version+1, err)
			}
			last = cb.Version + 1
		}
		if err := cb.Run(tx); err != nil {
			return fmt.Errorf("after version %d: %w", cb.Version, err)
		}
	}

	if last < newVersion {
		if err := schema.Migrate(tx, last, newVersion); err != nil {
			return fmt.Errorf("migrate %d -> %d: %w", last, newVersion, err)
		}
	}
	return nil
}
