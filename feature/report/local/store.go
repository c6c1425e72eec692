package local

import (
	"context"
	"errors"
	"fmt"

	"report-sync/core/cache"
	"report-sync/core/reconcile"
	"report-sync/feature/report/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrForeignOwner is returned when a per-user replace receives a report owned
// by a different user.
var ErrForeignOwner = errors.New("report belongs to another user")

var tableKeys = []string{models.TableName}

// upsertColumns are replaced on conflict by single-row upserts, which keep the
// cached creation time.
var upsertColumns = []string{
	"user_id", "description", "name", "phone", "image_url",
	"is_lost", "location", "lat", "lng",
}

// snapshotColumns are replaced on conflict by snapshot replaces, which take
// every value from the remote.
var snapshotColumns = append(append([]string{}, upsertColumns...), "created_at")

// Store is the transactional cache of reports.
type Store struct {
	driver *cache.Driver
	logger *zap.Logger
}

// NewStore creates a store on driver. The reports table must already be
// migrated.
func NewStore(driver *cache.Driver, logger *zap.Logger) *Store {
	return &Store{driver: driver, logger: logger}
}

// Driver returns the underlying cache driver.
func (s *Store) Driver() *cache.Driver {
	return s.driver
}

func ordered(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id ASC")
}

// SelectAll returns a query over every cached report, newest first.
func (s *Store) SelectAll() *cache.Query[models.Report] {
	return cache.NewQuery(s.driver, "reports.select_all", tableKeys, func(db *gorm.DB) ([]models.Report, error) {
		var rows []models.Report
		err := ordered(db).Find(&rows).Error
		return rows, err
	})
}

// SelectByUser returns a query over the reports of userID, newest first.
func (s *Store) SelectByUser(userID string) *cache.Query[models.Report] {
	return cache.NewQuery(s.driver, "reports.select_by_user", tableKeys, func(db *gorm.DB) ([]models.Report, error) {
		var rows []models.Report
		err := ordered(db).Where("user_id = ?", userID).Find(&rows).Error
		return rows, err
	})
}

// SelectByID returns a query for a single report.
func (s *Store) SelectByID(id string) *cache.Query[models.Report] {
	return cache.NewQuery(s.driver, "reports.select_by_id", tableKeys, func(db *gorm.DB) ([]models.Report, error) {
		var rows []models.Report
		err := db.Where("id = ?", id).Find(&rows).Error
		return rows, err
	})
}

// GetAll returns every cached report.
func (s *Store) GetAll(ctx context.Context) ([]models.Report, error) {
	return s.SelectAll().ExecuteAsList(ctx)
}

// GetByUser returns the cached reports of userID.
func (s *Store) GetByUser(ctx context.Context, userID string) ([]models.Report, error) {
	return s.SelectByUser(userID).ExecuteAsList(ctx)
}

// GetByID returns the cached report or nil when it is absent.
func (s *Store) GetByID(ctx context.Context, id string) (*models.Report, error) {
	return s.SelectByID(id).ExecuteAsOneOrNull(ctx)
}

// ObserveAll streams the full cached list after every change.
func (s *Store) ObserveAll(ctx context.Context) <-chan []models.Report {
	return s.SelectAll().Observe(ctx)
}

// Upsert inserts r or replaces the row with the same id. The creation time of
// an existing row is kept.
func (s *Store) Upsert(ctx context.Context, r models.Report) error {
	return s.driver.Write(ctx, "reports.upsert", tableKeys, func(db *gorm.DB) error {
		return upsert(db, []models.Report{r}, upsertColumns)
	})
}

func upsert(db *gorm.DB, rows []models.Report, columns []string) error {
	if len(rows) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(&rows).Error
}

// DeleteByID removes a report. Deleting an absent id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	return s.driver.Write(ctx, "reports.delete", tableKeys, func(db *gorm.DB) error {
		return db.Where("id = ?", id).Delete(&models.Report{}).Error
	})
}

// ReplaceAllForUser makes the cached reports of userID equal to items in one
// transaction.
func (s *Store) ReplaceAllForUser(ctx context.Context, userID string, items []models.Report) (reconcile.Summary, error) {
	for _, r := range items {
		if r.UserID != userID {
			return reconcile.Summary{}, fmt.Errorf("%w: report %s is owned by %q, not %q", ErrForeignOwner, r.ID, r.UserID, userID)
		}
	}

	return s.replace(ctx, "reports.replace_for_user", s.SelectByUser(userID), items, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

// ReplaceAll makes the whole cache equal to items in one transaction.
func (s *Store) ReplaceAll(ctx context.Context, items []models.Report) (reconcile.Summary, error) {
	return s.replace(ctx, "reports.replace_all", s.SelectAll(), items, func(db *gorm.DB) *gorm.DB {
		return db.Where("1 = 1")
	})
}

func (s *Store) replace(
	ctx context.Context,
	op string,
	current *cache.Query[models.Report],
	items []models.Report,
	scope func(db *gorm.DB) *gorm.DB,
) (reconcile.Summary, error) {
	return cache.TransactionWithResult(ctx, s.driver, func(ctx context.Context, tx *cache.Transaction) (reconcile.Summary, error) {
		existing, err := current.ExecuteAsList(ctx)
		if err != nil {
			return reconcile.Summary{}, err
		}
		summary := reconcile.Summarize(reconcile.Diff(existing, items, models.Key, models.Equal))

		err = s.driver.Write(ctx, op, tableKeys, func(db *gorm.DB) error {
			if err := scope(db).Delete(&models.Report{}).Error; err != nil {
				return err
			}
			return upsert(db, dedupe(items), snapshotColumns)
		})
		if err != nil {
			return reconcile.Summary{}, err
		}

		s.logger.Debug("Replaced cached reports",
			zap.String("op", op),
			zap.Int("added", summary.Added),
			zap.Int("updated", summary.Updated),
			zap.Int("removed", summary.Removed))
		return summary, nil
	})
}

// dedupe keeps the last occurrence of each id so a batch insert cannot
// collide with itself.
func dedupe(items []models.Report) []models.Report {
	pos := make(map[string]int, len(items))
	out := make([]models.Report, 0, len(items))
	for _, r := range items {
		if i, ok := pos[r.ID]; ok {
			out[i] = r
			continue
		}
		pos[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// ApplyPatch updates a cached report in place. It returns false when the
// report is not cached.
func (s *Store) ApplyPatch(ctx context.Context, id string, patch models.ReportPatch) (bool, error) {
	return cache.TransactionWithResult(ctx, s.driver, func(ctx context.Context, tx *cache.Transaction) (bool, error) {
		row, err := s.GetByID(ctx, id)
		if err != nil {
			return false, err
		}
		if row == nil {
			return false, nil
		}
		if patch.Empty() {
			return true, nil
		}
		patch.Apply(row)
		if err := s.Upsert(ctx, *row); err != nil {
			return false, err
		}
		return true, nil
	})
}
