package report

import (
	"context"
	"fmt"

	"report-sync/core/metrics"
	"report-sync/core/reconcile"
	"report-sync/core/remote"
	"report-sync/feature/report/local"
	"report-sync/feature/report/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// RepositoryOption configures a Repository.
type RepositoryOption func(*Repository)

// WithMetrics records snapshot changes on m.
func WithMetrics(m *metrics.Metrics) RepositoryOption {
	return func(r *Repository) { r.metrics = m }
}

// Repository keeps the local cache consistent with the remote. Writes go to
// the remote first and are mirrored locally only on success; reads fetch a
// remote snapshot and replace the cached slice with it.
type Repository struct {
	gateway remote.Gateway
	store   *local.Store
	logger  *zap.Logger
	metrics *metrics.Metrics

	refresh singleflight.Group
}

// NewRepository creates a repository over gateway and store.
func NewRepository(gateway remote.Gateway, store *local.Store, logger *zap.Logger, opts ...RepositoryOption) *Repository {
	r := &Repository{
		gateway: gateway,
		store:   store,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetAllReports fetches every report from the remote and replaces the cache
// with the result. Concurrent calls share one fetch.
func (r *Repository) GetAllReports(ctx context.Context) ([]models.Report, error) {
	return r.coalesce(ctx, "all", func(ctx context.Context) ([]models.Report, error) {
		reports, err := r.gateway.GetAllReports(ctx)
		if err != nil {
			return nil, remote.Translate("get_all_reports", err)
		}
		summary, err := r.store.ReplaceAll(ctx, reports)
		if err != nil {
			return nil, err
		}
		r.recordSnapshot("all", summary)
		return reports, nil
	})
}

// GetReportsForUser fetches the reports of userID from the remote and
// replaces that user's cached slice.
func (r *Repository) GetReportsForUser(ctx context.Context, userID string) ([]models.Report, error) {
	return r.coalesce(ctx, "user:"+userID, func(ctx context.Context) ([]models.Report, error) {
		reports, err := r.gateway.GetReportsForUser(ctx, userID)
		if err != nil {
			return nil, remote.Translate("get_user_reports", err)
		}
		summary, err := r.store.ReplaceAllForUser(ctx, userID, reports)
		if err != nil {
			return nil, err
		}
		r.recordSnapshot("user:"+userID, summary)
		return reports, nil
	})
}

// coalesce runs fetch once per key for all concurrent callers. The shared
// fetch is detached from any single caller's cancellation; a caller whose
// ctx ends stops waiting and gets ErrCancelled.
func (r *Repository) coalesce(ctx context.Context, key string, fetch func(ctx context.Context) ([]models.Report, error)) ([]models.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, remote.Translate("refresh", err)
	}

	ch := r.refresh.DoChan(key, func() (any, error) {
		return fetch(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		reports, _ := res.Val.([]models.Report)
		// Each caller owns its slice.
		out := make([]models.Report, len(reports))
		copy(out, reports)
		return out, nil
	case <-ctx.Done():
		return nil, remote.Translate("refresh", ctx.Err())
	}
}

func (r *Repository) recordSnapshot(scope string, s reconcile.Summary) {
	r.metrics.SnapshotReplaced(s.Added, s.Updated, s.Removed)
	if s.Changed() {
		r.logger.Info("Cache refreshed from remote",
			zap.String("scope", scope),
			zap.Int("added", s.Added),
			zap.Int("updated", s.Updated),
			zap.Int("removed", s.Removed),
			zap.Int("unchanged", s.Unchanged))
	}
}

// CachedReports reads the local cache only. An empty userID returns every
// cached report.
func (r *Repository) CachedReports(ctx context.Context, userID string) ([]models.Report, error) {
	if userID == "" {
		return r.store.GetAll(ctx)
	}
	return r.store.GetByUser(ctx, userID)
}

// ObserveReports streams the cached list after every change.
func (r *Repository) ObserveReports(ctx context.Context) <-chan []models.Report {
	return r.store.ObserveAll(ctx)
}

// mirrorContext detaches the local write that follows a successful remote
// call from the caller's cancellation, so the cache never lags a change the
// remote has accepted.
func mirrorContext(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}

// SaveReport creates the report remotely and caches the stored copy. A report
// without a user is saved for the signed-in user.
func (r *Repository) SaveReport(ctx context.Context, in models.NewReport) (models.Report, error) {
	if in.UserID == "" {
		uid, ok := r.gateway.CurrentUserUID()
		if !ok {
			return models.Report{}, remote.ErrNotSignedIn
		}
		in.UserID = uid
	}

	saved, err := r.gateway.SaveReport(ctx, in)
	if err != nil {
		return models.Report{}, remote.Translate("save_report", err)
	}
	if err := r.store.Upsert(mirrorContext(ctx), saved); err != nil {
		return models.Report{}, fmt.Errorf("cache saved report %s: %w", saved.ID, err)
	}
	return saved, nil
}

// UpdateReport patches the report remotely, then in the cache if it is cached.
func (r *Repository) UpdateReport(ctx context.Context, id string, patch models.ReportPatch) error {
	if err := r.gateway.UpdateReport(ctx, id, patch); err != nil {
		return remote.Translate("update_report", err)
	}
	cached, err := r.store.ApplyPatch(mirrorContext(ctx), id, patch)
	if err != nil {
		return fmt.Errorf("cache update of report %s: %w", id, err)
	}
	if !cached {
		r.logger.Debug("Updated report is not cached", zap.String("id", id))
	}
	return nil
}

// DeleteReport deletes the report remotely, then from the cache.
func (r *Repository) DeleteReport(ctx context.Context, id string) error {
	if err := r.gateway.DeleteReport(ctx, id); err != nil {
		return remote.Translate("delete_report", err)
	}
	if err := r.store.DeleteByID(mirrorContext(ctx), id); err != nil {
		return fmt.Errorf("cache delete of report %s: %w", id, err)
	}
	return nil
}

// SignIn signs the user in on the remote.
func (r *Repository) SignIn(ctx context.Context, email, password string) error {
	return remote.Translate("sign_in", r.gateway.SignIn(ctx, email, password))
}

// SignUp creates the account and stores its public profile.
func (r *Repository) SignUp(ctx context.Context, email, password string) error {
	if err := r.gateway.SignUp(ctx, email, password); err != nil {
		return remote.Translate("sign_up", err)
	}
	uid, ok := r.gateway.CurrentUserUID()
	if !ok {
		return remote.ErrNotSignedIn
	}
	if err := r.gateway.SaveUserProfile(ctx, uid, email); err != nil {
		return remote.Translate("save_profile", err)
	}
	return nil
}

// SignOut ends the remote session.
func (r *Repository) SignOut(ctx context.Context) error {
	return remote.Translate("sign_out", r.gateway.SignOut(ctx))
}

// UpdatePassword changes the signed-in user's password.
func (r *Repository) UpdatePassword(ctx context.Context, newPassword string) error {
	return remote.Translate("update_password", r.gateway.UpdatePassword(ctx, newPassword))
}

// User is the signed-in identity.
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}

// CurrentUser returns the signed-in user, if any.
func (r *Repository) CurrentUser() (User, bool) {
	uid, ok := r.gateway.CurrentUserUID()
	if !ok {
		return User{}, false
	}
	email, _ := r.gateway.CurrentUserEmail()
	return User{UID: uid, Email: email}, true
}
