package remote

import (
	"context"

	"report-sync/feature/report/models"
)

// Gateway is the authoritative remote store of reports and user identities.
// Every blocking call honours ctx; cancellation surfaces as ErrCancelled.
type Gateway interface {
	// CurrentUserEmail returns the signed-in user's email, if any.
	CurrentUserEmail() (string, bool)
	// CurrentUserUID returns the signed-in user's id, if any.
	CurrentUserUID() (string, bool)

	SignIn(ctx context.Context, email, password string) error
	// SignUp creates an account and signs it in.
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	UpdatePassword(ctx context.Context, newPassword string) error
	SaveUserProfile(ctx context.Context, uid, email string) error

	GetAllReports(ctx context.Context) ([]models.Report, error)
	GetReportsForUser(ctx context.Context, userID string) ([]models.Report, error)
	// SaveReport stores a new report and returns it with the id and creation
	// time the remote assigned. An empty in.UserID means the signed-in user.
	SaveReport(ctx context.Context, in models.NewReport) (models.Report, error)
	// UpdateReport applies patch to an existing report. An empty patch is a
	// no-op.
	UpdateReport(ctx context.Context, id string, patch models.ReportPatch) error
	DeleteReport(ctx context.Context, id string) error
}
