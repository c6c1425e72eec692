package mocks

import (
	"context"

	"report-sync/feature/report/models"

	"github.com/stretchr/testify/mock"
)

// Gateway is a mock implementation of remote.Gateway
type Gateway struct {
	mock.Mock
}

func (m *Gateway) CurrentUserEmail() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *Gateway) CurrentUserUID() (string, bool) {
	args := m.Called()
	return args.String(0), args.Bool(1)
}

func (m *Gateway) SignIn(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *Gateway) SignUp(ctx context.Context, email, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *Gateway) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *Gateway) UpdatePassword(ctx context.Context, newPassword string) error {
	args := m.Called(ctx, newPassword)
	return args.Error(0)
}

func (m *Gateway) SaveUserProfile(ctx context.Context, uid, email string) error {
	args := m.Called(ctx, uid, email)
	return args.Error(0)
}

func (m *Gateway) GetAllReports(ctx context.Context) ([]models.Report, error) {
	args := m.Called(ctx)
	if rows, ok := args.Get(0).([]models.Report); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) GetReportsForUser(ctx context.Context, userID string) ([]models.Report, error) {
	args := m.Called(ctx, userID)
	if rows, ok := args.Get(0).([]models.Report); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Gateway) SaveReport(ctx context.Context, in models.NewReport) (models.Report, error) {
	args := m.Called(ctx, in)
	if r, ok := args.Get(0).(models.Report); ok {
		return r, args.Error(1)
	}
	return models.Report{}, args.Error(1)
}

func (m *Gateway) UpdateReport(ctx context.Context, id string, patch models.ReportPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

func (m *Gateway) DeleteReport(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
