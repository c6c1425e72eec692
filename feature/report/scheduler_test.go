package report

import (
	"testing"
	"time"

	"report-sync/feature/report/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler(t *testing.T) {
	t.Run("Invalid cron expression", func(t *testing.T) {
		vm, _ := newTestViewModel(t, new(fakeReports))
		_, err := NewScheduler(SchedulerConfig{Enabled: true, Spec: "every now and then"}, vm, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("Disabled scheduler never triggers", func(t *testing.T) {
		repo := new(fakeReports)
		vm, _ := newTestViewModel(t, repo)
		s, err := NewScheduler(SchedulerConfig{Enabled: false, Spec: "@every 1s"}, vm, zap.NewNop())
		require.NoError(t, err)
		s.Start()
		s.Stop()
		repo.AssertNotCalled(t, "GetAllReports", mock.Anything)
	})

	t.Run("Triggers a refresh", func(t *testing.T) {
		repo := new(fakeReports)
		repo.On("GetAllReports", mock.Anything).Return([]models.Report{}, nil)
		vm, _ := newTestViewModel(t, repo)

		s, err := NewScheduler(SchedulerConfig{Enabled: true, Spec: "@every 1s"}, vm, zap.NewNop())
		require.NoError(t, err)
		s.Start()
		defer s.Stop()

		assert.Eventually(t, func() bool {
			_, ok := vm.State().(ReportsLoaded)
			return ok
		}, 3*time.Second, 20*time.Millisecond)
	})

	t.Run("Skips while a load is running", func(t *testing.T) {
		repo := new(fakeReports)
		vm, _ := newTestViewModel(t, repo)
		s, err := NewScheduler(SchedulerConfig{Enabled: true, Spec: "@every 1h"}, vm, zap.NewNop())
		require.NoError(t, err)

		vm.state.Set(LoadingReports{})
		s.trigger()
		repo.AssertNotCalled(t, "GetAllReports", mock.Anything)
	})
}
