package report

import (
	"context"

	"report-sync/core/observable"
	"report-sync/core/worker"
	"report-sync/feature/report/models"

	"go.uber.org/zap"
)

// Reports is what the view-model needs from the repository.
type Reports interface {
	GetAllReports(ctx context.Context) ([]models.Report, error)
	GetReportsForUser(ctx context.Context, userID string) ([]models.Report, error)
	SaveReport(ctx context.Context, in models.NewReport) (models.Report, error)
	UpdateReport(ctx context.Context, id string, patch models.ReportPatch) error
	DeleteReport(ctx context.Context, id string) error
}

// ViewModel turns intents into published UiState values. Each intent
// publishes its in-progress state immediately and its terminal state once
// the work, run on the pool, completes. The latest write wins.
type ViewModel struct {
	repo   Reports
	pool   *worker.Pool
	logger *zap.Logger
	state  *observable.Value[UiState]
}

// NewViewModel creates a view-model in the Idle state.
func NewViewModel(repo Reports, pool *worker.Pool, logger *zap.Logger) *ViewModel {
	return &ViewModel{
		repo:   repo,
		pool:   pool,
		logger: logger,
		state:  observable.NewValue[UiState](Idle{}),
	}
}

// State returns the latest published state.
func (vm *ViewModel) State() UiState {
	return vm.state.Get()
}

// Subscribe streams the current state and every later one until ctx ends.
func (vm *ViewModel) Subscribe(ctx context.Context) <-chan UiState {
	return vm.state.Subscribe(ctx)
}

// Reset publishes Idle.
func (vm *ViewModel) Reset() {
	vm.state.Set(Idle{})
}

// LoadAllReports refreshes every report.
func (vm *ViewModel) LoadAllReports() error {
	return vm.launch("load_all", LoadingReports{}, func(ctx context.Context) UiState {
		reports, err := vm.repo.GetAllReports(ctx)
		if err != nil {
			return LoadError{Err: err}
		}
		return ReportsLoaded{Reports: reports}
	}, func(err error) UiState { return LoadError{Err: err} })
}

// LoadReportsForUser refreshes the reports of userID.
func (vm *ViewModel) LoadReportsForUser(userID string) error {
	return vm.launch("load_user", LoadingReports{}, func(ctx context.Context) UiState {
		reports, err := vm.repo.GetReportsForUser(ctx, userID)
		if err != nil {
			return LoadError{Err: err}
		}
		return ReportsLoaded{Reports: reports}
	}, func(err error) UiState { return LoadError{Err: err} })
}

// SaveReport creates a report.
func (vm *ViewModel) SaveReport(in models.NewReport) error {
	return vm.launch("save", Saving{}, func(ctx context.Context) UiState {
		saved, err := vm.repo.SaveReport(ctx, in)
		if err != nil {
			return SaveError{Err: err}
		}
		return SaveSuccess{Report: saved}
	}, func(err error) UiState { return SaveError{Err: err} })
}

// UpdateReport patches a report.
func (vm *ViewModel) UpdateReport(id string, patch models.ReportPatch) error {
	return vm.launch("update", Updating{}, func(ctx context.Context) UiState {
		if err := vm.repo.UpdateReport(ctx, id, patch); err != nil {
			return UpdateError{Err: err}
		}
		return UpdateSuccess{}
	}, func(err error) UiState { return UpdateError{Err: err} })
}

// DeleteReport deletes a report.
func (vm *ViewModel) DeleteReport(id string) error {
	return vm.launch("delete", Deleting{}, func(ctx context.Context) UiState {
		if err := vm.repo.DeleteReport(ctx, id); err != nil {
			return DeleteError{Err: err}
		}
		return DeleteSuccess{}
	}, func(err error) UiState { return DeleteError{Err: err} })
}

func (vm *ViewModel) launch(intent string, pending UiState, work func(ctx context.Context) UiState, failed func(error) UiState) error {
	vm.state.Set(pending)

	err := vm.pool.Submit(func(ctx context.Context) {
		next := work(ctx)
		vm.logger.Debug("Intent finished",
			zap.String("intent", intent),
			zap.String("state", StateName(next)))
		vm.state.Set(next)
	})
	if err != nil {
		vm.logger.Warn("Intent rejected", zap.String("intent", intent), zap.Error(err))
		vm.state.Set(failed(err))
	}
	return err
}
