package report

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SchedulerConfig controls the periodic remote refresh.
type SchedulerConfig struct {
	// Enabled turns the periodic refresh on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Spec is a cron expression or descriptor such as "@every 5m".
	Spec string `mapstructure:"spec" default:"@every 5m"`
}

// Scheduler periodically queues a full refresh on the view-model.
type Scheduler struct {
	cfg    SchedulerConfig
	vm     *ViewModel
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler validates cfg.Spec and registers the refresh job.
func NewScheduler(cfg SchedulerConfig, vm *ViewModel, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cfg:    cfg,
		vm:     vm,
		cron:   cron.New(),
		logger: logger,
	}
	if !cfg.Enabled {
		return s, nil
	}
	if _, err := s.cron.AddFunc(cfg.Spec, s.trigger); err != nil {
		return nil, fmt.Errorf("invalid scheduler spec %q: %w", cfg.Spec, err)
	}
	return s, nil
}

// Start begins running the job in the background.
func (s *Scheduler) Start() {
	if !s.cfg.Enabled {
		s.logger.Info("Scheduler is disabled")
		return
	}
	s.logger.Info("Starting scheduler", zap.String("spec", s.cfg.Spec))
	s.cron.Start()
}

// Stop stops the schedule and waits for a running trigger to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Stopped scheduler")
}

func (s *Scheduler) trigger() {
	if _, loading := s.vm.State().(LoadingReports); loading {
		s.logger.Debug("Refresh already running, skipping scheduled run")
		return
	}
	s.logger.Debug("Triggering scheduled refresh")
	if err := s.vm.LoadAllReports(); err != nil {
		s.logger.Error("Failed to queue scheduled refresh", zap.Error(err))
	}
}
