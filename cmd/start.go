package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"report-sync/core/loader"
	"report-sync/core/server"
	"report-sync/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "report-sync/docs/swagger"
)

// @title Report Sync API
// @version 1.0
// @description API for lost and found reports backed by a local cache.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the report sync server",
	Long:  `Starts the HTTP server, the worker pool and the periodic refresh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		a, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		if err := a.cfg.Server.Validate(); err != nil {
			return err
		}
		logg := a.logger

		scheduler, err := report.NewScheduler(a.cfg.Scheduler, a.vm, logg)
		if err != nil {
			return err
		}

		mgr := loader.NewManager(logg)
		mgr.Register(report.NewFeature(a.repo, a.vm, logg))

		srv, err := server.New(a.cfg.Server, logg, mgr, a.registry)
		if err != nil {
			return fmt.Errorf("build server: %w", err)
		}

		scheduler.Start()

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server", zap.String("port", a.cfg.Server.Port))
			errCh <- srv.Listen(":" + a.cfg.Server.Port)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		var listenErr error
		select {
		case <-sig:
		case listenErr = <-errCh:
			logg.Error("Server stopped", zap.Error(listenErr))
		}

		logg.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
		defer cancel()

		if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
			logg.Warn("Server shutdown incomplete", zap.Error(err))
		}
		scheduler.Stop()
		a.close(shutdownCtx)
		return listenErr
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
