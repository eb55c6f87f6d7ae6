package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/company"
	"github.com/frahmantamala/payroll-bridge/internal/core/scheduler"
	"github.com/frahmantamala/payroll-bridge/internal/employee"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
	"github.com/frahmantamala/payroll-bridge/internal/submission"
	"github.com/frahmantamala/payroll-bridge/internal/transport"
	"github.com/frahmantamala/payroll-bridge/internal/transport/rest"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the dashboard HTTP API and the background cache sweep and retention jobs`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	router := chi.NewRouter()
	setupRoutes(router, deps)

	rootCtx, stopJobs := context.WithCancel(context.Background())
	defer stopJobs()

	jobs := scheduler.New(rootCtx, lg)
	if err := registerJobs(jobs, deps); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to schedule jobs: %v\n", err)
		os.Exit(1)
	}
	jobs.Start()

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig)
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Error("server failed", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		lg.Error("server shutdown error", "error", err)
	}
	stopJobs()
	jobs.Stop()
	deps.Close(ctx)

	lg.Info("server stopped")
}

func setupRoutes(router *chi.Mux, deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)
	cfg := deps.Config

	var sqlDB *sql.DB
	if deps.SQL != nil {
		sqlDB = deps.SQL.DB
	}

	handlers := rest.Handlers{
		Health: rest.NewHealthHandler(sqlDB,
			rest.Upstream{Name: "flash", BaseURL: cfg.Flash.BaseURL, Configured: cfg.Flash.Token != ""},
			rest.Upstream{Name: "alterdata", BaseURL: cfg.AlterData.BaseURL, Configured: cfg.AlterData.Token != ""},
		),
		Company:  company.NewHandler(base, deps.Companies),
		Employee: employee.NewHandler(base, deps.Employees),
		Budget:   budget.NewHandler(base, deps.Budgets),
		Movement: movement.NewHandler(base, deps.Movements),
	}
	if deps.Submissions.Enabled() {
		handlers.Submission = submission.NewHandler(base, deps.Submissions)
	}

	rest.RegisterAllRoutes(router, handlers, rest.RouterOptions{
		AllowedOrigins: cfg.Server.Origins(),
	}, deps.Logger)
}

func registerJobs(jobs *scheduler.Scheduler, deps *Dependencies) error {
	syncCfg := deps.Config.Sync

	if err := jobs.AddJob(syncCfg.CacheSweepSchedule, movement.NewCacheSweepJob(deps.EventCache, deps.Logger)); err != nil {
		return fmt.Errorf("cache sweep schedule %q: %w", syncCfg.CacheSweepSchedule, err)
	}
	if deps.Submissions.Enabled() {
		job := submission.NewRetentionJob(deps.Submissions, syncCfg.SubmissionRetention)
		if err := jobs.AddJob(syncCfg.RetentionSchedule, job); err != nil {
			return fmt.Errorf("retention schedule %q: %w", syncCfg.RetentionSchedule, err)
		}
	}
	return nil
}
