package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/payroll-bridge/internal/core/scheduler"
	"github.com/frahmantamala/payroll-bridge/internal/submission"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run background jobs outside the HTTP server",
}

var retentionWorkerCmd = &cobra.Command{
	Use:   "retention",
	Short: "Prune the movement submission audit log",
	Long:  `Delete audit rows older than sync.submission_retention, once or on sync.retention_schedule.`,
	Run: func(cmd *cobra.Command, args []string) {
		startRetentionWorker()
	},
}

var (
	retentionOnce     bool
	retentionOverride time.Duration
)

func startRetentionWorker() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	lg := deps.Logger

	if !deps.Submissions.Enabled() {
		fmt.Fprintln(os.Stderr, "retention worker needs database.source to be configured")
		os.Exit(1)
	}

	retention := deps.Config.Sync.SubmissionRetention
	if retentionOverride > 0 {
		retention = retentionOverride
	}
	job := submission.NewRetentionJob(deps.Submissions, retention)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	jobs := scheduler.New(ctx, lg)

	if retentionOnce {
		if err := jobs.RunNow(job); err != nil {
			fmt.Fprintf(os.Stderr, "Retention failed: %v\n", err)
			os.Exit(1)
		}
		deps.Close(ctx)
		return
	}

	if err := jobs.AddJob(deps.Config.Sync.RetentionSchedule, job); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to schedule retention: %v\n", err)
		os.Exit(1)
	}
	jobs.Start()

	lg.Info("retention worker is running. Press Ctrl+C to stop.",
		"schedule", deps.Config.Sync.RetentionSchedule,
		"retention", retention)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	lg.Info("received signal, shutting down retention worker", "signal", sig)

	cancel()
	jobs.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	deps.Close(shutdownCtx)
}

func init() {
	retentionWorkerCmd.Flags().BoolVar(&retentionOnce, "once", false, "Prune once and exit")
	retentionWorkerCmd.Flags().DurationVar(&retentionOverride, "retention", 0, "Retention window (overrides config)")

	workerCmd.AddCommand(retentionWorkerCmd)
}
