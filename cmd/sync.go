package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/payroll-bridge/internal/budget"
	"github.com/frahmantamala/payroll-bridge/internal/movement"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run a sync from the command line",
}

var syncMovementsCmd = &cobra.Command{
	Use:   "movements",
	Short: "Submit every Flash budget event of a period as AlterData movimentos",
	Long: `Fetch the budgets of a Flash company for the period and send them through the same
pipeline as POST /api/v1/movements, split into batches of at most 2000 items. The
batch results are printed as JSON.`,
	RunE: runSyncMovements,
}

var (
	syncCompanyID string
	syncStart     string
	syncEnd       string
	syncSearch    string
	syncDryRun    bool
)

func runSyncMovements(cmd *cobra.Command, _ []string) error {
	return withDependencies(initializeDependencies, func(deps *Dependencies) error {
		return syncMovements(cmd.OutOrStdout(), deps)
	})
}

func syncMovements(out io.Writer, deps *Dependencies) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	budgets, err := deps.Budgets.List(ctx, budget.ListQuery{
		CompanyID: syncCompanyID,
		StartDate: syncStart,
		EndDate:   syncEnd,
		Search:    syncSearch,
	})
	if err != nil {
		return err
	}
	for _, e := range budgets.EnrichmentErrors {
		deps.Logger.Warn("employee name not resolved", "employee_id", e.EmployeeID, "reason", e.Reason)
	}

	req := &movement.SubmitRequest{
		CompanyID: syncCompanyID,
		Period:    &movement.Period{Start: syncStart, End: syncEnd},
		DryRun:    syncDryRun,
		Items:     movement.ItemsFromBudgets(budgets.Budgets),
	}
	if len(req.Items) == 0 {
		deps.Logger.Info("no budget events in period", "company_id", syncCompanyID, "start", syncStart, "end", syncEnd)
		return nil
	}

	run, submitErr := deps.Movements.SubmitAll(ctx, req)

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if len(run.Batches) > 0 {
		if err := enc.Encode(run); err != nil {
			return err
		}
	}
	if submitErr != nil {
		return submitErr
	}
	if !run.Success {
		return fmt.Errorf("%d of %d items failed", run.ErrorCount, len(req.Items))
	}
	return nil
}

func init() {
	syncMovementsCmd.Flags().StringVar(&syncCompanyID, "company", "", "Flash company id")
	syncMovementsCmd.Flags().StringVar(&syncStart, "start", "", "Period start (YYYY-MM-DD)")
	syncMovementsCmd.Flags().StringVar(&syncEnd, "end", "", "Period end (YYYY-MM-DD)")
	syncMovementsCmd.Flags().StringVar(&syncSearch, "search", "", "Only employees or events matching this text")
	syncMovementsCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Build the movimentos without posting them")
	_ = syncMovementsCmd.MarkFlagRequired("company")
	_ = syncMovementsCmd.MarkFlagRequired("start")
	_ = syncMovementsCmd.MarkFlagRequired("end")

	syncCmd.AddCommand(syncMovementsCmd)
}
