package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"report-sync/feature/report/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportsUser     string
	reportsEmail    string
	reportsPassword string
	reportsYes      bool
)

// reportsCmd is the parent command for report maintenance.
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Inspect and maintain cached reports",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the reports held in the local cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			reports, err := a.repo.CachedReports(ctx, reportsUser)
			if err != nil {
				return err
			}
			printReports(cmd.OutOrStdout(), reports)
			return nil
		})
	},
}

var reportsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Refresh the local cache from the remote store",
	Long: `Fetches reports from the remote store and replaces the cached snapshot.
With --user only that user's reports are replaced.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			var (
				reports []models.Report
				err     error
			)
			if reportsUser != "" {
				reports, err = a.repo.GetReportsForUser(ctx, reportsUser)
			} else {
				reports, err = a.repo.GetAllReports(ctx)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Synced %d reports\n", len(reports))
			return nil
		})
	},
}

var reportsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a report remotely and from the cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportsEmail == "" || reportsPassword == "" {
			return fmt.Errorf("--email and --password are required")
		}
		return withApp(cmd, func(ctx context.Context, a *app) error {
			if err := a.repo.SignIn(ctx, reportsEmail, reportsPassword); err != nil {
				return err
			}
			defer func() { _ = a.repo.SignOut(ctx) }()

			if !confirm(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("Delete report %s?", args[0])) {
				a.logger.Info("Delete cancelled")
				return nil
			}
			if err := a.repo.DeleteReport(ctx, args[0]); err != nil {
				return err
			}
			a.logger.Info("Deleted report", zap.String("id", args[0]))
			return nil
		})
	},
}

func init() {
	reportsListCmd.Flags().StringVar(&reportsUser, "user", "", "Only reports owned by this user id")
	reportsSyncCmd.Flags().StringVar(&reportsUser, "user", "", "Only refresh reports owned by this user id")
	reportsDeleteCmd.Flags().StringVar(&reportsEmail, "email", "", "Account email")
	reportsDeleteCmd.Flags().StringVar(&reportsPassword, "password", "", "Account password")
	reportsDeleteCmd.Flags().BoolVar(&reportsYes, "yes", false, "Skip the confirmation prompt")

	reportsCmd.AddCommand(reportsListCmd, reportsSyncCmd, reportsDeleteCmd)
	RootCmd.AddCommand(reportsCmd)
}

// withApp bootstraps the components, runs fn and tears them down.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout())
		defer cancel()
		a.close(closeCtx)
	}()
	return fn(ctx, a)
}

func printReports(w io.Writer, reports []models.Report) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSER\tKIND\tNAME\tCREATED\tDESCRIPTION")
	for _, r := range reports {
		kind := "found"
		if r.IsLost {
			kind = "lost"
		}
		created := time.UnixMilli(r.CreatedAt).UTC().Format(time.RFC3339)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.UserID, kind, r.Name, created, r.Description)
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "%d reports\n", len(reports))
}

// confirm asks on out and reads the answer from in, unless --yes was given.
func confirm(in io.Reader, out io.Writer, question string) bool {
	if reportsYes {
		return true
	}
	fmt.Fprintf(out, "%s Type 'yes' to confirm: ", question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	return strings.TrimSpace(strings.ToLower(answer)) == "yes"
}

