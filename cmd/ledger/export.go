package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/config"
	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an overview to Google Sheets",
		Long: `Write an account's overview to a Google Sheets spreadsheet: totals,
the day-by-day breakdown, this month's budget and every transaction in the
range.

Authenticate first with 'ledger auth sheets', or point
sheets.service_account_path at a service account key.`,
		RunE: runExport,
	}

	cmd.Flags().String("account", "", "Account ID (defaults to the default account)")
	cmd.Flags().StringP("range", "r", "", "Date range (defaults to overview.range)")
	cmd.Flags().Bool("dry-run", false, "Build the report and print its summary without writing")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	rangeFlag, _ := cmd.Flags().GetString("range")
	rng, err := parseRange(rangeFlag, settings.OverviewRange)
	if err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	accountID, _ := cmd.Flags().GetString("account")
	snap, err := dashboard.NewLoader(store).Load(ctx, accountID, rng)
	if err != nil {
		return err
	}

	report := sheets.NewReport(snap.Account.Name, snap.Overview, snap.Transactions, snap.Budget)

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		printReportSummary(out, report)
		return nil
	}

	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return common.NewUserError(
			"Google Sheets is not configured. Run 'ledger auth sheets' or set sheets.service_account_path.",
			fmt.Errorf("%w: %w", common.ErrMissingConfig, err))
	}

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}

	if err := exportReport(ctx, writer, report); err != nil {
		return err
	}

	printReportSummary(out, report)
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported to %q", sheetsCfg.SpreadsheetName)))
	return nil
}

func exportReport(ctx context.Context, writer sheets.ReportWriter, report sheets.Report) error {
	if len(report.Transactions) == 0 {
		return common.NewUserError(
			fmt.Sprintf("No transactions in %s, nothing to export.", report.RangeLabel),
			common.ErrNoTransactions)
	}
	if err := writer.Write(ctx, report); err != nil {
		common.LogError(err, "Export failed", common.Fields{
			"account": report.AccountName,
			"range":   report.RangeLabel,
		})
		return fmt.Errorf("%w: %w", common.ErrExportFailed, err)
	}
	common.LogInfo("Exported overview", common.Fields{
		"account":      report.AccountName,
		"transactions": len(report.Transactions),
	})
	return nil
}

func printReportSummary(out io.Writer, report sheets.Report) {
	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s · %s", report.AccountName, report.RangeLabel)))
	fmt.Fprintf(out, "Income %s   Expenses %s   Net %s\n",
		report.TotalIncome.StringFixed(2), report.TotalExpense.StringFixed(2), report.Net.StringFixed(2))
	fmt.Fprintf(out, "%d days, %d transactions\n", len(report.Days), len(report.Transactions))
	if report.Budget != nil {
		fmt.Fprintf(out, "Budget %s, %s spent (%.2f%%): %s\n",
			report.Budget.Amount.StringFixed(2), report.Budget.Spent.StringFixed(2), report.Budget.Percent, report.Budget.Status)
	}
}
