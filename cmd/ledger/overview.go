package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/dashboard"
)

func overviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Show income, expenses and budget for a date range",
		Long: `Summarize an account over a date range: totals, a day-by-day breakdown
of income and expenses, and how much of this month's budget is used.

Ranges: 7D, 1M, 3M, 6M, ALL.`,
		RunE: runOverview,
	}

	cmd.Flags().String("account", "", "Account ID (defaults to the default account)")
	cmd.Flags().StringP("range", "r", "", "Date range (defaults to overview.range)")
	cmd.Flags().Bool("all-days", false, "Include days without activity")

	return cmd
}

func runOverview(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

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

	allDays, _ := cmd.Flags().GetBool("all-days")
	_, money := formatters(settings)
	return renderOverview(cmd.OutOrStdout(), snap, money, allDays)
}

func renderOverview(out io.Writer, snap *dashboard.Snapshot, money cli.MoneyFormatter, allDays bool) error {
	ov := snap.Overview

	fmt.Fprintln(out, cli.FormatTitle(fmt.Sprintf("%s · %s", snap.Account.Name, ov.Range.Label)))
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("%s to %s",
		ov.Period.Start.Format(dateLayout), ov.Period.End.Format(dateLayout))))
	fmt.Fprintln(out)

	net := money.Format(ov.Totals.Net())
	if ov.Totals.Net() >= 0 {
		net = "+" + net
	}
	fmt.Fprintf(out, "%s  %s\n", cli.IncomeStyle.Render("Income  "), money.Format(ov.Totals.Income))
	fmt.Fprintf(out, "%s  %s\n", cli.ExpenseStyle.Render("Expenses"), money.Format(ov.Totals.Expense))
	fmt.Fprintf(out, "%s  %s\n", cli.TableHeaderStyle.Render("Net     "), net)
	fmt.Fprintln(out)

	if err := renderBuckets(out, ov.Buckets, money, allDays); err != nil {
		return err
	}

	if ov.Undated > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d undated transaction(s) left out of the chart", ov.Undated)))
	}
	if ov.MalformedAmounts > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d transaction(s) with invalid amounts counted as zero", ov.MalformedAmounts)))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderBox("Budget · "+snap.LoadedAt.Format("January 2006"), money.FormatBudget(snap.Budget)))
	return nil
}

func renderBuckets(out io.Writer, buckets []analytics.DayBucket, money cli.MoneyFormatter, allDays bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
		cli.TableHeaderStyle.Render("Day"),
		cli.TableHeaderStyle.Render("Income"),
		cli.TableHeaderStyle.Render("Expenses"),
		cli.TableHeaderStyle.Render("Net")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	shown := 0
	for _, b := range buckets {
		if !allDays && b.Income == 0 && b.Expense == 0 {
			continue
		}
		shown++
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
			b.Day.Format(time.DateOnly),
			money.Format(b.Income),
			money.Format(b.Expense),
			money.Format(b.Income-b.Expense)); err != nil {
			return fmt.Errorf("failed to write day row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}

	if shown == 0 {
		fmt.Fprintln(out, cli.SubtleStyle.Render("No activity in range"))
	}
	return nil
}
