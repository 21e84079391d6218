package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/service"
)

func budgetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Show or set the monthly budget",
		Long: `Each account can have one monthly spending limit. Utilization is this
calendar month's expenses divided by the budget:

  below 75%    on track
  75% to 90%   approaching the limit
  90% to 100%  close to the limit
  over 100%    over budget`,
	}

	cmd.PersistentFlags().String("account", "", "Account ID (defaults to the default account)")
	cmd.AddCommand(budgetShowCmd())
	cmd.AddCommand(budgetSetCmd())

	return cmd
}

func budgetShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show this month's budget utilization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			accountID, _ := cmd.Flags().GetString("account")
			snap, err := dashboard.NewLoader(store).Load(ctx, accountID, analytics.RangeMonth)
			if err != nil {
				return err
			}

			_, money := formatters(settings)
			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(
				fmt.Sprintf("%s · %s", snap.Account.Name, snap.LoadedAt.Format("January 2006")),
				money.FormatBudget(snap.Budget)))
			return nil
		},
	}
}

func budgetSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <amount>",
		Short: "Set the monthly budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			amount, err := parseBudgetAmount(args[0])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			accountID, _ := cmd.Flags().GetString("account")
			account, err := resolveAccount(ctx, store, accountID)
			if err != nil {
				return err
			}

			return setBudget(ctx, cmd.OutOrStdout(), store, account.ID, amount)
		},
	}
}

// parseBudgetAmount accepts "500", "500.00" or "$1,200".
func parseBudgetAmount(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, common.NewUserError(fmt.Sprintf("%q is not a number", s), analytics.ErrInvalidBudget)
	}
	if err := analytics.ValidateBudgetAmount(amount); err != nil {
		return 0, common.NewUserError("Budget must be greater than zero", err)
	}
	return amount, nil
}

func setBudget(ctx context.Context, out io.Writer, store service.BudgetSource, accountID string, amount float64) error {
	budget, err := store.SetBudget(ctx, accountID, amount)
	if err != nil {
		return fmt.Errorf("failed to save budget: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Monthly budget set to "+cli.FormatMoney(budget.Amount)))
	return nil
}
