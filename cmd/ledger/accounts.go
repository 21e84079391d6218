package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/service"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "accounts",
		Aliases: []string{"account"},
		Short:   "Manage accounts",
	}

	cmd.AddCommand(accountsListCmd())
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsDefaultCmd())

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
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

			_, money := formatters(settings)
			return listAccounts(ctx, cmd.OutOrStdout(), store, money)
		},
	}
}

func listAccounts(ctx context.Context, out io.Writer, store service.AccountStore, money cli.MoneyFormatter) error {
	accounts, err := store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	if len(accounts) == 0 {
		fmt.Fprintln(out, cli.InfoStyle.Render("No accounts yet. Use 'ledger accounts add' to create one."))
		return nil
	}

	fmt.Fprintln(out, cli.FormatTitle("Accounts"))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer func() {
		if flushErr := w.Flush(); flushErr != nil {
			slog.Error("failed to flush table writer", "error", flushErr)
		}
	}()

	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Name"),
		cli.TableHeaderStyle.Render("Type"),
		cli.TableHeaderStyle.Render("Balance"),
		cli.TableHeaderStyle.Render("Transactions")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, account := range accounts {
		name := account.Name
		if account.IsDefault {
			name += " " + cli.BadgeStyle.Render("default")
		}
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			account.ID,
			name,
			account.Type,
			money.Format(account.Balance),
			account.TransactionCount); err != nil {
			return fmt.Errorf("failed to write account row: %w", err)
		}
	}

	return nil
}

func accountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Long: `Create an account to hold transactions.

The first account you create becomes the default; commands that take an
--account flag fall back to it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			typ, _ := cmd.Flags().GetString("type")
			balance, _ := cmd.Flags().GetFloat64("balance")
			makeDefault, _ := cmd.Flags().GetBool("default")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			account, err := addAccount(ctx, store, args[0], model.AccountType(strings.ToLower(typ)), balance, makeDefault)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Created account %q (%s)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", string(model.AccountCurrent), "Account type (current, savings, credit, investment)")
	cmd.Flags().Float64("balance", 0, "Opening balance")
	cmd.Flags().Bool("default", false, "Make this the default account")

	return cmd
}

func addAccount(ctx context.Context, store service.AccountStore, name string, typ model.AccountType, balance float64, makeDefault bool) (*model.Account, error) {
	account := &model.Account{
		Name:    strings.TrimSpace(name),
		Type:    typ,
		Balance: balance,
	}
	if err := store.CreateAccount(ctx, account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	if makeDefault && !account.IsDefault {
		if err := store.SetDefaultAccount(ctx, account.ID); err != nil {
			return nil, fmt.Errorf("failed to set default account: %w", err)
		}
		account.IsDefault = true
	}

	return account, nil
}

func accountsDefaultCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "default <account-id>",
		Short: "Set the default account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			if err := store.SetDefaultAccount(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to set default account: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Default account updated"))
			return nil
		},
	}
}
