package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/tui"
	"github.com/Veraticus/ledger/internal/tui/themes"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse transactions interactively",
		Long: `Open a full screen browser with the account overview, budget and a
searchable, sortable transaction table. Select rows with space and delete
them in bulk with d. Press ? for all keys.`,
		RunE: runBrowse,
	}

	cmd.Flags().String("account", "", "Account ID (defaults to the default account)")
	cmd.Flags().StringP("range", "r", "", "Initial overview range (defaults to overview.range)")
	cmd.Flags().String("theme", "", "Color theme (default, catppuccin-mocha)")
	_ = viper.BindPFlag("tui.theme", cmd.Flags().Lookup("theme"))

	return cmd
}

func runBrowse(cmd *cobra.Command, _ []string) error {
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
	loader := dashboard.NewLoader(store)
	account, err := loader.ResolveAccount(ctx, accountID)
	if err != nil {
		return err
	}

	sorter, money := formatters(settings)
	return tui.Run(ctx, loader, store,
		tui.WithAccount(account.ID),
		tui.WithRange(rng),
		tui.WithPageSize(settings.PageSize),
		tui.WithSorter(sorter),
		tui.WithMoneyFormatter(money),
		tui.WithTheme(themes.ByName(viper.GetString("tui.theme"))),
	)
}
