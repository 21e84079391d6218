package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/ofx"
	"github.com/Veraticus/ledger/internal/service"
)

func importOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx [files...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import transactions from OFX or QFX (Quicken) files exported from your bank.

Transactions already in the account are skipped, so re-importing an
overlapping statement is safe.

Examples:
  # Import single file
  ledger import-ofx ~/Downloads/chase_jan_2024.qfx

  # Import all QFX files in a directory into a specific account
  ledger import-ofx --account 5f1c... ~/Downloads/*.qfx

  # Preview without saving
  ledger import-ofx --dry-run ~/Downloads/chase_*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImportOFX,
	}

	cmd.Flags().String("account", "", "Account ID to import into (defaults to the default account)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

// importResult summarizes an import run.
type importResult struct {
	PerFile    map[string]int
	Failed     []string
	Parsed     int
	Duplicates int
	Inserted   int
}

func runImportOFX(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	files, err := expandFiles(args)
	if err != nil {
		return err
	}

	handler := cli.NewInterruptHandler(out, "Files imported so far are saved. Re-run the command to pick up the rest.")
	ctx := handler.HandleInterrupts(cmd.Context())

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

	slog.Info("Importing OFX files",
		"file_count", len(files),
		"account", account.Name,
		"dry_run", dryRun)

	result, err := importFiles(ctx, cmd.ErrOrStderr(), ofx.NewParser(), store, account.ID, files, dryRun)
	printImportSummary(out, result, dryRun)

	if handler.WasInterrupted() {
		return nil
	}
	return err
}

// expandFiles resolves glob patterns, keeping literal paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) > 0 {
			files = append(files, matches...)
			continue
		}
		if _, err := os.Stat(pattern); err == nil {
			files = append(files, pattern)
		} else {
			slog.Warn("No files found matching pattern", "pattern", pattern)
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files found to import", common.ErrImportFailed)
	}
	return files, nil
}

// importFiles parses each file and saves its transactions. Files that fail
// to parse are reported and skipped. Transactions repeated across files are
// only counted once; the store skips ones it already holds.
func importFiles(ctx context.Context, progress io.Writer, parser *ofx.Parser, store service.BulkMutator, accountID string, files []string, dryRun bool) (importResult, error) {
	result := importResult{PerFile: make(map[string]int, len(files))}
	seen := make(map[string]bool)

	bar := cli.NewProgressBar(progress, len(files), "Importing")
	defer func() { _ = bar.Finish() }()

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		txns, err := parseFile(ctx, parser, path, accountID)
		_ = bar.Add(1)
		if err != nil {
			common.LogError(err, "Failed to import file", common.Fields{"file": path})
			result.Failed = append(result.Failed, filepath.Base(path))
			continue
		}

		unique := make([]model.Transaction, 0, len(txns))
		for _, txn := range txns {
			hash := txn.GenerateHash()
			if seen[hash] {
				result.Duplicates++
				continue
			}
			seen[hash] = true
			unique = append(unique, txn)
		}
		result.Parsed += len(txns)
		result.PerFile[filepath.Base(path)] = len(unique)

		if dryRun || len(unique) == 0 {
			continue
		}

		inserted, err := store.SaveTransactions(ctx, unique)
		if err != nil {
			return result, fmt.Errorf("failed to save transactions from %s: %w", filepath.Base(path), err)
		}
		result.Inserted += inserted
		result.Duplicates += len(unique) - inserted
	}

	common.LogInfo("Imported OFX files", common.Fields{
		"files":      len(files),
		"failed":     len(result.Failed),
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
	})

	if len(result.Failed) == len(files) {
		return result, fmt.Errorf("%w: none of the %d files could be parsed", common.ErrImportFailed, len(files))
	}
	return result, nil
}

func parseFile(ctx context.Context, parser *ofx.Parser, path, accountID string) ([]model.Transaction, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	txns, err := parser.ParseFile(ctx, f, accountID)
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return nil, errors.New("no transactions found in file")
	}
	return txns, nil
}

func printImportSummary(out io.Writer, result importResult, dryRun bool) {
	if len(result.PerFile) > 0 {
		fmt.Fprintln(out, cli.FormatTitle("File import summary"))
		names := make([]string, 0, len(result.PerFile))
		for name := range result.PerFile {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "  - %s: %d transactions\n", name, result.PerFile[name])
		}
	}
	for _, name := range result.Failed {
		fmt.Fprintln(out, cli.FormatError("Could not import "+name))
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions parsed, %d duplicates, nothing saved",
			result.Parsed, result.Duplicates)))
		return
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Imported %d new transactions (%d duplicates skipped)",
		result.Inserted, result.Duplicates)))
}
