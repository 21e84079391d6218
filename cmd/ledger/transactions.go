package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/service"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txn", "tx"},
		Short:   "List, add and delete transactions",
	}

	cmd.AddCommand(transactionsListCmd())
	cmd.AddCommand(transactionsAddCmd())
	cmd.AddCommand(transactionsDeleteCmd())

	return cmd
}

func transactionsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with search, filters and sorting",
		Long: `List an account's transactions one page at a time.

Examples:
  # Newest transactions on the default account
  ledger transactions list

  # Recurring expenses, largest first
  ledger transactions list --type expense --recurring recurring --sort amount:desc

  # Search descriptions and print JSON
  ledger transactions list --search coffee --json`,
		RunE: runTransactionsList,
	}

	cmd.Flags().String("account", "", "Account ID (defaults to the default account)")
	cmd.Flags().StringP("search", "s", "", "Case-insensitive description search")
	cmd.Flags().String("type", "all", "Type filter (income, expense, all)")
	cmd.Flags().String("recurring", "all", "Recurring filter (recurring, non-recurring, all)")
	cmd.Flags().String("sort", analytics.DefaultSortSpec().String(), "Sort as field[:asc|desc] (date, amount, category)")
	cmd.Flags().IntP("page", "p", 1, "Page number")
	cmd.Flags().Int("page-size", 0, "Rows per page (defaults to table.page_size)")
	cmd.Flags().Bool("json", false, "Print JSON instead of a table")

	return cmd
}

func runTransactionsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	state := analytics.NewTableState()
	state.PageSize = settings.PageSize
	if size, _ := flags.GetInt("page-size"); size > 0 {
		state.PageSize = size
	}
	state.Page, _ = flags.GetInt("page")
	state.Criteria.SearchText, _ = flags.GetString("search")

	typeFlag, _ := flags.GetString("type")
	if state.Criteria.Type, err = parseTypeFilter(typeFlag); err != nil {
		return err
	}
	recurringFlag, _ := flags.GetString("recurring")
	if state.Criteria.Recurring, err = parseRecurringFilter(recurringFlag); err != nil {
		return err
	}
	sortFlag, _ := flags.GetString("sort")
	if state.Sort, err = analytics.ParseSortSpec(sortFlag); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	accountID, _ := flags.GetString("account")
	account, err := resolveAccount(ctx, store, accountID)
	if err != nil {
		return err
	}

	asJSON, _ := flags.GetBool("json")
	sorter, money := formatters(settings)
	return listTransactions(ctx, cmd.OutOrStdout(), store, account.ID, state, listFormat{
		sorter: sorter,
		money:  money,
		json:   asJSON,
	})
}

type listFormat struct {
	sorter *analytics.Sorter
	money  cli.MoneyFormatter
	json   bool
}

// transactionJSON is the --json shape of one transaction.
type transactionJSON struct {
	NextRecurringDate *string `json:"next_recurring_date,omitempty"`
	ID                string  `json:"id"`
	Date              string  `json:"date,omitempty"`
	Description       string  `json:"description,omitempty"`
	Category          string  `json:"category"`
	Type              string  `json:"type"`
	RecurringInterval string  `json:"recurring_interval,omitempty"`
	Amount            float64 `json:"amount"`
	IsRecurring       bool    `json:"is_recurring"`
}

type pageJSON struct {
	Sort         string            `json:"sort"`
	Transactions []transactionJSON `json:"transactions"`
	Page         int               `json:"page"`
	PageCount    int               `json:"page_count"`
	PageSize     int               `json:"page_size"`
	Matches      int               `json:"matches"`
}

func toJSON(txn model.Transaction) transactionJSON {
	out := transactionJSON{
		ID:                txn.ID,
		Description:       txn.Description,
		Category:          txn.Category,
		Type:              string(txn.Type),
		Amount:            txn.SafeAmount(),
		IsRecurring:       txn.IsRecurring,
		RecurringInterval: string(txn.RecurringInterval),
	}
	if !txn.Date.IsZero() {
		out.Date = txn.Date.Format(time.RFC3339)
	}
	if txn.NextRecurringDate != nil {
		next := txn.NextRecurringDate.Local().Format(dateLayout)
		out.NextRecurringDate = &next
	}
	return out
}

// listTransactions prints one page of the account's transactions after
// search, filters and sorting are applied.
func listTransactions(ctx context.Context, out io.Writer, src service.TransactionSource, accountID string, state analytics.TableState, format listFormat) error {
	txns, err := src.GetTransactions(ctx, service.TransactionFilter{AccountID: accountID})
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	state.Page = max(1, state.Page)
	view := analytics.Query(txns, state, format.sorter)
	if view.PageCount > 0 && state.Page > view.PageCount {
		return fmt.Errorf("page %d is out of range: there are %d pages", state.Page, view.PageCount)
	}

	if format.json {
		page := pageJSON{
			Sort:         state.Sort.String(),
			Page:         view.Page,
			PageCount:    view.PageCount,
			PageSize:     view.PageSize,
			Matches:      view.Matches,
			Transactions: make([]transactionJSON, 0, len(view.Rows)),
		}
		for _, txn := range view.Rows {
			page.Transactions = append(page.Transactions, toJSON(txn))
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	if view.Matches == 0 {
		if len(txns) == 0 {
			fmt.Fprintln(out, cli.InfoStyle.Render("No transactions yet. Use 'ledger transactions add' or 'ledger import-ofx'."))
		} else {
			fmt.Fprintln(out, cli.InfoStyle.Render("No transactions match the filters."))
		}
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		cli.TableHeaderStyle.Render("ID"),
		cli.TableHeaderStyle.Render("Date"),
		cli.TableHeaderStyle.Render("Description"),
		cli.TableHeaderStyle.Render("Category"),
		cli.TableHeaderStyle.Render("Amount"),
		cli.TableHeaderStyle.Render("Repeats")); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, txn := range view.Rows {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			txn.ID,
			formatDate(txn.Date),
			txn.Description,
			txn.Category,
			format.money.Signed(txn),
			cli.RecurringBadge(txn)); err != nil {
			return fmt.Errorf("failed to write transaction row: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush table writer: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.SubtleStyle.Render(fmt.Sprintf("Page %d of %d · %d matching · sorted by %s",
		view.Page, view.PageCount, view.Matches, state.Sort)))
	return nil
}

func transactionsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense by hand.

Any of --amount, --category or --type that is missing is asked for
interactively, together with the date when --date is not given. A fully
specified command records the transaction for today without prompting.

Examples:
  ledger transactions add --type expense --amount 12.50 --category food --description "Lunch"
  ledger transactions add --type income --amount 3000 --category salary --recurring monthly`,
		RunE: runTransactionsAdd,
	}

	cmd.Flags().String("account", "", "Account ID (defaults to the default account)")
	cmd.Flags().String("type", "", "income or expense")
	cmd.Flags().Float64("amount", 0, "Amount, always positive")
	cmd.Flags().String("category", "", "Category")
	cmd.Flags().String("description", "", "Optional description")
	cmd.Flags().String("date", "", "Date as YYYY-MM-DD (defaults to today)")
	cmd.Flags().String("recurring", "", "Recurring interval (daily, weekly, monthly, yearly)")

	return cmd
}

// addRequest holds the flag values for transactions add.
type addRequest struct {
	Date        time.Time
	AccountID   string
	Type        string
	Category    string
	Description string
	Recurring   string
	Amount      float64
}

func runTransactionsAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	flags := cmd.Flags()

	var req addRequest
	req.AccountID, _ = flags.GetString("account")
	req.Type, _ = flags.GetString("type")
	req.Amount, _ = flags.GetFloat64("amount")
	req.Category, _ = flags.GetString("category")
	req.Description, _ = flags.GetString("description")
	req.Recurring, _ = flags.GetString("recurring")

	if dateFlag, _ := flags.GetString("date"); dateFlag != "" {
		d, err := time.ParseInLocation(dateLayout, dateFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: use YYYY-MM-DD", dateFlag)
		}
		req.Date = d
	}

	prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	if err := completeAddRequest(ctx, prompter, &req, analytics.StartOfDay(time.Now())); err != nil {
		return err
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	account, err := resolveAccount(ctx, store, req.AccountID)
	if err != nil {
		return err
	}
	req.AccountID = account.ID

	txn, err := addTransaction(ctx, store, req)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Recorded %s %s in %s (%s)",
		strings.ToLower(string(txn.Type)), cli.FormatMoney(txn.Amount), txn.Category, txn.ID)))
	return nil
}

// completeAddRequest prompts for whatever the flags left out. The date is
// asked for only in an interactive session and otherwise defaults to today.
func completeAddRequest(ctx context.Context, p *cli.Prompter, req *addRequest, today time.Time) error {
	interactive := req.Type == "" || req.Amount == 0 || strings.TrimSpace(req.Category) == ""

	var err error
	if req.Type == "" {
		if req.Type, err = p.Choose(ctx, "Type", []string{"income", "expense"}); err != nil {
			return err
		}
	}
	if req.Amount == 0 {
		if req.Amount, err = p.AskAmount(ctx, "Amount"); err != nil {
			return err
		}
	}
	if strings.TrimSpace(req.Category) == "" {
		if req.Category, err = p.Ask(ctx, "Category", "uncategorized"); err != nil {
			return err
		}
	}
	if req.Date.IsZero() {
		req.Date = today
		if interactive {
			if req.Date, err = p.AskDate(ctx, "Date", today, today.Location()); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildTransaction validates req and turns it into a transaction with a
// fresh ID. Recurring transactions get their next occurrence filled in.
func buildTransaction(req addRequest) (model.Transaction, error) {
	typ := model.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !typ.Valid() {
		return model.Transaction{}, fmt.Errorf("unknown type %q: use income or expense", req.Type)
	}

	txn := model.Transaction{
		ID:          uuid.NewString(),
		AccountID:   req.AccountID,
		Date:        req.Date,
		Type:        typ,
		Amount:      req.Amount,
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
	}
	if !txn.HasValidAmount() || txn.Amount == 0 {
		return model.Transaction{}, fmt.Errorf("amount must be a number greater than zero, got %v", req.Amount)
	}
	if txn.Category == "" {
		return model.Transaction{}, errors.New("category is required")
	}

	if req.Recurring != "" {
		interval, err := parseInterval(req.Recurring)
		if err != nil {
			return model.Transaction{}, err
		}
		next := interval.Advance(req.Date)
		txn.IsRecurring = true
		txn.RecurringInterval = interval
		txn.NextRecurringDate = &next
	}

	return txn, nil
}

func addTransaction(ctx context.Context, store service.BulkMutator, req addRequest) (model.Transaction, error) {
	txn, err := buildTransaction(req)
	if err != nil {
		return txn, err
	}

	inserted, err := store.SaveTransactions(ctx, []model.Transaction{txn})
	if err != nil {
		return txn, fmt.Errorf("failed to save transaction: %w", err)
	}
	if inserted == 0 {
		return txn, common.NewUserError(
			fmt.Sprintf("Transaction %s was not recorded: its ID is already taken", txn.ID),
			common.ErrDuplicateEntry)
	}

	slog.Debug("Recorded transaction", "id", txn.ID, "account", txn.AccountID)
	return txn, nil
}

func transactionsDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <transaction-id>...",
		Short: "Delete transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			yes, _ := cmd.Flags().GetBool("yes")

			store, err := initStorage(ctx)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer closeStorage(store)

			prompter := cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			return deleteTransactions(ctx, cmd.OutOrStdout(), prompter, store, args, yes)
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Skip confirmation prompt")

	return cmd
}

func deleteTransactions(ctx context.Context, out io.Writer, p *cli.Prompter, store service.BulkMutator, ids []string, yes bool) error {
	if !yes {
		ok, err := p.Confirm(ctx, fmt.Sprintf("Delete %d transaction(s)?", len(ids)))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Operation canceled.")
			return nil
		}
	}

	deleted, err := store.DeleteTransactions(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to delete transactions: %w", err)
	}

	if missing := len(ids) - deleted; missing > 0 {
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d of the given IDs were not found", missing)))
	}
	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Deleted %d transaction(s)", deleted)))
	return nil
}
