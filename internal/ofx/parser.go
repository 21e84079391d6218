// Package ofx imports bank and credit card statements in OFX/QFX format.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/google/uuid"

	"github.com/Veraticus/ledger/internal/model"
)

// Parser converts OFX/QFX statements into ledger transactions.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	// severityPattern matches mixed-case SEVERITY values that ofxgo rejects.
	severityPattern = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	// unclosedTagPattern matches a bare opening tag at the end of a line.
	unclosedTagPattern = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX repairs formatting quirks some banks emit.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	content = severityPattern.ReplaceAllStringFunc(content, strings.ToUpper)
	return unclosedTagPattern.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file into transactions owned by accountID.
// Statements from every bank and credit card account in the file are merged.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, accountID string) ([]model.Transaction, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		transactions = append(transactions, p.convertAll(stmt.BankTranList.Transactions, accountID)...)
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		transactions = append(transactions, p.convertAll(stmt.BankTranList.Transactions, accountID)...)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

func (p *Parser) convertAll(ofxTxns []ofxgo.Transaction, accountID string) []model.Transaction {
	out := make([]model.Transaction, 0, len(ofxTxns))
	for _, ofxTx := range ofxTxns {
		out = append(out, p.convertTransaction(ofxTx, accountID))
	}
	return out
}

// transactionNamespace scopes deterministic transaction IDs derived from FITIDs.
var transactionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/Veraticus/ledger/ofx"))

// TransactionID derives a stable ID from the bank's FITID, so importing the
// same statement twice yields the same IDs.
func TransactionID(accountID, fitID string) string {
	return uuid.NewSHA1(transactionNamespace, []byte(accountID+"|"+fitID)).String()
}

// categoryByTrnType maps OFX TRNTYPE values onto default categories.
var categoryByTrnType = map[string]string{
	"INT":       "Interest",
	"DIV":       "Interest",
	"FEE":       "Bank Fees",
	"SRVCHG":    "Bank Fees",
	"ATM":       "Cash & ATM",
	"CASH":      "Cash & ATM",
	"CHECK":     "Checks",
	"DIRECTDEP": "Salary",
	"XFER":      "Transfers",
}

// UncategorizedCategory is assigned when the OFX type says nothing useful.
const UncategorizedCategory = "Uncategorized"

// convertTransaction converts an OFX transaction. Credits become income and
// debits become expenses; amounts are stored unsigned.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()

	txnType := model.TypeIncome
	if amount < 0 {
		txnType = model.TypeExpense
		amount = -amount
	}

	trnType := ofxTx.TrnType.String()
	category, ok := categoryByTrnType[trnType]
	if !ok {
		category = UncategorizedCategory
	}

	description := p.extractMerchantName(ofxTx)
	if ofxTx.CheckNum != "" && trnType == "CHECK" {
		description = fmt.Sprintf("Check #%s", ofxTx.CheckNum)
	}

	tx := model.Transaction{
		ID:          TransactionID(accountID, string(ofxTx.FiTID)),
		AccountID:   accountID,
		Date:        ofxTx.DtPosted.Time,
		Description: description,
		Category:    category,
		Type:        txnType,
		Amount:      amount,
	}
	// Standing orders repeat monthly unless the user says otherwise.
	if trnType == "REPEATPMT" {
		tx.IsRecurring = true
		tx.RecurringInterval = model.IntervalMonthly
	}
	tx.Hash = tx.GenerateHash()

	return tx
}

// purchasePrefixes are card processor noise at the start of NAME fields.
var purchasePrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

// genericNames are NAME values that carry no merchant information.
var genericNames = []string{
	"DEBIT",
	"CREDIT",
	"PURCHASE",
	"PAYMENT",
	"POS TRANSACTION",
	"CARD PURCHASE",
}

// extractMerchantName picks the most descriptive merchant text: PAYEE, then
// NAME, then MEMO when NAME is generic. Card prefixes and a leading
// "MM/DD " are removed.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return string(tx.Payee.Name)
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && slices.Contains(genericNames, strings.ToUpper(name)) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range purchasePrefixes {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

// GetAccounts returns the sorted, unique bank and card account numbers in the file.
func (p *Parser) GetAccounts(_ context.Context, reader io.Reader) ([]string, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankAcctFrom.AcctID != "" {
			seen[string(stmt.BankAcctFrom.AcctID)] = struct{}{}
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.CCAcctFrom.AcctID != "" {
			seen[string(stmt.CCAcctFrom.AcctID)] = struct{}{}
		}
	}

	return slices.Sorted(maps.Keys(seen)), nil
}
