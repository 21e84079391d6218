package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/ofx"
	"github.com/Veraticus/ledger/internal/service"
	"github.com/Veraticus/ledger/internal/testutil"
)

type stmtTxn struct {
	posted string
	amount string
	fitID  string
	name   string
}

// statementOFX renders a minimal checking account statement.
func statementOFX(txns ...stmtTxn) string {
	var sb strings.Builder
	sb.WriteString(`OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240315120000[0:GMT]
`)
	for _, t := range txns {
		fmt.Fprintf(&sb, "<STMTTRN>\n<TRNTYPE>DEBIT\n<DTPOSTED>%s120000[0:GMT]\n<TRNAMT>%s\n<FITID>%s\n<NAME>%s\n</STMTTRN>\n",
			t.posted, t.amount, t.fitID, t.name)
	}
	sb.WriteString(`</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240315120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`)
	return sb.String()
}

func writeStatements(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func TestImportFiles(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"jan2024.qfx": statementOFX(
			stmtTxn{"20240115", "-25.50", "JAN01", "STARBUCKS"},
		),
		"feb2024.qfx": statementOFX(
			stmtTxn{"20240215", "-25.50", "FEB01", "STARBUCKS"},
			stmtTxn{"20240220", "-100.00", "FEB02", "WHOLE FOODS"},
		),
		"feb_mar2024.qfx": statementOFX(
			stmtTxn{"20240215", "-25.50", "FEB01", "STARBUCKS"},
			stmtTxn{"20240301", "-50.00", "MAR01", "TARGET"},
		),
	})

	files, err := expandFiles([]string{filepath.Join(dir, "*.qfx")})
	require.NoError(t, err)
	require.Len(t, files, 3)

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	result, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, files, false)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Parsed)
	assert.Equal(t, 4, result.Inserted)
	assert.Equal(t, 1, result.Duplicates)
	assert.Empty(t, result.Failed)

	stored, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{AccountID: db.Account.ID})
	require.NoError(t, err)
	assert.Len(t, stored, 4)

	again, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, files, false)
	require.NoError(t, err)
	assert.Zero(t, again.Inserted, "re-importing saves nothing new")
	assert.Equal(t, 5, again.Duplicates)

	var out bytes.Buffer
	printImportSummary(&out, again, false)
	assert.Contains(t, out.String(), "Imported 0 new transactions (5 duplicates skipped)")
}

func TestImportFiles_SameLookingPurchases(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"jan.qfx": statementOFX(
			stmtTxn{"20240115", "-5.00", "A1", "STARBUCKS"},
			stmtTxn{"20240115", "-5.00", "A2", "STARBUCKS"},
		),
	})

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	result, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID,
		[]string{filepath.Join(dir, "jan.qfx")}, false)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
	assert.Zero(t, result.Duplicates)

	stored, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{AccountID: db.Account.ID})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.InDelta(t, 10, stored[0].Amount+stored[1].Amount, 0.001)
}

func TestImportFiles_DryRun(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"jan.ofx": statementOFX(stmtTxn{"20240115", "-25.50", "JAN01", "STARBUCKS"}),
	})

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	result, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, []string{filepath.Join(dir, "jan.ofx")}, true)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Parsed)
	assert.Zero(t, result.Inserted)

	stored, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestImportFiles_Failures(t *testing.T) {
	dir := writeStatements(t, map[string]string{
		"good.ofx":   statementOFX(stmtTxn{"20240115", "-25.50", "JAN01", "STARBUCKS"}),
		"broken.ofx": "not an ofx file",
	})

	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	good := filepath.Join(dir, "good.ofx")
	broken := filepath.Join(dir, "broken.ofx")

	result, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, []string{broken, good}, false)
	require.NoError(t, err, "one good file is enough")
	assert.Equal(t, []string{"broken.ofx"}, result.Failed)
	assert.Equal(t, 1, result.Inserted)

	_, err = importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, []string{broken}, false)
	assert.True(t, errors.Is(err, common.ErrImportFailed), "got %v", err)
}

func TestImportFiles_Canceled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := importFiles(ctx, io.Discard, ofx.NewParser(), db.Storage, db.Account.ID, []string{"unused.ofx"}, false)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExpandFiles_NoMatches(t *testing.T) {
	_, err := expandFiles([]string{filepath.Join(t.TempDir(), "*.qfx")})
	assert.ErrorIs(t, err, common.ErrImportFailed)
}
