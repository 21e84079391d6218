package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("LEDGER_TEST_DIR", "/srv/ledger")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "~", want: home},
		{in: "~/data/ledger.db", want: filepath.Join(home, "data/ledger.db")},
		{in: "$LEDGER_TEST_DIR/ledger.db", want: "/srv/ledger/ledger.db"},
		{in: "/abs/path.db", want: "/abs/path.db"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	s, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, analytics.DefaultPageSize, s.PageSize)
	assert.Equal(t, analytics.RangeMonth, s.OverviewRange)
	assert.Equal(t, "en", s.Locale.String())
	assert.NotContains(t, s.DatabasePath, "$HOME")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   any
		wantErr error
	}{
		{name: "zero page size", key: KeyPageSize, value: 0, wantErr: common.ErrInvalidConfig},
		{name: "unknown range", key: KeyOverviewRange, value: "2Y", wantErr: common.ErrInvalidConfig},
		{name: "bad locale", key: KeyLocale, value: "not a locale!", wantErr: common.ErrInvalidConfig},
		{name: "empty database path", key: KeyDatabasePath, value: "", wantErr: common.ErrMissingConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			SetDefaults(v)
			v.Set(tt.key, tt.value)

			_, err := Load(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("LEDGER_DOTENV_PROBE=loaded\n"), 0600))
	t.Setenv("LEDGER_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("LEDGER_DOTENV_PROBE"))

	err := LoadDotEnv(filepath.Join(dir, "missing.env"), envFile)
	require.NoError(t, err)

	assert.Equal(t, "loaded", os.Getenv("LEDGER_DOTENV_PROBE"))
}

func TestLoadSheetsConfig(t *testing.T) {
	t.Run("viper values win over environment", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", "/env/key.json")
		t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "env-sheet")
		v := viper.New()
		v.Set("sheets.service_account_path", "/config/key.json")

		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)

		assert.Equal(t, "/config/key.json", cfg.ServiceAccountPath)
		assert.Equal(t, "env-sheet", cfg.SpreadsheetID)
	})

	t.Run("missing credentials fail validation", func(t *testing.T) {
		for _, env := range []string{
			"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
			"GOOGLE_SHEETS_CLIENT_ID",
			"GOOGLE_SHEETS_CLIENT_SECRET",
			"GOOGLE_SHEETS_REFRESH_TOKEN",
		} {
			t.Setenv(env, "")
		}

		_, err := LoadSheetsConfig(viper.New())
		assert.Error(t, err)
	})
}
