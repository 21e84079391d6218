package tui

import (
	"golang.org/x/text/language"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Theme     themes.Theme
	Sorter    *analytics.Sorter
	Money     cli.MoneyFormatter
	Range     analytics.DateRange
	AccountID string
	Width     int
	Height    int
	PageSize  int
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		Theme:    themes.Default,
		Sorter:   analytics.DefaultSorter,
		Money:    cli.NewMoneyFormatter(language.English),
		Range:    analytics.DefaultRange,
		Width:    100,
		Height:   30,
		PageSize: analytics.DefaultPageSize,
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) { c.Theme = theme }
}

// WithSorter sets the sorter used for the table, typically built for the
// configured locale.
func WithSorter(sorter *analytics.Sorter) Option {
	return func(c *Config) { c.Sorter = sorter }
}

// WithMoneyFormatter sets how amounts are printed.
func WithMoneyFormatter(f cli.MoneyFormatter) Option {
	return func(c *Config) { c.Money = f }
}

// WithAccount selects the account to browse; empty means the default account.
func WithAccount(id string) Option {
	return func(c *Config) { c.AccountID = id }
}

// WithRange sets the initial overview range.
func WithRange(rng analytics.DateRange) Option {
	return func(c *Config) { c.Range = rng }
}

// WithPageSize sets the number of rows per page.
func WithPageSize(size int) Option {
	return func(c *Config) {
		if size > 0 {
			c.PageSize = size
		}
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}
