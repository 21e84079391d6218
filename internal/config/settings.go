package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// Viper keys.
const (
	KeyDatabasePath  = "database.path"
	KeyPageSize      = "table.page_size"
	KeyOverviewRange = "overview.range"
	KeyLocale        = "locale"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
)

// Settings are the resolved application settings.
type Settings struct {
	Locale        language.Tag
	OverviewRange analytics.DateRange
	DatabasePath  string
	LogLevel      string
	LogFormat     string
	PageSize      int
}

// SetDefaults registers default values for every key Load reads.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyPageSize, analytics.DefaultPageSize)
	v.SetDefault(KeyOverviewRange, analytics.DefaultRange.Key)
	v.SetDefault(KeyLocale, "en")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

// Load reads and validates settings from v.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		DatabasePath: ExpandPath(v.GetString(KeyDatabasePath)),
		PageSize:     v.GetInt(KeyPageSize),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	if strings.TrimSpace(s.DatabasePath) == "" {
		return s, fmt.Errorf("%w: %s is empty", common.ErrMissingConfig, KeyDatabasePath)
	}
	if s.PageSize <= 0 {
		return s, fmt.Errorf("%w: %s must be positive, got %d", common.ErrInvalidConfig, KeyPageSize, s.PageSize)
	}

	rng, err := analytics.LookupDateRange(v.GetString(KeyOverviewRange))
	if err != nil {
		return s, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyOverviewRange, err)
	}
	s.OverviewRange = rng

	tag, err := language.Parse(v.GetString(KeyLocale))
	if err != nil {
		return s, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyLocale, err)
	}
	s.Locale = tag

	return s, nil
}
