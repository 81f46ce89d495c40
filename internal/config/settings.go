package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Veraticus/scorecard/internal/common"
	"github.com/Veraticus/scorecard/internal/model"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by viper.
const EnvPrefix = "SCORECARD"

// Configuration keys.
const (
	KeyLogLevel        = "logging.level"
	KeyLogFormat       = "logging.format"
	KeyLogFile         = "logging.file"
	KeyDatabasePath    = "database.path"
	KeyDefaultTab      = "document.default_tab"
	KeyDefaultFilename = "document.default_filename"
	KeyReportTitle     = "report.title"
	KeyStylesheet      = "report.stylesheet"
	KeyBlockOnSave     = "validation.block_on_save"
	KeyTheme           = "tui.theme"
)

// Settings is the resolved configuration.
type Settings struct {
	LogLevel        string
	LogFormat       string
	LogFile         string
	DatabasePath    string
	DefaultTab      string
	DefaultFilename string
	ReportTitle     string
	Stylesheet      string
	BlockOnSave     bool
	Theme           string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyLogFile, filepath.Join(DataDir(), "scorecard.log"))
	v.SetDefault(KeyDatabasePath, filepath.Join(DataDir(), "scorecard.db"))
	v.SetDefault(KeyDefaultTab, model.DefaultTabName)
	v.SetDefault(KeyDefaultFilename, "evaluation_data.dat")
	v.SetDefault(KeyReportTitle, "")
	v.SetDefault(KeyStylesheet, "")
	v.SetDefault(KeyBlockOnSave, true)
	v.SetDefault(KeyTheme, "default")
}

// Load resolves Settings from v. Defaults must already be registered.
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		LogLevel:        v.GetString(KeyLogLevel),
		LogFormat:       v.GetString(KeyLogFormat),
		LogFile:         ExpandPath(v.GetString(KeyLogFile)),
		DatabasePath:    ExpandPath(v.GetString(KeyDatabasePath)),
		DefaultTab:      strings.TrimSpace(v.GetString(KeyDefaultTab)),
		DefaultFilename: v.GetString(KeyDefaultFilename),
		ReportTitle:     v.GetString(KeyReportTitle),
		Stylesheet:      ExpandPath(v.GetString(KeyStylesheet)),
		BlockOnSave:     v.GetBool(KeyBlockOnSave),
		Theme:           strings.ToLower(v.GetString(KeyTheme)),
	}

	if s.DefaultTab == "" {
		s.DefaultTab = model.DefaultTabName
	}
	if s.DefaultFilename == "" {
		return s, fmt.Errorf("%w: %s must not be empty", common.ErrInvalidConfig, KeyDefaultFilename)
	}
	if s.DatabasePath == "" {
		return s, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyDatabasePath)
	}
	switch s.Theme {
	case "default", "light":
	default:
		return s, fmt.Errorf("%w: unknown theme %q", common.ErrInvalidConfig, s.Theme)
	}
	return s, nil
}
