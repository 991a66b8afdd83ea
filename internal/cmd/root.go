package cmd

import (
	"os"

	"github.com/alecthomas/kong"

	"ducker/internal/config"
	"ducker/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" env:"DUCKER_DEBUG"`
	DebugFile   string           `help:"Custom path for debug log file"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"100"`
	Config      string           `help:"Path to config file" short:"c" env:"DUCKER_CONFIG" type:"path"`

	Play    PlayCmd    `cmd:"" default:"withargs" help:"Play a notification sound, ducking other audio (default)"`
	Sounds  SoundsCmd  `cmd:"" help:"List available sound aliases from config"`
	History HistoryCmd `cmd:"" help:"Show recent notification playbacks"`

	// Internal fields (not flags)
	cfg *config.Config `kong:"-"`
}

// AfterApply initializes logging after CLI parsing and loads the config file
func (c *CLI) AfterApply() error {
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Export debug settings so a detached child appends to the same file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("DUCKER_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("DUCKER_DEBUG_FILE", logFilePath)
		}
	}

	cfg, err := config.Load(c.Config)
	if err != nil {
		return err
	}
	c.cfg = cfg

	return nil
}
