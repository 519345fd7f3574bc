// Package root contains the root command for the application
package root

import (
	"fmt"

	"casfolio/cas-import/internal/casparser"
	"casfolio/cas-import/internal/common"
	"casfolio/cas-import/internal/config"
	"casfolio/cas-import/internal/logging"
	"casfolio/cas-import/internal/store"

	"github.com/spf13/cobra"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input    string
	Output   string
	Password string
	Validate bool
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// Cfg is the loaded application configuration
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "cas-import",
		Short: "A CLI tool to parse Consolidated Account Statement PDFs into portfolio transactions.",
		Long: `cas-import reads CAS PDF statements, extracts buy/sell transactions and
either exports them to CSV or ingests them into a local portfolio database.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to cas-import!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.WithError(err).Fatal("Failed to load configuration")
			}
			Cfg = cfg

			Log = logging.NewLogrusAdapterFromLogger(config.ConfigureLoggingFromConfig(cfg))

			common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
		},
	}

	// SharedFlags holds common flag values accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input statement PDF")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Password, "password", "p", "", "Statement password, if encrypted")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Validate, "validate", "v", false, "Validate file format before parsing")
}

// NewParserAdapter builds the statement parser from the loaded configuration.
func NewParserAdapter() (*casparser.Adapter, error) {
	layout := casparser.LayoutConfig{
		RowTolerance:     Cfg.Layout.RowTolerance,
		CellGap:          Cfg.Layout.CellGap,
		MaxParallelPages: Cfg.Layout.MaxParallelPages,
	}

	templates := casparser.BuiltinTemplates()
	for _, path := range Cfg.Templates.Paths {
		extra, err := casparser.LoadTemplates(path)
		if err != nil {
			return nil, fmt.Errorf("loading templates from %s: %w", path, err)
		}
		templates = append(templates, extra...)
	}

	return casparser.NewAdapter(layout, templates, Log), nil
}

// OpenStore opens the portfolio database named by the configuration, or by
// the override when non-empty.
func OpenStore(override string) (*store.Store, error) {
	path := Cfg.Store.Path
	if override != "" {
		path = override
	}
	return store.NewStore(path)
}
