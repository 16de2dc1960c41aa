// Package root contains the root command for the application
package root

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"finbridge/internal/camt"
	"finbridge/internal/config"
	"finbridge/internal/convert"
	"finbridge/internal/datev"
	"finbridge/internal/export"
	"finbridge/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	Target string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finbridge",
		Short: "A CLI tool to convert banking statements between MT940, CAMT and DATEV.",
		Long: `finbridge parses SWIFT MT9xx messages, ISO 20022 camt XML and DATEV
booking batches into a common statement model and converts between them
while preserving balances, dates and signed amounts.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to finbridge!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
			logging.SetLogger(logging.NewLogrusAdapterFromLogger(Log))

			if delim := os.Getenv("CSV_DELIMITER"); delim != "" {
				Log.WithField("delimiter", delim).Debug("Setting CSV delimiter from environment")
				export.SetDelimiter([]rune(delim)[0])
			}
		},
	}

	// SharedFlags holds common flags accessible to all commands
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Target, "to", "t", "", "Target format (mt940, camt, datev, csv)")
}

// NewPipeline builds a conversion pipeline from the global configuration.
func NewPipeline() (*convert.Pipeline, error) {
	cfg := config.GetGlobalConfig()
	truncation, err := datev.TruncationPolicyFromString(cfg.Datev.Truncation)
	if err != nil {
		return nil, err
	}
	opts := convert.Options{
		Logger:      logging.NewLogrusAdapterFromLogger(Log),
		StrictCodes: cfg.Camt.StrictValidation,
		Truncation:  truncation,
	}
	if cfg.Camt.OutputVersion != "" {
		opts.CamtVersion = camt.Version(cfg.Camt.OutputVersion)
	}
	if cfg.Camt.RegistryFile != "" {
		registry := camt.NewRegistry()
		registry.Initialize()
		data, err := os.ReadFile(cfg.Camt.RegistryFile)
		if err != nil {
			return nil, fmt.Errorf("reading camt registry overlay %s: %w", cfg.Camt.RegistryFile, err)
		}
		if err := registry.LoadYAML(data); err != nil {
			return nil, fmt.Errorf("loading camt registry overlay %s: %w", cfg.Camt.RegistryFile, err)
		}
		opts.Registry = registry
	}
	return convert.NewPipeline(opts), nil
}
