package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"modelgate/internal/config"
	"modelgate/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

// cfg is loaded once in the root PersistentPreRunE and read by subcommands.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "modelgate",
	Short: "Promotion gate for the vehicle-insurance response model",
	Long: "Modelgate evaluates newly trained vehicle-insurance response models\n" +
		"against the deployed best model and promotes the winner to the model store.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		config.LoadEnv()
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		cfg, err = config.Load(rootFlags.configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&rootFlags.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text|json)")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
