// Package main provides the genoloc command-line tool.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Config keys
const (
	keyGeneticCode = "genetic_code"
	keyWorkers     = "workers"
	keyCachePath   = "cache.path"
	keyVerbose     = "verbose"
)

var cfgFile string

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	root := newRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if _, ok := err.(usageError); ok {
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

// usageError marks errors caused by bad arguments rather than bad input.
type usageError struct{ error }

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "genoloc",
		Short: "Genomic feature location toolkit",
		Long: `genoloc parses EMBL/GenBank feature locations, extracts and translates the
residues they cover, and trims self-overlapping segments back to codon
boundaries.`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return usageError{err}
	})

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.genoloc.yaml)")
	cmd.PersistentFlags().Int("genetic-code", 11, "NCBI genetic code table")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")
	viper.BindPFlag(keyGeneticCode, cmd.PersistentFlags().Lookup("genetic-code"))
	viper.BindPFlag(keyVerbose, cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(newParseCmd())
	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newResolveCmd())
	cmd.AddCommand(newOverlapsCmd())
	cmd.AddCommand(newConfigCmd())

	return cmd
}

func initConfig() error {
	viper.SetDefault(keyGeneticCode, 11)
	viper.SetDefault(keyWorkers, 0)
	viper.SetDefault(keyCachePath, "")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".genoloc")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GENOLOC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// newLogger builds a production logger writing to stderr, or a development
// logger with --verbose.
func newLogger() (*zap.Logger, error) {
	if viper.GetBool(keyVerbose) {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.DisableStacktrace = true
	return cfg.Build()
}
