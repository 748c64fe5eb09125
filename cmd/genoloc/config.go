package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/genoloc/internal/codon"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage genoloc configuration",
		Long: `Show, get, or set configuration values. Config is stored in ~/.genoloc.yaml.

Known keys are checked before they are written: genetic_code must name a
translation table genoloc can load, workers must be a non-negative integer
(0 uses every CPU), verbose must be a boolean, and a leading ~/ in
cache.path is expanded to the home directory.`,
		Example: `  genoloc config                          # show all config
  genoloc config set genetic_code 4        # default to the mycoplasma table
  genoloc config set cache.path ~/.genoloc/cache.duckdb
  genoloc config get workers               # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd)
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, args[0])
		},
	}
}

func runConfigShow(cmd *cobra.Command) error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "# No configuration set. Config file: ~/.genoloc.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(out))
	return nil
}

func runConfigSet(cmd *cobra.Command, key, value string) error {
	v, err := configValue(key, value)
	if err != nil {
		return usageError{err}
	}
	viper.Set(key, v)

	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".genoloc.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %v in %s\n", key, v, cfgFile)
	return nil
}

// configValue converts a command-line value to the type stored under key.
// Known keys are validated; unknown keys keep the boolean-like and numeric
// coercion.
func configValue(key, value string) (any, error) {
	switch key {
	case keyGeneticCode:
		id, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("%s must be an NCBI translation table number, got %q", key, value)
		}
		if _, err := codon.Load(id); err != nil {
			return nil, err
		}
		return id, nil

	case keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s must be a non-negative integer, got %q", key, value)
		}
		return n, nil

	case keyVerbose:
		b, ok := parseBoolish(value)
		if !ok {
			return nil, fmt.Errorf("%s must be true or false, got %q", key, value)
		}
		return b, nil

	case keyCachePath:
		if rest, ok := strings.CutPrefix(value, "~/"); ok {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("cannot determine home directory: %w", err)
			}
			return filepath.Join(home, rest), nil
		}
		return value, nil
	}

	if b, ok := parseBoolish(value); ok {
		return b, nil
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, nil
	}
	return value, nil
}

func parseBoolish(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "yes", "on":
		return true, true
	case "false", "no", "off":
		return false, true
	}
	return false, false
}

func runConfigGet(cmd *cobra.Command, key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), val)
	return nil
}
