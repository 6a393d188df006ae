package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/inodb/mpcannot/internal/mpc"
)

// Configuration keys. Values resolve in order: command-line flag,
// MPCANNOT_* environment variable, ~/.mpcannot.yaml, built-in default.
const (
	cfgChunkSize = "chunk_size"
	cfgChunksDir = "dirs.chunks"
	cfgOutputDir = "dirs.output"
	cfgLogsDir   = "dirs.logs"
)

func initConfig() {
	viper.SetConfigName(".mpcannot")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")

	viper.SetEnvPrefix("MPCANNOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(cfgChunkSize, mpc.DefaultChunkSize)
	viper.SetDefault(cfgChunksDir, "chunks")
	viper.SetDefault(cfgOutputDir, "output")
	viper.SetDefault(cfgLogsDir, "logs")

	// A missing config file is fine; defaults and flags cover everything.
	_ = viper.ReadInConfig()
}

// configInt resolves an int setting, preferring an explicitly set flag
// over the environment, config file, and defaults.
func configInt(cmd *cobra.Command, flagName, key string) int {
	if cmd.Flags().Changed(flagName) {
		v, _ := cmd.Flags().GetInt(flagName)
		return v
	}
	return viper.GetInt(key)
}

// configString resolves a string setting, preferring an explicitly set
// flag over the environment, config file, and defaults.
func configString(cmd *cobra.Command, flagName, key string) string {
	if cmd.Flags().Changed(flagName) {
		v, _ := cmd.Flags().GetString(flagName)
		return v
	}
	return viper.GetString(key)
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage mpcannot configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.mpcannot.yaml.",
		Example: `  mpcannot config                         # show all config
  mpcannot config set chunk_size 50000    # shrink reference chunks
  mpcannot config set dirs.output results # write reports under results/
  mpcannot config get dirs.chunks         # get a value`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
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
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.mpcannot.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	// Parse boolean-like values
	switch value {
	case "true", "yes", "on":
		viper.Set(key, true)
	case "false", "no", "off":
		viper.Set(key, false)
	default:
		viper.Set(key, value)
	}

	// Ensure config file exists
	cfgFile := viper.ConfigFileUsed()
	if cfgFile == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgFile = filepath.Join(home, ".mpcannot.yaml")
	}

	if err := viper.WriteConfigAs(cfgFile); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgFile)
	return nil
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
