package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"tscut/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change configuration settings",
	Long: `Show and change settings in the configuration file. Keys are dotted
paths such as log.level or split.directory_prefix.

Examples:
  tscut config list
  tscut config get backend
  tscut config set log.level debug
  tscut config set split.default_extension .mp4`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

func configOrError() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return cfg, nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := configOrError()
	if err != nil {
		return err
	}
	return RunConfigListWithDependencies(cfg, cfgFile, DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "KEY\tVALUE")
	for _, e := range mgr.List() {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.Value)
	}

	return w.Flush()
}

// --- GET command ---

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	cfg, err := configOrError()
	if err != nil {
		return err
	}
	return RunConfigGetWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigGetWithDependencies runs the get command with injected dependencies
func RunConfigGetWithDependencies(cfg *config.Config, configPath, key string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	value, err := mgr.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, value)
	return nil
}

// --- SET command ---

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	cfg, err := configOrError()
	if err != nil {
		return err
	}
	return RunConfigSetWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetWithDependencies runs the set command with injected dependencies
func RunConfigSetWithDependencies(cfg *config.Config, configPath, key, value string, out OutputWriter) error {
	mgr := config.NewConfigManager(cfg, configPath)

	if err := mgr.Set(key, value); err != nil {
		return err
	}

	current, err := mgr.Get(key)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated %s = %q in %s\n", key, current, configPath)
	return nil
}
