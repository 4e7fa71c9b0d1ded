package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"tscut/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Select(message string, options []string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Select{
		Message: message,
		Options: options,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through choosing the media backend, the log
output and the naming of split audio outputs.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath
	}
	return RunSetupWithPrompter(DefaultPrompter, path, DefaultOutput)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string, out OutputWriter) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Fprintln(out, "Setup cancelled.")
			return nil
		}
	}

	fmt.Fprintln(out, "Welcome to tscut setup!")
	fmt.Fprintln(out)

	cfg := config.Default()

	if err := promptBackend(prompter, cfg); err != nil {
		return err
	}

	if err := promptLogging(prompter, cfg); err != nil {
		return err
	}

	if err := promptOutputs(prompter, cfg); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Configuration saved to %s\n", configPath)
	return nil
}

func promptBackend(prompter Prompter, cfg *config.Config) error {
	backend, err := prompter.Select("Which media library should be used?", config.Backends, cfg.Backend)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if backend != "" {
		cfg.Backend = backend
	}
	return nil
}

func promptLogging(prompter Prompter, cfg *config.Config) error {
	level, err := prompter.Select("Log level?", []string{"debug", "info", "warning", "error"}, cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if level != "" {
		cfg.Log.Level = level
	}

	format, err := prompter.Select("Log format?", []string{"text", "json"}, cfg.Log.Format)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if format != "" {
		cfg.Log.Format = format
	}

	file, err := prompter.Input("Log file (empty logs to stderr)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Log.File = strings.TrimSpace(file)
	if cfg.Log.File == "" {
		return nil
	}

	days, err := prompter.Input("Days to keep rotated log files?", strconv.Itoa(cfg.Log.MaxAgeDays))
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return fmt.Errorf("days to keep must be a non-negative number, got %q", days)
		}
		cfg.Log.MaxAgeDays = n
	}
	return nil
}

func promptOutputs(prompter Prompter, cfg *config.Config) error {
	outputDir, err := prompter.Input("Directory for cut outputs (empty uses the working directory)?", "")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Cut.OutputDirectory = strings.TrimSpace(outputDir)

	prefix, err := prompter.Input("Directory prefix for split audio tracks?", cfg.Split.DirectoryPrefix)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if prefix != "" {
		cfg.Split.DirectoryPrefix = prefix
	}

	ext, err := prompter.Input("Extension for split outputs without one?", cfg.Split.DefaultExtension)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if ext != "" {
		cfg.Split.DefaultExtension = ext
	}

	preserve, err := prompter.Confirm("Keep input stream IDs in outputs?", cfg.Remux.PreserveStreamIDs)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Remux.PreserveStreamIDs = preserve
	return nil
}
