//go:build integration

package steps

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tscut/cmd"
	"tscut/infrastructure/config"

	"github.com/cucumber/godog"
)

type setupContext struct {
	tempDir         string
	configPath      string
	setupCancelled  bool
	originalContent string
	output          *bytes.Buffer
	err             error
}

var SharedSetupContext = &setupContext{}

// MockPrompter implements cmd.Prompter for testing
type MockPrompter struct {
	inputResponses   []string
	selectResponses  []string
	confirmResponses []bool
	inputIndex       int
	selectIndex      int
	confirmIndex     int
}

func NewMockPrompter(inputs, selects []string, confirms []bool) *MockPrompter {
	return &MockPrompter{
		inputResponses:   inputs,
		selectResponses:  selects,
		confirmResponses: confirms,
	}
}

func (m *MockPrompter) Input(message string, defaultValue string) (string, error) {
	if m.inputIndex >= len(m.inputResponses) {
		return defaultValue, nil
	}
	response := m.inputResponses[m.inputIndex]
	m.inputIndex++
	return response, nil
}

func (m *MockPrompter) Select(message string, options []string, defaultValue string) (string, error) {
	if m.selectIndex >= len(m.selectResponses) {
		return defaultValue, nil
	}
	response := m.selectResponses[m.selectIndex]
	m.selectIndex++
	for _, o := range options {
		if o == response {
			return response, nil
		}
	}
	return "", fmt.Errorf("%q is not an option for %q", response, message)
}

func (m *MockPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if m.confirmIndex >= len(m.confirmResponses) {
		return defaultValue, nil
	}
	response := m.confirmResponses[m.confirmIndex]
	m.confirmIndex++
	return response, nil
}

func InitializeSetupScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedSetupContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		// Create temp directory for each scenario
		tempDir, err := os.MkdirTemp("", "setup-test-*")
		if err != nil {
			return c, err
		}
		testCtx.tempDir = tempDir
		testCtx.configPath = filepath.Join(tempDir, "config", "config.yaml")
		testCtx.setupCancelled = false
		testCtx.originalContent = ""
		testCtx.output = &bytes.Buffer{}
		testCtx.err = nil
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^no config file exists for setup$`, testCtx.noConfigFileExistsForSetup)
	ctx.Step(`^a config file already exists for setup$`, testCtx.aConfigFileAlreadyExistsForSetup)
	ctx.Step(`^I run the setup command with answers:$`, testCtx.iRunTheSetupCommandWithAnswers)
	ctx.Step(`^I run the setup command with confirmation "([^"]*)"$`, testCtx.iRunTheSetupCommandWithConfirmation)
	ctx.Step(`^a config file should exist$`, testCtx.aConfigFileShouldExist)
	ctx.Step(`^the saved config should have "([^"]*)" set to "([^"]*)"$`, testCtx.theSavedConfigShouldHave)
	ctx.Step(`^the setup should be cancelled$`, testCtx.theSetupShouldBeCancelled)
	ctx.Step(`^the setup should fail with "([^"]*)"$`, testCtx.theSetupShouldFailWith)
	ctx.Step(`^the existing config should be unchanged$`, testCtx.theExistingConfigShouldBeUnchanged)
}

func (s *setupContext) noConfigFileExistsForSetup() error {
	return os.MkdirAll(filepath.Dir(s.configPath), 0755)
}

func (s *setupContext) aConfigFileAlreadyExistsForSetup() error {
	if err := os.MkdirAll(filepath.Dir(s.configPath), 0755); err != nil {
		return err
	}

	content := `backend: native
log:
  level: error
  format: json
split:
  directory_prefix: "track_"
  temp_marker: ".part"
  default_extension: ".ts"
`
	s.originalContent = content
	return os.WriteFile(s.configPath, []byte(content), 0644)
}

// The answers table has a kind column: select, input or confirm.
// Answers of each kind are consumed in prompt order.
func (s *setupContext) iRunTheSetupCommandWithAnswers(table *godog.Table) error {
	var inputs, selects []string
	var confirms []bool

	if _, err := os.Stat(s.configPath); err == nil {
		confirms = append(confirms, true)
	}

	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header row
		}
		kind := strings.ToLower(row.Cells[0].Value)
		value := row.Cells[2].Value
		switch kind {
		case "select":
			selects = append(selects, value)
		case "confirm":
			confirms = append(confirms, strings.ToLower(value) == "y")
		default:
			inputs = append(inputs, value)
		}
	}

	s.err = cmd.RunSetupWithPrompter(NewMockPrompter(inputs, selects, confirms), s.configPath, s.output)
	return nil
}

func (s *setupContext) iRunTheSetupCommandWithConfirmation(confirmation string) error {
	confirm := strings.ToLower(confirmation) == "y"
	prompter := NewMockPrompter(nil, nil, []bool{confirm})

	s.err = cmd.RunSetupWithPrompter(prompter, s.configPath, s.output)
	if s.err == nil && strings.Contains(s.output.String(), "Setup cancelled.") {
		s.setupCancelled = true
	}
	return nil
}

func (s *setupContext) aConfigFileShouldExist() error {
	if s.err != nil {
		return fmt.Errorf("setup command failed: %w", s.err)
	}
	if _, err := os.Stat(s.configPath); os.IsNotExist(err) {
		return fmt.Errorf("config file does not exist at %s", s.configPath)
	}
	return nil
}

func (s *setupContext) theSavedConfigShouldHave(key, expected string) error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, s.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func (s *setupContext) theSetupShouldBeCancelled() error {
	if !s.setupCancelled {
		return fmt.Errorf("expected setup to be cancelled")
	}
	return nil
}

func (s *setupContext) theSetupShouldFailWith(message string) error {
	if s.err == nil {
		return fmt.Errorf("expected setup to fail")
	}
	if !strings.Contains(s.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, s.err.Error())
	}
	return nil
}

func (s *setupContext) theExistingConfigShouldBeUnchanged() error {
	content, err := os.ReadFile(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if string(content) != s.originalContent {
		return fmt.Errorf("config content was changed")
	}
	return nil
}
