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

type configContext struct {
	tempDir    string
	configPath string
	cfg        *config.Config
	found      bool
	original   string
	output     *bytes.Buffer
	err        error
}

var SharedConfigContext = &configContext{}

func InitializeConfigScenario(ctx *godog.ScenarioContext) {
	testCtx := SharedConfigContext

	ctx.Before(func(c context.Context, sc *godog.Scenario) (context.Context, error) {
		tempDir, err := os.MkdirTemp("", "config-test-*")
		if err != nil {
			return c, err
		}
		*testCtx = configContext{tempDir: tempDir, output: &bytes.Buffer{}}
		return c, nil
	})

	ctx.After(func(c context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		if testCtx.tempDir != "" {
			os.RemoveAll(testCtx.tempDir)
		}
		return c, nil
	})

	ctx.Step(`^a configuration file exists at "([^"]*)"$`, testCtx.aConfigurationFileExistsAt)
	ctx.Step(`^no configuration file exists$`, testCtx.noConfigurationFileExists)
	ctx.Step(`^a configuration file with content:$`, testCtx.aConfigurationFileWithContent)
	ctx.Step(`^I load the configuration$`, testCtx.iLoadTheConfiguration)
	ctx.Step(`^the configuration should be the defaults$`, testCtx.theConfigurationShouldBeTheDefaults)
	ctx.Step(`^loading the configuration should fail with "([^"]*)"$`, testCtx.loadingShouldFailWith)
	ctx.Step(`^I run config list$`, testCtx.iRunConfigList)
	ctx.Step(`^I run config get "([^"]*)"$`, testCtx.iRunConfigGet)
	ctx.Step(`^I run config set "([^"]*)" to "([^"]*)"$`, testCtx.iRunConfigSet)
	ctx.Step(`^the config output should contain "([^"]*)"$`, testCtx.theConfigOutputShouldContain)
	ctx.Step(`^the config command should fail with "([^"]*)"$`, testCtx.theConfigCommandShouldFailWith)
	ctx.Step(`^the setting "([^"]*)" should be "([^"]*)"$`, testCtx.theSettingShouldBe)
	ctx.Step(`^the configuration file should be unchanged$`, testCtx.theConfigurationFileShouldBeUnchanged)
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root (no go.mod found)")
		}
		dir = parent
	}
}

func (c *configContext) aConfigurationFileExistsAt(path string) error {
	root, err := findProjectRoot()
	if err != nil {
		return err
	}
	src := filepath.Join(root, path)

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("expected config file at %s: %w", src, err)
	}

	// Work on a copy so set scenarios never touch the checked in file
	c.configPath = filepath.Join(c.tempDir, "config.yaml")
	c.original = string(data)
	return os.WriteFile(c.configPath, data, 0644)
}

func (c *configContext) noConfigurationFileExists() error {
	c.configPath = filepath.Join(c.tempDir, "missing", "config.yaml")
	return nil
}

func (c *configContext) aConfigurationFileWithContent(content *godog.DocString) error {
	c.configPath = filepath.Join(c.tempDir, "config.yaml")
	c.original = content.Content
	return os.WriteFile(c.configPath, []byte(content.Content), 0644)
}

func (c *configContext) iLoadTheConfiguration() error {
	c.cfg, c.found, c.err = config.LoadOrDefault(c.configPath)
	return nil
}

func (c *configContext) theConfigurationShouldBeTheDefaults() error {
	if c.err != nil {
		return fmt.Errorf("unexpected error loading config: %w", c.err)
	}
	if c.found {
		return fmt.Errorf("expected no configuration file to be found")
	}
	want := config.NewConfigManager(config.Default(), "").List()
	got := config.NewConfigManager(c.cfg, "").List()
	for i := range want {
		if got[i] != want[i] {
			return fmt.Errorf("expected %s %q, got %q", want[i].Key, want[i].Value, got[i].Value)
		}
	}
	return nil
}

func (c *configContext) loadingShouldFailWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error but got none")
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

func (c *configContext) loaded() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, err := config.LoadOrDefault(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *configContext) iRunConfigList() error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigListWithDependencies(cfg, c.configPath, c.output)
	return nil
}

func (c *configContext) iRunConfigGet(key string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigGetWithDependencies(cfg, c.configPath, key, c.output)
	return nil
}

func (c *configContext) iRunConfigSet(key, value string) error {
	cfg, err := c.loaded()
	if err != nil {
		return err
	}
	c.err = cmd.RunConfigSetWithDependencies(cfg, c.configPath, key, value, c.output)
	return nil
}

func (c *configContext) theConfigOutputShouldContain(expected string) error {
	if c.err != nil {
		return fmt.Errorf("config command failed: %w", c.err)
	}
	if !strings.Contains(c.output.String(), expected) {
		return fmt.Errorf("expected output to contain %q, got:\n%s", expected, c.output.String())
	}
	return nil
}

func (c *configContext) theConfigCommandShouldFailWith(message string) error {
	if c.err == nil {
		return fmt.Errorf("expected the config command to fail")
	}
	if !strings.Contains(c.err.Error(), message) {
		return fmt.Errorf("expected error containing %q, got %q", message, c.err.Error())
	}
	return nil
}

// theSettingShouldBe reloads the file so that only saved values count
func (c *configContext) theSettingShouldBe(key, expected string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	got, err := config.NewConfigManager(cfg, c.configPath).Get(key)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s %q, got %q", key, expected, got)
	}
	return nil
}

func (c *configContext) theConfigurationFileShouldBeUnchanged() error {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return err
	}
	if string(data) != c.original {
		return fmt.Errorf("configuration file was changed")
	}
	return nil
}
