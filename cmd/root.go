package cmd

import (
	"fmt"
	"os"

	"tscut/domain/media"
	"tscut/infrastructure/backend"
	"tscut/infrastructure/config"
	"tscut/infrastructure/logging"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile     string
	logLevel    string
	backendName string

	cfg    *config.Config
	cfgErr error
)

var rootCmd = &cobra.Command{
	Use:   "tscut",
	Short: "Cut and split MPEG transport streams without re-encoding",
	Long: `tscut copies compressed packets between media containers:

  - Cut a keyframe-aligned segment out of a recording
  - Split every audio track into its own file
  - Probe an input for metadata, tracks and duration

Example:
  tscut cut --input recording.ts --output news.ts --skip 00:05:30 --duration 600`,
	SilenceUsage: true,
}

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./"+config.DefaultPath+")")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level, overrides the config (debug, info, warning, error)")
	rootCmd.PersistentFlags().StringVar(&backendName, "backend", "", "media library, overrides the config (native or ffmpeg)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultPath
	}

	// A missing config file is fine; every setting has a default
	cfg, _, cfgErr = config.LoadOrDefault(cfgFile)
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}

// loadConfig returns the configuration with command line overrides applied
func loadConfig() (*config.Config, error) {
	if cfgErr != nil {
		return nil, cfgErr
	}
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}

	c := *cfg
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if backendName != "" {
		c.Backend = backendName
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// newLibrary sets up process logging and returns the initialized media
// library the configuration selects
func newLibrary(c *config.Config) (media.Library, *logrus.Logger, error) {
	log, err := logging.Init(logging.LogConfig{
		Path:       c.Log.File,
		MaxAgeDays: c.Log.MaxAgeDays,
		Level:      c.Log.Level,
		Format:     c.Log.Format,
	})
	if err != nil {
		return nil, nil, media.NewError(media.InitFailure, "init logging", c.Log.File, err)
	}

	lib, err := backend.New(c.Backend, log)
	if err != nil {
		return nil, nil, media.NewError(media.InitFailure, "select backend", "", err)
	}
	if err := lib.Init(logging.MediaLevel(log.GetLevel())); err != nil {
		return nil, nil, media.NewError(media.InitFailure, "init "+lib.Name(), "", err)
	}
	return lib, log, nil
}
