package cmd

import (
	"context"
	"fmt"
	"os"

	appremux "tscut/application/remux"
	"tscut/domain/media"
	"tscut/domain/remux"
	"tscut/infrastructure/config"
	"tscut/infrastructure/filesystem"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	splitInputPath string
	splitBaseDir   string
	splitSegment   string
)

var splitAudioCmd = &cobra.Command{
	Use:   "split-audio",
	Short: "Write every audio track of an input to its own file",
	Long: `Copy audio track n of the input, in input order, to
<base-dir>/<prefix><n>/<segment>. All outputs are written under a temporary
name and only renamed once every output is complete.

Example:
  tscut split-audio --input recording.ts --base-dir /srv/audio --segment 2024-03-01.ts`,
	RunE: runSplitAudio,
}

func init() {
	rootCmd.AddCommand(splitAudioCmd)
	splitAudioCmd.Flags().StringVar(&splitInputPath, "input", "", "Path to the input file (required)")
	splitAudioCmd.Flags().StringVar(&splitBaseDir, "base-dir", "", "Directory the per-track directories are created in (required)")
	splitAudioCmd.Flags().StringVar(&splitSegment, "segment", "", "Output file name inside every track directory (required)")
	splitAudioCmd.MarkFlagRequired("input")
	splitAudioCmd.MarkFlagRequired("base-dir")
	splitAudioCmd.MarkFlagRequired("segment")
}

func runSplitAudio(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	lib, log, err := newLibrary(c)
	if err != nil {
		return err
	}

	fs := filesystem.NewChecker()
	return RunSplitAudioWithDependencies(
		cmd.Context(),
		lib,
		fs,
		fs,
		fs,
		log,
		c.Split,
		c.Remux.PreserveStreamIDs,
		appremux.SplitInput{
			InputPath: splitInputPath,
			BaseDir:   splitBaseDir,
			Segment:   splitSegment,
		},
		os.Stdout,
	)
}

// RunSplitAudioWithDependencies runs the split-audio command with injected dependencies (for testing)
func RunSplitAudioWithDependencies(
	ctx context.Context,
	library media.Library,
	fileChecker remux.FileChecker,
	dirs remux.DirectoryMaker,
	renamer remux.Renamer,
	log logrus.FieldLogger,
	layout config.SplitConfig,
	preserveIDs bool,
	input appremux.SplitInput,
	output OutputWriter,
) error {
	if !fileChecker.Exists(input.InputPath) {
		return fmt.Errorf("input file does not exist: %s", input.InputPath)
	}

	service := appremux.NewSplitService(library, dirs, renamer,
		appremux.WithLogger(log),
		appremux.WithPreserveStreamIDs(preserveIDs),
		appremux.WithSplitLayout(layout.DirectoryPrefix, layout.TempMarker, layout.DefaultExtension),
	)

	fmt.Fprintf(output, "Splitting audio tracks of %s...\n", input.InputPath)

	result, err := service.Split(ctx, input)
	if err != nil {
		return err
	}

	if result.Count() == 0 {
		fmt.Fprintln(output, "Input has no audio tracks")
		return nil
	}

	for _, path := range result.Outputs {
		fmt.Fprintf(output, "  %s\n", path)
	}
	fmt.Fprintf(output, "Successfully created %d audio files\n", result.Count())
	return nil
}
