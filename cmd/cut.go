package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	appremux "tscut/application/remux"
	"tscut/domain/media"
	"tscut/domain/remux"
	"tscut/infrastructure/filesystem"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cutInputPath  string
	cutOutputPath string
	cutSkip       string
	cutDuration   string
)

var cutCmd = &cobra.Command{
	Use:   "cut",
	Short: "Cut a keyframe-aligned segment out of an input",
	Long: `Copy the part of the input that starts at the first video keyframe at
least --skip into the stream and lasts at most --duration.

Offsets are seconds or HH:MM:SS[.mmm]. A duration of 0 copies to the end.
Relative output paths are resolved in cut.output_directory when configured.

Example:
  tscut cut --input recording.ts --output news.ts --skip 00:05:30 --duration 00:28:00
  tscut cut --input recording.ts --output tail.mp4 --skip 3600`,
	RunE: runCut,
}

func init() {
	rootCmd.AddCommand(cutCmd)
	cutCmd.Flags().StringVar(&cutInputPath, "input", "", "Path to the input file (required)")
	cutCmd.Flags().StringVar(&cutOutputPath, "output", "", "Path to the output file (required)")
	cutCmd.Flags().StringVar(&cutSkip, "skip", "0", "Offset to start from")
	cutCmd.Flags().StringVar(&cutDuration, "duration", "0", "Maximum segment length, 0 for no limit")
	cutCmd.MarkFlagRequired("input")
	cutCmd.MarkFlagRequired("output")
}

func runCut(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	skip, err := remux.ParseOffset(cutSkip)
	if err != nil {
		return fmt.Errorf("invalid --skip: %w", err)
	}
	duration, err := remux.ParseOffset(cutDuration)
	if err != nil {
		return fmt.Errorf("invalid --duration: %w", err)
	}

	lib, log, err := newLibrary(c)
	if err != nil {
		return err
	}

	return RunCutWithDependencies(
		cmd.Context(),
		lib,
		filesystem.NewChecker(),
		log,
		c.Cut.OutputDirectory,
		c.Remux.PreserveStreamIDs,
		appremux.CutInput{
			InputPath:  cutInputPath,
			OutputPath: cutOutputPath,
			Skip:       skip,
			Duration:   duration,
		},
		os.Stdout,
	)
}

// RunCutWithDependencies runs the cut command with injected dependencies (for testing)
func RunCutWithDependencies(
	ctx context.Context,
	library media.Library,
	fileChecker remux.FileChecker,
	log logrus.FieldLogger,
	outputDir string,
	preserveIDs bool,
	input appremux.CutInput,
	output OutputWriter,
) error {
	if !fileChecker.Exists(input.InputPath) {
		return fmt.Errorf("input file does not exist: %s", input.InputPath)
	}
	if outputDir != "" && !filepath.IsAbs(input.OutputPath) {
		input.OutputPath = filepath.Join(outputDir, input.OutputPath)
	}

	service := appremux.NewCutService(library,
		appremux.WithLogger(log),
		appremux.WithPreserveStreamIDs(preserveIDs),
	)

	fmt.Fprintf(output, "Cutting %s from %s...\n", input.InputPath, remux.FormatOffset(input.Skip))

	result, err := service.Cut(ctx, input)
	if err != nil {
		return err
	}

	if !result.Started {
		fmt.Fprintf(output, "No keyframe found after %s; %s has no packets\n", remux.FormatOffset(input.Skip), result.OutputPath)
		return nil
	}

	fmt.Fprintf(output, "Segment starts at %s (stream starts at %s)\n",
		remux.FormatOffset(result.SegmentStart), remux.FormatOffset(result.StreamStart))
	fmt.Fprintf(output, "Skipped %d and copied %d video packets, %d packets written\n",
		result.SkippedVideo, result.ForwardedVideo, result.Output.Written)
	if result.Output.WriteFailures > 0 {
		fmt.Fprintf(output, "Warning: %d packets could not be written\n", result.Output.WriteFailures)
	}
	if result.Halted {
		fmt.Fprintf(output, "Stopped at the duration limit of %s\n", remux.FormatOffset(input.Duration))
	}
	fmt.Fprintf(output, "Successfully created: %s\n", result.OutputPath)
	return nil
}
