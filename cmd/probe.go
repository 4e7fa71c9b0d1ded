package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	appremux "tscut/application/remux"
	"tscut/domain/media"
	"tscut/domain/remux"
	"tscut/infrastructure/filesystem"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	probeInputPath string
	probeTracks    bool
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Print metadata, best tracks and duration of an input",
	Long: `Open the input and print its container metadata as key: value lines,
the best video, audio and subtitle track and the duration in seconds.

Example:
  tscut probe --input recording.ts
  tscut probe --input recording.ts --tracks`,
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().StringVar(&probeInputPath, "input", "", "Path to the input file (required)")
	probeCmd.Flags().BoolVar(&probeTracks, "tracks", false, "Also print a table of every track")
	probeCmd.MarkFlagRequired("input")
}

func runProbe(cmd *cobra.Command, args []string) error {
	c, err := loadConfig()
	if err != nil {
		return err
	}

	lib, log, err := newLibrary(c)
	if err != nil {
		return err
	}

	return RunProbeWithDependencies(cmd.Context(), lib, filesystem.NewChecker(), log, probeInputPath, probeTracks, os.Stdout)
}

// RunProbeWithDependencies runs the probe command with injected dependencies (for testing)
func RunProbeWithDependencies(
	ctx context.Context,
	library media.Library,
	fileChecker remux.FileChecker,
	log logrus.FieldLogger,
	inputPath string,
	showTracks bool,
	output OutputWriter,
) error {
	if !fileChecker.Exists(inputPath) {
		return fmt.Errorf("input file does not exist: %s", inputPath)
	}

	service := appremux.NewProbeService(library, appremux.WithLogger(log))
	report, err := service.Probe(ctx, inputPath)
	if err != nil {
		return err
	}

	for _, line := range report.Lines() {
		fmt.Fprintln(output, line)
	}

	if !showTracks {
		return nil
	}

	if info, err := os.Stat(inputPath); err == nil {
		fmt.Fprintf(output, "size: %s\n", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Fprintln(output, trackTable(report.Tracks))
	return nil
}

func trackTable(tracks []media.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, t := range tracks {
		codec := "unknown"
		if t.Params != nil {
			codec = t.Params.CodecName()
		}
		rows = append(rows, []string{
			strconv.Itoa(t.Index),
			fmt.Sprintf("0x%x", t.ID),
			t.Kind.String(),
			codec,
			t.TimeBase.String(),
		})
	}
	return renderTable(
		[]string{"Index", "ID", "Kind", "Codec", "Time base"},
		rows,
		[]columnAlignment{alignRight, alignRight, alignLeft, alignLeft, alignRight},
	)
}
