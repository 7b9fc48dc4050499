package main

import (
	"fmt"
	"os"

	"surveyflow/adapters/excelreport"
	"surveyflow/adapters/qualtrics"
	"surveyflow/app"
	"surveyflow/domain/core"
	"surveyflow/domain/run"
	"surveyflow/internal"
	"surveyflow/internal/config"
	"surveyflow/ports"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "surveyflow",
		Short: "Clean two-condition survey exports and run the flow hypothesis tests",
	}

	rootCmd.AddCommand(newAnalyzeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newAnalyzeCmd() *cobra.Command {
	var silentFile string
	var audioFile string
	var reportOut string
	var manifestOut string
	var extended bool
	var noCharts bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run the cleaning pipeline, hypothesis tests, and report",
		Long: `Clean both conditions' Qualtrics exports through the ordered filter
chain, compute composite flow scores, run the Mann-Whitney and
Levene-on-ranks tests, and print the combined report. The extended
variant adds the shopping-frequency bound and two moderator models.

Example: surveyflow analyze --silent-file silent.csv --audio-file sound.csv --extended`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, silentFile, audioFile, reportOut, manifestOut, extended, noCharts)
		},
	}

	cmd.Flags().StringVar(&silentFile, "silent-file", "", "Silent condition export (overrides SILENT_FILE)")
	cmd.Flags().StringVar(&audioFile, "audio-file", "", "Auditory condition export (overrides AUDIO_FILE)")
	cmd.Flags().StringVar(&reportOut, "report-out", "", "Chart workbook path (overrides REPORT_PATH)")
	cmd.Flags().StringVar(&manifestOut, "manifest-out", "", "Write a replay manifest for the run as JSON")
	cmd.Flags().BoolVar(&extended, "extended", false, "Run the extended variant (frequency bound + moderators)")
	cmd.Flags().BoolVar(&noCharts, "no-charts", false, "Skip the chart workbook")

	return cmd
}

func runAnalyze(cmd *cobra.Command, silentFile, audioFile, reportOut, manifestOut string, extended, noCharts bool) (err error) {
	log := internal.DefaultLogger

	// Anything unexpected below ends the run with a message, not a crash.
	defer func() {
		if r := recover(); r != nil {
			log.Error("analysis aborted: %v", r)
			err = fmt.Errorf("analysis aborted: %v", r)
		}
	}()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if silentFile != "" {
		cfg.Silent.SourcePath = silentFile
	}
	if audioFile != "" {
		cfg.Audio.SourcePath = audioFile
	}
	if reportOut != "" {
		cfg.ReportPath = reportOut
	}
	if extended {
		cfg.Spec.Extended = true
	}

	var renderer ports.ChartRenderer
	if !noCharts {
		renderer = excelreport.NewRenderer(cfg.ReportPath)
	}

	openSource := func(path string) ports.RecordSource { return qualtrics.NewReader(path) }
	service := app.NewAnalysisService(openSource, renderer, log)

	report, err := service.Run(cmd.Context(), cfg.Silent, cfg.Audio, cfg.Spec)
	if err != nil {
		if core.IsLoadError(err) {
			log.Error("load failed: %v", err)
		}
		return err
	}

	report.WriteText(cmd.OutOrStdout())

	if manifestOut != "" {
		if err := writeManifest(manifestOut, report.RunID, cfg); err != nil {
			log.Warn("manifest not written: %v", err)
		}
	}
	return nil
}

// writeManifest records the run's inputs and constants for replay.
func writeManifest(path string, runID core.RunID, cfg *config.Config) error {
	m := run.NewManifest(runID, cfg.Silent, cfg.Audio, cfg.Spec, version)
	if err := m.Validate(); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return m.WriteJSON(f)
}
